//go:build unix

package launch

import (
	"os/exec"
	"syscall"
)

// detach starts the child in its own session so closing the launcher's
// terminal does not take it down.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
