// Package launch starts the program behind a selected entity.
//
// Apps and files are handed to the platform opener (open on macOS, xdg-open
// elsewhere). Entities that carry a command, Run entries, built-in actions
// and .desktop apps, are executed with sh -c. Launched processes are not
// tied to the launcher's lifetime.
package launch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// Launcher builds and starts commands for entities.
type Launcher struct {
	goos   string
	shell  string
	dryRun io.Writer
	logger *slog.Logger
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithGOOS picks the opener for goos instead of runtime.GOOS.
func WithGOOS(goos string) Option {
	return func(l *Launcher) {
		l.goos = goos
	}
}

// WithShell sets the shell used for commands. Default: /bin/sh
func WithShell(shell string) Option {
	return func(l *Launcher) {
		if shell != "" {
			l.shell = shell
		}
	}
}

// WithDryRun prints the command line to w instead of starting it.
func WithDryRun(w io.Writer) Option {
	return func(l *Launcher) {
		l.dryRun = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Launcher.
func New(opts ...Option) *Launcher {
	l := &Launcher{
		goos:   runtime.GOOS,
		shell:  "/bin/sh",
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DryRun reports whether commands are printed instead of started.
func (l *Launcher) DryRun() bool { return l.dryRun != nil }

// Command returns the command that launches e without starting it.
func (l *Launcher) Command(e launcher.Entity) (*exec.Cmd, error) {
	if cmd := strings.TrimSpace(e.Command); cmd != "" {
		return exec.Command(l.shell, "-c", cmd), nil
	}

	switch e.Mode {
	case launcher.ModeApps, launcher.ModeFiles:
		opener, err := l.opener()
		if err != nil {
			return nil, err
		}
		if e.ID == "" {
			return nil, launchError(e, "entity has no path", nil)
		}
		return exec.Command(opener, e.ID), nil
	case launcher.ModeRun:
		return nil, launchError(e, "run entry has no command", nil)
	default:
		return nil, amerrors.InvalidMode(e.Mode.String())
	}
}

func (l *Launcher) opener() (string, error) {
	switch l.goos {
	case "darwin":
		return "open", nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", nil
	default:
		return "", amerrors.New(amerrors.ErrCodeLaunchFailed,
			fmt.Sprintf("no opener for platform %s", l.goos), nil).
			WithDetail("goos", l.goos)
	}
}

// Launch starts e and returns once the process is running. The process is
// reaped in the background; ctx only guards the start.
func (l *Launcher) Launch(ctx context.Context, e launcher.Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd, err := l.Command(e)
	if err != nil {
		return err
	}

	if l.dryRun != nil {
		_, err := fmt.Fprintln(l.dryRun, strings.Join(cmd.Args, " "))
		return err
	}

	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Env = os.Environ()
	detach(cmd)

	if err := cmd.Start(); err != nil {
		return launchError(e, "failed to start", err)
	}
	l.logger.Info("launched",
		slog.String("mode", e.Mode.String()),
		slog.String("id", e.ID),
		slog.Int("pid", cmd.Process.Pid))

	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Debug("launched process exited",
				slog.String("id", e.ID),
				slog.String("error", err.Error()))
		}
	}()
	return nil
}

func launchError(e launcher.Entity, msg string, cause error) *amerrors.LauncherError {
	return amerrors.New(amerrors.ErrCodeLaunchFailed, fmt.Sprintf("%s: %s", e.Name, msg), cause).
		WithDetail("mode", e.Mode.String()).
		WithDetail("id", e.ID)
}
