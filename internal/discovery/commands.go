package discovery

import (
	"context"
	"strings"

	"github.com/Aman-CERP/amanlaunch/internal/config"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// CommandSource serves the Run catalog from configuration.
type CommandSource struct {
	commands []config.CommandConfig
}

var _ Source = (*CommandSource)(nil)

// NewCommandSource copies commands. Entries without a name or command are
// ignored at discovery time.
func NewCommandSource(commands []config.CommandConfig) *CommandSource {
	return &CommandSource{commands: append([]config.CommandConfig(nil), commands...)}
}

// Mode returns launcher.ModeRun.
func (s *CommandSource) Mode() launcher.Mode { return launcher.ModeRun }

// Discover returns one entity per configured command, in configuration
// order. The ID is derived from the name, so renaming a command changes
// its identity.
func (s *CommandSource) Discover(ctx context.Context) ([]launcher.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]launcher.Entity, 0, len(s.commands))
	for _, c := range s.commands {
		name := strings.TrimSpace(c.Name)
		command := strings.TrimSpace(c.Command)
		if name == "" || command == "" {
			continue
		}
		secondary := c.Description
		if secondary == "" {
			secondary = command
		}
		out = append(out, launcher.Entity{
			ID:        CommandID(name),
			Name:      name,
			Secondary: secondary,
			Mode:      launcher.ModeRun,
			Command:   command,
		})
	}
	return out, nil
}

// CommandID turns a command name into its stable identifier,
// e.g. "Lock Screen" becomes "cmd:lock-screen".
func CommandID(name string) string {
	return "cmd:" + strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
