package launcher

import (
	"strings"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
)

// Mode partitions the catalog and the results. The set is closed.
type Mode int

const (
	// ModeApps searches installed applications and built-in actions.
	ModeApps Mode = iota
	// ModeFiles searches files under the configured roots.
	ModeFiles
	// ModeRun searches system commands.
	ModeRun

	modeCount
)

// NumModes is the number of modes.
const NumModes = int(modeCount)

var modeNames = [...]string{
	ModeApps:  "apps",
	ModeFiles: "files",
	ModeRun:   "run",
}

// String returns the lowercase mode name.
func (m Mode) String() string {
	if !m.Valid() {
		return "unknown"
	}
	return modeNames[m]
}

// Title returns the display label used in mode tabs.
func (m Mode) Title() string {
	switch m {
	case ModeApps:
		return "Apps"
	case ModeFiles:
		return "Files"
	case ModeRun:
		return "Run"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the three modes.
func (m Mode) Valid() bool {
	return m >= 0 && m < modeCount
}

// Next returns the mode after m, wrapping around.
func (m Mode) Next() Mode {
	if !m.Valid() {
		return ModeApps
	}
	return (m + 1) % modeCount
}

// AllModes returns the modes in tab order.
func AllModes() []Mode {
	return []Mode{ModeApps, ModeFiles, ModeRun}
}

// ParseMode converts a name (case-insensitive, singular accepted) to a Mode.
// Unknown names return an ErrInvalidMode error.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "apps", "app", "applications":
		return ModeApps, nil
	case "files", "file":
		return ModeFiles, nil
	case "run", "command", "commands", "cmd":
		return ModeRun, nil
	default:
		return 0, amerrors.InvalidMode(name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, amerrors.InvalidMode(m.String())
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
