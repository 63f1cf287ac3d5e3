package session

import (
	"sync/atomic"

	amerrors "github.com/Aman-CERP/amanlaunch/internal/errors"
	"github.com/Aman-CERP/amanlaunch/internal/launcher"
)

// ModeController holds the active mode. Switching is a single atomic store.
type ModeController struct {
	current atomic.Int32
	enabled [launcher.NumModes]bool
}

// NewModeController starts in initial with every mode enabled except those
// listed in disabled. A disabled initial mode falls back to the first enabled
// one; disabling every mode is a config error.
func NewModeController(initial launcher.Mode, disabled ...launcher.Mode) (*ModeController, error) {
	if !initial.Valid() {
		return nil, amerrors.InvalidMode(initial.String())
	}

	mc := &ModeController{}
	for _, m := range launcher.AllModes() {
		mc.enabled[m] = true
	}
	for _, m := range disabled {
		if !m.Valid() {
			return nil, amerrors.InvalidMode(m.String())
		}
		mc.enabled[m] = false
	}

	start := initial
	if !mc.enabled[start] {
		start = -1
		for _, m := range launcher.AllModes() {
			if mc.enabled[m] {
				start = m
				break
			}
		}
		if start < 0 {
			return nil, amerrors.ConfigError("every mode is disabled", nil).
				WithSuggestion("enable at least one of apps, files, run")
		}
	}
	mc.current.Store(int32(start))
	return mc, nil
}

// Current returns the active mode.
func (mc *ModeController) Current() launcher.Mode {
	return launcher.Mode(mc.current.Load())
}

// Enabled reports whether m can be selected.
func (mc *ModeController) Enabled(m launcher.Mode) bool {
	return m.Valid() && mc.enabled[m]
}

// EnabledModes lists the selectable modes in cycle order.
func (mc *ModeController) EnabledModes() []launcher.Mode {
	var out []launcher.Mode
	for _, m := range launcher.AllModes() {
		if mc.enabled[m] {
			out = append(out, m)
		}
	}
	return out
}

// Set switches to m. Unknown and disabled modes are InvalidMode errors.
func (mc *ModeController) Set(m launcher.Mode) error {
	if !mc.Enabled(m) {
		err := amerrors.InvalidMode(m.String())
		if m.Valid() {
			err = err.WithDetail("reason", "disabled")
		}
		return err
	}
	mc.current.Store(int32(m))
	return nil
}

// Next returns the enabled mode after the current one, wrapping around.
func (mc *ModeController) Next() launcher.Mode {
	cur := mc.Current()
	m := cur
	for i := 0; i < launcher.NumModes; i++ {
		m = m.Next()
		if mc.enabled[m] {
			return m
		}
	}
	return cur
}
