package voicedesk

import (
	"context"
	"runtime"

	"golang.design/x/hotkey"
)

// HotkeyDescription is the shortcut that toggles recording
const HotkeyDescription = "Ctrl+Shift+R"

// RunHotkey registers the global recording hotkey and toggles recording on
// every keydown until ctx is cancelled.
func (a *App) RunHotkey(ctx context.Context) error {
	// Skip hotkey registration on macOS due to known SIGTRAP crashes
	if runtime.GOOS == "darwin" {
		a.logger.Info("Hotkey disabled on macOS")
		return nil
	}

	hk := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, hotkey.ModShift}, hotkey.KeyR)
	if err := hk.Register(); err != nil {
		// A missing hotkey is not fatal
		a.logger.Warn("Failed to register hotkey", "shortcut", HotkeyDescription, "error", err)
		return nil
	}
	defer hk.Unregister()

	a.logger.Info("Hotkey registered", "shortcut", HotkeyDescription)

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-hk.Keydown():
			if !ok {
				a.logger.Warn("Hotkey listener stopped", "shortcut", HotkeyDescription)
				return nil
			}
			a.logger.Debug("Hotkey pressed")
			a.post(HotkeyEvent{})
			if err := a.ToggleRecording(""); err != nil {
				a.notice(SeverityWarning, "Aufnahme", err.Error())
			}
		}
	}
}
