package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/msto63/voicedesk/internal/tui"
	"github.com/msto63/voicedesk/internal/voicedesk"
	"github.com/msto63/voicedesk/pkg/core/config"
	"github.com/msto63/voicedesk/pkg/core/logging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var (
	cfgFile       string
	verbose       bool
	recordingsDir string
	inputDevice   int
	logLevel      string
	noHotkey      bool
)

var rootCmd = &cobra.Command{
	Use:   "voicedesk",
	Short: "VoiceDesk - Sprachaufnahme und Sprachausgabe",
	Long: `VoiceDesk nimmt Sprache vom Mikrofon als WAV-Datei auf, spielt
Aufnahmen ab und liest Text mit der Sprachausgabe des Systems vor.

Ohne Unterkommando startet die Terminal-Oberfläche:
  Aufnahme       - Aufnahme mit Pegelanzeige und Mikrofontest
  Sprachausgabe  - Text vorlesen (say, espeak-ng oder piper)
  Aufnahmen      - Aufnahmen abspielen und löschen
  Einstellungen  - Eingabegerät wählen

Beispiele:
  voicedesk                          # Oberfläche starten
  voicedesk --device 2               # Mit Eingabegerät 2
  voicedesk --recordings ~/Memos     # Anderes Aufnahmeverzeichnis
  voicedesk devices                  # Eingabegeräte auflisten`,
	SilenceUsage: true,
	RunE:         runUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config-Datei (default: ./configs/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Ausführliches Logging (debug)")
	rootCmd.PersistentFlags().StringVar(&recordingsDir, "recordings", "", "Verzeichnis für Aufnahmen")
	rootCmd.PersistentFlags().IntVar(&inputDevice, "device", -1, "Eingabegerät (-1 = Standardgerät)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log-Level (z.B. info oder info,RECD=debug)")
	rootCmd.Flags().BoolVar(&noHotkey, "no-hotkey", false, "Globalen Hotkey nicht registrieren")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Fehler: %s: %v\n", msg, err)
}

// effectiveConfig merges the config file, saved settings and flags. It
// returns the config and the settings path (empty if unavailable).
func effectiveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		printError("Konfiguration konnte nicht geladen werden", err)
		return nil, "", err
	}

	settingsPath, err := voicedesk.DefaultSettingsPath()
	if err != nil {
		printError("Einstellungsverzeichnis nicht verfügbar", err)
		settingsPath = ""
	} else {
		settings, err := voicedesk.LoadSettings(settingsPath)
		if err != nil {
			printError("Gespeicherte Einstellungen werden ignoriert", err)
		} else {
			settings.Apply(cfg)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("recordings") {
		cfg.Recording.Dir = recordingsDir
	}
	if flags.Changed("device") {
		cfg.Audio.InputDevice = inputDevice
	}
	if flags.Changed("log-level") {
		cfg.General.LogLevel = logLevel
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}
	if noHotkey {
		cfg.UI.Hotkey = false
	}

	if err := cfg.Validate(); err != nil {
		printError("Ungültige Konfiguration", err)
		return nil, "", err
	}
	return cfg, settingsPath, nil
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, settingsPath, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, log lines go to the file and the log panel
	logs, err := logging.NewBackend(logging.Config{
		File:     cfg.General.LogFile,
		Level:    cfg.General.LogLevel,
		MaxFiles: cfg.General.MaxLogFiles,
	})
	if err != nil {
		printError("Logging konnte nicht initialisiert werden", err)
		return err
	}
	defer logs.Close()

	lines := make(chan string, 256)
	logs.SetLineHandler(func(line string) {
		select {
		case lines <- line:
		default:
		}
	})

	var notifier voicedesk.Notifier
	if cfg.UI.DesktopNotifications {
		notifier = voicedesk.DesktopNotifier{AppName: voicedesk.AppName}
	}

	app, err := voicedesk.New(voicedesk.Options{
		Config:       cfg,
		Notifier:     notifier,
		Logs:         logs,
		SettingsPath: settingsPath,
	})
	if err != nil {
		printError("VoiceDesk konnte nicht gestartet werden", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := tui.Options{LogLines: lines}
	if cfg.UI.Hotkey {
		opts.Hotkey = voicedesk.HotkeyDescription
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Leaving the UI ends the watcher and the hotkey listener
		defer cancel()
		return tui.Run(gctx, app, opts)
	})
	g.Go(func() error {
		return app.RunWatcher(gctx)
	})
	if cfg.UI.Hotkey {
		g.Go(func() error {
			return app.RunHotkey(gctx)
		})
	}
	runErr := g.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.Close(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("shutdown: %w", err))
	}
	if runErr != nil {
		printError("VoiceDesk wurde mit Fehler beendet", runErr)
	}
	return runErr
}
