package cmd

import (
	"fmt"
	"time"

	"github.com/msto63/voicedesk/internal/voicedesk"
	"github.com/msto63/voicedesk/internal/voicedesk/audio"
	"github.com/msto63/voicedesk/internal/voicedesk/speech"
	"github.com/msto63/voicedesk/pkg/core/health"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Prüft Audiosystem, Sprachausgabe und Aufnahmeverzeichnis",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, _, err := effectiveConfig(cmd)
	if err != nil {
		return err
	}

	var backend audio.Backend
	if pa, err := audio.NewPortAudio(); err == nil {
		defer pa.Close()
		backend = pa
	}

	player := audio.NewPlayer(backend, cfg.Audio.ChunkFrames, nil)
	engine, err := speech.NewEngine(voicedesk.EngineConfig(cfg), player, nil)
	if err != nil {
		engine = nil
	}

	report := voicedesk.NewSystemCheck(cfg, backend, engine).CheckWithTimeout(10 * time.Second)

	fmt.Printf("%s v%s\n\n", report.App, report.Version)
	for _, c := range report.Checks {
		fmt.Printf("  %-14s %-14s %s\n", c.Name, c.Status.Label(), c.Message)
	}
	fmt.Printf("\nGesamt: %s\n", report.Status.Label())

	if report.Status == health.StatusUnhealthy {
		return fmt.Errorf("system check failed")
	}
	return nil
}
