package cmd

import (
	"fmt"

	"github.com/msto63/voicedesk/internal/voicedesk/audio"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Listet die Audio-Eingabegeräte auf",
	Long: `Listet alle Audio-Eingabegeräte der Standard-Host-API auf.

Die angezeigte ID kann mit --device oder in der Konfiguration
(audio.input_device) verwendet werden.`,
	RunE: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	pa, err := audio.NewPortAudio()
	if err != nil {
		printError("Audiosystem konnte nicht initialisiert werden", err)
		return err
	}
	defer pa.Close()

	devices, err := pa.InputDevices()
	if err != nil {
		printError("Geräte konnten nicht ermittelt werden", err)
		return err
	}
	in, out, err := pa.DefaultDevices()
	if err != nil {
		printError("Standardgeräte konnten nicht ermittelt werden", err)
	}

	if len(devices) == 0 {
		fmt.Println("Keine Eingabegeräte gefunden.")
	} else {
		fmt.Printf("%-4s %-40s %-8s %s\n", "ID", "NAME", "KANÄLE", "RATE")
		for _, d := range devices {
			name := d.Name
			if d.IsDefault {
				name += " *"
			}
			fmt.Printf("%-4d %-40s %-8d %.0f Hz\n", d.ID, name, d.InputChannels, d.DefaultSampleRate)
		}
	}

	fmt.Println()
	fmt.Printf("Standard-Eingang: %s\n", in)
	fmt.Printf("Standard-Ausgang: %s\n", out)
	return nil
}
