package cmd

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Zeigt die wirksame Konfiguration an",
	Long: `Gibt die wirksame Konfiguration im TOML-Format aus: Datei,
gespeicherte Einstellungen und Kommandozeilen-Flags zusammengeführt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := effectiveConfig(cmd)
		if err != nil {
			return err
		}
		return toml.NewEncoder(os.Stdout).Encode(cfg)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
