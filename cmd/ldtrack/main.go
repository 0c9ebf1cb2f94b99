// Package main is the entry point for the ldtrack CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fxbricks/ldtrack/internal/config"
	"github.com/fxbricks/ldtrack/internal/ledger"
	"github.com/fxbricks/ldtrack/version"
)

// cfg is the effective configuration, loaded before any command runs
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "ldtrack",
	Short: "Convert track part meshes into LDraw parts",
	Long: `ldtrack turns the raw STL (or OpenSCAD) mesh of every track part into a
watertight mesh, snaps the part's exact edge curves onto it and writes the
result as an LDraw part, together with an assembly per catalog item.`,
	Version:       version.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ldtrack.yaml or ~/.config/ldtrack/ldtrack.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ldtrack")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ldtrack"))
		}
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
		os.Exit(1)
	}
}

// openLedger opens the configured ledger, or returns nil when none is configured
func openLedger() (*ledger.Ledger, error) {
	if cfg.Ledger == "" {
		return nil, nil
	}
	return ledger.Open(cfg.Ledger)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
