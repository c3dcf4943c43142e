// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the stebantolib CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the stebantolib CLI.
var rootCmd = &cobra.Command{
	Use:   "stebantolib",
	Short: "Convert MSP spectral libraries to MassBank3 records",
	Long: `stebantolib converts NIST MSP spectral library files into MassBank3
record files. It parses multi-record MSP input, resolves compound
classifications through ClassyFire and NPClassifier, and writes one
MassBank record text per spectrum.

Each stage is a subcommand: convert runs the full pipeline, classify
looks up a single compound, and library inspects the record index.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./stebantolib.yaml or ~/.config/stebantolib/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("stebantolib")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "stebantolib"))
		}
	}

	viper.SetEnvPrefix("STEBANTOLIB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
