/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"vermlog/config"
	"vermlog/internal/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	dbPath  string

	logCloser io.Closer
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vermlog",
	Short: "Log surveying work per site and cost center, and export monthly reports.",
	Long: `
**********************************************
*              VERMLOG                       *
**********************************************

This CLI records surveying work entries (site, cost center, activity, result) in a local SQLite
database. Each entry carries either a start/end time or a direct day fraction; time ranges are
converted into day fractions based on the configured workday length and rounding step.

Monthly reports aggregate the day fractions per day and cost center and can be exported to
CSV, Excel or PDF.
`,
	Example: `
  # Create configuration file
  vermlog config create

  # Log four hours on a site
  vermlog entry add --site "Baustelle Nord" --kst 4711 --activity Aufmaß --result Lageplan --start 08:00 --end 12:00

  # Log half a day without times, reusing the last site
  vermlog entry add --use-last-site --activity Büro --result Protokoll --fraction 0,5

  # Open the terminal form or the browser form
  vermlog form
  vermlog serve

  # Export the monthly report
  vermlog export --month 2026-03 --output ./monatsbericht_2026-03.xlsx
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.vermlog.yaml, then ./.vermlog.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to local SQLite database (default: storage.path or $OneDrive/Stunden/log.db)")
}

// setupLogging installs the zerolog logger. Config commands must keep working
// with a broken config file, so they only get console logging.
func setupLogging(cmd *cobra.Command) error {
	if isConfigCommand(cmd) {
		closer, err := logger.Configure(logger.Options{Level: viper.GetString(config.KeyLogLevel)})
		if err != nil {
			closer, _ = logger.Configure(logger.Options{})
		}
		logCloser = closer
		return nil
	}

	cfg, err := config.LoadAndValidate()
	if err != nil {
		return err
	}
	resolvedDB, err := cfg.DatabasePath(dbPath)
	if err != nil {
		return err
	}
	logFile, err := cfg.LogFilePath(resolvedDB)
	if err != nil {
		return err
	}
	closer, err := logger.Configure(logger.Options{Level: cfg.Log.Level, File: logFile})
	if err != nil {
		return err
	}
	logCloser = closer
	log.Debug().Str("command", cmd.CommandPath()).Str("db", resolvedDB).Str("config", viper.ConfigFileUsed()).Msg("starting")
	return nil
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".vermlog" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vermlog")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: vermlog config create")
	}
}
