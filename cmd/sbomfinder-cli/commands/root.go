// Copyright (C) 2025 the sbomfinder authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sbomfinder/sbomfinder/config"
)

const defaultConfigFilename = ".sbomfinder"

var RootCmd = &cobra.Command{
	SilenceUsage:      true,
	Use:               "sbomfinder-cli",
	Short:             "Inventory the software running on your devices",
	Version:           config.Version,
	DisableAutoGenTag: true,
	Long: `Command line client for a sbomfinder backend.

Upload SBOM documents or raw dependency manifests, list the devices the
backend knows about and download archived SBOMs in CycloneDX or SPDX
format. Configuration can be provided via a ./.sbomfinder config file or
environment variables (prefix SBOMFINDER_).`,
	Example: `  # Upload a CycloneDX or SPDX document
  sbomfinder-cli upload bom.json --category "Smart Home" --device-name "thermostat-x1"

  # Scan a project directory for dependency manifests and upload them
  sbomfinder-cli scan ./firmware/src --category "Fitness Wearables"

  # List devices and download the latest SBOM of one of them
  sbomfinder-cli devices
  sbomfinder-cli export 6f1c... --format spdx -o thermostat.spdx.json`,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := cmd.Flags().GetString("logLevel")
		if err != nil {
			return err
		}

		switch level {
		case "debug":
			initLogger(slog.LevelDebug)
		case "warn":
			initLogger(slog.LevelWarn)
		case "error":
			initLogger(slog.LevelError)
		default:
			initLogger(slog.LevelInfo)
		}

		return initializeConfig(cmd)
	},
}

func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("sbomfinder-cli\n")
			fmt.Printf("Version: %s\n", config.Version)
			fmt.Printf("Commit:  %s\n", config.Commit)
		},
	}

	RootCmd.AddCommand(
		versionCmd,
		NewUploadCommand(),
		NewScanCommand(),
		NewDevicesCommand(),
		NewExportCommand(),
	)

	RootCmd.PersistentFlags().StringP("logLevel", "l", "info", "Set the log level. Options: debug, info, warn, error")
	RootCmd.PersistentFlags().String("apiUrl", "http://localhost:8080", "The url of the sbomfinder API")
}

func initLogger(level slog.Leveler) {
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

func initializeConfig(cmd *cobra.Command) error {
	viper.SetConfigName(defaultConfigFilename)
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/sbomfinder/")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		slog.Debug("no config file found")
	}

	viper.SetEnvPrefix("SBOMFINDER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	bindFlags(cmd)
	return nil
}

// bindFlags applies viper values to any flag the user did not set explicitly,
// so config file and environment variables act as defaults.
func bindFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if !f.Changed && viper.IsSet(f.Name) {
			val := viper.Get(f.Name)
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)) // nolint: errcheck
		}

		if err := viper.BindPFlag(f.Name, f); err != nil {
			slog.Error("could not bind flag to viper", "err", err)
		}
	})
}
