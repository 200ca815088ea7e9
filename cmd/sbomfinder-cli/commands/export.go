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
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewExportCommand downloads the latest archived SBOM of a device.
func NewExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export <device-id>",
		Short: "Download the latest archived SBOM of a device",
		Long:  `Download the latest archived SBOM of a device in CycloneDX or SPDX format. Use '-' as output to write to stdout.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deviceID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid device id: %s", args[0])
			}

			apiUrl, err := apiURL(cmd)
			if err != nil {
				return err
			}
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return err
			}
			outPath, err := cmd.Flags().GetString("output")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			endpoint := fmt.Sprintf("%s/api/v1/devices/download/%s/latest?format=%s", apiUrl, deviceID, url.QueryEscape(format))
			return download(ctx, endpoint, outPath)
		},
	}

	exportCmd.Flags().String("format", "cyclonedx", "The export format. Either 'cyclonedx' or 'spdx'")
	exportCmd.Flags().StringP("output", "o", "-", "The file to write the SBOM to. '-' writes to stdout")
	return exportCmd
}
