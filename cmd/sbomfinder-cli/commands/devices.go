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

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/utils"
)

// NewDevicesCommand lists the devices known to the backend.
func NewDevicesCommand() *cobra.Command {
	devicesCmd := &cobra.Command{
		Use:   "devices",
		Short: "List the devices known to the backend",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiUrl, err := apiURL(cmd)
			if err != nil {
				return err
			}
			query, err := cmd.Flags().GetString("search")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			var devices []dtos.DeviceDetailsDTO
			endpoint := apiUrl + "/api/v1/devices/all"
			if query != "" {
				endpoint = apiUrl + "/api/v1/devices/search?query=" + url.QueryEscape(query)
			}
			if err := getJSON(ctx, endpoint, &devices); err != nil {
				return err
			}

			tw := table.NewWriter()
			tw.AppendHeader(table.Row{"ID", "Device", "Manufacturer", "Category", "OS", "Packages", "Vulnerabilities"})
			tw.AppendRows(utils.Map(devices, func(device dtos.DeviceDetailsDTO) table.Row {
				return table.Row{
					device.ID,
					device.DeviceName,
					device.Manufacturer,
					device.Category,
					device.OperatingSystem,
					len(device.SoftwarePackages),
					len(device.Vulnerabilities),
				}
			}))

			fmt.Println(tw.Render())
			return nil
		},
	}

	devicesCmd.Flags().String("search", "", "Only list devices whose name contains the given string")
	return devicesCmd
}
