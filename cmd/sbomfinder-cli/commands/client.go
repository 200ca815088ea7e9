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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const requestTimeout = 60 * time.Second

func apiURL(cmd *cobra.Command) (string, error) {
	apiUrl, err := cmd.Flags().GetString("apiUrl")
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(apiUrl, "/"), nil
}

// addMetadataFlags registers the device metadata flags shared by the upload
// commands. Category is the only one the backend insists on.
func addMetadataFlags(cmd *cobra.Command) {
	cmd.Flags().String("device-name", "", "The name of the device the upload belongs to")
	cmd.Flags().String("manufacturer", "", "The manufacturer of the device")
	cmd.Flags().String("category", "", "The device category, e.g. 'Smart Home'")
	cmd.Flags().String("operating-system", "", "The operating system running on the device")
	cmd.Flags().String("os-version", "", "The operating system version")
	cmd.Flags().String("kernel-version", "", "The kernel version")

	if err := cmd.MarkFlagRequired("category"); err != nil {
		panic(err)
	}
}

func metadataFields(cmd *cobra.Command) (map[string]string, error) {
	fields := map[string]string{}
	for flag, field := range map[string]string{
		"device-name":      "deviceName",
		"manufacturer":     "manufacturer",
		"category":         "category",
		"operating-system": "operatingSystem",
		"os-version":       "osVersion",
		"kernel-version":   "kernelVersion",
	} {
		value, err := cmd.Flags().GetString(flag)
		if err != nil {
			return nil, err
		}
		if value != "" {
			fields[field] = value
		}
	}
	return fields, nil
}

func doRequest(req *http.Request) (*http.Response, error) {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not reach the sbomfinder api")
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var apiError struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiError); err == nil && apiError.Message != "" {
			return nil, fmt.Errorf("api returned %s: %s", resp.Status, apiError.Message)
		}
		return nil, fmt.Errorf("api returned %s", resp.Status)
	}
	return resp, nil
}

func getJSON(ctx context.Context, url string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(into)
}

func download(ctx context.Context, url, outPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := doRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if outPath == "" || outPath == "-" {
		_, err = io.Copy(os.Stdout, resp.Body)
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
