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
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sbomfinder/sbomfinder/normalize"
)

// directories that never contain first-party manifests
var skippedDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"vendor":       {},
	"target":       {},
}

// NewScanCommand collects dependency manifests from a directory tree and
// uploads them for ingestion.
func NewScanCommand() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Upload the dependency manifests of a project directory",
		Long:  `Walk a project directory, collect the dependency manifests it contains (package.json, requirements.txt, pom.xml, go.mod, ...) and upload them. The backend extracts the declared packages and builds an SBOM from them.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiUrl, err := apiURL(cmd)
			if err != nil {
				return err
			}
			fields, err := metadataFields(cmd)
			if err != nil {
				return err
			}

			manifests, err := collectManifests(args[0])
			if err != nil {
				return err
			}
			if len(manifests) == 0 {
				return fmt.Errorf("no dependency manifests found in %s", args[0])
			}
			slog.Info("found dependency manifests", "amount", len(manifests))

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			result, err := uploadFiles(ctx, apiUrl+"/api/v1/sboms/upload-source", "files", manifests, fields)
			if err != nil {
				return err
			}

			slog.Info("upload accepted", "device", result.DeviceID, "version", result.Version, "packages", result.PackageCount)
			return nil
		},
	}

	addMetadataFlags(scanCmd)
	return scanCmd
}

func collectManifests(root string) ([]string, error) {
	var manifests []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, skip := skippedDirs[d.Name()]; skip {
				return filepath.SkipDir
			}
			return nil
		}
		if normalize.DetectManifestKind(d.Name()) != normalize.ManifestKindUnknown {
			manifests = append(manifests, path)
		}
		return nil
	})
	return manifests, err
}
