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
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sbomfinder/sbomfinder/dtos"
)

// NewUploadCommand uploads a single CycloneDX or SPDX document.
func NewUploadCommand() *cobra.Command {
	uploadCmd := &cobra.Command{
		Use:   "upload <sbom-file>",
		Short: "Upload a CycloneDX or SPDX document",
		Long:  `Upload a single SBOM document in CycloneDX or SPDX JSON format. The backend normalizes it, enriches the contained packages with vulnerability data and archives the result.`,
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

			ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
			defer cancel()

			result, err := uploadFiles(ctx, apiUrl+"/api/v1/sboms/upload", "sbomFile", args[:1], fields)
			if err != nil {
				return err
			}

			slog.Info("upload accepted", "device", result.DeviceID, "version", result.Version, "packages", result.PackageCount)
			return nil
		},
	}

	addMetadataFlags(uploadCmd)
	return uploadCmd
}

func uploadFiles(ctx context.Context, url, fieldName string, paths []string, fields map[string]string) (*dtos.UploadResultDTO, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, err
		}
	}

	for _, path := range paths {
		if err := appendFilePart(writer, fieldName, path); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := doRequest(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result dtos.UploadResultDTO
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

func appendFilePart(writer *multipart.Writer, fieldName, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	part, err := writer.CreateFormFile(fieldName, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file)
	return err
}
