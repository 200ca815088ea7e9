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
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package controllers

import (
	"context"
	"io"
	"log/slog"
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/normalize"
	"github.com/sbomfinder/sbomfinder/shared"
)

// SbomIngester is implemented by the sbom service; the indirection keeps the
// controller testable without a database.
type SbomIngester interface {
	IngestManifests(ctx context.Context, files []normalize.ManifestFile, meta dtos.DeviceMetadata) (dtos.UploadResultDTO, error)
	IngestDocument(ctx context.Context, fileName string, data []byte, meta dtos.DeviceMetadata) (dtos.UploadResultDTO, error)
}

type SbomController struct {
	sbomService SbomIngester
}

func NewSbomController(sbomService SbomIngester) *SbomController {
	return &SbomController{sbomService: sbomService}
}

// @Summary Upload a CycloneDX or SPDX JSON document
// @Tags Sboms
// @Accept mpfd
// @Param sbomFile formData file true "SBOM document"
// @Param category formData string true "Device category"
// @Success 200 {object} dtos.UploadResultDTO
// @Router /sboms/upload [post]
func (c *SbomController) UploadDocument(ctx shared.Context) error {
	meta, err := bindDeviceMetadata(ctx)
	if err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("sbomFile")
	if err != nil {
		return echo.NewHTTPError(400, "sbomFile is required").WithInternal(err)
	}
	data, err := readMultipartFile(fileHeader)
	if err != nil {
		return echo.NewHTTPError(400, "could not read uploaded file").WithInternal(err)
	}

	result, err := c.sbomService.IngestDocument(ctx.Request().Context(), fileHeader.Filename, data, meta)
	if err != nil {
		slog.Error("document ingestion failed", "file", fileHeader.Filename, "err", err)
		return toHTTPError(err, "could not ingest sbom document")
	}
	return ctx.JSON(200, result)
}

// @Summary Upload dependency manifests for scanning
// @Tags Sboms
// @Accept mpfd
// @Param files formData file true "Dependency manifests and documentation"
// @Param category formData string true "Device category"
// @Success 200 {object} dtos.UploadResultDTO
// @Router /sboms/upload-source [post]
func (c *SbomController) UploadSource(ctx shared.Context) error {
	meta, err := bindDeviceMetadata(ctx)
	if err != nil {
		return err
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(400, "multipart form is required").WithInternal(err)
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		return echo.NewHTTPError(400, "at least one file is required")
	}

	files := make([]normalize.ManifestFile, 0, len(fileHeaders))
	for _, fileHeader := range fileHeaders {
		data, err := readMultipartFile(fileHeader)
		if err != nil {
			return echo.NewHTTPError(400, "could not read uploaded file").WithInternal(err)
		}
		files = append(files, normalize.ManifestFile{Path: fileHeader.Filename, Content: data})
	}

	result, err := c.sbomService.IngestManifests(ctx.Request().Context(), files, meta)
	if err != nil {
		slog.Error("manifest ingestion failed", "files", len(files), "err", err)
		return toHTTPError(err, "could not ingest manifests")
	}
	return ctx.JSON(200, result)
}

func bindDeviceMetadata(ctx shared.Context) (dtos.DeviceMetadata, error) {
	var meta dtos.DeviceMetadata
	if err := ctx.Bind(&meta); err != nil {
		return meta, echo.NewHTTPError(400, "could not parse device metadata").WithInternal(err)
	}
	if err := shared.V.Struct(meta); err != nil {
		return meta, echo.NewHTTPError(400, "category is required").WithInternal(err)
	}
	return meta, nil
}

func readMultipartFile(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
