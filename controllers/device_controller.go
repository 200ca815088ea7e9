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
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/sbomfinder/sbomfinder/database/models"
	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/shared"
)

type DeviceReader interface {
	Details(id uuid.UUID) (dtos.DeviceDetailsDTO, error)
	AllDetails() ([]dtos.DeviceDetailsDTO, error)
	Compare(id1, id2 uuid.UUID) (dtos.DeviceComparisonDTO, error)
	List() ([]dtos.DeviceListEntryDTO, error)
	Search(query, manufacturer, operatingSystem, category string) ([]dtos.DeviceDetailsDTO, error)
	Delete(id uuid.UUID) error
	ArchiveOverview() ([]dtos.DeviceArchivesDTO, error)
}

type ArchiveRenderer interface {
	Render(archive models.SbomArchive, format string) ([]byte, error)
}

type DeviceController struct {
	deviceService         DeviceReader
	archiveService        ArchiveRenderer
	sbomArchiveRepository shared.SbomArchiveRepository
}

func NewDeviceController(deviceService DeviceReader, archiveService ArchiveRenderer, sbomArchiveRepository shared.SbomArchiveRepository) *DeviceController {
	return &DeviceController{
		deviceService:         deviceService,
		archiveService:        archiveService,
		sbomArchiveRepository: sbomArchiveRepository,
	}
}

// @Summary Device details including packages, references and vulnerabilities
// @Tags Devices
// @Param deviceID path string true "Device id"
// @Success 200 {object} dtos.DeviceDetailsDTO
// @Router /devices/{deviceID}/details [get]
func (c *DeviceController) Details(ctx shared.Context) error {
	id, err := parseUUIDParam(ctx, "deviceID")
	if err != nil {
		return err
	}
	details, err := c.deviceService.Details(id)
	if err != nil {
		return toHTTPError(err, "could not load device details")
	}
	return ctx.JSON(200, details)
}

// @Summary All devices with full details
// @Tags Devices
// @Success 200 {array} dtos.DeviceDetailsDTO
// @Router /devices/all [get]
func (c *DeviceController) All(ctx shared.Context) error {
	details, err := c.deviceService.AllDetails()
	if err != nil {
		return toHTTPError(err, "could not load devices")
	}
	return ctx.JSON(200, details)
}

// @Summary Compare the compositions of two devices
// @Tags Devices
// @Param device1Id query string true "First device id"
// @Param device2Id query string true "Second device id"
// @Success 200 {object} dtos.DeviceComparisonDTO
// @Router /devices/compare [get]
func (c *DeviceController) Compare(ctx shared.Context) error {
	id1, err := uuid.Parse(ctx.QueryParam("device1Id"))
	if err != nil {
		return echo.NewHTTPError(400, "device1Id must be a valid uuid")
	}
	id2, err := uuid.Parse(ctx.QueryParam("device2Id"))
	if err != nil {
		return echo.NewHTTPError(400, "device2Id must be a valid uuid")
	}

	comparison, err := c.deviceService.Compare(id1, id2)
	if err != nil {
		return toHTTPError(err, "could not compare devices")
	}
	return ctx.JSON(200, comparison)
}

// @Summary Minimal device listing for selection menus
// @Tags Devices
// @Success 200 {array} dtos.DeviceListEntryDTO
// @Router /devices/list [get]
func (c *DeviceController) List(ctx shared.Context) error {
	list, err := c.deviceService.List()
	if err != nil {
		return toHTTPError(err, "could not list devices")
	}
	return ctx.JSON(200, list)
}

// @Summary Fuzzy device search
// @Tags Devices
// @Param query query string false "Free text over name and manufacturer"
// @Param manufacturer query string false "Manufacturer filter"
// @Param operatingSystem query string false "Operating system filter"
// @Param category query string false "Category filter"
// @Success 200 {array} dtos.DeviceDetailsDTO
// @Router /devices/search [get]
func (c *DeviceController) Search(ctx shared.Context) error {
	details, err := c.deviceService.Search(
		ctx.QueryParam("query"),
		ctx.QueryParam("manufacturer"),
		ctx.QueryParam("operatingSystem"),
		ctx.QueryParam("category"),
	)
	if err != nil {
		return toHTTPError(err, "could not search devices")
	}
	return ctx.JSON(200, details)
}

// @Summary Delete a device and everything derived from it
// @Tags Devices
// @Param deviceID path string true "Device id"
// @Success 204
// @Router /devices/{deviceID} [delete]
func (c *DeviceController) Delete(ctx shared.Context) error {
	id, err := parseUUIDParam(ctx, "deviceID")
	if err != nil {
		return err
	}
	if err := c.deviceService.Delete(id); err != nil {
		slog.Error("could not delete device", "device", id, "err", err)
		return toHTTPError(err, "could not delete device")
	}
	return ctx.NoContent(204)
}

// @Summary Download the latest archived SBOM of a device
// @Tags Devices
// @Param deviceID path string true "Device id"
// @Param format query string false "cyclonedx or spdx" default(cyclonedx)
// @Success 200 {file} binary
// @Router /devices/download/{deviceID} [get]
func (c *DeviceController) DownloadLatest(ctx shared.Context) error {
	id, err := parseUUIDParam(ctx, "deviceID")
	if err != nil {
		return err
	}

	archive, err := c.sbomArchiveRepository.FindLatestByDevice(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(404, "no archived sbom for this device")
		}
		return echo.NewHTTPError(500, "could not load archive").WithInternal(err)
	}

	format := archiveFormat(ctx)
	rendered, err := c.archiveService.Render(archive, format)
	if err != nil {
		return toHTTPError(err, "could not render sbom")
	}
	return sendAttachment(ctx, fmt.Sprintf("sbom_device_%s.%s.json", id, format), rendered)
}

// @Summary Overview of all archived SBOM versions per device
// @Tags Devices
// @Success 200 {array} dtos.DeviceArchivesDTO
// @Router /devices/archives/all [get]
func (c *DeviceController) Archives(ctx shared.Context) error {
	overview, err := c.deviceService.ArchiveOverview()
	if err != nil {
		return toHTTPError(err, "could not load archives")
	}
	return ctx.JSON(200, overview)
}

// @Summary Download one specific archived SBOM version
// @Tags Devices
// @Param archiveID path string true "Archive id"
// @Param format query string false "cyclonedx or spdx" default(cyclonedx)
// @Success 200 {file} binary
// @Router /devices/download/archive/{archiveID} [get]
func (c *DeviceController) DownloadArchive(ctx shared.Context) error {
	id, err := parseUUIDParam(ctx, "archiveID")
	if err != nil {
		return err
	}

	archive, err := c.sbomArchiveRepository.Read(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(404, "archive entry not found")
		}
		return echo.NewHTTPError(500, "could not load archive").WithInternal(err)
	}

	format := archiveFormat(ctx)
	rendered, err := c.archiveService.Render(archive, format)
	if err != nil {
		return toHTTPError(err, "could not render sbom")
	}
	return sendAttachment(ctx, fmt.Sprintf("sbom_archive_%s.%s.json", id, format), rendered)
}

func parseUUIDParam(ctx shared.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(400, name+" must be a valid uuid")
	}
	return id, nil
}

func archiveFormat(ctx shared.Context) string {
	format := strings.ToLower(ctx.QueryParam("format"))
	if format == "" {
		format = "cyclonedx"
	}
	return format
}

func sendAttachment(ctx shared.Context, filename string, content []byte) error {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return ctx.Blob(200, echo.MIMEOctetStream, content)
}
