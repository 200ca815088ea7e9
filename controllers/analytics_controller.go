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
	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/shared"
)

type AnalyticsProvider interface {
	OperatingSystems() ([]dtos.SbomCountDTO, error)
	Manufacturers() ([]dtos.SbomCountDTO, error)
	Categories() ([]dtos.SbomCountDTO, error)
	VulnerabilitiesByCategory() ([]dtos.NameValueDTO, error)
	TopVulnerablePackages() ([]dtos.PackageVulnCountDTO, error)
	VulnerabilitySeverity() ([]dtos.NameValueDTO, error)
	VulnerableSuppliers() ([]dtos.PackageVulnCountDTO, error)
}

type AnalyticsController struct {
	analyticsService AnalyticsProvider
}

func NewAnalyticsController(analyticsService AnalyticsProvider) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// @Summary Device counts per operating system
// @Tags Analytics
// @Success 200 {array} dtos.SbomCountDTO
// @Router /analytics/operating-systems [get]
func (c *AnalyticsController) OperatingSystems(ctx shared.Context) error {
	result, err := c.analyticsService.OperatingSystems()
	if err != nil {
		return toHTTPError(err, "could not aggregate operating systems")
	}
	return ctx.JSON(200, result)
}

// @Summary Device counts per manufacturer
// @Tags Analytics
// @Success 200 {array} dtos.SbomCountDTO
// @Router /analytics/manufacturers [get]
func (c *AnalyticsController) Manufacturers(ctx shared.Context) error {
	result, err := c.analyticsService.Manufacturers()
	if err != nil {
		return toHTTPError(err, "could not aggregate manufacturers")
	}
	return ctx.JSON(200, result)
}

// @Summary Device counts per category
// @Tags Analytics
// @Success 200 {array} dtos.SbomCountDTO
// @Router /analytics/category [get]
func (c *AnalyticsController) Categories(ctx shared.Context) error {
	result, err := c.analyticsService.Categories()
	if err != nil {
		return toHTTPError(err, "could not aggregate categories")
	}
	return ctx.JSON(200, result)
}

// @Summary Vulnerability totals per device category
// @Tags Analytics
// @Success 200 {array} dtos.NameValueDTO
// @Router /analytics/vulnerabilities-by-category [get]
func (c *AnalyticsController) VulnerabilitiesByCategory(ctx shared.Context) error {
	result, err := c.analyticsService.VulnerabilitiesByCategory()
	if err != nil {
		return toHTTPError(err, "could not aggregate vulnerabilities")
	}
	return ctx.JSON(200, result)
}

// @Summary The ten packages with the most vulnerability links
// @Tags Analytics
// @Success 200 {array} dtos.PackageVulnCountDTO
// @Router /analytics/top-vulnerable-packages [get]
func (c *AnalyticsController) TopVulnerablePackages(ctx shared.Context) error {
	result, err := c.analyticsService.TopVulnerablePackages()
	if err != nil {
		return toHTTPError(err, "could not aggregate packages")
	}
	return ctx.JSON(200, result)
}

// @Summary Vulnerability counts per severity level
// @Tags Analytics
// @Success 200 {array} dtos.NameValueDTO
// @Router /analytics/vulnerability-severity [get]
func (c *AnalyticsController) VulnerabilitySeverity(ctx shared.Context) error {
	result, err := c.analyticsService.VulnerabilitySeverity()
	if err != nil {
		return toHTTPError(err, "could not aggregate severities")
	}
	return ctx.JSON(200, result)
}

// @Summary Manufacturers ranked by vulnerability totals
// @Tags Analytics
// @Success 200 {array} dtos.PackageVulnCountDTO
// @Router /analytics/vulnerable-suppliers [get]
func (c *AnalyticsController) VulnerableSuppliers(ctx shared.Context) error {
	result, err := c.analyticsService.VulnerableSuppliers()
	if err != nil {
		return toHTTPError(err, "could not aggregate suppliers")
	}
	return ctx.JSON(200, result)
}
