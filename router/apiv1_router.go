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

package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sbomfinder/sbomfinder/config"
	"github.com/sbomfinder/sbomfinder/controllers"
)

type APIV1Router struct {
	*echo.Group
}

func NewAPIV1Router(
	server *echo.Echo,
	sbomController *controllers.SbomController,
	deviceController *controllers.DeviceController,
	analyticsController *controllers.AnalyticsController,
) APIV1Router {
	apiV1 := server.Group("/api/v1")

	apiV1.GET("/info", func(ctx echo.Context) error {
		return ctx.JSON(200, map[string]string{
			"version": config.Version,
			"commit":  config.Commit,
		})
	})

	sboms := apiV1.Group("/sboms")
	sboms.POST("/upload", sbomController.UploadDocument)
	sboms.POST("/upload-source", sbomController.UploadSource)

	devices := apiV1.Group("/devices")
	devices.GET("/all", deviceController.All)
	devices.GET("/list", deviceController.List)
	devices.GET("/search", deviceController.Search)
	devices.GET("/compare", deviceController.Compare)
	devices.GET("/archives/all", deviceController.Archives)
	devices.GET("/download/archive/:archiveID", deviceController.DownloadArchive)
	devices.GET("/download/:deviceID", deviceController.DownloadLatest)
	devices.GET("/download/:deviceID/latest", deviceController.DownloadLatest)
	devices.GET("/:deviceID/details", deviceController.Details)
	devices.DELETE("/:deviceID", deviceController.Delete)

	analytics := apiV1.Group("/analytics")
	analytics.GET("/operating-systems", analyticsController.OperatingSystems)
	analytics.GET("/manufacturers", analyticsController.Manufacturers)
	analytics.GET("/suppliers", analyticsController.Manufacturers)
	analytics.GET("/category", analyticsController.Categories)
	analytics.GET("/vulnerabilities-by-category", analyticsController.VulnerabilitiesByCategory)
	analytics.GET("/top-vulnerable-packages", analyticsController.TopVulnerablePackages)
	analytics.GET("/vulnerability-severity", analyticsController.VulnerabilitySeverity)
	analytics.GET("/vulnerable-suppliers", analyticsController.VulnerableSuppliers)

	return APIV1Router{Group: apiV1}
}
