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

package main

import (
	"log/slog"
	"os"

	"github.com/sbomfinder/sbomfinder/config"
	"github.com/sbomfinder/sbomfinder/controllers"
	"github.com/sbomfinder/sbomfinder/database"
	"github.com/sbomfinder/sbomfinder/database/repositories"
	"github.com/sbomfinder/sbomfinder/middlewares"
	"github.com/sbomfinder/sbomfinder/router"
	"github.com/sbomfinder/sbomfinder/services"
	"github.com/sbomfinder/sbomfinder/shared"
	"github.com/sbomfinder/sbomfinder/vulndb"
)

func main() {
	shared.InitLogger()
	if err := shared.LoadConfig(); err != nil {
		slog.Debug("could not load .env file", "err", err)
	}

	dbConfig := config.Database()
	db, err := database.NewConnection(dbConfig.Host, dbConfig.User, dbConfig.Password, dbConfig.Name, dbConfig.Port)
	if err != nil {
		slog.Error("could not connect to database", "err", err)
		os.Exit(1)
	}

	if os.Getenv("DISABLE_AUTOMIGRATE") == "" {
		if err := database.RunMigrations(db); err != nil {
			slog.Error("could not run migrations", "err", err)
			os.Exit(1)
		}
	}

	deviceRepository := repositories.NewDeviceRepository(db)
	sbomRepository := repositories.NewSbomRepository(db)
	softwarePackageRepository := repositories.NewSoftwarePackageRepository(db)
	supplierRepository := repositories.NewSupplierRepository(db)
	vulnerabilityRepository := repositories.NewVulnerabilityRepository(db)
	sbomArchiveRepository := repositories.NewSbomArchiveRepository(db)
	externalReferenceRepository := repositories.NewExternalReferenceRepository(db)

	vulnerabilityService := services.NewVulnerabilityService(vulndb.NewOSVService(), vulnerabilityRepository, softwarePackageRepository)
	archiveService := services.NewArchiveService(sbomArchiveRepository)
	sbomService := services.NewSbomService(
		deviceRepository,
		sbomRepository,
		softwarePackageRepository,
		supplierRepository,
		externalReferenceRepository,
		vulnerabilityService,
		services.NewRegistrySupplierSource(),
		archiveService,
	)
	deviceService := services.NewDeviceService(deviceRepository, softwarePackageRepository, externalReferenceRepository, sbomArchiveRepository)
	analyticsService := services.NewAnalyticsService(deviceRepository, softwarePackageRepository, vulnerabilityRepository)

	server := middlewares.Server()
	if os.Getenv("ENABLE_PROFILING") != "" {
		middlewares.AddProfileEndpoints(server)
	}
	router.NewAPIV1Router(
		server,
		controllers.NewSbomController(sbomService),
		controllers.NewDeviceController(deviceService, archiveService, sbomArchiveRepository),
		controllers.NewAnalyticsController(analyticsService),
	)

	port := config.Env("PORT", "8080")
	slog.Info("starting sbomfinder api", "port", port, "version", config.Version)
	if err := server.Start(":" + port); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
