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

package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sbomfinder/sbomfinder/database/models"
	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/normalize"
	"github.com/sbomfinder/sbomfinder/shared"
)

type sbomServiceFixture struct {
	service        *sbomService
	deviceRepo     *fakeDeviceRepository
	sbomRepo       *fakeSbomRepository
	packageRepo    *fakeSoftwarePackageRepository
	vulnRepo       *fakeVulnerabilityRepository
	archiveRepo    *fakeSbomArchiveRepository
	refRepo        *fakeExternalReferenceRepository
	advisorySource *fakeAdvisorySource
}

func newSbomServiceFixture() *sbomServiceFixture {
	deviceRepo := newFakeDeviceRepository()
	sbomRepo := &fakeSbomRepository{}
	packageRepo := &fakeSoftwarePackageRepository{}
	supplierRepo := newFakeSupplierRepository()
	vulnRepo := newFakeVulnerabilityRepository()
	archiveRepo := &fakeSbomArchiveRepository{}
	refRepo := &fakeExternalReferenceRepository{}
	advisorySource := &fakeAdvisorySource{vulns: map[string][]models.Vulnerability{}}

	service := NewSbomService(
		deviceRepo,
		sbomRepo,
		packageRepo,
		supplierRepo,
		refRepo,
		NewVulnerabilityService(advisorySource, vulnRepo, packageRepo),
		&fakeSupplierSource{suppliers: map[string]string{"lodash": "lodash.com"}},
		NewArchiveService(archiveRepo),
	)

	return &sbomServiceFixture{
		service:        service,
		deviceRepo:     deviceRepo,
		sbomRepo:       sbomRepo,
		packageRepo:    packageRepo,
		vulnRepo:       vulnRepo,
		archiveRepo:    archiveRepo,
		refRepo:        refRepo,
		advisorySource: advisorySource,
	}
}

// newSbomServiceWith builds a service around substituted device and sbom
// repositories, for the tests that simulate racing uploads.
func newSbomServiceWith(deviceRepo shared.DeviceRepository, sbomRepo shared.SbomRepository) *sbomService {
	packageRepo := &fakeSoftwarePackageRepository{}
	advisorySource := &fakeAdvisorySource{vulns: map[string][]models.Vulnerability{}}

	return NewSbomService(
		deviceRepo,
		sbomRepo,
		packageRepo,
		newFakeSupplierRepository(),
		&fakeExternalReferenceRepository{},
		NewVulnerabilityService(advisorySource, newFakeVulnerabilityRepository(), packageRepo),
		&fakeSupplierSource{suppliers: map[string]string{}},
		NewArchiveService(&fakeSbomArchiveRepository{}),
	)
}

func mustFindDevice(t *testing.T, repo *fakeDeviceRepository) models.Device {
	t.Helper()
	device, err := repo.FindByIdentity("smart-thermostat", "Acme", "Smart Home")
	require.NoError(t, err)
	return device
}

func thermostatMeta() dtos.DeviceMetadata {
	return dtos.DeviceMetadata{
		DeviceName:   "smart-thermostat",
		Manufacturer: "Acme",
		Category:     "Smart Home",
	}
}

func packageJSON(version, lodashVersion string) normalize.ManifestFile {
	return normalize.ManifestFile{
		Path: "package.json",
		Content: []byte(`{
			"version": "` + version + `",
			"homepage": "https://acme.example/thermostat",
			"dependencies": {"lodash": "` + lodashVersion + `", "express": "4.18.2"}
		}`),
	}
}

func TestIngestManifests(t *testing.T) {
	t.Run("should create the device, sbom, packages and archive", func(t *testing.T) {
		fixture := newSbomServiceFixture()
		fixture.advisorySource.vulns["lodash"] = []models.Vulnerability{
			{CVEID: "CVE-2020-28500", CVSSScore: 5.3, SeverityLevel: models.SeverityLevelMedium},
		}

		result, err := fixture.service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.20")}, thermostatMeta())
		require.NoError(t, err)

		assert.Equal(t, "2.4.1", result.Version)
		assert.Equal(t, 2, result.PackageCount)

		deviceID := uuid.MustParse(result.DeviceID)
		device, err := fixture.deviceRepo.Read(deviceID)
		require.NoError(t, err)
		assert.Equal(t, "smart-thermostat", device.Name)
		require.NotNil(t, device.CurrentSbomID)
		assert.Equal(t, result.SbomID, device.CurrentSbomID.String())

		sbom, err := fixture.sbomRepo.Read(*device.CurrentSbomID)
		require.NoError(t, err)
		assert.Equal(t, models.SourceFormatManifestScan, sbom.Format)
		assert.Equal(t, "2.4.1", sbom.Version)
		assert.NotEmpty(t, sbom.Fingerprint)

		packages, err := fixture.packageRepo.FindByDevice(deviceID)
		require.NoError(t, err)
		require.Len(t, packages, 2)
		assert.Equal(t, "lodash", packages[0].Name)
		assert.Equal(t, "pkg:npm/lodash@4.17.20", packages[0].Purl)
		require.Len(t, packages[0].Vulnerabilities, 1)
		assert.Equal(t, "CVE-2020-28500", packages[0].Vulnerabilities[0].CVEID)
		assert.Empty(t, packages[1].Vulnerabilities)

		refs, err := fixture.refRepo.FindBySbom(sbom.ID)
		require.NoError(t, err)
		require.Len(t, refs, 1)
		assert.Equal(t, "https://acme.example/thermostat", refs[0].ReferenceLocator)

		archive, err := fixture.archiveRepo.FindLatestByDevice(deviceID)
		require.NoError(t, err)
		assert.Equal(t, "2.4.1", archive.Version)
		assert.True(t, archive.IsLatest)
		// the snapshot is taken after enrichment
		assert.Contains(t, string(archive.Content), "CVE-2020-28500")
	})

	t.Run("should reject uploads without any manifest", func(t *testing.T) {
		fixture := newSbomServiceFixture()
		files := []normalize.ManifestFile{{Path: "README.md", Content: []byte("# docs")}}

		_, err := fixture.service.IngestManifests(context.Background(), files, thermostatMeta())
		assert.ErrorIs(t, err, shared.ErrNoDependencies)
	})

	t.Run("should reject manifests that declare no dependencies", func(t *testing.T) {
		fixture := newSbomServiceFixture()
		files := []normalize.ManifestFile{{Path: "package.json", Content: []byte(`{"name": "empty"}`)}}

		_, err := fixture.service.IngestManifests(context.Background(), files, thermostatMeta())
		assert.ErrorIs(t, err, shared.ErrNoDependencies)
	})

	t.Run("should reject a re-upload of identical content", func(t *testing.T) {
		fixture := newSbomServiceFixture()
		files := []normalize.ManifestFile{packageJSON("2.4.1", "4.17.20")}

		_, err := fixture.service.IngestManifests(context.Background(), files, thermostatMeta())
		require.NoError(t, err)

		// a second device uploading byte-identical manifests still collides
		otherMeta := thermostatMeta()
		otherMeta.DeviceName = "other-device"
		_, err = fixture.service.IngestManifests(context.Background(), files, otherMeta)
		assert.ErrorIs(t, err, shared.ErrDuplicateSource)
	})

	t.Run("should reject a second upload with the same declared version", func(t *testing.T) {
		fixture := newSbomServiceFixture()

		_, err := fixture.service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.20")}, thermostatMeta())
		require.NoError(t, err)

		_, err = fixture.service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.21")}, thermostatMeta())
		assert.ErrorIs(t, err, shared.ErrVersionExists)
	})

	t.Run("should reject the same version even when the fast-path check misses it", func(t *testing.T) {
		deviceRepo := newFakeDeviceRepository()
		sbomRepo := &staleSbomRepository{fakeSbomRepository: &fakeSbomRepository{}}
		service := newSbomServiceWith(deviceRepo, sbomRepo)

		_, err := service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.20")}, thermostatMeta())
		require.NoError(t, err)

		// same version, different content: the stale lookup lets it past the
		// fast path, the transactional check must still catch it
		_, err = service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.21")}, thermostatMeta())
		assert.ErrorIs(t, err, shared.ErrVersionExists)

		sboms, err := sbomRepo.FindByDevice(mustFindDevice(t, deviceRepo).ID)
		require.NoError(t, err)
		assert.Len(t, sboms, 1)
	})

	t.Run("should surface a fingerprint index conflict as a duplicate", func(t *testing.T) {
		sbomRepo := &conflictingSbomRepository{
			fakeSbomRepository: &fakeSbomRepository{},
			constraint:         "idx_sbom_files_fingerprint",
		}
		service := newSbomServiceWith(newFakeDeviceRepository(), sbomRepo)

		_, err := service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.20")}, thermostatMeta())
		assert.ErrorIs(t, err, shared.ErrDuplicateSource)
	})

	t.Run("should surface a version index conflict as an existing version", func(t *testing.T) {
		deviceRepo := newFakeDeviceRepository()
		device := models.Device{Name: "smart-thermostat", Manufacturer: "Acme", Category: "Smart Home"}
		require.NoError(t, deviceRepo.Create(nil, &device))

		sbomRepo := &conflictingSbomRepository{
			fakeSbomRepository: &fakeSbomRepository{},
			constraint:         "idx_sbom_files_device_version",
		}
		service := newSbomServiceWith(deviceRepo, sbomRepo)

		_, err := service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.20")}, thermostatMeta())
		assert.ErrorIs(t, err, shared.ErrVersionExists)
	})

	t.Run("should adopt a device registered by a concurrent upload", func(t *testing.T) {
		underlying := newFakeDeviceRepository()
		device := models.Device{Name: "smart-thermostat", Manufacturer: "Acme", Category: "Smart Home"}
		require.NoError(t, underlying.Create(nil, &device))

		deviceRepo := &racedDeviceRepository{fakeDeviceRepository: underlying}
		service := newSbomServiceWith(deviceRepo, &fakeSbomRepository{})

		result, err := service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.20")}, thermostatMeta())
		require.NoError(t, err)

		assert.Equal(t, device.ID.String(), result.DeviceID)
		devices, err := underlying.All()
		require.NoError(t, err)
		assert.Len(t, devices, 1)
	})

	t.Run("should keep the upload when archiving fails", func(t *testing.T) {
		fixture := newSbomServiceFixture()
		fixture.archiveRepo.saveErr = errors.New("storage unavailable")

		result, err := fixture.service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.20")}, thermostatMeta())
		require.NoError(t, err)

		sbom, err := fixture.sbomRepo.Read(uuid.MustParse(result.SbomID))
		require.NoError(t, err)
		assert.Equal(t, "2.4.1", sbom.Version)

		// no snapshot until the next successful ingestion
		_, err = fixture.archiveRepo.FindLatestByDevice(uuid.MustParse(result.DeviceID))
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("should accept a new version for an existing device", func(t *testing.T) {
		fixture := newSbomServiceFixture()

		first, err := fixture.service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.20")}, thermostatMeta())
		require.NoError(t, err)

		second, err := fixture.service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.5.0", "4.17.21")}, thermostatMeta())
		require.NoError(t, err)

		assert.Equal(t, first.DeviceID, second.DeviceID)
		assert.NotEqual(t, first.SbomID, second.SbomID)

		// the new snapshot supersedes the old one
		deviceID := uuid.MustParse(first.DeviceID)
		archive, err := fixture.archiveRepo.FindLatestByDevice(deviceID)
		require.NoError(t, err)
		assert.Equal(t, "2.5.0", archive.Version)

		archives, err := fixture.archiveRepo.FindAllByDevice(deviceID)
		require.NoError(t, err)
		assert.Len(t, archives, 2)
	})

	t.Run("should not query advisories twice for the same cve", func(t *testing.T) {
		fixture := newSbomServiceFixture()
		sharedVuln := models.Vulnerability{CVEID: "CVE-2024-0001", CVSSScore: 9.8, SeverityLevel: models.SeverityLevelCritical}
		fixture.advisorySource.vulns["lodash"] = []models.Vulnerability{sharedVuln}
		fixture.advisorySource.vulns["express"] = []models.Vulnerability{sharedVuln}

		result, err := fixture.service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.20")}, thermostatMeta())
		require.NoError(t, err)

		packages, err := fixture.packageRepo.FindByDevice(uuid.MustParse(result.DeviceID))
		require.NoError(t, err)
		require.Len(t, packages, 2)
		require.Len(t, packages[0].Vulnerabilities, 1)
		require.Len(t, packages[1].Vulnerabilities, 1)

		// one stored row, linked from both packages
		vulns, err := fixture.vulnRepo.All()
		require.NoError(t, err)
		assert.Len(t, vulns, 1)
	})

	t.Run("should assign resolved suppliers to packages", func(t *testing.T) {
		fixture := newSbomServiceFixture()

		result, err := fixture.service.IngestManifests(context.Background(), []normalize.ManifestFile{packageJSON("2.4.1", "4.17.20")}, thermostatMeta())
		require.NoError(t, err)

		packages, err := fixture.packageRepo.FindByDevice(uuid.MustParse(result.DeviceID))
		require.NoError(t, err)
		require.Len(t, packages, 2)
		require.NotNil(t, packages[0].Supplier)
		assert.Equal(t, "lodash.com", packages[0].Supplier.Name)
		require.NotNil(t, packages[1].Supplier)
		assert.Equal(t, "Unknown", packages[1].Supplier.Name)
	})
}

func TestIngestDocument(t *testing.T) {
	cycloneDX := []byte(`{
		"bomFormat": "CycloneDX",
		"specVersion": "1.4",
		"version": 1,
		"metadata": {
			"timestamp": "2025-03-10T08:30:00Z",
			"component": {"type": "application", "name": "smart-thermostat", "version": "3.0.0"}
		},
		"components": [
			{"type": "library", "name": "lodash", "version": "4.17.20", "purl": "pkg:npm/lodash@4.17.20"}
		]
	}`)

	t.Run("should ingest a cyclonedx document", func(t *testing.T) {
		fixture := newSbomServiceFixture()

		result, err := fixture.service.IngestDocument(context.Background(), "bom.json", cycloneDX, thermostatMeta())
		require.NoError(t, err)

		assert.Equal(t, "3.0.0", result.Version)
		assert.Equal(t, 1, result.PackageCount)

		device, err := fixture.deviceRepo.Read(uuid.MustParse(result.DeviceID))
		require.NoError(t, err)
		sbom, err := fixture.sbomRepo.Read(*device.CurrentSbomID)
		require.NoError(t, err)
		assert.Equal(t, models.SourceFormatCycloneDX, sbom.Format)
		assert.Equal(t, "smart-thermostat", sbom.Name)
		assert.Equal(t, "sbom-upload", sbom.SourceType)
	})

	t.Run("should name the device after the document when the metadata has no name", func(t *testing.T) {
		fixture := newSbomServiceFixture()
		meta := thermostatMeta()
		meta.DeviceName = ""

		result, err := fixture.service.IngestDocument(context.Background(), "bom.json", cycloneDX, meta)
		require.NoError(t, err)

		device, err := fixture.deviceRepo.Read(uuid.MustParse(result.DeviceID))
		require.NoError(t, err)
		assert.Equal(t, "smart-thermostat", device.Name)
	})

	t.Run("should reject documents in neither supported format", func(t *testing.T) {
		fixture := newSbomServiceFixture()

		_, err := fixture.service.IngestDocument(context.Background(), "data.json", []byte(`{"some": "json"}`), thermostatMeta())
		assert.ErrorIs(t, err, shared.ErrUnsupportedFormat)
	})

	t.Run("should reject documents without components", func(t *testing.T) {
		fixture := newSbomServiceFixture()
		empty := []byte(`{"bomFormat": "CycloneDX", "specVersion": "1.4", "version": 1}`)

		_, err := fixture.service.IngestDocument(context.Background(), "bom.json", empty, thermostatMeta())
		assert.ErrorIs(t, err, shared.ErrNoDependencies)
	})
}
