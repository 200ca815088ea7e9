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
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/sbomfinder/sbomfinder/database/models"
	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/normalize"
	"github.com/sbomfinder/sbomfinder/shared"
	"github.com/sbomfinder/sbomfinder/utils"
)

type sbomService struct {
	deviceRepository            shared.DeviceRepository
	sbomRepository              shared.SbomRepository
	softwarePackageRepository   shared.SoftwarePackageRepository
	supplierRepository          shared.SupplierRepository
	externalReferenceRepository shared.ExternalReferenceRepository
	vulnerabilityService        shared.VulnerabilityService
	supplierSource              shared.SupplierSource
	archiveService              *archiveService
}

func NewSbomService(
	deviceRepository shared.DeviceRepository,
	sbomRepository shared.SbomRepository,
	softwarePackageRepository shared.SoftwarePackageRepository,
	supplierRepository shared.SupplierRepository,
	externalReferenceRepository shared.ExternalReferenceRepository,
	vulnerabilityService shared.VulnerabilityService,
	supplierSource shared.SupplierSource,
	archiveService *archiveService,
) *sbomService {
	return &sbomService{
		deviceRepository:            deviceRepository,
		sbomRepository:              sbomRepository,
		softwarePackageRepository:   softwarePackageRepository,
		supplierRepository:          supplierRepository,
		externalReferenceRepository: externalReferenceRepository,
		vulnerabilityService:        vulnerabilityService,
		supplierSource:              supplierSource,
		archiveService:              archiveService,
	}
}

// ingestion is the assembled state of one upload before it is committed.
type ingestion struct {
	device        models.Device
	newDevice     bool
	sbom          models.Sbom
	packages      []models.SoftwarePackage
	referenceURLs []normalize.ExternalRef
	version       string
}

// IngestManifests turns a set of uploaded dependency manifests into a new
// composition for the device identified by the metadata. The whole write is
// transactional; advisory enrichment and supplier inference run after the
// commit so that registry outages never cost an upload.
func (s *sbomService) IngestManifests(ctx context.Context, files []normalize.ManifestFile, meta dtos.DeviceMetadata) (dtos.UploadResultDTO, error) {
	manifests := utils.Filter(files, func(f normalize.ManifestFile) bool {
		return f.Kind() != normalize.ManifestKindUnknown
	})
	if len(manifests) == 0 {
		return dtos.UploadResultDTO{}, shared.ErrNoDependencies
	}

	var packages []models.SoftwarePackage
	for _, manifest := range manifests {
		extracted, err := normalize.ExtractPackages(manifest)
		if err != nil {
			slog.Warn("skipping unparseable manifest", "file", manifest.Path, "err", err)
			continue
		}
		for _, pkg := range extracted {
			packages = append(packages, models.SoftwarePackage{
				Name:          pkg.Name,
				Version:       pkg.Version,
				Purl:          pkg.Purl,
				ComponentType: "library",
			})
		}
	}
	if len(packages) == 0 {
		return dtos.UploadResultDTO{}, shared.ErrNoDependencies
	}

	fingerprint := normalize.ContentFingerprint(manifests)
	version := normalize.DeclaredVersion(manifests)

	ing := ingestion{
		version:  version,
		packages: packages,
		sbom: models.Sbom{
			Name:        "Manual Upload",
			Fingerprint: fingerprint,
			Format:      models.SourceFormatManifestScan,
			SpecVersion: "N/A",
			DataLicense: "N/A",
			Created:     time.Now(),
			CreatorTool: "sbomfinder",
			SourceType:  "directory-scan",
			Version:     version,
		},
	}

	// scan everything that was uploaded, documentation included
	for _, file := range files {
		for _, url := range normalize.ExtractReferenceURLs(file.Content) {
			ing.referenceURLs = append(ing.referenceURLs, normalize.ExternalRef{
				Category: "EXTERNAL",
				Type:     "WEBSITE",
				Locator:  url,
			})
		}
	}

	footprint := meta.DigitalFootprint
	if footprint == "" {
		footprint = normalize.DigitalFootprint(manifests, time.Now())
	}
	if err := s.resolveDevice(&ing, meta, footprint); err != nil {
		return dtos.UploadResultDTO{}, err
	}

	return s.commit(ctx, &ing)
}

// IngestDocument ingests a complete CycloneDX or SPDX JSON document.
func (s *sbomService) IngestDocument(ctx context.Context, fileName string, data []byte, meta dtos.DeviceMetadata) (dtos.UploadResultDTO, error) {
	info, err := normalize.ParseSBOMDocument(data)
	if err != nil {
		if errors.Is(err, normalize.ErrUnrecognizedDocument) {
			return dtos.UploadResultDTO{}, shared.ErrUnsupportedFormat
		}
		return dtos.UploadResultDTO{}, err
	}
	if len(info.Packages) == 0 {
		return dtos.UploadResultDTO{}, shared.ErrNoDependencies
	}

	document := normalize.ManifestFile{Path: fileName, Content: data}
	fingerprint := normalize.ContentFingerprint([]normalize.ManifestFile{document})
	version := utils.EmptyThenDefault(info.Version, normalize.UnknownRelease)

	sbomName := info.Name
	if sbomName == "" {
		sbomName = fileName
	}

	created := info.Created
	if created.IsZero() {
		created = time.Now()
	}

	ing := ingestion{
		version: version,
		sbom: models.Sbom{
			Name:                sbomName,
			Fingerprint:         fingerprint,
			Format:              models.SourceFormat(info.Format),
			SpecVersion:         info.SpecVersion,
			DataLicense:         info.DataLicense,
			Created:             created,
			CreatorOrganization: info.CreatorOrganization,
			CreatorTool:         info.CreatorTool,
			SourceType:          "sbom-upload",
			Version:             version,
		},
		referenceURLs: info.ExternalRefs,
	}

	for _, pkg := range info.Packages {
		ing.packages = append(ing.packages, models.SoftwarePackage{
			Name:             pkg.Name,
			Version:          pkg.Version,
			Purl:             pkg.Purl,
			ComponentType:    utils.EmptyThenDefault(pkg.ComponentType, "library"),
			DownloadLocation: pkg.DownloadLocation,
			LicenseDeclared:  pkg.LicenseDeclared,
			LicenseConcluded: pkg.LicenseConcluded,
			CopyrightText:    pkg.CopyrightText,
		})
		ing.referenceURLs = append(ing.referenceURLs, pkg.ExternalRefs...)
	}

	if meta.DeviceName == "" {
		meta.DeviceName = sbomName
	}
	if err := s.resolveDevice(&ing, meta, normalize.DigitalFootprint([]normalize.ManifestFile{document}, time.Now())); err != nil {
		return dtos.UploadResultDTO{}, err
	}

	return s.commit(ctx, &ing)
}

// resolveDevice finds the device the upload targets or prepares a new one.
// The version check here is a fast path only; the commit transaction repeats
// it under a device row lock.
func (s *sbomService) resolveDevice(ing *ingestion, meta dtos.DeviceMetadata, footprint string) error {
	device, err := s.deviceRepository.FindByIdentity(meta.DeviceName, meta.Manufacturer, meta.Category)
	switch {
	case err == nil:
		if _, err := s.sbomRepository.FindByDeviceAndVersion(nil, device.ID, ing.version); err == nil {
			return shared.ErrVersionExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "could not check for existing version")
		}
		ing.device = device
	case errors.Is(err, gorm.ErrRecordNotFound):
		ing.newDevice = true
		ing.device = models.Device{
			Name:             meta.DeviceName,
			Manufacturer:     meta.Manufacturer,
			Category:         meta.Category,
			OperatingSystem:  meta.OperatingSystem,
			OSVersion:        meta.OSVersion,
			KernelVersion:    meta.KernelVersion,
			DigitalFootprint: footprint,
		}
	default:
		return errors.Wrap(err, "could not look up device")
	}
	return nil
}

// errDeviceRaced signals that the device insert lost against a concurrent
// upload creating the same identity. The transaction is aborted at that
// point, so the caller adopts the existing device and retries.
var errDeviceRaced = errors.New("device already created concurrently")

// commit writes the assembled ingestion in one transaction, then runs the
// post-commit enrichment and archives the result.
func (s *sbomService) commit(ctx context.Context, ing *ingestion) (dtos.UploadResultDTO, error) {
	exists, err := s.sbomRepository.ExistsByFingerprint(nil, ing.sbom.Fingerprint)
	if err != nil {
		return dtos.UploadResultDTO{}, errors.Wrap(err, "could not check fingerprint")
	}
	if exists {
		return dtos.UploadResultDTO{}, shared.ErrDuplicateSource
	}

	err = s.commitTx(ing)
	if errors.Is(err, errDeviceRaced) {
		device, findErr := s.deviceRepository.FindByIdentity(ing.device.Name, ing.device.Manufacturer, ing.device.Category)
		if findErr != nil {
			return dtos.UploadResultDTO{}, errors.Wrap(findErr, "could not look up device")
		}
		ing.device = device
		ing.newDevice = false
		err = s.commitTx(ing)
	}
	if err != nil {
		return dtos.UploadResultDTO{}, err
	}

	s.vulnerabilityService.EnrichPackages(ctx, ing.packages)
	s.inferSuppliers(ctx, ing.packages)

	if err := s.archiveService.Archive(nil, ing.device, ing.version, ing.packages); err != nil {
		// the composition itself is committed; a missing snapshot only
		// degrades the archive endpoints until the next ingestion
		slog.Error("could not archive composition", "device", ing.device.ID, "version", ing.version, "err", err)
	}

	return dtos.UploadResultDTO{
		Message:      "SBOM ingested successfully",
		DeviceID:     ing.device.ID.String(),
		SbomID:       ing.sbom.ID.String(),
		Version:      ing.version,
		PackageCount: len(ing.packages),
	}, nil
}

// commitTx is the transactional part of an ingestion. Concurrent uploads for
// the same device serialize on its row lock, and the unique indexes translate
// into the sentinel errors when two transactions race past the fast-path
// checks anyway.
func (s *sbomService) commitTx(ing *ingestion) error {
	return s.deviceRepository.Transaction(func(tx *gorm.DB) error {
		if ing.newDevice {
			if err := s.deviceRepository.Create(tx, &ing.device); err != nil {
				if isUniqueViolation(err, "idx_device_identity") {
					return errDeviceRaced
				}
				return errors.Wrap(err, "could not create device")
			}
		} else {
			if _, err := s.deviceRepository.LockByID(tx, ing.device.ID); err != nil {
				return errors.Wrap(err, "could not lock device")
			}
			if _, err := s.sbomRepository.FindByDeviceAndVersion(tx, ing.device.ID, ing.version); err == nil {
				return shared.ErrVersionExists
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.Wrap(err, "could not check for existing version")
			}
		}

		ing.sbom.DeviceID = ing.device.ID
		if err := s.sbomRepository.Create(tx, &ing.sbom); err != nil {
			switch {
			case isUniqueViolation(err, "idx_sbom_files_fingerprint"):
				return shared.ErrDuplicateSource
			case isUniqueViolation(err, "idx_sbom_files_device_version"):
				return shared.ErrVersionExists
			}
			return errors.Wrap(err, "could not create sbom")
		}

		ing.device.CurrentSbomID = &ing.sbom.ID
		if err := s.deviceRepository.Save(tx, &ing.device); err != nil {
			return errors.Wrap(err, "could not update device")
		}

		for i := range ing.packages {
			ing.packages[i].SbomID = ing.sbom.ID
			ing.packages[i].DeviceID = ing.device.ID
		}
		if err := s.softwarePackageRepository.CreateBatch(tx, ing.packages); err != nil {
			return errors.Wrap(err, "could not create packages")
		}

		if len(ing.referenceURLs) > 0 {
			refs := utils.Map(ing.referenceURLs, func(ref normalize.ExternalRef) models.ExternalReference {
				return models.ExternalReference{
					ReferenceCategory: ref.Category,
					ReferenceType:     ref.Type,
					ReferenceLocator:  ref.Locator,
					SbomID:            ing.sbom.ID,
				}
			})
			if err := s.externalReferenceRepository.CreateBatch(tx, refs); err != nil {
				return errors.Wrap(err, "could not create external references")
			}
		}
		return nil
	})
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

func (s *sbomService) inferSuppliers(ctx context.Context, packages []models.SoftwarePackage) {
	for i := range packages {
		ecosystem := normalize.PurlType(packages[i].Purl)
		name := s.supplierSource.InferSupplier(ctx, packages[i].Name, ecosystem)

		supplier, err := s.supplierRepository.FindOrCreate(nil, name)
		if err != nil {
			slog.Error("could not persist supplier", "supplier", name, "err", err)
			continue
		}
		packages[i].SupplierID = &supplier.ID
		packages[i].Supplier = &supplier
		if err := s.softwarePackageRepository.Save(nil, &packages[i]); err != nil {
			slog.Error("could not link supplier", "package", packages[i].Name, "err", err)
		}
	}
}
