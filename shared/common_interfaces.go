package shared

import (
	"context"

	"github.com/google/uuid"
	"github.com/sbomfinder/sbomfinder/database/models"
	"gorm.io/gorm"
)

type DeviceRepository interface {
	Read(id uuid.UUID) (models.Device, error)
	All() ([]models.Device, error)
	Create(tx *gorm.DB, device *models.Device) error
	Save(tx *gorm.DB, device *models.Device) error
	FindByIdentity(name, manufacturer, category string) (models.Device, error)
	LockByID(tx *gorm.DB, id uuid.UUID) (models.Device, error)
	Search(query, manufacturer, operatingSystem, category string) ([]models.Device, error)
	DeleteCascade(id uuid.UUID) error
	Transaction(fn func(tx *gorm.DB) error) error
}

type SbomRepository interface {
	Read(id uuid.UUID) (models.Sbom, error)
	Create(tx *gorm.DB, sbom *models.Sbom) error
	ExistsByFingerprint(tx *gorm.DB, fingerprint string) (bool, error)
	FindByDeviceAndVersion(tx *gorm.DB, deviceID uuid.UUID, version string) (models.Sbom, error)
	FindByDevice(deviceID uuid.UUID) ([]models.Sbom, error)
}

type SoftwarePackageRepository interface {
	All() ([]models.SoftwarePackage, error)
	Create(tx *gorm.DB, pkg *models.SoftwarePackage) error
	CreateBatch(tx *gorm.DB, pkgs []models.SoftwarePackage) error
	Save(tx *gorm.DB, pkg *models.SoftwarePackage) error
	FindByDevice(deviceID uuid.UUID) ([]models.SoftwarePackage, error)
	FindBySbom(sbomID uuid.UUID) ([]models.SoftwarePackage, error)
	ReplaceVulnerabilities(pkg *models.SoftwarePackage, vulns []models.Vulnerability) error
}

type SupplierRepository interface {
	FindOrCreate(tx *gorm.DB, name string) (models.Supplier, error)
}

type VulnerabilityRepository interface {
	All() ([]models.Vulnerability, error)
	Read(cveID string) (models.Vulnerability, error)
	FindOrCreate(tx *gorm.DB, vuln models.Vulnerability) (models.Vulnerability, error)
	FindByPackage(packageID uuid.UUID) ([]models.Vulnerability, error)
}

type SbomArchiveRepository interface {
	Read(id uuid.UUID) (models.SbomArchive, error)
	SaveNewLatest(tx *gorm.DB, archive *models.SbomArchive) error
	FindLatestByDevice(deviceID uuid.UUID) (models.SbomArchive, error)
	FindAllByDevice(deviceID uuid.UUID) ([]models.SbomArchive, error)
}

type ExternalReferenceRepository interface {
	CreateBatch(tx *gorm.DB, refs []models.ExternalReference) error
	FindBySbom(sbomID uuid.UUID) ([]models.ExternalReference, error)
}

// AdvisorySource is the boundary to the external vulnerability database.
type AdvisorySource interface {
	QueryAffected(ctx context.Context, name, ecosystem, version string) ([]models.Vulnerability, error)
}

// SupplierSource resolves a publisher name from an ecosystem registry,
// best effort. Implementations return "Unknown" instead of failing.
type SupplierSource interface {
	InferSupplier(ctx context.Context, name, ecosystem string) string
}

type VulnerabilityService interface {
	EnrichPackage(ctx context.Context, pkg *models.SoftwarePackage) error
	EnrichPackages(ctx context.Context, pkgs []models.SoftwarePackage)
}
