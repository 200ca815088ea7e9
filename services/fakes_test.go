package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/sbomfinder/sbomfinder/database/models"
)

// in-memory repository fakes, just enough behavior for the service tests

type fakeDeviceRepository struct {
	devices map[uuid.UUID]*models.Device
}

func newFakeDeviceRepository() *fakeDeviceRepository {
	return &fakeDeviceRepository{devices: map[uuid.UUID]*models.Device{}}
}

func (f *fakeDeviceRepository) Read(id uuid.UUID) (models.Device, error) {
	if device, ok := f.devices[id]; ok {
		return *device, nil
	}
	return models.Device{}, gorm.ErrRecordNotFound
}

func (f *fakeDeviceRepository) All() ([]models.Device, error) {
	devices := make([]models.Device, 0, len(f.devices))
	for _, device := range f.devices {
		devices = append(devices, *device)
	}
	return devices, nil
}

func (f *fakeDeviceRepository) Create(tx *gorm.DB, device *models.Device) error {
	device.ID = uuid.New()
	stored := *device
	f.devices[device.ID] = &stored
	return nil
}

func (f *fakeDeviceRepository) Save(tx *gorm.DB, device *models.Device) error {
	stored := *device
	f.devices[device.ID] = &stored
	return nil
}

func (f *fakeDeviceRepository) FindByIdentity(name, manufacturer, category string) (models.Device, error) {
	for _, device := range f.devices {
		if device.Name == name && device.Manufacturer == manufacturer && device.Category == category {
			return *device, nil
		}
	}
	return models.Device{}, gorm.ErrRecordNotFound
}

func (f *fakeDeviceRepository) LockByID(tx *gorm.DB, id uuid.UUID) (models.Device, error) {
	return f.Read(id)
}

func (f *fakeDeviceRepository) Search(query, manufacturer, operatingSystem, category string) ([]models.Device, error) {
	return f.All()
}

func (f *fakeDeviceRepository) DeleteCascade(id uuid.UUID) error {
	delete(f.devices, id)
	return nil
}

// Transaction hands the callback a non-nil handle so the fakes can tell
// transactional reads apart from the fast-path ones.
func (f *fakeDeviceRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

type fakeSbomRepository struct {
	sboms []models.Sbom
}

func (f *fakeSbomRepository) Read(id uuid.UUID) (models.Sbom, error) {
	for _, sbom := range f.sboms {
		if sbom.ID == id {
			return sbom, nil
		}
	}
	return models.Sbom{}, gorm.ErrRecordNotFound
}

func (f *fakeSbomRepository) Create(tx *gorm.DB, sbom *models.Sbom) error {
	sbom.ID = uuid.New()
	f.sboms = append(f.sboms, *sbom)
	return nil
}

func (f *fakeSbomRepository) ExistsByFingerprint(tx *gorm.DB, fingerprint string) (bool, error) {
	for _, sbom := range f.sboms {
		if sbom.Fingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSbomRepository) FindByDeviceAndVersion(tx *gorm.DB, deviceID uuid.UUID, version string) (models.Sbom, error) {
	for _, sbom := range f.sboms {
		if sbom.DeviceID == deviceID && sbom.Version == version {
			return sbom, nil
		}
	}
	return models.Sbom{}, gorm.ErrRecordNotFound
}

func (f *fakeSbomRepository) FindByDevice(deviceID uuid.UUID) ([]models.Sbom, error) {
	var sboms []models.Sbom
	for _, sbom := range f.sboms {
		if sbom.DeviceID == deviceID {
			sboms = append(sboms, sbom)
		}
	}
	return sboms, nil
}

// staleSbomRepository answers the fast-path version lookup from a snapshot
// taken before a concurrent upload committed: outside a transaction the
// lookup misses, inside one it sees the real state.
type staleSbomRepository struct {
	*fakeSbomRepository
}

func (f *staleSbomRepository) FindByDeviceAndVersion(tx *gorm.DB, deviceID uuid.UUID, version string) (models.Sbom, error) {
	if tx == nil {
		return models.Sbom{}, gorm.ErrRecordNotFound
	}
	return f.fakeSbomRepository.FindByDeviceAndVersion(tx, deviceID, version)
}

// conflictingSbomRepository simulates losing an insert race: the fingerprint
// pre-check misses but the insert hits a unique index.
type conflictingSbomRepository struct {
	*fakeSbomRepository
	constraint string
}

func (f *conflictingSbomRepository) ExistsByFingerprint(tx *gorm.DB, fingerprint string) (bool, error) {
	return false, nil
}

func (f *conflictingSbomRepository) Create(tx *gorm.DB, sbom *models.Sbom) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: f.constraint}
}

// racedDeviceRepository simulates a concurrent upload registering the same
// device: the identity lookup misses until the insert collides with it.
type racedDeviceRepository struct {
	*fakeDeviceRepository
	raced bool
}

func (f *racedDeviceRepository) FindByIdentity(name, manufacturer, category string) (models.Device, error) {
	if !f.raced {
		return models.Device{}, gorm.ErrRecordNotFound
	}
	return f.fakeDeviceRepository.FindByIdentity(name, manufacturer, category)
}

func (f *racedDeviceRepository) Create(tx *gorm.DB, device *models.Device) error {
	if !f.raced {
		f.raced = true
		return &pgconn.PgError{Code: "23505", ConstraintName: "idx_device_identity"}
	}
	return f.fakeDeviceRepository.Create(tx, device)
}

type fakeSoftwarePackageRepository struct {
	mu       sync.Mutex
	packages []models.SoftwarePackage
}

func (f *fakeSoftwarePackageRepository) All() ([]models.SoftwarePackage, error) {
	return f.packages, nil
}

func (f *fakeSoftwarePackageRepository) Create(tx *gorm.DB, pkg *models.SoftwarePackage) error {
	pkg.ID = uuid.New()
	f.packages = append(f.packages, *pkg)
	return nil
}

func (f *fakeSoftwarePackageRepository) CreateBatch(tx *gorm.DB, pkgs []models.SoftwarePackage) error {
	for i := range pkgs {
		pkgs[i].ID = uuid.New()
		f.packages = append(f.packages, pkgs[i])
	}
	return nil
}

func (f *fakeSoftwarePackageRepository) Save(tx *gorm.DB, pkg *models.SoftwarePackage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.packages {
		if f.packages[i].ID == pkg.ID {
			f.packages[i] = *pkg
			return nil
		}
	}
	f.packages = append(f.packages, *pkg)
	return nil
}

func (f *fakeSoftwarePackageRepository) FindByDevice(deviceID uuid.UUID) ([]models.SoftwarePackage, error) {
	var pkgs []models.SoftwarePackage
	for _, pkg := range f.packages {
		if pkg.DeviceID == deviceID {
			pkgs = append(pkgs, pkg)
		}
	}
	return pkgs, nil
}

func (f *fakeSoftwarePackageRepository) FindBySbom(sbomID uuid.UUID) ([]models.SoftwarePackage, error) {
	var pkgs []models.SoftwarePackage
	for _, pkg := range f.packages {
		if pkg.SbomID == sbomID {
			pkgs = append(pkgs, pkg)
		}
	}
	return pkgs, nil
}

func (f *fakeSoftwarePackageRepository) ReplaceVulnerabilities(pkg *models.SoftwarePackage, vulns []models.Vulnerability) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.packages {
		if f.packages[i].ID == pkg.ID {
			f.packages[i].Vulnerabilities = vulns
		}
	}
	return nil
}

type fakeSupplierRepository struct {
	mu        sync.Mutex
	suppliers map[string]models.Supplier
}

func newFakeSupplierRepository() *fakeSupplierRepository {
	return &fakeSupplierRepository{suppliers: map[string]models.Supplier{}}
}

func (f *fakeSupplierRepository) FindOrCreate(tx *gorm.DB, name string) (models.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if supplier, ok := f.suppliers[name]; ok {
		return supplier, nil
	}
	supplier := models.Supplier{ID: uuid.New(), Name: name}
	f.suppliers[name] = supplier
	return supplier, nil
}

type fakeVulnerabilityRepository struct {
	mu    sync.Mutex
	vulns map[string]models.Vulnerability
}

func newFakeVulnerabilityRepository() *fakeVulnerabilityRepository {
	return &fakeVulnerabilityRepository{vulns: map[string]models.Vulnerability{}}
}

func (f *fakeVulnerabilityRepository) All() ([]models.Vulnerability, error) {
	vulns := make([]models.Vulnerability, 0, len(f.vulns))
	for _, vuln := range f.vulns {
		vulns = append(vulns, vuln)
	}
	return vulns, nil
}

func (f *fakeVulnerabilityRepository) Read(cveID string) (models.Vulnerability, error) {
	if vuln, ok := f.vulns[cveID]; ok {
		return vuln, nil
	}
	return models.Vulnerability{}, gorm.ErrRecordNotFound
}

func (f *fakeVulnerabilityRepository) FindOrCreate(tx *gorm.DB, vuln models.Vulnerability) (models.Vulnerability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.vulns[vuln.CVEID]; ok {
		return existing, nil
	}
	f.vulns[vuln.CVEID] = vuln
	return vuln, nil
}

func (f *fakeVulnerabilityRepository) FindByPackage(packageID uuid.UUID) ([]models.Vulnerability, error) {
	return nil, nil
}

type fakeSbomArchiveRepository struct {
	archives []models.SbomArchive
	saveErr  error
}

func (f *fakeSbomArchiveRepository) Read(id uuid.UUID) (models.SbomArchive, error) {
	for _, archive := range f.archives {
		if archive.ID == id {
			return archive, nil
		}
	}
	return models.SbomArchive{}, gorm.ErrRecordNotFound
}

func (f *fakeSbomArchiveRepository) SaveNewLatest(tx *gorm.DB, archive *models.SbomArchive) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	for i := range f.archives {
		if f.archives[i].DeviceID == archive.DeviceID {
			f.archives[i].IsLatest = false
		}
	}
	archive.ID = uuid.New()
	archive.IsLatest = true
	f.archives = append(f.archives, *archive)
	return nil
}

func (f *fakeSbomArchiveRepository) FindLatestByDevice(deviceID uuid.UUID) (models.SbomArchive, error) {
	for _, archive := range f.archives {
		if archive.DeviceID == deviceID && archive.IsLatest {
			return archive, nil
		}
	}
	return models.SbomArchive{}, gorm.ErrRecordNotFound
}

func (f *fakeSbomArchiveRepository) FindAllByDevice(deviceID uuid.UUID) ([]models.SbomArchive, error) {
	var archives []models.SbomArchive
	for _, archive := range f.archives {
		if archive.DeviceID == deviceID {
			archives = append(archives, archive)
		}
	}
	return archives, nil
}

type fakeExternalReferenceRepository struct {
	refs []models.ExternalReference
}

func (f *fakeExternalReferenceRepository) CreateBatch(tx *gorm.DB, refs []models.ExternalReference) error {
	f.refs = append(f.refs, refs...)
	return nil
}

func (f *fakeExternalReferenceRepository) FindBySbom(sbomID uuid.UUID) ([]models.ExternalReference, error) {
	var refs []models.ExternalReference
	for _, ref := range f.refs {
		if ref.SbomID == sbomID {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}

// fakeAdvisorySource serves canned advisories keyed by package name.
type fakeAdvisorySource struct {
	mu      sync.Mutex
	vulns   map[string][]models.Vulnerability
	queries [][3]string
	err     error
}

func (f *fakeAdvisorySource) QueryAffected(ctx context.Context, name, ecosystem, version string) ([]models.Vulnerability, error) {
	f.mu.Lock()
	f.queries = append(f.queries, [3]string{name, ecosystem, version})
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.vulns[name], nil
}

// fakeSupplierSource resolves suppliers from a fixed map.
type fakeSupplierSource struct {
	suppliers map[string]string
}

func (f *fakeSupplierSource) InferSupplier(ctx context.Context, name, ecosystem string) string {
	if supplier, ok := f.suppliers[name]; ok {
		return supplier
	}
	return "Unknown"
}
