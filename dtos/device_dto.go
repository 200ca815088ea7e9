package dtos

import "github.com/google/uuid"

type VulnerabilityDTO struct {
	CVEID         string  `json:"cveId"`
	Description   string  `json:"description"`
	Severity      string  `json:"severity"`
	SeverityLevel string  `json:"severityLevel"`
	CVSSScore     float64 `json:"cvssScore"`
	SourceURL     string  `json:"sourceUrl"`
}

type SoftwarePackageDTO struct {
	Name            string             `json:"name"`
	Version         string             `json:"version"`
	Purl            string             `json:"purl"`
	SupplierName    string             `json:"supplierName"`
	ComponentType   string             `json:"componentType"`
	Vulnerabilities []VulnerabilityDTO `json:"vulnerabilities"`
}

type ExternalReferenceDTO struct {
	ReferenceCategory string `json:"referenceCategory"`
	ReferenceType     string `json:"referenceType"`
	ReferenceLocator  string `json:"referenceLocator"`
}

type DeviceDetailsDTO struct {
	ID                 uuid.UUID              `json:"id"`
	DeviceName         string                 `json:"deviceName"`
	Manufacturer       string                 `json:"manufacturer"`
	Category           string                 `json:"category"`
	OperatingSystem    string                 `json:"operatingSystem"`
	OSVersion          string                 `json:"osVersion"`
	KernelVersion      string                 `json:"kernelVersion"`
	DigitalFootprint   string                 `json:"digitalFootprint"`
	SbomID             *uuid.UUID             `json:"sbomId"`
	SoftwarePackages   []SoftwarePackageDTO   `json:"softwarePackages"`
	ExternalReferences []ExternalReferenceDTO `json:"externalReferences"`
	Vulnerabilities    []VulnerabilityDTO     `json:"vulnerabilities"`
}

type DeviceComparisonDTO struct {
	Device1 DeviceDetailsDTO `json:"device1"`
	Device2 DeviceDetailsDTO `json:"device2"`
}

// DeviceListEntryDTO is the minimal shape used by selection dropdowns.
type DeviceListEntryDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ArchiveEntryDTO struct {
	Name      string    `json:"name"`
	ArchiveID uuid.UUID `json:"archiveId"`
	IsLatest  bool      `json:"isLatest"`
}

type DeviceArchivesDTO struct {
	DeviceName string            `json:"deviceName"`
	Archives   []ArchiveEntryDTO `json:"archives"`
}
