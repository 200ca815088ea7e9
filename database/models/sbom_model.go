package models

import (
	"time"

	"github.com/google/uuid"
)

type SourceFormat string

const (
	SourceFormatCycloneDX    SourceFormat = "CycloneDX"
	SourceFormatSPDX         SourceFormat = "SPDX"
	SourceFormatManifestScan SourceFormat = "Manual Upload"
)

// Sbom is the metadata of one ingestion. The fingerprint is unique across all
// rows; two uploads with identical dependency content collide here and the
// second one is rejected.
type Sbom struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	CreatedAt time.Time `json:"createdAt"`

	Name        string       `json:"name" gorm:"type:text;not null"`
	Fingerprint string       `json:"fingerprint" gorm:"type:text;uniqueIndex:idx_sbom_files_fingerprint;not null"`
	Format      SourceFormat `json:"format" gorm:"type:text;not null"`
	SpecVersion string       `json:"specVersion" gorm:"type:text"`
	DataLicense string       `json:"dataLicense" gorm:"type:text"`

	Created             time.Time `json:"created"`
	CreatorOrganization string    `json:"creatorOrganization" gorm:"type:text"`
	CreatorTool         string    `json:"creatorTool" gorm:"type:text"`
	SourceType          string    `json:"sourceType" gorm:"type:text"`

	// Version is the declared version string of this ingestion, unique per
	// device.
	Version string `json:"version" gorm:"type:text;not null;uniqueIndex:idx_sbom_files_device_version"`

	DeviceID uuid.UUID `json:"deviceId" gorm:"type:uuid;not null;index;uniqueIndex:idx_sbom_files_device_version"`
	Device   *Device   `json:"-" gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE;"`
}

func (m Sbom) TableName() string {
	return "sbom_files"
}
