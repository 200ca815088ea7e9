package models

import (
	"time"

	"github.com/google/uuid"
)

// SoftwarePackage is one component of one SBOM. Immutable after enrichment
// except for the vulnerability link set, which re-enrichment replaces
// wholesale.
type SoftwarePackage struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	CreatedAt time.Time `json:"createdAt"`

	Name    string `json:"name" gorm:"type:text;not null"`
	Version string `json:"version" gorm:"type:text"`
	// Purl is the canonical identifier, pkg:<ecosystem>/<name>[@<version>].
	// Empty when the ecosystem is unknown.
	Purl          string `json:"purl" gorm:"type:text;index"`
	ComponentType string `json:"componentType" gorm:"type:text"`

	DownloadLocation string `json:"downloadLocation" gorm:"type:text"`
	LicenseDeclared  string `json:"licenseDeclared" gorm:"type:text"`
	LicenseConcluded string `json:"licenseConcluded" gorm:"type:text"`
	CopyrightText    string `json:"copyrightText" gorm:"type:text"`

	SbomID   uuid.UUID `json:"sbomId" gorm:"type:uuid;not null;index"`
	Sbom     *Sbom     `json:"-" gorm:"foreignKey:SbomID;constraint:OnDelete:CASCADE;"`
	DeviceID uuid.UUID `json:"deviceId" gorm:"type:uuid;not null;index"`
	Device   *Device   `json:"-" gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE;"`

	SupplierID *uuid.UUID `json:"supplierId" gorm:"type:uuid"`
	Supplier   *Supplier  `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`

	Vulnerabilities []Vulnerability `json:"vulnerabilities" gorm:"many2many:package_vulnerabilities;"`
}

func (m SoftwarePackage) TableName() string {
	return "software_packages"
}
