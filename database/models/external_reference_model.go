package models

import (
	"github.com/google/uuid"
)

// ExternalReference is a (category, type, locator) triple discovered in
// project metadata or documentation of an ingestion.
type ExternalReference struct {
	ID uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`

	ReferenceCategory string `json:"referenceCategory" gorm:"type:text;not null"`
	ReferenceType     string `json:"referenceType" gorm:"type:text;not null"`
	ReferenceLocator  string `json:"referenceLocator" gorm:"type:text;not null"`

	SbomID uuid.UUID `json:"sbomId" gorm:"type:uuid;not null;index"`
	Sbom   *Sbom     `json:"-" gorm:"foreignKey:SbomID;constraint:OnDelete:CASCADE;"`
}

func (m ExternalReference) TableName() string {
	return "external_references"
}
