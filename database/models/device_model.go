package models

import (
	"time"

	"github.com/google/uuid"
)

// Device is a physical or logical product. The (name, manufacturer, category)
// triple identifies it; a device owns at most one current SBOM and any number
// of archived snapshots.
type Device struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name         string `json:"name" gorm:"type:text;not null;uniqueIndex:idx_device_identity"`
	Manufacturer string `json:"manufacturer" gorm:"type:text;not null;uniqueIndex:idx_device_identity"`
	Category     string `json:"category" gorm:"type:text;not null;uniqueIndex:idx_device_identity"`

	OperatingSystem  string `json:"operatingSystem" gorm:"type:text"`
	OSVersion        string `json:"osVersion" gorm:"type:text"`
	KernelVersion    string `json:"kernelVersion" gorm:"type:text"`
	DigitalFootprint string `json:"digitalFootprint" gorm:"type:text"`

	// CurrentSbomID points to the SBOM of the most recent ingestion. Superseded
	// SBOM rows stay around; the archive is the version history.
	CurrentSbomID *uuid.UUID `json:"currentSbomId" gorm:"type:uuid"`
	CurrentSbom   *Sbom      `json:"currentSbom,omitempty" gorm:"foreignKey:CurrentSbomID"`
}

func (m Device) TableName() string {
	return "devices"
}
