package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SbomArchive is an immutable snapshot of a device's canonical SBOM state at
// ingestion time. At most one row per device carries IsLatest = true: the
// repository serializes transitions on the device row, and the partial
// unique index on device_id WHERE is_latest rejects a second latest row
// outright.
type SbomArchive struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	CreatedAt time.Time `json:"createdAt"`

	Version  string         `json:"version" gorm:"type:text;not null"`
	Content  datatypes.JSON `json:"content" gorm:"type:jsonb;not null"`
	IsLatest bool           `json:"isLatest" gorm:"not null;index"`

	DeviceID uuid.UUID `json:"deviceId" gorm:"type:uuid;not null;index;index:idx_sbom_archive_one_latest,unique,where:is_latest"`
	Device   *Device   `json:"-" gorm:"foreignKey:DeviceID;constraint:OnDelete:CASCADE;"`
}

func (m SbomArchive) TableName() string {
	return "sbom_archive"
}
