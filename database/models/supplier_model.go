package models

import (
	"github.com/google/uuid"
)

// Supplier is a best-effort resolved publisher, shared across packages.
// Suppliers left without a single package after a cascade delete are removed.
type Supplier struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name        string    `json:"name" gorm:"type:text;not null;uniqueIndex"`
	Website     string    `json:"website" gorm:"type:text"`
	ContactInfo string    `json:"contactInfo" gorm:"type:text"`

	Packages []SoftwarePackage `json:"-" gorm:"foreignKey:SupplierID"`
}

func (m Supplier) TableName() string {
	return "suppliers"
}
