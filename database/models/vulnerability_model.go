package models

import (
	"time"
)

// SeverityLevel is the ordinal band derived from the numeric CVSS score.
type SeverityLevel string

const (
	SeverityLevelNone     SeverityLevel = "None"
	SeverityLevelLow      SeverityLevel = "Low"
	SeverityLevelMedium   SeverityLevel = "Medium"
	SeverityLevelHigh     SeverityLevel = "High"
	SeverityLevelCritical SeverityLevel = "Critical"
	SeverityLevelUnknown  SeverityLevel = "Unknown"
)

// Vulnerability is one advisory. The external advisory ID is the primary key,
// so the same CVE is never stored twice; enrichment does a find-or-create
// against this table. Rows are never deleted, they only become unreferenced
// when packages unlink them.
type Vulnerability struct {
	CVEID     string    `json:"cveId" gorm:"primaryKey;not null;type:text;column:cve_id"`
	CreatedAt time.Time `json:"createdAt"`

	Description   string        `json:"description" gorm:"type:text"`
	Severity      string        `json:"severity" gorm:"type:text"`
	SeverityLevel SeverityLevel `json:"severityLevel" gorm:"type:text"`
	CVSSScore     float64       `json:"cvssScore" gorm:"type:decimal(4,2)"`
	SourceURL     string        `json:"sourceUrl" gorm:"type:text"`

	Packages []SoftwarePackage `json:"-" gorm:"many2many:package_vulnerabilities;"`
}

func (m Vulnerability) TableName() string {
	return "vulnerabilities"
}
