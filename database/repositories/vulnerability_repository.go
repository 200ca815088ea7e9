// Copyright (C) 2025 the sbomfinder authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package repositories

import (
	"github.com/google/uuid"
	"github.com/sbomfinder/sbomfinder/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type vulnerabilityRepository struct {
	db *gorm.DB
	*GormRepository[string, models.Vulnerability]
}

func NewVulnerabilityRepository(db *gorm.DB) *vulnerabilityRepository {
	return &vulnerabilityRepository{
		db:             db,
		GormRepository: newGormRepository[string, models.Vulnerability](db),
	}
}

func (repository *vulnerabilityRepository) Read(cveID string) (models.Vulnerability, error) {
	var vuln models.Vulnerability
	err := repository.db.First(&vuln, "cve_id = ?", cveID).Error
	return vuln, err
}

// FindOrCreate is an idempotent upsert keyed by the external advisory ID.
// ON CONFLICT DO NOTHING followed by a read keeps it a single atomic unit
// under concurrent writers enriching different packages with the same CVE.
func (repository *vulnerabilityRepository) FindOrCreate(tx *gorm.DB, vuln models.Vulnerability) (models.Vulnerability, error) {
	err := repository.GetDB(tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cve_id"}},
		DoNothing: true,
	}).Create(&vuln).Error
	if err != nil {
		return models.Vulnerability{}, err
	}

	var existing models.Vulnerability
	err = repository.GetDB(tx).First(&existing, "cve_id = ?", vuln.CVEID).Error
	return existing, err
}

func (repository *vulnerabilityRepository) FindByPackage(packageID uuid.UUID) ([]models.Vulnerability, error) {
	var vulns []models.Vulnerability
	err := repository.db.
		Joins("JOIN package_vulnerabilities ON package_vulnerabilities.vulnerability_cve_id = vulnerabilities.cve_id").
		Where("package_vulnerabilities.software_package_id = ?", packageID).
		Find(&vulns).Error
	return vulns, err
}
