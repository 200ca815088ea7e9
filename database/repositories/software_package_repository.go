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
)

type softwarePackageRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.SoftwarePackage]
}

func NewSoftwarePackageRepository(db *gorm.DB) *softwarePackageRepository {
	return &softwarePackageRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.SoftwarePackage](db),
	}
}

func (repository *softwarePackageRepository) FindByDevice(deviceID uuid.UUID) ([]models.SoftwarePackage, error) {
	var packages []models.SoftwarePackage
	err := repository.db.Preload("Vulnerabilities").Preload("Supplier").
		Where("device_id = ?", deviceID).Order("created_at ASC, name ASC").Find(&packages).Error
	return packages, err
}

func (repository *softwarePackageRepository) FindBySbom(sbomID uuid.UUID) ([]models.SoftwarePackage, error) {
	var packages []models.SoftwarePackage
	err := repository.db.Preload("Vulnerabilities").Preload("Supplier").
		Where("sbom_id = ?", sbomID).Order("created_at ASC, name ASC").Find(&packages).Error
	return packages, err
}

// ReplaceVulnerabilities swaps the package's vulnerability link set wholesale,
// so stale associations from earlier enrichment runs cannot accumulate.
func (repository *softwarePackageRepository) ReplaceVulnerabilities(pkg *models.SoftwarePackage, vulns []models.Vulnerability) error {
	return repository.db.Model(pkg).Association("Vulnerabilities").Replace(vulns)
}
