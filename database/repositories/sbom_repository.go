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

type sbomRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.Sbom]
}

func NewSbomRepository(db *gorm.DB) *sbomRepository {
	return &sbomRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Sbom](db),
	}
}

func (repository *sbomRepository) ExistsByFingerprint(tx *gorm.DB, fingerprint string) (bool, error) {
	var count int64
	err := repository.GetDB(tx).Model(&models.Sbom{}).Where("fingerprint = ?", fingerprint).Count(&count).Error
	return count > 0, err
}

func (repository *sbomRepository) FindByDeviceAndVersion(tx *gorm.DB, deviceID uuid.UUID, version string) (models.Sbom, error) {
	var sbom models.Sbom
	err := repository.GetDB(tx).Where("device_id = ? AND version = ?", deviceID, version).First(&sbom).Error
	return sbom, err
}

func (repository *sbomRepository) FindByDevice(deviceID uuid.UUID) ([]models.Sbom, error) {
	var sboms []models.Sbom
	err := repository.db.Where("device_id = ?", deviceID).Order("created_at DESC").Find(&sboms).Error
	return sboms, err
}
