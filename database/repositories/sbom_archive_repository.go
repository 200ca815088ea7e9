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

type sbomArchiveRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.SbomArchive]
}

func NewSbomArchiveRepository(db *gorm.DB) *sbomArchiveRepository {
	return &sbomArchiveRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.SbomArchive](db),
	}
}

// SaveNewLatest unsets the latest flag on every archive row of the device and
// inserts the new snapshot as the latest one, in a single transaction. The
// device row is locked first: flipping existing flags alone does not
// serialize two transactions that both insert a latest row, and a device's
// first ingestions have no archive rows to lock at all. The partial unique
// index on (device_id) WHERE is_latest backs the invariant at the schema
// level.
func (repository *sbomArchiveRepository) SaveNewLatest(tx *gorm.DB, archive *models.SbomArchive) error {
	run := func(tx *gorm.DB) error {
		var device models.Device
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&device, "id = ?", archive.DeviceID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.SbomArchive{}).Where("device_id = ?", archive.DeviceID).
			Update("is_latest", false).Error; err != nil {
			return err
		}
		archive.IsLatest = true
		return tx.Create(archive).Error
	}

	if tx != nil {
		return run(tx)
	}
	return repository.Transaction(run)
}

func (repository *sbomArchiveRepository) FindLatestByDevice(deviceID uuid.UUID) (models.SbomArchive, error) {
	var archive models.SbomArchive
	err := repository.db.Where("device_id = ? AND is_latest = true", deviceID).First(&archive).Error
	return archive, err
}

func (repository *sbomArchiveRepository) FindAllByDevice(deviceID uuid.UUID) ([]models.SbomArchive, error) {
	var archives []models.SbomArchive
	err := repository.db.Where("device_id = ?", deviceID).Order("created_at ASC").Find(&archives).Error
	return archives, err
}
