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

type deviceRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.Device]
}

func NewDeviceRepository(db *gorm.DB) *deviceRepository {
	return &deviceRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Device](db),
	}
}

// FindByIdentity looks a device up by its identifying triple.
func (repository *deviceRepository) FindByIdentity(name, manufacturer, category string) (models.Device, error) {
	var device models.Device
	err := repository.db.Where("name = ? AND manufacturer = ? AND category = ?", name, manufacturer, category).First(&device).Error
	return device, err
}

// LockByID reads the device under FOR UPDATE. Ingestions for the same device
// lock it before checking version uniqueness, so two concurrent uploads of
// the same version cannot both pass the check.
func (repository *deviceRepository) LockByID(tx *gorm.DB, id uuid.UUID) (models.Device, error) {
	var device models.Device
	err := repository.GetDB(tx).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&device, "id = ?", id).Error
	return device, err
}

// Search applies fuzzy filters; empty parameters are ignored.
func (repository *deviceRepository) Search(query, manufacturer, operatingSystem, category string) ([]models.Device, error) {
	var devices []models.Device
	q := repository.db.Model(&models.Device{})

	if query != "" {
		q = q.Where("name ILIKE ? OR manufacturer ILIKE ? OR category ILIKE ?", "%"+query+"%", "%"+query+"%", "%"+query+"%")
	}
	if manufacturer != "" {
		q = q.Where("manufacturer ILIKE ?", "%"+manufacturer+"%")
	}
	if operatingSystem != "" {
		q = q.Where("operating_system ILIKE ?", "%"+operatingSystem+"%")
	}
	if category != "" {
		q = q.Where("category ILIKE ?", "%"+category+"%")
	}

	err := q.Find(&devices).Error
	return devices, err
}

// DeleteCascade removes the device with all owned rows and cleans up suppliers
// which no longer supply any package.
func (repository *deviceRepository) DeleteCascade(id uuid.UUID) error {
	return repository.Transaction(func(tx *gorm.DB) error {
		// the link table rows go away with the packages
		if err := tx.Exec(`DELETE FROM package_vulnerabilities WHERE software_package_id IN (SELECT id FROM software_packages WHERE device_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Where("device_id = ?", id).Delete(&models.SoftwarePackage{}).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM external_references WHERE sbom_id IN (SELECT id FROM sbom_files WHERE device_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Where("device_id = ?", id).Delete(&models.SbomArchive{}).Error; err != nil {
			return err
		}
		// the device references its current sbom, drop the pointer first
		if err := tx.Model(&models.Device{}).Where("id = ?", id).Update("current_sbom_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("device_id = ?", id).Delete(&models.Sbom{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Device{}, "id = ?", id).Error; err != nil {
			return err
		}
		// orphaned suppliers accumulate otherwise
		return tx.Exec(`DELETE FROM suppliers WHERE id NOT IN (SELECT DISTINCT supplier_id FROM software_packages WHERE supplier_id IS NOT NULL)`).Error
	})
}
