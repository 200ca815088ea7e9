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

type supplierRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.Supplier]
}

func NewSupplierRepository(db *gorm.DB) *supplierRepository {
	return &supplierRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.Supplier](db),
	}
}

// FindOrCreate resolves a supplier by name, inserting it when unseen. Same
// upsert discipline as the vulnerability cache.
func (repository *supplierRepository) FindOrCreate(tx *gorm.DB, name string) (models.Supplier, error) {
	supplier := models.Supplier{Name: name}
	err := repository.GetDB(tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&supplier).Error
	if err != nil {
		return models.Supplier{}, err
	}

	var existing models.Supplier
	err = repository.GetDB(tx).First(&existing, "name = ?", name).Error
	return existing, err
}
