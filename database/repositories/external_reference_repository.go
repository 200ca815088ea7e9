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

type externalReferenceRepository struct {
	db *gorm.DB
	*GormRepository[uuid.UUID, models.ExternalReference]
}

func NewExternalReferenceRepository(db *gorm.DB) *externalReferenceRepository {
	return &externalReferenceRepository{
		db:             db,
		GormRepository: newGormRepository[uuid.UUID, models.ExternalReference](db),
	}
}

func (repository *externalReferenceRepository) FindBySbom(sbomID uuid.UUID) ([]models.ExternalReference, error) {
	var refs []models.ExternalReference
	err := repository.db.Where("sbom_id = ?", sbomID).Find(&refs).Error
	return refs, err
}
