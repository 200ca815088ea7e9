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
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package services

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/sbomfinder/sbomfinder/database/models"
	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/export"
	"github.com/sbomfinder/sbomfinder/shared"
	"github.com/sbomfinder/sbomfinder/transformer"
)

type archiveService struct {
	sbomArchiveRepository shared.SbomArchiveRepository
}

func NewArchiveService(sbomArchiveRepository shared.SbomArchiveRepository) *archiveService {
	return &archiveService{sbomArchiveRepository: sbomArchiveRepository}
}

// Archive snapshots the composition and stores it as the device's latest
// archive entry. Flipping the latest flag and inserting the new row happen
// in one transaction, so there is never a moment with zero or two latest
// entries.
func (s *archiveService) Archive(tx *gorm.DB, device models.Device, version string, packages []models.SoftwarePackage) error {
	unified := transformer.ModelsToUnifiedSbom(device, version, packages)
	content, err := json.Marshal(unified)
	if err != nil {
		return errors.Wrap(err, "could not marshal archive snapshot")
	}

	archive := models.SbomArchive{
		DeviceID: device.ID,
		Version:  version,
		Content:  datatypes.JSON(content),
	}
	return s.sbomArchiveRepository.SaveNewLatest(tx, &archive)
}

// Render converts a stored snapshot into the requested export format.
func (s *archiveService) Render(archive models.SbomArchive, format string) ([]byte, error) {
	var unified dtos.UnifiedSbomData
	if err := json.Unmarshal(archive.Content, &unified); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal archive snapshot")
	}

	switch strings.ToLower(format) {
	case "cyclonedx":
		return export.BuildCycloneDX(unified)
	case "spdx":
		return export.BuildSPDX(unified)
	default:
		return nil, shared.ErrUnsupportedFormat
	}
}
