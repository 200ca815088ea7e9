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
	"log/slog"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/sbomfinder/sbomfinder/database/models"
	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/shared"
	"github.com/sbomfinder/sbomfinder/transformer"
	"github.com/sbomfinder/sbomfinder/utils"
)

type deviceService struct {
	deviceRepository            shared.DeviceRepository
	softwarePackageRepository   shared.SoftwarePackageRepository
	externalReferenceRepository shared.ExternalReferenceRepository
	sbomArchiveRepository       shared.SbomArchiveRepository
}

func NewDeviceService(
	deviceRepository shared.DeviceRepository,
	softwarePackageRepository shared.SoftwarePackageRepository,
	externalReferenceRepository shared.ExternalReferenceRepository,
	sbomArchiveRepository shared.SbomArchiveRepository,
) *deviceService {
	return &deviceService{
		deviceRepository:            deviceRepository,
		softwarePackageRepository:   softwarePackageRepository,
		externalReferenceRepository: externalReferenceRepository,
		sbomArchiveRepository:       sbomArchiveRepository,
	}
}

func (s *deviceService) Details(id uuid.UUID) (dtos.DeviceDetailsDTO, error) {
	device, err := s.deviceRepository.Read(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dtos.DeviceDetailsDTO{}, shared.ErrNotFound
		}
		return dtos.DeviceDetailsDTO{}, errors.Wrap(err, "could not read device")
	}
	return s.details(device)
}

func (s *deviceService) details(device models.Device) (dtos.DeviceDetailsDTO, error) {
	packages, err := s.softwarePackageRepository.FindByDevice(device.ID)
	if err != nil {
		return dtos.DeviceDetailsDTO{}, errors.Wrap(err, "could not load packages")
	}

	var refs []models.ExternalReference
	if device.CurrentSbomID != nil {
		refs, err = s.externalReferenceRepository.FindBySbom(*device.CurrentSbomID)
		if err != nil {
			return dtos.DeviceDetailsDTO{}, errors.Wrap(err, "could not load external references")
		}
	}

	return transformer.DeviceModelToDetailsDTO(device, packages, refs), nil
}

func (s *deviceService) AllDetails() ([]dtos.DeviceDetailsDTO, error) {
	devices, err := s.deviceRepository.All()
	if err != nil {
		return nil, errors.Wrap(err, "could not load devices")
	}
	return s.detailsForAll(devices)
}

func (s *deviceService) detailsForAll(devices []models.Device) ([]dtos.DeviceDetailsDTO, error) {
	result := make([]dtos.DeviceDetailsDTO, 0, len(devices))
	for _, device := range devices {
		details, err := s.details(device)
		if err != nil {
			// a single broken device should not take down the whole listing
			slog.Error("could not assemble device details", "device", device.ID, "err", err)
			continue
		}
		result = append(result, details)
	}
	return result, nil
}

// Compare returns both devices with their full package lists. The device
// level vulnerability union is left out here, the packages already carry
// their own.
func (s *deviceService) Compare(id1, id2 uuid.UUID) (dtos.DeviceComparisonDTO, error) {
	details1, err := s.Details(id1)
	if err != nil {
		return dtos.DeviceComparisonDTO{}, err
	}
	details2, err := s.Details(id2)
	if err != nil {
		return dtos.DeviceComparisonDTO{}, err
	}
	details1.Vulnerabilities = []dtos.VulnerabilityDTO{}
	details2.Vulnerabilities = []dtos.VulnerabilityDTO{}
	return dtos.DeviceComparisonDTO{Device1: details1, Device2: details2}, nil
}

func (s *deviceService) List() ([]dtos.DeviceListEntryDTO, error) {
	devices, err := s.deviceRepository.All()
	if err != nil {
		return nil, errors.Wrap(err, "could not load devices")
	}
	return utils.Map(devices, transformer.DeviceModelToListEntryDTO), nil
}

func (s *deviceService) Search(query, manufacturer, operatingSystem, category string) ([]dtos.DeviceDetailsDTO, error) {
	devices, err := s.deviceRepository.Search(query, manufacturer, operatingSystem, category)
	if err != nil {
		return nil, errors.Wrap(err, "could not search devices")
	}
	return s.detailsForAll(devices)
}

func (s *deviceService) Delete(id uuid.UUID) error {
	if _, err := s.deviceRepository.Read(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return shared.ErrNotFound
		}
		return errors.Wrap(err, "could not read device")
	}
	return s.deviceRepository.DeleteCascade(id)
}

// ArchiveOverview lists every device that owns at least one archive entry.
func (s *deviceService) ArchiveOverview() ([]dtos.DeviceArchivesDTO, error) {
	devices, err := s.deviceRepository.All()
	if err != nil {
		return nil, errors.Wrap(err, "could not load devices")
	}

	overview := make([]dtos.DeviceArchivesDTO, 0, len(devices))
	for _, device := range devices {
		archives, err := s.sbomArchiveRepository.FindAllByDevice(device.ID)
		if err != nil {
			return nil, errors.Wrap(err, "could not load archives")
		}
		if len(archives) == 0 {
			continue
		}
		overview = append(overview, dtos.DeviceArchivesDTO{
			DeviceName: device.Name,
			Archives: utils.Map(archives, func(archive models.SbomArchive) dtos.ArchiveEntryDTO {
				return dtos.ArchiveEntryDTO{
					Name:      "Version - " + archive.Version,
					ArchiveID: archive.ID,
					IsLatest:  archive.IsLatest,
				}
			}),
		})
	}
	return overview, nil
}
