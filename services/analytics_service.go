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
	"sort"

	"github.com/pkg/errors"

	"github.com/sbomfinder/sbomfinder/database/models"
	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/shared"
	"github.com/sbomfinder/sbomfinder/utils"
)

const topVulnerablePackagesLimit = 10

type analyticsService struct {
	deviceRepository          shared.DeviceRepository
	softwarePackageRepository shared.SoftwarePackageRepository
	vulnerabilityRepository   shared.VulnerabilityRepository
}

func NewAnalyticsService(
	deviceRepository shared.DeviceRepository,
	softwarePackageRepository shared.SoftwarePackageRepository,
	vulnerabilityRepository shared.VulnerabilityRepository,
) *analyticsService {
	return &analyticsService{
		deviceRepository:          deviceRepository,
		softwarePackageRepository: softwarePackageRepository,
		vulnerabilityRepository:   vulnerabilityRepository,
	}
}

func (s *analyticsService) OperatingSystems() ([]dtos.SbomCountDTO, error) {
	return s.countDevicesBy(func(device models.Device) string {
		return utils.EmptyThenDefault(device.OperatingSystem, "Unknown")
	})
}

func (s *analyticsService) Manufacturers() ([]dtos.SbomCountDTO, error) {
	return s.countDevicesBy(func(device models.Device) string {
		return utils.EmptyThenDefault(device.Manufacturer, "Unknown")
	})
}

func (s *analyticsService) Categories() ([]dtos.SbomCountDTO, error) {
	return s.countDevicesBy(func(device models.Device) string {
		return utils.EmptyThenDefault(device.Category, "Unknown")
	})
}

func (s *analyticsService) countDevicesBy(key func(models.Device) string) ([]dtos.SbomCountDTO, error) {
	devices, err := s.deviceRepository.All()
	if err != nil {
		return nil, errors.Wrap(err, "could not load devices")
	}

	counts := make(map[string]int64)
	for _, device := range devices {
		counts[key(device)]++
	}
	return sortedSbomCounts(counts), nil
}

// VulnerabilitiesByCategory sums the vulnerability links of every package
// over the device category.
func (s *analyticsService) VulnerabilitiesByCategory() ([]dtos.NameValueDTO, error) {
	counts, err := s.vulnCountsByDevice(func(device models.Device) string {
		return utils.EmptyThenDefault(device.Category, "Unknown")
	})
	if err != nil {
		return nil, err
	}

	result := make([]dtos.NameValueDTO, 0, len(counts))
	for name, value := range counts {
		result = append(result, dtos.NameValueDTO{Name: name, Value: value})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// VulnerableSuppliers ranks device manufacturers by the vulnerability count
// of their devices, most affected first.
func (s *analyticsService) VulnerableSuppliers() ([]dtos.PackageVulnCountDTO, error) {
	counts, err := s.vulnCountsByDevice(func(device models.Device) string {
		return utils.EmptyThenDefault(device.Manufacturer, "Unknown")
	})
	if err != nil {
		return nil, err
	}

	result := make([]dtos.PackageVulnCountDTO, 0, len(counts))
	for name, count := range counts {
		result = append(result, dtos.PackageVulnCountDTO{Name: name, Vulns: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Vulns != result[j].Vulns {
			return result[i].Vulns > result[j].Vulns
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (s *analyticsService) vulnCountsByDevice(key func(models.Device) string) (map[string]int64, error) {
	devices, err := s.deviceRepository.All()
	if err != nil {
		return nil, errors.Wrap(err, "could not load devices")
	}

	counts := make(map[string]int64)
	for _, device := range devices {
		packages, err := s.softwarePackageRepository.FindByDevice(device.ID)
		if err != nil {
			return nil, errors.Wrap(err, "could not load packages")
		}
		var vulnCount int64
		for _, pkg := range packages {
			vulnCount += int64(len(pkg.Vulnerabilities))
		}
		counts[key(device)] += vulnCount
	}
	return counts, nil
}

func (s *analyticsService) TopVulnerablePackages() ([]dtos.PackageVulnCountDTO, error) {
	devices, err := s.deviceRepository.All()
	if err != nil {
		return nil, errors.Wrap(err, "could not load devices")
	}

	counts := make(map[string]int64)
	for _, device := range devices {
		packages, err := s.softwarePackageRepository.FindByDevice(device.ID)
		if err != nil {
			return nil, errors.Wrap(err, "could not load packages")
		}
		for _, pkg := range packages {
			counts[pkg.Name] += int64(len(pkg.Vulnerabilities))
		}
	}

	result := make([]dtos.PackageVulnCountDTO, 0, len(counts))
	for name, count := range counts {
		result = append(result, dtos.PackageVulnCountDTO{Name: name, Vulns: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Vulns != result[j].Vulns {
			return result[i].Vulns > result[j].Vulns
		}
		return result[i].Name < result[j].Name
	})
	if len(result) > topVulnerablePackagesLimit {
		result = result[:topVulnerablePackagesLimit]
	}
	return result, nil
}

func (s *analyticsService) VulnerabilitySeverity() ([]dtos.NameValueDTO, error) {
	vulnerabilities, err := s.vulnerabilityRepository.All()
	if err != nil {
		return nil, errors.Wrap(err, "could not load vulnerabilities")
	}

	counts := make(map[string]int64)
	for _, vuln := range vulnerabilities {
		counts[utils.EmptyThenDefault(string(vuln.SeverityLevel), "Unknown")]++
	}

	result := make([]dtos.NameValueDTO, 0, len(counts))
	for name, value := range counts {
		result = append(result, dtos.NameValueDTO{Name: name, Value: value})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func sortedSbomCounts(counts map[string]int64) []dtos.SbomCountDTO {
	result := make([]dtos.SbomCountDTO, 0, len(counts))
	for name, count := range counts {
		result = append(result, dtos.SbomCountDTO{Name: name, Sboms: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
