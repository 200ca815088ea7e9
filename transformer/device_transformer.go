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

package transformer

import (
	"github.com/sbomfinder/sbomfinder/database/models"
	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/utils"
)

const unknownSupplier = "Unknown Supplier"

func VulnerabilityModelToDTO(vuln models.Vulnerability) dtos.VulnerabilityDTO {
	return dtos.VulnerabilityDTO{
		CVEID:         vuln.CVEID,
		Description:   vuln.Description,
		Severity:      vuln.Severity,
		SeverityLevel: string(vuln.SeverityLevel),
		CVSSScore:     vuln.CVSSScore,
		SourceURL:     vuln.SourceURL,
	}
}

func SoftwarePackageModelToDTO(pkg models.SoftwarePackage) dtos.SoftwarePackageDTO {
	supplierName := unknownSupplier
	if pkg.Supplier != nil && pkg.Supplier.Name != "" {
		supplierName = pkg.Supplier.Name
	}
	return dtos.SoftwarePackageDTO{
		Name:            pkg.Name,
		Version:         pkg.Version,
		Purl:            pkg.Purl,
		SupplierName:    supplierName,
		ComponentType:   pkg.ComponentType,
		Vulnerabilities: utils.Map(pkg.Vulnerabilities, VulnerabilityModelToDTO),
	}
}

func ExternalReferenceModelToDTO(ref models.ExternalReference) dtos.ExternalReferenceDTO {
	return dtos.ExternalReferenceDTO{
		ReferenceCategory: ref.ReferenceCategory,
		ReferenceType:     ref.ReferenceType,
		ReferenceLocator:  ref.ReferenceLocator,
	}
}

// DeviceModelToDetailsDTO flattens a device with its packages and references
// into the read model the API serves. The device-level vulnerability list is
// the union over all packages, deduplicated by CVE.
func DeviceModelToDetailsDTO(device models.Device, packages []models.SoftwarePackage, refs []models.ExternalReference) dtos.DeviceDetailsDTO {
	seen := make(map[string]bool)
	vulnerabilities := make([]dtos.VulnerabilityDTO, 0)
	for _, pkg := range packages {
		for _, vuln := range pkg.Vulnerabilities {
			if seen[vuln.CVEID] {
				continue
			}
			seen[vuln.CVEID] = true
			vulnerabilities = append(vulnerabilities, VulnerabilityModelToDTO(vuln))
		}
	}

	return dtos.DeviceDetailsDTO{
		ID:                 device.ID,
		DeviceName:         device.Name,
		Manufacturer:       device.Manufacturer,
		Category:           device.Category,
		OperatingSystem:    device.OperatingSystem,
		OSVersion:          device.OSVersion,
		KernelVersion:      device.KernelVersion,
		DigitalFootprint:   device.DigitalFootprint,
		SbomID:             device.CurrentSbomID,
		SoftwarePackages:   utils.Map(packages, SoftwarePackageModelToDTO),
		ExternalReferences: utils.Map(refs, ExternalReferenceModelToDTO),
		Vulnerabilities:    vulnerabilities,
	}
}

func DeviceModelToListEntryDTO(device models.Device) dtos.DeviceListEntryDTO {
	return dtos.DeviceListEntryDTO{
		ID:   device.ID,
		Name: device.Name,
	}
}
