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

// ModelsToUnifiedSbom builds the archive snapshot for one composition. A
// package without a purl is referenced by name so the affected component
// list never carries empty refs.
func ModelsToUnifiedSbom(device models.Device, version string, packages []models.SoftwarePackage) dtos.UnifiedSbomData {
	components := utils.Map(packages, func(pkg models.SoftwarePackage) dtos.UnifiedComponent {
		return dtos.UnifiedComponent{
			Name:    pkg.Name,
			Version: pkg.Version,
			Purl:    utils.EmptyThenDefault(pkg.Purl, "NOASSERTION"),
		}
	})

	vulnerabilities := make([]dtos.UnifiedVulnerability, 0)
	for _, pkg := range packages {
		ref := utils.EmptyThenDefault(pkg.Purl, pkg.Name)
		for _, vuln := range pkg.Vulnerabilities {
			vulnerabilities = append(vulnerabilities, dtos.UnifiedVulnerability{
				CVEID:              vuln.CVEID,
				CVSSScore:          vuln.CVSSScore,
				Severity:           vuln.Severity,
				AffectedComponents: []string{ref},
			})
		}
	}

	return dtos.UnifiedSbomData{
		DeviceName:      device.Name,
		Version:         version,
		Components:      components,
		Vulnerabilities: vulnerabilities,
	}
}
