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

package export

import (
	"bytes"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/pkg/errors"

	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/utils"
)

// noAssertion marks fields the snapshot cannot vouch for, per the SPDX
// convention both export formats borrow here.
const noAssertion = "NOASSERTION"

// BuildCycloneDX renders a snapshot as a CycloneDX 1.4 JSON document.
// The vulnerabilities block is omitted entirely when the snapshot carries
// none, matching what downstream scanners expect from a clean bom.
func BuildCycloneDX(data dtos.UnifiedSbomData) ([]byte, error) {
	bom := cdx.NewBOM()
	bom.SpecVersion = cdx.SpecVersion1_4
	bom.Version = 1

	components := utils.Map(data.Components, func(component dtos.UnifiedComponent) cdx.Component {
		return cdx.Component{
			Type:       cdx.ComponentTypeLibrary,
			Name:       component.Name,
			Version:    component.Version,
			PackageURL: utils.EmptyThenDefault(component.Purl, noAssertion),
		}
	})
	bom.Components = &components

	if len(data.Vulnerabilities) > 0 {
		vulnerabilities := utils.Map(data.Vulnerabilities, cycloneDXVulnerability)
		bom.Vulnerabilities = &vulnerabilities
	}

	var buf bytes.Buffer
	encoder := cdx.NewBOMEncoder(&buf, cdx.BOMFileFormatJSON)
	encoder.SetPretty(true)
	if err := encoder.Encode(bom); err != nil {
		return nil, errors.Wrap(err, "could not encode cyclonedx bom")
	}
	return buf.Bytes(), nil
}

func cycloneDXVulnerability(vuln dtos.UnifiedVulnerability) cdx.Vulnerability {
	score := vuln.CVSSScore
	ratings := []cdx.VulnerabilityRating{{
		Score:    &score,
		Severity: cdx.Severity(utils.EmptyThenDefault(vuln.Severity, "UNKNOWN")),
		Method:   cdx.ScoringMethodCVSSv3,
		Vector:   noAssertion,
	}}
	affects := utils.Map(vuln.AffectedComponents, func(ref string) cdx.Affects {
		return cdx.Affects{Ref: ref}
	})
	return cdx.Vulnerability{
		ID:      vuln.CVEID,
		Source:  &cdx.Source{Name: "NVD"},
		Ratings: &ratings,
		Affects: &affects,
	}
}
