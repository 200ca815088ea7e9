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
	"encoding/json"
	"regexp"

	"github.com/gosimple/slug"
	"github.com/pkg/errors"

	"github.com/sbomfinder/sbomfinder/dtos"
	"github.com/sbomfinder/sbomfinder/utils"
)

type spdxDocument struct {
	SpdxVersion       string        `json:"spdxVersion"`
	DataLicense       string        `json:"dataLicense"`
	SPDXID            string        `json:"SPDXID"`
	Name              string        `json:"name"`
	DocumentNamespace string        `json:"documentNamespace"`
	Packages          []spdxPackage `json:"packages"`
}

type spdxPackage struct {
	SPDXID           string `json:"SPDXID"`
	Name             string `json:"name"`
	VersionInfo      string `json:"versionInfo"`
	DownloadLocation string `json:"downloadLocation"`
}

var spdxIDSanitizer = regexp.MustCompile(`[^a-zA-Z0-9]`)

// BuildSPDX renders a snapshot as an SPDX 2.2 JSON document. SPDX has no
// vulnerability section, so only the package list is carried over.
func BuildSPDX(data dtos.UnifiedSbomData) ([]byte, error) {
	doc := spdxDocument{
		SpdxVersion:       "SPDX-2.2",
		DataLicense:       "CC0-1.0",
		SPDXID:            "SPDXRef-DOCUMENT",
		Name:              data.DeviceName,
		DocumentNamespace: "https://sbomfinder.org/spdxdocs/" + slug.Make(data.DeviceName),
		Packages: utils.Map(data.Components, func(component dtos.UnifiedComponent) spdxPackage {
			return spdxPackage{
				SPDXID:           "SPDXRef-Package-" + spdxIDSanitizer.ReplaceAllString(component.Name, ""),
				Name:             component.Name,
				VersionInfo:      utils.EmptyThenDefault(component.Version, noAssertion),
				DownloadLocation: noAssertion,
			}
		}),
	}

	rendered, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "could not encode spdx document")
	}
	return rendered, nil
}
