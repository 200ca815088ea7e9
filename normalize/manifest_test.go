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

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectManifestKind(t *testing.T) {
	cases := []struct {
		fileName string
		want     ManifestKind
	}{
		{"package.json", ManifestKindNode},
		{"PACKAGE.JSON", ManifestKindNode},
		{"src/app/package.json", ManifestKindNode},
		{"requirements.txt", ManifestKindPythonRequirements},
		{"dev-requirements.txt", ManifestKindPythonRequirements},
		{"Pipfile", ManifestKindPythonRequirements},
		{"setup.py", ManifestKindPythonSetup},
		{"pom.xml", ManifestKindMavenPOM},
		{"build.gradle", ManifestKindGradle},
		{"build.gradle.kts", ManifestKindGradle},
		{"go.mod", ManifestKindGoMod},
		{"composer.json", ManifestKindComposer},
		{"Cargo.toml", ManifestKindCargo},
		{"firmware\\Cargo.toml", ManifestKindCargo},
		{"README.md", ManifestKindUnknown},
		{"main.go", ManifestKindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.fileName, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectManifestKind(tc.fileName))
		})
	}
}

func TestManifestKindEcosystem(t *testing.T) {
	assert.Equal(t, EcosystemNpm, ManifestKindNode.Ecosystem())
	assert.Equal(t, EcosystemPyPI, ManifestKindPythonRequirements.Ecosystem())
	assert.Equal(t, EcosystemPyPI, ManifestKindPythonSetup.Ecosystem())
	assert.Equal(t, EcosystemMaven, ManifestKindMavenPOM.Ecosystem())
	assert.Equal(t, EcosystemMaven, ManifestKindGradle.Ecosystem())
	assert.Equal(t, EcosystemGolang, ManifestKindGoMod.Ecosystem())
	assert.Equal(t, EcosystemComposer, ManifestKindComposer.Ecosystem())
	assert.Equal(t, EcosystemCargo, ManifestKindCargo.Ecosystem())
	assert.Equal(t, EcosystemUnknown, ManifestKindUnknown.Ecosystem())
}
