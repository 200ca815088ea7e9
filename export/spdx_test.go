package export

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbomfinder/sbomfinder/dtos"
)

func TestBuildSPDX(t *testing.T) {
	rendered, err := BuildSPDX(snapshotFixture())
	require.NoError(t, err)

	var doc spdxDocument
	require.NoError(t, json.Unmarshal(rendered, &doc))

	assert.Equal(t, "SPDX-2.2", doc.SpdxVersion)
	assert.Equal(t, "CC0-1.0", doc.DataLicense)
	assert.Equal(t, "SPDXRef-DOCUMENT", doc.SPDXID)
	assert.Equal(t, "smart-thermostat", doc.Name)
	assert.Equal(t, "https://sbomfinder.org/spdxdocs/smart-thermostat", doc.DocumentNamespace)

	require.Len(t, doc.Packages, 2)
	assert.Equal(t, "SPDXRef-Package-lodash", doc.Packages[0].SPDXID)
	assert.Equal(t, "4.17.20", doc.Packages[0].VersionInfo)
	assert.Equal(t, "NOASSERTION", doc.Packages[0].DownloadLocation)

	// non-alphanumerics are stripped from the generated id
	assert.Equal(t, "SPDXRef-Package-internalblob", doc.Packages[1].SPDXID)
}

func TestBuildSPDXVersionFallback(t *testing.T) {
	rendered, err := BuildSPDX(dtos.UnifiedSbomData{
		DeviceName: "camera",
		Components: []dtos.UnifiedComponent{{Name: "blob", Version: ""}},
	})
	require.NoError(t, err)

	var doc spdxDocument
	require.NoError(t, json.Unmarshal(rendered, &doc))
	require.Len(t, doc.Packages, 1)
	assert.Equal(t, "NOASSERTION", doc.Packages[0].VersionInfo)
}
