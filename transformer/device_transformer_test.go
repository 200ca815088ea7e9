package transformer

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbomfinder/sbomfinder/database/models"
)

func TestSoftwarePackageModelToDTO(t *testing.T) {
	t.Run("should carry the supplier name", func(t *testing.T) {
		dto := SoftwarePackageModelToDTO(models.SoftwarePackage{
			Name:     "lodash",
			Version:  "4.17.21",
			Purl:     "pkg:npm/lodash@4.17.21",
			Supplier: &models.Supplier{Name: "lodash.com"},
		})
		assert.Equal(t, "lodash.com", dto.SupplierName)
	})

	t.Run("should fall back for packages without a resolved supplier", func(t *testing.T) {
		dto := SoftwarePackageModelToDTO(models.SoftwarePackage{Name: "lodash"})
		assert.Equal(t, "Unknown Supplier", dto.SupplierName)
	})
}

func TestDeviceModelToDetailsDTO(t *testing.T) {
	sbomID := uuid.New()
	device := models.Device{
		ID:            uuid.New(),
		Name:          "smart-thermostat",
		Manufacturer:  "Acme",
		Category:      "Smart Home",
		CurrentSbomID: &sbomID,
	}

	cve := models.Vulnerability{CVEID: "CVE-2020-28500", CVSSScore: 5.3, SeverityLevel: models.SeverityLevelMedium}
	packages := []models.SoftwarePackage{
		{Name: "lodash", Vulnerabilities: []models.Vulnerability{cve}},
		{Name: "lodash-es", Vulnerabilities: []models.Vulnerability{cve}},
		{Name: "express"},
	}

	dto := DeviceModelToDetailsDTO(device, packages, nil)

	assert.Equal(t, "smart-thermostat", dto.DeviceName)
	assert.Equal(t, &sbomID, dto.SbomID)
	assert.Len(t, dto.SoftwarePackages, 3)

	// the same CVE affecting two packages appears once on the device
	require.Len(t, dto.Vulnerabilities, 1)
	assert.Equal(t, "CVE-2020-28500", dto.Vulnerabilities[0].CVEID)
	assert.Equal(t, "Medium", dto.Vulnerabilities[0].SeverityLevel)
}

func TestModelsToUnifiedSbom(t *testing.T) {
	device := models.Device{Name: "smart-thermostat"}
	packages := []models.SoftwarePackage{
		{
			Name:    "lodash",
			Version: "4.17.20",
			Purl:    "pkg:npm/lodash@4.17.20",
			Vulnerabilities: []models.Vulnerability{
				{CVEID: "CVE-2020-28500", CVSSScore: 5.3, Severity: "CVSS_V3"},
			},
		},
		{Name: "internal-blob", Version: "Unknown"},
	}

	data := ModelsToUnifiedSbom(device, "2.4.1", packages)

	assert.Equal(t, "smart-thermostat", data.DeviceName)
	assert.Equal(t, "2.4.1", data.Version)

	require.Len(t, data.Components, 2)
	assert.Equal(t, "pkg:npm/lodash@4.17.20", data.Components[0].Purl)
	// a package without a purl is still referenced, just not resolvable
	assert.Equal(t, "NOASSERTION", data.Components[1].Purl)

	require.Len(t, data.Vulnerabilities, 1)
	assert.Equal(t, []string{"pkg:npm/lodash@4.17.20"}, data.Vulnerabilities[0].AffectedComponents)
}
