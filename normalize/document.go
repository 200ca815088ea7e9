package normalize

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/pkg/errors"
)

// DocumentFormat identifies the standard an uploaded SBOM document follows.
type DocumentFormat string

const (
	DocumentFormatCycloneDX DocumentFormat = "CycloneDX"
	DocumentFormatSPDX      DocumentFormat = "SPDX"
)

// ErrUnrecognizedDocument is returned when an uploaded file is neither a
// CycloneDX nor an SPDX JSON document.
var ErrUnrecognizedDocument = errors.New("document is neither CycloneDX nor SPDX json")

// DocumentInfo is the format-independent view of an uploaded SBOM document.
type DocumentInfo struct {
	Format              DocumentFormat
	SpecVersion         string
	Name                string
	Version             string
	DataLicense         string
	Created             time.Time
	CreatorOrganization string
	CreatorTool         string
	Packages            []ExtractedPackage
	ExternalRefs        []ExternalRef
}

type documentProbe struct {
	BomFormat   string `json:"bomFormat"`
	SpdxVersion string `json:"spdxVersion"`
}

// ParseSBOMDocument sniffs the document format and normalizes the content.
func ParseSBOMDocument(data []byte) (*DocumentInfo, error) {
	var probe documentProbe
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, errors.Wrap(err, "could not decode sbom document")
	}

	switch {
	case probe.BomFormat == "CycloneDX":
		return parseCycloneDX(data)
	case strings.HasPrefix(probe.SpdxVersion, "SPDX-"):
		return parseSPDX(data)
	default:
		return nil, ErrUnrecognizedDocument
	}
}

func parseCycloneDX(data []byte) (*DocumentInfo, error) {
	var bom cdx.BOM
	if err := cdx.NewBOMDecoder(bytes.NewReader(data), cdx.BOMFileFormatJSON).Decode(&bom); err != nil {
		return nil, errors.Wrap(err, "could not decode cyclonedx bom")
	}

	info := DocumentInfo{
		Format:      DocumentFormatCycloneDX,
		SpecVersion: bom.SpecVersion.String(),
	}

	if bom.Metadata != nil {
		if ts, err := time.Parse(time.RFC3339, bom.Metadata.Timestamp); err == nil {
			info.Created = ts
		}
		if bom.Metadata.Component != nil {
			info.Name = bom.Metadata.Component.Name
			info.Version = bom.Metadata.Component.Version
		}
		if bom.Metadata.Authors != nil && len(*bom.Metadata.Authors) > 0 {
			info.CreatorOrganization = (*bom.Metadata.Authors)[0].Name
		}
		info.CreatorTool = cycloneDXToolName(bom.Metadata.Tools)
	}

	if bom.Components != nil {
		for _, component := range *bom.Components {
			version := component.Version
			if version == "" {
				version = UnknownVersion
			}
			pkg := ExtractedPackage{
				Name:             component.Name,
				Version:          version,
				Purl:             component.PackageURL,
				ComponentType:    string(component.Type),
				CopyrightText:    component.Copyright,
				LicenseDeclared:  cycloneDXLicense(component.Licenses),
				LicenseConcluded: cycloneDXLicense(component.Licenses),
			}
			if component.ExternalReferences != nil {
				for _, ref := range *component.ExternalReferences {
					pkg.ExternalRefs = append(pkg.ExternalRefs, ExternalRef{
						Category: "EXTERNAL",
						Type:     strings.ToUpper(string(ref.Type)),
						Locator:  ref.URL,
					})
				}
			}
			info.Packages = append(info.Packages, pkg)
		}
	}

	if bom.ExternalReferences != nil {
		for _, ref := range *bom.ExternalReferences {
			info.ExternalRefs = append(info.ExternalRefs, ExternalRef{
				Category: "EXTERNAL",
				Type:     strings.ToUpper(string(ref.Type)),
				Locator:  ref.URL,
			})
		}
	}

	return &info, nil
}

func cycloneDXToolName(tools *cdx.ToolsChoice) string {
	if tools == nil {
		return ""
	}
	if tools.Components != nil && len(*tools.Components) > 0 {
		return (*tools.Components)[0].Name
	}
	if tools.Tools != nil && len(*tools.Tools) > 0 {
		return (*tools.Tools)[0].Name
	}
	return ""
}

func cycloneDXLicense(licenses *cdx.Licenses) string {
	if licenses == nil || len(*licenses) == 0 {
		return ""
	}
	choice := (*licenses)[0]
	if choice.License != nil {
		if choice.License.ID != "" {
			return choice.License.ID
		}
		return choice.License.Name
	}
	return choice.Expression
}

type spdxDocument struct {
	SpdxVersion  string `json:"spdxVersion"`
	DataLicense  string `json:"dataLicense"`
	Name         string `json:"name"`
	CreationInfo struct {
		Created  string   `json:"created"`
		Creators []string `json:"creators"`
	} `json:"creationInfo"`
	Packages []spdxPackage `json:"packages"`
}

type spdxPackage struct {
	Name             string `json:"name"`
	VersionInfo      string `json:"versionInfo"`
	DownloadLocation string `json:"downloadLocation"`
	LicenseConcluded string `json:"licenseConcluded"`
	LicenseDeclared  string `json:"licenseDeclared"`
	CopyrightText    string `json:"copyrightText"`
	ExternalRefs     []struct {
		ReferenceCategory string `json:"referenceCategory"`
		ReferenceType     string `json:"referenceType"`
		ReferenceLocator  string `json:"referenceLocator"`
	} `json:"externalRefs"`
}

func parseSPDX(data []byte) (*DocumentInfo, error) {
	var doc spdxDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "could not decode spdx document")
	}

	info := DocumentInfo{
		Format:      DocumentFormatSPDX,
		SpecVersion: doc.SpdxVersion,
		Name:        doc.Name,
		DataLicense: doc.DataLicense,
	}
	if ts, err := time.Parse(time.RFC3339, doc.CreationInfo.Created); err == nil {
		info.Created = ts
	}
	for _, creator := range doc.CreationInfo.Creators {
		if org, ok := strings.CutPrefix(creator, "Organization:"); ok {
			info.CreatorOrganization = strings.TrimSpace(org)
		} else if tool, ok := strings.CutPrefix(creator, "Tool:"); ok {
			info.CreatorTool = strings.TrimSpace(tool)
		}
	}

	for _, pkg := range doc.Packages {
		version := pkg.VersionInfo
		if version == "" || version == "NOASSERTION" {
			version = UnknownVersion
		}
		extracted := ExtractedPackage{
			Name:             pkg.Name,
			Version:          version,
			ComponentType:    "library",
			DownloadLocation: pkg.DownloadLocation,
			LicenseDeclared:  pkg.LicenseDeclared,
			LicenseConcluded: pkg.LicenseConcluded,
			CopyrightText:    pkg.CopyrightText,
		}
		for _, ref := range pkg.ExternalRefs {
			if ref.ReferenceType == "purl" {
				extracted.Purl = ref.ReferenceLocator
				continue
			}
			extracted.ExternalRefs = append(extracted.ExternalRefs, ExternalRef{
				Category: ref.ReferenceCategory,
				Type:     ref.ReferenceType,
				Locator:  ref.ReferenceLocator,
			})
		}
		info.Packages = append(info.Packages, extracted)
	}

	return &info, nil
}
