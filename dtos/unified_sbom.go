package dtos

// UnifiedSbomData is the format-independent snapshot of a composition that
// gets stored in the archive. The CycloneDX and SPDX renderers both work off
// this shape, so a snapshot taken from a manifest scan exports the same way
// as one taken from an uploaded document.
type UnifiedSbomData struct {
	DeviceName      string                 `json:"deviceName"`
	Version         string                 `json:"version"`
	Components      []UnifiedComponent     `json:"components"`
	Vulnerabilities []UnifiedVulnerability `json:"vulnerabilities"`
}

type UnifiedComponent struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Purl    string `json:"purl"`
}

type UnifiedVulnerability struct {
	CVEID              string   `json:"cveId"`
	CVSSScore          float64  `json:"cvssScore"`
	Severity           string   `json:"severity"`
	AffectedComponents []string `json:"affectedComponents"`
}
