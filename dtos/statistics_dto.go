package dtos

// chart-oriented aggregation shapes, keyed the way the dashboard expects

type SbomCountDTO struct {
	Name  string `json:"name"`
	Sboms int64  `json:"sboms"`
}

type NameValueDTO struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
}

type PackageVulnCountDTO struct {
	Name  string `json:"name"`
	Vulns int64  `json:"vulns"`
}
