package dtos

// OSVQuery is the request body of the OSV https://api.osv.dev/v1/query
// endpoint.
type OSVQuery struct {
	Package OSVPackage `json:"package"`
	Version string     `json:"version,omitempty"`
}

type OSVPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

// OSVQueryResponse is the matching response body.
type OSVQueryResponse struct {
	Vulns []OSV `json:"vulns"`
}

// OSV is the subset of the OSV schema we consume,
// see https://ossf.github.io/osv-schema/.
type OSV struct {
	ID         string         `json:"id"`
	Summary    string         `json:"summary"`
	Details    string         `json:"details"`
	Aliases    []string       `json:"aliases"`
	Severity   []OSVSeverity  `json:"severity"`
	References []OSVReference `json:"references"`
}

type OSVSeverity struct {
	Type  string `json:"type"`
	Score string `json:"score"`
}

type OSVReference struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}
