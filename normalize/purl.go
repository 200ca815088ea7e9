package normalize

import (
	"strings"

	"github.com/package-url/packageurl-go"
)

// OSV ecosystem labels, see https://ossf.github.io/osv-schema/.
const osvEcosystemUnknown = "Unknown"

var purlTypeToOSVEcosystem = map[string]string{
	"pypi":     "PyPI",
	"npm":      "npm",
	"maven":    "Maven",
	"golang":   "Go",
	"nuget":    "NuGet",
	"composer": "Composer",
	"cargo":    "crates.io",
	"rubygems": "RubyGems",
}

// BuildPurl renders a package url by plain concatenation. Maven coordinates
// keep their "group:artifact" shape and scoped npm names keep their "@",
// which strict purl encoding would percent-escape and the OSV API would then
// fail to match.
func BuildPurl(ecosystem Ecosystem, name, version string) string {
	if ecosystem == EcosystemUnknown || name == "" {
		return ""
	}
	purl := "pkg:" + string(ecosystem) + "/" + name
	if version != "" && version != UnknownVersion {
		purl += "@" + version
	}
	return purl
}

// EcosystemFromPurl maps a purl onto the ecosystem label the OSV API expects.
// Purls we cannot interpret map to "Unknown" so the caller can skip the
// advisory lookup instead of sending a query that can never match.
func EcosystemFromPurl(purl string) string {
	purlType := strings.ToLower(typeSegment(purl))
	if purlType == "" {
		return osvEcosystemUnknown
	}
	if eco, ok := purlTypeToOSVEcosystem[purlType]; ok {
		return eco
	}
	return purlType
}

// NameFromPurl recovers the package name a registry knows, including the
// namespace segment (Go module paths, scoped npm packages). The fallback is
// returned for empty or malformed purls.
func NameFromPurl(purl, fallback string) string {
	if purl == "" {
		return fallback
	}
	if parsed, err := packageurl.FromString(purl); err == nil {
		if parsed.Namespace != "" {
			return parsed.Namespace + "/" + parsed.Name
		}
		return parsed.Name
	}
	// manual fallback for purls the strict parser rejects
	rest := purl
	if idx := strings.Index(rest, "/"); idx != -1 {
		rest = rest[idx+1:]
	} else {
		return fallback
	}
	name, _, _ := strings.Cut(rest, "@")
	if name == "" {
		return fallback
	}
	return name
}

// PurlType returns the raw lowercase type segment of a purl, or "" when the
// purl has none.
func PurlType(purl string) string {
	return strings.ToLower(typeSegment(purl))
}

func typeSegment(purl string) string {
	if !strings.HasPrefix(purl, "pkg:") {
		return ""
	}
	rest := strings.TrimPrefix(purl, "pkg:")
	purlType, _, ok := strings.Cut(rest, "/")
	if !ok {
		return ""
	}
	return purlType
}
