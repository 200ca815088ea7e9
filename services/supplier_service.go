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

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const unknownSupplier = "Unknown"

// registrySupplierSource asks the public package registries who publishes a
// package. Every lookup is best effort: a registry that is down, a package
// that does not exist or a response we cannot interpret all yield "Unknown".
type registrySupplierSource struct {
	httpClient *http.Client

	pypiBaseURL   string
	npmBaseURL    string
	cratesBaseURL string
	mavenBaseURL  string
}

func NewRegistrySupplierSource() *registrySupplierSource {
	return &registrySupplierSource{
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		pypiBaseURL:   "https://pypi.org",
		npmBaseURL:    "https://registry.npmjs.org",
		cratesBaseURL: "https://crates.io",
		mavenBaseURL:  "https://search.maven.org",
	}
}

func (s *registrySupplierSource) InferSupplier(ctx context.Context, name, ecosystem string) string {
	switch strings.ToLower(ecosystem) {
	case "pypi":
		return s.pypiSupplier(ctx, name)
	case "npm":
		return s.npmSupplier(ctx, name)
	case "cargo":
		return s.cratesSupplier(ctx, name)
	case "maven":
		group, artifact, ok := strings.Cut(name, ":")
		if !ok {
			return unknownSupplier
		}
		return s.mavenSupplier(ctx, group, artifact)
	default:
		return unknownSupplier
	}
}

func (s *registrySupplierSource) getJSON(ctx context.Context, rawURL string, target any) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false
	}
	res, err := s.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return false
	}
	return json.NewDecoder(res.Body).Decode(target) == nil
}

func (s *registrySupplierSource) pypiSupplier(ctx context.Context, name string) string {
	var response struct {
		Info struct {
			Author     string `json:"author"`
			Maintainer string `json:"maintainer"`
		} `json:"info"`
	}
	if !s.getJSON(ctx, s.pypiBaseURL+"/pypi/"+url.PathEscape(name)+"/json", &response) {
		return unknownSupplier
	}
	if strings.TrimSpace(response.Info.Author) != "" {
		return response.Info.Author
	}
	if strings.TrimSpace(response.Info.Maintainer) != "" {
		return response.Info.Maintainer
	}
	return unknownSupplier
}

func (s *registrySupplierSource) npmSupplier(ctx context.Context, name string) string {
	var response struct {
		DistTags map[string]string `json:"dist-tags"`
		Versions map[string]struct {
			Author json.RawMessage `json:"author"`
		} `json:"versions"`
	}
	if !s.getJSON(ctx, s.npmBaseURL+"/"+name, &response) {
		return unknownSupplier
	}
	latest, ok := response.DistTags["latest"]
	if !ok {
		return unknownSupplier
	}
	version, ok := response.Versions[latest]
	if !ok {
		return unknownSupplier
	}
	// the author field is either an object with a name or a bare string
	var author struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(version.Author, &author); err == nil && author.Name != "" {
		return author.Name
	}
	var plain string
	if err := json.Unmarshal(version.Author, &plain); err == nil && plain != "" {
		return plain
	}
	return unknownSupplier
}

func (s *registrySupplierSource) cratesSupplier(ctx context.Context, name string) string {
	var response struct {
		Crate struct {
			Homepage   string `json:"homepage"`
			Repository string `json:"repository"`
		} `json:"crate"`
	}
	if !s.getJSON(ctx, s.cratesBaseURL+"/api/v1/crates/"+url.PathEscape(name), &response) {
		return unknownSupplier
	}
	link := response.Crate.Homepage
	if link == "" {
		link = response.Crate.Repository
	}
	if domain := extractDomain(link); domain != "" {
		return domain
	}
	return unknownSupplier
}

func (s *registrySupplierSource) mavenSupplier(ctx context.Context, group, artifact string) string {
	query := url.Values{}
	query.Set("q", `g:"`+group+`" AND a:"`+artifact+`"`)
	query.Set("rows", "1")
	query.Set("wt", "json")

	var response struct {
		Response struct {
			Docs []struct {
				Publisher string `json:"publisher"`
			} `json:"docs"`
		} `json:"response"`
	}
	if !s.getJSON(ctx, s.mavenBaseURL+"/solrsearch/select?"+query.Encode(), &response) {
		return unknownSupplier
	}
	if len(response.Response.Docs) > 0 && response.Response.Docs[0].Publisher != "" {
		return response.Response.Docs[0].Publisher
	}
	return unknownSupplier
}

func extractDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
