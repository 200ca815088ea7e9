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

package vulndb

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sbomfinder/sbomfinder/database/models"
	"github.com/sbomfinder/sbomfinder/dtos"
)

const defaultOSVBaseURL = "https://api.osv.dev"

const noDescriptionFallback = "No description available"

type osvService struct {
	httpClient *http.Client
	baseURL    string
}

// NewOSVService returns an advisory source backed by the public OSV query
// API.
func NewOSVService() osvService {
	return osvService{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultOSVBaseURL,
	}
}

// NewOSVServiceWithBaseURL exists for tests that point the client at a local
// server.
func NewOSVServiceWithBaseURL(baseURL string) osvService {
	s := NewOSVService()
	s.baseURL = baseURL
	return s
}

// QueryAffected asks OSV for known vulnerabilities affecting the exact
// package version. A package without a usable ecosystem or version is never
// queried; the caller gets an empty result instead of guaranteed misses.
func (s osvService) QueryAffected(ctx context.Context, name, ecosystem, version string) ([]models.Vulnerability, error) {
	if name == "" || ecosystem == "" || ecosystem == "Unknown" || version == "" || version == "Unknown" {
		return nil, nil
	}

	payload, err := json.Marshal(dtos.OSVQuery{
		Package: dtos.OSVPackage{Name: name, Ecosystem: ecosystem},
		Version: version,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not marshal osv query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/query", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "could not create request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "could not query osv")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("osv query returned status %d", res.StatusCode)
	}

	var response dtos.OSVQueryResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, errors.Wrap(err, "could not decode osv response")
	}

	vulnerabilities := make([]models.Vulnerability, 0, len(response.Vulns))
	for _, osv := range response.Vulns {
		vulnerabilities = append(vulnerabilities, vulnerabilityFromOSV(osv))
	}
	return vulnerabilities, nil
}

func vulnerabilityFromOSV(osv dtos.OSV) models.Vulnerability {
	description := osv.Summary
	if description == "" {
		description = noDescriptionFallback
	}

	severity := "Unknown"
	score := 0.0
	scored := false
	if len(osv.Severity) > 0 {
		entry := osv.Severity[0]
		severity = entry.Type
		score, scored = scoreFromSeverityEntry(entry)
	}

	// an advisory without a usable score stays Unknown; None means the
	// advisory actually scored zero
	level := models.SeverityLevelUnknown
	if scored {
		level = SeverityLevelFromScore(score)
	}

	sourceURL := ""
	for _, ref := range osv.References {
		if ref.URL != "" {
			sourceURL = ref.URL
			break
		}
	}

	return models.Vulnerability{
		CVEID:         osv.ID,
		Description:   description,
		Severity:      severity,
		CVSSScore:     score,
		SeverityLevel: level,
		SourceURL:     sourceURL,
	}
}

// scoreFromSeverityEntry accepts both plain numeric scores and CVSS vector
// strings, which is what the OSV API actually returns for most ecosystems.
// The second return reports whether the entry yielded a usable score.
func scoreFromSeverityEntry(entry dtos.OSVSeverity) (float64, bool) {
	if score, err := strconv.ParseFloat(entry.Score, 64); err == nil {
		return score, true
	}
	if score, ok := scoreFromVector(entry.Score); ok {
		return score, true
	}
	return 0.0, false
}
