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
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbomfinder/sbomfinder/database/models"
	"github.com/sbomfinder/sbomfinder/dtos"
)

func TestQueryAffected(t *testing.T) {
	t.Run("should post the exact package version query and map the response", func(t *testing.T) {
		var received dtos.OSVQuery
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/query", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

			json.NewEncoder(w).Encode(dtos.OSVQueryResponse{ // nolint: errcheck
				Vulns: []dtos.OSV{
					{
						ID:      "GHSA-29mw-wpgm-hmr9",
						Summary: "Regular Expression Denial of Service in lodash",
						Severity: []dtos.OSVSeverity{
							{Type: "CVSS_V3", Score: "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:N/I:N/A:H"},
						},
						References: []dtos.OSVReference{
							{Type: "ADVISORY", URL: "https://nvd.nist.gov/vuln/detail/CVE-2020-28500"},
						},
					},
					{
						ID: "GHSA-no-details",
						Severity: []dtos.OSVSeverity{
							{Type: "CVSS_V3", Score: "9.8"},
						},
					},
				},
			})
		}))
		defer server.Close()

		service := NewOSVServiceWithBaseURL(server.URL)
		vulns, err := service.QueryAffected(context.Background(), "lodash", "npm", "4.17.20")
		require.NoError(t, err)

		assert.Equal(t, "lodash", received.Package.Name)
		assert.Equal(t, "npm", received.Package.Ecosystem)
		assert.Equal(t, "4.17.20", received.Version)

		require.Len(t, vulns, 2)
		assert.Equal(t, "GHSA-29mw-wpgm-hmr9", vulns[0].CVEID)
		assert.Equal(t, "Regular Expression Denial of Service in lodash", vulns[0].Description)
		assert.Equal(t, "CVSS_V3", vulns[0].Severity)
		assert.InDelta(t, 7.5, vulns[0].CVSSScore, 0.01)
		assert.Equal(t, models.SeverityLevelHigh, vulns[0].SeverityLevel)
		assert.Equal(t, "https://nvd.nist.gov/vuln/detail/CVE-2020-28500", vulns[0].SourceURL)

		assert.Equal(t, "No description available", vulns[1].Description)
		assert.InDelta(t, 9.8, vulns[1].CVSSScore, 0.01)
		assert.Equal(t, models.SeverityLevelCritical, vulns[1].SeverityLevel)
		assert.Equal(t, "", vulns[1].SourceURL)
	})

	t.Run("should keep advisories without a usable score at unknown severity", func(t *testing.T) {
		for name, severity := range map[string][]dtos.OSVSeverity{
			"no severity entry":   nil,
			"unparseable score":   {{Type: "CVSS_V3", Score: "not-a-vector"}},
			"unsupported version": {{Type: "CVSS_V2", Score: "AV:N/AC:L/Au:N/C:N/I:N/A:P"}},
		} {
			t.Run(name, func(t *testing.T) {
				vuln := vulnerabilityFromOSV(dtos.OSV{ID: "GHSA-unscored", Severity: severity})
				assert.Equal(t, models.SeverityLevelUnknown, vuln.SeverityLevel)
				assert.Zero(t, vuln.CVSSScore)
			})
		}

		// a real zero score is None, not Unknown
		scored := vulnerabilityFromOSV(dtos.OSV{
			ID:       "GHSA-zero",
			Severity: []dtos.OSVSeverity{{Type: "CVSS_V3", Score: "0.0"}},
		})
		assert.Equal(t, models.SeverityLevelNone, scored.SeverityLevel)
	})

	t.Run("should skip packages that cannot produce a match", func(t *testing.T) {
		service := NewOSVServiceWithBaseURL("http://localhost:1") // must never be reached

		for _, args := range [][3]string{
			{"", "npm", "1.0.0"},
			{"lodash", "", "1.0.0"},
			{"lodash", "Unknown", "1.0.0"},
			{"lodash", "npm", ""},
			{"lodash", "npm", "Unknown"},
		} {
			vulns, err := service.QueryAffected(context.Background(), args[0], args[1], args[2])
			assert.NoError(t, err)
			assert.Empty(t, vulns)
		}
	})

	t.Run("should surface non-200 responses as errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		service := NewOSVServiceWithBaseURL(server.URL)
		_, err := service.QueryAffected(context.Background(), "lodash", "npm", "4.17.20")
		assert.Error(t, err)
	})

	t.Run("should return no vulnerabilities for a clean package", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`)) // nolint: errcheck
		}))
		defer server.Close()

		service := NewOSVServiceWithBaseURL(server.URL)
		vulns, err := service.QueryAffected(context.Background(), "lodash", "npm", "4.17.21")
		require.NoError(t, err)
		assert.Empty(t, vulns)
	})
}
