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
	"strings"

	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"

	"github.com/sbomfinder/sbomfinder/database/models"
)

// SeverityLevelFromScore maps a CVSS base score onto the qualitative rating
// scale. A score of exactly zero means "no impact", not "unrated".
func SeverityLevelFromScore(score float64) models.SeverityLevel {
	switch {
	case score == 0.0:
		return models.SeverityLevelNone
	case score <= 3.9:
		return models.SeverityLevelLow
	case score <= 6.9:
		return models.SeverityLevelMedium
	case score <= 8.9:
		return models.SeverityLevelHigh
	default:
		return models.SeverityLevelCritical
	}
}

// scoreFromVector computes the base score of a CVSS vector string.
func scoreFromVector(vector string) (float64, bool) {
	switch {
	case strings.HasPrefix(vector, "CVSS:3.0"):
		cvss, err := gocvss30.ParseVector(vector)
		if err != nil {
			return 0, false
		}
		return cvss.BaseScore(), true
	case strings.HasPrefix(vector, "CVSS:3.1"):
		cvss, err := gocvss31.ParseVector(vector)
		if err != nil {
			return 0, false
		}
		return cvss.BaseScore(), true
	case strings.HasPrefix(vector, "CVSS:4.0"):
		cvss, err := gocvss40.ParseVector(vector)
		if err != nil {
			return 0, false
		}
		return cvss.Score(), true
	default:
		return 0, false
	}
}
