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
	"log/slog"

	"github.com/pkg/errors"

	"github.com/sbomfinder/sbomfinder/database/models"
	"github.com/sbomfinder/sbomfinder/normalize"
	"github.com/sbomfinder/sbomfinder/shared"
	"github.com/sbomfinder/sbomfinder/utils"
)

// enrichmentConcurrency bounds the parallel advisory lookups per upload.
const enrichmentConcurrency = 10

type vulnerabilityService struct {
	advisorySource            shared.AdvisorySource
	vulnerabilityRepository   shared.VulnerabilityRepository
	softwarePackageRepository shared.SoftwarePackageRepository
}

func NewVulnerabilityService(
	advisorySource shared.AdvisorySource,
	vulnerabilityRepository shared.VulnerabilityRepository,
	softwarePackageRepository shared.SoftwarePackageRepository,
) *vulnerabilityService {
	return &vulnerabilityService{
		advisorySource:            advisorySource,
		vulnerabilityRepository:   vulnerabilityRepository,
		softwarePackageRepository: softwarePackageRepository,
	}
}

// EnrichPackage looks up advisories for a single package and replaces its
// vulnerability links with the current result set. Vulnerability rows are
// shared across packages: two packages affected by the same CVE both link
// the same row.
func (s *vulnerabilityService) EnrichPackage(ctx context.Context, pkg *models.SoftwarePackage) error {
	ecosystem := normalize.EcosystemFromPurl(pkg.Purl)
	name := normalize.NameFromPurl(pkg.Purl, pkg.Name)

	fetched, err := s.advisorySource.QueryAffected(ctx, name, ecosystem, pkg.Version)
	if err != nil {
		return errors.Wrapf(err, "could not query advisories for %s@%s", name, pkg.Version)
	}

	linked := make([]models.Vulnerability, 0, len(fetched))
	for _, vuln := range fetched {
		existing, err := s.vulnerabilityRepository.FindOrCreate(nil, vuln)
		if err != nil {
			return errors.Wrapf(err, "could not persist vulnerability %s", vuln.CVEID)
		}
		linked = append(linked, existing)
	}

	if err := s.softwarePackageRepository.ReplaceVulnerabilities(pkg, linked); err != nil {
		return errors.Wrap(err, "could not link vulnerabilities")
	}
	pkg.Vulnerabilities = linked
	return nil
}

// EnrichPackages runs the advisory lookup for a whole composition
// concurrently. A failing lookup only costs that one package its enrichment,
// the rest of the upload proceeds.
func (s *vulnerabilityService) EnrichPackages(ctx context.Context, pkgs []models.SoftwarePackage) {
	group := utils.ErrGroup[struct{}](enrichmentConcurrency)
	for i := range pkgs {
		group.Go(func() (struct{}, error) {
			if err := s.EnrichPackage(ctx, &pkgs[i]); err != nil {
				slog.Error("could not enrich package", "package", pkgs[i].Name, "version", pkgs[i].Version, "err", err)
			}
			return struct{}{}, nil
		})
	}
	// errors are swallowed above, WaitAndCollect only synchronizes
	_, _ = group.WaitAndCollect()
}
