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
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package controllers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/sbomfinder/sbomfinder/shared"
)

// toHTTPError translates pipeline errors into responses. Conflicts (duplicate
// content, existing version) get 409, bad input 400, missing resources 404,
// anything unexpected 500 with the cause kept internal.
func toHTTPError(err error, fallbackMsg string) error {
	switch {
	case errors.Is(err, shared.ErrDuplicateSource), errors.Is(err, shared.ErrVersionExists):
		return echo.NewHTTPError(409, err.Error())
	case errors.Is(err, shared.ErrNoDependencies), errors.Is(err, shared.ErrUnsupportedFormat):
		return echo.NewHTTPError(400, err.Error())
	case errors.Is(err, shared.ErrNotFound):
		return echo.NewHTTPError(404, err.Error())
	default:
		return echo.NewHTTPError(500, fallbackMsg).WithInternal(err)
	}
}
