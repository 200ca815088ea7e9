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

package config

import "os"

// set at build time via -ldflags
var (
	Version = "dev"
	Commit  = "none"
)

// Env returns the value of the environment variable or the provided
// default when unset or empty.
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DatabaseConfig carries the postgres connection parameters.
type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
}

func Database() DatabaseConfig {
	return DatabaseConfig{
		Host:     Env("POSTGRES_HOST", "localhost"),
		User:     Env("POSTGRES_USER", "sbomfinder"),
		Password: Env("POSTGRES_PASSWORD", "sbomfinder"),
		Name:     Env("POSTGRES_DB", "sbomfinder"),
		Port:     Env("POSTGRES_PORT", "5432"),
	}
}
