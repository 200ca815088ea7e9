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

package middlewares

import (
	"log/slog"
	"net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

// AddProfileEndpoints mounts the net/http/pprof handlers under /debug/pprof.
// The endpoints are unauthenticated, only enable them for local debugging.
func AddProfileEndpoints(e *echo.Echo) {
	slog.Warn("adding profile debug endpoints")
	g := e.Group("/debug/pprof")

	g.GET("", passthrough(pprof.Index))
	g.GET("/", passthrough(pprof.Index))
	g.GET("/cmdline", passthrough(pprof.Cmdline))
	g.GET("/profile", passthrough(pprof.Profile))
	g.GET("/symbol", passthrough(pprof.Symbol))
	g.POST("/symbol", passthrough(pprof.Symbol))
	g.GET("/trace", passthrough(pprof.Trace))

	for _, name := range []string{"heap", "goroutine", "block", "threadcreate", "mutex", "allocs"} {
		handler := pprof.Handler(name)
		g.GET("/"+name, func(ctx echo.Context) error {
			handler.ServeHTTP(ctx.Response().Writer, ctx.Request())
			return nil
		})
	}
}

func passthrough(h http.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		h(ctx.Response().Writer, ctx.Request())
		return nil
	}
}
