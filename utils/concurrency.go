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

package utils

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

// errGroup is a thin wrapper around errgroup.Group which collects the results
// of all goroutines in submission order.
type errGroup[T any] struct {
	group   *errgroup.Group
	mut     sync.Mutex
	results []T
}

func ErrGroup[T any](limit int) *errGroup[T] {
	group := &errgroup.Group{}
	group.SetLimit(limit)
	return &errGroup[T]{
		group:   group,
		results: make([]T, 0),
	}
}

func (g *errGroup[T]) Go(fn func() (T, error)) {
	g.group.Go(func() error {
		res, err := fn()
		if err != nil {
			return err
		}
		g.mut.Lock()
		g.results = append(g.results, res)
		g.mut.Unlock()
		return nil
	})
}

// WaitAndCollect blocks until all goroutines finished. The first non-nil error
// cancels the collection, matching errgroup semantics.
func (g *errGroup[T]) WaitAndCollect() ([]T, error) {
	if err := g.group.Wait(); err != nil {
		return nil, err
	}
	return g.results, nil
}
