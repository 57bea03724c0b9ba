// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package myers

import (
	"znkr.io/listdiff/internal/config"
	"znkr.io/listdiff/internal/rvecs"
)

// Script is the result of a diff.
type Script struct {
	// Diagonals sorted by X, starting with a diagonal at (0,0) and ending with a zero length
	// diagonal at (len(old), len(new)).
	Diagonals Diagonals

	// Changed marks positions in old that are matched with an item with different contents. The
	// vector has one extra element at the end.
	Changed []bool
}

// Diff compares old and new and returns the diagonals of a shortest edit script. Items are matched
// using same. If contents is not nil, it's used to mark matched items that changed.
func Diff[T any](old, new View[T], same, contents func(a, b T) bool, cfg config.Config) Script {
	st := newStore(cfg.Repr, old.Len, new.Len)
	m := newSearch(old, new, same)
	m.run(st)
	diags := st.finish(old.Len, new.Len)

	changed := rvecs.Make(old.Len)
	if contents != nil && !cfg.IgnoreContents {
		markChanged(m, diags, contents, changed)
	}
	return Script{Diagonals: diags, Changed: changed}
}

func markChanged[T any](m *search[T], diags Diagonals, contents func(a, b T) bool, changed []bool) {
	for i := range diags.Len() {
		d := diags.At(i)
		if d.Size == 0 {
			continue
		}
		bx, by := m.old.bit(d.X), m.new.bit(d.Y)
		for j := range d.Size {
			if j > 0 {
				bx, by = m.old.next(bx), m.new.next(by)
			}
			if !contents(m.old.elem(bx), m.new.elem(by)) {
				changed[d.X+j] = true
			}
		}
	}
}
