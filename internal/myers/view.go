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

import "znkr.io/listdiff/internal/bitvec"

// View is a read-only sequence selected from an origin slice.
//
// Element i of the view is stored at the bit position b of the (i+1)-th set bit in Words. If Order
// is nil, the element is Origin[b], otherwise it is Origin[Order[b]].
type View[T any] struct {
	Origin []T
	Words  []uint64
	Order  []int
	Len    int
}

// SliceView returns a view on all elements of s.
func SliceView[T any](s []T) View[T] {
	return View[T]{Origin: s, Words: bitvec.Ones(len(s)), Len: len(s)}
}

// seq resolves view positions to bit positions. Sequential access uses next and prev to avoid
// counting bits from the start of the view for every element.
type seq[T any] struct {
	View[T]
	dense bool // element i is at bit position i
}

func newSeq[T any](v View[T]) seq[T] {
	return seq[T]{
		View:  v,
		dense: bitvec.Rank(v.Words, v.Len) == v.Len,
	}
}

// bit returns the bit position of element i.
func (s *seq[T]) bit(i int) int {
	if s.dense {
		return i
	}
	return bitvec.NthSetBit(s.Words, i)
}

// next returns the bit position of the element following the one at bit position b.
func (s *seq[T]) next(b int) int {
	if s.dense {
		return b + 1
	}
	return bitvec.NextSetBit(s.Words, b+1)
}

// prev returns the bit position of the element preceding the one at bit position b.
func (s *seq[T]) prev(b int) int {
	if s.dense {
		return b - 1
	}
	return bitvec.PrevSetBit(s.Words, b-1)
}

// elem returns the element at bit position b.
func (s *seq[T]) elem(b int) T {
	if s.Order != nil {
		return s.Origin[s.Order[b]]
	}
	return s.Origin[b]
}
