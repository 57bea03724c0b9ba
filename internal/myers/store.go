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
	"cmp"
	"fmt"
	"slices"

	"znkr.io/listdiff/internal/config"
	"znkr.io/listdiff/internal/heapsort"
)

// Diagonal is a run of Size matching pairs (X+i, Y+i) for i in [0, Size).
type Diagonal struct {
	X, Y, Size int
}

// Range is a pending sub problem: old[OldStart:OldEnd] against new[NewStart:NewEnd].
type Range struct {
	OldStart, OldEnd int
	NewStart, NewEnd int
}

func (r Range) oldSize() int { return r.OldEnd - r.OldStart }
func (r Range) newSize() int { return r.NewEnd - r.NewStart }

// Diagonals is a list of diagonals sorted by X.
type Diagonals interface {
	Len() int
	At(i int) Diagonal
}

// store holds the pending ranges and the diagonals found so far.
type store interface {
	push(r Range)
	pop() (Range, bool)
	add(d Diagonal)

	// finish sorts the diagonals and adds the zero length diagonals at the start and end.
	finish(oldLen, newLen int) Diagonals
}

// newStore returns the store for the configured representation.
func newStore(repr config.Repr, oldLen, newLen int) store {
	n := max(oldLen, newLen)
	switch repr {
	case config.ReprAuto:
		if n < packedLimit {
			return &packedStore{}
		}
		return &wideStore{}
	case config.ReprPacked:
		if n >= packedLimit {
			panic(fmt.Sprintf("listdiff: packed representation requires inputs shorter than %d elements, got %d", packedLimit, n))
		}
		return &packedStore{}
	case config.ReprWide:
		return &wideStore{}
	default:
		panic("never reached")
	}
}

// PackedDiagonals stores diagonals as x<<32 | y<<16 | size.
type PackedDiagonals []uint64

func packDiagonal(d Diagonal) uint64 {
	return uint64(d.X)<<(2*fieldBits) | uint64(d.Y)<<fieldBits | uint64(d.Size)
}

func (p PackedDiagonals) Len() int { return len(p) }

func (p PackedDiagonals) At(i int) Diagonal {
	v := p[i]
	return Diagonal{
		X:    int(v >> (2 * fieldBits) & fieldMask),
		Y:    int(v >> fieldBits & fieldMask),
		Size: int(v & fieldMask),
	}
}

func packRange(r Range) uint64 {
	return uint64(r.OldStart)<<(3*fieldBits) | uint64(r.OldEnd)<<(2*fieldBits) | uint64(r.NewStart)<<fieldBits | uint64(r.NewEnd)
}

func unpackRange(v uint64) Range {
	return Range{
		OldStart: int(v >> (3 * fieldBits) & fieldMask),
		OldEnd:   int(v >> (2 * fieldBits) & fieldMask),
		NewStart: int(v >> fieldBits & fieldMask),
		NewEnd:   int(v & fieldMask),
	}
}

type packedStore struct {
	ranges []uint64
	diags  PackedDiagonals
}

func (s *packedStore) push(r Range) { s.ranges = append(s.ranges, packRange(r)) }

func (s *packedStore) pop() (Range, bool) {
	n := len(s.ranges)
	if n == 0 {
		return Range{}, false
	}
	v := s.ranges[n-1]
	s.ranges = s.ranges[:n-1]
	return unpackRange(v), true
}

func (s *packedStore) add(d Diagonal) { s.diags = append(s.diags, packDiagonal(d)) }

func (s *packedStore) finish(oldLen, newLen int) Diagonals {
	// X is stored in the most significant bits and diagonals never share an X, comparing the
	// packed values sorts by X.
	heapsort.Sort(s.diags, cmp.Compare[uint64])
	out := make(PackedDiagonals, 0, len(s.diags)+2)
	if len(s.diags) == 0 || s.diags[0]>>fieldBits != 0 {
		out = append(out, packDiagonal(Diagonal{}))
	}
	out = append(out, s.diags...)
	out = append(out, packDiagonal(Diagonal{X: oldLen, Y: newLen}))
	return out
}

// WideDiagonals stores diagonals as structs.
type WideDiagonals []Diagonal

func (w WideDiagonals) Len() int          { return len(w) }
func (w WideDiagonals) At(i int) Diagonal { return w[i] }

type wideStore struct {
	ranges []Range
	diags  WideDiagonals
}

func (s *wideStore) push(r Range) { s.ranges = append(s.ranges, r) }

func (s *wideStore) pop() (Range, bool) {
	n := len(s.ranges)
	if n == 0 {
		return Range{}, false
	}
	r := s.ranges[n-1]
	s.ranges = s.ranges[:n-1]
	return r, true
}

func (s *wideStore) add(d Diagonal) { s.diags = append(s.diags, d) }

func (s *wideStore) finish(oldLen, newLen int) Diagonals {
	slices.SortFunc(s.diags, func(a, b Diagonal) int { return cmp.Compare(a.X, b.X) })
	out := make(WideDiagonals, 0, len(s.diags)+2)
	if len(s.diags) == 0 || s.diags[0].X != 0 || s.diags[0].Y != 0 {
		out = append(out, Diagonal{})
	}
	out = append(out, s.diags...)
	out = append(out, Diagonal{X: oldLen, Y: newLen})
	return out
}
