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

// snake is a run of matches found where the forward and backward searches meet. The run may be
// preceded (forward) or followed (backward) by one non-diagonal step.
type snake struct {
	startX, startY int
	endX, endY     int
	reverse        bool
}

// diagonal returns the matching part of the snake, ok is false if there is none.
func (s snake) diagonal() (d Diagonal, ok bool) {
	dx, dy := s.endX-s.startX, s.endY-s.startY
	size := min(dx, dy)
	switch {
	case size <= 0:
		return Diagonal{}, false
	case dx == dy:
		return Diagonal{s.startX, s.startY, dx}, true
	case s.reverse:
		// The non-diagonal step is at the end.
		return Diagonal{s.startX, s.startY, size}, true
	case dy > dx:
		// Insertion first.
		return Diagonal{s.startX, s.startY + 1, size}, true
	default:
		// Removal first.
		return Diagonal{s.startX + 1, s.startY, size}, true
	}
}

// centred is an int slice indexed from -len/2 to len/2.
type centred struct {
	data []int
	mid  int
}

func newCentred(size int) centred {
	return centred{data: make([]int, size), mid: size / 2}
}

func (c centred) get(k int) int    { return c.data[k+c.mid] }
func (c centred) set(k int, v int) { c.data[k+c.mid] = v }

// search holds the state of a diff between two views. The frontiers are shared by all ranges.
type search[T any] struct {
	old, new seq[T]
	same     func(a, b T) bool
	fwd, bwd centred
}

func newSearch[T any](old, new View[T], same func(a, b T) bool) *search[T] {
	n := (old.Len + new.Len + 1) / 2
	return &search[T]{
		old:  newSeq(old),
		new:  newSeq(new),
		same: same,
		fwd:  newCentred(2*n + 1),
		bwd:  newCentred(2*n + 1),
	}
}

// run processes all ranges on the stack and records the diagonals it finds.
func (m *search[T]) run(st store) {
	st.push(Range{0, m.old.Len, 0, m.new.Len})
	for {
		r, ok := st.pop()
		if !ok {
			return
		}
		s, ok := m.midPoint(r)
		if !ok {
			continue
		}
		if d, ok := s.diagonal(); ok {
			st.add(d)
		}
		st.push(Range{r.OldStart, s.startX, r.NewStart, s.startY})
		st.push(Range{s.endX, r.OldEnd, s.endY, r.NewEnd})
	}
}

// midPoint finds the snake where the forward and backward searches on r overlap. There is no such
// snake if either side of r is empty.
func (m *search[T]) midPoint(r Range) (snake, bool) {
	if r.oldSize() < 1 || r.newSize() < 1 {
		return snake{}, false
	}
	dmax := (r.oldSize() + r.newSize() + 1) / 2
	m.fwd.set(1, r.OldStart)
	m.bwd.set(1, r.OldEnd)
	for d := range dmax {
		if s, ok := m.forward(r, d); ok {
			return s, true
		}
		if s, ok := m.backward(r, d); ok {
			return s, true
		}
	}
	return snake{}, false
}

func (m *search[T]) forward(r Range, d int) (snake, bool) {
	f, b := m.fwd, m.bwd
	delta := r.oldSize() - r.newSize()
	checkOverlap := delta%2 != 0
	for k := -d; k <= d; k += 2 {
		var startX, x int
		if k == -d || (k != d && f.get(k+1) > f.get(k-1)) {
			// Insertion: move down from k+1.
			startX = f.get(k + 1)
			x = startX
		} else {
			// Removal: move right from k-1.
			startX = f.get(k - 1)
			x = startX + 1
		}
		y := r.NewStart + (x - r.OldStart) - k
		startY := y
		if d != 0 && x == startX {
			startY = y - 1
		}
		x, y = m.extendForward(x, y, r.OldEnd, r.NewEnd)
		f.set(k, x)
		if checkOverlap {
			bk := delta - k
			if bk >= -d+1 && bk <= d-1 && b.get(bk) <= x {
				return snake{startX, startY, x, y, false}, true
			}
		}
	}
	return snake{}, false
}

func (m *search[T]) backward(r Range, d int) (snake, bool) {
	f, b := m.fwd, m.bwd
	delta := r.oldSize() - r.newSize()
	checkOverlap := delta%2 == 0
	for k := -d; k <= d; k += 2 {
		var startX, x int
		if k == -d || (k != d && b.get(k+1) < b.get(k-1)) {
			startX = b.get(k + 1)
			x = startX
		} else {
			startX = b.get(k - 1)
			x = startX - 1
		}
		y := r.NewEnd - ((r.OldEnd - x) - k)
		startY := y
		if d != 0 && x == startX {
			startY = y + 1
		}
		x, y = m.extendBackward(x, y, r.OldStart, r.NewStart)
		b.set(k, x)
		if checkOverlap {
			fk := delta - k
			if fk >= -d && fk <= d && f.get(fk) >= x {
				return snake{x, y, startX, startY, true}, true
			}
		}
	}
	return snake{}, false
}

// extendForward follows the diagonal from (x, y) as long as the items are the same.
func (m *search[T]) extendForward(x, y, xmax, ymax int) (int, int) {
	if x >= xmax || y >= ymax {
		return x, y
	}
	bx, by := m.old.bit(x), m.new.bit(y)
	for m.same(m.old.elem(bx), m.new.elem(by)) {
		x++
		y++
		if x == xmax || y == ymax {
			break
		}
		bx, by = m.old.next(bx), m.new.next(by)
	}
	return x, y
}

// extendBackward follows the diagonal from (x, y) towards the origin as long as the items are the
// same.
func (m *search[T]) extendBackward(x, y, xmin, ymin int) (int, int) {
	if x <= xmin || y <= ymin {
		return x, y
	}
	bx, by := m.old.bit(x-1), m.new.bit(y-1)
	for m.same(m.old.elem(bx), m.new.elem(by)) {
		x--
		y--
		if x == xmin || y == ymin {
			break
		}
		bx, by = m.old.prev(bx), m.new.prev(by)
	}
	return x, y
}
