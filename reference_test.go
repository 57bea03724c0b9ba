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

package listdiff

import (
	"cmp"
	"slices"
)

// referenceDiff is a straightforward rendition of RecyclerView's DiffUtil without move detection.
// It works on plain slices with its own bookkeeping and dispatches every element on its own through
// a [BatchingCallback], the way DiffUtil does.
func referenceDiff[T any](old, new []T, cb ItemCallback[T]) []Event {
	type diagonal struct{ x, y, size int }
	type span struct{ oldStart, oldEnd, newStart, newEnd int }
	type snake struct {
		startX, startY, endX, endY int
		reverse                    bool
	}

	n := (len(old) + len(new) + 1) / 2
	fwd := make([]int, 2*n+1)
	bwd := make([]int, 2*n+1)
	mid := n

	forward := func(r span, d int) (snake, bool) {
		delta := (r.oldEnd - r.oldStart) - (r.newEnd - r.newStart)
		check := delta%2 != 0
		for k := -d; k <= d; k += 2 {
			var startX, x int
			if k == -d || (k != d && fwd[mid+k+1] > fwd[mid+k-1]) {
				startX = fwd[mid+k+1]
				x = startX
			} else {
				startX = fwd[mid+k-1]
				x = startX + 1
			}
			y := r.newStart + (x - r.oldStart) - k
			startY := y
			if d != 0 && x == startX {
				startY = y - 1
			}
			for x < r.oldEnd && y < r.newEnd && cb.AreItemsTheSame(old[x], new[y]) {
				x++
				y++
			}
			fwd[mid+k] = x
			if bk := delta - k; check && bk >= -d+1 && bk <= d-1 && bwd[mid+bk] <= x {
				return snake{startX, startY, x, y, false}, true
			}
		}
		return snake{}, false
	}

	backward := func(r span, d int) (snake, bool) {
		delta := (r.oldEnd - r.oldStart) - (r.newEnd - r.newStart)
		check := delta%2 == 0
		for k := -d; k <= d; k += 2 {
			var startX, x int
			if k == -d || (k != d && bwd[mid+k+1] < bwd[mid+k-1]) {
				startX = bwd[mid+k+1]
				x = startX
			} else {
				startX = bwd[mid+k-1]
				x = startX - 1
			}
			y := r.newEnd - ((r.oldEnd - x) - k)
			startY := y
			if d != 0 && x == startX {
				startY = y + 1
			}
			for x > r.oldStart && y > r.newStart && cb.AreItemsTheSame(old[x-1], new[y-1]) {
				x--
				y--
			}
			bwd[mid+k] = x
			if fk := delta - k; check && fk >= -d && fk <= d && fwd[mid+fk] >= x {
				return snake{x, y, startX, startY, true}, true
			}
		}
		return snake{}, false
	}

	var diags []diagonal
	stack := []span{{0, len(old), 0, len(new)}}
	for len(stack) > 0 {
		r := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if r.oldEnd-r.oldStart < 1 || r.newEnd-r.newStart < 1 {
			continue
		}
		fwd[mid+1] = r.oldStart
		bwd[mid+1] = r.oldEnd
		var s snake
		found := false
		for d := range (r.oldEnd - r.oldStart + r.newEnd - r.newStart + 1) / 2 {
			if s, found = forward(r, d); found {
				break
			}
			if s, found = backward(r, d); found {
				break
			}
		}
		if !found {
			continue
		}
		dx, dy := s.endX-s.startX, s.endY-s.startY
		if size := min(dx, dy); size > 0 {
			switch {
			case dx == dy, s.reverse:
				diags = append(diags, diagonal{s.startX, s.startY, size})
			case dy > dx:
				diags = append(diags, diagonal{s.startX, s.startY + 1, size})
			default:
				diags = append(diags, diagonal{s.startX + 1, s.startY, size})
			}
		}
		stack = append(stack, span{r.oldStart, s.startX, r.newStart, s.startY})
		stack = append(stack, span{s.endX, r.oldEnd, s.endY, r.newEnd})
	}
	slices.SortStableFunc(diags, func(a, b diagonal) int { return cmp.Compare(a.x, b.x) })
	if len(diags) == 0 || diags[0].x != 0 || diags[0].y != 0 {
		diags = slices.Insert(diags, 0, diagonal{})
	}
	diags = append(diags, diagonal{len(old), len(new), 0})

	changed := make([]bool, len(old))
	for _, d := range diags {
		for i := range d.size {
			changed[d.x+i] = !cb.AreContentsTheSame(old[d.x+i], new[d.y+i])
		}
	}

	var events Events
	batch := NewBatchingCallback(&events)
	posX, posY := len(old), len(new)
	for i := len(diags) - 1; i >= 0; i-- {
		d := diags[i]
		for posX > d.x+d.size {
			posX--
			batch.OnRemoved(posX, 1)
		}
		for posY > d.y+d.size {
			posY--
			batch.OnInserted(posX, 1)
		}
		for j := range d.size {
			if changed[d.x+j] {
				batch.OnChanged(d.x+j, 1)
			}
		}
		posX, posY = d.x, d.y
	}
	batch.Flush()
	return events
}
