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
	"crypto/sha256"
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	gocmp "github.com/google/go-cmp/cmp"
	"znkr.io/listdiff/internal/config"
	"znkr.io/listdiff/internal/listpatch"
)

type record struct {
	id, v int
}

var byID = ByKey(func(r record) int { return r.id }, func(a, b record) bool { return a == b })

func records(ids ...int) []record {
	out := make([]record, len(ids))
	for i, id := range ids {
		out[i] = record{id: id}
	}
	return out
}

var reprs = []config.Repr{config.ReprPacked, config.ReprWide}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old, new []record
		want     []Event
	}{
		{
			name: "identical",
			old:  records(0, 1, 2),
			new:  records(0, 1, 2),
			want: nil,
		},
		{
			name: "empty",
			old:  nil,
			new:  nil,
			want: nil,
		},
		{
			name: "insert-only",
			old:  nil,
			new:  records(0, 1, 2),
			want: []Event{{Inserted, 0, 3}},
		},
		{
			name: "remove-only",
			old:  records(0, 1),
			new:  nil,
			want: []Event{{Removed, 0, 2}},
		},
		{
			name: "content-change",
			old:  []record{{0, 0}},
			new:  []record{{0, 1}},
			want: []Event{{Changed, 0, 1}},
		},
		{
			name: "mixed",
			old:  records(0, 1, 2, 3),
			new:  []record{{1, 1}, {2, 0}, {3, 1}, {4, 0}},
			want: []Event{{Inserted, 4, 1}, {Changed, 1, 1}, {Changed, 3, 1}, {Removed, 0, 1}},
		},
		{
			name: "reorder",
			old:  records(0, 1),
			new:  records(1, 0),
			want: []Event{{Inserted, 2, 1}, {Removed, 0, 1}},
		},
		{
			name: "nothing-in-common",
			old:  records(0, 1),
			new:  records(2, 3, 4),
			want: []Event{{Removed, 0, 2}, {Inserted, 0, 3}},
		},
		{
			name: "changed-run",
			old:  records(0, 1, 2, 3),
			new:  []record{{0, 1}, {1, 1}, {2, 0}, {3, 1}},
			want: []Event{{Changed, 0, 2}, {Changed, 3, 1}},
		},
		{
			name: "remove-first",
			old:  records(0, 1, 2),
			new:  records(1, 2),
			want: []Event{{Removed, 0, 1}},
		},
		{
			name: "insert-first",
			old:  records(1, 2),
			new:  records(0, 1, 2),
			want: []Event{{Inserted, 0, 1}},
		},
		{
			name: "keep-middle",
			old:  records(0, 1, 2),
			new:  records(1),
			want: []Event{{Removed, 2, 1}, {Removed, 0, 1}},
		},
		{
			name: "keep-last",
			old:  records(0, 1, 2),
			new:  records(2),
			want: []Event{{Removed, 0, 2}},
		},
		{
			name: "prepend",
			old:  records(2),
			new:  records(0, 1, 2),
			want: []Event{{Inserted, 0, 2}},
		},
		{
			name: "surround",
			old:  records(1),
			new:  records(0, 1, 2),
			want: []Event{{Inserted, 1, 1}, {Inserted, 0, 1}},
		},
		{
			name: "single-identical",
			old:  records(0),
			new:  records(0),
			want: nil,
		},
		{
			name: "replace-last",
			old:  records(0, 1),
			new:  records(0, 2),
			want: []Event{{Removed, 1, 1}, {Inserted, 1, 1}},
		},
		{
			name: "insert-one",
			old:  nil,
			new:  records(0),
			want: []Event{{Inserted, 0, 1}},
		},
		{
			name: "insert-two",
			old:  nil,
			new:  records(0, 1),
			want: []Event{{Inserted, 0, 2}},
		},
		{
			name: "remove-one",
			old:  records(0),
			new:  nil,
			want: []Event{{Removed, 0, 1}},
		},
		{
			name: "keep-odd",
			old:  records(0, 1, 2, 3),
			new:  records(1, 3),
			want: []Event{{Removed, 2, 1}, {Removed, 0, 1}},
		},
		{
			name: "fill-gap",
			old:  records(0, 3),
			new:  records(0, 1, 2, 3),
			want: []Event{{Inserted, 1, 2}},
		},
		{
			name: "remove-and-change",
			old:  records(0, 1),
			new:  []record{{1, 1}},
			want: []Event{{Changed, 1, 1}, {Removed, 0, 1}},
		},
		{
			name: "change-ends",
			old:  records(0, 1, 2, 3, 4),
			new:  []record{{0, 1}, {1, 1}, {2, 0}, {3, 0}, {4, 1}},
			want: []Event{{Changed, 0, 2}, {Changed, 4, 1}},
		},
		{
			name: "change-prefix",
			old:  records(0, 1, 2, 3, 4),
			new:  []record{{0, 1}, {1, 1}, {2, 0}, {3, 0}, {4, 0}},
			want: []Event{{Changed, 0, 2}},
		},
		{
			name: "trim-and-change",
			old:  records(0, 1, 2, 3, 4),
			new:  []record{{1, 1}, {2, 0}, {3, 0}},
			want: []Event{{Removed, 4, 1}, {Changed, 1, 1}, {Removed, 0, 1}},
		},
		{
			name: "grow-around-changed",
			old:  records(1),
			new:  []record{{0, 0}, {1, 1}, {2, 0}, {3, 1}, {4, 0}},
			want: []Event{{Inserted, 1, 3}, {Changed, 0, 1}, {Inserted, 0, 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, repr := range reprs {
				got := DiffSlices(tt.old, tt.new, byID, config.ForceRepr(repr)).Events()
				if diff := gocmp.Diff(tt.want, got); diff != "" {
					t.Errorf("Diff(...) with repr %v differs [-want,+got]:\n%s", repr, diff)
				}
			}
			if diff := gocmp.Diff(tt.want, referenceDiff(tt.old, tt.new, byID)); diff != "" {
				t.Errorf("referenceDiff(...) differs [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestDiff_ignoreContents(t *testing.T) {
	cb := Funcs[record]{
		Items:    func(a, b record) bool { return a.id == b.id },
		Contents: func(a, b record) bool { panic("contents compared") },
	}
	old := records(0, 1, 2)
	new := []record{{1, 1}, {2, 1}, {3, 0}}
	got := DiffSlices(old, new, cb, IgnoreContents()).Events()
	want := []Event{{Inserted, 3, 1}, {Removed, 0, 1}}
	if diff := gocmp.Diff(want, got); diff != "" {
		t.Errorf("Diff(...) differs [-want,+got]:\n%s", diff)
	}
}

func TestDiff_filtered(t *testing.T) {
	// Diffing views must be identical to diffing the selected elements as plain slices.
	origin := make([]record, 200)
	for i := range origin {
		origin[i] = record{id: i % 50, v: i / 50}
	}
	old := Filter(origin, func(r record) bool { return r.v == 0 && r.id%3 != 0 })
	new := Filter(origin, func(r record) bool { return r.v == 1 && r.id%4 != 0 })
	sorted := new.Sorted(func(a, b record) int { return b.id - a.id })

	for _, tt := range []struct {
		name     string
		old, new *FilteredArray[record]
	}{
		{"filtered", old, new},
		{"sorted", old, sorted},
		{"same", sorted, sorted},
	} {
		t.Run(tt.name, func(t *testing.T) {
			oldValues, newValues := slices.Collect(tt.old.Values()), slices.Collect(tt.new.Values())
			for _, repr := range reprs {
				got := Diff(tt.old, tt.new, byID, config.ForceRepr(repr)).Events()
				want := DiffSlices(oldValues, newValues, byID, config.ForceRepr(repr)).Events()
				if diff := gocmp.Diff(want, got); diff != "" {
					t.Errorf("Diff(...) with repr %v differs [-want,+got]:\n%s", repr, diff)
				}
				checkPatch(t, oldValues, newValues, got)
			}
		})
	}
}

func TestDiff_self(t *testing.T) {
	origin := records(0, 1, 2, 3, 4, 5, 6)
	a := Filter(origin, func(r record) bool { return r.id%2 == 0 })
	b := Filter(slices.Clone(origin), func(r record) bool { return r.id%2 == 0 })
	for _, other := range []*FilteredArray[record]{a, b} {
		if got := Diff(a, other, byID).Events(); len(got) != 0 {
			t.Errorf("Diff(a, a) = %v, want no events", got)
		}
	}
}

func TestDiff_random(t *testing.T) {
	for _, size := range []int{20, 50, 100} {
		for i := range 100 {
			seed := sha256.Sum256(fmt.Append(nil, size, i))
			rng := rand.New(rand.NewChaCha8(seed))
			old, new := randomLists(rng, size)

			var events [][]Event
			for _, repr := range reprs {
				got := DiffSlices(old, new, byID, config.ForceRepr(repr))
				checkPatch(t, old, new, got.Events())
				removed, inserted, _ := got.Counts()
				if want := len(old) + len(new) - 2*lcs(old, new); removed+inserted != want {
					t.Errorf("size=%d, iteration %d: Diff(...) has %d removals and insertions, want %d", size, i, removed+inserted, want)
				}
				events = append(events, got.Events())
			}
			if diff := gocmp.Diff(events[0], events[1]); diff != "" {
				t.Errorf("size=%d, iteration %d: packed and wide representations differ [-packed,+wide]:\n%s", size, i, diff)
			}
		}
	}
}

// The dispatched events must be identical to the events of the reference diff, not just equally
// short.
func TestDiff_matchesReference(t *testing.T) {
	for _, size := range []int{0, 1, 2, 3, 5, 20, 50, 100} {
		for i := range 200 {
			seed := sha256.Sum256(fmt.Append(nil, "reference", size, i))
			rng := rand.New(rand.NewChaCha8(seed))

			var old, new []record
			switch i % 3 {
			case 0:
				old, new = randomLists(rng, size)
			case 1:
				// Few distinct ids produce many equally short edit scripts.
				old, new = randomRecords(rng, size, 1+size/4), randomRecords(rng, size, 1+size/4)
			case 2:
				// Permutation of the same items.
				old = make([]record, size)
				for j := range old {
					old[j] = record{id: j}
				}
				new = slices.Clone(old)
				rng.Shuffle(len(new), func(a, b int) { new[a], new[b] = new[b], new[a] })
			}

			want := referenceDiff(old, new, byID)
			for _, repr := range reprs {
				got := DiffSlices(old, new, byID, config.ForceRepr(repr)).Events()
				if diff := gocmp.Diff(want, got); diff != "" {
					t.Fatalf("size=%d, iteration %d: Diff(%v, %v) with repr %v differs from reference [-want,+got]:\n%s", size, i, old, new, repr, diff)
				}
			}
		}
	}
}

func TestDiff_matchesReferenceViews(t *testing.T) {
	for _, size := range []int{1, 10, 70, 200} {
		for i := range 100 {
			seed := sha256.Sum256(fmt.Append(nil, "views", size, i))
			rng := rand.New(rand.NewChaCha8(seed))

			// Old and new share the ids, new has some contents updated.
			oldOrigin := randomRecords(rng, size, 1+size/3)
			newOrigin := slices.Clone(oldOrigin)
			for j := range newOrigin {
				if rng.IntN(5) == 0 {
					newOrigin[j].v++
				}
			}
			oldSel, newSel := roaring.New(), roaring.New()
			for j := range size {
				if rng.IntN(3) != 0 {
					oldSel.Add(uint32(j))
				}
				if rng.IntN(3) != 0 {
					newSel.Add(uint32(j))
				}
			}
			byValue := func(a, b record) int { return cmp.Or(a.id-b.id, a.v-b.v) }

			for _, tt := range []struct {
				name     string
				old, new *FilteredArray[record]
			}{
				{"filtered", New(oldOrigin, randomWords(rng, size)), New(newOrigin, randomWords(rng, size))},
				{"roaring", FromRoaring(oldOrigin, oldSel), FromRoaring(newOrigin, newSel)},
				{"sorted", FromRoaring(oldOrigin, oldSel).Sorted(byValue), FromRoaring(newOrigin, newSel)},
				{"both-sorted", All(oldOrigin).Sorted(byValue), FromRoaring(newOrigin, newSel).Sorted(byValue)},
			} {
				want := referenceDiff(slices.Collect(tt.old.Values()), slices.Collect(tt.new.Values()), byID)
				for _, repr := range reprs {
					got := Diff(tt.old, tt.new, byID, config.ForceRepr(repr)).Events()
					if diff := gocmp.Diff(want, got); diff != "" {
						t.Fatalf("%s, size=%d, iteration %d: Diff(%v, %v) with repr %v differs from reference [-want,+got]:\n%s", tt.name, size, i, tt.old, tt.new, repr, diff)
					}
				}
			}
		}
	}
}

// Sizes around the limit of the packed representation.
func TestDiff_representationBoundary(t *testing.T) {
	if testing.Short() {
		t.Skip("large inputs")
	}
	for _, n := range []int{65534, 65535, 65536} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			t.Parallel()
			seed := sha256.Sum256(fmt.Append(nil, n))
			rng := rand.New(rand.NewChaCha8(seed))

			old := make([]record, n)
			for i := range old {
				old[i] = record{id: i}
			}
			new := slices.Clone(old)
			for range 8 {
				switch i := rng.IntN(len(new)); rng.IntN(3) {
				case 0:
					new = slices.Delete(new, i, i+1)
				case 1:
					new = slices.Insert(new, i, record{id: n + i})
				case 2:
					new[i].v++
				}
			}
			// Keep the length of new at n to hit the boundary on both sides.
			for len(new) < n {
				new = append(new, record{id: 2*n + len(new)})
			}
			new = new[:n]

			got := DiffSlices(old, new, byID)
			checkPatch(t, old, new, got.Events())
			if n < 65535 {
				packed := DiffSlices(old, new, byID, config.ForceRepr(config.ReprPacked)).Events()
				wide := DiffSlices(old, new, byID, config.ForceRepr(config.ReprWide)).Events()
				if diff := gocmp.Diff(packed, wide); diff != "" {
					t.Errorf("packed and wide representations differ [-packed,+wide]:\n%s", diff)
				}
			}
		})
	}
}

func TestDiff_packedTooLarge(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("forcing the packed representation for a large input didn't panic")
		}
	}()
	DiffSlices(make([]record, 65535), nil, byID, config.ForceRepr(config.ReprPacked))
}

func TestDiff_optionNotAllowed(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Diff(...) with unsupported option didn't panic")
		}
	}()
	Diff(All(records(1)), All(records(1)), byID, func(*config.Config) config.Flag { return 1 << 10 })
}

func FuzzDiff(f *testing.F) {
	f.Add([]byte("ABCABBA"), []byte("CBABAC"))
	f.Add([]byte{}, []byte{1, 2, 3})
	f.Fuzz(func(t *testing.T, x, y []byte) {
		// Bytes are split into an id (low nibble) and a value (high nibble).
		old, new := make([]record, len(x)), make([]record, len(y))
		for i, b := range x {
			old[i] = record{int(b & 0xF), int(b >> 4)}
		}
		for i, b := range y {
			new[i] = record{int(b & 0xF), int(b >> 4)}
		}
		checkPatch(t, old, new, DiffSlices(old, new, byID).Events())
	})
}

func checkPatch(t *testing.T, old, new []record, events []Event) {
	t.Helper()
	p := listpatch.New(len(old))
	for _, e := range events {
		switch e.Op {
		case Inserted:
			p.OnInserted(e.Position, e.Count)
		case Removed:
			p.OnRemoved(e.Position, e.Count)
		case Changed:
			p.OnChanged(e.Position, e.Count)
		}
	}
	if err := listpatch.Verify(old, new, byID.Items, byID.Contents, p); err != nil {
		t.Errorf("applying %v: %v", events, err)
	}
}

func randomLists(rng *rand.Rand, size int) (old, new []record) {
	old = make([]record, size)
	for i := range old {
		old[i] = record{id: i}
	}
	new = slices.Clone(old)
	rng.Shuffle(len(new), func(i, j int) { new[i], new[j] = new[j], new[i] })
	new = new[:rng.IntN(size+1)]
	for i := range new {
		if rng.IntN(4) == 0 {
			new[i].v = 1
		}
	}
	for range rng.IntN(size/4 + 1) {
		new = append(new, record{id: size + rng.IntN(size+1)})
	}
	return old, new
}

// randomRecords returns n records with ids in [0, ids) and values in [0, 2).
func randomRecords(rng *rand.Rand, n, ids int) []record {
	out := make([]record, n)
	for i := range out {
		out[i] = record{id: rng.IntN(ids), v: rng.IntN(2)}
	}
	return out
}

// randomWords returns a random selection from n elements.
func randomWords(rng *rand.Rand, n int) []uint64 {
	words := make([]uint64, (n+63)/64)
	for i := range words {
		words[i] = rng.Uint64()
	}
	if r := n % 64; r != 0 {
		words[len(words)-1] &= 1<<r - 1
	}
	return words
}

// lcs returns the length of the longest common subsequence of items of x and y.
func lcs(x, y []record) int {
	prev := make([]int, len(y)+1)
	cur := make([]int, len(y)+1)
	for i := range x {
		for j := range y {
			if x[i].id == y[j].id {
				cur[j+1] = prev[j] + 1
			} else {
				cur[j+1] = max(prev[j+1], cur[j])
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(y)]
}
