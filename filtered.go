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
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
	"znkr.io/listdiff/internal/bitvec"
	"znkr.io/listdiff/internal/heapsort"
	"znkr.io/listdiff/internal/myers"
)

// FilteredArray is an immutable view on a subset of an origin slice.
//
// The selection is a bit vector with one bit per origin index. Element i of the view is the origin
// element at the index of the (i+1)-th set bit. Sorted views additionally carry a permutation that
// maps bit positions to origin indices.
//
// The origin slice is shared, not copied. It must not be modified while a view on it is in use.
// A nil *FilteredArray behaves like an empty view.
type FilteredArray[T any] struct {
	origin []T
	words  []uint64
	order  []int // nil unless sorted
	size   int
}

// New returns a view on the elements of origin selected by words. Bit i of the selection selects
// origin[i]. New panics if a bit beyond the end of origin is set.
func New[T any](origin []T, words []uint64) *FilteredArray[T] {
	return newFilteredArray(origin, words, bitvec.Count(words))
}

// NewSized is like [New] for a selection with a known number of set bits. NewSized panics if size
// is not the number of set bits in words.
func NewSized[T any](origin []T, words []uint64, size int) *FilteredArray[T] {
	if n := bitvec.Count(words); n != size {
		panic(fmt.Sprintf("listdiff: size %d doesn't match selection with %d elements", size, n))
	}
	return newFilteredArray(origin, words, size)
}

func newFilteredArray[T any](origin []T, words []uint64, size int) *FilteredArray[T] {
	if last := bitvec.PrevSetBit(words, len(words)<<6-1); last >= len(origin) {
		panic(fmt.Sprintf("listdiff: selection index %d out of range with origin length %d", last, len(origin)))
	}
	return &FilteredArray[T]{origin: origin, words: words, size: size}
}

// Filter returns a view on the elements of origin for which keep returns true.
func Filter[T any](origin []T, keep func(T) bool) *FilteredArray[T] {
	words, size := bitvec.Filter(origin, keep)
	return &FilteredArray[T]{origin: origin, words: words, size: size}
}

// All returns a view on all elements of origin.
func All[T any](origin []T) *FilteredArray[T] {
	return &FilteredArray[T]{origin: origin, words: bitvec.Ones(len(origin)), size: len(origin)}
}

// Empty returns an empty view.
func Empty[T any]() *FilteredArray[T] {
	return &FilteredArray[T]{}
}

// FromBitSet returns a view on the elements of origin selected by bs.
func FromBitSet[T any](origin []T, bs *bitset.BitSet) *FilteredArray[T] {
	// bitset uses the same word layout. The words are copied, bs remains mutable.
	return New(origin, slices.Clone(bs.Words()))
}

// FromRoaring returns a view on the elements of origin selected by bm.
func FromRoaring[T any](origin []T, bm *roaring.Bitmap) *FilteredArray[T] {
	words := make([]uint64, bitvec.WordCount(len(origin)))
	it := bm.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		if i >= len(origin) {
			panic(fmt.Sprintf("listdiff: selection index %d out of range with origin length %d", i, len(origin)))
		}
		words[i>>6] |= 1 << (i & 63)
	}
	return &FilteredArray[T]{origin: origin, words: words, size: int(bm.GetCardinality())}
}

// Len returns the number of elements in the view.
func (a *FilteredArray[T]) Len() int {
	if a == nil {
		return 0
	}
	return a.size
}

// At returns element i of the view. At panics if i is out of range.
func (a *FilteredArray[T]) At(i int) T {
	return a.origin[a.OriginIndex(i)]
}

// OriginIndex returns the index in the origin slice of element i. OriginIndex panics if i is out of
// range.
func (a *FilteredArray[T]) OriginIndex(i int) int {
	if i < 0 || i >= a.Len() {
		panic(fmt.Sprintf("listdiff: index out of range [%d] with length %d", i, a.Len()))
	}
	return a.originIndex(bitvec.NthSetBit(a.words, i))
}

func (a *FilteredArray[T]) originIndex(bit int) int {
	if a.order != nil {
		return a.order[bit]
	}
	return bit
}

// Origin returns the origin slice. It must not be modified.
func (a *FilteredArray[T]) Origin() []T {
	if a == nil {
		return nil
	}
	return a.origin
}

// Values iterates over the elements of the view in order. Every call starts a new iteration.
func (a *FilteredArray[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		if a == nil {
			return
		}
		for b := range bitvec.SetBits(a.words) {
			if !yield(a.origin[a.originIndex(b)]) {
				return
			}
		}
	}
}

// Sorted returns a new view on the same origin with the elements sorted by cmp. The sort is not
// stable. Neither the origin nor a are modified.
func (a *FilteredArray[T]) Sorted(cmp func(a, b T) int) *FilteredArray[T] {
	n := a.Len()
	order := make([]int, 0, n)
	if n > 0 {
		for b := range bitvec.SetBits(a.words) {
			order = append(order, a.originIndex(b))
		}
	}
	origin := a.Origin()
	heapsort.Sort(order, func(i, j int) int { return cmp(origin[i], origin[j]) })
	return &FilteredArray[T]{origin: origin, words: bitvec.Ones(n), order: order, size: n}
}

func (a *FilteredArray[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	i := 0
	for v := range a.Values() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprint(&sb, v)
		i++
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a *FilteredArray[T]) view() myers.View[T] {
	if a == nil {
		return myers.View[T]{}
	}
	return myers.View[T]{Origin: a.origin, Words: a.words, Order: a.order, Len: a.size}
}

// Equal reports whether a and b contain the same elements in the same order.
func Equal[T comparable](a, b *FilteredArray[T]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

// EqualFunc reports whether a and b contain the same elements in the same order using eq to
// compare elements.
//
// Views on the same origin with identical selections are equal without looking at the elements.
func EqualFunc[T any](a, b *FilteredArray[T], eq func(x, y T) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 || sameSelection(a, b) {
		return true
	}
	ba, bb := bitvec.NextSetBit(a.words, 0), bitvec.NextSetBit(b.words, 0)
	for range a.size {
		if !eq(a.origin[a.originIndex(ba)], b.origin[b.originIndex(bb)]) {
			return false
		}
		ba, bb = bitvec.NextSetBit(a.words, ba+1), bitvec.NextSetBit(b.words, bb+1)
	}
	return true
}

// sameSelection reports if a and b select the same elements from the same origin. Both must be
// non-empty.
func sameSelection[T any](a, b *FilteredArray[T]) bool {
	if len(a.origin) != len(b.origin) || &a.origin[0] != &b.origin[0] {
		return false
	}
	if (a.order == nil) != (b.order == nil) || a.order != nil && !slices.Equal(a.order, b.order) {
		return false
	}
	return slices.Equal(trimWords(a.words), trimWords(b.words))
}

func trimWords(words []uint64) []uint64 {
	n := len(words)
	for n > 0 && words[n-1] == 0 {
		n--
	}
	return words[:n]
}
