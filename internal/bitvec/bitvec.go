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

// Package bitvec provides primitives for bit vectors packed into []uint64.
//
// Bit i lives in word i>>6 at position i&63. Words are ordered ascending, so bit 0 is the lowest bit
// of the first word. Functions never read past the end of the slice: missing words are zero.
package bitvec

import (
	"iter"
	"math/bits"
)

const (
	wordBits  = 64
	wordShift = 6
	wordMask  = wordBits - 1
)

// WordCount returns the number of words needed to store n bits.
func WordCount(n int) int {
	return (n + wordMask) >> wordShift
}

// Ones returns a bit vector with the bits [0, n) set.
func Ones(n int) []uint64 {
	words := make([]uint64, WordCount(n))
	for i := range words {
		words[i] = ^uint64(0)
	}
	if r := n & wordMask; r != 0 {
		words[len(words)-1] = 1<<r - 1
	}
	return words
}

// Count returns the number of set bits.
func Count(words []uint64) int {
	n := 0
	for _, w := range words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Get reports whether bit i is set.
func Get(words []uint64, i int) bool {
	w := i >> wordShift
	return w < len(words) && words[w]&(1<<(i&wordMask)) != 0
}

// WordSetBits iterates over the positions of the set bits in w in ascending order.
func WordSetBits(w uint64) iter.Seq[int] {
	return func(yield func(int) bool) {
		for w != 0 {
			lsb := w & -w
			if !yield(bits.TrailingZeros64(lsb)) {
				return
			}
			w ^= lsb
		}
	}
}

// SetBits iterates over the indices of all set bits in ascending order.
//
// The iteration costs O(len(words) + popcount), bits are extracted by isolating the lowest set bit
// of a word.
func SetBits(words []uint64) iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, w := range words {
			base := i << wordShift
			for b := range WordSetBits(w) {
				if !yield(base + b) {
					return
				}
			}
		}
	}
}

// NthSetBitWord returns the position of the (n+1)-th set bit of w, or -1 if w has n or fewer set
// bits.
func NthSetBitWord(w uint64, n int) int {
	if n < 0 || n >= bits.OnesCount64(w) {
		return -1
	}
	for range n {
		w &= w - 1
	}
	return bits.TrailingZeros64(w)
}

// NthSetBit returns the index of the (n+1)-th set bit, or -1 if there are n or fewer set bits.
//
// Whole words are skipped by their population count, only the word containing the result is
// scanned.
func NthSetBit(words []uint64, n int) int {
	if n < 0 {
		return -1
	}
	for i, w := range words {
		c := bits.OnesCount64(w)
		if n < c {
			return i<<wordShift + NthSetBitWord(w, n)
		}
		n -= c
	}
	return -1
}

// NextSetBit returns the smallest index >= from with a set bit, or -1 if there is none.
//
// NextSetBit panics if from is negative.
func NextSetBit(words []uint64, from int) int {
	if from < 0 {
		panic("bitvec: negative from index in NextSetBit")
	}
	i := from >> wordShift
	if i >= len(words) {
		return -1
	}
	w := words[i] & (^uint64(0) << (from & wordMask))
	for {
		if w != 0 {
			return i<<wordShift + bits.TrailingZeros64(w)
		}
		i++
		if i == len(words) {
			return -1
		}
		w = words[i]
	}
}

// PrevSetBit returns the largest index <= from with a set bit, or -1 if there is none.
//
// A from index of -1 is allowed and always returns -1. PrevSetBit panics if from is smaller than -1.
func PrevSetBit(words []uint64, from int) int {
	if from < -1 {
		panic("bitvec: from index < -1 in PrevSetBit")
	}
	if from == -1 || len(words) == 0 {
		return -1
	}
	i := from >> wordShift
	if i >= len(words) {
		i = len(words) - 1
		from = i<<wordShift + wordMask
	}
	w := words[i] & (^uint64(0) >> (wordMask - from&wordMask))
	for {
		if w != 0 {
			return i<<wordShift + wordMask - bits.LeadingZeros64(w)
		}
		i--
		if i < 0 {
			return -1
		}
		w = words[i]
	}
}

// Rank returns the number of set bits with an index < i.
func Rank(words []uint64, i int) int {
	if i <= 0 {
		return 0
	}
	w := i >> wordShift
	if w >= len(words) {
		return Count(words)
	}
	n := Count(words[:w])
	if r := i & wordMask; r != 0 {
		n += bits.OnesCount64(words[w] & (1<<r - 1))
	}
	return n
}

// Filter builds a bit vector marking the elements of s for which keep returns true. The number of
// set bits is counted while the words are built, so there is no need for a second pass.
func Filter[T any](s []T, keep func(T) bool) (words []uint64, count int) {
	words = make([]uint64, WordCount(len(s)))
	for i := range words {
		base := i << wordShift
		end := min(base+wordBits, len(s))
		var w uint64
		for j := base; j < end; j++ {
			if keep(s[j]) {
				w |= 1 << (j - base)
			}
		}
		words[i] = w
		count += bits.OnesCount64(w)
	}
	return words, count
}
