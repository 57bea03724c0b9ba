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

// Package fixedbitset provides a mutable bit set with a fixed number of bits.
//
// The bits are packed into 64 bit words using the same layout as [znkr.io/listdiff.New]: bit i is
// stored in word i/64 at position i%64. A set can be used as a selection for a filtered view via
// [FixedBitSet.Words].
package fixedbitset

import (
	"encoding/binary"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"

	"znkr.io/listdiff/internal/bitvec"
)

// FixedBitSet is a set of n bits. The zero value is an empty set with no bits.
type FixedBitSet struct {
	words []uint64
	n     int
}

// New returns a bit set with n bits, all cleared.
func New(n int) *FixedBitSet {
	if n < 0 {
		panic(fmt.Sprintf("fixedbitset: negative size %d", n))
	}
	return &FixedBitSet{words: make([]uint64, bitvec.WordCount(n)), n: n}
}

// Len returns the number of bits.
func (s *FixedBitSet) Len() int { return s.n }

func (s *FixedBitSet) check(i int) {
	if i < 0 || i >= s.n {
		panic(fmt.Sprintf("fixedbitset: index out of range [%d] with length %d", i, s.n))
	}
}

// Get reports whether bit i is set.
func (s *FixedBitSet) Get(i int) bool {
	s.check(i)
	return bitvec.Get(s.words, i)
}

// Set sets bit i.
func (s *FixedBitSet) Set(i int) {
	s.check(i)
	s.words[i>>6] |= 1 << (i & 63)
}

// Clear clears bit i.
func (s *FixedBitSet) Clear(i int) {
	s.check(i)
	s.words[i>>6] &^= 1 << (i & 63)
}

// SetTo sets bit i to v.
func (s *FixedBitSet) SetTo(i int, v bool) {
	if v {
		s.Set(i)
	} else {
		s.Clear(i)
	}
}

// SetAll sets all bits to v.
func (s *FixedBitSet) SetAll(v bool) {
	if !v {
		clear(s.words)
		return
	}
	copy(s.words, bitvec.Ones(s.n))
}

// AllSet reports whether all bits are set. A set without bits has all bits set.
func (s *FixedBitSet) AllSet() bool {
	return s.Count() == s.n
}

// Count returns the number of set bits.
func (s *FixedBitSet) Count() int {
	return bitvec.Count(s.words)
}

// SetBits iterates over the indices of the set bits in ascending order.
func (s *FixedBitSet) SetBits() iter.Seq[int] {
	return bitvec.SetBits(s.words)
}

// Words returns the underlying words. Bits beyond Len are always zero.
func (s *FixedBitSet) Words() []uint64 { return s.words }

// Equal reports whether s and t have the same length and the same bits set.
func (s *FixedBitSet) Equal(t *FixedBitSet) bool {
	return s.n == t.n && slices.Equal(s.words, t.words)
}

// String returns the bits as a string of 0 and 1, starting with bit 0.
func (s *FixedBitSet) String() string {
	var sb strings.Builder
	sb.Grow(s.n)
	for i := range s.n {
		if bitvec.Get(s.words, i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// MarshalBinary encodes the set as the number of bits followed by the words, all little endian.
func (s *FixedBitSet) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 8*(len(s.words)+1))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(s.n))
	for _, w := range s.words {
		buf = binary.LittleEndian.AppendUint64(buf, w)
	}
	return buf, nil
}

var errTruncated = errors.New("truncated input")

// UnmarshalBinary decodes a set encoded by [FixedBitSet.MarshalBinary].
func (s *FixedBitSet) UnmarshalBinary(data []byte) error {
	if len(data) < 8 {
		return fmt.Errorf("fixedbitset: reading length: %w", errTruncated)
	}
	n := binary.LittleEndian.Uint64(data)
	data = data[8:]
	if n > uint64(len(data))*8 {
		return fmt.Errorf("fixedbitset: reading %d bits: %w", n, errTruncated)
	}
	nw := bitvec.WordCount(int(n))
	if len(data) != 8*nw {
		return fmt.Errorf("fixedbitset: %d bits require %d words, got %d bytes", n, nw, len(data))
	}
	words := make([]uint64, nw)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(data[8*i:])
	}
	if r := n & 63; r != 0 && words[nw-1]>>r != 0 {
		return fmt.Errorf("fixedbitset: bits set beyond length %d", n)
	}
	s.words, s.n = words, int(n)
	return nil
}
