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

// Package rvecs contains functions to work with result vectors, the internal representation of
// per-position flags produced by the myers algorithm. A result vector for an input of length n has
// n+1 elements, the last one is always false and acts as a border when scanning for runs.
package rvecs

import "iter"

// Make returns a result vector for an input of length n.
func Make(n int) []bool {
	return make([]bool, n+1)
}

// Runs iterates over the maximal runs of set flags in r[from:to]. Every run is yielded as its start
// position and length, in ascending order.
func Runs(r []bool, from, to int) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		start := -1
		for i := from; i < to; i++ {
			switch {
			case r[i] && start < 0:
				start = i
			case !r[i] && start >= 0:
				if !yield(start, i-start) {
					return
				}
				start = -1
			}
		}
		if start >= 0 {
			yield(start, to-start)
		}
	}
}

// Count returns the number of set flags.
func Count(r []bool) int {
	n := 0
	for _, v := range r {
		if v {
			n++
		}
	}
	return n
}
