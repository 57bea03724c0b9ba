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

// Package heapsort implements an in-place, unstable heap sort.
//
// Heap sort needs no extra memory and its worst case is O(n log n), which makes it a good fit for
// sorting index permutations and packed diagonals without allocating.
package heapsort

// Sort sorts s in ascending order as determined by cmp. cmp(a, b) must return a negative number
// when a < b, a positive number when a > b and zero when a == b.
//
// The sort is not stable.
func Sort[E any](s []E, cmp func(a, b E) int) {
	n := len(s)
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(s, i, n, cmp)
	}
	for end := n - 1; end > 0; end-- {
		s[0], s[end] = s[end], s[0]
		siftDown(s, 0, end, cmp)
	}
}

// siftDown restores the max-heap property for the subtree rooted at root, considering only s[:n].
func siftDown[E any](s []E, root, n int, cmp func(a, b E) int) {
	for {
		child := 2*root + 1
		if child >= n {
			return
		}
		if child+1 < n && cmp(s[child], s[child+1]) < 0 {
			child++
		}
		if cmp(s[root], s[child]) >= 0 {
			return
		}
		s[root], s[child] = s[child], s[root]
		root = child
	}
}
