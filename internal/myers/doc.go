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

// Package myers contains an implementation of Myers' algorithm operating on filtered views.
//
// The implementation uses the linear space variant described in section 4.2 of the paper: instead
// of computing the whole edit graph, the search advances a forward frontier from the top left and a
// backward frontier from the bottom right until they overlap. The overlap defines a snake that
// splits the problem into two independent sub problems, one above and one below the snake. Sub
// problems are kept on an explicit stack, so the depth of the call stack does not depend on the
// size of the inputs.
//
// # Edit Graph
//
// For old = "ABCABBA" and new = "CBABAC", all possible edits are represented by the graph
//
//	(0,0)   A   B   C   A   B   B   A
//	    ┌───┬───┬───┬───┬───┬───┬───┐ 0
//	    │   │   │ ╲ │   │   │   │   │
//	 C  ├───┼───┼───┼───┼───┼───┼───┤ 1
//	    │   │ ╲ │   │   │ ╲ │ ╲ │   │
//	 B  ├───┼───┼───┼───┼───┼───┼───┤ 2
//	    │ ╲ │   │   │ ╲ │   │   │ ╲ │
//	 A  ├───┼───┼───┼───┼───┼───┼───┤ 3
//	    │   │ ╲ │   │   │ ╲ │ ╲ │   │
//	 B  ├───┼───┼───┼───┼───┼───┼───┤ 4
//	    │ ╲ │   │   │ ╲ │   │   │ ╲ │
//	 A  ├───┼───┼───┼───┼───┼───┼───┤ 5
//	    │   │   │ ╲ │   │   │   │   │
//	 C  └───┴───┴───┴───┴───┴───┴───┘
//	    0   1   2   3   4   5   6     (7,6)
//
// A step to the right removes an element of old, a step down inserts an element of new and a
// diagonal step keeps an element that is the same item in both. A shortest edit script is a path
// from (0,0) to (7,6) with the fewest non-diagonal steps. Diagonal k contains all points with
// x - y = k.
//
// The forward frontier stores, for every diagonal k, the furthest x reached with d non-diagonal
// steps. The backward frontier does the same from the bottom right, indexed by the diagonal
// relative to the end point. Both arrays are centred: k is stored at index k + len/2.
//
// # Items and Contents
//
// The search only uses the identity predicate. Items that are matched by identity but differ in
// their contents are marked as changed after the search. The result of a diff is a list of
// diagonals sorted by x, framed by a zero length diagonal at (0,0) and one at the end of both
// inputs, plus a vector that marks changed positions in old.
//
// # Tie Breaking
//
// When two diagonals reach equally far, the forward search prefers to come from k+1 (an insertion)
// and the backward search prefers to come from k-1 (a removal). The rules are the same as the ones
// used by Android's DiffUtil, which makes the dispatched events identical for the same input.
//
// # Representations
//
// Diagonals and pending ranges are either stored packed into uint64 values with 16 bit fields or
// as plain structs. The packed representation is used when both inputs are shorter than 65535
// elements. Both produce the same diagonals.
//
// ## References:
//
// Myers, E.W. An O(ND) difference algorithm and its variations. Algorithmica 1, 251-266 (1986).
// https://doi.org/10.1007/BF01840446
package myers
