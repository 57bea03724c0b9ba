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

// Package listdiff computes the changes between two versions of a list of items, in the form used
// to update list widgets: removals, insertions and changes with a position and a count.
//
// The lists are [FilteredArray] views, a selection of elements from an origin slice described by a
// bit vector. The diff runs directly on the views, the selected elements are never copied into a
// dense slice. A view can be built from a predicate ([Filter]), from a bit vector ([New],
// [FromBitSet], [FromRoaring]) or by sorting another view ([FilteredArray.Sorted]).
//
// Items are matched by identity using an [ItemCallback]. Items that are the same in both lists but
// differ in their contents are reported as changes, never as a removal followed by an insertion.
// [Diff] finds a shortest edit script using Myers' algorithm and [Result.DispatchTo] reports it to a
// [ListUpdateCallback].
//
// Performance: O((N+M)D) time and O(N+M) space, where N and M are the lengths of the lists and D is
// the number of removals and insertions. Lists shorter than 65535 elements use a compact
// representation for intermediate results.
//
// For a diff that runs in the background and only reports the latest state of a list, see
// [znkr.io/listdiff/differ].
//
// [znkr.io/listdiff/differ]: https://pkg.go.dev/znkr.io/listdiff/differ
package listdiff
