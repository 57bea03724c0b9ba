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
	"znkr.io/listdiff/internal/config"
	"znkr.io/listdiff/internal/myers"
	"znkr.io/listdiff/internal/rvecs"
)

// Result is the outcome of a comparison of two lists.
type Result struct {
	oldLen, newLen int
	script         myers.Script
}

// Diff compares old and new and returns the shortest sequence of removals and insertions that
// transforms old into new. Items that are the same in both lists but differ in their contents are
// reported as changes.
//
// Moves are not detected, a moved item is removed from its old position and inserted at the new
// one. Callbacks in cb are called synchronously and panics are not recovered.
//
// The following options are supported: [listdiff.IgnoreContents]
//
// Performance: O((N+M)D) time and O(N+M) space where N and M are the lengths of old and new and D
// is the number of removals and insertions.
func Diff[T any](old, new *FilteredArray[T], cb ItemCallback[T], opts ...Option) *Result {
	cfg := config.FromOptions(opts, config.IgnoreContents|config.ForcedRepr)
	var contents func(a, b T) bool
	if !cfg.IgnoreContents {
		contents = cb.AreContentsTheSame
	}
	return &Result{
		oldLen: old.Len(),
		newLen: new.Len(),
		script: myers.Diff(old.view(), new.view(), cb.AreItemsTheSame, contents, cfg),
	}
}

// DiffSlices is like [Diff] for two plain slices.
func DiffSlices[T any](old, new []T, cb ItemCallback[T], opts ...Option) *Result {
	return Diff(All(old), All(new), cb, opts...)
}

// OldLen returns the length of the old list.
func (r *Result) OldLen() int { return r.oldLen }

// NewLen returns the length of the new list.
func (r *Result) NewLen() int { return r.newLen }

// DispatchTo sends the changes to cb.
//
// The changes are dispatched from the end of the lists to the start. For every gap between two
// runs of matching items, the removal is dispatched before the insertion. Changes within a run of
// matching items are dispatched in ascending order.
func (r *Result) DispatchTo(cb ListUpdateCallback) {
	posX, posY := r.oldLen, r.newLen
	diags := r.script.Diagonals
	for i := diags.Len() - 1; i >= 0; i-- {
		d := diags.At(i)
		endX, endY := d.X+d.Size, d.Y+d.Size
		if n := posX - endX; n > 0 {
			cb.OnRemoved(endX, n)
		}
		if n := posY - endY; n > 0 {
			cb.OnInserted(endX, n)
		}
		for pos, n := range rvecs.Runs(r.script.Changed, d.X, endX) {
			cb.OnChanged(pos, n)
		}
		posX, posY = d.X, d.Y
	}
}

// Events returns all changes in the order they are dispatched by [Result.DispatchTo].
func (r *Result) Events() []Event {
	var events Events
	r.DispatchTo(&events)
	return events
}

// Counts returns the number of removed, inserted and changed items.
func (r *Result) Counts() (removed, inserted, changed int) {
	matched := 0
	diags := r.script.Diagonals
	for i := range diags.Len() {
		matched += diags.At(i).Size
	}
	return r.oldLen - matched, r.newLen - matched, rvecs.Count(r.script.Changed)
}
