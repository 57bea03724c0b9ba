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

// Package listpatch applies list update events to a model of the old list and checks that the
// result is the new list.
//
// This package is only for testing and validation.
package listpatch

import (
	"errors"
	"fmt"
	"slices"
)

// Slot is an element of the patched list.
type Slot struct {
	Old     int  // Index in the old list, -1 for inserted items.
	Changed bool // Set if an OnChanged event covered the slot.
}

// Patch replays list update events. It implements the ListUpdateCallback interface of the listdiff
// package.
type Patch struct {
	slots                      []Slot
	inserted, removed, changed int
	err                        error
}

// New returns a patch for an old list of length n.
func New(n int) *Patch {
	slots := make([]Slot, n)
	for i := range slots {
		slots[i].Old = i
	}
	return &Patch{slots: slots}
}

func (p *Patch) check(op string, position, count, limit int) bool {
	if p.err != nil {
		return false
	}
	if count <= 0 || position < 0 || position+count > limit {
		p.err = fmt.Errorf("%s(%d, %d) out of range for list of length %d", op, position, count, len(p.slots))
		return false
	}
	return true
}

func (p *Patch) OnInserted(position, count int) {
	// Inserting at the end is allowed.
	if !p.check("OnInserted", position, count, len(p.slots)+count) {
		return
	}
	inserted := make([]Slot, count)
	for i := range inserted {
		inserted[i].Old = -1
	}
	p.slots = slices.Insert(p.slots, position, inserted...)
	p.inserted += count
}

func (p *Patch) OnRemoved(position, count int) {
	if !p.check("OnRemoved", position, count, len(p.slots)) {
		return
	}
	p.slots = slices.Delete(p.slots, position, position+count)
	p.removed += count
}

func (p *Patch) OnChanged(position, count int) {
	if !p.check("OnChanged", position, count, len(p.slots)) {
		return
	}
	for i := position; i < position+count; i++ {
		if p.slots[i].Changed {
			p.err = fmt.Errorf("OnChanged(%d, %d) reports slot %d twice", position, count, i)
			return
		}
		p.slots[i].Changed = true
	}
	p.changed += count
}

// Err returns the first error encountered while applying events.
func (p *Patch) Err() error { return p.err }

// Slots returns the patched list.
func (p *Patch) Slots() []Slot { return p.slots }

// Counts returns the number of removed, inserted and changed items.
func (p *Patch) Counts() (removed, inserted, changed int) {
	return p.removed, p.inserted, p.changed
}

var ErrMismatch = errors.New("patched list doesn't match")

// Verify checks that the patched list is new: every slot that wasn't inserted must hold an item
// that is the same as the new item at that position, the old items must keep their relative order
// and a slot must be marked as changed if and only if the contents differ. If contents is nil,
// no slot may be marked as changed.
func Verify[T any](old, new []T, same, contents func(a, b T) bool, p *Patch) error {
	if p.err != nil {
		return fmt.Errorf("applying events: %w", p.err)
	}
	if len(p.slots) != len(new) {
		return fmt.Errorf("%w: got length %d, want %d", ErrMismatch, len(p.slots), len(new))
	}
	last := -1
	for i, s := range p.slots {
		if s.Old < 0 {
			if s.Changed {
				return fmt.Errorf("%w: inserted slot %d is marked as changed", ErrMismatch, i)
			}
			continue
		}
		if s.Old <= last {
			return fmt.Errorf("%w: slot %d holds old item %d after old item %d", ErrMismatch, i, s.Old, last)
		}
		last = s.Old
		if !same(old[s.Old], new[i]) {
			return fmt.Errorf("%w: slot %d holds old item %d which is not the same item", ErrMismatch, i, s.Old)
		}
		want := contents != nil && !contents(old[s.Old], new[i])
		if s.Changed != want {
			return fmt.Errorf("%w: slot %d changed = %v, want %v", ErrMismatch, i, s.Changed, want)
		}
	}
	return nil
}
