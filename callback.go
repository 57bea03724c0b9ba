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

import "fmt"

// ItemCallback decides how elements of the old and the new list relate to each other.
//
// AreItemsTheSame reports whether a and b represent the same item, e.g. because they have the same
// primary key. AreContentsTheSame reports whether two items that are the same also have the same
// contents. AreContentsTheSame is only called for pairs for which AreItemsTheSame returned true.
type ItemCallback[T any] interface {
	AreItemsTheSame(a, b T) bool
	AreContentsTheSame(a, b T) bool
}

// Funcs adapts a pair of functions to an [ItemCallback]. If Contents is nil, contents are always
// considered to be the same.
type Funcs[T any] struct {
	Items    func(a, b T) bool
	Contents func(a, b T) bool
}

func (f Funcs[T]) AreItemsTheSame(a, b T) bool { return f.Items(a, b) }

func (f Funcs[T]) AreContentsTheSame(a, b T) bool {
	if f.Contents == nil {
		return true
	}
	return f.Contents(a, b)
}

// ByKey returns an [ItemCallback] that identifies items by key.
func ByKey[T any, K comparable](key func(T) K, contents func(a, b T) bool) Funcs[T] {
	return Funcs[T]{
		Items:    func(a, b T) bool { return key(a) == key(b) },
		Contents: contents,
	}
}

// Comparable returns an [ItemCallback] that uses == for both identity and contents.
func Comparable[T comparable]() Funcs[T] {
	eq := func(a, b T) bool { return a == b }
	return Funcs[T]{Items: eq, Contents: eq}
}

// ListUpdateCallback receives the changes that transform an old list into a new list.
//
// Positions refer to the list with all previously dispatched changes applied.
type ListUpdateCallback interface {
	OnInserted(position, count int)
	OnRemoved(position, count int)
	OnChanged(position, count int)
}

// Event is a single list update.
type Event struct {
	Op       Op
	Position int
	Count    int
}

func (e Event) String() string {
	return fmt.Sprintf("%v(%d,%d)", e.Op, e.Position, e.Count)
}

// Events is a [ListUpdateCallback] that records all events.
type Events []Event

func (e *Events) OnInserted(position, count int) { *e = append(*e, Event{Inserted, position, count}) }
func (e *Events) OnRemoved(position, count int)  { *e = append(*e, Event{Removed, position, count}) }
func (e *Events) OnChanged(position, count int)  { *e = append(*e, Event{Changed, position, count}) }
