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

// BatchingCallback merges consecutive events of the same kind before forwarding them to another
// [ListUpdateCallback]. Call Flush after the last event.
//
// Insertions are merged if the new insertion starts within the previous one, removals are merged if
// the previous removal starts within the new one and changes are merged if they overlap or touch.
type BatchingCallback struct {
	target  ListUpdateCallback
	pending bool
	last    Event
}

// NewBatchingCallback returns a BatchingCallback that forwards to target.
func NewBatchingCallback(target ListUpdateCallback) *BatchingCallback {
	return &BatchingCallback{target: target}
}

func (b *BatchingCallback) OnInserted(position, count int) {
	if b.pending && b.last.Op == Inserted && position >= b.last.Position && position <= b.last.Position+b.last.Count {
		b.last.Count += count
		b.last.Position = min(position, b.last.Position)
		return
	}
	b.Flush()
	b.set(Inserted, position, count)
}

func (b *BatchingCallback) OnRemoved(position, count int) {
	if b.pending && b.last.Op == Removed && b.last.Position >= position && b.last.Position <= position+count {
		b.last.Count += count
		b.last.Position = position
		return
	}
	b.Flush()
	b.set(Removed, position, count)
}

func (b *BatchingCallback) OnChanged(position, count int) {
	if b.pending && b.last.Op == Changed && position <= b.last.Position+b.last.Count && position+count >= b.last.Position {
		end := max(b.last.Position+b.last.Count, position+count)
		b.last.Position = min(position, b.last.Position)
		b.last.Count = end - b.last.Position
		return
	}
	b.Flush()
	b.set(Changed, position, count)
}

func (b *BatchingCallback) set(op Op, position, count int) {
	b.last = Event{op, position, count}
	b.pending = true
}

// Flush forwards the pending event, if any.
func (b *BatchingCallback) Flush() {
	if !b.pending {
		return
	}
	b.pending = false
	switch b.last.Op {
	case Inserted:
		b.target.OnInserted(b.last.Position, b.last.Count)
	case Removed:
		b.target.OnRemoved(b.last.Position, b.last.Count)
	case Changed:
		b.target.OnChanged(b.last.Position, b.last.Count)
	default:
		panic("never reached")
	}
}
