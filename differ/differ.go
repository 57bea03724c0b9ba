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

// Package differ computes list diffs in the background.
//
// A [Differ] holds the list that was last dispatched to its sink. New lists are submitted with
// [Differ.Submit] and diffed against that list by [Differ.Run]. Submissions are conflated: if a list
// is submitted while an older one is still waiting, the older one is dropped. If a newer list is
// submitted while a diff is computed, the result of that diff is discarded, only the latest state
// is ever dispatched.
package differ

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"znkr.io/listdiff"
)

// Option configures a [Differ].
type Option func(*options)

type options struct {
	log      logrus.FieldLogger
	diffOpts []listdiff.Option
}

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// WithDiffOptions sets the options passed to [listdiff.Diff].
func WithDiffOptions(opts ...listdiff.Option) Option {
	return func(o *options) { o.diffOpts = opts }
}

type update[T any] struct {
	list       *listdiff.FilteredArray[T]
	generation uint64
}

// Differ dispatches the changes between successive versions of a list.
type Differ[T any] struct {
	cb   listdiff.ItemCallback[T]
	sink listdiff.ListUpdateCallback
	opts options

	submitMu sync.Mutex
	pending  chan update[T] // holds at most the latest submission
	latest   atomic.Uint64

	mu      sync.Mutex // serializes dispatching and protects current
	current *listdiff.FilteredArray[T]
}

// New returns a Differ that starts with an empty list and dispatches changes to sink.
func New[T any](cb listdiff.ItemCallback[T], sink listdiff.ListUpdateCallback, opts ...Option) *Differ[T] {
	o := options{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Differ[T]{
		cb:      cb,
		sink:    sink,
		opts:    o,
		pending: make(chan update[T], 1),
		current: listdiff.Empty[T](),
	}
}

// Current returns the list that was dispatched last.
func (d *Differ[T]) Current() *listdiff.FilteredArray[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Submit schedules list to become the current list. Submit never blocks.
func (d *Differ[T]) Submit(list *listdiff.FilteredArray[T]) {
	d.submitMu.Lock()
	defer d.submitMu.Unlock()
	u := update[T]{list: list, generation: d.latest.Add(1)}
	for {
		select {
		case d.pending <- u:
			return
		default:
		}
		// Drop the waiting submission, it's outdated.
		select {
		case old := <-d.pending:
			d.opts.log.WithField("generation", old.generation).Debug("listdiff: replacing pending list")
		default:
		}
	}
}

// SubmitEmpty schedules the empty list to become the current list.
func (d *Differ[T]) SubmitEmpty() {
	d.Submit(listdiff.Empty[T]())
}

// Run processes submissions until ctx is done. It returns the context's error.
//
// A diff is dropped if a newer list was submitted while it was computed. A list submitted while a
// diff is being dispatched doesn't stop that dispatch, it's diffed against the dispatched list
// afterwards.
//
// Run must not be called concurrently.
func (d *Differ[T]) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case u := <-d.pending:
			d.process(u)
		}
	}
}

func (d *Differ[T]) process(u update[T]) {
	old := d.Current()
	res := listdiff.Diff(old, u.list, d.cb, d.opts.diffOpts...)

	log := d.opts.log.WithFields(logrus.Fields{
		"generation": u.generation,
		"old":        old.Len(),
		"new":        u.list.Len(),
	})

	d.mu.Lock()
	defer d.mu.Unlock()
	if latest := d.latest.Load(); latest != u.generation {
		log.WithField("latest", latest).Debug("listdiff: dropping stale diff")
		return
	}
	d.current = u.list
	res.DispatchTo(d.sink)
	removed, inserted, changed := res.Counts()
	log.WithFields(logrus.Fields{
		"removed":  removed,
		"inserted": inserted,
		"changed":  changed,
	}).Debug("listdiff: dispatched diff")
}
