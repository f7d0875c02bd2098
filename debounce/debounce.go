// Copyright 2025 Poiesic Systems
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

// Package debounce defers a callback until its input has been quiet for a fixed delay.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs fn with the most recent value passed to Trigger once no
// further Trigger has happened for the configured delay.
//
// fn always runs on a timer goroutine, never inside Trigger. A Debouncer is
// safe for concurrent use.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	stopped  bool
	running  int
	inflight sync.WaitGroup
}

// New creates a Debouncer. A non-positive delay still defers fn to a timer goroutine.
func New[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{
		delay: delay,
		fn:    fn,
	}
}

// Delay returns the quiet period.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// Trigger schedules fn(v), replacing any pending execution.
// It is a no-op after Stop.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.resetLocked()
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen, v)
	})
}

// Cancel drops the pending execution, if any. Later triggers still work.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked()
}

// Pending reports whether an execution is scheduled or still running.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil || d.running > 0
}

// Stop cancels the pending execution, disables the Debouncer and waits for
// a callback that is already running to return. After Stop returns fn is
// never called again. Stop must not be called from fn.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.resetLocked()
	d.mu.Unlock()

	d.inflight.Wait()
}

// resetLocked invalidates the scheduled timer. A timer that already fired
// sees a newer generation and does nothing.
func (d *Debouncer[T]) resetLocked() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) fire(gen uint64, v T) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.running++
	d.inflight.Add(1)
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running--
		d.mu.Unlock()
		d.inflight.Done()
	}()
	d.fn(v)
}
