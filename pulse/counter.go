// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pulse counts encoder pulses and reports them periodically.
package pulse

import (
	"sync/atomic"
)

// Counter accumulates pulses from an edge source.
// Increment is called from the edge watcher, Drain from the
// report loop. Each pulse is seen by exactly one Drain.
type Counter struct {
	count atomic.Int64
}

// NewCounter creates a Counter starting at 0.
func NewCounter() *Counter {
	return new(Counter)
}

// Increment adds a single pulse. It never blocks or allocates,
// so it is safe to use directly as an edge callback.
func (c *Counter) Increment() {
	c.count.Add(1)
}

// Drain returns the number of pulses since the previous Drain
// and resets the count to 0 in the same atomic operation.
func (c *Counter) Drain() int64 {
	return c.count.Swap(0)
}
