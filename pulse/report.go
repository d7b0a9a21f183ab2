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

// Periodic pulse count reporting.

package pulse

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"
)

// DefaultInterval is the reporting interval used when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Reporter drains a Counter at a fixed interval, writing each
// value as a decimal line to an output stream.
type Reporter struct {
	counter  *Counter
	out      io.Writer
	interval time.Duration
	buf      []byte
	after    func(time.Duration) <-chan time.Time // Timer source, replaced in tests
}

// NewReporter creates a Reporter for the counter.
// A non-positive interval selects DefaultInterval.
func NewReporter(c *Counter, out io.Writer, interval time.Duration) *Reporter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := new(Reporter)
	r.counter = c
	r.out = out
	r.interval = interval
	r.buf = make([]byte, 0, 24)
	r.after = time.After
	return r
}

// Interval returns the reporting interval.
func (r *Reporter) Interval() time.Duration {
	return r.interval
}

// Run is the sampling loop. Each iteration drains the counter,
// writes the value, and then waits for the interval.
// Run returns nil when the context is cancelled, or an error
// if the output cannot be written.
func (r *Reporter) Run(ctx context.Context) error {
	for {
		if err := r.report(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-r.after(r.interval):
		}
	}
}

// Flush writes a line with the pulses counted since the last line.
// It is used to emit the final partial interval once the edge
// source has been closed.
func (r *Reporter) Flush() error {
	return r.report()
}

// report drains the counter and writes one line.
func (r *Reporter) report() error {
	v := r.counter.Drain()
	r.buf = strconv.AppendInt(r.buf[:0], v, 10)
	r.buf = append(r.buf, '\n')
	if _, err := r.out.Write(r.buf); err != nil {
		return fmt.Errorf("write count %d: %w", v, err)
	}
	return nil
}
