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

// Simulated edge source

package io

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Sim is an edge source that generates falling edges at a fixed
// rate, acting like an encoder on a shaft turning at constant speed.
type Sim struct {
	rate  float64 // Edges per second
	mu    sync.Mutex
	edges atomic.Int64
	stop  chan struct{}
	done  chan struct{}
	bound bool
}

// NewSim creates a simulated edge source generating rate edges per second.
func NewSim(rate float64) *Sim {
	s := new(Sim)
	s.rate = rate
	return s
}

// Setup checks the edge rate.
func (s *Sim) Setup() error {
	if s.rate <= 0 {
		return fmt.Errorf("sim: rate %g is not positive", s.rate)
	}
	return nil
}

// BindFallingEdge starts generating edges, calling fn for each edge.
func (s *Sim) BindFallingEdge(pin int, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pin < 0 {
		return fmt.Errorf("gpio%d: invalid pin", pin)
	}
	if s.bound {
		return errors.New("sim: already bound")
	}
	s.bound = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	period := time.Duration(float64(time.Second) / s.rate)
	if period <= 0 {
		period = 1
	}
	go s.generate(period, fn)
	return nil
}

func (s *Sim) generate(period time.Duration, fn func()) {
	defer close(s.done)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.edges.Add(1)
			fn()
		}
	}
}

// Edges returns the total number of edges generated.
func (s *Sim) Edges() int64 {
	return s.edges.Load()
}

// Err returns a channel that never receives; the generator cannot fail.
func (s *Sim) Err() <-chan error {
	return nil
}

// Close stops the generator. Once Close returns, no more edges are sent.
func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		close(s.stop)
		<-s.done
		s.stop = nil
	}
	return nil
}
