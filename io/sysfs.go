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

package io

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Sysfs is an edge source using the sysfs GPIO interface.
// A goroutine waits for edges using poll, and a pipe is
// used to wake it when the source is closed.
type Sysfs struct {
	mu     sync.Mutex
	pin    *Gpio
	wake   [2]int // Read and write ends of the wakeup pipe
	errc   chan error
	done   chan struct{}
	closed bool
}

// NewSysfs creates a sysfs edge source.
func NewSysfs() *Sysfs {
	s := new(Sysfs)
	s.errc = make(chan error, 1)
	return s
}

// Setup checks that the GPIO pins can be exported.
func (s *Sysfs) Setup() error {
	if err := unix.Access(exportFile(), unix.W_OK); err != nil {
		return fmt.Errorf("%s: %v", exportFile(), err)
	}
	return nil
}

// BindFallingEdge opens the pin as an input with falling edge
// detection, and calls fn for every edge.
func (s *Sysfs) BindFallingEdge(pin int, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New("source closed")
	}
	if s.pin != nil {
		return fmt.Errorf("gpio%d: already bound", s.pin.number)
	}
	g, err := Pin(pin)
	if err != nil {
		return err
	}
	if err = g.Edge(FALLING); err != nil {
		g.Close()
		return err
	}
	// Clear any event pending from before the edge was configured.
	if _, err = g.read(); err != nil {
		g.Close()
		return err
	}
	if err = unix.Pipe2(s.wake[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		g.Close()
		return fmt.Errorf("gpio%d: pipe: %v", pin, err)
	}
	s.pin = g
	s.done = make(chan struct{})
	go s.watch(fn)
	return nil
}

// watch is the edge goroutine.
func (s *Sysfs) watch(fn func()) {
	defer close(s.done)
	for {
		ok, err := s.pin.waitEdge(s.wake[0])
		if err != nil {
			s.errc <- err
			return
		}
		if !ok {
			return
		}
		fn()
	}
}

// Err returns the channel used to report edge watcher failures.
func (s *Sysfs) Err() <-chan error {
	return s.errc
}

// Close stops the edge goroutine and releases the pin.
func (s *Sysfs) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.pin == nil {
		return nil
	}
	_, err := unix.Write(s.wake[1], []byte{0})
	if err != nil {
		return fmt.Errorf("gpio%d: wakeup: %v", s.pin.number, err)
	}
	<-s.done
	s.pin.Close()
	unix.Close(s.wake[0])
	unix.Close(s.wake[1])
	return nil
}
