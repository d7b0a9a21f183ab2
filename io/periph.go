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
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// Periph is an edge source using the periph.io host drivers.
// Pins are addressed by their BCM numbers.
type Periph struct {
	mu      sync.Mutex
	pin     gpio.PinIO
	errc    chan error
	done    chan struct{}
	closing atomic.Bool
}

// NewPeriph creates a periph.io edge source.
func NewPeriph() *Periph {
	p := new(Periph)
	p.errc = make(chan error, 1)
	return p
}

// Setup initialises the periph.io host drivers.
func (p *Periph) Setup() error {
	_, err := host.Init()
	return err
}

// BindFallingEdge configures the pin as an input with falling
// edge detection, and calls fn for every edge.
func (p *Periph) BindFallingEdge(pin int, fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closing.Load() {
		return errors.New("source closed")
	}
	if p.pin != nil {
		return fmt.Errorf("%s: already bound", p.pin.Name())
	}
	name := fmt.Sprintf("GPIO%d", pin)
	gp := gpioreg.ByName(name)
	if gp == nil {
		return fmt.Errorf("%s: no such pin", name)
	}
	if err := gp.In(gpio.PullNoChange, gpio.FallingEdge); err != nil {
		return fmt.Errorf("%s: %v", name, err)
	}
	p.pin = gp
	p.done = make(chan struct{})
	go p.watch(fn)
	return nil
}

// watch is the edge goroutine. With no timeout, WaitForEdge
// only returns false when the pin is halted.
func (p *Periph) watch(fn func()) {
	defer close(p.done)
	for {
		if p.pin.WaitForEdge(-1) {
			fn()
			continue
		}
		if !p.closing.Load() {
			p.errc <- fmt.Errorf("%s: edge detection stopped", p.pin.Name())
		}
		return
	}
}

// Err returns the channel used to report edge watcher failures.
func (p *Periph) Err() <-chan error {
	return p.errc
}

// Close halts the pin, which stops the edge goroutine.
func (p *Periph) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closing.Swap(true) || p.pin == nil {
		return nil
	}
	err := p.pin.Halt()
	<-p.done
	return err
}
