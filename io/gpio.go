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

// Package io manages GPIO input pins and edge sources.

package io

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mode
const (
	IN  = iota // Default
	OUT = iota
)

// Edge
const (
	NONE    = iota // Default
	RISING  = iota
	FALLING = iota
	BOTH    = iota
)

// baseDir is the sysfs GPIO directory.
var baseDir = "/sys/class/gpio"

// Gpio represents one GPIO pin.
type Gpio struct {
	number    int
	value     *os.File
	buf       []byte
	direction int
	edge      int
	pollfd    []unix.PollFd
}

// Pin opens a GPIO pin as an input.
func Pin(gpio int) (*Gpio, error) {
	g := new(Gpio)
	g.number = gpio
	g.buf = make([]byte, 1)

	err := export(g.file("value"), exportFile(), gpio)
	if err != nil {
		return nil, err
	}
	err = g.Direction(IN)
	if err != nil {
		unexport(unexportFile(), gpio)
		return nil, err
	}
	err = g.Edge(NONE)
	if err != nil {
		unexport(unexportFile(), gpio)
		return nil, err
	}
	g.value, err = os.OpenFile(g.file("value"), os.O_RDWR, 0600)
	if err != nil {
		unexport(unexportFile(), gpio)
		return nil, err
	}
	g.pollfd = []unix.PollFd{{Fd: int32(g.value.Fd()), Events: unix.POLLPRI | unix.POLLERR}}
	return g, nil
}

// Number returns the GPIO number of the pin.
func (g *Gpio) Number() int {
	return g.number
}

// Direction sets the mode (direction) of the GPIO pin.
func (g *Gpio) Direction(d int) error {
	var s string
	switch d {
	case IN:
		s = "in"
	case OUT:
		s = "out"
	default:
		return fmt.Errorf("gpio%d: unknown direction", g.number)
	}
	err := writeFile(g.file("direction"), s)
	if err == nil {
		g.direction = d
	}
	return err
}

// Edge sets the edge detection on the GPIO pin.
func (g *Gpio) Edge(e int) error {
	if g.direction != IN {
		return fmt.Errorf("gpio%d: not set as an input pin", g.number)
	}
	var s string
	switch e {
	case NONE:
		s = "none"
	case RISING:
		s = "rising"
	case FALLING:
		s = "falling"
	case BOTH:
		s = "both"
	default:
		return fmt.Errorf("gpio%d: unknown edge", g.number)
	}
	err := writeFile(g.file("edge"), s)
	if err == nil {
		g.edge = e
	}
	return err
}

// Get returns the current value of the GPIO pin.
// If edge detection is enabled, Get waits for an edge.
func (g *Gpio) Get() (int, error) {
	if g.edge != NONE {
		if _, err := g.wait(g.pollfd); err != nil {
			return 0, err
		}
	}
	return g.read()
}

// waitEdge waits for an edge on the pin, or for the cancel
// descriptor to become readable. It returns false if cancelled.
// The pin value is read after each edge to rearm the detection.
func (g *Gpio) waitEdge(cancel int) (bool, error) {
	fds := []unix.PollFd{g.pollfd[0], {Fd: int32(cancel), Events: unix.POLLIN}}
	fds, err := g.wait(fds)
	if err != nil {
		return false, err
	}
	if fds[1].Revents != 0 {
		return false, nil
	}
	_, err = g.read()
	return err == nil, err
}

// wait polls with no timeout, restarting if interrupted.
func (g *Gpio) wait(fds []unix.PollFd) ([]unix.PollFd, error) {
	for {
		for i := range fds {
			fds[i].Revents = 0
		}
		_, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return fds, fmt.Errorf("gpio%d: poll: %v", g.number, err)
		}
		return fds, nil
	}
}

func (g *Gpio) read() (int, error) {
	_, err := g.value.ReadAt(g.buf, 0)
	if err != nil {
		return 0, err
	}
	if g.buf[0] == '0' {
		return 0, nil
	} else if g.buf[0] == '1' {
		return 1, nil
	} else {
		return 0, fmt.Errorf("gpio%d: unknown value %s", g.number, g.buf)
	}
}

// Close the GPIO pin and unexport it.
func (g *Gpio) Close() {
	g.value.Close()
	unexport(unexportFile(), g.number)
}

func (g *Gpio) file(name string) string {
	return fmt.Sprintf("%s/gpio%d/%s", baseDir, g.number, name)
}

func exportFile() string {
	return baseDir + "/export"
}

func unexportFile() string {
	return baseDir + "/unexport"
}
