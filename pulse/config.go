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

package pulse

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aamcrae/config"
)

// Backends
const (
	BackendSysfs  = "sysfs"
	BackendPeriph = "periph"
	BackendSim    = "sim"
)

// DefaultSection is the config file section read by Load.
const DefaultSection = "encoder"

// DefaultRate is the simulated edge rate in edges per second.
const DefaultRate = 50.0

// Config holds the encoder settings.
type Config struct {
	Pin      int           // GPIO pin, in the numbering of the backend
	Interval time.Duration // Reporting interval
	Backend  string        // Edge source backend
	Rate     float64       // Edges per second for the simulated backend
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Interval: DefaultInterval,
		Backend:  BackendSysfs,
		Rate:     DefaultRate,
	}
}

// ParsePin converts a pin argument to a number.
// Only a complete decimal integer is accepted, optionally signed.
// Whether the pin exists is left to the backend.
func ParsePin(token string) (int, error) {
	if token == "" {
		return 0, &ArgumentError{Err: errors.New("empty pin argument")}
	}
	n, err := strconv.ParseInt(token, 10, strconv.IntSize)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			err = ne.Err
		}
		return 0, &ArgumentError{Token: token, Err: err}
	}
	return int(n), nil
}

// Load reads settings from a section of a config file.
// Keys that are absent keep their current values. Load does not
// call Validate, so that other settings can be overlaid first.
// Sample config:
//  [encoder]
//  interval=100ms   # Reporting interval
//  backend=sysfs    # sysfs, periph or sim
//  rate=50          # Edges per second (sim only)
func (c *Config) Load(file, section string) error {
	conf, err := config.ParseFile(file)
	if err != nil {
		return fmt.Errorf("%s: %v", file, err)
	}
	s := conf.GetSection(section)
	if s == nil {
		return fmt.Errorf("%s: no config for %s", file, section)
	}
	if v, ok := arg(s, "interval"); ok {
		c.Interval, err = time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("interval: %v", err)
		}
		if c.Interval <= 0 {
			return fmt.Errorf("interval: %s is not positive", v)
		}
	}
	if v, ok := arg(s, "backend"); ok {
		c.Backend = v
	}
	if _, ok := arg(s, "rate"); ok {
		n, err := s.Parse("rate", "%f", &c.Rate)
		if err != nil {
			return fmt.Errorf("rate: %v", err)
		}
		if n != 1 {
			return fmt.Errorf("rate: argument count")
		}
	}
	return nil
}

// Validate checks the settings that do not depend on the hardware.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendSysfs, BackendPeriph, BackendSim:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval %s is not positive", c.Interval)
	}
	if c.Backend == BackendSim && c.Rate <= 0 {
		return fmt.Errorf("rate %g is not positive", c.Rate)
	}
	return nil
}

// section is the part of a config file section used by Load.
type section interface {
	GetArg(string) (string, error)
}

func arg(s section, key string) (string, bool) {
	v, err := s.GetArg(key)
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}
