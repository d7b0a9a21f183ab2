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

// Pulse encoder driver.

package pulse

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Source is an edge triggered input.
// After BindFallingEdge succeeds, the callback is invoked once for
// each falling edge on the pin until the source is closed.
// The callback may be called from any goroutine.
// Failures of the edge watcher after binding are sent on Err.
type Source interface {
	Setup() error
	BindFallingEdge(pin int, fn func()) error
	Err() <-chan error
	Close() error
}

// Encoder combines an edge source, the pulse counter and
// the reporter for one pin.
type Encoder struct {
	Config   Config
	Counter  *Counter
	Reporter *Reporter
	src      Source
	log      *slog.Logger
}

// NewEncoder initialises the source and binds the counter to the
// falling edges of the configured pin. The returned error is a
// *SetupError if the source could not be initialised or bound.
func NewEncoder(cfg Config, src Source, out io.Writer, logger *slog.Logger) (*Encoder, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e := new(Encoder)
	e.Config = cfg
	e.src = src
	e.log = logger
	e.Counter = NewCounter()
	e.Reporter = NewReporter(e.Counter, out, cfg.Interval)
	if err := src.Setup(); err != nil {
		return nil, &SetupError{Stage: StageSetup, Pin: cfg.Pin, Err: err}
	}
	if err := src.BindFallingEdge(cfg.Pin, e.Counter.Increment); err != nil {
		src.Close()
		return nil, &SetupError{Stage: StageBind, Pin: cfg.Pin, Err: err}
	}
	logger.Info("encoder bound", "pin", cfg.Pin, "backend", cfg.Backend, "interval", e.Reporter.Interval().String())
	return e, nil
}

// Run reports pulse counts until the context is cancelled, the
// output fails, or the edge source fails.
func (e *Encoder) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- e.Reporter.Run(ctx)
	}()
	select {
	case err := <-done:
		if err != nil {
			e.log.Error("reporting stopped", "pin", e.Config.Pin, "err", err)
		}
		return err
	case err := <-e.src.Err():
		cancel()
		<-done
		e.log.Error("edge source failed", "pin", e.Config.Pin, "err", err)
		return fmt.Errorf("pin %d: %w", e.Config.Pin, err)
	}
}

// Close releases the edge source.
func (e *Encoder) Close() error {
	return e.src.Close()
}
