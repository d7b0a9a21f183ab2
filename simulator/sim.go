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

// Simulator program. Runs the pulse counter against a simulated
// encoder, reads back the count stream, and checks that the
// reported counts match the edges generated.

package main

import (
	"context"
	"fmt"
	stdio "io"
	"log"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/aamcrae/pulsecount/io"
	"github.com/aamcrae/pulsecount/pulse"
	flag "github.com/spf13/pflag"
)

var rate = flag.Float64("rate", 400, "Simulated edges per second")
var interval = flag.Duration("interval", pulse.DefaultInterval, "Reporting interval")
var duration = flag.Duration("duration", 10*time.Second, "Length of the simulation")

// Allowed deviation of a single interval from the expected count, as a fraction.
const threshold = 0.2

func main() {
	flag.Parse()
	cfg := pulse.DefaultConfig()
	cfg.Backend = pulse.BackendSim
	cfg.Rate = *rate
	cfg.Interval = *interval
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}
	sim := io.NewSim(cfg.Rate)
	r, w := stdio.Pipe()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	enc, err := pulse.NewEncoder(cfg, sim, w, logger)
	if err != nil {
		log.Fatalf("Encoder: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()
	go func() {
		err := enc.Run(ctx)
		// Stop the edges before draining the last count.
		enc.Close()
		enc.Reporter.Flush()
		w.CloseWithError(err)
	}()
	expected := cfg.Rate * cfg.Interval.Seconds()
	var total, ticks, outliers int64
	err = pulse.ReadCounts(r, func(v int64) {
		ticks++
		total += v
		// The first interval starts at 0.
		if ticks > 1 && math.Abs(float64(v)-expected) > expected*threshold {
			outliers++
			fmt.Printf("tick %d: %d pulses (expected %.1f)\n", ticks, v, expected)
		}
	})
	if err != nil {
		log.Fatalf("Count stream: %v", err)
	}
	fmt.Printf("%d ticks, %d pulses reported, %d edges generated, %d outliers\n", ticks, total, sim.Edges(), outliers)
	if total != sim.Edges() {
		log.Fatalf("Lost or duplicated pulses: reported %d, generated %d", total, sim.Edges())
	}
}
