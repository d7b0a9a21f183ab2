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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aamcrae/pulsecount/pulse"
)

func TestSimGeneratesEdges(t *testing.T) {
	s := NewSim(1000)
	require.NoError(t, s.Setup())
	var n atomic.Int64
	require.NoError(t, s.BindFallingEdge(17, func() { n.Add(1) }))
	assert.Eventually(t, func() bool { return n.Load() >= 10 }, 2*time.Second, time.Millisecond)
	require.NoError(t, s.Close())
	// No edges are delivered once Close has returned.
	seen := n.Load()
	assert.Equal(t, seen, s.Edges())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, seen, n.Load())
	assert.NoError(t, s.Close())
}

func TestSimErrors(t *testing.T) {
	assert.Error(t, NewSim(0).Setup())

	s := NewSim(10)
	require.NoError(t, s.Setup())
	assert.ErrorContains(t, s.BindFallingEdge(-3, func() {}), "invalid pin")
	require.NoError(t, s.BindFallingEdge(3, func() {}))
	assert.Error(t, s.BindFallingEdge(3, func() {}))
	assert.Nil(t, s.Err())
	assert.NoError(t, s.Close())
}

// Every simulated edge is reported by the encoder exactly once.
func TestSimEncoder(t *testing.T) {
	cfg := pulse.DefaultConfig()
	cfg.Backend = pulse.BackendSim
	cfg.Pin = 17
	cfg.Rate = 2000
	cfg.Interval = 5 * time.Millisecond
	s := NewSim(cfg.Rate)
	var total atomic.Int64
	w := &countWriter{total: &total}
	e, err := pulse.NewEncoder(cfg, s, w, nil)
	require.NoError(t, err)
	ctx, cancel := contextWithTimeout(100 * time.Millisecond)
	defer cancel()
	require.NoError(t, e.Run(ctx))
	require.NoError(t, e.Close())
	require.NoError(t, e.Reporter.Flush())
	assert.Greater(t, s.Edges(), int64(0))
	assert.Equal(t, s.Edges(), total.Load())
}

func TestNewSource(t *testing.T) {
	for _, b := range []string{pulse.BackendSysfs, pulse.BackendPeriph, pulse.BackendSim} {
		cfg := pulse.DefaultConfig()
		cfg.Backend = b
		src, err := NewSource(cfg)
		require.NoError(t, err, b)
		assert.NotNil(t, src, b)
	}
	cfg := pulse.DefaultConfig()
	cfg.Backend = "wiringpi"
	_, err := NewSource(cfg)
	assert.Error(t, err)
}
