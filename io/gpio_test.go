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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSysfs creates a sysfs GPIO directory with an exported pin.
func fakeSysfs(t *testing.T, pin string, value string) string {
	t.Helper()
	dir := t.TempDir()
	old := baseDir
	baseDir = dir
	t.Cleanup(func() { baseDir = old })
	for _, f := range []string{"export", "unexport"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), nil, 0644))
	}
	pd := filepath.Join(dir, "gpio"+pin)
	require.NoError(t, os.Mkdir(pd, 0755))
	for _, f := range []string{"direction", "edge"} {
		require.NoError(t, os.WriteFile(filepath.Join(pd, f), nil, 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(pd, "value"), []byte(value), 0644))
	return dir
}

func readFile(t *testing.T, name ...string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(name...))
	require.NoError(t, err)
	return string(b)
}

func TestPin(t *testing.T) {
	dir := fakeSysfs(t, "17", "1")
	g, err := Pin(17)
	require.NoError(t, err)
	assert.Equal(t, 17, g.Number())
	assert.Equal(t, "in", readFile(t, dir, "gpio17", "direction"))
	assert.Equal(t, "none", readFile(t, dir, "gpio17", "edge"))
	v, err := g.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	require.NoError(t, g.Edge(FALLING))
	assert.Equal(t, "falling", readFile(t, dir, "gpio17", "edge"))
	assert.Error(t, g.Edge(7))
	g.Close()
	assert.Equal(t, "17", readFile(t, dir, "unexport"))
}

func TestPinBadValue(t *testing.T) {
	fakeSysfs(t, "4", "x")
	g, err := Pin(4)
	require.NoError(t, err)
	defer g.Close()
	_, err = g.Get()
	assert.ErrorContains(t, err, "unknown value")
}

func TestSysfsSetup(t *testing.T) {
	dir := fakeSysfs(t, "17", "1")
	assert.NoError(t, NewSysfs().Setup())
	require.NoError(t, os.Remove(filepath.Join(dir, "export")))
	assert.Error(t, NewSysfs().Setup())
}

func TestSysfsBindAndClose(t *testing.T) {
	dir := fakeSysfs(t, "17", "1")
	s := NewSysfs()
	require.NoError(t, s.Setup())
	edges := 0
	require.NoError(t, s.BindFallingEdge(17, func() { edges++ }))
	assert.Equal(t, "falling", readFile(t, dir, "gpio17", "edge"))
	assert.Error(t, s.BindFallingEdge(17, func() {}))

	closed := make(chan error, 1)
	go func() {
		closed <- s.Close()
	}()
	select {
	case err := <-closed:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not stop the edge watcher")
	}
	assert.Equal(t, 0, edges)
	assert.Equal(t, "17", readFile(t, dir, "unexport"))
	assert.NoError(t, s.Close())
	assert.Error(t, s.BindFallingEdge(17, func() {}))
}

func TestSysfsBindMissingPin(t *testing.T) {
	fakeSysfs(t, "17", "1")
	s := NewSysfs()
	// Exporting pin 99 writes to the fake export file, but no pin appears.
	old := Verify
	Verify = false
	t.Cleanup(func() { Verify = old })
	assert.Error(t, s.BindFallingEdge(99, func() {}))
	assert.NoError(t, s.Close())
}
