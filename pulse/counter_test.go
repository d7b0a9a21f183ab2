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
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterInitial(t *testing.T) {
	c := NewCounter()
	assert.Equal(t, int64(0), c.Drain())
}

func TestCounterDrainResets(t *testing.T) {
	assert := assert.New(t)
	c := NewCounter()
	for i := 0; i < 5; i++ {
		c.Increment()
	}
	assert.Equal(int64(5), c.Drain())
	assert.Equal(int64(0), c.Drain())
	c.Increment()
	assert.Equal(int64(1), c.Drain())
	assert.Equal(int64(0), c.Drain())
}

// Pulses counted while draining concurrently must all be seen exactly once.
func TestCounterConcurrentDrain(t *testing.T) {
	const writers = 4
	const perWriter = 100000
	c := NewCounter()
	var wg sync.WaitGroup
	stop := make(chan struct{})
	sums := make(chan int64)
	go func() {
		var sum int64
		for {
			select {
			case <-stop:
				sums <- sum + c.Drain()
				return
			default:
				sum += c.Drain()
			}
		}
	}()
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				c.Increment()
			}
		}()
	}
	wg.Wait()
	close(stop)
	assert.Equal(t, int64(writers*perWriter), <-sums)
}
