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

// Program to check the wiring of an encoder by printing every
// edge seen on the input pin.

package main

import (
	"log"
	"time"

	"github.com/aamcrae/pulsecount/io"
	flag "github.com/spf13/pflag"
)

var gpio = flag.IntP("gpio", "g", 17, "GPIO pin for encoder input")

func main() {
	flag.Parse()
	p, err := io.Pin(*gpio)
	if err != nil {
		log.Fatalf("Pin %d: %v", *gpio, err)
	}
	defer p.Close()
	err = p.Edge(io.BOTH)
	if err != nil {
		log.Fatalf("Pin %d: edge BOTH: %v", *gpio, err)
	}
	last := time.Now()
	for {
		v, err := p.Get()
		if err != nil {
			log.Fatalf("Pin %d: Get: %v", *gpio, err)
		}
		now := time.Now()
		log.Printf("pin %d = %d (+%s)\n", *gpio, v, now.Sub(last))
		last = now
	}
}
