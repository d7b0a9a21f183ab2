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

// Calibration utility to measure the pulses in one revolution
// of an encoder wheel. Turn the wheel by hand a number of
// revolutions and enter the count.

package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aamcrae/pulsecount/io"
	"github.com/aamcrae/pulsecount/pulse"
	flag "github.com/spf13/pflag"
)

var gpio = flag.IntP("gpio", "g", 17, "GPIO pin for encoder input")
var configFile = flag.StringP("config", "c", "", "Configuration file")
var section = flag.String("section", pulse.DefaultSection, "Configuration file section")

func main() {
	flag.Parse()
	cfg := pulse.DefaultConfig()
	if *configFile != "" {
		if err := cfg.Load(*configFile, *section); err != nil {
			log.Fatalf("%s: %v", *configFile, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}
	src, err := io.NewSource(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := src.Setup(); err != nil {
		log.Fatalf("Setup: %v", err)
	}
	count := pulse.NewCounter()
	if err := src.BindFallingEdge(*gpio, count.Increment); err != nil {
		log.Fatalf("Pin %d: %v", *gpio, err)
	}
	defer src.Close()
	reader := bufio.NewReader(os.Stdin)
	var total int64
	for {
		fmt.Print("Enter revolutions or command ('help' for help) ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		switch text {
		case "help":
			fmt.Println("  help - print help")
			fmt.Println("  NNN - pulses per revolution for NNN revolutions since last reset")
			fmt.Println("  p - print pulses since last reset")
			fmt.Println("  r - reset count")
			fmt.Println("  q - quit")
		case "q":
			return
		case "r":
			count.Drain()
			total = 0
			fmt.Println("Count reset")
		case "p":
			total += count.Drain()
			fmt.Printf("%d pulses\n", total)
		default:
			var revs float64
			n, err := fmt.Sscanf(text, "%g", &revs)
			if err != nil || n != 1 || revs <= 0 {
				fmt.Printf("Unrecognised input\n")
				continue
			}
			total += count.Drain()
			fmt.Printf("%d pulses in %g revolutions, %.2f pulses per revolution\n", total, revs, float64(total)/revs)
		}
	}
}
