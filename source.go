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

package main

import (
	gpio "github.com/aamcrae/pulsecount/io"
	"github.com/aamcrae/pulsecount/pulse"
)

// newSource creates the edge source. Tests replace it with a fake.
var newSource = gpio.NewSource

// Compile time check that the backends are edge sources.
var (
	_ pulse.Source = (*gpio.Sysfs)(nil)
	_ pulse.Source = (*gpio.Periph)(nil)
	_ pulse.Source = (*gpio.Sim)(nil)
)
