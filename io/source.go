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
	"fmt"

	"github.com/aamcrae/pulsecount/pulse"
)

// NewSource creates the edge source for the configured backend.
func NewSource(cfg pulse.Config) (pulse.Source, error) {
	switch cfg.Backend {
	case pulse.BackendSysfs:
		return NewSysfs(), nil
	case pulse.BackendPeriph:
		return NewPeriph(), nil
	case pulse.BackendSim:
		return NewSim(cfg.Rate), nil
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
