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
	"fmt"
)

// ArgumentError reports invalid program input.
type ArgumentError struct {
	Token string // Offending input, may be empty
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Token == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%q: %v", e.Token, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// Setup stages.
const (
	StageSetup = "setup"
	StageBind  = "bind"
)

// SetupError reports a failure to initialise the edge source
// or to bind the edge callback to a pin.
type SetupError struct {
	Stage string
	Pin   int
	Err   error
}

func (e *SetupError) Error() string {
	if e.Stage == StageBind {
		return fmt.Sprintf("bind falling edge on pin %d: %v", e.Pin, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
