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
	"bufio"
	"io"
	"strconv"
	"strings"
)

// ReadCounts reads a pulse count stream, calling fn for each count.
// Lines that are not a plain non-negative decimal number
// (e.g diagnostics mixed into the stream) are skipped.
// ReadCounts returns nil at the end of the stream.
func ReadCounts(r io.Reader, fn func(int64)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] < '0' || line[0] > '9' {
			continue
		}
		v, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			continue
		}
		fn(v)
	}
	return scanner.Err()
}
