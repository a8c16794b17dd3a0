// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// The ~working~ spinner. It disables itself when stderr is not a terminal.
var working = spinner.New(
	spinner.CharSets[11], 100*time.Millisecond,
	spinner.WithWriterFile(os.Stderr),
	spinner.WithColor("yellow"),
)

func StartSpinner() {
	working.Start()
}

func PauseSpinner() {
	working.Stop()
	SpinnerSuffix("")
}

// SpinnerSuffix sets the text shown after the spinner.
func SpinnerSuffix(suffix string) {
	working.Lock()
	working.Suffix = suffix
	working.Unlock()
}
