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

// Package config loads the parameters of the sprt being examined.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"laptudirm.com/x/sprt/pkg/curve"
	"laptudirm.com/x/sprt/pkg/stats"
)

// File is the path of the configuration file relative to the xdg config
// directories.
const File = "sprt/config.yaml"

// Parameters describe an sprt and how it should be examined.
type Parameters struct {
	Alpha float64 `yaml:"alpha"` // Type I error probability.
	Beta  float64 `yaml:"beta"`  // Type II error probability.

	Elo0 float64 `yaml:"elo0"` // The null elo hypothesis.
	Elo1 float64 `yaml:"elo1"` // The alternate elo hypothesis.

	// Hypotheses are given in bayesian elo instead of elo.
	Bayes bool `yaml:"bayes"`

	DrawElo float64 `yaml:"draw-elo"`

	// Draw probability between equal players. Overrides DrawElo if set.
	DrawRatio *float64 `yaml:"draw-ratio,omitempty"`

	Sweep Sweep `yaml:"sweep"`

	// Number of points or simulations computed concurrently.
	Concurrency int `yaml:"concurrency"`

	Simulation Simulation `yaml:"simulation"`
}

// Sweep is the range of elo differences a curve is sampled over.
type Sweep struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
	Step float64 `yaml:"step"`
}

// Elos returns the elo differences in the sweep.
func (sweep Sweep) Elos() ([]float64, error) {
	return curve.Range(sweep.From, sweep.To, sweep.Step)
}

type Simulation struct {
	Runs      int    `yaml:"runs"`
	MaxTrials int    `yaml:"max-trials"`
	Seed      uint64 `yaml:"seed"`
}

// Default returns the parameters used when nothing else is configured.
func Default() Parameters {
	return Parameters{
		Alpha: 0.05, Beta: 0.05,
		Elo0: -1.5, Elo1: 4.5,
		DrawElo: 250,

		Sweep: Sweep{From: -3, To: 8, Step: 0.5},

		Concurrency: 4,

		Simulation: Simulation{
			Runs:      1000,
			MaxTrials: 1_000_000,
			Seed:      1,
		},
	}
}

// Load returns the default parameters overridden by the ones in the given
// yaml file. An empty path looks for File in the xdg config directories
// and falls back to the defaults if there is none.
func Load(path string) (Parameters, error) {
	params := Default()

	if path == "" {
		found, err := xdg.SearchConfigFile(File)
		if err != nil {
			logrus.Tracef("config: %s not found, using defaults", File)
			return params, nil
		}

		path = found
	}

	logrus.Debugf("config: loading %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return params, fmt.Errorf("config file %s does not exist", path)
		}

		return params, err
	}

	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("config file %s: %w", path, err)
	}

	return params, nil
}

// ResolveDrawElo returns the draw elo described by the parameters.
func (params Parameters) ResolveDrawElo() (float64, error) {
	if params.DrawRatio != nil {
		return stats.DrawEloFromRatio(*params.DrawRatio)
	}

	return params.DrawElo, stats.CheckDrawElo(params.DrawElo)
}

// Model builds the sprt described by the parameters.
func (params Parameters) Model() (*stats.Model, error) {
	drawElo, err := params.ResolveDrawElo()
	if err != nil {
		return nil, err
	}

	elo0, elo1 := params.Elo0, params.Elo1
	if params.Bayes {
		elo0 = stats.BayesEloToElo(elo0, drawElo)
		elo1 = stats.BayesEloToElo(elo1, drawElo)
	}

	return stats.NewModel(params.Alpha, params.Beta, elo0, elo1, drawElo)
}
