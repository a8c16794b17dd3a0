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

// Package simulate plays an sprt against randomly generated trial results
// to measure its operating characteristics empirically.
package simulate

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/montanaflynn/stats"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/distuv"

	sprt "laptudirm.com/x/sprt/pkg/stats"
)

// Verdict is the way a single simulated test ended.
type Verdict int

const (
	Censored   Verdict = iota // MaxTrials reached without a decision
	H0Accepted                // llr fell to the lower bound
	H1Accepted                // llr rose to the upper bound
)

func (verdict Verdict) String() string {
	switch verdict {
	case H0Accepted:
		return "H0 Accepted"
	case H1Accepted:
		return "H1 Accepted"
	default:
		return "Censored"
	}
}

// Config describes a simulation.
type Config struct {
	Model *sprt.Model

	// The true elo difference the trials are generated with.
	Elo float64

	Runs        int // Number of tests to play.
	Concurrency int // Number of tests played concurrently.

	// Tests still undecided after MaxTrials trials are censored.
	MaxTrials int

	// Results only depend on the seed, not on the concurrency.
	Seed uint64

	// OnResult, if set, is called from a single goroutine after every
	// finished test.
	OnResult func(done, total int)
}

// Summary holds the aggregated results of a simulation.
type Summary struct {
	Elo      float64 `yaml:"elo"`
	Runs     int     `yaml:"runs"`
	Passed   int     `yaml:"passed"`
	Failed   int     `yaml:"failed"`
	Censored int     `yaml:"censored"`

	PassRate float64 `yaml:"pass-rate"`

	MeanTrials   float64 `yaml:"mean-trials"`
	MedianTrials float64 `yaml:"median-trials"`
	StdDevTrials float64 `yaml:"stddev-trials"`
	MaxTrials    float64 `yaml:"max-trials"`

	// Pooled results of every simulated trial.
	Wins   int `yaml:"wins"`
	Draws  int `yaml:"draws"`
	Losses int `yaml:"losses"`

	EloLow  float64 `yaml:"elo-low"`
	EloMean float64 `yaml:"elo-mean"`
	EloHigh float64 `yaml:"elo-high"`

	// Draw elo fitted to the pooled results, and the one of the model.
	DrawElo      float64 `yaml:"draw-elo"`
	ModelDrawElo float64 `yaml:"model-draw-elo"`

	// The closed form characteristics at the same elo.
	Expected sprt.Point `yaml:"expected"`
}

// Result is the outcome of a single simulated test.
type Result struct {
	Index   int
	Verdict Verdict
	Trials  int

	Wins, Draws, Losses int
}

// Run plays config.Runs independent tests and summarizes them.
func Run(ctx context.Context, config Config) (Summary, error) {
	switch {
	case config.Model == nil:
		return Summary{}, fmt.Errorf("%w: no model to simulate", sprt.ErrInvalidParameter)
	case config.Runs < 1:
		return Summary{}, fmt.Errorf("%w: runs = %d: must be positive", sprt.ErrInvalidParameter, config.Runs)
	case config.MaxTrials < 1:
		return Summary{}, fmt.Errorf("%w: max trials = %d: must be positive", sprt.ErrInvalidParameter, config.MaxTrials)
	case math.IsNaN(config.Elo) || math.IsInf(config.Elo, 0):
		return Summary{}, fmt.Errorf("%w: elo = %v: must be finite", sprt.ErrInvalidParameter, config.Elo)
	}

	if config.Concurrency < 1 {
		config.Concurrency = 1
	}

	logrus.Debugf(
		"simulate: %d runs at %+.2f elo on %d threads",
		config.Runs, config.Elo, config.Concurrency,
	)

	runs := make(chan int)
	results := make(chan Result)

	go func() {
		defer close(runs)
		for i := 0; i < config.Runs; i++ {
			select {
			case runs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	var threads sync.WaitGroup
	for i := 0; i < config.Concurrency; i++ {
		threads.Add(1)
		go func() {
			defer threads.Done()
			for index := range runs {
				result, ok := Play(ctx, config, index)
				if !ok {
					return
				}

				results <- result
			}
		}()
	}

	go func() {
		threads.Wait()
		close(results)
	}()

	summary := collect(config, results)
	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}

	return summary, nil
}

// collect drains results into a Summary.
func collect(config Config, results <-chan Result) Summary {
	summary := Summary{
		Elo:          config.Elo,
		Runs:         config.Runs,
		ModelDrawElo: config.Model.DrawElo(),
		Expected:     config.Model.Characteristics(config.Elo),
	}

	trials := make(stats.Float64Data, config.Runs)

	done := 0
	for result := range results {
		done++

		switch result.Verdict {
		case H1Accepted:
			summary.Passed++
		case H0Accepted:
			summary.Failed++
		default:
			summary.Censored++
		}

		summary.Wins += result.Wins
		summary.Draws += result.Draws
		summary.Losses += result.Losses

		// indexed so that the statistics are independent of finishing order
		trials[result.Index] = float64(result.Trials)

		logrus.Tracef("simulate: run #%d: %s after %d trials", result.Index, result.Verdict, result.Trials)
		if done%100 == 0 {
			logrus.Debugf("simulate: %d/%d runs finished", done, config.Runs)
		}

		if config.OnResult != nil {
			config.OnResult(done, config.Runs)
		}
	}

	if done == 0 {
		return summary
	}

	summary.PassRate = float64(summary.Passed) / float64(done)

	// errors are only returned for empty input
	summary.MeanTrials, _ = stats.Mean(trials)
	summary.MedianTrials, _ = stats.Median(trials)
	summary.StdDevTrials, _ = stats.StandardDeviation(trials)
	summary.MaxTrials, _ = stats.Max(trials)

	summary.EloLow, summary.EloMean, summary.EloHigh = sprt.Elo(summary.Wins, summary.Draws, summary.Losses)
	summary.DrawElo = sprt.MeasuredDrawElo(summary.Wins, summary.Draws, summary.Losses)

	return summary
}

// Play runs the index-th test of the simulation. It returns false if ctx
// was cancelled before the test finished.
func Play(ctx context.Context, config Config, index int) (Result, bool) {
	model := config.Model
	lower, upper := model.Bounds()

	w, d, l := sprt.WDL(config.Elo/model.Scale(), model.DrawElo())
	outcomes := distuv.NewCategorical(
		[]float64{w, d, l},
		rand.NewPCG(config.Seed, uint64(index)),
	)

	result := Result{Index: index, Verdict: Censored}

	llr := 0.0
	for result.Trials < config.MaxTrials {
		if result.Trials%1024 == 0 && ctx.Err() != nil {
			return result, false
		}

		outcome := sprt.Results[int(outcomes.Rand())]
		switch outcome {
		case sprt.Win:
			result.Wins++
		case sprt.Draw:
			result.Draws++
		case sprt.Loss:
			result.Losses++
		}

		result.Trials++
		llr += model.Increment(outcome)

		if llr <= lower {
			result.Verdict = H0Accepted
			break
		} else if llr >= upper {
			result.Verdict = H1Accepted
			break
		}
	}

	return result, true
}
