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

// Package curve samples the operating characteristics of an sprt over a
// range of elo differences.
package curve

import (
	"context"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"laptudirm.com/x/sprt/pkg/stats"
)

// MaxPoints is the largest number of points Range will generate.
const MaxPoints = 1 << 20

// Evaluator is anything which can compute the operating characteristics of
// an sprt at a given elo difference. *stats.Model is the usual one.
type Evaluator interface {
	Characteristics(elo float64) stats.Point
}

// Range returns the elo values from..to (inclusive) spaced step apart.
func Range(from, to, step float64) ([]float64, error) {
	switch {
	case math.IsNaN(from) || math.IsInf(from, 0),
		math.IsNaN(to) || math.IsInf(to, 0):
		return nil, fmt.Errorf("%w: sweep bounds must be finite", stats.ErrInvalidParameter)
	case !(step > 0):
		return nil, fmt.Errorf("%w: step = %v: must be positive", stats.ErrInvalidParameter, step)
	case to < from:
		return nil, fmt.Errorf("%w: sweep %v..%v is empty", stats.ErrInvalidParameter, from, to)
	}

	// small slack so that an end point hit up to rounding is included
	n := int(math.Floor((to-from)/step+1e-9)) + 1
	if n > MaxPoints {
		return nil, fmt.Errorf("%w: sweep has %d points, at most %d allowed", stats.ErrInvalidParameter, n, MaxPoints)
	}

	elos := make([]float64, n)
	for i := range elos {
		elos[i] = from + float64(i)*step
	}

	return elos, nil
}

// Sample evaluates the sprt at each of the given elo values, using up to
// concurrency goroutines. The i-th point always belongs to elos[i].
func Sample(ctx context.Context, sprt Evaluator, elos []float64, concurrency int) ([]stats.Point, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	logrus.Debugf("curve: sampling %d points on %d threads", len(elos), concurrency)

	points := make([]stats.Point, len(elos))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for i, elo := range elos {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			points[i] = sprt.Characteristics(elo)
			logrus.Tracef("curve: elo %+.2f -> %+v", elo, points[i])
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	// a cancellation before any goroutine started leaves nothing to wait on
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return points, nil
}
