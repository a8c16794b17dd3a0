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

// Package stats implements the BayesElo trinomial outcome model and the
// operating characteristics of a sequential probability ratio test built on
// top of it.
package stats

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameter is wrapped by every validation error in this package.
var ErrInvalidParameter = errors.New("invalid parameter")

func invalid(name string, value float64, reason string) error {
	return fmt.Errorf("%w: %s = %v: %s", ErrInvalidParameter, name, value, reason)
}

// Scale returns the factor relating an elo difference to its bayesian elo
// equivalent for the given draw elo, i.e. elo = bayesElo * Scale(drawElo).
// It is 1 when there are no draws and shrinks as draws become more likely.
func Scale(drawElo float64) float64 {
	x := math.Pow(10, -drawElo/400)
	return 4 * x / ((1 + x) * (1 + x))
}

// CheckDrawElo reports whether drawElo describes a usable outcome model.
func CheckDrawElo(drawElo float64) error {
	switch {
	case math.IsNaN(drawElo), math.IsInf(drawElo, 0):
		return invalid("draw elo", drawElo, "must be finite")
	case drawElo < 0:
		return invalid("draw elo", drawElo, "implies a negative draw probability")
	}

	// between equal players the draw probability must stay below 1
	if _, d, _ := WDL(0, drawElo); !(d < 1) {
		return invalid("draw elo", drawElo, "implies a draw probability of 1")
	}

	if scale := Scale(drawElo); scale <= 0 || math.IsInf(1/scale, 0) {
		return invalid("draw elo", drawElo, "scale factor underflows")
	}

	return nil
}

// EloToBayesElo converts an elo difference into bayesian elo.
func EloToBayesElo(elo, drawElo float64) float64 {
	return elo / Scale(drawElo)
}

// BayesEloToElo converts a bayesian elo difference into elo.
func BayesEloToElo(bayesElo, drawElo float64) float64 {
	return bayesElo * Scale(drawElo)
}

// WDL converts the bayesian elo to its wdl probabilities.
func WDL(bayesElo, drawElo float64) (w float64, d float64, l float64) {
	a := math.Pow(10, (-bayesElo+drawElo)/400)
	b := math.Pow(10, (+bayesElo+drawElo)/400)

	w = 1 / (1 + a) // win probability sigmoid
	l = 1 / (1 + b) // loss probability sigmoid

	// d = 1 - w - l, without the cancellation
	d = math.Max(0, math.Expm1(drawElo*math.Ln10/200)/((1+a)*(1+b)))
	return w, d, l
}

// DrawEloFromRatio returns the draw elo under which two equal players draw
// with the given probability.
func DrawEloFromRatio(drawRatio float64) (float64, error) {
	if math.IsNaN(drawRatio) || drawRatio < 0 || drawRatio >= 1 {
		return 0, invalid("draw ratio", drawRatio, "must be in [0, 1)")
	}

	return 400 * math.Log10((1+drawRatio)/(1-drawRatio)), nil
}

// wdlToElo converts the wdl probabilities to it's bayesian elo.
func wdlToElo(w, d, l float64) (elo float64, dlo float64) {
	elo = 200 * math.Log10((w/l)*((1-l)/(1-w)))
	dlo = 200 * math.Log10(((1-l)/l)*((1-w)/w))
	return elo, dlo
}

// StoppingBounds returns the log-likelihood ratios at which an sprt with
// the given type I and type II error probabilities accepts H0 (lower) or
// H1 (upper).
func StoppingBounds(alpha, beta float64) (lower float64, upper float64) {
	lower = math.Log(beta / (1 - alpha))
	upper = math.Log((1 - beta) / alpha)
	return
}

// Elo returns the likely elo of the target player along with its p < 0.05
// upper bound and lower bound, called mu, muMax, and muMin respectively.
func Elo(ws, ds, ls int) (muMin float64, mu float64, muMax float64) {
	N := float64(ws+ds+ls) + 1.5 // total number of games

	w := (float64(ws) + 0.5) / N // measured win probability
	d := (float64(ds) + 0.5) / N // measured draw probability
	l := (float64(ls) + 0.5) / N // measured loss probability

	// empirical mean of random variable
	mu = w + d/2

	// standard deviation of the random variable
	sigma := math.Sqrt(
		w*math.Pow(1-mu, 2)+
			d*math.Pow(0.5-mu, 2)+
			l*math.Pow(0-mu, 2),
	) / math.Sqrt(N)

	muMax = mu + phiInv(0.975)*sigma // upper bound
	muMin = mu + phiInv(0.025)*sigma // lower bound

	return clampElo(muMin), clampElo(mu), clampElo(muMax)
}

// MeasuredDrawElo returns the draw elo that best fits the given results.
func MeasuredDrawElo(ws, ds, ls int) float64 {
	N := float64(ws+ds+ls) + 1.5
	_, dlo := wdlToElo(
		(float64(ws)+0.5)/N,
		(float64(ds)+0.5)/N,
		(float64(ls)+0.5)/N,
	)
	return dlo
}

func clampElo(x float64) float64 {
	switch {
	case x <= 0, x >= 1:
		return 0

	default:
		return -400 * math.Log10(1/x-1)
	}
}

func phiInv(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}
