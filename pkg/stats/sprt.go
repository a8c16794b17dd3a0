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

package stats

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// driftless is the largest |mu| * (upper - lower) / sigma2 for which the
// llr random walk is treated as having no drift.
const driftless = 1e-9

// Point holds the operating characteristics of an sprt at a single true
// strength.
type Point struct {
	Elo      float64 `yaml:"elo"`
	BayesElo float64 `yaml:"bayes-elo"`

	PassProbability float64 `yaml:"pass-probability"`
	ExpectedTrials  float64 `yaml:"expected-trials"`
}

// Model is a configured sprt over trinomial trial outcomes. A Model is
// immutable and may be used concurrently.
type Model struct {
	alpha, beta float64 // Error probabilities for Error types I and II.
	elo0, elo1  float64 // The null and the alternate elo hypotheses.
	drawElo     float64

	scale  float64
	s0, s1 float64 // hypotheses in bayesian elo

	lower, upper float64 // stopping bounds

	llr      [3]float64 // llr increment of each outcome, wdl order
	possible [3]bool    // outcome has non-zero probability under H0 and H1
}

// NewModel builds the sprt deciding between the elo differences elo0 and
// elo1 with type I error alpha and type II error beta, for games whose draw
// rate is described by drawElo. Hypotheses so far apart, for the draw elo,
// that an outcome underflows to probability zero under only one of them are
// rejected.
func NewModel(alpha, beta, elo0, elo1, drawElo float64) (*Model, error) {
	switch {
	case !(alpha > 0 && alpha < 1):
		return nil, invalid("alpha", alpha, "must be in (0, 1)")
	case !(beta > 0 && beta < 1):
		return nil, invalid("beta", beta, "must be in (0, 1)")
	case alpha+beta >= 1:
		return nil, invalid("alpha + beta", alpha+beta, "must be less than 1")
	case math.IsNaN(elo0) || math.IsInf(elo0, 0):
		return nil, invalid("elo0", elo0, "must be finite")
	case math.IsNaN(elo1) || math.IsInf(elo1, 0):
		return nil, invalid("elo1", elo1, "must be finite")
	}

	if err := CheckDrawElo(drawElo); err != nil {
		return nil, err
	}

	model := Model{
		alpha: alpha, beta: beta,
		elo0: elo0, elo1: elo1,
		drawElo: drawElo,
		scale:   Scale(drawElo),
	}

	model.s0 = elo0 / model.scale
	model.s1 = elo1 / model.scale
	model.lower, model.upper = StoppingBounds(alpha, beta)

	w0, d0, l0 := WDL(model.s0, drawElo) // elo0 WDL probabilities
	w1, d1, l1 := WDL(model.s1, drawElo) // elo1 WDL probabilities

	p0 := [3]float64{w0, d0, l0}
	p1 := [3]float64{w1, d1, l1}
	for i := range p0 {
		switch {
		case p0[i] > 0 && p1[i] > 0:
			model.possible[i] = true
			model.llr[i] = math.Log(p1[i] / p0[i])

		// a single such outcome would decide the test, which the
		// random walk approximation cannot describe
		case p0[i] > 0 || p1[i] > 0:
			return nil, invalid("draw elo", drawElo, fmt.Sprintf(
				"result %s is impossible under only one of elo0 %v and elo1 %v",
				Results[i], elo0, elo1,
			))
		}
	}

	logrus.Debugf(
		"sprt: H0 %.2f (%.2f belo) H1 %.2f (%.2f belo) bounds (%.4f, %.4f)",
		elo0, model.s0, elo1, model.s1, model.lower, model.upper,
	)

	return &model, nil
}

func (model *Model) Alpha() float64 { return model.alpha }
func (model *Model) Beta() float64 { return model.beta }
func (model *Model) Elo0() float64 { return model.elo0 }
func (model *Model) Elo1() float64 { return model.elo1 }
func (model *Model) DrawElo() float64 { return model.drawElo }

// Scale returns the elo per bayesian elo of the model's outcome model.
func (model *Model) Scale() float64 { return model.scale }

// Bounds returns the lower and upper stopping bounds of the test.
func (model *Model) Bounds() (lower, upper float64) {
	return model.lower, model.upper
}

// BayesHypotheses returns the null and alternate hypotheses in bayesian elo.
func (model *Model) BayesHypotheses() (s0, s1 float64) {
	return model.s0, model.s1
}

// Increment returns the change in log-likelihood ratio caused by a single
// trial with the given result. Results that are impossible under either
// hypothesis carry no information and return 0.
func (model *Model) Increment(result Result) float64 {
	return model.llr[result.index()]
}

// Drift returns the mean and variance of the per trial llr increment when
// the true strength is bayesElo.
func (model *Model) Drift(bayesElo float64) (mu float64, sigma2 float64) {
	w, d, l := WDL(bayesElo, model.drawElo)
	p := [3]float64{w, d, l}

	for i := range p {
		if model.possible[i] {
			mu += p[i] * model.llr[i]
		}
	}

	for i := range p {
		if model.possible[i] {
			sigma2 += p[i] * math.Pow(model.llr[i]-mu, 2)
		}
	}

	return mu, sigma2
}

// Characteristics returns the probability of the test accepting H1 and the
// expected number of trials it runs for when the true elo difference is elo.
func (model *Model) Characteristics(elo float64) Point {
	point := model.CharacteristicsBayes(elo / model.scale)
	point.Elo = elo
	return point
}

// CharacteristicsBayes is Characteristics with the true strength given in
// bayesian elo.
func (model *Model) CharacteristicsBayes(bayesElo float64) Point {
	point := Point{
		Elo:      bayesElo * model.scale,
		BayesElo: bayesElo,
	}

	a, b := model.lower, model.upper
	mu, sigma2 := model.Drift(bayesElo)

	// driftless random walk; sigma2 is zero iff H0 and H1 coincide, in
	// which case the test never stops
	if math.Abs(mu)*(b-a) <= driftless*sigma2 {
		point.PassProbability = -a / (b - a)
		point.ExpectedTrials = -a * b / sigma2
		return point
	}

	// P(pass) = (1 - e^(theta*a)) / (e^(theta*b) - e^(theta*a)) rewritten
	// so that no exponent with a positive argument is evaluated
	theta := -2 * mu / sigma2
	var pass float64
	if theta < 0 {
		pass = math.Expm1(-theta*a) / math.Expm1(theta*(b-a))
	} else {
		pass = math.Exp(-theta*b) * math.Expm1(theta*a) / math.Expm1(-theta*(b-a))
	}

	point.PassProbability = math.Min(math.Max(pass, 0), 1)
	point.ExpectedTrials = (point.PassProbability*b + (1-point.PassProbability)*a) / mu
	return point
}
