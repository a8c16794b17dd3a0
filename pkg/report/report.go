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

// Package report renders sprt characteristics and simulation results for
// the terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"laptudirm.com/x/sprt/pkg/simulate"
	"laptudirm.com/x/sprt/pkg/stats"
)

// Format is an output format understood by Write.
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a user supplied output format.
func ParseFormat(format string) (Format, error) {
	switch Format(format) {
	case FormatTable, FormatYAML:
		return Format(format), nil
	default:
		return "", fmt.Errorf("unknown output format %q, want table or yaml", format)
	}
}

// Points writes the points in the given format.
func Points(w io.Writer, format Format, points []stats.Point) error {
	if format == FormatYAML {
		return YAML(w, points)
	}

	return Table(w, points)
}

// Table writes the points as a box drawn table.
func Table(w io.Writer, points []stats.Point) error {
	const width = 45
	border := strings.Repeat("═", width)

	lines := []string{
		"╔" + border + "╗",
		fmt.Sprintf("║ %7s  %8s   %9s   %11s ║", "Elo", "BayesElo", "Pass Prob", "Exp. Trials"),
		"╠" + border + "╣",
	}

	for _, point := range points {
		lines = append(lines, fmt.Sprintf(
			"║ %7.2f  %8.2f   %9.4f   %11.0f ║",
			point.Elo, point.BayesElo,
			point.PassProbability, point.ExpectedTrials,
		))
	}

	lines = append(lines, "╚"+border+"╝")
	return writeLines(w, lines)
}

// Model writes the parameters of the given sprt.
func Model(w io.Writer, model *stats.Model) error {
	lower, upper := model.Bounds()
	s0, s1 := model.BayesHypotheses()
	_, draws, _ := stats.WDL(0, model.DrawElo())

	return box(w,
		fmt.Sprintf("ERROR | α: %.4f β: %.4f", model.Alpha(), model.Beta()),
		fmt.Sprintf("ELO   | H0: %+.2f H1: %+.2f", model.Elo0(), model.Elo1()),
		fmt.Sprintf("BELO  | H0: %+.2f H1: %+.2f", s0, s1),
		fmt.Sprintf("DRAWS | %.2f drawelo (%.2f%% at 0 elo)", model.DrawElo(), draws*100),
		fmt.Sprintf("SCALE | %.6f elo per bayes elo", model.Scale()),
		fmt.Sprintf("LLR   | (%.4f, %.4f)", lower, upper),
	)
}

// Summary writes the results of a simulation next to the closed form
// characteristics at the same elo.
func Summary(w io.Writer, summary simulate.Summary) error {
	return box(w,
		fmt.Sprintf("ELO    | %+.2f (measured %+.2f [%+.2f, %+.2f])",
			summary.Elo, summary.EloMean, summary.EloLow, summary.EloHigh),
		fmt.Sprintf("RUNS   | N: %d H1: %d H0: %d ?: %d",
			summary.Runs, summary.Passed, summary.Failed, summary.Censored),
		fmt.Sprintf("PASS   | %.4f (expected %.4f)",
			summary.PassRate, summary.Expected.PassProbability),
		fmt.Sprintf("TRIALS | %.0f ± %.0f (expected %.0f)",
			summary.MeanTrials, summary.StdDevTrials, summary.Expected.ExpectedTrials),
		fmt.Sprintf("MEDIAN | %.0f, longest %.0f",
			summary.MedianTrials, summary.MaxTrials),
		fmt.Sprintf("GAMES  | W: %d D: %d L: %d",
			summary.Wins, summary.Draws, summary.Losses),
		fmt.Sprintf("DRAWS  | %.2f draw elo (model %.2f)",
			summary.DrawElo, summary.ModelDrawElo),
	)
}

// YAML writes v as a yaml document.
func YAML(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(v); err != nil {
		return err
	}

	return encoder.Close()
}

// box writes the given lines inside a box like the one below.
//
//	╔══════════════════════════════════════════════════╗
//	║ line                                             ║
//	╚══════════════════════════════════════════════════╝
func box(w io.Writer, contents ...string) error {
	const width = 50
	border := strings.Repeat("═", width)

	lines := []string{"╔" + border + "╗"}
	for _, content := range contents {
		pad := width - 1 - len([]rune(content))
		if pad < 1 {
			pad = 1
		}

		lines = append(lines, "║ "+content+strings.Repeat(" ", pad)+"║")
	}

	lines = append(lines, "╚"+border+"╝")
	return writeLines(w, lines)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}
