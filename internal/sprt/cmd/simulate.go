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

package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/sprt/internal/util"
	"laptudirm.com/x/sprt/pkg/config"
	"laptudirm.com/x/sprt/pkg/report"
	"laptudirm.com/x/sprt/pkg/simulate"
)

func Simulate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate --elo elo",
		Short: "Play the sprt against simulated games",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`simulate plays the configured sprt many times against
			games drawn at random from the bayesian elo model at the given
			true elo, and compares the measured pass rate and game count
			with the computed ones.

			Runs are seeded from --seed and their index, so the results
			do not depend on the number of threads used.`),

		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(cmd.Flag("format").Value.String())
			if err != nil {
				return err
			}

			elo, _ := cmd.Flags().GetFloat64("elo")

			params, err := parameters(cmd)
			if err != nil {
				return err
			}

			model, err := params.Model()
			if err != nil {
				return err
			}

			util.StartSpinner()
			summary, err := simulate.Run(cmd.Context(), simulate.Config{
				Model:       model,
				Elo:         elo,
				Runs:        params.Simulation.Runs,
				Concurrency: params.Concurrency,
				MaxTrials:   params.Simulation.MaxTrials,
				Seed:        params.Simulation.Seed,

				OnResult: func(done, total int) {
					util.SpinnerSuffix(fmt.Sprintf(" %d/%d runs", done, total))
				},
			})
			util.PauseSpinner()

			if err != nil {
				return err
			}

			if summary.Censored > 0 {
				logrus.Warnf("%d runs reached %d trials without a decision", summary.Censored, params.Simulation.MaxTrials)
			}

			if format == report.FormatYAML {
				return report.YAML(cmd.OutOrStdout(), summary)
			}

			return report.Summary(cmd.OutOrStdout(), summary)
		},
	}

	cmd.Flags().Float64P("elo", "e", 0, "True elo difference of the simulated games")
	simulation := config.Default().Simulation
	cmd.Flags().IntP("runs", "n", simulation.Runs, "Number of tests to simulate")
	cmd.Flags().Int("max-trials", simulation.MaxTrials, "Games after which an undecided test is abandoned")
	cmd.Flags().Uint64("seed", simulation.Seed, "Seed of the simulation")
	cmd.Flags().StringP("format", "f", string(report.FormatTable), "Output format (table or yaml)")

	return cmd
}
