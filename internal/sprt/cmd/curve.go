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
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/sprt/pkg/config"
	"laptudirm.com/x/sprt/pkg/curve"
	"laptudirm.com/x/sprt/pkg/report"
)

func Curve() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curve",
		Short: "Tabulate pass probability and expected games over an elo range",
		Args:  cobra.NoArgs,
		Long: heredoc.Doc(`curve sweeps the true elo difference over the given
			range and prints, for every sampled elo, its bayesian elo, the
			probability of the sprt accepting H1 and the expected number
			of games before the sprt stops.`),
		Example: heredoc.Doc(`
			$ sprt curve
			$ sprt curve --elo0 0 --elo1 5 --draw-elo 300 --from -5 --to 10
			$ sprt curve --format yaml`),

		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(cmd.Flag("format").Value.String())
			if err != nil {
				return err
			}

			params, err := parameters(cmd)
			if err != nil {
				return err
			}

			model, err := params.Model()
			if err != nil {
				return err
			}

			elos, err := params.Sweep.Elos()
			if err != nil {
				return err
			}

			points, err := curve.Sample(cmd.Context(), model, elos, params.Concurrency)
			if err != nil {
				return err
			}

			return report.Points(cmd.OutOrStdout(), format, points)
		},
	}

	sweep := config.Default().Sweep
	cmd.Flags().Float64("from", sweep.From, "Lowest elo of the sweep")
	cmd.Flags().Float64("to", sweep.To, "Highest elo of the sweep")
	cmd.Flags().Float64("step", sweep.Step, "Elo between sampled points")
	cmd.Flags().StringP("format", "f", string(report.FormatTable), "Output format (table or yaml)")

	return cmd
}
