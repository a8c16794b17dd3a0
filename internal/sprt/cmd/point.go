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
	"strconv"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"laptudirm.com/x/sprt/pkg/curve"
	"laptudirm.com/x/sprt/pkg/report"
	"laptudirm.com/x/sprt/pkg/stats"
)

func Point() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "point [elo...]",
		Short: "Compute pass probability and expected games at given elos",
		Long: heredoc.Doc(`point computes the pass probability and expected number of
			games of the configured sprt at each of the given true elo
			differences. Elos are read from the arguments and from --elo;
			negative elos are passed after -- or with --elo.`),
		Example: heredoc.Doc(`
			$ sprt point 0 2.5 5
			$ sprt point --elo -3 --elo 8
			$ sprt point -- -3 8`),
		Args: cobra.ArbitraryArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(cmd.Flag("format").Value.String())
			if err != nil {
				return err
			}

			elos, err := pointElos(cmd, args)
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

			points, err := curve.Sample(cmd.Context(), model, elos, params.Concurrency)
			if err != nil {
				return err
			}

			return report.Points(cmd.OutOrStdout(), format, points)
		},
	}

	cmd.Flags().Float64SliceP("elo", "e", []float64{0}, "True elo differences to evaluate")
	cmd.Flags().StringP("format", "f", string(report.FormatTable), "Output format (table or yaml)")

	return cmd
}

// pointElos collects the elos given with --elo followed by the positional
// ones. The flag default is used only when neither is present.
func pointElos(cmd *cobra.Command, args []string) ([]float64, error) {
	var elos []float64
	if cmd.Flags().Changed("elo") || len(args) == 0 {
		elos, _ = cmd.Flags().GetFloat64Slice("elo")
	}

	for _, arg := range args {
		elo, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: elo %q is not a number", stats.ErrInvalidParameter, arg)
		}

		elos = append(elos, elo)
	}

	return elos, nil
}
