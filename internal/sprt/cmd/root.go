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
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/sprt/pkg/config"
)

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "sprt",
		Short: "Operating characteristics of an elo sprt",
		Long: heredoc.Doc(`sprt computes how a sequential probability ratio test
			between two elo hypotheses behaves: how likely it is to pass
			and how many games it is expected to take, for any true elo
			difference between the tested players.

			Parameters are taken from the flags, then from the file given
			with --config or ` + config.File + ` in the xdg config
			directories, and finally from the built-in defaults.`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// If --trace flag is provided, set logging level to Trace.
			if cmd.Flag("trace").Changed {
				logrus.SetLevel(logrus.TraceLevel)
			}
		},
	}

	// global flags
	root.PersistentFlags().BoolP("help", "h", false, "Show Help Information")
	root.PersistentFlags().BoolP("version", "v", false, "Show Version Information")
	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")
	root.PersistentFlags().StringP("config", "c", "", "Read parameters from the given yaml file")

	// sprt parameters
	defaults := config.Default()
	root.PersistentFlags().Float64("alpha", defaults.Alpha, "Type I error probability")
	root.PersistentFlags().Float64("beta", defaults.Beta, "Type II error probability")
	root.PersistentFlags().Float64("elo0", defaults.Elo0, "The null elo hypothesis")
	root.PersistentFlags().Float64("elo1", defaults.Elo1, "The alternate elo hypothesis")
	root.PersistentFlags().Float64("draw-elo", defaults.DrawElo, "Draw elo of the outcome model")
	root.PersistentFlags().Float64("draw-ratio", 0, "Draw probability between equal players (overrides --draw-elo)")
	root.PersistentFlags().Bool("bayes", false, "Hypotheses are given in bayesian elo")
	root.PersistentFlags().IntP("concurrency", "j", defaults.Concurrency, "Number of concurrent computations")

	versionStr := "v0.1.0\n"
	root.SetVersionTemplate(versionStr)
	root.Version = versionStr

	// Register the various commands.
	root.AddCommand(Curve())
	root.AddCommand(Point())
	root.AddCommand(Scale())
	root.AddCommand(Simulate())

	return root
}

// parameters resolves the sprt parameters for the given command from its
// configuration file and any flags that were set.
func parameters(cmd *cobra.Command) (config.Parameters, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	params, err := config.Load(path)
	if err != nil {
		return params, err
	}

	floats := map[string]*float64{
		"alpha":    &params.Alpha,
		"beta":     &params.Beta,
		"elo0":     &params.Elo0,
		"elo1":     &params.Elo1,
		"draw-elo": &params.DrawElo,
		"from":     &params.Sweep.From,
		"to":       &params.Sweep.To,
		"step":     &params.Sweep.Step,
	}

	for name, value := range floats {
		if flags.Changed(name) {
			*value, _ = flags.GetFloat64(name)
		}
	}

	if flags.Changed("draw-ratio") {
		ratio, _ := flags.GetFloat64("draw-ratio")
		params.DrawRatio = &ratio
	}

	if flags.Changed("bayes") {
		params.Bayes, _ = flags.GetBool("bayes")
	}

	if flags.Changed("concurrency") {
		params.Concurrency, _ = flags.GetInt("concurrency")
	}

	if flags.Changed("runs") {
		params.Simulation.Runs, _ = flags.GetInt("runs")
	}

	if flags.Changed("max-trials") {
		params.Simulation.MaxTrials, _ = flags.GetInt("max-trials")
	}

	if flags.Changed("seed") {
		params.Simulation.Seed, _ = flags.GetUint64("seed")
	}

	logrus.Debugf("parameters: %+v", params)
	return params, nil
}
