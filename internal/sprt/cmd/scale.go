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
	"github.com/spf13/cobra"

	"laptudirm.com/x/sprt/pkg/report"
)

func Scale() *cobra.Command {
	return &cobra.Command{
		Use:   "scale",
		Short: "Show the derived bayesian elo scale and stopping bounds",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parameters(cmd)
			if err != nil {
				return err
			}

			model, err := params.Model()
			if err != nil {
				return err
			}

			return report.Model(cmd.OutOrStdout(), model)
		},
	}
}
