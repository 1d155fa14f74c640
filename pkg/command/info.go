// Copyright (c) 2022 Cisco Systems, Inc. and its affiliates
// All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

func getInfoCommand(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:     "info",
		Short:   "Show information about the Spectre system.",
		Example: "spectre info --host i3",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := sess.client.System().GetInformation(cmd.Context())
			if err != nil {
				return fmt.Errorf("cannot get system information: %w", err)
			}

			info, ok := env.First()
			if !ok {
				return fmt.Errorf("server returned no system information")
			}

			return printResult(cmd.OutOrStdout(), sess.opts.Output, info)
		},
	}
}
