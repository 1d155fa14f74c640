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

	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zone"
	"github.com/spf13/cobra"
)

func getZonesCommand(sess *session) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:     "zones [--name NAME]",
		Short:   "List the zones.",
		Example: "spectre zones --name Default",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name != "" {
				z, err := sess.client.Zones().GetByName(cmd.Context(), name)
				if err != nil {
					return fmt.Errorf("cannot get zone: %w", err)
				}

				return printResult(cmd.OutOrStdout(), sess.opts.Output, z)
			}

			zones, err := sess.client.Zones().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("cannot list zones: %w", err)
			}

			return printResult(cmd.OutOrStdout(), sess.opts.Output, zones)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "only get the zone with this name.")
	cmd.AddCommand(getZonesCreateCommand(sess))

	return cmd
}

func getZonesCreateCommand(sess *session) *cobra.Command {
	var (
		opts       zone.CreateOptions
		orgID      int
		onlyCreate bool
	)

	cmd := &cobra.Command{
		Use:   "create --name NAME [--description DESCRIPTION]",
		Short: "Create a zone, unless one with the same name exists.",
		Example: `spectre zones create --name branch-1 --description "Branch office"
spectre zones create --name branch-1 --only-create`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flag("organization").Changed {
				opts.Organization = &zone.Organization{ID: orgID}
			}

			create := sess.client.Zones().GetOrCreate
			if onlyCreate {
				create = sess.client.Zones().Create
			}

			z, err := create(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("cannot create zone: %w", err)
			}

			sess.log.Info().Str("name", z.Name).Int("id", z.ID).Msg("zone ready")
			return printResult(cmd.OutOrStdout(), sess.opts.Output, z)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "the name of the zone.")
	cmd.Flags().StringVar(&opts.Description, "description", "", "the description of the zone.")
	cmd.Flags().IntVar(&orgID, "organization", 1, "the ID of the organization the zone belongs to.")
	cmd.Flags().BoolVar(&onlyCreate, "only-create", false, "always create the zone, without looking for an existing one first.")
	cmd.MarkFlagRequired("name")

	return cmd
}
