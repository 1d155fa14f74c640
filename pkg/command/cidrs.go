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
	"context"
	"fmt"
	"net/netip"

	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/cidr"
	"github.com/spf13/cobra"
)

// cidrTarget is the zone or collector whose CIDR lists are managed.
type cidrTarget struct {
	zoneID      int
	collectorID int
	cidrType    string
}

func (t *cidrTarget) addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&t.zoneID, "zone", 0, "the ID of the zone.")
	cmd.Flags().IntVar(&t.collectorID, "collector", 0, "the ID of the collector.")
	cmd.Flags().StringVar(&t.cidrType, "type", "", "the CIDR list, i.e. known, eligible, internal, avoid for zones or target, avoid, stop for collectors.")
	cmd.MarkFlagsMutuallyExclusive("zone", "collector")
	cmd.MarkFlagsOneRequired("zone", "collector")
	cmd.MarkFlagRequired("type")
}

type cidrFuncs struct {
	get func(context.Context, int, cidr.Type) ([]netip.Prefix, error)
	set func(context.Context, int, cidr.Type, []string, cidr.SetOptions) error
	del func(context.Context, int, cidr.Type, []string, int) error
}

func (t *cidrTarget) resolve(sess *session, cmd *cobra.Command) (int, cidr.Type, *cidrFuncs, error) {
	cidrType, err := cidr.ParseType(t.cidrType)
	if err != nil {
		return 0, "", nil, err
	}

	if cmd.Flag("collector").Changed {
		ops := sess.client.Collectors()
		return t.collectorID, cidrType, &cidrFuncs{
			get: ops.GetCIDRs,
			set: ops.SetCIDRs,
			del: ops.DeleteCIDRs,
		}, nil
	}

	ops := sess.client.Zones()
	return t.zoneID, cidrType, &cidrFuncs{
		get: ops.GetCIDRs,
		set: ops.SetCIDRs,
		del: ops.DeleteCIDRs,
	}, nil
}

func getCIDRsCommand(sess *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cidrs get|set|delete",
		Short: "Manage the CIDR lists of zones and collectors.",
	}

	cmd.AddCommand(
		getCIDRsGetCommand(sess),
		getCIDRsSetCommand(sess),
		getCIDRsDeleteCommand(sess),
	)

	return cmd
}

func getCIDRsGetCommand(sess *session) *cobra.Command {
	target := &cidrTarget{}

	cmd := &cobra.Command{
		Use:     "get --zone ID|--collector ID --type TYPE",
		Short:   "Show a CIDR list.",
		Example: "spectre cidrs get --zone 4 --type known",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, cidrType, funcs, err := target.resolve(sess, cmd)
			if err != nil {
				return err
			}

			prefixes, err := funcs.get(cmd.Context(), id, cidrType)
			if err != nil {
				return fmt.Errorf("cannot get CIDRs: %w", err)
			}

			values := make([]string, len(prefixes))
			for i, prefix := range prefixes {
				values[i] = prefix.String()
			}

			return printResult(cmd.OutOrStdout(), sess.opts.Output, values)
		},
	}

	target.addFlags(cmd)
	return cmd
}

func getCIDRsSetCommand(sess *session) *cobra.Command {
	target := &cidrTarget{}
	opts := cidr.SetOptions{}

	cmd := &cobra.Command{
		Use:   "set --zone ID|--collector ID --type TYPE CIDR...",
		Short: "Replace a CIDR list, or append to it.",
		Example: `spectre cidrs set --zone 4 --type known 10.0.0.0/8 192.168.1.1
spectre cidrs set --collector 3 --type target --append 172.16.0.0/12`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, cidrType, funcs, err := target.resolve(sess, cmd)
			if err != nil {
				return err
			}

			if err := funcs.set(cmd.Context(), id, cidrType, args, opts); err != nil {
				return fmt.Errorf("cannot set CIDRs: %w", err)
			}

			sess.log.Info().Str("type", string(cidrType)).Int("cidrs", len(args)).
				Bool("append", opts.Append).Msg("CIDRs set")
			return nil
		},
	}

	target.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.Append, "append", false, "append to the list instead of replacing it.")
	cmd.Flags().IntVar(&opts.ChunkSize, "chunk-size", cidr.DefaultChunkSize, "the maximum number of CIDRs sent per request.")
	return cmd
}

func getCIDRsDeleteCommand(sess *session) *cobra.Command {
	target := &cidrTarget{}
	var chunkSize int

	cmd := &cobra.Command{
		Use:     "delete --zone ID|--collector ID --type TYPE CIDR...",
		Short:   "Remove CIDRs from a list.",
		Example: "spectre cidrs delete --zone 4 --type avoid 10.1.0.0/16",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, cidrType, funcs, err := target.resolve(sess, cmd)
			if err != nil {
				return err
			}

			if err := funcs.del(cmd.Context(), id, cidrType, args, chunkSize); err != nil {
				return fmt.Errorf("cannot delete CIDRs: %w", err)
			}

			sess.log.Info().Str("type", string(cidrType)).Int("cidrs", len(args)).Msg("CIDRs deleted")
			return nil
		},
	}

	target.addFlags(cmd)
	cmd.Flags().IntVar(&chunkSize, "chunk-size", cidr.DefaultChunkSize, "the maximum number of CIDRs sent per request.")
	return cmd
}
