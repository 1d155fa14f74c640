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
	"encoding/json"
	"fmt"

	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zonedata"
	"github.com/spf13/cobra"
)

// deviceView is a device together with its details, in a form both the
// yaml and json printers understand.
type deviceView struct {
	zonedata.Device `yaml:",inline"`
	Details         map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

func newDeviceView(dev zonedata.Device) (*deviceView, error) {
	view := &deviceView{Device: dev}
	if len(dev.Details) == 0 {
		return view, nil
	}

	view.Details = make(map[string]interface{}, len(dev.Details))
	for key, raw := range dev.Details {
		var value interface{}
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("cannot decode detail %s: %w", key, err)
		}
		view.Details[key] = value
	}

	return view, nil
}

func getDevicesCommand(sess *session) *cobra.Command {
	var (
		zoneID int
		all    bool
		ip     string
	)

	cmd := &cobra.Command{
		Use:   "devices --zone ZONE_ID [--all|--ip IP]",
		Short: "List the devices discovered in a zone.",
		Long: `List the devices discovered in a zone.

Without --all only the first page of devices is returned. With --ip, a
single device is returned together with its details.`,
		Example: "spectre devices --zone 4 --all",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if ip != "" {
				env, err := sess.client.Zones().GetDeviceDetailsByIP(ctx, zoneID, ip)
				if err != nil {
					return fmt.Errorf("cannot get device details: %w", err)
				}

				views := make([]*deviceView, 0, len(env.Results))
				for _, dev := range env.Results {
					view, err := newDeviceView(dev)
					if err != nil {
						return err
					}
					views = append(views, view)
				}

				return printResult(cmd.OutOrStdout(), sess.opts.Output, views)
			}

			if !all {
				env, err := sess.client.ZoneData().GetDevicesByZone(ctx, zoneID)
				if err != nil {
					return fmt.Errorf("cannot get devices: %w", err)
				}

				return printResult(cmd.OutOrStdout(), sess.opts.Output, env.Results)
			}

			pager, err := sess.client.ZoneData().ListDevicesByZone(ctx, zoneID)
			if err != nil {
				return fmt.Errorf("cannot list devices: %w", err)
			}

			devices, err := pager.All(ctx)
			if err != nil {
				return fmt.Errorf("cannot list devices: %w", err)
			}

			sess.log.Debug().Int("zone-id", zoneID).Int("total", pager.Total()).
				Int("received", len(devices)).Msg("devices listed")

			return printResult(cmd.OutOrStdout(), sess.opts.Output, devices)
		},
	}

	cmd.Flags().IntVar(&zoneID, "zone", 0, "the ID of the zone.")
	cmd.Flags().BoolVar(&all, "all", false, "whether to retrieve all pages.")
	cmd.Flags().StringVar(&ip, "ip", "", "only get the device with this IP address, with its details.")
	cmd.MarkFlagRequired("zone")
	cmd.MarkFlagsMutuallyExclusive("all", "ip")

	return cmd
}
