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
	"os"
	"strconv"

	spectrego "github.com/spectre-tools/spectre-go/pkg/spectre-go"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/collector"
	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func getCollectorsCommand(sess *session) *cobra.Command {
	var ref string

	cmd := &cobra.Command{
		Use:     "collectors [--collector ID|NAME]",
		Short:   "List the collectors.",
		Example: "spectre collectors --collector scout-1",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if ref != "" {
				coll, err := findCollector(cmd.Context(), sess.client, ref)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), sess.opts.Output, coll)
			}

			colls, err := sess.client.Collectors().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("cannot list collectors: %w", err)
			}

			return printResult(cmd.OutOrStdout(), sess.opts.Output, colls)
		},
	}

	cmd.Flags().StringVar(&ref, "collector", "", "only get this collector.")
	cmd.AddCommand(
		getCollectorsConfigCommand(sess),
		getCollectorsPropertyCommand(sess),
		getCollectorsPublishCommand(sess),
	)

	return cmd
}

// findCollector returns the collector with ref as ID or, if ref is not a
// number, as name.
func findCollector(ctx context.Context, client *spectrego.Client, ref string) (*collector.Collector, error) {
	id, err := strconv.Atoi(ref)
	if err != nil {
		coll, err := client.Collectors().GetByName(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("cannot get collector: %w", err)
		}

		return coll, nil
	}

	colls, err := client.Collectors().List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list collectors: %w", err)
	}

	for _, coll := range colls {
		if coll.ID == id {
			return coll, nil
		}
	}

	return nil, fmt.Errorf("cannot get collector: %w: collector %d", serrors.ErrorNotFound, id)
}

func getCollectorsConfigCommand(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:     "config ID|NAME",
		Short:   "Show the scan configuration of a collector.",
		Example: "spectre collectors config 3",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := findCollector(cmd.Context(), sess.client, args[0])
			if err != nil {
				return err
			}

			config, err := sess.client.Collectors().GetConfig(cmd.Context(), coll.ID)
			if err != nil {
				return fmt.Errorf("cannot get collector configuration: %w", err)
			}

			return printResult(cmd.OutOrStdout(), sess.opts.Output, config)
		},
	}
}

func getCollectorsPropertyCommand(sess *session) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "property ID|NAME PROPERTY [VALUE]",
		Short: "Get or set a property of a collector.",
		Long: `Get or set a property of a collector.

When VALUE is provided the property is set, unless it already has that
value and --force is not used.`,
		Example: `spectre collectors property 3 discovery.snmp.enabled
spectre collectors property scout-1 discovery.snmp.enabled true`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			coll, err := findCollector(cmd.Context(), sess.client, args[0])
			if err != nil {
				return err
			}

			ops := sess.client.Collectors()
			if len(args) == 2 {
				value, err := ops.GetProperty(cmd.Context(), coll.ID, args[1])
				if err != nil {
					return fmt.Errorf("cannot get property: %w", err)
				}

				fmt.Fprintln(cmd.OutOrStdout(), value)
				return nil
			}

			written, err := ops.SetProperty(cmd.Context(), coll.ID, args[1], args[2],
				collector.PropertyOptions{Force: force})
			if err != nil {
				return fmt.Errorf("cannot set property: %w", err)
			}

			sess.log.Info().Str("collector", coll.Name).Str("property", args[1]).
				Bool("written", written).Msg("property set")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "write the value even if the property already has it.")
	return cmd
}

func getCollectorsPublishCommand(sess *session) *cobra.Command {
	var (
		ref  string
		opts collector.PublishOptions
	)

	cmd := &cobra.Command{
		Use:   "publish devices|traces --collector ID|NAME FILE",
		Short: "Publish devices or path traces as if a collector observed them.",
		Long: `Publish devices or path traces as if a collector observed them.

FILE is a YAML or JSON list. Devices have ip, mac, phaseComplete and created
fields, while traces are published as they are.`,
		Example: "spectre collectors publish devices --collector scout-1 devices.yaml",
		Args:    cobra.ExactArgs(2),
		ValidArgs: []string{
			"devices", "traces",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, path := args[0], args[1]
			if kind != "devices" && kind != "traces" {
				return fmt.Errorf("cannot publish %q, must be devices or traces", kind)
			}

			coll, err := findCollector(cmd.Context(), sess.client, ref)
			if err != nil {
				return err
			}

			ops := sess.client.Collectors()
			if kind == "devices" {
				var devices []collector.Device
				if err := readListFile(path, &devices); err != nil {
					return err
				}

				if err := ops.AddDevices(cmd.Context(), coll, devices, opts); err != nil {
					return fmt.Errorf("cannot publish devices: %w", err)
				}

				sess.log.Info().Str("collector", coll.Name).Int("devices", len(devices)).
					Msg("devices published")
				return nil
			}

			var traces []collector.Trace
			if err := readListFile(path, &traces); err != nil {
				return err
			}

			if err := ops.AddTraces(cmd.Context(), coll, traces, opts); err != nil {
				return fmt.Errorf("cannot publish traces: %w", err)
			}

			sess.log.Info().Str("collector", coll.Name).Int("traces", len(traces)).
				Msg("traces published")
			return nil
		},
	}

	cmd.Flags().StringVar(&ref, "collector", "", "the collector that observed the data.")
	cmd.Flags().StringVar(&opts.ScanType, "scan-type", collector.DefaultScanType, "the type of scan.")
	cmd.Flags().StringVar(&opts.Protocol, "protocol", collector.DefaultProtocol, "the protocol used by the scan.")
	cmd.Flags().BoolVar(&opts.NACK, "nack", false, "whether the scan got no acknowledgement.")
	cmd.MarkFlagRequired("collector")

	return cmd
}

// readListFile decodes a YAML or JSON file, since JSON is valid YAML.
func readListFile(path string, dst interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open file path: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(dst); err != nil {
		return fmt.Errorf("could not decode %s: %w", path, err)
	}

	return nil
}
