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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spectre-tools/spectre-go/pkg/snapshot"
	"github.com/spf13/cobra"
)

type exportResult struct {
	SnapshotID int64     `json:"snapshotId" yaml:"snapshotId"`
	ZoneID     int       `json:"zoneId" yaml:"zoneId"`
	TakenAt    time.Time `json:"takenAt" yaml:"takenAt"`
	Devices    int       `json:"devices" yaml:"devices"`
	Added      []string  `json:"added,omitempty" yaml:"added,omitempty"`
	Removed    []string  `json:"removed,omitempty" yaml:"removed,omitempty"`
}

func getExportCommand(sess *session) *cobra.Command {
	var (
		zoneID int
		dbPath string
		every  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "export --zone ZONE_ID --db PATH [--every DURATION]",
		Short: "Save the devices of a zone into a SQLite database.",
		Long: `Save the devices of a zone into a SQLite database.

Each export is stored as a new snapshot and compared with the previous one,
reporting the IP addresses that appeared or disappeared. With --every, the
export is repeated until the program is interrupted.`,
		Example: "spectre export --zone 4 --db devices.db --every 15m",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if every < 0 {
				return fmt.Errorf("invalid interval provided")
			}

			store, err := snapshot.Open(dbPath)
			if err != nil {
				return fmt.Errorf("cannot open database: %w", err)
			}
			defer store.Close()

			if every == 0 {
				res, err := exportZone(cmd.Context(), sess, store, zoneID)
				if err != nil {
					return err
				}

				return printResult(cmd.OutOrStdout(), sess.opts.Output, res)
			}

			return exportPeriodically(cmd, sess, store, zoneID, every)
		},
	}

	cmd.Flags().IntVar(&zoneID, "zone", 0, "the ID of the zone.")
	cmd.Flags().StringVar(&dbPath, "db", "", "path to the SQLite database, which is created if needed.")
	cmd.Flags().DurationVar(&every, "every", 0, "if set, export again at this interval until interrupted.")
	cmd.MarkFlagRequired("zone")
	cmd.MarkFlagRequired("db")

	return cmd
}

func exportZone(ctx context.Context, sess *session, store *snapshot.Store, zoneID int) (*exportResult, error) {
	pager, err := sess.client.ZoneData().ListDevicesByZone(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("cannot list devices: %w", err)
	}

	devices, err := pager.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list devices: %w", err)
	}

	prev, err := store.Latest(ctx, zoneID)
	switch {
	case errors.Is(err, snapshot.ErrNoSnapshot):
		prev = &snapshot.Snapshot{}
	case err != nil:
		return nil, fmt.Errorf("cannot load previous snapshot: %w", err)
	}

	res := &exportResult{
		ZoneID:  zoneID,
		TakenAt: time.Now().UTC(),
		Devices: len(devices),
	}

	res.SnapshotID, err = store.Save(ctx, zoneID, res.TakenAt, devices)
	if err != nil {
		return nil, fmt.Errorf("cannot save snapshot: %w", err)
	}

	res.Added, res.Removed = snapshot.Diff(prev.Devices, devices)

	sess.log.Info().Int("zone-id", zoneID).Int64("snapshot-id", res.SnapshotID).
		Int("devices", res.Devices).Int("added", len(res.Added)).
		Int("removed", len(res.Removed)).Msg("zone exported")
	return res, nil
}

func exportPeriodically(cmd *cobra.Command, sess *session, store *snapshot.Store, zoneID int, every time.Duration) error {
	log := sess.log

	// -- Init stop channels
	ctx, canc := context.WithCancel(cmd.Context())
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stopChan)

	// -- Do the actual work
	wg := sync.WaitGroup{}
	failed := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			res, err := exportZone(ctx, sess, store, zoneID)
			switch {
			case errors.Is(err, context.Canceled):
				return
			case err != nil:
				log.Err(err).Msg("error while exporting zone")
				failed <- err
				return
			default:
				if err := printResult(cmd.OutOrStdout(), sess.opts.Output, res); err != nil {
					log.Err(err).Msg("cannot print result")
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	log.Info().Str("every", every.String()).Msg("working....")

	// -- Graceful shutdown
	var err error
	select {
	case <-stopChan:
		fmt.Fprintln(cmd.ErrOrStderr())
	case err = <-failed:
	case <-ctx.Done():
	}

	log.Info().Msg("waiting for all workers to terminate...")

	canc()
	wg.Wait()
	log.Info().Msg("done. Good bye!")

	return err
}
