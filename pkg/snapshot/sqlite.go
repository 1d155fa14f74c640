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

// Package snapshot keeps point in time copies of the devices of a zone in a
// SQLite database. Snapshots are append only: saving never modifies a
// previous snapshot.
package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zonedata"
)

var ErrNoSnapshot = errors.New("no snapshot found")

type Store struct {
	db *sql.DB
}

// Snapshot is the set of devices a zone had at TakenAt.
type Snapshot struct {
	ID      int64             `json:"id" yaml:"id"`
	ZoneID  int               `json:"zoneId" yaml:"zoneId"`
	TakenAt time.Time         `json:"takenAt" yaml:"takenAt"`
	Devices []zonedata.Device `json:"devices" yaml:"devices"`
}

func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			zone_id INTEGER NOT NULL,
			taken_at DATETIME NOT NULL,
			device_count INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_zone
			ON snapshots(zone_id, taken_at);
		CREATE TABLE IF NOT EXISTS devices (
			snapshot_id INTEGER NOT NULL REFERENCES snapshots(id),
			device_id INTEGER NOT NULL,
			ip TEXT NOT NULL,
			mac TEXT NOT NULL,
			active BOOLEAN NOT NULL,
			phase_complete BOOLEAN NOT NULL,
			first_observed INTEGER NOT NULL,
			last_observed INTEGER NOT NULL,
			created INTEGER NOT NULL,
			details TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_devices_snapshot
			ON devices(snapshot_id);
	`)
	if err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Save stores all devices as a new snapshot of the zone and returns its ID.
func (s *Store) Save(ctx context.Context, zoneID int, takenAt time.Time, devices []zonedata.Device) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (zone_id, taken_at, device_count) VALUES (?, ?, ?)`,
		zoneID, takenAt.UTC(), len(devices),
	)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	snapshotID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO devices (snapshot_id, device_id, ip, mac, active, phase_complete,
			first_observed, last_observed, created, details)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, dev := range devices {
		details := dev.Details
		if details == nil {
			details = map[string]json.RawMessage{}
		}

		detailsJSON, err := json.Marshal(details)
		if err != nil {
			return 0, fmt.Errorf("marshal details of device %d: %w", dev.ID, err)
		}

		_, err = stmt.ExecContext(ctx,
			snapshotID, dev.ID, dev.IP, dev.MAC, dev.Active, dev.PhaseComplete,
			int64(dev.FirstObserved), int64(dev.LastObserved), int64(dev.Created),
			string(detailsJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("insert device %d: %w", dev.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return snapshotID, nil
}

// Latest returns the most recent snapshot of the zone, or ErrNoSnapshot.
func (s *Store) Latest(ctx context.Context, zoneID int) (*Snapshot, error) {
	snap := &Snapshot{ZoneID: zoneID}

	err := s.db.QueryRowContext(ctx,
		`SELECT id, taken_at FROM snapshots
		 WHERE zone_id = ?
		 ORDER BY taken_at DESC, id DESC
		 LIMIT 1`,
		zoneID,
	).Scan(&snap.ID, &snap.TakenAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w for zone %d", ErrNoSnapshot, zoneID)
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT device_id, ip, mac, active, phase_complete,
			first_observed, last_observed, created, details
		 FROM devices
		 WHERE snapshot_id = ?
		 ORDER BY rowid ASC`,
		snap.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("query devices: %w", err)
	}
	defer rows.Close()

	snap.Devices, err = scanDevices(rows)
	if err != nil {
		return nil, err
	}

	return snap, nil
}

func scanDevices(rows *sql.Rows) ([]zonedata.Device, error) {
	devices := []zonedata.Device{}
	for rows.Next() {
		var (
			dev                            zonedata.Device
			firstObserved, lastObs, create int64
			detailsJSON                    string
		)

		if err := rows.Scan(&dev.ID, &dev.IP, &dev.MAC, &dev.Active, &dev.PhaseComplete,
			&firstObserved, &lastObs, &create, &detailsJSON); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}

		dev.FirstObserved = zonedata.EpochMillis(firstObserved)
		dev.LastObserved = zonedata.EpochMillis(lastObs)
		dev.Created = zonedata.EpochMillis(create)

		details := map[string]json.RawMessage{}
		if err := json.Unmarshal([]byte(detailsJSON), &details); err != nil {
			return nil, fmt.Errorf("unmarshal details: %w", err)
		}
		if len(details) > 0 {
			dev.Details = details
		}

		devices = append(devices, dev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return devices, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
