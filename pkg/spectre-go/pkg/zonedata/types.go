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

package zonedata

import (
	"encoding/json"
	"time"
)

// EpochMillis is a timestamp expressed in milliseconds since the Unix epoch,
// which is how Spectre reports all its times.
type EpochMillis int64

func (e EpochMillis) Time() time.Time {
	return time.UnixMilli(int64(e)).UTC()
}

func NewEpochMillis(t time.Time) EpochMillis {
	return EpochMillis(t.UnixMilli())
}

type Device struct {
	ID            int64       `json:"id" yaml:"id"`
	IP            string      `json:"ip" yaml:"ip"`
	MAC           string      `json:"mac,omitempty" yaml:"mac,omitempty"`
	Active        bool        `json:"active" yaml:"active"`
	PhaseComplete bool        `json:"phaseComplete" yaml:"phaseComplete"`
	FirstObserved EpochMillis `json:"firstObserved,omitempty" yaml:"firstObserved,omitempty"`
	LastObserved  EpochMillis `json:"lastObserved,omitempty" yaml:"lastObserved,omitempty"`
	Created       EpochMillis `json:"created,omitempty" yaml:"created,omitempty"`

	// Details holds whatever else the server included, i.e. the data
	// requested with detail.* query parameters.
	Details map[string]json.RawMessage `json:"-" yaml:"-"`
}

var knownDeviceFields = map[string]bool{
	"@class":        true,
	"id":            true,
	"ip":            true,
	"mac":           true,
	"active":        true,
	"phaseComplete": true,
	"firstObserved": true,
	"lastObserved":  true,
	"created":       true,
}

func (d *Device) UnmarshalJSON(data []byte) error {
	type plain Device

	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		if knownDeviceFields[key] {
			continue
		}

		if p.Details == nil {
			p.Details = map[string]json.RawMessage{}
		}
		p.Details[key] = value
	}

	*d = Device(p)
	return nil
}
