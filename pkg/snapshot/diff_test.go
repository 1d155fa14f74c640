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

package snapshot

import (
	"reflect"
	"testing"

	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zonedata"
)

func devicesWithIPs(ips ...string) []zonedata.Device {
	devices := make([]zonedata.Device, len(ips))
	for i, ip := range ips {
		devices[i] = zonedata.Device{ID: int64(i + 1), IP: ip}
	}
	return devices
}

func TestDiff(t *testing.T) {
	cases := []struct {
		id          string
		prev        []zonedata.Device
		curr        []zonedata.Device
		wantAdded   []string
		wantRemoved []string
	}{
		{
			id:        "from nothing",
			curr:      devicesWithIPs("10.0.0.2", "10.0.0.1"),
			wantAdded: []string{"10.0.0.1", "10.0.0.2"},
		},
		{
			id:          "to nothing",
			prev:        devicesWithIPs("10.0.0.1"),
			wantRemoved: []string{"10.0.0.1"},
		},
		{
			id:   "unchanged",
			prev: devicesWithIPs("10.0.0.1", "10.0.0.2"),
			curr: devicesWithIPs("10.0.0.2", "10.0.0.1"),
		},
		{
			id:        "duplicated addresses",
			prev:      devicesWithIPs("10.0.0.1", "10.0.0.1"),
			curr:      devicesWithIPs("10.0.0.2", "10.0.0.1", "10.0.0.2"),
			wantAdded: []string{"10.0.0.2"},
		},
		{
			id:          "both",
			prev:        devicesWithIPs("10.0.0.1", "10.0.0.2", "10.0.0.3"),
			curr:        devicesWithIPs("10.0.0.3", "10.0.0.4", "10.0.0.1"),
			wantAdded:   []string{"10.0.0.4"},
			wantRemoved: []string{"10.0.0.2"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			added, removed := Diff(tc.prev, tc.curr)
			if !reflect.DeepEqual(added, tc.wantAdded) {
				t.Errorf("added = %v, want %v", added, tc.wantAdded)
			}
			if !reflect.DeepEqual(removed, tc.wantRemoved) {
				t.Errorf("removed = %v, want %v", removed, tc.wantRemoved)
			}
		})
	}
}
