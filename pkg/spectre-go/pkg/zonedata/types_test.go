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
	"testing"
	"time"
)

func TestDeviceUnmarshal(t *testing.T) {
	payload := `{
    "@class" : "device",
    "id" : 1110,
    "ip" : "10.2.1.1",
    "mac" : "00:0e:d7:1b:11:01",
    "active" : false,
    "firstObserved" : 1524244323000,
    "lastObserved" : 1524244323000,
    "phaseComplete" : false,
    "created" : 1524431990907,
    "attributes" : [ "router" ]
  }`

	var d Device
	if err := json.Unmarshal([]byte(payload), &d); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if d.ID != 1110 || d.IP != "10.2.1.1" || d.MAC != "00:0e:d7:1b:11:01" || d.Active {
		t.Errorf("unexpected device: %+v", d)
	}

	want := time.Date(2018, time.April, 20, 17, 12, 3, 0, time.UTC)
	if got := d.FirstObserved.Time(); !got.Equal(want) {
		t.Errorf("FirstObserved = %s, want %s", got, want)
	}

	if len(d.Details) != 1 {
		t.Fatalf("expected 1 detail, got %d: %v", len(d.Details), d.Details)
	}
	if string(d.Details["attributes"]) != `[ "router" ]` {
		t.Errorf("attributes detail = %s", d.Details["attributes"])
	}
}

func TestEpochMillisRoundTrip(t *testing.T) {
	now := time.Date(2018, time.August, 27, 16, 43, 39, 912000000, time.UTC)
	e := NewEpochMillis(now)
	if int64(e) != 1535388219912 {
		t.Errorf("NewEpochMillis = %d, want 1535388219912", e)
	}
	if !e.Time().Equal(now) {
		t.Errorf("Time() = %s, want %s", e.Time(), now)
	}
}
