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

package response

import (
	"encoding/json"
	"testing"
)

const devicesPayload = `{
  "@class" : "apiresponse",
  "status" : "SUCCESS",
  "method" : "ZoneData.getDevices",
  "total" : 3,
  "results" : [ {"id" : 1110}, {"id" : 1111}, {"id" : 1112} ]
}`

type item struct {
	ID int `json:"id"`
}

func TestEnvelopeResultsOrder(t *testing.T) {
	var env Envelope[item]
	if err := json.Unmarshal([]byte(devicesPayload), &env); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if env.Status != StatusSuccess {
		t.Errorf("Status = %q, want SUCCESS", env.Status)
	}
	if env.Method != "ZoneData.getDevices" {
		t.Errorf("Method = %q", env.Method)
	}
	if !env.Consistent() {
		t.Errorf("expected total %d to match %d results", *env.Total, len(env.Results))
	}

	data, err := json.Marshal(env.Results)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var again []item
	if err := json.Unmarshal(data, &again); err != nil {
		t.Fatalf("unmarshal results failed: %v", err)
	}

	want := []int{1110, 1111, 1112}
	if len(again) != len(want) {
		t.Fatalf("got %d results, want %d", len(again), len(want))
	}
	for i, id := range want {
		if again[i].ID != id {
			t.Errorf("result %d has id %d, want %d", i, again[i].ID, id)
		}
	}
}

func TestEnvelopeConsistent(t *testing.T) {
	two := 2
	tests := []struct {
		name string
		env  Envelope[item]
		want bool
	}{
		{"no total", Envelope[item]{Results: []item{{1}}}, true},
		{"matching", Envelope[item]{Total: &two, Results: []item{{1}, {2}}}, true},
		{"paged", Envelope[item]{Total: &two, Results: []item{{1}}}, false},
	}

	for _, tt := range tests {
		if got := tt.env.Consistent(); got != tt.want {
			t.Errorf("%s: Consistent() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEnvelopeFirst(t *testing.T) {
	env := Envelope[item]{Results: []item{}}
	if _, ok := env.First(); ok {
		t.Error("First() on empty results should report false")
	}

	env.Results = append(env.Results, item{ID: 4})
	if got, ok := env.First(); !ok || got.ID != 4 {
		t.Errorf("First() = %v, %v", got, ok)
	}
}
