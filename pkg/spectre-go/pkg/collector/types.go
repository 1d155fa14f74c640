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

package collector

import (
	"encoding/json"
	"time"

	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zone"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zonedata"
)

// Collector is a set of scan configuration associated with a specific
// Scout network interface.
type Collector struct {
	ID   int        `json:"id" yaml:"id"`
	UUID string     `json:"uuid" yaml:"uuid"`
	Name string     `json:"name" yaml:"name"`
	Zone *zone.Zone `json:"zone,omitempty" yaml:"zone,omitempty"`
}

const (
	DefaultScanType string = "external"
	DefaultProtocol string = "unspecified"
)

// PublishOptions describe how published devices and traces were observed.
type PublishOptions struct {
	// ScanType defaults to DefaultScanType.
	ScanType string
	// Protocol defaults to DefaultProtocol.
	Protocol string
	NACK     bool
	// Time defaults to now.
	Time time.Time
}

// DeviceClass is the @class published devices get unless they have one.
const DeviceClass string = "device"

// Device is a device observation to publish through a collector.
type Device struct {
	IP            string               `json:"ip" yaml:"ip"`
	MAC           string               `json:"mac,omitempty" yaml:"mac,omitempty"`
	PhaseComplete bool                 `json:"phaseComplete" yaml:"phaseComplete"`
	Created       zonedata.EpochMillis `json:"created,omitempty" yaml:"created,omitempty"`

	// Extra holds any other attribute of the device, i.e. @class or
	// hostname, and is published as is.
	Extra map[string]interface{} `json:"-" yaml:",inline"`
}

var deviceFields = [...]string{"ip", "mac", "phaseComplete", "created"}

// Fields returns all the attributes of the device as they are published.
func (d Device) Fields() map[string]interface{} {
	fields := make(map[string]interface{}, len(d.Extra)+len(deviceFields)+1)
	for key, value := range d.Extra {
		fields[key] = value
	}

	if _, exists := fields["@class"]; !exists {
		fields["@class"] = DeviceClass
	}

	fields["ip"] = d.IP
	fields["phaseComplete"] = d.PhaseComplete
	if d.MAC != "" {
		fields["mac"] = d.MAC
	}
	if d.Created != 0 {
		fields["created"] = d.Created
	}

	return fields
}

func (d Device) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Fields())
}

func (d *Device) UnmarshalJSON(data []byte) error {
	type plainDevice Device
	var plain plainDevice
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}

	var extra map[string]interface{}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	for _, field := range deviceFields {
		delete(extra, field)
	}
	if len(extra) > 0 {
		plain.Extra = extra
	}

	*d = Device(plain)
	return nil
}

// Trace is a path trace to publish through a collector. Its shape depends
// on the scan that produced it, so it is left to the caller.
type Trace map[string]interface{}

type PropertyOptions struct {
	// Force writes the property even if it already has the same value.
	Force bool
}
