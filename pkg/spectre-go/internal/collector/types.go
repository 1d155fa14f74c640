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

	izone "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/zone"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/collector"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zonedata"
)

type InternalCollector struct {
	ID   int                 `json:"id"`
	UUID string              `json:"uuid"`
	Name string              `json:"name"`
	Zone *izone.InternalZone `json:"zone,omitempty"`
}

func (c *InternalCollector) ToCollector() *collector.Collector {
	coll := &collector.Collector{
		ID:   c.ID,
		UUID: c.UUID,
		Name: c.Name,
	}

	if c.Zone != nil {
		coll.Zone = c.Zone.ToZone()
	}

	return coll
}

type Reference struct {
	ID   int    `json:"id"`
	UUID string `json:"uuid"`
}

// ResponseBlock tells Spectre which collector observed a published device
// or trace, and how.
type ResponseBlock struct {
	Collector Reference            `json:"collector"`
	ScanType  string               `json:"scanType"`
	Protocol  string               `json:"protocol"`
	Time      zonedata.EpochMillis `json:"time"`
	NACK      bool                 `json:"NACK"`
}

func NewResponseBlock(coll *collector.Collector, opts collector.PublishOptions) ResponseBlock {
	block := ResponseBlock{
		Collector: Reference{ID: coll.ID, UUID: coll.UUID},
		ScanType:  opts.ScanType,
		Protocol:  opts.Protocol,
		Time:      zonedata.NewEpochMillis(opts.Time),
		NACK:      opts.NACK,
	}

	if block.ScanType == "" {
		block.ScanType = collector.DefaultScanType
	}
	if block.Protocol == "" {
		block.Protocol = collector.DefaultProtocol
	}
	if opts.Time.IsZero() {
		block.Time = zonedata.NewEpochMillis(time.Now())
	}

	return block
}

type PublishedDevice struct {
	collector.Device
	Responses []ResponseBlock `json:"responses"`
}

func (p PublishedDevice) MarshalJSON() ([]byte, error) {
	fields := p.Device.Fields()
	fields["responses"] = p.Responses
	return json.Marshal(fields)
}

type PublishDevicesBody struct {
	Devices []PublishedDevice `json:"devices"`
}

func NewPublishDevicesBody(devices []collector.Device, block ResponseBlock) *PublishDevicesBody {
	body := &PublishDevicesBody{Devices: make([]PublishedDevice, 0, len(devices))}
	for _, dev := range devices {
		body.Devices = append(body.Devices, PublishedDevice{
			Device:    dev,
			Responses: []ResponseBlock{block},
		})
	}

	return body
}

type PublishTracesBody struct {
	Traces []map[string]interface{} `json:"traces"`
}

// NewPublishTracesBody copies every trace before stamping it, so that the
// caller's maps are left untouched.
func NewPublishTracesBody(traces []collector.Trace, block ResponseBlock) *PublishTracesBody {
	body := &PublishTracesBody{Traces: make([]map[string]interface{}, 0, len(traces))}
	for _, trace := range traces {
		stamped := make(map[string]interface{}, len(trace)+1)
		for key, value := range trace {
			stamped[key] = value
		}
		stamped["response"] = block

		body.Traces = append(body.Traces, stamped)
	}

	return body
}

// PropertyValue is what Spectre answers when reading a collector property.
type PropertyValue struct {
	Result interface{} `json:"result"`
}
