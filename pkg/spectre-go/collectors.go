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

package spectrego

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/netip"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	icollector "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/collector"
	r "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/requester"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/cidr"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/collector"
	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
)

const (
	pathCollectorBaseURL string = "zone/collector"
	pathPublishBaseURL   string = "publish"
)

type collectorsOps struct {
	*r.Requester
	root     *r.Requester
	pageSize int
	log      zerolog.Logger
}

func newCollectorsOpsFromRequester(req *r.Requester, pageSize int, log zerolog.Logger) *collectorsOps {
	return &collectorsOps{
		Requester: req.CloneWithNewBasePath(pathCollectorBaseURL),
		root:      req,
		pageSize:  pageSize,
		log:       log.With().Str("ops", "collectors").Logger(),
	}
}

func (c *collectorsOps) cidrs() *cidrOps {
	return &cidrOps{
		Requester: c.Requester,
		pageSize:  c.pageSize,
		owner:     "collector",
		allowed:   cidr.CollectorTypes,
	}
}

func (c *collectorsOps) List(ctx context.Context) ([]*collector.Collector, error) {
	pager, err := newPager[icollector.InternalCollector](ctx, c.Requester, "", nil, c.pageSize)
	if err != nil {
		return nil, err
	}

	_collectors, err := pager.All(ctx)
	if err != nil {
		return nil, err
	}

	collectors := make([]*collector.Collector, 0, len(_collectors))
	for _, _collector := range _collectors {
		collectors = append(collectors, _collector.ToCollector())
	}

	return collectors, nil
}

// GetByName returns the collector with the provided name, or an error
// wrapping ErrorNotFound if there is none.
func (c *collectorsOps) GetByName(ctx context.Context, name string) (*collector.Collector, error) {
	if name == "" {
		return nil, serrors.NewValidationError("collector name", "", serrors.ErrorNoNameProvided)
	}

	pager, err := newPager[icollector.InternalCollector](ctx, c.Requester, "", nil, c.pageSize)
	if err != nil {
		return nil, err
	}

	for {
		_collector, err := pager.Next(ctx)
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: collector %q", serrors.ErrorNotFound, name)
			}

			return nil, err
		}

		if _collector.Name == name {
			return _collector.ToCollector(), nil
		}
	}
}

func (c *collectorsOps) GetCIDRs(ctx context.Context, collectorID int, cidrType cidr.Type) ([]netip.Prefix, error) {
	return c.cidrs().get(ctx, collectorID, cidrType)
}

// SetCIDRs replaces the CIDRs of the provided type, or adds to them if
// opts.Append is true.
func (c *collectorsOps) SetCIDRs(ctx context.Context, collectorID int, cidrType cidr.Type, cidrs []string, opts cidr.SetOptions) error {
	return c.cidrs().set(ctx, collectorID, cidrType, cidrs, opts)
}

func (c *collectorsOps) DeleteCIDRs(ctx context.Context, collectorID int, cidrType cidr.Type, cidrs []string, chunkSize int) error {
	return c.cidrs().delete(ctx, collectorID, cidrType, cidrs, chunkSize)
}

func validateCollector(coll *collector.Collector) error {
	if coll == nil {
		return serrors.NewValidationError("collector", "", serrors.ErrorNoIDProvided)
	}

	if err := validateID("collector ID", coll.ID); err != nil {
		return err
	}

	if _, err := uuid.Parse(coll.UUID); err != nil {
		return serrors.NewValidationError("collector UUID", coll.UUID, serrors.ErrorInvalidCollectorUUID)
	}

	return nil
}

// AddDevices publishes devices as if coll had discovered them.
func (c *collectorsOps) AddDevices(ctx context.Context, coll *collector.Collector, devices []collector.Device, opts collector.PublishOptions) error {
	if err := validateCollector(coll); err != nil {
		return err
	}

	if len(devices) == 0 {
		return serrors.NewValidationError("devices", "", serrors.ErrorNoDevicesProvided)
	}

	block := icollector.NewResponseBlock(coll, opts)
	return c.publish(ctx, "device", coll.UUID, icollector.NewPublishDevicesBody(devices, block))
}

// AddTraces publishes path traces as if coll had performed them.
func (c *collectorsOps) AddTraces(ctx context.Context, coll *collector.Collector, traces []collector.Trace, opts collector.PublishOptions) error {
	if err := validateCollector(coll); err != nil {
		return err
	}

	if len(traces) == 0 {
		return serrors.NewValidationError("traces", "", serrors.ErrorNoTracesProvided)
	}

	block := icollector.NewResponseBlock(coll, opts)
	return c.publish(ctx, "path", coll.UUID, icollector.NewPublishTracesBody(traces, block))
}

func (c *collectorsOps) publish(ctx context.Context, kind, collectorUUID string, body interface{}) error {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: %s", serrors.ErrorMarshallingData, err)
	}

	resp, err := c.root.CloneWithNewBasePath(pathPublishBaseURL).Put(ctx,
		r.WithPath(kind, collectorUUID),
		r.WithBodyBytes(reqBody),
	)
	if err != nil {
		return err
	}

	return r.CheckStatus(resp)
}

func validateProperty(collectorID int, prop string) error {
	if err := validateID("collector ID", collectorID); err != nil {
		return err
	}

	if prop == "" {
		return serrors.NewValidationError("property", "", serrors.ErrorNoPropertyNameProvided)
	}

	return nil
}

// GetProperty returns the value of a collector property. Values that are
// not strings are returned as JSON.
func (c *collectorsOps) GetProperty(ctx context.Context, collectorID int, prop string) (string, error) {
	if err := validateProperty(collectorID, prop); err != nil {
		return "", err
	}

	resp, err := c.Get(ctx, r.WithPath(strconv.Itoa(collectorID), "property", "get", prop))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var value struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		return "", &serrors.ProtocolError{Reason: "property value is not JSON", Err: err}
	}

	return propertyString(value.Result), nil
}

func propertyString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}

// SetProperty sets a collector property. Unless opts.Force is true, the
// current value is read first and nothing is written if it is already
// value. It reports whether a write was made.
func (c *collectorsOps) SetProperty(ctx context.Context, collectorID int, prop, value string, opts collector.PropertyOptions) (bool, error) {
	if err := validateProperty(collectorID, prop); err != nil {
		return false, err
	}

	if !opts.Force {
		current, err := c.GetProperty(ctx, collectorID, prop)
		if err != nil {
			return false, fmt.Errorf("cannot read current value: %w", err)
		}

		if current == value {
			c.log.Debug().Int("collector", collectorID).Str("property", prop).
				Msg("property already has the requested value, skipping")
			return false, nil
		}
	}

	resp, err := c.Get(ctx,
		r.WithPath(strconv.Itoa(collectorID), "property", "set", prop),
		r.WithQueryParameter("value", value),
	)
	if err != nil {
		return false, err
	}

	if err := r.CheckStatus(resp); err != nil {
		return false, err
	}

	return true, nil
}

// GetConfig returns the scan configuration and the interface of the
// collector, as the server provides them.
func (c *collectorsOps) GetConfig(ctx context.Context, collectorID int) (map[string]interface{}, error) {
	if err := validateID("collector ID", collectorID); err != nil {
		return nil, err
	}

	resp, err := c.Get(ctx,
		r.WithQueryParameter("detail.Config", "true"),
		r.WithQueryParameter("detail.Interface", "true"),
		r.WithQueryParameter("filter.collector.id", strconv.Itoa(collectorID)),
	)
	if err != nil {
		return nil, err
	}

	env, err := r.DecodeEnvelope[map[string]interface{}](resp)
	if err != nil {
		return nil, err
	}

	config, ok := env.First()
	if !ok {
		return nil, fmt.Errorf("%w: collector %d", serrors.ErrorNotFound, collectorID)
	}

	return config, nil
}
