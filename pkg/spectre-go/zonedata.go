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
	"context"
	"net/url"
	"strconv"

	r "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/requester"
	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/response"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zonedata"
)

const (
	pathZoneDataBaseURL string = "zonedata"
	pathDevices         string = "devices"
)

type zoneDataOps struct {
	*r.Requester
	pageSize int
}

func newZoneDataOpsFromRequester(req *r.Requester, pageSize int) *zoneDataOps {
	return &zoneDataOps{
		Requester: req.CloneWithNewBasePath(pathZoneDataBaseURL),
		pageSize:  pageSize,
	}
}

// GetDevicesByZone returns the devices of the zone as the server sends
// them in a single response, without any paging parameter. Use
// ListDevicesByZone to go through all devices of large zones.
func (z *zoneDataOps) GetDevicesByZone(ctx context.Context, zoneID int) (*response.Envelope[zonedata.Device], error) {
	if err := validateID("zone ID", zoneID); err != nil {
		return nil, err
	}

	resp, err := z.Get(ctx,
		r.WithPath(pathDevices),
		r.WithQueryParameter("filter.zone.id", strconv.Itoa(zoneID)),
	)
	if err != nil {
		return nil, err
	}

	return r.DecodeEnvelope[zonedata.Device](resp)
}

// ListDevicesByZone returns a pager over all the devices of the zone.
func (z *zoneDataOps) ListDevicesByZone(ctx context.Context, zoneID int) (*Pager[zonedata.Device], error) {
	if err := validateID("zone ID", zoneID); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("filter.zone.id", strconv.Itoa(zoneID))

	return newPager[zonedata.Device](ctx, z.Requester, pathDevices, params, z.pageSize)
}

func validateID(field string, id int) error {
	if id <= 0 {
		return serrors.NewValidationError(field, strconv.Itoa(id), serrors.ErrorInvalidID)
	}

	return nil
}
