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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/netip"
	"strconv"
	"strings"

	"github.com/hashicorp/go-version"
	"github.com/rs/zerolog"
	r "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/requester"
	izone "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/zone"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/cidr"
	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/response"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zone"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zonedata"
)

const (
	pathZoneBaseURL string = "zone"
)

var (
	// Profile details can only be requested from 3.3.1 onwards.
	profileDetailsMinVersion = version.Must(version.NewVersion("3.3.1"))

	deviceDetails = []string{
		"ScanType",
		"Attributes",
		"Protocol",
		"Port",
		"AlternateAddress",
		"ReferenceIp",
		"Details",
		"LeakResponse",
		"Certificate",
		"Interfaces",
		"Vlans",
		"Collector",
		"SnmpAlias",
	}
	profileDetails = []string{"Profile", "ProfileDetails"}
)

type zonesOps struct {
	*r.Requester
	root     *r.Requester
	pageSize int
	log      zerolog.Logger
}

func newZonesOpsFromRequester(req *r.Requester, pageSize int, log zerolog.Logger) *zonesOps {
	return &zonesOps{
		Requester: req.CloneWithNewBasePath(pathZoneBaseURL),
		root:      req,
		pageSize:  pageSize,
		log:       log.With().Str("ops", "zones").Logger(),
	}
}

func (z *zonesOps) cidrs() *cidrOps {
	return &cidrOps{
		Requester: z.Requester,
		pageSize:  z.pageSize,
		owner:     "zone",
		allowed:   cidr.ZoneTypes,
	}
}

func (z *zonesOps) List(ctx context.Context) ([]*zone.Zone, error) {
	pager, err := newPager[izone.InternalZone](ctx, z.Requester, "", nil, z.pageSize)
	if err != nil {
		return nil, err
	}

	_zones, err := pager.All(ctx)
	if err != nil {
		return nil, err
	}

	zones := make([]*zone.Zone, 0, len(_zones))
	for _, _zone := range _zones {
		zones = append(zones, _zone.ToZone())
	}

	return zones, nil
}

// GetByName returns the zone with the provided name, or an error wrapping
// ErrorNotFound if there is none.
func (z *zonesOps) GetByName(ctx context.Context, name string) (*zone.Zone, error) {
	if name == "" {
		return nil, serrors.NewValidationError("zone name", "", serrors.ErrorNoNameProvided)
	}

	pager, err := newPager[izone.InternalZone](ctx, z.Requester, "", nil, z.pageSize)
	if err != nil {
		return nil, err
	}

	for {
		_zone, err := pager.Next(ctx)
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("%w: zone %q", serrors.ErrorNotFound, name)
			}

			return nil, err
		}

		if _zone.Name == name {
			return _zone.ToZone(), nil
		}
	}
}

// Create creates a new zone. When the server does not echo the new zone
// back, it is looked up by name.
func (z *zonesOps) Create(ctx context.Context, opts zone.CreateOptions) (*zone.Zone, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, serrors.NewValidationError("zone name", "", serrors.ErrorNoNameProvided)
	}

	reqBody, err := json.Marshal(izone.NewCreateRequestBody(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", serrors.ErrorMarshallingData, err)
	}

	resp, err := z.Post(ctx, r.WithBodyBytes(reqBody))
	if err != nil {
		return nil, err
	}

	env, err := r.DecodeEnvelope[izone.InternalZone](resp)
	if err != nil {
		var protoErr *serrors.ProtocolError
		if !errors.As(err, &protoErr) {
			return nil, err
		}

		z.log.Debug().Err(err).Str("name", opts.Name).
			Msg("zone creation did not answer with an envelope")
	} else if created, ok := env.First(); ok && created.ID != 0 {
		return created.ToZone(), nil
	}

	return z.GetByName(ctx, opts.Name)
}

// GetOrCreate returns the zone with the provided name, creating it if it
// does not exist yet.
func (z *zonesOps) GetOrCreate(ctx context.Context, opts zone.CreateOptions) (*zone.Zone, error) {
	existing, err := z.GetByName(ctx, opts.Name)
	if err == nil {
		return existing, nil
	}

	if !errors.Is(err, serrors.ErrorNotFound) {
		return nil, err
	}

	z.log.Info().Str("name", opts.Name).Msg("zone does not exist, creating it")
	return z.Create(ctx, opts)
}

func (z *zonesOps) GetCIDRs(ctx context.Context, zoneID int, cidrType cidr.Type) ([]netip.Prefix, error) {
	return z.cidrs().get(ctx, zoneID, cidrType)
}

// SetCIDRs replaces the CIDRs of the provided type, or adds to them if
// opts.Append is true.
func (z *zonesOps) SetCIDRs(ctx context.Context, zoneID int, cidrType cidr.Type, cidrs []string, opts cidr.SetOptions) error {
	return z.cidrs().set(ctx, zoneID, cidrType, cidrs, opts)
}

func (z *zonesOps) DeleteCIDRs(ctx context.Context, zoneID int, cidrType cidr.Type, cidrs []string, chunkSize int) error {
	return z.cidrs().delete(ctx, zoneID, cidrType, cidrs, chunkSize)
}

// Query returns a query on the devices of the zone.
func (z *zonesOps) Query(zoneID int) *Query {
	q := newQuery(z.root, defaultQueryAPI, z.pageSize)
	if err := validateID("zone ID", zoneID); err != nil {
		q.err = err
		return q
	}

	return q.Filter("zone.id", zoneID)
}

// GetDeviceDetailsByIP returns the devices of the zone with the provided
// address, including all the details the server is able to provide.
func (z *zonesOps) GetDeviceDetailsByIP(ctx context.Context, zoneID int, ip string) (*response.Envelope[zonedata.Device], error) {
	if err := validateID("zone ID", zoneID); err != nil {
		return nil, err
	}

	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return nil, serrors.NewValidationError("IP", ip, serrors.ErrorInvalidIP)
	}

	details := append([]string{}, deviceDetails...)
	if z.supportsProfileDetails(ctx) {
		details = append(details, profileDetails...)
	}

	opts := []r.WithRequestOption{
		r.WithPath(pathDevices),
		r.WithQueryParameter("filter.zone.id", strconv.Itoa(zoneID)),
		r.WithQueryParameter("filter.address.ip", addr.String()),
	}
	for _, detail := range details {
		opts = append(opts, r.WithQueryParameter("detail."+detail, "true"))
	}

	resp, err := z.root.CloneWithNewBasePath(pathZoneDataBaseURL).Get(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return r.DecodeEnvelope[zonedata.Device](resp)
}

func (z *zonesOps) supportsProfileDetails(ctx context.Context) bool {
	serverVersion, err := newSystemOpsFromRequester(z.root).Version(ctx)
	if err != nil {
		z.log.Debug().Err(err).Msg("could not get server version, not asking for profile details")
		return false
	}

	v, err := version.NewVersion(serverVersion)
	if err != nil {
		z.log.Debug().Err(err).Str("version", serverVersion).
			Msg("could not parse server version, not asking for profile details")
		return false
	}

	return v.GreaterThanOrEqual(profileDetailsMinVersion)
}
