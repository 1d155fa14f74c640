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

package zone

import (
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zone"
)

const (
	zoneClass           string = "zone"
	defaultOrganization int    = 1
)

type InternalZone struct {
	Class        string             `json:"@class,omitempty"`
	ID           int                `json:"id,omitempty"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Organization *zone.Organization `json:"organization,omitempty"`
}

func (z *InternalZone) ToZone() *zone.Zone {
	return &zone.Zone{
		ID:           z.ID,
		Name:         z.Name,
		Description:  z.Description,
		Organization: z.Organization,
	}
}

// NewCreateRequestBody returns the body expected by POST zone, which is a
// list of zones even when creating just one.
func NewCreateRequestBody(opts zone.CreateOptions) []*InternalZone {
	org := opts.Organization
	if org == nil {
		org = &zone.Organization{ID: defaultOrganization}
	}

	return []*InternalZone{
		{
			Class:        zoneClass,
			Name:         opts.Name,
			Description:  opts.Description,
			Organization: org,
		},
	}
}
