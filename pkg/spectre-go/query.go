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
	"fmt"
	"net/url"
	"strings"

	r "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/requester"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zonedata"
)

const (
	defaultQueryAPI string = "zonedata/devices"
)

// Query builds a paged GET on any list endpoint, e.g.
//
//	pager, err := client.Query("zonedata/devices").
//		Filter("zone.id", 4).
//		Detail("Attributes").
//		RunDevices(ctx)
type Query struct {
	requester *r.Requester
	api       string
	params    url.Values
	pageSize  int
	err       error
}

func newQuery(req *r.Requester, api string, pageSize int) *Query {
	api = strings.Trim(api, "/")
	if api == "" {
		api = defaultQueryAPI
	}

	return &Query{
		requester: req,
		api:       api,
		params:    url.Values{},
		pageSize:  pageSize,
	}
}

// Filter adds filter.<name>=<value>.
func (q *Query) Filter(name string, value interface{}) *Query {
	q.params.Set("filter."+name, fmt.Sprint(value))
	return q
}

// Detail adds detail.<name>=true, asking the server to include that set of
// details in each result.
func (q *Query) Detail(name string) *Query {
	q.params.Set("detail."+name, "true")
	return q
}

// Param adds any other query parameter.
func (q *Query) Param(key, value string) *Query {
	q.params.Set(key, value)
	return q
}

func (q *Query) API() string {
	return q.api
}

// Params returns a copy of the parameters set so far.
func (q *Query) Params() url.Values {
	params := url.Values{}
	for key, values := range q.params {
		params[key] = append([]string{}, values...)
	}

	return params
}

// Run starts the query, leaving the results undecoded.
func (q *Query) Run(ctx context.Context) (*Pager[json.RawMessage], error) {
	return RunAs[json.RawMessage](ctx, q)
}

func (q *Query) RunDevices(ctx context.Context) (*Pager[zonedata.Device], error) {
	return RunAs[zonedata.Device](ctx, q)
}

// RunAs starts the query, decoding each result into T.
func RunAs[T any](ctx context.Context, q *Query) (*Pager[T], error) {
	if q.err != nil {
		return nil, q.err
	}

	return newPager[T](ctx, q.requester, q.api, q.params, q.pageSize)
}
