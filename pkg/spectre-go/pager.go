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
	"fmt"
	"io"
	"net/url"
	"strconv"

	r "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/requester"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/response"
)

const (
	queryPageSize string = "query.pagesize"
	queryPage     string = "query.page"
)

// Pager goes through the results of a list endpoint, one item at a time,
// fetching pages from the server as they are needed.
//
// The number of items is the total advertised by the first page, or the
// length of the first page when the server does not advertise any. If the
// result set shrinks while it is being read, the pager stops at the first
// page that comes back short.
//
// A Pager is not safe for concurrent use.
type Pager[T any] struct {
	requester *r.Requester
	path      string
	params    url.Values
	pageSize  int

	current *response.Envelope[T]
	page    int
	line    int
	served  int
	total   int
	done    bool
}

// newPager creates the pager and fetches the first page right away, so that
// errors such as an invalid key are returned immediately.
func newPager[T any](ctx context.Context, req *r.Requester, p string, params url.Values, pageSize int) (*Pager[T], error) {
	pager := &Pager[T]{
		requester: req,
		path:      p,
		params:    url.Values{},
		pageSize:  pageSize,
	}
	for key, values := range params {
		pager.params[key] = append([]string{}, values...)
	}

	if err := pager.Rewind(ctx); err != nil {
		return nil, err
	}

	return pager, nil
}

func (p *Pager[T]) fetch(ctx context.Context, page int) (*response.Envelope[T], error) {
	params := url.Values{}
	for key, values := range p.params {
		params[key] = values
	}
	params.Set(queryPageSize, strconv.Itoa(p.pageSize))
	params.Set(queryPage, strconv.Itoa(page))

	resp, err := p.requester.Get(ctx, r.WithPath(p.path), r.WithQueryParameters(params))
	if err != nil {
		return nil, fmt.Errorf("cannot get page %d: %w", page, err)
	}

	return r.DecodeEnvelope[T](resp)
}

// Rewind fetches the first page again and restarts from the first item.
func (p *Pager[T]) Rewind(ctx context.Context) error {
	first, err := p.fetch(ctx, 0)
	if err != nil {
		return err
	}

	p.current, p.page, p.line, p.served = first, 0, 0, 0
	p.done = false
	p.total = len(first.Results)
	if first.Total != nil {
		p.total = *first.Total
	}

	return nil
}

// Next returns the next item, or io.EOF when there are no more. After
// io.EOF, Next keeps returning io.EOF until Rewind is called.
func (p *Pager[T]) Next(ctx context.Context) (T, error) {
	var zero T

	if p.done || p.served >= p.total {
		return zero, io.EOF
	}

	if p.line >= p.pageSize {
		next, err := p.fetch(ctx, p.page+1)
		if err != nil {
			return zero, err
		}

		p.current, p.line = next, 0
		p.page++
	}

	if p.line >= len(p.current.Results) {
		// The result set shrank under us.
		p.done = true
		return zero, io.EOF
	}

	item := p.current.Results[p.line]
	p.line++
	p.served++

	return item, nil
}

// All rewinds the pager and returns every item.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	if p.served > 0 {
		if err := p.Rewind(ctx); err != nil {
			return nil, err
		}
	}

	items := []T{}
	for {
		item, err := p.Next(ctx)
		if err == io.EOF {
			return items, nil
		}
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}
}

// Total returns the number of items the server advertised.
func (p *Pager[T]) Total() int {
	return p.total
}

// Page returns the page the pager is currently reading from.
func (p *Pager[T]) Page() *response.Envelope[T] {
	return p.current
}
