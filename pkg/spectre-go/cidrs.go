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
	"net/netip"
	"path"
	"strconv"
	"strings"

	icidr "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/cidr"
	r "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/requester"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/cidr"
	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
)

// cidrOps holds the CIDR operations that zones and collectors share: both
// expose them under <id>/cidr/<type>, with a different set of types.
type cidrOps struct {
	*r.Requester
	pageSize int
	owner    string
	allowed  []cidr.Type
}

func (c *cidrOps) cidrPath(id int, cidrType cidr.Type) (string, error) {
	if err := validateID(c.owner+" ID", id); err != nil {
		return "", err
	}

	if !cidr.ValidFor(cidrType, c.allowed) {
		return "", serrors.NewValidationError(c.owner+" CIDR type", string(cidrType), serrors.ErrorInvalidCIDRType)
	}

	return path.Join(strconv.Itoa(id), "cidr", string(cidrType)), nil
}

func (c *cidrOps) get(ctx context.Context, id int, cidrType cidr.Type) ([]netip.Prefix, error) {
	p, err := c.cidrPath(id, cidrType)
	if err != nil {
		return nil, err
	}

	pager, err := newPager[string](ctx, c.Requester, p, nil, c.pageSize)
	if err != nil {
		return nil, err
	}

	values, err := pager.All(ctx)
	if err != nil {
		return nil, err
	}

	prefixes := make([]netip.Prefix, 0, len(values))
	for _, value := range values {
		prefix, err := parseListedCIDR(value)
		if err != nil {
			return nil, &serrors.ProtocolError{
				Reason: fmt.Sprintf("server returned an invalid CIDR %q", value),
				Err:    err,
			}
		}
		prefixes = append(prefixes, prefix)
	}

	return prefixes, nil
}

// parseListedCIDR parses a CIDR as the server lists it. Bare addresses are
// single host networks.
func parseListedCIDR(value string) (netip.Prefix, error) {
	value = strings.TrimSpace(value)
	if strings.Contains(value, "/") {
		return netip.ParsePrefix(value)
	}

	addr, err := netip.ParseAddr(value)
	if err != nil {
		return netip.Prefix{}, err
	}

	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

func (c *cidrOps) prepare(id int, cidrType cidr.Type, values []string, chunkSize int) (string, [][]netip.Prefix, error) {
	p, err := c.cidrPath(id, cidrType)
	if err != nil {
		return "", nil, err
	}

	if chunkSize < 0 {
		return "", nil, serrors.NewValidationError("chunk size", strconv.Itoa(chunkSize), serrors.ErrorInvalidChunkSize)
	}

	if len(values) == 0 {
		return "", nil, serrors.NewValidationError("CIDRs", "", serrors.ErrorNoCIDRsProvided)
	}

	prefixes, err := cidr.ParseAll(values)
	if err != nil {
		return "", nil, err
	}

	return p, cidr.Chunk(prefixes, chunkSize), nil
}

// set posts the CIDRs in chunks. Only the first chunk follows opts.Append:
// the following ones must always be appended, or each chunk would replace
// the previous one.
func (c *cidrOps) set(ctx context.Context, id int, cidrType cidr.Type, values []string, opts cidr.SetOptions) error {
	p, chunks, err := c.prepare(id, cidrType, values, opts.ChunkSize)
	if err != nil {
		return err
	}

	for i, chunk := range chunks {
		reqBody, err := json.Marshal(icidr.NewAddressesBody(chunk))
		if err != nil {
			return fmt.Errorf("%w: %s", serrors.ErrorMarshallingData, err)
		}

		appendChunk := opts.Append || i > 0
		resp, err := c.Post(ctx,
			r.WithPath(p),
			r.WithQueryParameter("append", strconv.FormatBool(appendChunk)),
			r.WithBodyBytes(reqBody),
		)
		if err != nil {
			return fmt.Errorf("cannot set chunk %d of %d: %w", i+1, len(chunks), err)
		}

		if err := r.CheckStatus(resp); err != nil {
			return fmt.Errorf("cannot set chunk %d of %d: %w", i+1, len(chunks), err)
		}
	}

	return nil
}

func (c *cidrOps) delete(ctx context.Context, id int, cidrType cidr.Type, values []string, chunkSize int) error {
	p, chunks, err := c.prepare(id, cidrType, values, chunkSize)
	if err != nil {
		return err
	}

	for i, chunk := range chunks {
		reqBody, err := json.Marshal(icidr.NewAddressesBody(chunk))
		if err != nil {
			return fmt.Errorf("%w: %s", serrors.ErrorMarshallingData, err)
		}

		resp, err := c.Delete(ctx, r.WithPath(p), r.WithBodyBytes(reqBody))
		if err != nil {
			return fmt.Errorf("cannot delete chunk %d of %d: %w", i+1, len(chunks), err)
		}

		if err := r.CheckStatus(resp); err != nil {
			return fmt.Errorf("cannot delete chunk %d of %d: %w", i+1, len(chunks), err)
		}
	}

	return nil
}
