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

package cidr

import (
	"fmt"
	"net/netip"
	"strings"

	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
)

type Type string

const (
	// Known CIDRs are known about, but not owned or controlled.
	Known Type = "known"
	// Trusted CIDRs may be scanned when discovered. The GUI calls them
	// "eligible".
	Trusted  Type = "trusted"
	Eligible Type = Trusted
	// Internal CIDRs are owned or controlled and part of the network.
	Internal Type = "internal"
	// Avoid CIDRs are never actively scanned.
	Avoid Type = "avoid"
	// Target CIDRs are the collector's scan targets.
	Target Type = "target"
	// Stop CIDRs end a path trace when a hop falls into them.
	Stop Type = "stop"
)

const DefaultChunkSize int = 5000

var (
	ZoneTypes      = []Type{Known, Trusted, Internal, Avoid}
	CollectorTypes = []Type{Target, Avoid, Stop}
)

type SetOptions struct {
	// Append adds to the existing list instead of replacing it.
	Append bool
	// ChunkSize is the maximum number of CIDRs sent per request. Defaults
	// to DefaultChunkSize.
	ChunkSize int
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t == "eligible" {
		return Trusted, nil
	}

	for _, valid := range append(ZoneTypes, CollectorTypes...) {
		if t == valid {
			return t, nil
		}
	}

	return "", serrors.NewValidationError("CIDR type", s, serrors.ErrorInvalidCIDRType)
}

func ValidFor(t Type, allowed []Type) bool {
	for _, a := range allowed {
		if t == a {
			return true
		}
	}

	return false
}

// Parse parses a CIDR. A bare address is taken as a single host network,
// i.e. /32 or /128. Host bits must not be set.
func Parse(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)

	if !strings.Contains(s, "/") {
		addr, err := netip.ParseAddr(s)
		if err != nil {
			return netip.Prefix{}, serrors.NewValidationError("CIDR", s, serrors.ErrorInvalidCIDR)
		}

		return netip.PrefixFrom(addr, addr.BitLen()), nil
	}

	prefix, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, serrors.NewValidationError("CIDR", s, serrors.ErrorInvalidCIDR)
	}

	if prefix.Masked() != prefix {
		return netip.Prefix{}, serrors.NewValidationError("CIDR", s,
			fmt.Errorf("%w: host bits set", serrors.ErrorInvalidCIDR))
	}

	return prefix, nil
}

func ParseAll(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		p, err := Parse(v)
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, p)
	}

	return prefixes, nil
}

// Chunk splits prefixes in consecutive groups of at most size elements.
func Chunk(prefixes []netip.Prefix, size int) [][]netip.Prefix {
	if size <= 0 {
		size = DefaultChunkSize
	}

	chunks := [][]netip.Prefix{}
	for start := 0; start < len(prefixes); start += size {
		end := start + size
		if end > len(prefixes) {
			end = len(prefixes)
		}
		chunks = append(chunks, prefixes[start:end])
	}

	return chunks
}
