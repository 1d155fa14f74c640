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

package snapshot

import (
	"sort"

	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/zonedata"
)

// Diff returns the IP addresses that appear in curr but not in prev, and
// those that were in prev but are not in curr anymore. Both are sorted and
// hold every IP once.
func Diff(prev, curr []zonedata.Device) (added, removed []string) {
	before := make(map[string]bool, len(prev))
	for _, dev := range prev {
		before[dev.IP] = true
	}

	after := make(map[string]bool, len(curr))
	for _, dev := range curr {
		if !before[dev.IP] && !after[dev.IP] {
			added = append(added, dev.IP)
		}
		after[dev.IP] = true
	}

	for ip := range before {
		if !after[ip] {
			removed = append(removed, ip)
		}
	}

	sort.Strings(added)
	sort.Strings(removed)
	return
}
