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

package response

type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// Envelope is the wrapper Spectre puts around every result set, e.g.
//
//	{
//	  "@class" : "apiresponse",
//	  "status" : "SUCCESS",
//	  "method" : "ZoneData.getDevices",
//	  "total" : 48,
//	  "results" : [ ... ]
//	}
type Envelope[T any] struct {
	Class  string `json:"@class,omitempty" yaml:"class,omitempty"`
	Status Status `json:"status" yaml:"status"`
	// Method is the server side operation that produced the results.
	Method string `json:"method" yaml:"method"`
	// Total is only present on list endpoints, and it counts all results
	// across all pages.
	Total   *int `json:"total,omitempty" yaml:"total,omitempty"`
	Results []T  `json:"results" yaml:"results"`
}

// Consistent reports whether the advertised total matches the number of
// results actually contained in this envelope. Envelopes without a total
// are always consistent.
func (e *Envelope[T]) Consistent() bool {
	if e.Total == nil {
		return true
	}

	return *e.Total == len(e.Results)
}

// First returns the first result, which is the only one for singleton
// endpoints such as system/information.
func (e *Envelope[T]) First() (T, bool) {
	var zero T
	if len(e.Results) == 0 {
		return zero, false
	}

	return e.Results[0], true
}
