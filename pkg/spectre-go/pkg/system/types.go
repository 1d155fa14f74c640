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

package system

type Type string

// NON-EXHAUSTIVE
const (
	CommanderType Type = "COMMANDER"
	ScoutType     Type = "SCOUT"
)

// Information describes the Spectre system answering the API calls. All
// values are opaque strings as reported by the server.
type Information struct {
	Name       string `json:"name" yaml:"name"`
	UUID       string `json:"uuid" yaml:"uuid"`
	Version    string `json:"version" yaml:"version"`
	OSVersion  string `json:"osversion" yaml:"osversion"`
	SystemType Type   `json:"systemType" yaml:"systemType"`
}
