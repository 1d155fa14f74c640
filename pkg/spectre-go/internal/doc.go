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

// Package internal contains the types used to marshal and unmarshal data
// exchanged with Spectre. Request bodies and raw results do not always
// match the shape exposed to users of the library: zones carry an "@class"
// discriminator, collectors embed a partial zone and published devices must
// be stamped with a response block.
//
// So, data is first decoded into the types of this package and later
// converted into the public types you can find in the "pkg" folder.
package internal
