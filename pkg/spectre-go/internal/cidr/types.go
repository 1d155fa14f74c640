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
	"net/netip"
)

type Address struct {
	Address string `json:"address"`
}

type AddressesBody struct {
	Addresses []Address `json:"addresses"`
}

func NewAddressesBody(prefixes []netip.Prefix) *AddressesBody {
	body := &AddressesBody{Addresses: make([]Address, 0, len(prefixes))}
	for _, prefix := range prefixes {
		body.Addresses = append(body.Addresses, Address{Address: prefix.String()})
	}

	return body
}
