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

	r "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/requester"
	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/response"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/system"
)

type systemOps struct {
	*r.Requester
}

func newSystemOpsFromRequester(req *r.Requester) *systemOps {
	const (
		pathSystemBaseURL string = "system"
	)

	return &systemOps{
		Requester: req.CloneWithNewBasePath(pathSystemBaseURL),
	}
}

// GetInformation returns the name, version and type of the system.
func (s *systemOps) GetInformation(ctx context.Context) (*response.Envelope[system.Information], error) {
	resp, err := s.Get(ctx, r.WithPath("information"))
	if err != nil {
		return nil, err
	}

	return r.DecodeEnvelope[system.Information](resp)
}

// Version returns the version reported by the server, e.g. "3.3.0.11241".
func (s *systemOps) Version(ctx context.Context) (string, error) {
	env, err := s.GetInformation(ctx)
	if err != nil {
		return "", err
	}

	info, ok := env.First()
	if !ok {
		return "", &serrors.ProtocolError{Reason: "system information has no results"}
	}

	return info.Version, nil
}
