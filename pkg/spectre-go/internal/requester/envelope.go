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

package requester

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/response"
)

var envelopeFields = []string{"status", "results"}

// DecodeEnvelope parses the body of resp into an envelope of T and closes
// it. It returns a *ProtocolError if the body does not look like an envelope
// and an *APIError if the envelope reports a failure.
func DecodeEnvelope[T any](resp *http.Response) (*response.Envelope[T], error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", serrors.ErrorParsingBody, err)
	}

	rawMessage := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &rawMessage); err != nil {
		return nil, &serrors.ProtocolError{Reason: "body is not a JSON object", Err: err}
	}

	for _, field := range envelopeFields {
		if _, exists := rawMessage[field]; !exists {
			return nil, &serrors.ProtocolError{Reason: fmt.Sprintf("envelope has no %q field", field)}
		}
	}

	var env response.Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &serrors.ProtocolError{
			Reason: "unexpected envelope shape",
			Err:    fmt.Errorf("%w: %s", serrors.ErrorUnmarshallingBody, err),
		}
	}

	if env.Results == nil {
		env.Results = []T{}
	}

	if env.Status == response.StatusFailure {
		return nil, &serrors.APIError{
			StatusCode: resp.StatusCode,
			Status:     string(env.Status),
			Method:     env.Method,
			Body:       string(body),
		}
	}

	return &env, nil
}

// CheckStatus closes the body of resp and returns an *APIError if it
// contains an envelope reporting a failure. Empty bodies and bodies that are
// not envelopes are accepted, as not all write endpoints answer with one.
func CheckStatus(resp *http.Response) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s", serrors.ErrorParsingBody, err)
	}

	var env struct {
		Status response.Status `json:"status"`
		Method string          `json:"method"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}

	if env.Status == response.StatusFailure {
		return &serrors.APIError{
			StatusCode: resp.StatusCode,
			Status:     string(env.Status),
			Method:     env.Method,
			Body:       string(body),
		}
	}

	return nil
}
