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

package errors

import (
	"fmt"
	"net/http"
)

var (
	ErrorParsingBody            error = fmt.Errorf("could not read the response body")
	ErrorUnmarshallingBody      error = fmt.Errorf("could not unmarshal the response body")
	ErrorMarshallingData        error = fmt.Errorf("could not marshal data")
	ErrorNoAPIKeyProvided       error = fmt.Errorf("no API key provided")
	ErrorInvalidBaseURL         error = fmt.Errorf("invalid base URL")
	ErrorInvalidPageSize        error = fmt.Errorf("page size must be positive")
	ErrorInvalidChunkSize       error = fmt.Errorf("chunk size must not be negative")
	ErrorInvalidTimeout         error = fmt.Errorf("timeout must be positive")
	ErrorNoIDProvided           error = fmt.Errorf("no ID provided")
	ErrorInvalidID              error = fmt.Errorf("ID must be a positive integer")
	ErrorNoNameProvided         error = fmt.Errorf("no name provided")
	ErrorNotFound               error = fmt.Errorf("resource not found")
	ErrorInvalidCIDRType        error = fmt.Errorf("invalid CIDR type")
	ErrorInvalidCIDR            error = fmt.Errorf("invalid CIDR")
	ErrorNoCIDRsProvided        error = fmt.Errorf("no CIDRs provided")
	ErrorInvalidIP              error = fmt.Errorf("invalid IP address")
	ErrorInvalidCollectorUUID   error = fmt.Errorf("invalid collector UUID")
	ErrorNoDevicesProvided      error = fmt.Errorf("no devices provided")
	ErrorNoTracesProvided       error = fmt.Errorf("no traces provided")
	ErrorNoPropertyNameProvided error = fmt.Errorf("no property name provided")
)

// NetworkError is returned when the request never produced an HTTP
// response: connection refused, DNS failures, timeouts and cancelled
// contexts.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error while calling %s: %s", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TLSError is returned when the server certificate could not be verified.
type TLSError struct {
	URL string
	Err error
}

func (e *TLSError) Error() string {
	return fmt.Sprintf("tls verification failed for %s: %s", e.URL, e.Err)
}

func (e *TLSError) Unwrap() error {
	return e.Err
}

// AuthError is returned when Spectre rejects the API key.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("authentication failed: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}

	return fmt.Sprintf("authentication failed: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// ProtocolError is returned when the body is not the JSON envelope Spectre
// is expected to send.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unexpected response: %s", e.Reason)
	}

	return fmt.Sprintf("unexpected response: %s: %s", e.Reason, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// ValidationError is returned before any request is made, when a parameter
// provided by the caller is not acceptable.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Err)
	}

	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// APIError is returned when Spectre answered, but with a non successful
// HTTP status or with a FAILURE envelope.
type APIError struct {
	StatusCode int
	Status     string
	Method     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("code: %d, status: %s, method: %s, body: %s", e.StatusCode, e.Status, e.Method, e.Body)
	}

	return fmt.Sprintf("code: %d, body: %s", e.StatusCode, e.Body)
}

func NewValidationError(field, value string, err error) error {
	return &ValidationError{Field: field, Value: value, Err: err}
}
