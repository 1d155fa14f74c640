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
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spectre-tools/spectre-go/pkg/metrics"
	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
)

const (
	// AcceptHeader is what Spectre wants to answer with JSON.
	AcceptHeader string = "json;pretty"
)

type Requester struct {
	baseURL    url.URL
	rootPath   string
	endpoint   string
	httpClient *http.Client
	apiKey     string
	log        zerolog.Logger
	metrics    *metrics.ClientMetrics
}

type Options struct {
	APIKey  string
	Log     zerolog.Logger
	Metrics *metrics.ClientMetrics
}

// NewRequester returns a requester that sends all requests under baseURL,
// i.e. https://host/api/rest, authenticated with the provided API key.
func NewRequester(baseURL *url.URL, httpClient *http.Client, opts Options) *Requester {
	return &Requester{
		baseURL:    *baseURL,
		rootPath:   baseURL.Path,
		endpoint:   "/",
		httpClient: httpClient,
		apiKey:     opts.APIKey,
		log:        opts.Log,
		metrics:    opts.Metrics,
	}
}

// Do performs the request and returns the response with a fully buffered
// body, so the caller can read it even after the connection is gone.
//
// The returned error is one of the errors defined in the errors package:
// a *TLSError or *NetworkError if no response was received, an *AuthError
// if the API key was rejected and an *APIError for any other non 2xx status.
func (r *Requester) Do(ctx context.Context, opts ...WithRequestOption) (*http.Response, error) {
	// ----------------------------------
	// Prepare options
	// ----------------------------------

	reqOptions := &RequestOptions{
		method:  http.MethodGet,
		body:    http.NoBody,
		headers: http.Header{},
	}

	for _, opt := range opts {
		opt(reqOptions)
	}

	reqOptions.headers.Set("Authorization", "Bearer "+r.apiKey)
	if _, exists := reqOptions.headers["Accept"]; !exists {
		reqOptions.headers.Set("Accept", AcceptHeader)
	}
	if _, exists := reqOptions.headers["Content-Type"]; !exists &&
		reqOptions.body != http.NoBody {
		reqOptions.headers.Set("Content-Type", "application/json")
	}

	// Make the URL
	u := r.baseURL
	u.Path = path.Join(r.baseURL.Path, reqOptions.path)
	if len(reqOptions.queryParams) > 0 {
		u.RawQuery = reqOptions.queryParams.Encode()
	}

	// ----------------------------------
	// Create and make the request
	// ----------------------------------

	req, err := http.NewRequestWithContext(ctx, reqOptions.method, u.String(), reqOptions.body)
	if err != nil {
		return nil, fmt.Errorf("error while creating request: %w", err)
	}
	req.Header = reqOptions.headers

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		err = classifyTransportError(err, u.Redacted())
		r.observe(reqOptions.method, outcomeOf(err), start)
		r.log.Debug().Err(err).Str("method", reqOptions.method).
			Str("url", u.Redacted()).Msg("request failed")
		return nil, err
	}

	// ----------------------------------
	// Parse the response
	// ----------------------------------

	bodyResp, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		err = &serrors.NetworkError{URL: u.Redacted(),
			Err: fmt.Errorf("%w: %s", serrors.ErrorParsingBody, err)}
		r.observe(reqOptions.method, outcomeOf(err), start)
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(bodyResp))

	err = checkResponse(resp, bodyResp)
	r.observe(reqOptions.method, outcomeOf(err, resp.StatusCode), start)
	r.log.Debug().Str("method", reqOptions.method).Str("url", u.Redacted()).
		Int("status", resp.StatusCode).Dur("elapsed", time.Since(start)).
		Msg("request completed")

	return resp, err
}

func checkResponse(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusForbidden:
		return &serrors.AuthError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &serrors.APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	// When the key is not accepted, some versions redirect to the login page
	// instead of answering 401.
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		if isLoginPage(bytes.NewReader(body)) {
			return &serrors.AuthError{
				StatusCode: resp.StatusCode,
				Message:    "server answered with the login page",
			}
		}
	}

	return nil
}

func (r *Requester) observe(method, outcome string, start time.Time) {
	r.metrics.Observe(method, r.endpoint, outcome, time.Since(start))
}

// Get is just a shortcut for Do(ctx, WithGET())
func (r *Requester) Get(ctx context.Context, opts ...WithRequestOption) (*http.Response, error) {
	opts = append(opts, WithGET())
	return r.Do(ctx, opts...)
}

// Post is just a shortcut for Do(ctx, WithPOST())
func (r *Requester) Post(ctx context.Context, opts ...WithRequestOption) (*http.Response, error) {
	opts = append(opts, WithPOST())
	return r.Do(ctx, opts...)
}

// Put is just a shortcut for Do(ctx, WithPUT())
func (r *Requester) Put(ctx context.Context, opts ...WithRequestOption) (*http.Response, error) {
	opts = append(opts, WithPUT())
	return r.Do(ctx, opts...)
}

// Delete is just a shortcut for Do(ctx, WithDELETE())
func (r *Requester) Delete(ctx context.Context, opts ...WithRequestOption) (*http.Response, error) {
	opts = append(opts, WithDELETE())
	return r.Do(ctx, opts...)
}

// CloneWithNewBasePath returns a copy of the requester whose requests are
// sent under newPath, relative to the API root.
func (r *Requester) CloneWithNewBasePath(newPath string) *Requester {
	newRequester := *r
	newRequester.baseURL.Path = path.Join(r.rootPath, newPath)
	newRequester.endpoint = newPath

	return &newRequester
}

func outcomeOf(err error, statusCode ...int) string {
	switch err.(type) {
	case *serrors.TLSError:
		return "tls_error"
	case *serrors.NetworkError:
		return "network_error"
	case *serrors.AuthError:
		return "auth_error"
	}

	if len(statusCode) > 0 {
		return strconv.Itoa(statusCode[0])
	}

	return "error"
}
