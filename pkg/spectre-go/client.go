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
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spectre-tools/spectre-go/pkg/metrics"
	r "github.com/spectre-tools/spectre-go/pkg/spectre-go/internal/requester"
	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
)

const (
	DefaultTimeout  time.Duration = 5 * time.Second
	DefaultPageSize int           = 500

	defaultAPIPath string = "/api/rest"
)

// Client talks to the REST API of a Spectre Command Center, authenticating
// every request with an API key. API keys are generated out of band, on
// the appliance CLI, with "user key new <username>".
type Client struct {
	requester *r.Requester
	pageSize  int
	log       zerolog.Logger
}

type ClientOptions struct {
	SkipInsecure bool
	Timeout      time.Duration
	PageSize     int
	HTTPClient   *http.Client
	Log          zerolog.Logger
	Registerer   prometheus.Registerer
}

type ClientOption func(*ClientOptions)

// WithInsecureSkipVerify disables the verification of the server
// certificate. Only use it with appliances running self signed
// certificates.
func WithInsecureSkipVerify() ClientOption {
	return func(opts *ClientOptions) {
		opts.SkipInsecure = true
	}
}

// WithTimeout sets the maximum duration of every single request.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(opts *ClientOptions) {
		opts.Timeout = timeout
	}
}

// WithPageSize sets how many results are requested per page when listing.
func WithPageSize(size int) ClientOption {
	return func(opts *ClientOptions) {
		opts.PageSize = size
	}
}

// WithHTTPClient makes the client send requests through c. A timeout is
// still enforced if c does not define one.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = c
	}
}

func WithLogger(log zerolog.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Log = log
	}
}

// WithMetrics counts and times all requests on the provided registerer.
func WithMetrics(reg prometheus.Registerer) ClientOption {
	return func(opts *ClientOptions) {
		opts.Registerer = reg
	}
}

// NewClient returns a client for the Spectre server at host, which can
// either be just a host name, i.e. "i3" or "10.0.0.1:8443", or a full URL.
// When no path is provided, the default /api/rest is used.
//
// No request is sent here: the API key is only validated by the server on
// the first call.
func NewClient(host, apiKey string, opts ...ClientOption) (*Client, error) {
	// ------------------------------------
	// Inits and setups
	// ------------------------------------

	options := &ClientOptions{
		Timeout:  DefaultTimeout,
		PageSize: DefaultPageSize,
		Log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// ------------------------------------
	// Some validations
	// ------------------------------------

	if apiKey == "" {
		return nil, serrors.NewValidationError("API key", "", serrors.ErrorNoAPIKeyProvided)
	}

	if options.PageSize <= 0 {
		return nil, serrors.NewValidationError("page size",
			strconv.Itoa(options.PageSize), serrors.ErrorInvalidPageSize)
	}

	if options.Timeout <= 0 {
		return nil, serrors.NewValidationError("timeout",
			options.Timeout.String(), serrors.ErrorInvalidTimeout)
	}

	baseURL, err := parseBaseURL(host)
	if err != nil {
		return nil, err
	}

	// ------------------------------------
	// Create the client
	// ------------------------------------

	var clientMetrics *metrics.ClientMetrics
	if options.Registerer != nil {
		clientMetrics, err = metrics.NewClientMetrics(options.Registerer)
		if err != nil {
			return nil, fmt.Errorf("could not register metrics: %w", err)
		}
	}

	req := r.NewRequester(baseURL, getHTTPClient(options), r.Options{
		APIKey:  apiKey,
		Log:     options.Log,
		Metrics: clientMetrics,
	})

	options.Log.Debug().Str("url", baseURL.String()).
		Bool("insecure", options.SkipInsecure).
		Dur("timeout", options.Timeout).
		Int("page-size", options.PageSize).
		Msg("spectre client created")

	return &Client{
		requester: req,
		pageSize:  options.PageSize,
		log:       options.Log,
	}, nil
}

func parseBaseURL(host string) (*url.URL, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, serrors.NewValidationError("host", host, serrors.ErrorInvalidBaseURL)
	}

	if !strings.Contains(host, "://") {
		host = "https://" + host
	}

	u, err := url.Parse(host)
	if err != nil {
		return nil, serrors.NewValidationError("host", host, fmt.Errorf("%w: %s", serrors.ErrorInvalidBaseURL, err))
	}

	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return nil, serrors.NewValidationError("host", host, serrors.ErrorInvalidBaseURL)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	if u.Path == "" {
		u.Path = defaultAPIPath
	}
	u.RawQuery, u.Fragment = "", ""

	return u, nil
}

func getHTTPClient(options *ClientOptions) *http.Client {
	if options.HTTPClient != nil {
		client := *options.HTTPClient
		if client.Timeout == 0 {
			client.Timeout = options.Timeout
		}
		if options.SkipInsecure && client.Transport == nil {
			client.Transport = getInsecureSkipVerifyConfig()
		}

		return &client
	}

	client := &http.Client{Timeout: options.Timeout}
	if options.SkipInsecure {
		client.Transport = getInsecureSkipVerifyConfig()
	}

	return client
}

func getInsecureSkipVerifyConfig() (customTransport *http.Transport) {
	customTransport = http.DefaultTransport.(*http.Transport).Clone()
	customTransport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	return
}

// System returns the operations about the Spectre system itself.
func (c *Client) System() *systemOps {
	return newSystemOpsFromRequester(c.requester)
}

// ZoneData returns the operations on the data collected for each zone.
func (c *Client) ZoneData() *zoneDataOps {
	return newZoneDataOpsFromRequester(c.requester, c.pageSize)
}

func (c *Client) Zones() *zonesOps {
	return newZonesOpsFromRequester(c.requester, c.pageSize, c.log)
}

func (c *Client) Collectors() *collectorsOps {
	return newCollectorsOpsFromRequester(c.requester, c.pageSize, c.log)
}

// Query returns a builder for a paged GET on api, relative to the API root.
// An empty api defaults to zonedata/devices.
func (c *Client) Query(api string) *Query {
	return newQuery(c.requester, api, c.pageSize)
}

// PageSize returns the number of results requested per page.
func (c *Client) PageSize() int {
	return c.pageSize
}
