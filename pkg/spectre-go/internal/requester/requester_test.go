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
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"
	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
	"github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/system"
)

const systemInformationPayload = `{
  "@class" : "apiresponse",
  "status" : "SUCCESS",
  "method" : "SystemManagement.getSystemInformation",
  "results" : [ {
    "@class" : "systeminformation",
    "name" : "i3",
    "uuid" : "420EF9B6-FEE7-B3C7-C454-3965CC461604",
    "version" : "3.3.0.11241",
    "osversion" : "Linux 2.6.32-696.20.1.el6.x86_64",
    "systemType" : "COMMANDER"
  } ]
}`

func newTestRequester(t *testing.T, srv *httptest.Server, client *http.Client) *Requester {
	t.Helper()

	u, err := url.Parse(srv.URL + "/api/rest")
	if err != nil {
		t.Fatalf("cannot parse test server URL: %v", err)
	}

	if client == nil {
		client = srv.Client()
	}

	return NewRequester(u, client, Options{APIKey: "test-key", Log: zerolog.Nop()})
}

func TestDoHeadersAndPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "json;pretty" {
			t.Errorf("Accept = %q", got)
		}
		if r.URL.Path != "/api/rest/zonedata/devices" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("filter.zone.id"); got != "4" {
			t.Errorf("filter.zone.id = %q", got)
		}
		if r.Method == http.MethodGet && r.Header.Get("Content-Type") != "" {
			t.Errorf("GET should not carry a content type, got %q", r.Header.Get("Content-Type"))
		}
		io.WriteString(w, `{"status":"SUCCESS","method":"ZoneData.getDevices","results":[]}`)
	}))
	defer srv.Close()

	req := newTestRequester(t, srv, nil).CloneWithNewBasePath("zonedata")
	resp, err := req.Do(context.Background(),
		WithPath("devices"),
		WithQueryParameter("filter.zone.id", "4"))
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}

	env, err := DecodeEnvelope[map[string]interface{}](resp)
	if err != nil {
		t.Fatalf("DecodeEnvelope failed: %v", err)
	}
	if env.Results == nil || len(env.Results) != 0 {
		t.Errorf("expected empty, non nil results, got %#v", env.Results)
	}
}

func TestDoBodyContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != `[{"name":"Twilight"}]` {
			t.Errorf("body = %s", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := newTestRequester(t, srv, nil).Post(context.Background(),
		WithPath("zone"), WithBodyBytes([]byte(`[{"name":"Twilight"}]`)))
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}
	if err := CheckStatus(resp); err != nil {
		t.Errorf("CheckStatus on empty body = %v", err)
	}
}

func TestDoErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		check       func(t *testing.T, err error)
	}{
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   "invalid token",
			check: func(t *testing.T, err error) {
				var authErr *serrors.AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected AuthError, got %T: %v", err, err)
				}
				if authErr.StatusCode != http.StatusUnauthorized {
					t.Errorf("StatusCode = %d", authErr.StatusCode)
				}
			},
		},
		{
			name:        "login page",
			status:      http.StatusOK,
			contentType: "text/html; charset=utf-8",
			body:        `<html><head><title>Spectre Login</title></head><body><form><input type="password" name="p"></form></body></html>`,
			check: func(t *testing.T, err error) {
				var authErr *serrors.AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("expected AuthError, got %T: %v", err, err)
				}
			},
		},
		{
			name:   "server error",
			status: http.StatusInternalServerError,
			body:   "boom",
			check: func(t *testing.T, err error) {
				var apiErr *serrors.APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected APIError, got %T: %v", err, err)
				}
				if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Body != "boom" {
					t.Errorf("unexpected APIError: %+v", apiErr)
				}
			},
		},
		{
			name:        "ordinary html",
			status:      http.StatusOK,
			contentType: "text/html",
			body:        `<html><head><title>Spectre</title></head><body>hello</body></html>`,
			check: func(t *testing.T, err error) {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestRequester(t, srv, nil).Do(context.Background(), WithPath("system/information"))
			tt.check(t, err)
		})
	}
}

func TestDoTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := &http.Client{Timeout: 50 * time.Millisecond}

	start := time.Now()
	_, err := newTestRequester(t, srv, client).Do(context.Background(), WithPath("system/information"))
	if time.Since(start) > 5*time.Second {
		t.Fatalf("request took %s, the timeout was not honoured", time.Since(start))
	}

	var netErr *serrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T: %v", err, err)
	}
}

func TestDoConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	req := newTestRequester(t, srv, &http.Client{Timeout: time.Second})
	srv.Close()

	_, err := req.Do(context.Background(), WithPath("system/information"))

	var netErr *serrors.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %T: %v", err, err)
	}
}

func TestDoUntrustedCertificate(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, systemInformationPayload)
	}))
	defer srv.Close()

	_, err := newTestRequester(t, srv, &http.Client{Timeout: time.Second}).
		Do(context.Background(), WithPath("system/information"))

	var tlsErr *serrors.TLSError
	if !errors.As(err, &tlsErr) {
		t.Fatalf("expected TLSError, got %T: %v", err, err)
	}
}

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr interface{}
	}{
		{name: "valid", body: systemInformationPayload},
		{name: "not json", body: "<html></html>", wantErr: &serrors.ProtocolError{}},
		{name: "json array", body: `[1, 2]`, wantErr: &serrors.ProtocolError{}},
		{name: "missing results", body: `{"status":"SUCCESS","method":"x"}`, wantErr: &serrors.ProtocolError{}},
		{name: "missing status", body: `{"results":[]}`, wantErr: &serrors.ProtocolError{}},
		{name: "wrong results type", body: `{"status":"SUCCESS","results":{"name":1}}`, wantErr: &serrors.ProtocolError{}},
		{name: "failure", body: `{"status":"FAILURE","method":"SystemManagement.getSystemInformation","results":[]}`, wantErr: &serrors.APIError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			io.WriteString(rec, tt.body)

			env, err := DecodeEnvelope[system.Information](rec.Result())

			switch tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				info, ok := env.First()
				if !ok {
					t.Fatal("expected one result")
				}
				if info.SystemType != system.CommanderType || info.Version != "3.3.0.11241" {
					t.Errorf("unexpected information: %+v", info)
				}
			case *serrors.ProtocolError:
				var protoErr *serrors.ProtocolError
				if !errors.As(err, &protoErr) {
					t.Errorf("expected ProtocolError, got %T: %v", err, err)
				}
			case *serrors.APIError:
				var apiErr *serrors.APIError
				if !errors.As(err, &apiErr) {
					t.Errorf("expected APIError, got %T: %v", err, err)
				}
			}
		})
	}
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		body    string
		wantErr bool
	}{
		{"", false},
		{"not json", false},
		{`{"status":"SUCCESS"}`, false},
		{`{"status":"FAILURE","method":"ZoneManagement.addZone"}`, true},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		io.WriteString(rec, tt.body)

		err := CheckStatus(rec.Result())
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckStatus(%q) = %v, wantErr %v", tt.body, err, tt.wantErr)
		}
	}
}

func TestCloneWithNewBasePath(t *testing.T) {
	u, _ := url.Parse("https://i3/api/rest")
	root := NewRequester(u, http.DefaultClient, Options{APIKey: "k"})

	zones := root.CloneWithNewBasePath("zone")
	collectors := zones.CloneWithNewBasePath("zone/collector")

	if zones.baseURL.Path != "/api/rest/zone" {
		t.Errorf("zones path = %q", zones.baseURL.Path)
	}
	if collectors.baseURL.Path != "/api/rest/zone/collector" {
		t.Errorf("collectors path = %q", collectors.baseURL.Path)
	}
	if root.baseURL.Path != "/api/rest" {
		t.Errorf("root path changed to %q", root.baseURL.Path)
	}
}
