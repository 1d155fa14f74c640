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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
)

const (
	testAPIKey string = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.test"

	systemInformationBody string = `{
  "@class" : "apiresponse",
  "status" : "SUCCESS",
  "method" : "SystemManagement.getSystemInformation",
  "results" : [ {
    "@class" : "systeminformation",
    "name" : "i3",
    "uuid" : "420EF9B6-FEE7-B3C7-C454-3965CC461604",
    "version" : "%s",
    "osversion" : "Linux 2.6.32-696.20.1.el6.x86_64",
    "systemType" : "COMMANDER"
  } ]
}`

	zoneDevicesBody string = `{
  "@class" : "apiresponse",
  "status" : "SUCCESS",
  "method" : "ZoneData.getDevices",
  "total" : 2,
  "results" : [ {
    "@class" : "device",
    "id" : 1110,
    "ip" : "10.2.1.1",
    "mac" : "00:0e:d7:1b:11:01",
    "active" : false,
    "firstObserved" : 1524244323000,
    "lastObserved" : 1524244323000,
    "phaseComplete" : false,
    "created" : 1524431990907
  }, {
    "@class" : "device",
    "id" : 1111,
    "ip" : "10.2.1.2",
    "active" : true,
    "firstObserved" : 1524244323000,
    "lastObserved" : 1524244323000,
    "phaseComplete" : true,
    "created" : 1524431990907
  } ]
}`
)

// recordedRequest is a request as received by the fake server.
type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte
}

// fakeSpectre is a minimal Spectre server. Routes are matched on path,
// and every request is recorded.
type fakeSpectre struct {
	t      *testing.T
	url    string
	mux    *http.ServeMux
	lock   sync.Mutex
	record []recordedRequest
}

func newFakeSpectre(t *testing.T) *fakeSpectre {
	return &fakeSpectre{t: t, mux: http.NewServeMux()}
}

func (f *fakeSpectre) handle(pattern string, handler http.HandlerFunc) {
	f.mux.HandleFunc(pattern, handler)
}

func (f *fakeSpectre) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	f.lock.Lock()
	f.record = append(f.record, recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Body:   body,
	})
	f.lock.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+testAPIKey {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	f.mux.ServeHTTP(w, r)
}

func (f *fakeSpectre) requests() []recordedRequest {
	f.lock.Lock()
	defer f.lock.Unlock()

	return append([]recordedRequest{}, f.record...)
}

// start serves the fake and returns a client pointed at it.
func (f *fakeSpectre) start(opts ...ClientOption) *Client {
	f.t.Helper()

	srv := httptest.NewServer(f)
	f.t.Cleanup(srv.Close)
	f.url = srv.URL

	client, err := NewClient(srv.URL, testAPIKey, opts...)
	if err != nil {
		f.t.Fatalf("cannot create client: %v", err)
	}

	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := io.WriteString(w, body); err != nil {
		t.Errorf("cannot write response: %v", err)
	}
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, method string, total *int, results interface{}) {
	env := map[string]interface{}{
		"@class":  "apiresponse",
		"status":  "SUCCESS",
		"method":  method,
		"results": results,
	}
	if total != nil {
		env["total"] = *total
	}

	data, err := json.Marshal(env)
	if err != nil {
		t.Errorf("cannot marshal envelope: %v", err)
		return
	}

	writeJSON(t, w, string(data))
}

// pagedHandler serves items honouring query.pagesize and query.page. size
// returns how many items exist when the request is received, so that tests
// can make the result set shrink between pages.
func pagedHandler(t *testing.T, method string, withTotal bool, size func() int, item func(i int) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pageSize, err := strconv.Atoi(r.URL.Query().Get("query.pagesize"))
		if err != nil || pageSize <= 0 {
			http.Error(w, fmt.Sprintf("bad page size %q", r.URL.Query().Get("query.pagesize")), http.StatusBadRequest)
			return
		}

		page, err := strconv.Atoi(r.URL.Query().Get("query.page"))
		if err != nil || page < 0 {
			http.Error(w, "bad page", http.StatusBadRequest)
			return
		}

		count := size()
		results := []interface{}{}
		for i := page * pageSize; i < count && i < (page+1)*pageSize; i++ {
			results = append(results, item(i))
		}

		var total *int
		if withTotal {
			total = &count
		}

		writeEnvelope(t, w, method, total, results)
	}
}

func deviceItem(i int) interface{} {
	return map[string]interface{}{
		"@class":        "device",
		"id":            1000 + i,
		"ip":            fmt.Sprintf("10.2.%d.%d", i/250, i%250+1),
		"active":        i%2 == 0,
		"phaseComplete": true,
		"created":       1524431990907,
	}
}

func fixedSize(n int) func() int {
	return func() int { return n }
}
