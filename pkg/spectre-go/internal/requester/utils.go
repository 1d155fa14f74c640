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
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	serrors "github.com/spectre-tools/spectre-go/pkg/spectre-go/pkg/errors"
)

// classifyTransportError turns an error returned by the http client into a
// *TLSError when the certificate could not be verified, or a *NetworkError
// for everything else.
func classifyTransportError(err error, url string) error {
	var (
		verificationErr *tls.CertificateVerificationError
		unknownAuthErr  x509.UnknownAuthorityError
		hostnameErr     x509.HostnameError
		invalidErr      x509.CertificateInvalidError
	)

	if errors.As(err, &verificationErr) ||
		errors.As(err, &unknownAuthErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr) {
		return &serrors.TLSError{URL: url, Err: err}
	}

	return &serrors.NetworkError{URL: url, Err: err}
}

// isLoginPage looks for the password form of the Spectre web UI.
func isLoginPage(reader io.Reader) bool {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return false
	}

	if doc.Find(`form input[type="password"]`).Length() > 0 {
		return true
	}

	title := strings.ToLower(doc.Find("title").First().Text())
	return strings.Contains(title, "login") || strings.Contains(title, "log in")
}
