// Copyright 2026 OpenProphetDB
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"

	"golang.org/x/net/http/httpguts"

	"github.com/open-prophetdb/siteproxy/internal/httperr"
)

// upstreamFromRequest reconstructs the proxy's own scheme+authority from the
// forwarded headers. The proxy always sits behind a TLS-terminating front,
// so X-Forwarded-Proto and Host are both mandatory; rewritten URLs embed
// this value and must match what the browser sees.
func upstreamFromRequest(r *http.Request) (string, error) {
	proto := r.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		return "", httperr.MissingForwardedHeader("X-Forwarded-Proto")
	}

	host := r.Host
	if host == "" {
		return "", httperr.MissingForwardedHeader("Host")
	}
	if !httpguts.ValidHostHeader(host) {
		return "", httperr.InvalidHostHeader(host)
	}

	return proto + "://" + host, nil
}
