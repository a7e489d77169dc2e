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

// Package gateway replays secondary requests (images, XHR, stylesheets)
// against the correct origin. Rewritten pages point their sub-resource URLs
// at /proxy-data/{site}/...; this is the component that answers them.
package gateway

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/http/httpguts"

	"github.com/open-prophetdb/siteproxy/internal/httperr"
	"github.com/open-prophetdb/siteproxy/internal/resolve"
	"github.com/open-prophetdb/siteproxy/internal/site"
)

// replayableMethods are forwarded as-is; anything else defaults to GET.
var replayableMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodDelete:  true,
	http.MethodPatch:   true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// skipRequestHeaders are never copied to the origin. Host must be the
// origin's own; Accept-Encoding is normalized so the transport negotiates
// gzip and transparently decompresses.
var skipRequestHeaders = map[string]bool{
	"Host":             true,
	"Accept-Encoding":  true,
	"Connection":       true,
	"Proxy-Connection": true,
}

// skipResponseHeaders are invalidated by proxying: the body is re-framed,
// not byte-for-byte relayed.
var skipResponseHeaders = map[string]bool{
	"Content-Encoding":  true,
	"Transfer-Encoding": true,
	"Content-Length":    true,
}

// Forwarder replays requests against a site's origin, or against the
// raw_base_url override when a rewritten URL carried one.
type Forwarder struct {
	registry *site.Registry
	client   *http.Client
}

// Request is one request to replay.
type Request struct {
	Method  string
	SiteKey string
	Path    string
	Query   url.Values
	Header  http.Header
	Body    io.Reader
}

// NewForwarder creates a forwarder backed by the given registry. A nil
// client gets a default with a bounded timeout.
func NewForwarder(registry *site.Registry, client *http.Client) *Forwarder {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Forwarder{registry: registry, client: client}
}

// Forward replays req against its target origin and returns the origin
// response. The caller owns the response body. The raw_base_url parameter
// is a proxy-internal directive: it picks the target origin and is stripped
// before the replay.
func (g *Forwarder) Forward(ctx context.Context, req Request) (*http.Response, error) {
	d, ok := g.registry.Lookup(req.SiteKey)
	if !ok {
		return nil, httperr.SiteNotFound(req.SiteKey)
	}

	origin := d.BaseURL
	query := cloneValues(req.Query)
	if override := query.Get(resolve.RawBaseURLParam); override != "" {
		query.Del(resolve.RawBaseURLParam)
		u, err := url.Parse(override)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, &httperr.Error{
				Kind: httperr.KindInvalidHostHeader,
				Msg:  "invalid raw_base_url parameter",
			}
		}
		origin = u
	}

	target := *origin
	target.Path = joinPath(origin.Path, req.Path)
	target.RawQuery = query.Encode()

	method := req.Method
	if !replayableMethods[method] {
		method = http.MethodGet
	}

	out, err := http.NewRequestWithContext(ctx, method, target.String(), req.Body)
	if err != nil {
		return nil, httperr.UpstreamUnreachable(err)
	}
	copyRequestHeaders(out.Header, req.Header)

	resp, err := g.client.Do(out)
	if err != nil {
		return nil, httperr.UpstreamUnreachable(err)
	}
	return resp, nil
}

// copyRequestHeaders copies client headers to the outbound request. A header
// with an invalid name or value is dropped on its own; it never fails the
// whole forward.
func copyRequestHeaders(dst, src http.Header) {
	for key, values := range src {
		if skipRequestHeaders[http.CanonicalHeaderKey(key)] {
			continue
		}
		if !httpguts.ValidHeaderFieldName(key) {
			continue
		}
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				continue
			}
			dst.Add(key, v)
		}
	}
}

// CopyResponseHeaders copies origin response headers to the client response,
// dropping the ones invalidated by re-framing the body.
func CopyResponseHeaders(dst, src http.Header) {
	for key, values := range src {
		if skipResponseHeaders[http.CanonicalHeaderKey(key)] {
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

func joinPath(base, rest string) string {
	if rest == "" {
		return base
	}
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return strings.TrimSuffix(base, "/") + rest
}
