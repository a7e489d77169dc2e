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

// Package fetch loads the first document of a proxied page view: it fetches
// the origin page and dispatches on the response content type.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/open-prophetdb/siteproxy/internal/httperr"
	"github.com/open-prophetdb/siteproxy/internal/rewrite"
	"github.com/open-prophetdb/siteproxy/internal/site"
)

// Fetcher fetches origin pages and renders them for the proxy. HTML is run
// through the rewrite engine, JSON passes through, anything else is
// rejected with 415.
type Fetcher struct {
	registry *site.Registry
	engine   rewrite.Engine
	client   *http.Client
}

// Result is a rendered origin response.
type Result struct {
	Status      int
	ContentType string
	Body        []byte
}

// NewFetcher creates a fetcher backed by the given registry. A nil client
// gets a default with a bounded timeout.
func NewFetcher(registry *site.Registry, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{registry: registry, client: client}
}

// FetchAndRender fetches path+query from the site's origin and renders the
// response. upstream is the proxy's own scheme+authority; rewritten URLs
// point back at it.
func (f *Fetcher) FetchAndRender(ctx context.Context, siteKey, path, rawQuery, upstream string) (*Result, error) {
	d, ok := f.registry.Lookup(siteKey)
	if !ok {
		return nil, httperr.SiteNotFound(siteKey)
	}

	target := *d.BaseURL
	target.Path = joinPath(target.Path, path)
	target.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, httperr.UpstreamUnreachable(err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, httperr.UpstreamUnreachable(err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(contentType, "application/json"):
		return passthroughJSON(resp)
	case strings.HasPrefix(contentType, "text/html"):
		return f.renderHTML(resp, d, upstream)
	default:
		return nil, httperr.UnsupportedContentType(contentType)
	}
}

func passthroughJSON(resp *http.Response) (*Result, error) {
	var decoded any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, httperr.UpstreamUnreachable(fmt.Errorf("decoding origin json: %w", err))
	}
	body, err := json.Marshal(decoded)
	if err != nil {
		return nil, httperr.UpstreamUnreachable(err)
	}
	return &Result{
		Status:      resp.StatusCode,
		ContentType: "application/json",
		Body:        body,
	}, nil
}

func (f *Fetcher) renderHTML(resp *http.Response, d *site.Descriptor, upstream string) (*Result, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httperr.UpstreamUnreachable(err)
	}

	rewritten, err := f.engine.Rewrite(string(raw), d, upstream)
	if err != nil {
		return nil, httperr.RewriteFailure(err)
	}
	return &Result{
		Status:      resp.StatusCode,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte(rewritten),
	}, nil
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
