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

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/open-prophetdb/siteproxy/internal/httperr"
	"github.com/open-prophetdb/siteproxy/internal/resolve"
	"github.com/open-prophetdb/siteproxy/internal/site"
)

const upstream = "https://drugs.3steps.cn"

func testRegistry(t *testing.T, origin string) *site.Registry {
	t.Helper()
	base, err := url.Parse(origin)
	if err != nil {
		t.Fatal(err)
	}
	r, err := site.NewRegistry(&site.Descriptor{
		Key:     "testsite",
		BaseURL: base,
		Policy:  resolve.Simple{},
		RewriteTags: []site.Selector{
			{Tag: "a", Attr: "href"},
		},
		RedirectAllowed: []site.Selector{
			{Tag: "a", Attr: "href"},
		},
		OpenNewTab: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestFetchAndRenderHTML(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page" {
			t.Errorf("origin got path %q", r.URL.Path)
		}
		if r.URL.RawQuery != "gene_symbol=TP53" {
			t.Errorf("origin got query %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><a href="/about">About</a></body></html>`))
	}))
	defer origin.Close()

	f := NewFetcher(testRegistry(t, origin.URL), nil)
	res, err := f.FetchAndRender(context.Background(), "testsite", "/page", "gene_symbol=TP53", upstream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Status != 200 {
		t.Errorf("status = %d", res.Status)
	}
	if !strings.HasPrefix(res.ContentType, "text/html") {
		t.Errorf("content type = %q", res.ContentType)
	}
	want := `<a href="https://drugs.3steps.cn/proxy-data/testsite/about" target="_blank">About</a>`
	if !strings.Contains(string(res.Body), want) {
		t.Errorf("body not rewritten:\n%s", res.Body)
	}
}

func TestFetchAndRenderJSONPassthrough(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"hits": [1, 2, 3]}`))
	}))
	defer origin.Close()

	f := NewFetcher(testRegistry(t, origin.URL), nil)
	res, err := f.FetchAndRender(context.Background(), "testsite", "/api/data", "", upstream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.ContentType != "application/json" {
		t.Errorf("content type = %q", res.ContentType)
	}
	if got := string(res.Body); got != `{"hits":[1,2,3]}` {
		t.Errorf("body = %q", got)
	}
}

func TestFetchAndRenderUnsupportedContentType(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte{0x89, 0x50})
	}))
	defer origin.Close()

	f := NewFetcher(testRegistry(t, origin.URL), nil)
	_, err := f.FetchAndRender(context.Background(), "testsite", "/logo.png", "", upstream)

	var pe *httperr.Error
	if !errors.As(err, &pe) || pe.Kind != httperr.KindUnsupportedContentType {
		t.Fatalf("expected UnsupportedContentType, got %v", err)
	}
	if pe.Status() != 415 {
		t.Errorf("status = %d, want 415", pe.Status())
	}
}

func TestFetchAndRenderSiteNotFound(t *testing.T) {
	f := NewFetcher(testRegistry(t, "https://origin.example"), nil)
	_, err := f.FetchAndRender(context.Background(), "unknown", "/x", "", upstream)

	var pe *httperr.Error
	if !errors.As(err, &pe) || pe.Kind != httperr.KindSiteNotFound {
		t.Fatalf("expected SiteNotFound, got %v", err)
	}
}

func TestFetchAndRenderUpstreamUnreachable(t *testing.T) {
	// Point the site at a server that is already closed.
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	registry := testRegistry(t, origin.URL)
	origin.Close()

	f := NewFetcher(registry, nil)
	_, err := f.FetchAndRender(context.Background(), "testsite", "/x", "", upstream)

	var pe *httperr.Error
	if !errors.As(err, &pe) || pe.Kind != httperr.KindUpstreamUnreachable {
		t.Fatalf("expected UpstreamUnreachable, got %v", err)
	}
	if pe.Status() != 502 {
		t.Errorf("status = %d, want 502", pe.Status())
	}
}

func TestFetchAndRenderCancelledContext(t *testing.T) {
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer origin.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(testRegistry(t, origin.URL), nil)
	_, err := f.FetchAndRender(ctx, "testsite", "/slow", "", upstream)
	if err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
