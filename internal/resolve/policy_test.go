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

package resolve

import (
	"errors"
	"net/url"
	"testing"
)

func cosmicInput(redirect bool) Input {
	base, _ := url.Parse("https://cancer.sanger.ac.uk")
	return Input{
		Base:            base,
		SiteKey:         "sanger_cosmic",
		Upstream:        "https://drugs.3steps.cn",
		RedirectEnabled: redirect,
		Tag:             "a",
		Attr:            "href",
	}
}

func TestSimpleResolve(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		redirect bool
		want     string
	}{
		{
			name:     "relative path redirects through proxy",
			raw:      "/about",
			redirect: true,
			want:     "https://drugs.3steps.cn/proxy-data/sanger_cosmic/about",
		},
		{
			name:     "relative path without redirect resolves to origin",
			raw:      "style.css",
			redirect: false,
			want:     "https://cancer.sanger.ac.uk/style.css",
		},
		{
			name:     "absolute same-origin URL redirects",
			raw:      "https://cancer.sanger.ac.uk/cosmic/gene/analysis?ln=TP53",
			redirect: true,
			want:     "https://drugs.3steps.cn/proxy-data/sanger_cosmic/cosmic/gene/analysis?ln=TP53",
		},
		{
			name:     "absolute third-party URL stays on its host",
			raw:      "https://example.com/table-page",
			redirect: true,
			want:     "https://example.com/table-page",
		},
		{
			name:     "protocol-relative URL resolves with base scheme",
			raw:      "//cancer.sanger.ac.uk/shared.js",
			redirect: false,
			want:     "https://cancer.sanger.ac.uk/shared.js",
		},
		{
			name:     "query-only reference",
			raw:      "?page=2",
			redirect: true,
			want:     "https://drugs.3steps.cn/proxy-data/sanger_cosmic?page=2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Simple{}.Resolve(tt.raw, cosmicInput(tt.redirect))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSimpleResolveIdempotent(t *testing.T) {
	in := cosmicInput(true)

	first, err := Simple{}.Resolve("/about", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Simple{}.Resolve(first, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second != first {
		t.Errorf("resolving twice changed the URL: %q -> %q", first, second)
	}
}

func TestSimpleResolveInvalidURL(t *testing.T) {
	_, err := Simple{}.Resolve("https://cancer.sanger.ac.uk/%zz", cosmicInput(true))
	if !errors.Is(err, ErrInvalidURL) {
		t.Errorf("expected ErrInvalidURL, got %v", err)
	}
}

func TestSimpleResolveHostPrefixNotSameOrigin(t *testing.T) {
	base, _ := url.Parse("https://cancer.sanger.ac")
	in := Input{
		Base:            base,
		SiteKey:         "short",
		Upstream:        "https://proxy.example",
		RedirectEnabled: true,
	}

	// cancer.sanger.ac is a string prefix of cancer.sanger.ac.uk but a
	// different host; the URL must not be intercepted.
	got, err := Simple{}.Resolve("https://cancer.sanger.ac.uk/about", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://cancer.sanger.ac.uk/about" {
		t.Errorf("got %q, want URL untouched", got)
	}
}

func TestSimpleResolveRedirectGating(t *testing.T) {
	// Any attribute outside the redirect-allowed set must never produce a
	// URL pointing at the upstream host.
	got, err := Simple{}.Resolve("/about", cosmicInput(false))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://cancer.sanger.ac.uk/about" {
		t.Errorf("got %q, want origin-absolute form", got)
	}
}
