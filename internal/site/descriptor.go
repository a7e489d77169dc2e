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

// Package site holds the static table of proxied websites. Descriptors are
// built once at startup and never mutated, so concurrent reads need no
// locking.
package site

import (
	"fmt"
	"net/url"

	"github.com/open-prophetdb/siteproxy/internal/resolve"
)

// Selector identifies one URL-bearing attribute to rewrite. Tag "*" matches
// the attribute on any element.
type Selector struct {
	Tag  string
	Attr string
}

func (s Selector) String() string {
	return s.Tag + "[" + s.Attr + "]"
}

// Descriptor describes one proxied origin: where it lives, which attributes
// get rewritten, which of those route back through the proxy, and what gets
// injected into its pages.
type Descriptor struct {
	// Key is the stable identifier used in proxy paths, e.g. "sanger_cosmic".
	Key string
	// BaseURL is the origin the proxy represents.
	BaseURL *url.URL
	// Policy computes rewritten URLs for this site.
	Policy resolve.Policy
	// RewriteTags lists the (tag, attribute) pairs to rewrite.
	RewriteTags []Selector
	// RedirectAllowed is the subset of RewriteTags whose rewritten URLs
	// should route through the forwarding gateway instead of pointing at
	// the real origin.
	RedirectAllowed []Selector
	// InjectCSS and InjectJS are literal fragments appended once to the
	// document's head and body.
	InjectCSS string
	InjectJS  string
	// OpenNewTab adds target="_blank" to rewritten anchors.
	OpenNewTab bool
}

// Rewrites reports whether the given tag/attribute pair is configured for
// rewriting on this site.
func (d *Descriptor) Rewrites(tag, attr string) bool {
	return matches(d.RewriteTags, tag, attr)
}

// RedirectEnabled reports whether rewritten URLs for the pair should route
// through the proxy's forwarding endpoint.
func (d *Descriptor) RedirectEnabled(tag, attr string) bool {
	return matches(d.RedirectAllowed, tag, attr)
}

func matches(sels []Selector, tag, attr string) bool {
	for _, s := range sels {
		if s.Attr != attr {
			continue
		}
		if s.Tag == tag || s.Tag == "*" {
			return true
		}
	}
	return false
}

// Validate checks the descriptor's internal consistency. Every
// redirect-allowed selector must also be a rewrite selector.
func (d *Descriptor) Validate() error {
	if d.Key == "" {
		return fmt.Errorf("site descriptor missing key")
	}
	if d.BaseURL == nil || d.BaseURL.Scheme == "" || d.BaseURL.Host == "" {
		return fmt.Errorf("site %q: base URL must be absolute", d.Key)
	}
	if d.Policy == nil {
		return fmt.Errorf("site %q: missing URL policy", d.Key)
	}
	for _, s := range d.RedirectAllowed {
		if !matches(d.RewriteTags, s.Tag, s.Attr) {
			return fmt.Errorf("site %q: redirect-allowed selector %s is not in rewrite_tags", d.Key, s)
		}
	}
	return nil
}
