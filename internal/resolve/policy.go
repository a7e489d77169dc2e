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

// Package resolve decides what a URL found in proxied markup should be
// rewritten to. Each registered site carries one Policy; all policies are
// pure functions of their input and perform no I/O.
package resolve

import (
	"errors"
	"net/url"
	"strings"
)

// Path prefixes under which the proxy serves rewritten documents and
// forwarded sub-resources. Rewritten URLs point back at these.
const (
	PagePrefix = "/proxy"
	DataPrefix = "/proxy-data"
)

// RawBaseURLParam is the query parameter a rewritten URL uses to tell the
// forwarding gateway the true origin when it differs from the site's base
// URL (e.g. an image CDN).
const RawBaseURLParam = "raw_base_url"

// ErrInvalidURL is returned when the raw attribute value cannot be parsed.
// Callers leave the attribute untouched and carry on.
var ErrInvalidURL = errors.New("invalid url")

// Input carries everything a policy may consult. Base and Upstream are set
// by the caller from the site descriptor and the forwarded request headers.
type Input struct {
	// Base is the origin the site descriptor represents.
	Base *url.URL
	// SiteKey is the registry key of the site, used in rewritten paths.
	SiteKey string
	// Upstream is the scheme+authority of the proxy itself, e.g.
	// "https://drugs.3steps.cn", reconstructed from forwarded headers.
	Upstream string
	// RedirectEnabled is true when the current (tag, attribute) pair is in
	// the descriptor's redirect-allowed set, i.e. the rewritten URL should
	// route through the forwarding gateway instead of the real origin.
	RedirectEnabled bool
	// Tag and Attr identify where in the markup the URL was found. Some
	// policies special-case anchors or style attributes.
	Tag  string
	Attr string
}

// Policy computes the rewritten form of one raw URL. Implementations must be
// referentially transparent: same input, same output, no side effects.
type Policy interface {
	Resolve(raw string, in Input) (string, error)
}

// Simple is the default policy: resolve against the base URL per RFC 3986,
// and if redirecting is enabled for this attribute, swap the base prefix for
// the proxy's forwarding endpoint. URLs on third-party hosts are resolved to
// their absolute form and otherwise left alone.
type Simple struct{}

func (Simple) Resolve(raw string, in Input) (string, error) {
	return resolveSimple(raw, in)
}

func resolveSimple(raw string, in Input) (string, error) {
	// Idempotence: a URL that already points at the proxy must not be
	// prefixed a second time.
	if pointsAtUpstream(raw, in.Upstream) {
		return raw, nil
	}

	abs, err := in.Base.Parse(raw)
	if err != nil {
		return "", ErrInvalidURL
	}

	if !in.RedirectEnabled {
		return abs.String(), nil
	}
	return redirectThroughProxy(abs, in), nil
}

// redirectThroughProxy replaces the site's base prefix with
// "{upstream}/proxy-data/{site_key}". Absolute URLs on other hosts are
// returned as-is; the generic algorithm only intercepts the site's own
// origin.
func redirectThroughProxy(abs *url.URL, in Input) string {
	s := abs.String()
	prefix := strings.TrimSuffix(in.Base.String(), "/")
	if !strings.HasPrefix(s, prefix) {
		return s
	}
	rest := strings.TrimPrefix(s, prefix)
	if rest != "" && !strings.HasPrefix(rest, "/") && !strings.HasPrefix(rest, "?") && !strings.HasPrefix(rest, "#") {
		// Prefix matched mid-label (e.g. base host is a prefix of a longer
		// host name); not actually the same origin.
		return s
	}
	return in.Upstream + DataPrefix + "/" + in.SiteKey + rest
}

func pointsAtUpstream(raw, upstream string) bool {
	if upstream == "" {
		return false
	}
	return raw == upstream || strings.HasPrefix(raw, upstream+"/")
}
