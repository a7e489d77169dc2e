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

// Package rewrite streams an HTML document through the site's URL policy.
// Regions outside the configured tag/attribute selectors are copied from the
// tokenizer's raw bytes, so untouched markup survives byte-identical.
package rewrite

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html"

	"github.com/open-prophetdb/siteproxy/internal/resolve"
	"github.com/open-prophetdb/siteproxy/internal/site"
)

// Engine rewrites HTML documents for one upstream host. It is stateless and
// safe for concurrent use.
type Engine struct{}

// Rewrite runs a single streaming pass over input. URL-bearing attributes
// matched by the descriptor's selectors are rewritten through the site's
// policy; the descriptor's CSS and JS fragments are injected once, before
// </head> and </body> respectively. An attribute whose URL cannot be
// resolved is left untouched and logged, never fatal.
func (Engine) Rewrite(input string, d *site.Descriptor, upstream string) (string, error) {
	z := html.NewTokenizer(strings.NewReader(input))

	var out strings.Builder
	out.Grow(len(input) + len(d.InjectCSS) + len(d.InjectJS))

	cssPending := d.InjectCSS != ""
	jsPending := d.InjectJS != ""

	for {
		tt := z.Next()
		raw := string(z.Raw())

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", fmt.Errorf("tokenizing html: %w", err)
			}
			return out.String(), nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if rewriteToken(&tok, d, upstream) {
				writeTag(&out, tok, tt == html.SelfClosingTagToken)
			} else {
				out.WriteString(raw)
			}

		case html.EndTagToken:
			tok := z.Token()
			if cssPending && tok.Data == "head" {
				writeStyle(&out, d.InjectCSS)
				cssPending = false
			}
			if jsPending && tok.Data == "body" {
				writeScript(&out, d.InjectJS)
				jsPending = false
			}
			out.WriteString(raw)

		default:
			out.WriteString(raw)
		}
	}
}

// rewriteToken applies the site's URL policy to every configured attribute
// of tok. It reports whether anything changed; unchanged tokens are emitted
// from their raw bytes by the caller. A matched tag missing the expected
// attribute is a no-op, not an error.
func rewriteToken(tok *html.Token, d *site.Descriptor, upstream string) bool {
	tag := tok.Data
	changed := false
	hasHref := false

	for i := range tok.Attr {
		a := &tok.Attr[i]
		if tag == "a" && a.Key == "href" {
			hasHref = true
		}
		if !d.Rewrites(tag, a.Key) {
			continue
		}

		in := resolve.Input{
			Base:            d.BaseURL,
			SiteKey:         d.Key,
			Upstream:        upstream,
			RedirectEnabled: d.RedirectEnabled(tag, a.Key),
			Tag:             tag,
			Attr:            a.Key,
		}

		var resolved string
		var err error
		if a.Key == "style" {
			resolved, err = rewriteStyleAttr(a.Val, d.Policy, in)
		} else {
			resolved, err = d.Policy.Resolve(a.Val, in)
		}
		if err != nil {
			slog.Warn("leaving unresolvable url untouched",
				"site", d.Key, "tag", tag, "attr", a.Key, "url", a.Val, "error", err)
			continue
		}
		if resolved != a.Val {
			a.Val = resolved
			changed = true
		}
	}

	if tag == "a" && hasHref && d.OpenNewTab && d.Rewrites(tag, "href") {
		if setAttr(tok, "target", "_blank") {
			changed = true
		}
	}
	return changed
}

func setAttr(tok *html.Token, key, val string) bool {
	for i := range tok.Attr {
		if tok.Attr[i].Key == key {
			if tok.Attr[i].Val == val {
				return false
			}
			tok.Attr[i].Val = val
			return true
		}
	}
	tok.Attr = append(tok.Attr, html.Attribute{Key: key, Val: val})
	return true
}

func writeTag(out *strings.Builder, tok html.Token, selfClosing bool) {
	out.WriteByte('<')
	out.WriteString(tok.Data)
	for _, a := range tok.Attr {
		out.WriteByte(' ')
		out.WriteString(a.Key)
		out.WriteString(`="`)
		out.WriteString(html.EscapeString(a.Val))
		out.WriteByte('"')
	}
	if selfClosing {
		out.WriteByte('/')
	}
	out.WriteByte('>')
}

func writeStyle(out *strings.Builder, css string) {
	out.WriteString("<style>\n")
	out.WriteString(css)
	out.WriteString("\n</style>")
}

func writeScript(out *strings.Builder, js string) {
	out.WriteString("<script>\n")
	out.WriteString(js)
	out.WriteString("\n</script>")
}
