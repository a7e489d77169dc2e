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

package rewrite

import (
	"regexp"
	"strings"

	"github.com/open-prophetdb/siteproxy/internal/resolve"
)

// backgroundImageRe captures a background-image declaration in three parts:
// everything up to and including the opening quote, the URL itself, and the
// closing quote plus trailing text. Quoting and spacing are preserved.
var backgroundImageRe = regexp.MustCompile(`^(\s*background-image\s*:\s*url\(\s*['"]?)([^'")]+)(['"]?\s*\).*)$`)

// rewriteStyleAttr rewrites only the background-image:url(...) declaration
// of an inline style attribute. Declarations are split on ';' and rejoined
// as-is, so unrelated declarations and their order pass through unchanged.
func rewriteStyleAttr(style string, policy resolve.Policy, in resolve.Input) (string, error) {
	decls := strings.Split(style, ";")
	changed := false

	for i, decl := range decls {
		m := backgroundImageRe.FindStringSubmatch(decl)
		if m == nil {
			continue
		}
		resolved, err := policy.Resolve(m[2], in)
		if err != nil {
			return "", err
		}
		if resolved != m[2] {
			decls[i] = m[1] + resolved + m[3]
			changed = true
		}
	}

	if !changed {
		return style, nil
	}
	return strings.Join(decls, ";"), nil
}
