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

import "strings"

// SangerCosmic is the policy for the COSMIC cancer mutation browser.
// COSMIC pages use fragment-only anchors for in-page tab navigation;
// resolving those against the base URL would turn a tab switch into a page
// load, so they pass through untouched.
type SangerCosmic struct{}

func (SangerCosmic) Resolve(raw string, in Input) (string, error) {
	if in.Tag == "a" && strings.HasPrefix(raw, "#") {
		return raw, nil
	}
	return resolveSimple(raw, in)
}
