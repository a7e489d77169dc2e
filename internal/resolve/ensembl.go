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

// Ensembl is the policy for the Ensembl genome browser. Links into the
// stable-gene-ID namespace (absolute paths starting with /ENSG) load whole
// documents that must themselves be rewritten, so they route through the
// page entry point rather than the data-forwarding one.
type Ensembl struct{}

// GenePathPrefix is the absolute-path namespace for stable gene IDs.
const GenePathPrefix = "/ENSG"

func (Ensembl) Resolve(raw string, in Input) (string, error) {
	if strings.HasPrefix(raw, GenePathPrefix) {
		return in.Upstream + PagePrefix + "/" + in.SiteKey + raw, nil
	}
	return resolveSimple(raw, in)
}
