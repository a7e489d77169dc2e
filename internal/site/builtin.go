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

package site

import (
	"net/url"

	"github.com/open-prophetdb/siteproxy/internal/resolve"
)

// cosmicCSS hides the COSMIC site chrome so the embedded page shows only the
// gene analysis panel.
const cosmicCSS = `header, footer, .navbar, #cookie-banner { display: none !important; }
body { padding-top: 0 !important; }`

// cosmicJS suppresses the consent dialog that COSMIC raises on first visit.
const cosmicJS = `document.addEventListener('DOMContentLoaded', function () {
  var dialog = document.querySelector('.cosmic-license-dialog');
  if (dialog) { dialog.remove(); }
});`

const proteinAtlasCSS = `.menu_margin, .footer_container { display: none !important; }`

// Builtin returns the registry of sites the platform embeds. The table is
// static; changing it requires a restart.
func Builtin() (*Registry, error) {
	return NewRegistry(
		&Descriptor{
			Key:     "sanger_cosmic",
			BaseURL: mustParse("https://cancer.sanger.ac.uk"),
			Policy:  resolve.SangerCosmic{},
			RewriteTags: []Selector{
				{Tag: "a", Attr: "href"},
				{Tag: "link", Attr: "href"},
				{Tag: "script", Attr: "src"},
				{Tag: "img", Attr: "src"},
				{Tag: "table", Attr: "title"},
				{Tag: "*", Attr: "data-url"},
			},
			RedirectAllowed: []Selector{
				{Tag: "a", Attr: "href"},
				{Tag: "table", Attr: "title"},
				{Tag: "*", Attr: "data-url"},
			},
			InjectCSS:  cosmicCSS,
			InjectJS:   cosmicJS,
			OpenNewTab: true,
		},
		&Descriptor{
			Key:     "ensembl",
			BaseURL: mustParse("https://www.ensembl.org"),
			Policy:  resolve.Ensembl{},
			RewriteTags: []Selector{
				{Tag: "a", Attr: "href"},
				{Tag: "link", Attr: "href"},
				{Tag: "script", Attr: "src"},
				{Tag: "img", Attr: "src"},
			},
			RedirectAllowed: []Selector{
				{Tag: "a", Attr: "href"},
			},
			OpenNewTab: true,
		},
		&Descriptor{
			Key:     "protein_atlas",
			BaseURL: mustParse("https://www.proteinatlas.org"),
			Policy: resolve.ProteinAtlas{
				CDNHosts: []string{"images.proteinatlas.org"},
			},
			RewriteTags: []Selector{
				{Tag: "a", Attr: "href"},
				{Tag: "link", Attr: "href"},
				{Tag: "script", Attr: "src"},
				{Tag: "img", Attr: "src"},
				{Tag: "*", Attr: "style"},
			},
			RedirectAllowed: []Selector{
				{Tag: "a", Attr: "href"},
				{Tag: "img", Attr: "src"},
				{Tag: "*", Attr: "style"},
			},
			InjectCSS: proteinAtlasCSS,
		},
	)
}

func mustParse(raw string) *url.URL {
	u, err := url.Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}
