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
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/open-prophetdb/siteproxy/internal/resolve"
)

// siteConfig is the YAML shape of one site entry. URL policies are code, not
// config: the policy field selects one of the registered implementations by
// name.
type siteConfig struct {
	Key             string   `yaml:"key"`
	BaseURL         string   `yaml:"base_url"`
	Policy          string   `yaml:"policy"`
	CDNHosts        []string `yaml:"cdn_hosts"`
	RewriteTags     []string `yaml:"rewrite_tags"`
	RedirectAllowed []string `yaml:"redirect_allowed"`
	InjectCSS       string   `yaml:"inject_css"`
	InjectJS        string   `yaml:"inject_js"`
	OpenNewTab      bool     `yaml:"open_new_tab"`
}

type configFile struct {
	Sites []siteConfig `yaml:"sites"`
}

// LoadConfig reads a YAML site table and builds a registry from it. The file
// format mirrors the Descriptor shape; selectors are written "tag[attr]".
func LoadConfig(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading site config: %w", err)
	}

	var cfg configFile
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing site config: %w", err)
	}
	if len(cfg.Sites) == 0 {
		return nil, fmt.Errorf("site config %s declares no sites", path)
	}

	descriptors := make([]*Descriptor, 0, len(cfg.Sites))
	for _, sc := range cfg.Sites {
		d, err := sc.descriptor()
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	return NewRegistry(descriptors...)
}

func (sc siteConfig) descriptor() (*Descriptor, error) {
	base, err := url.Parse(sc.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("site %q: invalid base_url: %w", sc.Key, err)
	}

	policy, err := policyByName(sc.Policy, sc.CDNHosts)
	if err != nil {
		return nil, fmt.Errorf("site %q: %w", sc.Key, err)
	}

	rewriteTags, err := parseSelectors(sc.RewriteTags)
	if err != nil {
		return nil, fmt.Errorf("site %q: %w", sc.Key, err)
	}
	redirectAllowed, err := parseSelectors(sc.RedirectAllowed)
	if err != nil {
		return nil, fmt.Errorf("site %q: %w", sc.Key, err)
	}

	return &Descriptor{
		Key:             sc.Key,
		BaseURL:         base,
		Policy:          policy,
		RewriteTags:     rewriteTags,
		RedirectAllowed: redirectAllowed,
		InjectCSS:       sc.InjectCSS,
		InjectJS:        sc.InjectJS,
		OpenNewTab:      sc.OpenNewTab,
	}, nil
}

func policyByName(name string, cdnHosts []string) (resolve.Policy, error) {
	switch name {
	case "", "simple":
		return resolve.Simple{}, nil
	case "sanger_cosmic":
		return resolve.SangerCosmic{}, nil
	case "ensembl":
		return resolve.Ensembl{}, nil
	case "protein_atlas":
		return resolve.ProteinAtlas{CDNHosts: cdnHosts}, nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

// parseSelectors parses "tag[attr]" selector strings. A bare "[attr]" or
// "*[attr]" matches the attribute on any element.
func parseSelectors(raw []string) ([]Selector, error) {
	sels := make([]Selector, 0, len(raw))
	for _, s := range raw {
		open := strings.IndexByte(s, '[')
		if open < 0 || !strings.HasSuffix(s, "]") {
			return nil, fmt.Errorf("invalid selector %q: want tag[attr]", s)
		}
		tag := s[:open]
		if tag == "" {
			tag = "*"
		}
		attr := s[open+1 : len(s)-1]
		if attr == "" {
			return nil, fmt.Errorf("invalid selector %q: empty attribute", s)
		}
		sels = append(sels, Selector{Tag: tag, Attr: attr})
	}
	return sels, nil
}
