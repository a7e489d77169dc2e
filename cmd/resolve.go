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

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-prophetdb/siteproxy/internal/resolve"
)

var (
	resolveSite     string
	resolveUpstream string
	resolveTag      string
	resolveAttr     string
	resolveRaw      bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [url]",
	Short: "Show how a URL would be rewritten for a site",
	Long:  "Runs one URL through a site's resolution policy without any HTTP in the way. Useful when debugging why a rewritten page points where it does.",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveSite, "site", "", "Site key, e.g. sanger_cosmic (required)")
	resolveCmd.Flags().StringVar(&resolveUpstream, "upstream", "https://localhost:3000", "Proxy scheme+host the rewritten URL should point at")
	resolveCmd.Flags().StringVar(&resolveTag, "tag", "a", "Tag context")
	resolveCmd.Flags().StringVar(&resolveAttr, "attr", "href", "Attribute context")
	resolveCmd.Flags().BoolVar(&resolveRaw, "no-redirect", false, "Resolve to the absolute origin form only")
	_ = resolveCmd.MarkFlagRequired("site")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	d, ok := registry.Lookup(resolveSite)
	if !ok {
		return fmt.Errorf("unknown site %q (try: siteproxy sites)", resolveSite)
	}

	in := resolve.Input{
		Base:            d.BaseURL,
		SiteKey:         d.Key,
		Upstream:        resolveUpstream,
		RedirectEnabled: !resolveRaw && d.RedirectEnabled(resolveTag, resolveAttr),
		Tag:             resolveTag,
		Attr:            resolveAttr,
	}
	resolved, err := d.Policy.Resolve(args[0], in)
	if err != nil {
		return fmt.Errorf("resolving %q: %w", args[0], err)
	}

	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(map[string]string{
			"input":    args[0],
			"resolved": resolved,
		})
	}
	fmt.Println(resolved)
	return nil
}
