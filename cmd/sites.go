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

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-prophetdb/siteproxy/internal/site"
)

var sitesConfigFile string

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List the registered proxy sites",
	RunE:  runSites,
}

func init() {
	sitesCmd.Flags().StringVar(&sitesConfigFile, "sites", "", "Path to a YAML site table (default: builtin table)")
	rootCmd.AddCommand(sitesCmd)
}

func runSites(cmd *cobra.Command, args []string) error {
	var registry *site.Registry
	var err error
	if sitesConfigFile != "" {
		registry, err = site.LoadConfig(sitesConfigFile)
	} else {
		registry, err = site.Builtin()
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		for _, key := range registry.Keys() {
			d, _ := registry.Lookup(key)
			enc.Encode(map[string]any{
				"key":        d.Key,
				"baseUrl":    d.BaseURL.String(),
				"openNewTab": d.OpenNewTab,
			})
		}
		return nil
	}

	keyColor := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	for _, key := range registry.Keys() {
		d, _ := registry.Lookup(key)
		keyColor.Printf("%s\n", d.Key)
		fmt.Printf("  base:     %s\n", d.BaseURL)
		fmt.Printf("  rewrite:  %v\n", d.RewriteTags)
		fmt.Printf("  redirect: %v\n", d.RedirectAllowed)
		if d.InjectCSS != "" {
			dim.Println("  injects css")
		}
		if d.InjectJS != "" {
			dim.Println("  injects js")
		}
		fmt.Println()
	}
	return nil
}
