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
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/open-prophetdb/siteproxy/internal/fetch"
	"github.com/open-prophetdb/siteproxy/internal/gateway"
	"github.com/open-prophetdb/siteproxy/internal/server"
	"github.com/open-prophetdb/siteproxy/internal/site"
)

var (
	servePort      int
	dashboardPort  int
	noDashboard    bool
	sitesFile      string
	requestTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the rewriting reverse proxy",
	Long:  "Starts the proxy server. Page loads go through GET /proxy/{site}/..., forwarded sub-resource requests through /proxy-data/{site}/.... The site table is built in unless --sites points at a YAML file.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 3000, "Proxy listen port")
	serveCmd.Flags().IntVar(&dashboardPort, "dashboard", 3001, "Dashboard listen port")
	serveCmd.Flags().BoolVar(&noDashboard, "no-dashboard", false, "Disable the admin dashboard")
	serveCmd.Flags().StringVar(&sitesFile, "sites", "", "Path to a YAML site table (default: builtin table)")
	serveCmd.Flags().DurationVar(&requestTimeout, "timeout", 30*time.Second, "Origin request timeout")
	rootCmd.AddCommand(serveCmd)
}

func loadRegistry() (*site.Registry, error) {
	if sitesFile != "" {
		return site.LoadConfig(sitesFile)
	}
	return site.Builtin()
}

func runServe(cmd *cobra.Command, args []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: requestTimeout}
	srv := server.New(
		registry,
		fetch.NewFetcher(registry, client),
		gateway.NewForwarder(registry, client),
		entryWriter(),
	)

	cyan := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)

	cyan.Println("Site Proxy")
	dim.Println("───────────────────────────────────────")
	fmt.Printf("  Proxy:     http://localhost:%d\n", servePort)
	if !noDashboard {
		fmt.Printf("  Dashboard: http://localhost:%d\n", dashboardPort)
	}
	fmt.Printf("  Sites:     %v\n", registry.Keys())
	dim.Println("───────────────────────────────────────")
	fmt.Println()

	var g errgroup.Group
	g.Go(func() error {
		return http.ListenAndServe(fmt.Sprintf(":%d", servePort), srv)
	})
	if !noDashboard {
		dashboard := server.NewDashboard(srv.Store(), registry, dashboardPort)
		g.Go(dashboard.ListenAndServe)
	}
	return g.Wait()
}

func entryWriter() server.EntryWriter {
	if jsonOutput {
		return server.NewJSONWriter()
	}
	return server.TerminalWriter{}
}
