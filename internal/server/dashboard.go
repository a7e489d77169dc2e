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

package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/open-prophetdb/siteproxy/internal/site"
)

// Dashboard serves a JSON admin API for inspecting the registry and recent
// traffic. It listens on its own port, separate from the proxy surface.
type Dashboard struct {
	store    *Store
	registry *site.Registry
	port     int
}

// NewDashboard creates a new dashboard server.
func NewDashboard(store *Store, registry *site.Registry, port int) *Dashboard {
	return &Dashboard{store: store, registry: registry, port: port}
}

// ListenAndServe starts the dashboard HTTP server.
func (d *Dashboard) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/entries", d.handleEntries)
	mux.HandleFunc("GET /api/sites", d.handleSites)
	mux.HandleFunc("GET /api/stream", d.handleStream)
	return http.ListenAndServe(fmt.Sprintf(":%d", d.port), mux)
}

func (d *Dashboard) handleEntries(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(d.store.Entries())
}

type siteSummary struct {
	Key             string   `json:"key"`
	BaseURL         string   `json:"baseUrl"`
	RewriteTags     []string `json:"rewriteTags"`
	RedirectAllowed []string `json:"redirectAllowed"`
	OpenNewTab      bool     `json:"openNewTab"`
}

func (d *Dashboard) handleSites(w http.ResponseWriter, r *http.Request) {
	summaries := make([]siteSummary, 0)
	for _, key := range d.registry.Keys() {
		desc, _ := d.registry.Lookup(key)
		summaries = append(summaries, siteSummary{
			Key:             desc.Key,
			BaseURL:         desc.BaseURL.String(),
			RewriteTags:     selectorStrings(desc.RewriteTags),
			RedirectAllowed: selectorStrings(desc.RedirectAllowed),
			OpenNewTab:      desc.OpenNewTab,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

func (d *Dashboard) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher.Flush()

	ch, unsub := d.store.Subscribe()
	defer unsub()

	for {
		select {
		case entry := <-ch:
			data, err := json.Marshal(entry)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func selectorStrings(sels []site.Selector) []string {
	out := make([]string, len(sels))
	for i, s := range sels {
		out[i] = s.String()
	}
	return out
}
