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

// Package server wires the proxy's HTTP surface: /proxy/{site}/... for page
// loads and /proxy-data/{site}/... for forwarded sub-resource requests.
package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/open-prophetdb/siteproxy/internal/fetch"
	"github.com/open-prophetdb/siteproxy/internal/gateway"
	"github.com/open-prophetdb/siteproxy/internal/httperr"
	"github.com/open-prophetdb/siteproxy/internal/site"
)

// Server is the proxy's HTTP handler. All state it touches across requests
// is read-only (the registry) or internally synchronized (the store), so
// each request runs independently on its own goroutine.
type Server struct {
	registry  *site.Registry
	fetcher   *fetch.Fetcher
	forwarder *gateway.Forwarder
	store     *Store
	writer    EntryWriter
	router    *mux.Router
}

// New creates the proxy server. writer may be nil.
func New(registry *site.Registry, fetcher *fetch.Fetcher, forwarder *gateway.Forwarder, writer EntryWriter) *Server {
	s := &Server{
		registry:  registry,
		fetcher:   fetcher,
		forwarder: forwarder,
		store:     NewStore(1000),
		writer:    writer,
	}

	r := mux.NewRouter()
	r.HandleFunc("/proxy/{site}", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/proxy/{site}/{path:.*}", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/proxy-data/{site}", s.handleData)
	r.HandleFunc("/proxy-data/{site}/{path:.*}", s.handleData)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	s.router = r

	return s
}

// Store returns the traffic store for use by the dashboard.
func (s *Server) Store() *Store {
	return s.store
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// handlePage serves the first document of a page view: fetch the origin
// page, rewrite its URLs so follow-up requests come back through the proxy,
// and return the result.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entry := newEntry(KindPage, r, vars["site"])

	upstream, err := upstreamFromRequest(r)
	if err != nil {
		s.fail(w, entry, err)
		return
	}

	res, err := s.fetcher.FetchAndRender(r.Context(), vars["site"], subPath(vars), r.URL.RawQuery, upstream)
	if err != nil {
		s.fail(w, entry, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(res.Status)
	w.Write(res.Body)
	s.finish(entry, res.Status)
}

// handleData forwards a secondary request (image, XHR, stylesheet) to the
// correct origin and streams the response back.
func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	entry := newEntry(KindData, r, vars["site"])

	resp, err := s.forwarder.Forward(r.Context(), gateway.Request{
		Method:  r.Method,
		SiteKey: vars["site"],
		Path:    subPath(vars),
		Query:   r.URL.Query(),
		Header:  r.Header,
		Body:    r.Body,
	})
	if err != nil {
		s.fail(w, entry, err)
		return
	}
	defer resp.Body.Close()

	gateway.CopyResponseHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		// Client went away mid-stream; the request context has already
		// cancelled the origin fetch.
		slog.Debug("response stream interrupted", "id", entry.RequestID, "error", err)
	}
	s.finish(entry, resp.StatusCode)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func newEntry(kind EntryKind, r *http.Request, siteKey string) *Entry {
	return &Entry{
		RequestID: uuid.NewString(),
		Timestamp: time.Now(),
		Kind:      kind,
		Method:    r.Method,
		Site:      siteKey,
		URL:       r.URL.RequestURI(),
	}
}

func (s *Server) fail(w http.ResponseWriter, entry *Entry, err error) {
	status := http.StatusInternalServerError
	var pe *httperr.Error
	if errors.As(err, &pe) {
		status = pe.Status()
	}
	slog.Error("request failed",
		"id", entry.RequestID, "site", entry.Site, "url", entry.URL, "status", status, "error", err)

	httperr.Write(w, err)
	entry.Error = err.Error()
	s.finish(entry, status)
}

func (s *Server) finish(entry *Entry, status int) {
	entry.StatusCode = status
	entry.DurationMS = time.Since(entry.Timestamp).Milliseconds()
	s.store.Add(entry)
	if s.writer != nil {
		s.writer.WriteEntry(entry)
	}
}

func subPath(vars map[string]string) string {
	p := vars["path"]
	if p == "" {
		return ""
	}
	return "/" + p
}
