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

// Package httperr defines the proxy's terminal error taxonomy. Each error
// maps to one HTTP status and renders as a JSON {"msg": ...} body.
package httperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies one class of terminal proxy error.
type Kind int

const (
	KindMissingForwardedHeader Kind = iota
	KindInvalidHostHeader
	KindSiteNotFound
	KindUpstreamUnreachable
	KindUnsupportedContentType
	KindRewriteFailure
)

var kindStatus = map[Kind]int{
	KindMissingForwardedHeader: http.StatusBadRequest,
	KindInvalidHostHeader:      http.StatusBadRequest,
	KindSiteNotFound:           http.StatusNotFound,
	KindUpstreamUnreachable:    http.StatusBadGateway,
	KindUnsupportedContentType: http.StatusUnsupportedMediaType,
	KindRewriteFailure:         http.StatusInternalServerError,
}

// Error is a terminal request error carrying the HTTP status to surface.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// MissingForwardedHeader reports an absent mandatory forwarding header.
func MissingForwardedHeader(name string) *Error {
	return &Error{Kind: KindMissingForwardedHeader, Msg: fmt.Sprintf("missing required header %s", name)}
}

// InvalidHostHeader reports a Host header that cannot form an upstream URL.
func InvalidHostHeader(host string) *Error {
	return &Error{Kind: KindInvalidHostHeader, Msg: fmt.Sprintf("invalid Host header %q", host)}
}

// SiteNotFound reports an unregistered site key.
func SiteNotFound(key string) *Error {
	return &Error{Kind: KindSiteNotFound, Msg: fmt.Sprintf("website %q is not registered", key)}
}

// UpstreamUnreachable reports a failed origin fetch.
func UpstreamUnreachable(err error) *Error {
	return &Error{Kind: KindUpstreamUnreachable, Msg: "failed to fetch from origin", Err: err}
}

// UnsupportedContentType reports an origin response the proxy cannot render.
func UnsupportedContentType(contentType string) *Error {
	return &Error{Kind: KindUnsupportedContentType, Msg: fmt.Sprintf("unsupported content type %q", contentType)}
}

// RewriteFailure reports a rewrite pass that could not process the document.
func RewriteFailure(err error) *Error {
	return &Error{Kind: KindRewriteFailure, Msg: "failed to rewrite document", Err: err}
}

// Write renders err as a JSON response. Non-taxonomy errors become a 500.
func Write(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()

	var pe *Error
	if errors.As(err, &pe) {
		status = pe.Status()
		msg = pe.Msg
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"msg": msg})
}
