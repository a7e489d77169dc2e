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
	"io"
	"os"

	"github.com/fatih/color"
)

// EntryWriter receives each proxied-request entry as it completes.
type EntryWriter interface {
	WriteEntry(entry *Entry)
}

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	dimColor     = color.New(color.Faint)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	kindColor    = color.New(color.FgMagenta, color.Bold)
)

// TerminalWriter writes entries to the terminal with color formatting.
type TerminalWriter struct{}

func (TerminalWriter) WriteEntry(entry *Entry) {
	statusFn := successColor.Sprintf
	if entry.StatusCode >= 400 {
		statusFn = errorColor.Sprintf
	}

	fmt.Printf("%s %s %s %s  %s  %s\n",
		dimColor.Sprint("━━━"),
		dimColor.Sprintf("[%s]", entry.Timestamp.Format("15:04:05")),
		headerColor.Sprintf("%s %s", entry.Method, truncateURL(entry.URL, 80)),
		statusFn("← %d", entry.StatusCode),
		dimColor.Sprintf("(%dms)", entry.DurationMS),
		kindColor.Sprintf("[%s/%s]", entry.Site, entry.Kind),
	)
	if entry.Error != "" {
		errorColor.Printf("    %s\n", entry.Error)
	}
}

// JSONWriter writes entries as NDJSON (one JSON object per line).
type JSONWriter struct {
	enc *json.Encoder
}

// NewJSONWriter creates a writer that emits NDJSON to stdout.
func NewJSONWriter() *JSONWriter {
	return NewJSONWriterTo(os.Stdout)
}

// NewJSONWriterTo creates a writer that emits NDJSON to the given writer.
func NewJSONWriterTo(w io.Writer) *JSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONWriter{enc: enc}
}

func (j *JSONWriter) WriteEntry(entry *Entry) {
	j.enc.Encode(entry)
}

func truncateURL(u string, maxLen int) string {
	if len(u) <= maxLen {
		return u
	}
	return u[:maxLen] + "..."
}
