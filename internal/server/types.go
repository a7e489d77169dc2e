package server

import "time"

// EntryKind distinguishes first-page loads from forwarded sub-resource
// requests.
type EntryKind string

const (
	KindPage EntryKind = "page"
	KindData EntryKind = "data"
)

// Entry summarizes one proxied request for the traffic store and writers.
type Entry struct {
	ID         int64     `json:"id"`
	RequestID  string    `json:"requestId"`
	Timestamp  time.Time `json:"timestamp"`
	Kind       EntryKind `json:"kind"`
	Method     string    `json:"method"`
	Site       string    `json:"site"`
	URL        string    `json:"url"`
	StatusCode int       `json:"statusCode"`
	DurationMS int64     `json:"durationMs"`
	Error      string    `json:"error,omitempty"`
}
