package model

import (
	"encoding/json"
	"time"
)

// Document kinds recognized by the registry stores.
const (
	DocumentKindProcess    = "process"
	DocumentKindPipeline   = "pipeline"
	DocumentKindAutomation = "automation"
)

// Document is the storage envelope for a parsed declarative document.  The
// Body holds the canonical JSON rendering of the kind-specific model so that
// registry stores stay agnostic of the document type.
type Document struct {
	ID       string          `json:"id"`
	URL      string          `json:"url,omitempty"`
	Kind     string          `json:"kind"`
	Name     string          `json:"name,omitempty"`
	LoadedAt time.Time       `json:"loadedAt,omitempty"`
	Body     json.RawMessage `json:"body,omitempty"`
}

// NewDocument creates a document envelope for the supplied model value.
func NewDocument(id, url, kind, name string, body interface{}) (*Document, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	return &Document{ID: id, URL: url, Kind: kind, Name: name, Body: data}, nil
}

// Decode unmarshals the document body into the supplied target.
func (d *Document) Decode(target interface{}) error {
	return json.Unmarshal(d.Body, target)
}

// Clone creates a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	clone := *d
	if d.Body != nil {
		clone.Body = append(json.RawMessage(nil), d.Body...)
	}
	return &clone
}
