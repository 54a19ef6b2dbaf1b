package stream

import (
	"encoding/json"
	"fmt"

	"github.com/knotted/kgx/internal/graph"
)

// The generation service streams newline-delimited JSON records:
//
//	{"result": {"id": ..., "status": "streaming", ...}}   session metadata
//	{"type": "node", "entity": {...}}                     incremental node
//	{"type": "edge", "entity": {...}}                     incremental edge
//	{"status": "complete"}                                success
//	{"result": "graph complete"}                          legacy success
//	{"status": "error", "result": "error"}                failure
//
// Older service versions carried status inside the result object; both
// placements are accepted.

// EventKind discriminates decoded stream records.
type EventKind int

const (
	EventMetadata EventKind = iota
	EventNode
	EventEdge
	EventComplete
	EventError
)

// Metadata is the session preamble sent once near the start of a stream.
type Metadata struct {
	ID              string `json:"id"`
	CreatedAt       int64  `json:"createdAt"`
	Subject         string `json:"subject"`
	Model           string `json:"model"`
	Message         string `json:"message,omitempty"`
	Title           string `json:"title,omitempty"`
	Status          string `json:"status,omitempty"`
	ParentGraphID   string `json:"parentGraphId,omitempty"`
	ParentNodeID    int    `json:"parentNodeId,omitempty"`
	SourceNodeLabel string `json:"sourceNodeLabel,omitempty"`
}

// Event is one decoded stream record.
type Event struct {
	Kind EventKind
	Meta Metadata
	Node graph.Node
	Edge graph.Edge
	Err  string
}

// rawRecord is the superset of all wire record shapes.
type rawRecord struct {
	Type   string          `json:"type"`
	Entity json.RawMessage `json:"entity"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}

// legacyCompleteResult is the bare-string result of the legacy completion
// record.
const legacyCompleteResult = "graph complete"

// DecodeLine decodes one stream line into an Event. A JSON parse failure is
// returned as an error so the caller can log and skip the line; it is never
// fatal to the session.
func DecodeLine(line []byte) (Event, error) {
	var rec rawRecord
	if err := json.Unmarshal(line, &rec); err != nil {
		return Event{}, fmt.Errorf("parsing stream record: %w", err)
	}

	switch rec.Type {
	case "node":
		var n graph.Node
		if err := json.Unmarshal(rec.Entity, &n); err != nil {
			return Event{}, fmt.Errorf("parsing node entity: %w", err)
		}
		return Event{Kind: EventNode, Node: n}, nil
	case "edge":
		var e graph.Edge
		if err := json.Unmarshal(rec.Entity, &e); err != nil {
			return Event{}, fmt.Errorf("parsing edge entity: %w", err)
		}
		return Event{Kind: EventEdge, Edge: e}, nil
	}

	if rec.Status == "complete" {
		return Event{Kind: EventComplete}, nil
	}
	if rec.Status == "error" {
		return Event{Kind: EventError, Err: errorMessage(rec.Result)}, nil
	}

	if len(rec.Result) > 0 {
		// Legacy completion: result is the bare string "graph complete".
		var s string
		if err := json.Unmarshal(rec.Result, &s); err == nil {
			if s == legacyCompleteResult {
				return Event{Kind: EventComplete}, nil
			}
			return Event{Kind: EventError, Err: s}, nil
		}

		var meta Metadata
		if err := json.Unmarshal(rec.Result, &meta); err != nil {
			return Event{}, fmt.Errorf("parsing stream metadata: %w", err)
		}
		if rec.Status != "" {
			meta.Status = rec.Status
		}
		return Event{Kind: EventMetadata, Meta: meta}, nil
	}

	return Event{}, fmt.Errorf("unrecognized stream record")
}

// errorMessage extracts a printable message from an error record's result.
func errorMessage(result json.RawMessage) string {
	var s string
	if err := json.Unmarshal(result, &s); err == nil && s != "" {
		return s
	}
	return "generation failed"
}
