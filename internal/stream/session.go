package stream

import (
	"fmt"

	"github.com/knotted/kgx/internal/graph"
)

// State is the lifecycle state of one streaming session.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateStreaming
	StateComplete
	StateCancelled
	StateError
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateStreaming:
		return "streaming"
	case StateComplete:
		return "complete"
	case StateCancelled:
		return "cancelled"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Session accumulates entities for one in-progress generation. Nodes and
// edges grow append-only in receipt order, so consumers can track progress
// by count alone and materialize only the suffix past their last-seen
// count. A session belongs to a single goroutine; the client applies events
// between chunk reads.
type Session struct {
	state State
	meta  Metadata
	nodes []graph.Node
	edges []graph.Edge
	err   error
}

// Progress is a cheap snapshot of a session's growth.
type Progress struct {
	State     string `json:"state"`
	GraphID   string `json:"graphId,omitempty"`
	NodeCount int    `json:"nodeCount"`
	EdgeCount int    `json:"edgeCount"`
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{state: StateIdle}
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Err returns the terminal error, if the session failed.
func (s *Session) Err() error { return s.err }

// Metadata returns the session preamble received from the service.
func (s *Session) Metadata() Metadata { return s.meta }

// Start marks the session as connecting. Any previously accumulated state
// is discarded.
func (s *Session) Start() {
	s.state = StateConnecting
	s.meta = Metadata{}
	s.nodes = nil
	s.edges = nil
	s.err = nil
}

// Apply merges one decoded event into the session. Entity events append in
// receipt order; metadata carrying a different graph id than the current
// one discards all accumulated entities, since node ids are only unique
// within a single graph and a cross-graph diff would silently corrupt the
// working set.
func (s *Session) Apply(ev Event) {
	switch ev.Kind {
	case EventMetadata:
		if s.meta.ID != "" && ev.Meta.ID != "" && ev.Meta.ID != s.meta.ID {
			s.nodes = nil
			s.edges = nil
		}
		s.meta = ev.Meta
		s.state = StateStreaming
	case EventNode:
		s.nodes = append(s.nodes, ev.Node)
	case EventEdge:
		s.edges = append(s.edges, ev.Edge)
	case EventComplete:
		s.state = StateComplete
	case EventError:
		s.state = StateError
		s.err = fmt.Errorf("%w: %s", ErrServiceError, ev.Err)
	}
}

// Cancel marks the session cancelled. Accumulated entities are kept so the
// caller can show what was discarded before clearing it; they are not
// finalizable.
func (s *Session) Cancel() {
	if s.state == StateConnecting || s.state == StateStreaming {
		s.state = StateCancelled
	}
}

// Fail marks the session failed with a transport-level error.
func (s *Session) Fail(err error) {
	s.state = StateError
	s.err = err
}

// Snapshot returns the current progress counts. Counts are monotonically
// non-decreasing within one session between Start and a terminal state.
func (s *Session) Snapshot() Progress {
	return Progress{
		State:     s.state.String(),
		GraphID:   s.meta.ID,
		NodeCount: len(s.nodes),
		EdgeCount: len(s.edges),
	}
}

// Finalize builds the stored graph from the accumulated entities and the
// session metadata. Only a complete session finalizes.
func (s *Session) Finalize() (*graph.Graph, error) {
	if s.state != StateComplete {
		return nil, fmt.Errorf("%w: state %s", ErrNotStreaming, s.state)
	}

	id := s.meta.ID
	if id == "" {
		id = graph.NewID()
	}
	createdAt := s.meta.CreatedAt
	if createdAt == 0 {
		createdAt = graph.Now()
	}

	g := &graph.Graph{
		ID:              id,
		Title:           s.meta.Title,
		Subject:         s.meta.Subject,
		CreatedAt:       createdAt,
		Model:           s.meta.Model,
		ParentGraphID:   s.meta.ParentGraphID,
		ParentNodeID:    s.meta.ParentNodeID,
		SourceNodeLabel: s.meta.SourceNodeLabel,
		Data: graph.Data{
			Nodes: append([]graph.Node(nil), s.nodes...),
			Edges: append([]graph.Edge(nil), s.edges...),
		},
	}
	return g, nil
}
