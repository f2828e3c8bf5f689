package traceyaml

import (
	"sync"
)

// SpanInfo captures all events, errors, names, attributes, configuration
// and children that can be registered to a span in the order they were
// registered. JSON tags exist on all type such that it can be marshalled
// to JSON and/or YAML easily.
type SpanInfo struct {
	SpanName      string      `json:"spanName"`
	StartConfig   *SpanConfig `json:"startConfig,omitempty"`
	Events        []Event     `json:"events,omitempty"`
	Errors        []Error     `json:"errors,omitempty"`
	StatusChanges []Status    `json:"statusChanges,omitempty"`
	NameChanges   []string    `json:"nameChanges,omitempty"`
	Attributes    Attributes  `json:"attributes,omitempty"`
	Links         []Link      `json:"links,omitempty"`
	EndConfig     *SpanConfig `json:"endConfig,omitempty"`
	Ended         int         `json:"ended"`

	Children []*SpanInfo `json:"children,omitempty"`
	mu       *sync.Mutex
	isChild  bool
}

// Attributes maps attribute keys to their values.
type Attributes map[string]interface{}

// Event represents an event registered using span.AddEvent().
type Event struct {
	Name        string `json:"name"`
	EventConfig `json:",inline,omitempty" yaml:",inline"`
}

// Error represents an error registered using span.RecordError().
type Error struct {
	Error       string `json:"error"`
	EventConfig `json:",inline,omitempty" yaml:",inline"`
}

// EventConfig is created from []trace.EventOption.
type EventConfig struct {
	Attributes Attributes `json:"attributes,omitempty"`
}

// Status represents a status update registered using span.SetStatus().
type Status struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// SpanConfig is created from []trace.SpanStartOption or []trace.SpanEndOption.
type SpanConfig struct {
	Attributes Attributes `json:"attributes,omitempty"`
	Links      []Link     `json:"links,omitempty"`
	NewRoot    bool       `json:"newRoot,omitempty"`
	SpanKind   string     `json:"spanKind,omitempty"`
}

// Link represents a trace.Link, given at span start or through
// span.AddLink().
type Link struct {
	TraceID    string     `json:"traceID"`
	SpanID     string     `json:"spanID"`
	Valid      bool       `json:"valid"`
	Attributes Attributes `json:"attributes,omitempty"`
}
