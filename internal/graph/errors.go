package graph

import "fmt"

// MalformedGraphError is returned when a graph file can't be parsed or breaks the
// node/edge rules.
type MalformedGraphError struct {
	Path   string
	Reason string
	Err    error
}

func (e *MalformedGraphError) Error() string {
	msg := "malformed graph"
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedGraphError) Unwrap() error {
	return e.Err
}

// DegenerateGraphError is returned when a graph with no edges would be used as the
// denominator of a score.
type DegenerateGraphError struct {
	Role string
}

func (e *DegenerateGraphError) Error() string {
	return fmt.Sprintf("degenerate graph: %s has no edges", e.Role)
}
