package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// NodeID is the identifier edges use to reference a node. Result files written by the
// hashing harnesses use integers, hand-made ground truths sometimes use strings, so
// both are accepted.
type NodeID string

func (id *NodeID) UnmarshalJSON(b []byte) error {
	var unmarshalledJson interface{}

	d := json.NewDecoder(bytes.NewReader(b))
	d.UseNumber()
	if err := d.Decode(&unmarshalledJson); err != nil {
		return err
	}

	switch value := unmarshalledJson.(type) {
	case json.Number:
		*id = NodeID(value.String())
	case string:
		*id = NodeID(value)
	default:
		return fmt.Errorf("invalid node id: %#v", unmarshalledJson)
	}

	return nil
}

// MarshalJSON writes ids that are canonical integers back as numbers so that files
// produced by the harnesses keep their shape. Anything else, "007" or "+5" included,
// stays a string.
func (id NodeID) MarshalJSON() ([]byte, error) {
	if v, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(v, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

type Node struct {
	ID    NodeID `json:"id"`
	Image string `json:"image,omitempty"`
	Label string `json:"label,omitempty"`
	Shape string `json:"shape,omitempty"`
}

// Key is the stable identity of the picture behind a node: the base name of its image
// file. Two graphs built over the same picture directory agree on keys even when their
// ids differ.
func (n Node) Key() string {
	switch {
	case n.Image != "":
		return filepath.Base(n.Image)
	case n.Label != "":
		return n.Label
	default:
		return string(n.ID)
	}
}

type Edge struct {
	From NodeID `json:"from"`
	To   NodeID `json:"to"`
}

// Graph is a node set plus an edge set. A Graph is treated as immutable once parsed,
// which allows the lookup indexes to be built lazily and shared between goroutines.
type Graph struct {
	Nodes []Node
	Edges []Edge

	once   sync.Once
	byID   map[NodeID]int
	byKey  map[string]NodeID
	edgeIn map[Edge]struct{}
}

type serializedGraph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{Nodes: []Node{}, Edges: []Edge{}}
}

// Parse decodes and validates a graph. Duplicate edges are collapsed, an edge pointing
// at a node that is not declared is rejected.
func Parse(data []byte) (*Graph, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &MalformedGraphError{Reason: "not a JSON object", Err: err}
	}

	g := New()
	if err := decodeSequence(raw, "nodes", &g.Nodes); err != nil {
		return nil, err
	}
	if err := decodeSequence(raw, "edges", &g.Edges); err != nil {
		return nil, err
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func decodeSequence(raw map[string]json.RawMessage, key string, into interface{}) error {
	value, ok := raw[key]
	if !ok {
		return &MalformedGraphError{Reason: fmt.Sprintf("missing %q", key)}
	}
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return &MalformedGraphError{Reason: fmt.Sprintf("%q is not a sequence", key)}
	}
	if err := json.Unmarshal(trimmed, into); err != nil {
		return &MalformedGraphError{Reason: fmt.Sprintf("bad %q entry", key), Err: err}
	}
	return nil
}

func (g *Graph) validate() error {
	ids := make(map[NodeID]struct{}, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := ids[n.ID]; dup {
			return &MalformedGraphError{Reason: fmt.Sprintf("duplicate node id %s", n.ID)}
		}
		ids[n.ID] = struct{}{}
	}

	seen := make(map[Edge]struct{}, len(g.Edges))
	edges := g.Edges[:0]
	for _, e := range g.Edges {
		if _, ok := ids[e.From]; !ok {
			return &MalformedGraphError{Reason: fmt.Sprintf("edge %s->%s: unknown node %s", e.From, e.To, e.From)}
		}
		if _, ok := ids[e.To]; !ok {
			return &MalformedGraphError{Reason: fmt.Sprintf("edge %s->%s: unknown node %s", e.From, e.To, e.To)}
		}
		if _, dup := seen[e]; dup {
			continue
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}
	g.Edges = edges
	return nil
}

// Load reads a graph file.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := Parse(data)
	if err != nil {
		if mErr, ok := err.(*MalformedGraphError); ok {
			mErr.Path = path
		}
		return nil, err
	}
	return g, nil
}

func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(serializedGraph{Nodes: g.Nodes, Edges: g.Edges})
}

// Save writes the graph in the same shape Load reads.
func (g *Graph) Save(path string) error {
	data, err := json.MarshalIndent(serializedGraph{Nodes: g.Nodes, Edges: g.Edges}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (g *Graph) index() {
	g.once.Do(func() {
		g.byID = make(map[NodeID]int, len(g.Nodes))
		g.byKey = make(map[string]NodeID, len(g.Nodes))
		for i, n := range g.Nodes {
			g.byID[n.ID] = i
			// First node wins if two nodes share a picture.
			if _, ok := g.byKey[n.Key()]; !ok {
				g.byKey[n.Key()] = n.ID
			}
		}
		g.edgeIn = make(map[Edge]struct{}, len(g.Edges))
		for _, e := range g.Edges {
			g.edgeIn[e] = struct{}{}
		}
	})
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	g.index()
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// NodeByKey returns the id of the node holding the given picture.
func (g *Graph) NodeByKey(key string) (NodeID, bool) {
	g.index()
	id, ok := g.byKey[key]
	return id, ok
}

func (g *Graph) HasEdge(e Edge) bool {
	g.index()
	_, ok := g.edgeIn[e]
	return ok
}
