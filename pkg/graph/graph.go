// Package graph defines the serialization format for clustered graphs and
// computed layouts.
//
// The format is human-readable JSON designed for round-trip fidelity: a
// graph can be imported, laid out, exported, and re-imported without loss.
// It is the contract between the CLI, the pipeline, and any callers that
// feed the layout engine from their own graph models.
package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rondel-viz/rondel/pkg/errors"
)

// Graph is the canonical serialization format for a clustered graph.
// Cluster membership is a list of disjoint ID groups; nodes listed in no
// group are unclustered.
type Graph struct {
	Nodes    []Node     `json:"nodes"`
	Edges    []Edge     `json:"edges"`
	Clusters [][]string `json:"clusters,omitempty"`
}

// Node is one input node. X and Y locate the top-left corner.
type Node struct {
	ID     string  `json:"id"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is one input edge, referencing nodes by ID.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Position is one node's final placement, keyed by the original node ID.
// X and Y locate the top-left corner, matching the input convention.
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Layout is the serialization format for a computed layout: the input graph
// (carried for rendering and round trips) plus the final position of every
// original node. Cluster placeholder geometry is internal to the engine and
// never serialized.
type Layout struct {
	Graph     Graph      `json:"graph"`
	Positions []Position `json:"positions"`
}

// PositionIndex returns a lookup from node ID to final position.
func (l *Layout) PositionIndex() map[string]Position {
	m := make(map[string]Position, len(l.Positions))
	for _, p := range l.Positions {
		m[p.ID] = p
	}
	return m
}

// MarshalGraph serializes a Graph to pretty-printed JSON bytes.
func MarshalGraph(g Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// UnmarshalGraph deserializes JSON bytes to a Graph and validates basic
// referential integrity: edges and cluster groups may only reference
// declared node IDs.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal graph")
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// Validate checks that node IDs are unique and non-empty, that every edge
// endpoint references a declared node, and that cluster groups are disjoint
// and reference declared nodes.
func (g Graph) Validate() error {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
		if ids[n.ID] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node ID %q", n.ID)
		}
		ids[n.ID] = true
	}
	for _, e := range g.Edges {
		if !ids[e.Source] {
			return errors.New(errors.ErrCodeNodeNotFound, "edge references unknown node %q", e.Source)
		}
		if !ids[e.Target] {
			return errors.New(errors.ErrCodeNodeNotFound, "edge references unknown node %q", e.Target)
		}
	}
	seen := make(map[string]bool)
	for _, group := range g.Clusters {
		for _, id := range group {
			if !ids[id] {
				return errors.New(errors.ErrCodeInvalidCluster, "cluster references unknown node %q", id)
			}
			if seen[id] {
				return errors.New(errors.ErrCodeInvalidCluster, "node %q listed in multiple clusters", id)
			}
			seen[id] = true
		}
	}
	return nil
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates that
// every position references a graph node.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if err := l.Graph.Validate(); err != nil {
		return Layout{}, err
	}
	ids := make(map[string]bool, len(l.Graph.Nodes))
	for _, n := range l.Graph.Nodes {
		ids[n.ID] = true
	}
	for _, p := range l.Positions {
		if !ids[p.ID] {
			return Layout{}, errors.New(errors.ErrCodeNodeNotFound, "position references unknown node %q", p.ID)
		}
	}
	return l, nil
}

// ReadGraphFile reads and validates a Graph from a JSON file.
func ReadGraphFile(path string) (Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Graph{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalGraph(data)
}

// WriteGraphFile writes a Graph to a JSON file.
func WriteGraphFile(g Graph, path string) error {
	data, err := MarshalGraph(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads and validates a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
