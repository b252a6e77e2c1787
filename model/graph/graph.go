// Package graph provides a directed flow-graph view over a BPMN process so
// that structural properties (roots, sinks, cycles, linearity) can be
// queried independently of the XML model.
package graph

import (
	"sort"

	"github.com/procdoc/procdoc/model"
)

type (
	// Node is a graph vertex derived from a BPMN flow node
	Node struct {
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
		Kind string `json:"kind"`
	}

	// Edge is a directed graph edge derived from a sequence flow
	Edge struct {
		ID     string `json:"id"`
		Source string `json:"source"`
		Target string `json:"target"`
	}

	// Graph holds nodes and edges together with adjacency indexes
	Graph struct {
		nodes    map[string]*Node
		edges    []*Edge
		outgoing map[string][]*Edge
		incoming map[string][]*Edge
	}
)

// New creates an empty graph
func New() *Graph {
	return &Graph{
		nodes:    map[string]*Node{},
		outgoing: map[string][]*Edge{},
		incoming: map[string][]*Edge{},
	}
}

// FromProcess builds a graph from a BPMN process
func FromProcess(process *model.Process) *Graph {
	g := New()
	if process == nil {
		return g
	}
	for _, node := range process.Nodes() {
		g.AddNode(&Node{ID: node.NodeID(), Name: node.NodeName(), Kind: node.NodeKind()})
	}
	for _, flow := range process.SequenceFlows {
		g.AddEdge(&Edge{ID: flow.ID, Source: flow.SourceRef, Target: flow.TargetRef})
	}
	return g
}

// AddNode adds a node; a node with a duplicate id replaces the previous one
func (g *Graph) AddNode(node *Node) {
	g.nodes[node.ID] = node
}

// AddEdge adds an edge; endpoints do not have to exist yet
func (g *Graph) AddEdge(edge *Edge) {
	g.edges = append(g.edges, edge)
	g.outgoing[edge.Source] = append(g.outgoing[edge.Source], edge)
	g.incoming[edge.Target] = append(g.incoming[edge.Target], edge)
}

// Node returns the node with the given id or nil
func (g *Graph) Node(id string) *Node {
	return g.nodes[id]
}

// Nodes returns all nodes ordered by id for deterministic traversal
func (g *Graph) Nodes() []*Node {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Edges returns all edges in insertion order
func (g *Graph) Edges() []*Edge {
	return g.edges
}

// Outgoing returns edges originating at the given node id
func (g *Graph) Outgoing(id string) []*Edge {
	return g.outgoing[id]
}

// Incoming returns edges terminating at the given node id
func (g *Graph) Incoming(id string) []*Edge {
	return g.incoming[id]
}

// Roots returns nodes without incoming edges
func (g *Graph) Roots() []*Node {
	var roots []*Node
	for _, node := range g.Nodes() {
		if len(g.incoming[node.ID]) == 0 {
			roots = append(roots, node)
		}
	}
	return roots
}

// Sinks returns nodes without outgoing edges
func (g *Graph) Sinks() []*Node {
	var sinks []*Node
	for _, node := range g.Nodes() {
		if len(g.outgoing[node.ID]) == 0 {
			sinks = append(sinks, node)
		}
	}
	return sinks
}

// Reachable returns the set of node ids reachable from the given id,
// including the id itself when the node exists.
func (g *Graph) Reachable(id string) map[string]bool {
	reached := map[string]bool{}
	if g.nodes[id] == nil {
		return reached
	}
	var visit func(string)
	visit = func(n string) {
		if reached[n] {
			return
		}
		reached[n] = true
		for _, edge := range g.outgoing[n] {
			visit(edge.Target)
		}
	}
	visit(id)
	return reached
}

// HasCycle reports whether the graph contains a directed cycle, using a
// white/grey/black colour DFS.
func (g *Graph) HasCycle() bool {
	const (
		white = 0
		grey  = 1
		black = 2
	)
	colour := map[string]int{}

	var dfs func(string) bool
	dfs = func(n string) bool {
		switch colour[n] {
		case grey:
			return true // back-edge
		case black:
			return false
		}
		colour[n] = grey
		for _, edge := range g.outgoing[n] {
			if dfs(edge.Target) {
				return true
			}
		}
		colour[n] = black
		return false
	}

	for id := range g.nodes {
		if colour[id] == white {
			if dfs(id) {
				return true
			}
		}
	}
	return false
}

// IsLinearChain reports whether the graph forms a single connected path:
// exactly one root, exactly one sink, every node with at most one incoming
// and one outgoing edge, no cycles, and all nodes reachable from the root.
func (g *Graph) IsLinearChain() bool {
	if len(g.nodes) == 0 {
		return false
	}
	roots := g.Roots()
	sinks := g.Sinks()
	if len(roots) != 1 || len(sinks) != 1 {
		return false
	}
	for id := range g.nodes {
		if len(g.incoming[id]) > 1 || len(g.outgoing[id]) > 1 {
			return false
		}
	}
	if g.HasCycle() {
		return false
	}
	return len(g.Reachable(roots[0].ID)) == len(g.nodes)
}
