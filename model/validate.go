package model

import (
	"fmt"
)

// Validate performs a best-effort structural validation of the process.  The
// returned slice is empty when the process is sound; otherwise it contains
// human-readable error descriptions.  The function never rejects a process
// for being non-linear – richer shape checks live in the validator service.
func (p *Process) Validate() []error {
	var issues []error

	if p.ID == "" {
		issues = append(issues, fmt.Errorf("process id is empty"))
	}

	// collect all node ids
	seen := map[string]bool{}
	for _, node := range p.Nodes() {
		if node.NodeID() == "" {
			issues = append(issues, fmt.Errorf("%s has empty id", node.NodeKind()))
			continue
		}
		if seen[node.NodeID()] {
			issues = append(issues, fmt.Errorf("duplicate node id %s", node.NodeID()))
		}
		seen[node.NodeID()] = true
	}

	// verify each sequence flow references existing nodes
	flowSeen := map[string]bool{}
	for _, flow := range p.SequenceFlows {
		if flow.ID == "" {
			issues = append(issues, fmt.Errorf("sequenceFlow has empty id"))
		} else if flowSeen[flow.ID] || seen[flow.ID] {
			issues = append(issues, fmt.Errorf("duplicate element id %s", flow.ID))
		}
		flowSeen[flow.ID] = true

		if flow.SourceRef == flow.TargetRef && flow.SourceRef != "" {
			issues = append(issues, fmt.Errorf("sequenceFlow %s connects %s to itself", flow.ID, flow.SourceRef))
		}
		if !seen[flow.SourceRef] {
			issues = append(issues, fmt.Errorf("sequenceFlow %s sourceRef refers to unknown node %s", flow.ID, flow.SourceRef))
		}
		if !seen[flow.TargetRef] {
			issues = append(issues, fmt.Errorf("sequenceFlow %s targetRef refers to unknown node %s", flow.ID, flow.TargetRef))
		}
	}

	// -----------------------------------------------------------------
	// Detect flow cycles & nodes unreachable from any start event
	// -----------------------------------------------------------------

	edges := map[string][]string{}
	for _, flow := range p.SequenceFlows {
		edges[flow.SourceRef] = append(edges[flow.SourceRef], flow.TargetRef)
	}

	// DFS with colour set (white/grey/black) to detect back-edge cycles
	const (
		white = 0
		grey  = 1
		black = 2
	)
	colour := map[string]int{}

	var dfs func(string) bool // returns true if cycle found
	dfs = func(n string) bool {
		switch colour[n] {
		case grey:
			return true // back-edge
		case black:
			return false
		}
		colour[n] = grey
		for _, next := range edges[n] {
			if dfs(next) {
				return true
			}
		}
		colour[n] = black
		return false
	}

	cyclic := false
	for _, event := range p.StartEvents {
		if dfs(event.ID) {
			cyclic = true
		}
	}
	if cyclic {
		issues = append(issues, fmt.Errorf("process %s contains cyclic sequence flows", p.ID))
	}

	// Unreachable nodes = nodes that stay white after DFS from all starts
	for _, node := range p.Nodes() {
		if node.NodeKind() == KindStartEvent {
			continue
		}
		if colour[node.NodeID()] == white {
			issues = append(issues, fmt.Errorf("node %s is unreachable from any start event", node.NodeID()))
		}
	}

	return issues
}

// Validate validates every process in the definitions document.
func (d *Definitions) Validate() []error {
	var issues []error
	if len(d.Processes) == 0 {
		issues = append(issues, fmt.Errorf("definitions %s declares no process", d.ID))
		return issues
	}
	for _, process := range d.Processes {
		issues = append(issues, process.Validate()...)
	}
	return issues
}
