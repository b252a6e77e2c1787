package validator

import (
	"fmt"
	"strings"

	"github.com/procdoc/procdoc/model"
	"github.com/procdoc/procdoc/model/graph"
)

// Process rule names.
const (
	RuleProcessUniqueIDs    = "process-unique-ids"
	RuleProcessFlowRefs     = "process-flow-refs"
	RuleProcessStartEnd     = "process-start-end"
	RuleProcessNoCycles     = "process-no-cycles"
	RuleProcessConnectivity = "process-connectivity"
	RuleProcessLinearPath   = "process-linear-path"
	RuleProcessVocabulary   = "process-vocabulary"
)

// DefaultProcessRules returns the built-in BPMN rules.
func DefaultProcessRules() []ProcessRule {
	return []ProcessRule{
		&uniqueIDsRule{},
		&flowRefsRule{},
		&startEndRule{},
		&noCyclesRule{},
		&connectivityRule{},
		&linearPathRule{},
		&vocabularyRule{},
	}
}

// uniqueIDsRule verifies every element id is declared exactly once.
type uniqueIDsRule struct{}

func (r *uniqueIDsRule) Name() string { return RuleProcessUniqueIDs }

func (r *uniqueIDsRule) Check(definitions *model.Definitions) []*Violation {
	var violations []*Violation
	for _, process := range definitions.Processes {
		seen := map[string]bool{}
		for _, node := range process.Nodes() {
			if node.NodeID() == "" {
				violations = append(violations, &Violation{
					Rule:     r.Name(),
					Severity: SeverityError,
					Path:     process.ID,
					Message:  fmt.Sprintf("%s has empty id", node.NodeKind()),
				})
				continue
			}
			if seen[node.NodeID()] {
				violations = append(violations, &Violation{
					Rule:     r.Name(),
					Severity: SeverityError,
					Path:     node.NodeID(),
					Message:  "duplicate element id",
				})
			}
			seen[node.NodeID()] = true
		}
		for _, flow := range process.SequenceFlows {
			if seen[flow.ID] {
				violations = append(violations, &Violation{
					Rule:     r.Name(),
					Severity: SeverityError,
					Path:     flow.ID,
					Message:  "duplicate element id",
				})
			}
			seen[flow.ID] = true
		}
	}
	return violations
}

// flowRefsRule verifies sequence flow endpoints resolve to declared nodes.
type flowRefsRule struct{}

func (r *flowRefsRule) Name() string { return RuleProcessFlowRefs }

func (r *flowRefsRule) Check(definitions *model.Definitions) []*Violation {
	var violations []*Violation
	for _, process := range definitions.Processes {
		for _, flow := range process.SequenceFlows {
			if process.Node(flow.SourceRef) == nil {
				violations = append(violations, &Violation{
					Rule:     r.Name(),
					Severity: SeverityError,
					Path:     flow.ID,
					Message:  fmt.Sprintf("sourceRef %q does not resolve to a declared node", flow.SourceRef),
				})
			}
			if process.Node(flow.TargetRef) == nil {
				violations = append(violations, &Violation{
					Rule:     r.Name(),
					Severity: SeverityError,
					Path:     flow.ID,
					Message:  fmt.Sprintf("targetRef %q does not resolve to a declared node", flow.TargetRef),
				})
			}
		}
	}
	return violations
}

// startEndRule verifies every process has exactly one start event and at
// least one end event.
type startEndRule struct{}

func (r *startEndRule) Name() string { return RuleProcessStartEnd }

func (r *startEndRule) Check(definitions *model.Definitions) []*Violation {
	var violations []*Violation
	for _, process := range definitions.Processes {
		if len(process.StartEvents) != 1 {
			violations = append(violations, &Violation{
				Rule:     r.Name(),
				Severity: SeverityError,
				Path:     process.ID,
				Message:  fmt.Sprintf("process declares %d start events, expected exactly 1", len(process.StartEvents)),
			})
		}
		if len(process.EndEvents) == 0 {
			violations = append(violations, &Violation{
				Rule:     r.Name(),
				Severity: SeverityError,
				Path:     process.ID,
				Message:  "process declares no end event",
			})
		}
	}
	return violations
}

// noCyclesRule verifies the flow graph is acyclic.
type noCyclesRule struct{}

func (r *noCyclesRule) Name() string { return RuleProcessNoCycles }

func (r *noCyclesRule) Check(definitions *model.Definitions) []*Violation {
	var violations []*Violation
	for _, process := range definitions.Processes {
		if graph.FromProcess(process).HasCycle() {
			violations = append(violations, &Violation{
				Rule:     r.Name(),
				Severity: SeverityError,
				Path:     process.ID,
				Message:  "process graph contains a cycle",
			})
		}
	}
	return violations
}

// connectivityRule verifies every node is reachable from a start event.
type connectivityRule struct{}

func (r *connectivityRule) Name() string { return RuleProcessConnectivity }

func (r *connectivityRule) Check(definitions *model.Definitions) []*Violation {
	var violations []*Violation
	for _, process := range definitions.Processes {
		g := graph.FromProcess(process)
		reached := map[string]bool{}
		for _, event := range process.StartEvents {
			for id := range g.Reachable(event.ID) {
				reached[id] = true
			}
		}
		for _, node := range process.Nodes() {
			if node.NodeKind() == model.KindStartEvent {
				continue
			}
			if !reached[node.NodeID()] {
				violations = append(violations, &Violation{
					Rule:     r.Name(),
					Severity: SeverityError,
					Path:     node.NodeID(),
					Message:  "node is not reachable from any start event",
				})
			}
		}
	}
	return violations
}

// linearPathRule verifies the process graph forms a single linear chain.
// Non-linear shapes are legal BPMN, hence warning severity.
type linearPathRule struct{}

func (r *linearPathRule) Name() string { return RuleProcessLinearPath }

func (r *linearPathRule) Check(definitions *model.Definitions) []*Violation {
	var violations []*Violation
	for _, process := range definitions.Processes {
		if !graph.FromProcess(process).IsLinearChain() {
			violations = append(violations, &Violation{
				Rule:     r.Name(),
				Severity: SeverityWarning,
				Path:     process.ID,
				Message:  "process graph is not a single linear path",
			})
		}
	}
	return violations
}

// vocabularyRule reports BPMN-namespace elements outside the supported
// vocabulary.
type vocabularyRule struct{}

func (r *vocabularyRule) Name() string { return RuleProcessVocabulary }

func (r *vocabularyRule) Check(definitions *model.Definitions) []*Violation {
	if len(definitions.UnknownElements) == 0 {
		return nil
	}
	return []*Violation{
		{
			Rule:     r.Name(),
			Severity: SeverityWarning,
			Path:     definitions.ID,
			Message:  fmt.Sprintf("unsupported elements: %s", strings.Join(definitions.UnknownElements, ", ")),
		},
	}
}
