package model

import (
	"encoding/xml"
	"fmt"
)

// Namespace is the BPMN 2.0 model namespace every definitions document must
// declare as its root element namespace.
const Namespace = "http://www.omg.org/spec/BPMN/20100524/MODEL"

// Element kinds used across the validator and the graph sub-package.
const (
	KindStartEvent   = "startEvent"
	KindServiceTask  = "serviceTask"
	KindEndEvent     = "endEvent"
	KindSequenceFlow = "sequenceFlow"
)

type (
	// Definitions is the root of a BPMN 2.0 document
	Definitions struct {
		XMLName         xml.Name   `xml:"http://www.omg.org/spec/BPMN/20100524/MODEL definitions" json:"-"`
		ID              string     `xml:"id,attr,omitempty" json:"id,omitempty"`
		TargetNamespace string     `xml:"targetNamespace,attr,omitempty" json:"targetNamespace,omitempty"`
		Exporter        string     `xml:"exporter,attr,omitempty" json:"exporter,omitempty"`
		Processes       []*Process `xml:"process" json:"processes,omitempty"`

		// SourceURL records where the document was loaded from
		SourceURL string `xml:"-" json:"sourceURL,omitempty"`
		// UnknownElements lists BPMN-namespace element names the decoder
		// did not recognize
		UnknownElements []string `xml:"-" json:"unknownElements,omitempty"`
	}

	// Process represents a single BPMN process graph
	Process struct {
		ID            string          `xml:"id,attr" json:"id"`
		Name          string          `xml:"name,attr,omitempty" json:"name,omitempty"`
		IsExecutable  bool            `xml:"isExecutable,attr,omitempty" json:"isExecutable,omitempty"`
		StartEvents   []*StartEvent   `xml:"startEvent" json:"startEvents,omitempty"`
		ServiceTasks  []*ServiceTask  `xml:"serviceTask" json:"serviceTasks,omitempty"`
		EndEvents     []*EndEvent     `xml:"endEvent" json:"endEvents,omitempty"`
		SequenceFlows []*SequenceFlow `xml:"sequenceFlow" json:"sequenceFlows,omitempty"`
	}

	// StartEvent marks the entry node of a process
	StartEvent struct {
		ID   string `xml:"id,attr" json:"id"`
		Name string `xml:"name,attr,omitempty" json:"name,omitempty"`
	}

	// ServiceTask represents an automated activity node
	ServiceTask struct {
		ID   string `xml:"id,attr" json:"id"`
		Name string `xml:"name,attr,omitempty" json:"name,omitempty"`
		// Type carries the optional task-type hint some engines attach to
		// service tasks (e.g. a job/worker type).
		Type string `xml:"type,attr,omitempty" json:"type,omitempty"`
	}

	// EndEvent marks a terminal node of a process
	EndEvent struct {
		ID   string `xml:"id,attr" json:"id"`
		Name string `xml:"name,attr,omitempty" json:"name,omitempty"`
	}

	// SequenceFlow is a directed edge between two flow nodes
	SequenceFlow struct {
		ID        string `xml:"id,attr" json:"id"`
		Name      string `xml:"name,attr,omitempty" json:"name,omitempty"`
		SourceRef string `xml:"sourceRef,attr" json:"sourceRef"`
		TargetRef string `xml:"targetRef,attr" json:"targetRef"`
	}
)

// FlowNode is implemented by every vertex element of a process graph.
type FlowNode interface {
	NodeID() string
	NodeName() string
	NodeKind() string
}

func (e *StartEvent) NodeID() string    { return e.ID }
func (e *StartEvent) NodeName() string  { return e.Name }
func (e *StartEvent) NodeKind() string  { return KindStartEvent }
func (t *ServiceTask) NodeID() string   { return t.ID }
func (t *ServiceTask) NodeName() string { return t.Name }
func (t *ServiceTask) NodeKind() string { return KindServiceTask }
func (e *EndEvent) NodeID() string      { return e.ID }
func (e *EndEvent) NodeName() string    { return e.Name }
func (e *EndEvent) NodeKind() string    { return KindEndEvent }

// NewDefinitions creates a definitions document with the given id
func NewDefinitions(id string) *Definitions {
	return &Definitions{ID: id, TargetNamespace: Namespace}
}

// NewProcess creates a process with the given id and appends it to the
// definitions document
func (d *Definitions) NewProcess(id string) *Process {
	process := &Process{ID: id}
	d.Processes = append(d.Processes, process)
	return process
}

// Process returns the process with the given id or nil
func (d *Definitions) Process(id string) *Process {
	for _, candidate := range d.Processes {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}

// MainProcess returns the first declared process or nil
func (d *Definitions) MainProcess() *Process {
	if len(d.Processes) == 0 {
		return nil
	}
	return d.Processes[0]
}

// WithName sets the process display name
func (p *Process) WithName(name string) *Process {
	p.Name = name
	return p
}

// WithExecutable sets the isExecutable marker
func (p *Process) WithExecutable(executable bool) *Process {
	p.IsExecutable = executable
	return p
}

// NewStartEvent creates a start event and adds it to the process
func (p *Process) NewStartEvent(id, name string) *StartEvent {
	event := &StartEvent{ID: id, Name: name}
	p.StartEvents = append(p.StartEvents, event)
	return event
}

// NewServiceTask creates a service task and adds it to the process
func (p *Process) NewServiceTask(id, name string) *ServiceTask {
	task := &ServiceTask{ID: id, Name: name}
	p.ServiceTasks = append(p.ServiceTasks, task)
	return task
}

// NewEndEvent creates an end event and adds it to the process
func (p *Process) NewEndEvent(id, name string) *EndEvent {
	event := &EndEvent{ID: id, Name: name}
	p.EndEvents = append(p.EndEvents, event)
	return event
}

// Connect adds a sequence flow between two node ids; when id is empty a
// positional one is generated
func (p *Process) Connect(id, sourceRef, targetRef string) *SequenceFlow {
	if id == "" {
		id = fmt.Sprintf("flow_%d", len(p.SequenceFlows)+1)
	}
	flow := &SequenceFlow{ID: id, SourceRef: sourceRef, TargetRef: targetRef}
	p.SequenceFlows = append(p.SequenceFlows, flow)
	return flow
}

// Nodes returns all flow nodes in declaration order
func (p *Process) Nodes() []FlowNode {
	nodes := make([]FlowNode, 0, len(p.StartEvents)+len(p.ServiceTasks)+len(p.EndEvents))
	for _, event := range p.StartEvents {
		nodes = append(nodes, event)
	}
	for _, task := range p.ServiceTasks {
		nodes = append(nodes, task)
	}
	for _, event := range p.EndEvents {
		nodes = append(nodes, event)
	}
	return nodes
}

// Node returns the flow node with the given id or nil
func (p *Process) Node(id string) FlowNode {
	for _, node := range p.Nodes() {
		if node.NodeID() == id {
			return node
		}
	}
	return nil
}

// Outgoing returns all sequence flows originating at the given node id
func (p *Process) Outgoing(id string) []*SequenceFlow {
	var flows []*SequenceFlow
	for _, flow := range p.SequenceFlows {
		if flow.SourceRef == id {
			flows = append(flows, flow)
		}
	}
	return flows
}

// Incoming returns all sequence flows terminating at the given node id
func (p *Process) Incoming(id string) []*SequenceFlow {
	var flows []*SequenceFlow
	for _, flow := range p.SequenceFlows {
		if flow.TargetRef == id {
			flows = append(flows, flow)
		}
	}
	return flows
}

// Clone creates a deep copy of the process
func (p *Process) Clone() *Process {
	if p == nil {
		return nil
	}
	clone := &Process{ID: p.ID, Name: p.Name, IsExecutable: p.IsExecutable}
	for _, event := range p.StartEvents {
		cloned := *event
		clone.StartEvents = append(clone.StartEvents, &cloned)
	}
	for _, task := range p.ServiceTasks {
		cloned := *task
		clone.ServiceTasks = append(clone.ServiceTasks, &cloned)
	}
	for _, event := range p.EndEvents {
		cloned := *event
		clone.EndEvents = append(clone.EndEvents, &cloned)
	}
	for _, flow := range p.SequenceFlows {
		cloned := *flow
		clone.SequenceFlows = append(clone.SequenceFlows, &cloned)
	}
	return clone
}
