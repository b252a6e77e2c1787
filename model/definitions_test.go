package model

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/assert"
)

func orderDefinitions() *Definitions {
	definitions := NewDefinitions("definitions_order")
	process := definitions.NewProcess("order_process").WithName("Order").WithExecutable(true)
	process.NewStartEvent("start_event", "Order Received")
	process.NewServiceTask("charge_card", "Charge Card")
	process.NewEndEvent("end_event", "Order Completed")
	process.Connect("flow_1", "start_event", "charge_card")
	process.Connect("flow_2", "charge_card", "end_event")
	return definitions
}

func TestProcess_Builders(t *testing.T) {
	definitions := orderDefinitions()
	process := definitions.MainProcess()

	assert.Equal(t, process, definitions.Process("order_process"))
	assert.Nil(t, definitions.Process("unknown"))
	assert.Len(t, process.Nodes(), 3)
	assert.Equal(t, KindServiceTask, process.Node("charge_card").NodeKind())
	assert.Nil(t, process.Node("unknown"))

	outgoing := process.Outgoing("start_event")
	if assert.Len(t, outgoing, 1) {
		assert.Equal(t, "charge_card", outgoing[0].TargetRef)
	}
	incoming := process.Incoming("end_event")
	if assert.Len(t, incoming, 1) {
		assert.Equal(t, "flow_2", incoming[0].ID)
	}

	// connecting without an id generates a positional one
	flow := process.Connect("", "start_event", "end_event")
	assert.Equal(t, "flow_3", flow.ID)
}

func TestProcess_Validate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(*Process)
		expected    []string
	}{
		{
			description: "valid linear process",
		},
		{
			description: "duplicate node id",
			mutate: func(p *Process) {
				p.NewServiceTask("charge_card", "Again")
			},
			expected: []string{"duplicate node id charge_card"},
		},
		{
			description: "dangling flow reference",
			mutate: func(p *Process) {
				p.Connect("flow_3", "charge_card", "missing")
			},
			expected: []string{"sequenceFlow flow_3 targetRef refers to unknown node missing"},
		},
		{
			description: "self loop",
			mutate: func(p *Process) {
				p.Connect("flow_3", "charge_card", "charge_card")
			},
			expected: []string{
				"sequenceFlow flow_3 connects charge_card to itself",
				"process order_process contains cyclic sequence flows",
			},
		},
		{
			description: "unreachable node",
			mutate: func(p *Process) {
				p.NewServiceTask("orphan", "Orphan")
			},
			expected: []string{"node orphan is unreachable from any start event"},
		},
	}

	for _, testCase := range testCases {
		process := orderDefinitions().MainProcess()
		if testCase.mutate != nil {
			testCase.mutate(process)
		}
		issues := process.Validate()
		if len(testCase.expected) == 0 {
			assert.Empty(t, issues, testCase.description)
			continue
		}
		var actual []string
		for _, issue := range issues {
			actual = append(actual, issue.Error())
		}
		for _, expected := range testCase.expected {
			assert.Contains(t, actual, expected, testCase.description)
		}
	}
}

func TestDefinitions_Validate(t *testing.T) {
	definitions := NewDefinitions("empty")
	issues := definitions.Validate()
	if assert.Len(t, issues, 1) {
		assert.Contains(t, issues[0].Error(), "declares no process")
	}
	assert.Empty(t, orderDefinitions().Validate())
}

func TestDefinitions_XMLRoundTrip(t *testing.T) {
	encoded, err := xml.Marshal(orderDefinitions())
	assert.Nil(t, err)

	decoded := &Definitions{}
	err = xml.Unmarshal(encoded, decoded)
	assert.Nil(t, err)
	assert.Equal(t, Namespace, decoded.XMLName.Space)
	process := decoded.MainProcess()
	assert.Equal(t, "order_process", process.ID)
	assert.True(t, process.IsExecutable)
	assert.Len(t, process.SequenceFlows, 2)
}

func TestProcess_Clone(t *testing.T) {
	process := orderDefinitions().MainProcess()
	clone := process.Clone()
	clone.ServiceTasks[0].Name = "Capture Payment"
	assert.Equal(t, "Charge Card", process.ServiceTasks[0].Name)
	assert.Len(t, clone.SequenceFlows, 2)
}
