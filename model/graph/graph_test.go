package graph

import (
	"testing"

	"github.com/procdoc/procdoc/model"
	"github.com/stretchr/testify/assert"
)

func linearProcess() *model.Process {
	definitions := model.NewDefinitions("definitions_order")
	process := definitions.NewProcess("order_process")
	process.NewStartEvent("start_event", "Order Received")
	process.NewServiceTask("charge_card", "Charge Card")
	process.NewEndEvent("end_event", "Order Completed")
	process.Connect("flow_1", "start_event", "charge_card")
	process.Connect("flow_2", "charge_card", "end_event")
	return process
}

func TestFromProcess(t *testing.T) {
	g := FromProcess(linearProcess())

	nodes := g.Nodes()
	if assert.Len(t, nodes, 3) {
		// ordered by id
		assert.Equal(t, "charge_card", nodes[0].ID)
		assert.Equal(t, "end_event", nodes[1].ID)
		assert.Equal(t, "start_event", nodes[2].ID)
	}
	assert.Len(t, g.Edges(), 2)
	assert.Equal(t, model.KindServiceTask, g.Node("charge_card").Kind)

	roots := g.Roots()
	if assert.Len(t, roots, 1) {
		assert.Equal(t, "start_event", roots[0].ID)
	}
	sinks := g.Sinks()
	if assert.Len(t, sinks, 1) {
		assert.Equal(t, "end_event", sinks[0].ID)
	}
}

func TestGraph_Reachable(t *testing.T) {
	g := FromProcess(linearProcess())
	reached := g.Reachable("start_event")
	assert.Len(t, reached, 3)
	assert.True(t, reached["end_event"])
	assert.Empty(t, g.Reachable("unknown"))
}

func TestGraph_HasCycle(t *testing.T) {
	process := linearProcess()
	assert.False(t, FromProcess(process).HasCycle())

	process.NewServiceTask("notify", "Notify")
	process.Connect("flow_3", "charge_card", "notify")
	process.Connect("flow_4", "notify", "charge_card")
	assert.True(t, FromProcess(process).HasCycle())
}

func TestGraph_IsLinearChain(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(*model.Process)
		expected    bool
	}{
		{
			description: "three node chain",
			expected:    true,
		},
		{
			description: "branching task",
			mutate: func(p *model.Process) {
				p.NewEndEvent("end_event_2", "Order Failed")
				p.Connect("flow_3", "charge_card", "end_event_2")
			},
			expected: false,
		},
		{
			description: "disconnected node",
			mutate: func(p *model.Process) {
				p.NewServiceTask("orphan", "Orphan")
			},
			expected: false,
		},
		{
			description: "second start",
			mutate: func(p *model.Process) {
				p.NewStartEvent("start_event_2", "")
			},
			expected: false,
		},
	}
	for _, testCase := range testCases {
		process := linearProcess()
		if testCase.mutate != nil {
			testCase.mutate(process)
		}
		assert.Equal(t, testCase.expected, FromProcess(process).IsLinearChain(), testCase.description)
	}

	assert.False(t, New().IsLinearChain())
}
