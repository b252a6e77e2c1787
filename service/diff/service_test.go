package diff

import (
	"context"
	"strings"
	"testing"

	"github.com/procdoc/procdoc/model"
	"github.com/procdoc/procdoc/model/pipeline"
	"github.com/stretchr/testify/assert"
)

func orderDefinitions(taskName string) *model.Definitions {
	definitions := model.NewDefinitions("definitions_order")
	definitions.SourceURL = "mem://localhost/doc/order.bpmn"
	process := definitions.NewProcess("order_process").WithExecutable(true)
	process.NewStartEvent("start_event", "Order Received")
	process.NewServiceTask("charge_card", taskName)
	process.NewEndEvent("end_event", "Order Completed")
	process.Connect("flow_1", "start_event", "charge_card")
	process.Connect("flow_2", "charge_card", "end_event")
	return definitions
}

func TestService_CompareProcess(t *testing.T) {
	service := New()

	change, err := service.CompareProcess(context.Background(), orderDefinitions("Charge Card"), orderDefinitions("Charge Card"))
	assert.Nil(t, err)
	assert.False(t, change.HasChanges())
	assert.Equal(t, "", change.Unified)

	change, err = service.CompareProcess(context.Background(), orderDefinitions("Charge Card"), orderDefinitions("Capture Payment"))
	assert.Nil(t, err)
	assert.True(t, change.HasChanges())
	assert.Equal(t, 1, change.Added)
	assert.Equal(t, 1, change.Deleted)
	assert.Equal(t, "mem://localhost/doc/order.bpmn", change.Path)
	assert.Contains(t, change.Unified, `"name": "Charge Card"`)
	assert.Contains(t, change.Unified, `"name": "Capture Payment"`)
}

func TestService_ComparePipeline(t *testing.T) {
	before := pipeline.NewPipeline("vuln-scan")
	before.On = &pipeline.Trigger{Push: &pipeline.Ref{Branches: []string{"main"}}}
	before.NewJob("scan", "ubuntu-latest").WithRun("Scan", "make scan")

	after := pipeline.NewPipeline("vuln-scan")
	after.On = &pipeline.Trigger{Push: &pipeline.Ref{Branches: []string{"main", "release"}}}
	after.NewJob("scan", "ubuntu-latest").WithRun("Scan", "make scan")

	change, err := New().ComparePipeline(context.Background(), before, after)
	assert.Nil(t, err)
	assert.True(t, change.HasChanges())
	assert.Contains(t, change.Unified, "- release")
}

func TestService_Unified(t *testing.T) {
	unified, err := New(WithContextLines(1)).Unified("notes.txt", "one\ntwo\nthree\n", "one\n2\nthree\n")
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(unified, "--- a/notes.txt"))
	assert.Contains(t, unified, "-two")
	assert.Contains(t, unified, "+2")
}
