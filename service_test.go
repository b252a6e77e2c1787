package procdoc

import (
	"context"
	"strings"
	"testing"

	"github.com/procdoc/procdoc/model"
	"github.com/procdoc/procdoc/progress"
	"github.com/procdoc/procdoc/service/event"
	"github.com/procdoc/procdoc/service/meta"
	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	_ "github.com/viant/afs/mem"
)

var orderBPMN = `<?xml version="1.0" encoding="UTF-8"?>
<definitions xmlns="http://www.omg.org/spec/BPMN/20100524/MODEL"
             id="definitions_order"
             targetNamespace="http://www.omg.org/spec/BPMN/20100524/MODEL">
  <process id="order_process" name="Order" isExecutable="true">
    <startEvent id="start_event" name="Order Received"/>
    <serviceTask id="charge_card" name="Charge Card"/>
    <endEvent id="end_event" name="Order Completed"/>
    <sequenceFlow id="flow_1" sourceRef="start_event" targetRef="charge_card"/>
    <sequenceFlow id="flow_2" sourceRef="charge_card" targetRef="end_event"/>
  </process>
</definitions>`

var scanPipelineYAML = `name: vuln-scan
on:
  push:
    branches: [main]
jobs:
  scan:
    runs-on: ubuntu-latest
    steps:
      - name: Checkout
        uses: actions/checkout@v4
`

var prRulesYAML = `pull_request_rules:
  - name: delete merged branches
    conditions:
      - merged
    actions:
      delete_head_branch: {}
`

func newTestService(t *testing.T, baseURL string, assets map[string]string, options ...Option) *Service {
	t.Helper()
	fs := afs.New()
	ctx := context.Background()
	for name, content := range assets {
		err := fs.Upload(ctx, baseURL+"/"+name, file.DefaultFileOsMode, strings.NewReader(content))
		assert.Nil(t, err)
	}
	options = append(options, WithMetaService(meta.New(fs, baseURL)))
	return New(options...)
}

func TestService_LoadProcess(t *testing.T) {
	service := newTestService(t, "mem://localhost/procdoc/load", map[string]string{
		"order.bpmn": orderBPMN,
	})
	ctx := context.Background()

	definitions, err := service.LoadProcess(ctx, "order.bpmn")
	assert.Nil(t, err)
	assert.Equal(t, "definitions_order", definitions.ID)
	assert.Equal(t, "Order", definitions.MainProcess().Name)

	// the load registered a document envelope
	documents, err := service.Documents().List(ctx)
	assert.Nil(t, err)
	if assert.Len(t, documents, 1) {
		assert.Equal(t, model.DocumentKindProcess, documents[0].Kind)
		assert.Equal(t, "Order", documents[0].Name)
	}
}

func TestService_ValidateURL(t *testing.T) {
	service := newTestService(t, "mem://localhost/procdoc/validate", map[string]string{
		"order.bpmn":                  orderBPMN,
		".github/workflows/scan.yaml": scanPipelineYAML,
		"broken.bpmn":                 "<definitions",
	})
	ctx := context.Background()

	report, err := service.ValidateURL(ctx, "mem://localhost/procdoc/validate/order.bpmn")
	assert.Nil(t, err)
	assert.True(t, report.IsValid())
	assert.Empty(t, report.Violations)

	report, err = service.ValidateURL(ctx, "mem://localhost/procdoc/validate/.github/workflows/scan.yaml")
	assert.Nil(t, err)
	assert.True(t, report.IsValid())
	warnings := report.Warnings()
	if assert.Len(t, warnings, 1) {
		assert.Contains(t, warnings[0].Message, "actions/checkout@v4")
	}

	report, err = service.ValidateURL(ctx, "mem://localhost/procdoc/validate/broken.bpmn")
	assert.Nil(t, err)
	assert.False(t, report.IsValid())
	assert.Equal(t, RuleDocumentLoad, report.Violations[0].Rule)

	_, err = service.ValidateURL(ctx, "mem://localhost/procdoc/validate/README.md")
	assert.NotNil(t, err)
}

func TestService_Audit(t *testing.T) {
	var validated []string
	service := newTestService(t, "mem://localhost/procdoc/audit", map[string]string{
		"order.bpmn":                  orderBPMN,
		".github/workflows/scan.yaml": scanPipelineYAML,
		".mergify.yml":                prRulesYAML,
		"README.md":                   "# docs",
	}, WithListener(func(ctx context.Context, e *event.Event) {
		if e.Type == event.TypeDocumentValidated {
			validated = append(validated, e.URL)
		}
	}), WithConfig(&Config{Concurrency: 1}))

	ctx, tracker := progress.WithNewTracker(context.Background(), "audit-1", "mem://localhost/procdoc/audit", nil)
	result, err := service.Audit(ctx, "mem://localhost/procdoc/audit")
	assert.Nil(t, err)
	assert.True(t, result.IsValid())
	assert.Len(t, result.Reports, 3)
	assert.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0], "README.md")
	assert.Len(t, validated, 3)

	snapshot := tracker.Snapshot()
	assert.Equal(t, 3, snapshot.Discovered)
	assert.Equal(t, 3, snapshot.Validated)
	assert.Equal(t, 1, snapshot.Skipped)
	assert.Equal(t, 0, snapshot.Failed)
	assert.Equal(t, 1, snapshot.Warnings)

	// reports are ordered by URL
	assert.Contains(t, result.Reports[0].URL, ".github/workflows/scan.yaml")
	assert.Contains(t, result.Reports[1].URL, ".mergify.yml")
	assert.Contains(t, result.Reports[2].URL, "order.bpmn")
}

func TestService_AuditEmptyTree(t *testing.T) {
	service := newTestService(t, "mem://localhost/procdoc/empty", map[string]string{
		"README.md": "# docs",
	})
	result, err := service.Audit(context.Background(), "mem://localhost/procdoc/empty")
	assert.Nil(t, err)
	assert.True(t, result.IsValid())
	assert.Empty(t, result.Reports)
}
