package bpmn

import (
	"context"
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"

	"github.com/procdoc/procdoc/service/meta"
)

// testFS holds our test BPMN files
//
//go:embed testdata/*
var testFS embed.FS

// TestService_Load tests the BPMN loading functionality
func TestService_Load(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name        string
		url         string
		expectedErr bool
		verify      func(t *testing.T, s *Service)
	}{
		{
			name: "valid three node process",
			url:  "order.bpmn",
		},
		{
			name:        "dangling sequence flow target",
			url:         "dangling.bpmn",
			expectedErr: true,
		},
	}

	for _, tc := range testCases {
		service := New(WithMetaService(meta.New(afs.New(), "embed:///testdata", &testFS)))

		t.Run(tc.name, func(t *testing.T) {
			actual, err := service.Load(ctx, tc.url)

			if tc.expectedErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.NotNil(t, actual)
			assert.Equal(t, "definitions_order", actual.ID)

			process := actual.MainProcess()
			assert.NotNil(t, process)
			assert.Equal(t, "order_process", process.ID)
			assert.Equal(t, "Order Process", process.Name)
			assert.True(t, process.IsExecutable)

			assert.Len(t, process.StartEvents, 1)
			assert.Equal(t, "start_event", process.StartEvents[0].ID)
			assert.Equal(t, "Order Received", process.StartEvents[0].Name)

			assert.Len(t, process.ServiceTasks, 1)
			assert.Equal(t, "charge_card", process.ServiceTasks[0].ID)

			assert.Len(t, process.EndEvents, 1)
			assert.Equal(t, "end_event", process.EndEvents[0].ID)

			assert.Len(t, process.SequenceFlows, 2)
			assert.Equal(t, "start_event", process.SequenceFlows[0].SourceRef)
			assert.Equal(t, "charge_card", process.SequenceFlows[0].TargetRef)
			assert.Equal(t, "charge_card", process.SequenceFlows[1].SourceRef)
			assert.Equal(t, "end_event", process.SequenceFlows[1].TargetRef)

			assert.Empty(t, actual.UnknownElements)
		})
	}
}

// TestService_Load_SkipsValidation verifies that a structurally broken
// document still decodes when validation is disabled
func TestService_Load_SkipsValidation(t *testing.T) {
	service := New(
		WithMetaService(meta.New(afs.New(), "embed:///testdata", &testFS)),
		WithValidation(false),
	)

	actual, err := service.Load(context.Background(), "dangling.bpmn")
	assert.NoError(t, err)
	assert.NotNil(t, actual)
	assert.Len(t, actual.MainProcess().SequenceFlows, 1)
}

// TestService_DecodeXML_BadNamespace verifies root namespace enforcement
func TestService_DecodeXML_BadNamespace(t *testing.T) {
	service := New()
	_, err := service.DecodeXML([]byte(`<definitions xmlns="http://example.com/not-bpmn"/>`))
	assert.Error(t, err)
}

// TestService_DecodeXML_Malformed verifies well-formedness errors surface
func TestService_DecodeXML_Malformed(t *testing.T) {
	service := New()
	_, err := service.DecodeXML([]byte(`<bpmn:definitions`))
	assert.Error(t, err)
}
