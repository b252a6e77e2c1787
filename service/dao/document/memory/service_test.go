package memory

import (
	"context"
	"testing"

	"github.com/procdoc/procdoc/model"
	"github.com/procdoc/procdoc/service/dao"
	"github.com/stretchr/testify/assert"
)

func TestService_CRUD(t *testing.T) {
	service := New()
	ctx := context.Background()

	document, err := model.NewDocument("doc-1", "mem://localhost/repo/order.bpmn", model.DocumentKindProcess, "Order", map[string]string{"id": "order_process"})
	assert.Nil(t, err)
	assert.Nil(t, service.Save(ctx, document))
	assert.Equal(t, dao.ErrNilEntity, service.Save(ctx, nil))

	loaded, err := service.Load(ctx, "doc-1")
	assert.Nil(t, err)
	assert.Equal(t, model.DocumentKindProcess, loaded.Kind)
	var body map[string]string
	assert.Nil(t, loaded.Decode(&body))
	assert.Equal(t, "order_process", body["id"])

	_, err = service.Load(ctx, "doc-2")
	assert.Equal(t, dao.ErrNotFound, err)

	pipelineDoc, err := model.NewDocument("doc-2", "mem://localhost/repo/scan.yaml", model.DocumentKindPipeline, "vuln-scan", nil)
	assert.Nil(t, err)
	assert.Nil(t, service.Save(ctx, pipelineDoc))

	documents, err := service.List(ctx, &dao.Parameter{Name: "Kind", Value: model.DocumentKindPipeline})
	assert.Nil(t, err)
	if assert.Len(t, documents, 1) {
		assert.Equal(t, "doc-2", documents[0].ID)
	}
	documents, err = service.List(ctx)
	assert.Nil(t, err)
	assert.Len(t, documents, 2)

	assert.Nil(t, service.Delete(ctx, "doc-1"))
	assert.Equal(t, dao.ErrNotFound, service.Delete(ctx, "doc-1"))
}
