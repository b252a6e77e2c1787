package automation

import (
	"context"
	"embed"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"

	"github.com/procdoc/procdoc/service/meta"
)

// testFS holds our test rule-set files
//
//go:embed testdata/*
var testFS embed.FS

// TestService_Load tests the rule-set loading functionality
func TestService_Load(t *testing.T) {
	ctx := context.Background()
	service := New(WithMetaService(meta.New(afs.New(), "embed:///testdata", &testFS)))

	actual, err := service.Load(ctx, "pr-rules.yaml")
	assert.NoError(t, err)
	assert.NotNil(t, actual)
	assert.Empty(t, actual.UnknownKeys)
	assert.Len(t, actual.Rules, 3)

	update := actual.Rules[0]
	assert.Equal(t, "automatic branch update", update.Name)
	assert.Len(t, update.Conditions, 3)
	assert.Equal(t, "base", update.Conditions[0].Attribute)
	assert.Equal(t, "=", update.Conditions[0].Operator)
	assert.Equal(t, "main", update.Conditions[0].Value)
	assert.True(t, update.Conditions[1].Negated)
	assert.Equal(t, "closed", update.Conditions[1].Attribute)
	assert.Equal(t, "#approved-reviews-by", update.Conditions[2].Attribute)
	assert.Equal(t, ">=", update.Conditions[2].Operator)
	assert.NotNil(t, update.Actions.Update)
	assert.Equal(t, "rebase", update.Actions.Update.Method)

	toggle := actual.Rules[1]
	assert.NotNil(t, toggle.Actions.Label)
	assert.Equal(t, []string{"conflict"}, toggle.Actions.Label.Toggle)

	cleanup := actual.Rules[2]
	assert.NotNil(t, cleanup.Actions.DeleteHeadBranch)
	assert.False(t, cleanup.Actions.DeleteHeadBranch.Force)
	assert.Equal(t, []string{"merged", "label!=keep-branch"}, []string{
		cleanup.Conditions[0].Raw,
		cleanup.Conditions[1].Raw,
	})

	assert.Empty(t, actual.Validate())
}

// TestService_Load_UnknownAction verifies unknown top-level keys and action
// names are collected rather than failing the load
func TestService_Load_UnknownAction(t *testing.T) {
	service := New(WithMetaService(meta.New(afs.New(), "embed:///testdata", &testFS)))

	actual, err := service.Load(context.Background(), "unknown-action.yaml")
	assert.NoError(t, err)
	assert.Equal(t, []string{"extends"}, actual.UnknownKeys)
	assert.Len(t, actual.Rules, 1)
	assert.Equal(t, []string{"queue"}, actual.Rules[0].Actions.Unknown)
}
