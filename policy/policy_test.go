package policy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_IsEnabled(t *testing.T) {
	testCases := []struct {
		description string
		policy      *Policy
		rule        string
		expected    bool
	}{
		{
			description: "nil policy enables everything",
			rule:        "process-no-cycles",
			expected:    true,
		},
		{
			description: "off mode disables everything",
			policy:      &Policy{Mode: ModeOff},
			rule:        "process-no-cycles",
		},
		{
			description: "block list wins over allow list",
			policy:      &Policy{AllowList: []string{"process-no-cycles"}, BlockList: []string{"Process-No-Cycles"}},
			rule:        "process-no-cycles",
		},
		{
			description: "allow list restricts",
			policy:      &Policy{AllowList: []string{"pipeline-schema"}},
			rule:        "process-no-cycles",
		},
		{
			description: "allow list match is case-insensitive",
			policy:      &Policy{AllowList: []string{"PROCESS-NO-CYCLES"}},
			rule:        "process-no-cycles",
			expected:    true,
		},
	}
	for _, testCase := range testCases {
		assert.Equal(t, testCase.expected, testCase.policy.IsEnabled(testCase.rule), testCase.description)
	}
}

func TestPolicy_Context(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	p := &Policy{Mode: ModeAdvisory}
	ctx := WithPolicy(context.Background(), p)
	assert.Equal(t, p, FromContext(ctx))
	assert.True(t, FromContext(ctx).IsAdvisory())

	var nilPolicy *Policy
	assert.False(t, nilPolicy.IsAdvisory())
}

func TestPolicy_ConfigRoundTrip(t *testing.T) {
	assert.Nil(t, ToConfig(nil))
	assert.Nil(t, FromConfig(nil))

	p := &Policy{Mode: ModeEnforce, AllowList: []string{"a"}, BlockList: []string{"b"}}
	restored := FromConfig(ToConfig(p))
	assert.Equal(t, p.Mode, restored.Mode)
	assert.Equal(t, p.AllowList, restored.AllowList)
	assert.Equal(t, p.BlockList, restored.BlockList)
}
