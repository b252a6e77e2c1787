package automation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validRuleSet() *RuleSet {
	ruleSet := NewRuleSet()
	rule := ruleSet.NewRule("keep branches up to date").
		WithCondition("base=main").
		WithCondition("-closed")
	rule.Actions.Update = &UpdateAction{Method: "rebase"}
	return ruleSet
}

func TestRuleSet_Validate(t *testing.T) {
	assert.Empty(t, validRuleSet().Validate())

	// empty rule set
	issues := NewRuleSet().Validate()
	assert.Len(t, issues, 1)

	// rule without conditions
	ruleSet := NewRuleSet()
	rule := ruleSet.NewRule("broken")
	rule.Actions.Label = &LabelAction{Add: []string{"triage"}}
	issues = ruleSet.Validate()
	if assert.Len(t, issues, 1) {
		assert.Contains(t, issues[0].Error(), "Conditions")
	}

	// duplicate rule names
	ruleSet = validRuleSet()
	ruleSet.NewRule("keep branches up to date").WithCondition("merged").
		Actions.DeleteHeadBranch = &DeleteHeadBranchAction{}
	issues = ruleSet.Validate()
	if assert.Len(t, issues, 1) {
		assert.Contains(t, issues[0].Error(), "duplicate rule name")
	}

	// rule without any action
	ruleSet = validRuleSet()
	ruleSet.NewRule("noop").WithCondition("merged")
	issues = ruleSet.Validate()
	if assert.Len(t, issues, 1) {
		assert.Contains(t, issues[0].Error(), "declares no action")
	}
}

func TestActions_Names(t *testing.T) {
	actions := &Actions{
		Update:           &UpdateAction{},
		Label:            &LabelAction{Toggle: []string{"conflict"}},
		DeleteHeadBranch: &DeleteHeadBranchAction{Force: true},
	}
	assert.Equal(t, []string{ActionUpdate, ActionLabel, ActionDeleteHeadBranch}, actions.Names())
	assert.False(t, actions.IsEmpty())

	var nilActions *Actions
	assert.True(t, nilActions.IsEmpty())
	assert.Empty(t, nilActions.Names())
	assert.False(t, (&Actions{Unknown: []string{"queue"}}).IsEmpty())
}
