// Package automation models a pull-request automation rule set: declarative
// condition/action pairs evaluated by an external hosted bot.  This module
// only parses and validates the document; it never acts on pull requests.
package automation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Action names recognized by the rule model.
const (
	ActionUpdate           = "update"
	ActionLabel            = "label"
	ActionDeleteHeadBranch = "delete_head_branch"
)

type (
	// RuleSet represents an automation rule document
	RuleSet struct {
		// Source provides information about the origin of the rule set
		Source *Source `json:"source,omitempty" yaml:"source,omitempty"`
		Rules  []*Rule `json:"rules,omitempty" yaml:"pull_request_rules,omitempty" validate:"required,min=1,dive,required"`
		// UnknownKeys lists top-level keys the loader did not recognize
		UnknownKeys []string `json:"unknownKeys,omitempty" yaml:"-"`
	}

	// Source describes where the rule set was loaded from
	Source struct {
		URL string `json:"url,omitempty" yaml:"url,omitempty"`
	}

	// Rule pairs match conditions with resulting actions
	Rule struct {
		Name       string       `json:"name" yaml:"name" validate:"required"`
		Conditions []*Condition `json:"conditions,omitempty" yaml:"conditions,omitempty" validate:"required,min=1"`
		Actions    *Actions     `json:"actions,omitempty" yaml:"actions,omitempty" validate:"required"`
	}

	// Condition holds both the raw condition string and its parsed form.
	// Raw is always set; the remaining fields are populated by the
	// conditions parser and stay empty for presence-only conditions.
	Condition struct {
		Raw       string `json:"raw" yaml:"raw"`
		Negated   bool   `json:"negated,omitempty" yaml:"negated,omitempty"`
		Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty"`
		Operator  string `json:"operator,omitempty" yaml:"operator,omitempty"`
		Value     string `json:"value,omitempty" yaml:"value,omitempty"`
	}

	// Actions groups the per-rule action configurations
	Actions struct {
		Update           *UpdateAction           `json:"update,omitempty" yaml:"update,omitempty"`
		Label            *LabelAction            `json:"label,omitempty" yaml:"label,omitempty"`
		DeleteHeadBranch *DeleteHeadBranchAction `json:"deleteHeadBranch,omitempty" yaml:"delete_head_branch,omitempty"`
		// Unknown lists action names the loader did not recognize
		Unknown []string `json:"unknown,omitempty" yaml:"-"`
	}

	// UpdateAction brings the pull-request branch up to date with its base
	UpdateAction struct {
		Method string `json:"method,omitempty" yaml:"method,omitempty"`
	}

	// LabelAction adds, removes or toggles labels on the pull request
	LabelAction struct {
		Add    []string `json:"add,omitempty" yaml:"add,omitempty"`
		Remove []string `json:"remove,omitempty" yaml:"remove,omitempty"`
		Toggle []string `json:"toggle,omitempty" yaml:"toggle,omitempty"`
	}

	// DeleteHeadBranchAction deletes the source branch once the rule matches
	DeleteHeadBranchAction struct {
		Force bool `json:"force,omitempty" yaml:"force,omitempty"`
	}
)

var validate = validator.New()

// Validate performs a best-effort structural validation of the rule set.
func (r *RuleSet) Validate() []error {
	var issues []error
	if err := validate.Struct(r); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range fieldErrors {
				issues = append(issues, fmt.Errorf("%s failed %q constraint", fieldError.Namespace(), fieldError.Tag()))
			}
		} else {
			issues = append(issues, err)
		}
	}
	seen := map[string]bool{}
	for _, rule := range r.Rules {
		if rule == nil {
			continue
		}
		if seen[rule.Name] {
			issues = append(issues, fmt.Errorf("duplicate rule name %q", rule.Name))
		}
		seen[rule.Name] = true
		if rule.Actions != nil && rule.Actions.IsEmpty() {
			issues = append(issues, fmt.Errorf("rule %q declares no action", rule.Name))
		}
	}
	return issues
}

// IsEmpty reports whether no recognized action is configured.
func (a *Actions) IsEmpty() bool {
	return a == nil || (a.Update == nil && a.Label == nil && a.DeleteHeadBranch == nil && len(a.Unknown) == 0)
}

// Names returns the recognized action names configured on the rule.
func (a *Actions) Names() []string {
	var names []string
	if a == nil {
		return names
	}
	if a.Update != nil {
		names = append(names, ActionUpdate)
	}
	if a.Label != nil {
		names = append(names, ActionLabel)
	}
	if a.DeleteHeadBranch != nil {
		names = append(names, ActionDeleteHeadBranch)
	}
	return names
}

// NewRuleSet creates an empty rule set
func NewRuleSet() *RuleSet {
	return &RuleSet{}
}

// NewRule creates a rule with the given name and appends it to the set
func (r *RuleSet) NewRule(name string) *Rule {
	rule := &Rule{Name: name, Actions: &Actions{}}
	r.Rules = append(r.Rules, rule)
	return rule
}

// WithCondition appends a raw condition to the rule
func (r *Rule) WithCondition(raw string) *Rule {
	r.Conditions = append(r.Conditions, &Condition{Raw: raw})
	return r
}
