package validator

import (
	"fmt"

	"github.com/procdoc/procdoc/model/automation"
	"github.com/procdoc/procdoc/service/dao/automation/conditions"
)

// Automation rule names.
const (
	RuleAutomationSchema          = "automation-schema"
	RuleAutomationConditionSyntax = "automation-condition-syntax"
	RuleAutomationKnownActions    = "automation-known-actions"
	RuleAutomationRecognizedKeys  = "automation-recognized-keys"
)

// DefaultAutomationRules returns the built-in automation rules.
func DefaultAutomationRules() []AutomationRule {
	return []AutomationRule{
		&ruleSetSchemaRule{},
		&conditionSyntaxRule{},
		&knownActionsRule{},
		&ruleSetKeysRule{},
	}
}

// ruleSetSchemaRule surfaces the model's structural validation as violations.
type ruleSetSchemaRule struct{}

func (r *ruleSetSchemaRule) Name() string { return RuleAutomationSchema }

func (r *ruleSetSchemaRule) Check(document *automation.RuleSet) []*Violation {
	var violations []*Violation
	for _, issue := range document.Validate() {
		violations = append(violations, &Violation{
			Rule:     r.Name(),
			Severity: SeverityError,
			Message:  issue.Error(),
		})
	}
	return violations
}

// conditionSyntaxRule re-parses each raw condition and reports the ones the
// condition grammar rejects.
type conditionSyntaxRule struct{}

func (r *conditionSyntaxRule) Name() string { return RuleAutomationConditionSyntax }

func (r *conditionSyntaxRule) Check(document *automation.RuleSet) []*Violation {
	var violations []*Violation
	for _, rule := range document.Rules {
		if rule == nil {
			continue
		}
		for i, condition := range rule.Conditions {
			if condition == nil {
				continue
			}
			if _, err := conditions.Parse([]byte(condition.Raw)); err != nil {
				violations = append(violations, &Violation{
					Rule:     r.Name(),
					Severity: SeverityError,
					Path:     fmt.Sprintf("%s.conditions[%d]", rule.Name, i),
					Message:  err.Error(),
				})
			}
		}
	}
	return violations
}

// knownActionsRule flags actions outside the modelled action set.  The bot
// may still understand them, hence warning severity.
type knownActionsRule struct{}

func (r *knownActionsRule) Name() string { return RuleAutomationKnownActions }

func (r *knownActionsRule) Check(document *automation.RuleSet) []*Violation {
	var violations []*Violation
	for _, rule := range document.Rules {
		if rule == nil || rule.Actions == nil {
			continue
		}
		for _, name := range rule.Actions.Unknown {
			violations = append(violations, &Violation{
				Rule:     r.Name(),
				Severity: SeverityWarning,
				Path:     rule.Name,
				Message:  fmt.Sprintf("unrecognized action %q", name),
			})
		}
	}
	return violations
}

// ruleSetKeysRule reports top-level keys the loader did not map.
type ruleSetKeysRule struct{}

func (r *ruleSetKeysRule) Name() string { return RuleAutomationRecognizedKeys }

func (r *ruleSetKeysRule) Check(document *automation.RuleSet) []*Violation {
	var violations []*Violation
	for _, key := range document.UnknownKeys {
		violations = append(violations, &Violation{
			Rule:     r.Name(),
			Severity: SeverityWarning,
			Path:     key,
			Message:  "unrecognized top-level key",
		})
	}
	return violations
}
