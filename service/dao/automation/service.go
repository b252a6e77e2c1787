// Package automation loads pull-request automation rule documents into the
// model.  Like the pipeline loader it is tolerant: unknown keys and action
// names are collected for the validator instead of failing the load, and
// conditions that do not parse keep their raw form only.
package automation

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/procdoc/procdoc/internal/yml"
	"github.com/procdoc/procdoc/model/automation"
	"github.com/procdoc/procdoc/service/dao/automation/conditions"
	"github.com/procdoc/procdoc/service/meta"
)

// Service loads and decodes automation rule sets.
type Service struct {
	metaService *meta.Service
}

// DecodeYAML decodes a rule set from YAML.
func (s *Service) DecodeYAML(encoded []byte) (*automation.RuleSet, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(encoded, &node); err != nil {
		return nil, err
	}
	return s.ParseRuleSet("", &node)
}

// Load loads a rule set from YAML at the specified URL.
func (s *Service) Load(ctx context.Context, URL string) (*automation.RuleSet, error) {
	ext := filepath.Ext(URL)
	if ext == "" {
		URL += ".yaml"
	}
	var node yaml.Node
	if err := s.metaService.Load(ctx, URL, &node); err != nil {
		return nil, fmt.Errorf("failed to load rule set from %s: %w", URL, err)
	}
	return s.ParseRuleSet(URL, &node)
}

// ParseRuleSet converts a YAML node into the rule set model.
func (s *Service) ParseRuleSet(URL string, node *yaml.Node) (*automation.RuleSet, error) {
	result := &automation.RuleSet{}
	if URL != "" {
		result.Source = &automation.Source{URL: URL}
	}

	rootNode := yml.Root(node)
	err := rootNode.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "pull_request_rules":
			if valueNode.Kind != yaml.SequenceNode {
				return fmt.Errorf("pull_request_rules should be a sequence")
			}
			return valueNode.Items(func(index int, ruleNode *yml.Node) error {
				rule, err := parseRule(ruleNode)
				if err != nil {
					return fmt.Errorf("rule %d: %w", index, err)
				}
				result.Rules = append(result.Rules, rule)
				return nil
			})
		default:
			result.UnknownKeys = append(result.UnknownKeys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse rule set from %s: %w", URL, err)
	}
	return result, nil
}

// parseRule converts a single rule mapping.
func parseRule(node *yml.Node) (*automation.Rule, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("rule should be a mapping")
	}
	rule := &automation.Rule{}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			rule.Name = valueNode.Value
		case "conditions":
			if valueNode.Kind != yaml.SequenceNode {
				return fmt.Errorf("conditions should be a sequence")
			}
			return valueNode.Items(func(_ int, item *yml.Node) error {
				rule.Conditions = append(rule.Conditions, parseCondition(item.Value))
				return nil
			})
		case "actions":
			actions, err := parseActions(valueNode)
			if err != nil {
				return err
			}
			rule.Actions = actions
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rule, nil
}

// parseCondition parses a raw condition, falling back to the raw-only form
// when the condition grammar does not match so that the validator can report
// it.
func parseCondition(raw string) *automation.Condition {
	condition, err := conditions.Parse([]byte(raw))
	if err != nil {
		return &automation.Condition{Raw: raw}
	}
	return condition
}

// parseActions converts the actions mapping of a rule.
func parseActions(node *yml.Node) (*automation.Actions, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("actions should be a mapping")
	}
	actions := &automation.Actions{}
	err := node.Pairs(func(name string, valueNode *yml.Node) error {
		switch strings.ToLower(name) {
		case automation.ActionUpdate:
			action := &automation.UpdateAction{}
			if method := valueNode.Lookup("method"); method != nil {
				action.Method = method.Value
			}
			actions.Update = action
		case automation.ActionLabel:
			action := &automation.LabelAction{}
			if add := valueNode.Lookup("add"); add != nil {
				action.Add = add.Strings()
			}
			if remove := valueNode.Lookup("remove"); remove != nil {
				action.Remove = remove.Strings()
			}
			if toggle := valueNode.Lookup("toggle"); toggle != nil {
				action.Toggle = toggle.Strings()
			}
			actions.Label = action
		case automation.ActionDeleteHeadBranch:
			action := &automation.DeleteHeadBranchAction{}
			if force := valueNode.Lookup("force"); force != nil {
				action.Force = force.Bool()
			}
			actions.DeleteHeadBranch = action
		default:
			actions.Unknown = append(actions.Unknown, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return actions, nil
}

// New creates a new rule-set loader service.
func New(opts ...Option) *Service {
	ret := &Service{
		metaService: meta.New(afs.New(), ""),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
