// Package validator implements structural validation of the declarative
// documents the toolkit models: BPMN process definitions, CI pipeline
// definitions and pull-request automation rule sets.  Every check is a named
// rule producing violations; rule selection and severity can be shaped per
// run via the policy package.
package validator

import (
	"context"

	"github.com/procdoc/procdoc/model"
	"github.com/procdoc/procdoc/model/automation"
	"github.com/procdoc/procdoc/model/pipeline"
	"github.com/procdoc/procdoc/policy"
	"github.com/procdoc/procdoc/tracing"
)

type (
	// ProcessRule checks one property of a BPMN definitions document
	ProcessRule interface {
		Name() string
		Check(definitions *model.Definitions) []*Violation
	}

	// PipelineRule checks one property of a CI pipeline document
	PipelineRule interface {
		Name() string
		Check(document *pipeline.Pipeline) []*Violation
	}

	// AutomationRule checks one property of an automation rule set
	AutomationRule interface {
		Name() string
		Check(document *automation.RuleSet) []*Violation
	}

	// Service runs the configured rules over documents
	Service struct {
		processRules    []ProcessRule
		pipelineRules   []PipelineRule
		automationRules []AutomationRule
	}
)

// ValidateProcess runs all process rules over the definitions document.
func (s *Service) ValidateProcess(ctx context.Context, definitions *model.Definitions) *Report {
	_, span := tracing.StartSpan(ctx, "validator.process", "INTERNAL")
	report := NewReport(definitions.SourceURL, model.DocumentKindProcess)
	runPolicy := policy.FromContext(ctx)
	for _, rule := range s.processRules {
		if !runPolicy.IsEnabled(rule.Name()) {
			continue
		}
		report.Append(applyPolicy(runPolicy, rule.Check(definitions))...)
	}
	span.WithAttributes(map[string]string{"document.url": definitions.SourceURL})
	tracing.EndSpan(span, nil)
	return report
}

// ValidatePipeline runs all pipeline rules over the pipeline document.
func (s *Service) ValidatePipeline(ctx context.Context, document *pipeline.Pipeline) *Report {
	_, span := tracing.StartSpan(ctx, "validator.pipeline", "INTERNAL")
	var URL string
	if document.Source != nil {
		URL = document.Source.URL
	}
	report := NewReport(URL, model.DocumentKindPipeline)
	runPolicy := policy.FromContext(ctx)
	for _, rule := range s.pipelineRules {
		if !runPolicy.IsEnabled(rule.Name()) {
			continue
		}
		report.Append(applyPolicy(runPolicy, rule.Check(document))...)
	}
	span.WithAttributes(map[string]string{"document.url": URL})
	tracing.EndSpan(span, nil)
	return report
}

// ValidateRuleSet runs all automation rules over the rule-set document.
func (s *Service) ValidateRuleSet(ctx context.Context, document *automation.RuleSet) *Report {
	_, span := tracing.StartSpan(ctx, "validator.automation", "INTERNAL")
	var URL string
	if document.Source != nil {
		URL = document.Source.URL
	}
	report := NewReport(URL, model.DocumentKindAutomation)
	runPolicy := policy.FromContext(ctx)
	for _, rule := range s.automationRules {
		if !runPolicy.IsEnabled(rule.Name()) {
			continue
		}
		report.Append(applyPolicy(runPolicy, rule.Check(document))...)
	}
	span.WithAttributes(map[string]string{"document.url": URL})
	tracing.EndSpan(span, nil)
	return report
}

// applyPolicy demotes violations to warnings when the policy is advisory.
func applyPolicy(runPolicy *policy.Policy, violations []*Violation) []*Violation {
	if !runPolicy.IsAdvisory() {
		return violations
	}
	for _, violation := range violations {
		violation.Severity = SeverityWarning
	}
	return violations
}

// New creates a validator service with the default rule set unless options
// override it.
func New(opts ...Option) *Service {
	ret := &Service{}
	for _, opt := range opts {
		opt(ret)
	}
	if len(ret.processRules) == 0 {
		ret.processRules = DefaultProcessRules()
	}
	if len(ret.pipelineRules) == 0 {
		ret.pipelineRules = DefaultPipelineRules()
	}
	if len(ret.automationRules) == 0 {
		ret.automationRules = DefaultAutomationRules()
	}
	return ret
}
