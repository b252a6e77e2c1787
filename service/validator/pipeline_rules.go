package validator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/procdoc/procdoc/model/pipeline"
)

// Pipeline rule names.
const (
	RulePipelineSchema         = "pipeline-schema"
	RulePipelineRecognizedKeys = "pipeline-recognized-keys"
	RulePipelinePinnedActions  = "pipeline-pinned-actions"
	RulePipelineCronFormat     = "pipeline-cron-format"
)

// DefaultPipelineRules returns the built-in pipeline rules.
func DefaultPipelineRules() []PipelineRule {
	return []PipelineRule{
		&pipelineSchemaRule{},
		&recognizedKeysRule{},
		&pinnedActionsRule{},
		&cronFormatRule{},
	}
}

// pipelineSchemaRule surfaces the model's structural validation as violations.
type pipelineSchemaRule struct{}

func (r *pipelineSchemaRule) Name() string { return RulePipelineSchema }

func (r *pipelineSchemaRule) Check(document *pipeline.Pipeline) []*Violation {
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

// recognizedKeysRule reports keys the loader preserved but did not map.
// Unrecognized keys are legal on the hosting platform, hence warning
// severity.
type recognizedKeysRule struct{}

func (r *recognizedKeysRule) Name() string { return RulePipelineRecognizedKeys }

func (r *recognizedKeysRule) Check(document *pipeline.Pipeline) []*Violation {
	var violations []*Violation
	for _, key := range document.UnknownKeys {
		violations = append(violations, &Violation{
			Rule:     r.Name(),
			Severity: SeverityWarning,
			Path:     key,
			Message:  "unrecognized top-level key",
		})
	}
	if document.On != nil {
		for _, key := range document.On.UnknownKeys {
			violations = append(violations, &Violation{
				Rule:     r.Name(),
				Severity: SeverityWarning,
				Path:     "on." + key,
				Message:  "unrecognized trigger event",
			})
		}
	}
	for _, jobID := range sortedJobIDs(document) {
		job := document.Jobs[jobID]
		if job == nil {
			continue
		}
		for _, key := range job.UnknownKeys {
			violations = append(violations, &Violation{
				Rule:     r.Name(),
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("jobs.%s.%s", jobID, key),
				Message:  "unrecognized job key",
			})
		}
	}
	return violations
}

// pinnedActionsRule flags action invocations not pinned to a full commit
// revision.
type pinnedActionsRule struct{}

func (r *pinnedActionsRule) Name() string { return RulePipelinePinnedActions }

func (r *pinnedActionsRule) Check(document *pipeline.Pipeline) []*Violation {
	var violations []*Violation
	for _, jobID := range sortedJobIDs(document) {
		job := document.Jobs[jobID]
		if job == nil {
			continue
		}
		for i, step := range job.Steps {
			if step == nil || step.Uses == "" || step.IsPinned() {
				continue
			}
			violations = append(violations, &Violation{
				Rule:     r.Name(),
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("jobs.%s.steps[%d]", jobID, i),
				Message:  fmt.Sprintf("action %q is not pinned to a commit revision", step.Uses),
			})
		}
	}
	return violations
}

// cronFormatRule verifies schedule expressions use the five-field cron
// syntax.
type cronFormatRule struct{}

func (r *cronFormatRule) Name() string { return RulePipelineCronFormat }

func (r *cronFormatRule) Check(document *pipeline.Pipeline) []*Violation {
	if document.On == nil {
		return nil
	}
	var violations []*Violation
	for i, schedule := range document.On.Schedule {
		if schedule == nil {
			continue
		}
		if err := checkCron(schedule.Cron); err != nil {
			violations = append(violations, &Violation{
				Rule:     r.Name(),
				Severity: SeverityError,
				Path:     fmt.Sprintf("on.schedule[%d]", i),
				Message:  err.Error(),
			})
		}
	}
	return violations
}

// cron field ranges: minute, hour, day of month, month, day of week.
var cronRanges = [5][2]int{{0, 59}, {0, 23}, {1, 31}, {1, 12}, {0, 6}}

func checkCron(expr string) error {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return fmt.Errorf("cron %q has %d fields, expected 5", expr, len(fields))
	}
	for i, field := range fields {
		if !checkCronField(field, cronRanges[i][0], cronRanges[i][1]) {
			return fmt.Errorf("cron %q field %d is out of range", expr, i+1)
		}
	}
	return nil
}

func checkCronField(field string, min, max int) bool {
	for _, part := range strings.Split(field, ",") {
		if idx := strings.Index(part, "/"); idx != -1 {
			step := part[idx+1:]
			if _, err := strconv.Atoi(step); err != nil {
				return false
			}
			part = part[:idx]
		}
		if part == "*" {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		for _, bound := range bounds {
			value, err := strconv.Atoi(bound)
			if err != nil || value < min || value > max {
				return false
			}
		}
	}
	return true
}

func sortedJobIDs(document *pipeline.Pipeline) []string {
	ids := make([]string, 0, len(document.Jobs))
	for id := range document.Jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
