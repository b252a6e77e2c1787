package validator

import (
	"fmt"
	"time"

	"github.com/procdoc/procdoc/internal/clock"
	"github.com/procdoc/procdoc/internal/idgen"
)

// Severity levels attached to violations.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation describes a single failed check.
type Violation struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	// Path locates the offending element, e.g. a node id, a job id or a
	// dotted key path
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
}

func (v *Violation) String() string {
	if v.Path == "" {
		return fmt.Sprintf("%s: [%s] %s", v.Severity, v.Rule, v.Message)
	}
	return fmt.Sprintf("%s: [%s] %s: %s", v.Severity, v.Rule, v.Path, v.Message)
}

// Report aggregates the outcome of validating a single document.
type Report struct {
	ID         string       `json:"id"`
	URL        string       `json:"url,omitempty"`
	Kind       string       `json:"kind"`
	CreatedAt  time.Time    `json:"createdAt"`
	Violations []*Violation `json:"violations,omitempty"`
}

// NewReport creates an empty report for a document.
func NewReport(url, kind string) *Report {
	return &Report{
		ID:        idgen.New(),
		URL:       url,
		Kind:      kind,
		CreatedAt: clock.Now(),
	}
}

// Append adds violations to the report.
func (r *Report) Append(violations ...*Violation) {
	r.Violations = append(r.Violations, violations...)
}

// IsValid reports whether the report holds no error-severity violations.
func (r *Report) IsValid() bool {
	return len(r.Errors()) == 0
}

// Errors returns the error-severity violations.
func (r *Report) Errors() []*Violation {
	var errs []*Violation
	for _, violation := range r.Violations {
		if violation.Severity == SeverityError {
			errs = append(errs, violation)
		}
	}
	return errs
}

// Warnings returns the warning-severity violations.
func (r *Report) Warnings() []*Violation {
	var warnings []*Violation
	for _, violation := range r.Violations {
		if violation.Severity == SeverityWarning {
			warnings = append(warnings, violation)
		}
	}
	return warnings
}

// Merge appends another report's violations into this one.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}
