// Package diff computes textual differences between two revisions of a
// process or automation document.  Documents are first re-marshalled into a
// canonical form so that formatting-only edits do not show up as changes.
package diff

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/procdoc/procdoc/model"
	"github.com/procdoc/procdoc/model/automation"
	"github.com/procdoc/procdoc/model/pipeline"
	"github.com/procdoc/procdoc/tracing"
	godiff "github.com/sourcegraph/go-diff/diff"
	"gopkg.in/yaml.v3"
)

// Change summarises a single document comparison.
type Change struct {
	Path    string `json:"path,omitempty"`
	Added   int    `json:"added"`
	Deleted int    `json:"deleted"`
	Unified string `json:"unified,omitempty"`
}

// HasChanges reports whether the comparison produced any difference.
func (c *Change) HasChanges() bool {
	return c != nil && (c.Added > 0 || c.Deleted > 0)
}

// Service computes document diffs.
type Service struct {
	contextLines int
}

// New creates a diff service.
func New(opts ...Option) *Service {
	ret := &Service{contextLines: 3}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Unified produces a unified diff between two text revisions.
func (s *Service) Unified(path, before, after string) (string, error) {
	unified := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  s.contextLines,
	}
	return difflib.GetUnifiedDiffString(unified)
}

// Compare diffs two text revisions and summarises the change using the
// parsed hunks.
func (s *Service) Compare(ctx context.Context, path, before, after string) (*Change, error) {
	_, span := tracing.StartSpan(ctx, "diff.compare", "INTERNAL")
	change, err := s.compare(path, before, after)
	tracing.EndSpan(span, err)
	return change, err
}

func (s *Service) compare(path, before, after string) (*Change, error) {
	unified, err := s.Unified(path, before, after)
	if err != nil {
		return nil, fmt.Errorf("failed to diff %v: %w", path, err)
	}
	change := &Change{Path: path, Unified: unified}
	if unified == "" {
		return change, nil
	}
	fileDiff, err := godiff.ParseFileDiff([]byte(unified))
	if err != nil {
		return nil, fmt.Errorf("failed to parse diff for %v: %w", path, err)
	}
	stat := fileDiff.Stat()
	change.Added = int(stat.Added + stat.Changed)
	change.Deleted = int(stat.Deleted + stat.Changed)
	return change, nil
}

// CompareProcess diffs two revisions of a BPMN definitions document.
func (s *Service) CompareProcess(ctx context.Context, before, after *model.Definitions) (*Change, error) {
	beforeText, err := canonicalJSON(before)
	if err != nil {
		return nil, err
	}
	afterText, err := canonicalJSON(after)
	if err != nil {
		return nil, err
	}
	return s.Compare(ctx, diffPath(before.SourceURL, after.SourceURL, "process.bpmn"), beforeText, afterText)
}

// ComparePipeline diffs two revisions of a pipeline document.
func (s *Service) ComparePipeline(ctx context.Context, before, after *pipeline.Pipeline) (*Change, error) {
	beforeText, err := canonicalYAML(before)
	if err != nil {
		return nil, err
	}
	afterText, err := canonicalYAML(after)
	if err != nil {
		return nil, err
	}
	var beforeURL, afterURL string
	if before.Source != nil {
		beforeURL = before.Source.URL
	}
	if after.Source != nil {
		afterURL = after.Source.URL
	}
	return s.Compare(ctx, diffPath(beforeURL, afterURL, "pipeline.yaml"), beforeText, afterText)
}

// CompareRuleSet diffs two revisions of an automation rule set.
func (s *Service) CompareRuleSet(ctx context.Context, before, after *automation.RuleSet) (*Change, error) {
	beforeText, err := canonicalYAML(before)
	if err != nil {
		return nil, err
	}
	afterText, err := canonicalYAML(after)
	if err != nil {
		return nil, err
	}
	var beforeURL, afterURL string
	if before.Source != nil {
		beforeURL = before.Source.URL
	}
	if after.Source != nil {
		afterURL = after.Source.URL
	}
	return s.Compare(ctx, diffPath(beforeURL, afterURL, "rules.yaml"), beforeText, afterText)
}

// canonicalJSON renders a document as indented JSON with stable key order.
func canonicalJSON(value interface{}) (string, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	return string(data) + "\n", nil
}

// canonicalYAML renders a document as YAML with stable key order.
func canonicalYAML(value interface{}) (string, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	return string(data), nil
}

func diffPath(beforeURL, afterURL, fallback string) string {
	if afterURL != "" {
		return afterURL
	}
	if beforeURL != "" {
		return beforeURL
	}
	return fallback
}
