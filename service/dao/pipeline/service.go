// Package pipeline loads CI pipeline documents into the model.  Parsing is
// deliberately tolerant: unrecognized keys are collected on the model rather
// than failing the load, so the validator can report them as violations.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/procdoc/procdoc/internal/yml"
	"github.com/procdoc/procdoc/model/pipeline"
	"github.com/procdoc/procdoc/service/meta"
)

// Service loads and decodes CI pipeline definitions.
type Service struct {
	metaService *meta.Service
}

// DecodeYAML decodes a pipeline from YAML.
func (s *Service) DecodeYAML(encoded []byte) (*pipeline.Pipeline, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(encoded, &node); err != nil {
		return nil, err
	}
	return s.ParsePipeline("", &node)
}

// Load loads a pipeline from YAML at the specified URL.
func (s *Service) Load(ctx context.Context, URL string) (*pipeline.Pipeline, error) {
	ext := filepath.Ext(URL)
	if ext == "" {
		URL += ".yaml"
	}
	var node yaml.Node
	if err := s.metaService.Load(ctx, URL, &node); err != nil {
		return nil, fmt.Errorf("failed to load pipeline from %s: %w", URL, err)
	}
	return s.ParsePipeline(URL, &node)
}

// ParsePipeline converts a YAML node into the pipeline model.
func (s *Service) ParsePipeline(URL string, node *yaml.Node) (*pipeline.Pipeline, error) {
	result := &pipeline.Pipeline{}
	if URL != "" {
		result.Source = &pipeline.Source{URL: URL}
	}

	rootNode := yml.Root(node)
	err := rootNode.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			if valueNode.Kind == yaml.ScalarNode {
				result.Name = valueNode.Value
			}
		case "on", "true": // bare `on:` decodes as a YAML boolean key
			trigger, err := parseTrigger(valueNode)
			if err != nil {
				return fmt.Errorf("failed to parse trigger: %w", err)
			}
			result.On = trigger
		case "permissions":
			result.Permissions = valueNode.StringMap()
		case "concurrency":
			concurrency, err := parseConcurrency(valueNode)
			if err != nil {
				return fmt.Errorf("failed to parse concurrency: %w", err)
			}
			result.Concurrency = concurrency
		case "jobs":
			result.Jobs = map[string]*pipeline.Job{}
			if valueNode.Kind != yaml.MappingNode {
				return fmt.Errorf("jobs node should be a mapping")
			}
			return valueNode.Pairs(func(jobID string, jobNode *yml.Node) error {
				job, err := parseJob(jobID, jobNode)
				if err != nil {
					return err
				}
				result.Jobs[jobID] = job
				return nil
			})
		default:
			result.UnknownKeys = append(result.UnknownKeys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse pipeline from %s: %w", URL, err)
	}
	return result, nil
}

// parseTrigger converts a YAML node into the trigger model.  Triggers can be
// a scalar (single event), a sequence of events or a mapping with per-event
// filters.
func parseTrigger(node *yml.Node) (*pipeline.Trigger, error) {
	trigger := &pipeline.Trigger{}
	assign := func(event string, value *yml.Node) error {
		switch strings.ToLower(event) {
		case "push":
			trigger.Push = parseRef(value)
		case "pull_request":
			trigger.PullRequest = parseRef(value)
		case "schedule":
			if value == nil || value.Kind != yaml.SequenceNode {
				return fmt.Errorf("schedule should be a sequence")
			}
			return value.Items(func(_ int, item *yml.Node) error {
				cron := item.Lookup("cron")
				if cron == nil {
					return fmt.Errorf("schedule entry is missing cron")
				}
				trigger.Schedule = append(trigger.Schedule, &pipeline.Schedule{Cron: cron.Value})
				return nil
			})
		default:
			trigger.UnknownKeys = append(trigger.UnknownKeys, event)
		}
		return nil
	}

	switch node.Kind {
	case yaml.ScalarNode:
		return trigger, assign(node.Value, nil)
	case yaml.SequenceNode:
		return trigger, node.Items(func(_ int, item *yml.Node) error {
			return assign(item.Value, nil)
		})
	case yaml.MappingNode:
		return trigger, node.Pairs(assign)
	}
	return nil, fmt.Errorf("trigger node should be a scalar, sequence or mapping")
}

// parseRef converts an optional branch/tag filter mapping.
func parseRef(node *yml.Node) *pipeline.Ref {
	ref := &pipeline.Ref{}
	if node == nil || node.Kind != yaml.MappingNode {
		return ref
	}
	if branches := node.Lookup("branches"); branches != nil {
		ref.Branches = branches.Strings()
	}
	if tags := node.Lookup("tags"); tags != nil {
		ref.Tags = tags.Strings()
	}
	return ref
}

// parseConcurrency converts the concurrency policy node.  A scalar is the
// short form declaring only the group.
func parseConcurrency(node *yml.Node) (*pipeline.Concurrency, error) {
	if node.Kind == yaml.ScalarNode {
		return &pipeline.Concurrency{Group: node.Value}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("concurrency node should be a scalar or mapping")
	}
	concurrency := &pipeline.Concurrency{}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "group":
			concurrency.Group = valueNode.Value
		case "cancel-in-progress":
			concurrency.CancelInProgress = valueNode.Bool()
		}
		return nil
	})
	return concurrency, err
}

// parseJob converts a single job mapping.
func parseJob(id string, node *yml.Node) (*pipeline.Job, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("job %s should be a mapping", id)
	}
	job := &pipeline.Job{}
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "name":
			job.Name = valueNode.Value
		case "runs-on":
			job.RunsOn = valueNode.Value
		case "permissions":
			job.Permissions = valueNode.StringMap()
		case "steps":
			if valueNode.Kind != yaml.SequenceNode {
				return fmt.Errorf("job %s steps should be a sequence", id)
			}
			return valueNode.Items(func(index int, stepNode *yml.Node) error {
				step, unknown, err := parseStep(stepNode)
				if err != nil {
					return fmt.Errorf("job %s step %d: %w", id, index, err)
				}
				for _, key := range unknown {
					job.UnknownKeys = append(job.UnknownKeys, fmt.Sprintf("steps[%d].%s", index, key))
				}
				job.Steps = append(job.Steps, step)
				return nil
			})
		default:
			job.UnknownKeys = append(job.UnknownKeys, key)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// parseStep converts a single step mapping and returns any unrecognized
// keys.
func parseStep(node *yml.Node) (*pipeline.Step, []string, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("step should be a mapping")
	}
	step := &pipeline.Step{}
	var unknown []string
	err := node.Pairs(func(key string, valueNode *yml.Node) error {
		switch strings.ToLower(key) {
		case "id":
			step.ID = valueNode.Value
		case "name":
			step.Name = valueNode.Value
		case "uses":
			step.Uses = valueNode.Value
		case "run":
			step.Run = valueNode.Value
		case "with":
			step.With = valueNode.StringMap()
		case "env":
			step.Env = valueNode.StringMap()
		default:
			unknown = append(unknown, key)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return step, unknown, nil
}

// New creates a new pipeline loader service.
func New(opts ...Option) *Service {
	ret := &Service{
		metaService: meta.New(afs.New(), ""),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
