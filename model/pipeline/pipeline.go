// Package pipeline models a hosted-CI pipeline definition: triggers, a
// concurrency policy and ordered job steps that invoke externally maintained
// actions by pinned revision.  The model is purely declarative – nothing in
// this module schedules or runs a pipeline.
package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

type (
	// Pipeline represents a single CI workflow document
	Pipeline struct {
		// Source provides information about the origin of the pipeline
		Source *Source `json:"source,omitempty" yaml:"source,omitempty"`
		// Name is the display name of the pipeline
		Name string `json:"name,omitempty" yaml:"name,omitempty"`

		On          *Trigger          `json:"on,omitempty" yaml:"on,omitempty" validate:"required"`
		Permissions map[string]string `json:"permissions,omitempty" yaml:"permissions,omitempty"`
		Concurrency *Concurrency      `json:"concurrency,omitempty" yaml:"concurrency,omitempty"`
		Jobs        map[string]*Job   `json:"jobs,omitempty" yaml:"jobs,omitempty" validate:"required,min=1,dive,required"`

		// UnknownKeys lists top-level keys the loader did not recognize
		UnknownKeys []string `json:"unknownKeys,omitempty" yaml:"-"`
	}

	// Source describes where the pipeline document was loaded from
	Source struct {
		URL string `json:"url,omitempty" yaml:"url,omitempty"`
	}

	// Trigger declares the events that start the pipeline
	Trigger struct {
		Push        *Ref        `json:"push,omitempty" yaml:"push,omitempty"`
		PullRequest *Ref        `json:"pullRequest,omitempty" yaml:"pull_request,omitempty"`
		Schedule    []*Schedule `json:"schedule,omitempty" yaml:"schedule,omitempty"`
		// UnknownKeys lists trigger events the loader did not recognize
		UnknownKeys []string `json:"unknownKeys,omitempty" yaml:"-"`
	}

	// Ref filters a trigger by branches or tags
	Ref struct {
		Branches []string `json:"branches,omitempty" yaml:"branches,omitempty"`
		Tags     []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	}

	// Schedule declares a cron trigger
	Schedule struct {
		Cron string `json:"cron" yaml:"cron" validate:"required"`
	}

	// Concurrency is the platform-interpreted run-grouping policy
	Concurrency struct {
		Group            string `json:"group" yaml:"group" validate:"required"`
		CancelInProgress bool   `json:"cancelInProgress,omitempty" yaml:"cancel-in-progress,omitempty"`
	}

	// Job is an ordered collection of steps executed on a runner
	Job struct {
		Name        string            `json:"name,omitempty" yaml:"name,omitempty"`
		RunsOn      string            `json:"runsOn,omitempty" yaml:"runs-on,omitempty" validate:"required"`
		Permissions map[string]string `json:"permissions,omitempty" yaml:"permissions,omitempty"`
		Steps       []*Step           `json:"steps,omitempty" yaml:"steps,omitempty" validate:"required,min=1,dive,required"`
		// UnknownKeys lists job-level keys the loader did not recognize
		UnknownKeys []string `json:"unknownKeys,omitempty" yaml:"-"`
	}

	// Step either invokes an external action (Uses) or runs a command (Run)
	Step struct {
		ID   string            `json:"id,omitempty" yaml:"id,omitempty"`
		Name string            `json:"name,omitempty" yaml:"name,omitempty"`
		Uses string            `json:"uses,omitempty" yaml:"uses,omitempty"`
		Run  string            `json:"run,omitempty" yaml:"run,omitempty"`
		With map[string]string `json:"with,omitempty" yaml:"with,omitempty"`
		Env  map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	}
)

// revisionPattern matches a full commit revision (40 hex characters).
var revisionPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// ActionRef splits a `uses` reference of the form owner/repo@revision.  The
// returned ok is false when the step does not invoke an action or the
// reference carries no revision.
func (s *Step) ActionRef() (action, revision string, ok bool) {
	if s.Uses == "" {
		return "", "", false
	}
	idx := strings.LastIndex(s.Uses, "@")
	if idx <= 0 || idx == len(s.Uses)-1 {
		return s.Uses, "", false
	}
	return s.Uses[:idx], s.Uses[idx+1:], true
}

// IsPinned reports whether the step invokes an action pinned to a full
// commit revision rather than a mutable tag or branch.
func (s *Step) IsPinned() bool {
	_, revision, ok := s.ActionRef()
	return ok && revisionPattern.MatchString(revision)
}

var validate = validator.New()

// Validate performs a best-effort structural validation of the pipeline.
// Struct-tag constraints are checked first; step shape rules (exactly one of
// uses/run) are verified manually since they cannot be expressed as tags.
func (p *Pipeline) Validate() []error {
	var issues []error
	if err := validate.Struct(p); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range fieldErrors {
				issues = append(issues, fmt.Errorf("%s failed %q constraint", fieldError.Namespace(), fieldError.Tag()))
			}
		} else {
			issues = append(issues, err)
		}
	}
	for jobID, job := range p.Jobs {
		if job == nil {
			continue
		}
		for i, step := range job.Steps {
			switch {
			case step == nil:
				continue
			case step.Uses == "" && step.Run == "":
				issues = append(issues, fmt.Errorf("job %s step %d declares neither uses nor run", jobID, i))
			case step.Uses != "" && step.Run != "":
				issues = append(issues, fmt.Errorf("job %s step %d declares both uses and run", jobID, i))
			}
		}
	}
	return issues
}

// NewPipeline creates a pipeline with the given name
func NewPipeline(name string) *Pipeline {
	return &Pipeline{Name: name, Jobs: map[string]*Job{}}
}

// NewJob creates a job and adds it to the pipeline
func (p *Pipeline) NewJob(id, runsOn string) *Job {
	if p.Jobs == nil {
		p.Jobs = map[string]*Job{}
	}
	job := &Job{RunsOn: runsOn}
	p.Jobs[id] = job
	return job
}

// WithUses appends an action-invoking step to the job
func (j *Job) WithUses(name, uses string, with map[string]string) *Job {
	j.Steps = append(j.Steps, &Step{Name: name, Uses: uses, With: with})
	return j
}

// WithRun appends a command step to the job
func (j *Job) WithRun(name, run string) *Job {
	j.Steps = append(j.Steps, &Step{Name: name, Run: run})
	return j
}
