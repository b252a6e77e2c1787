package procdoc

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/procdoc/procdoc/internal/clock"
	"github.com/procdoc/procdoc/internal/idgen"
	"github.com/procdoc/procdoc/progress"
	"github.com/procdoc/procdoc/service/messaging/memory"
	"github.com/procdoc/procdoc/service/validator"
	"github.com/procdoc/procdoc/tracing"
	"github.com/viant/afs/option"
)

// AuditReport aggregates the validation outcome of a repository walk.
type AuditReport struct {
	ID        string              `json:"id"`
	BaseURL   string              `json:"baseURL"`
	StartedAt time.Time           `json:"startedAt"`
	Duration  time.Duration       `json:"duration"`
	Reports   []*validator.Report `json:"reports,omitempty"`
	// Skipped lists files no document kind could be derived for
	Skipped []string `json:"skipped,omitempty"`
}

// IsValid reports whether every audited document passed validation.
func (r *AuditReport) IsValid() bool {
	for _, report := range r.Reports {
		if !report.IsValid() {
			return false
		}
	}
	return true
}

// Violations returns all violations across the audited documents.
func (r *AuditReport) Violations() []*validator.Violation {
	var violations []*validator.Violation
	for _, report := range r.Reports {
		violations = append(violations, report.Violations...)
	}
	return violations
}

type auditTask struct {
	URL  string
	Kind string
}

// Audit walks the tree under baseURL, classifies every file and validates
// the recognized documents with a pool of workers.  Per-document load
// failures are reported as violations; only listing failures abort the
// audit.
func (s *Service) Audit(ctx context.Context, baseURL string) (*AuditReport, error) {
	ctx, span := tracing.StartSpan(ctx, "audit", "INTERNAL")
	span.WithAttributes(map[string]string{"audit.baseURL": baseURL})

	result := &AuditReport{ID: idgen.New(), BaseURL: baseURL, StartedAt: clock.Now()}
	objects, err := s.metaService.List(ctx, baseURL, option.NewRecursive(true))
	if err != nil {
		err = fmt.Errorf("failed to list %s: %w", baseURL, err)
		tracing.EndSpan(span, err)
		return nil, err
	}

	var tasks []*auditTask
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		kind := s.registry.Kind(object.URL())
		if kind == "" {
			result.Skipped = append(result.Skipped, object.URL())
			progress.UpdateCtx(ctx, progress.Delta{Skipped: 1})
			continue
		}
		tasks = append(tasks, &auditTask{URL: object.URL(), Kind: kind})
		progress.UpdateCtx(ctx, progress.Delta{Discovered: 1})
	}
	sort.Strings(result.Skipped)
	if len(tasks) == 0 {
		result.Duration = time.Since(result.StartedAt)
		tracing.EndSpan(span, nil)
		return result, nil
	}

	queue := memory.NewQueue[auditTask](memory.Config{QueueBuffer: len(tasks)})
	for _, task := range tasks {
		if err := queue.Publish(ctx, task); err != nil {
			tracing.EndSpan(span, err)
			return nil, err
		}
	}

	workers := s.config.Concurrency
	if workers < 1 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	// workers drain the queue; the last completed task releases the rest
	workCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	pending := int64(len(tasks))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				message, err := queue.Consume(workCtx)
				if err != nil {
					return
				}
				task := message.T()
				report := s.validateKind(workCtx, task.URL, task.Kind)
				_ = message.Ack()

				mu.Lock()
				result.Reports = append(result.Reports, report)
				mu.Unlock()

				delta := progress.Delta{Validated: 1, Warnings: len(report.Warnings()), Errors: len(report.Errors())}
				if !report.IsValid() {
					delta.Failed = 1
				}
				progress.UpdateCtx(workCtx, delta)

				if atomic.AddInt64(&pending, -1) == 0 {
					cancel()
				}
			}
		}()
	}
	wg.Wait()

	sort.Slice(result.Reports, func(i, j int) bool {
		return result.Reports[i].URL < result.Reports[j].URL
	})
	result.Duration = time.Since(result.StartedAt)
	tracing.EndSpan(span, nil)
	return result, nil
}
