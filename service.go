package procdoc

import (
	"context"
	"fmt"

	"github.com/procdoc/procdoc/extension"
	"github.com/procdoc/procdoc/internal/idgen"
	"github.com/procdoc/procdoc/model"
	"github.com/procdoc/procdoc/model/automation"
	"github.com/procdoc/procdoc/model/pipeline"
	"github.com/procdoc/procdoc/policy"
	"github.com/procdoc/procdoc/service/dao"
	automationdao "github.com/procdoc/procdoc/service/dao/automation"
	"github.com/procdoc/procdoc/service/dao/bpmn"
	documentmemory "github.com/procdoc/procdoc/service/dao/document/memory"
	pipelinedao "github.com/procdoc/procdoc/service/dao/pipeline"
	"github.com/procdoc/procdoc/service/diff"
	"github.com/procdoc/procdoc/service/event"
	"github.com/procdoc/procdoc/service/meta"
	"github.com/procdoc/procdoc/service/validator"
	"github.com/viant/afs"
)

// Service is the toolkit façade wiring loaders, the validator, the differ
// and the document registry together.
type Service struct {
	config        *Config
	metaService   *meta.Service
	processDAO    *bpmn.Service
	pipelineDAO   *pipelinedao.Service
	automationDAO *automationdao.Service
	documents     dao.Service[string, model.Document]
	validator     *validator.Service
	differ        *diff.Service
	registry      *extension.Registry
	events        *event.Service
}

// New creates a toolkit service; defaults are filled for every collaborator
// no option replaced.
func New(options ...Option) *Service {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	if ret.config == nil {
		ret.config = DefaultConfig()
	}
	ret.config.Init()
	if ret.metaService == nil {
		ret.metaService = meta.New(afs.New(), ret.config.MetaBaseURL)
	}
	if ret.processDAO == nil {
		// validation stays with the validator service so that audits
		// report issues instead of failing the load
		ret.processDAO = bpmn.New(bpmn.WithMetaService(ret.metaService), bpmn.WithValidation(false))
	}
	if ret.pipelineDAO == nil {
		ret.pipelineDAO = pipelinedao.New(pipelinedao.WithMetaService(ret.metaService))
	}
	if ret.automationDAO == nil {
		ret.automationDAO = automationdao.New(automationdao.WithMetaService(ret.metaService))
	}
	if ret.documents == nil {
		ret.documents = documentmemory.New()
	}
	if ret.validator == nil {
		ret.validator = validator.New()
	}
	if ret.differ == nil {
		ret.differ = diff.New()
	}
	if ret.registry == nil {
		ret.registry = extension.New()
	}
	if ret.events == nil {
		ret.events = event.New()
	}
	return ret
}

// LoadProcess loads a BPMN definitions document and registers it.
func (s *Service) LoadProcess(ctx context.Context, URL string) (*model.Definitions, error) {
	definitions, err := s.processDAO.Load(ctx, URL)
	if err != nil {
		s.events.Publish(ctx, event.NewEvent(event.TypeDocumentFailed, URL, model.DocumentKindProcess).WithError(err))
		return nil, err
	}
	name := ""
	if process := definitions.MainProcess(); process != nil {
		name = process.Name
	}
	s.register(ctx, definitions.SourceURL, model.DocumentKindProcess, name, definitions)
	return definitions, nil
}

// LoadPipeline loads a CI pipeline document and registers it.
func (s *Service) LoadPipeline(ctx context.Context, URL string) (*pipeline.Pipeline, error) {
	document, err := s.pipelineDAO.Load(ctx, URL)
	if err != nil {
		s.events.Publish(ctx, event.NewEvent(event.TypeDocumentFailed, URL, model.DocumentKindPipeline).WithError(err))
		return nil, err
	}
	s.register(ctx, sourceURL(document.Source), model.DocumentKindPipeline, document.Name, document)
	return document, nil
}

// LoadRuleSet loads an automation rule-set document and registers it.
func (s *Service) LoadRuleSet(ctx context.Context, URL string) (*automation.RuleSet, error) {
	document, err := s.automationDAO.Load(ctx, URL)
	if err != nil {
		s.events.Publish(ctx, event.NewEvent(event.TypeDocumentFailed, URL, model.DocumentKindAutomation).WithError(err))
		return nil, err
	}
	var source string
	if document.Source != nil {
		source = document.Source.URL
	}
	s.register(ctx, source, model.DocumentKindAutomation, "", document)
	return document, nil
}

// ValidateURL classifies, loads and validates the document at the supplied
// URL.  Load failures surface as a report violation rather than an error so
// that audits keep going.
func (s *Service) ValidateURL(ctx context.Context, URL string) (*validator.Report, error) {
	kind := s.registry.Kind(URL)
	if kind == "" {
		return nil, fmt.Errorf("unable to classify document: %s", URL)
	}
	return s.validateKind(ctx, URL, kind), nil
}

func (s *Service) validateKind(ctx context.Context, URL, kind string) *validator.Report {
	ctx = s.withPolicy(ctx)
	var report *validator.Report
	switch kind {
	case model.DocumentKindProcess:
		definitions, err := s.LoadProcess(ctx, URL)
		if err != nil {
			return loadFailure(URL, kind, err)
		}
		report = s.validator.ValidateProcess(ctx, definitions)
	case model.DocumentKindPipeline:
		document, err := s.LoadPipeline(ctx, URL)
		if err != nil {
			return loadFailure(URL, kind, err)
		}
		report = s.validator.ValidatePipeline(ctx, document)
	case model.DocumentKindAutomation:
		document, err := s.LoadRuleSet(ctx, URL)
		if err != nil {
			return loadFailure(URL, kind, err)
		}
		report = s.validator.ValidateRuleSet(ctx, document)
	default:
		return loadFailure(URL, kind, fmt.Errorf("unsupported document kind: %s", kind))
	}
	s.events.Publish(ctx, event.NewEvent(event.TypeDocumentValidated, URL, kind).WithReport(report))
	return report
}

// RuleDocumentLoad marks reports produced for documents that failed to load
// or parse.
const RuleDocumentLoad = "document-load"

func loadFailure(URL, kind string, err error) *validator.Report {
	report := validator.NewReport(URL, kind)
	report.Append(&validator.Violation{
		Rule:     RuleDocumentLoad,
		Severity: validator.SeverityError,
		Message:  err.Error(),
	})
	return report
}

// register stores the document envelope; registration failures are silent
// since the registry is a secondary index.
func (s *Service) register(ctx context.Context, URL, kind, name string, body interface{}) {
	document, err := model.NewDocument(idgen.New(), URL, kind, name, body)
	if err != nil {
		return
	}
	_ = s.documents.Save(ctx, document)
	s.events.Publish(ctx, event.NewEvent(event.TypeDocumentLoaded, URL, kind))
}

// withPolicy applies the configured policy unless the context already
// carries one.
func (s *Service) withPolicy(ctx context.Context) context.Context {
	if s.config.Policy == nil || policy.FromContext(ctx) != nil {
		return ctx
	}
	return policy.WithPolicy(ctx, policy.FromConfig(s.config.Policy))
}

func sourceURL(source *pipeline.Source) string {
	if source == nil {
		return ""
	}
	return source.URL
}

// Meta returns the document source service.
func (s *Service) Meta() *meta.Service { return s.metaService }

// Documents returns the document registry.
func (s *Service) Documents() dao.Service[string, model.Document] { return s.documents }

// Validator returns the validator service.
func (s *Service) Validator() *validator.Service { return s.validator }

// Differ returns the diff service.
func (s *Service) Differ() *diff.Service { return s.differ }

// Events returns the event service.
func (s *Service) Events() *event.Service { return s.events }

// Extensions returns the document-kind registry.
func (s *Service) Extensions() *extension.Registry { return s.registry }
