package procdoc

import (
	"github.com/procdoc/procdoc/extension"
	"github.com/procdoc/procdoc/model"
	"github.com/procdoc/procdoc/service/dao"
	"github.com/procdoc/procdoc/service/diff"
	"github.com/procdoc/procdoc/service/event"
	"github.com/procdoc/procdoc/service/meta"
	"github.com/procdoc/procdoc/service/validator"
)

type Option func(*Service)

// WithConfig replaces the default configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithMetaService replaces the document source service
func WithMetaService(metaService *meta.Service) Option {
	return func(s *Service) {
		s.metaService = metaService
	}
}

// WithDocumentDAO replaces the document registry store
func WithDocumentDAO(documents dao.Service[string, model.Document]) Option {
	return func(s *Service) {
		s.documents = documents
	}
}

// WithValidator replaces the validator service
func WithValidator(service *validator.Service) Option {
	return func(s *Service) {
		s.validator = service
	}
}

// WithDiffer replaces the diff service
func WithDiffer(service *diff.Service) Option {
	return func(s *Service) {
		s.differ = service
	}
}

// WithExtensions replaces the document-kind registry
func WithExtensions(registry *extension.Registry) Option {
	return func(s *Service) {
		s.registry = registry
	}
}

// WithEventService replaces the event service
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.events = service
	}
}

// WithListener subscribes a document lifecycle listener
func WithListener(listener event.Listener) Option {
	return func(s *Service) {
		if s.events == nil {
			s.events = event.New()
		}
		s.events.Subscribe(listener)
	}
}
