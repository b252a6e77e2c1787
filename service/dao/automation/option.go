package automation

import "github.com/procdoc/procdoc/service/meta"

type Option func(*Service)

// WithMetaService sets the document source service
func WithMetaService(metaService *meta.Service) Option {
	return func(s *Service) {
		s.metaService = metaService
	}
}
