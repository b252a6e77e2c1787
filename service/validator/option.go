package validator

type Option func(*Service)

// WithProcessRules replaces the default process rules
func WithProcessRules(rules ...ProcessRule) Option {
	return func(s *Service) {
		s.processRules = rules
	}
}

// WithPipelineRules replaces the default pipeline rules
func WithPipelineRules(rules ...PipelineRule) Option {
	return func(s *Service) {
		s.pipelineRules = rules
	}
}

// WithAutomationRules replaces the default automation rules
func WithAutomationRules(rules ...AutomationRule) Option {
	return func(s *Service) {
		s.automationRules = rules
	}
}
