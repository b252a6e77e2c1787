package event

type Option func(*Service)

// WithListener registers a listener at construction time
func WithListener(listener Listener) Option {
	return func(s *Service) {
		s.Subscribe(listener)
	}
}
