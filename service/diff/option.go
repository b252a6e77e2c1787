package diff

type Option func(*Service)

// WithContextLines sets the number of context lines around each hunk
func WithContextLines(lines int) Option {
	return func(s *Service) {
		if lines >= 0 {
			s.contextLines = lines
		}
	}
}
