package extension

type Option func(*Registry)

// WithExtension maps a file extension to a document kind
func WithExtension(ext, kind string) Option {
	return func(r *Registry) {
		r.RegisterExtension(ext, kind)
	}
}

// WithMatcher registers a custom classification matcher
func WithMatcher(matcher Matcher) Option {
	return func(r *Registry) {
		r.RegisterMatcher(matcher)
	}
}
