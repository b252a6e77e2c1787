package extension

import (
	"path"
	"strings"

	"github.com/procdoc/procdoc/model"
)

// Matcher inspects a document URL and returns the document kind it
// recognizes, or an empty string.
type Matcher func(URL string) string

// Registry maps document locations to document kinds.  Classification runs
// custom matchers first, then falls back to the extension table.
type Registry struct {
	extensions map[string]string
	matchers   []Matcher
}

// New creates a registry pre-populated with the built-in document kinds.
func New(opts ...Option) *Registry {
	ret := &Registry{
		extensions: map[string]string{
			".bpmn": model.DocumentKindProcess,
			".yaml": model.DocumentKindPipeline,
			".yml":  model.DocumentKindPipeline,
		},
		matchers: []Matcher{matchAutomation, matchProcessXML},
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// RegisterExtension maps a file extension (with leading dot) to a kind.
func (r *Registry) RegisterExtension(ext, kind string) {
	r.extensions[strings.ToLower(ext)] = kind
}

// RegisterMatcher prepends a custom matcher; the most recently registered
// matcher wins.
func (r *Registry) RegisterMatcher(matcher Matcher) {
	r.matchers = append([]Matcher{matcher}, r.matchers...)
}

// Kind classifies a document URL; it returns an empty string for locations
// the registry does not recognize.
func (r *Registry) Kind(URL string) string {
	for _, matcher := range r.matchers {
		if kind := matcher(URL); kind != "" {
			return kind
		}
	}
	return r.extensions[strings.ToLower(path.Ext(URL))]
}

// matchAutomation recognizes hosted-bot rule files by conventional name.
func matchAutomation(URL string) string {
	name := strings.ToLower(path.Base(URL))
	if name == ".mergify.yml" || name == "mergify.yml" || strings.HasPrefix(name, "pr-rules") {
		return model.DocumentKindAutomation
	}
	return ""
}

// matchProcessXML recognizes the .bpmn20.xml naming some exporters use.
func matchProcessXML(URL string) string {
	name := strings.ToLower(path.Base(URL))
	if strings.HasSuffix(name, ".bpmn20.xml") || strings.HasSuffix(name, ".bpmn.xml") {
		return model.DocumentKindProcess
	}
	return ""
}
