// Package bpmn loads BPMN 2.0 process-definition documents into the model.
package bpmn

import (
	"context"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/procdoc/procdoc/model"
	"github.com/procdoc/procdoc/service/meta"
	"github.com/viant/afs"
)

// knownElements is the BPMN 2.0 vocabulary subset this model understands.
// Elements outside the BPMN namespace (diagram interchange and the like) are
// ignored rather than reported.
var knownElements = map[string]bool{
	"definitions":       true,
	"process":           true,
	"startEvent":        true,
	"serviceTask":       true,
	"endEvent":          true,
	"sequenceFlow":      true,
	"extensionElements": true,
	"documentation":     true,
	"incoming":          true,
	"outgoing":          true,
}

// Service loads and decodes BPMN process definitions.
type Service struct {
	metaService *meta.Service
	validate    bool
}

// DecodeXML decodes a definitions document from BPMN XML.
func (s *Service) DecodeXML(encoded []byte) (*model.Definitions, error) {
	definitions := &model.Definitions{}
	if err := xml.Unmarshal(encoded, definitions); err != nil {
		return nil, fmt.Errorf("failed to parse bpmn document: %w", err)
	}
	if definitions.XMLName.Space != model.Namespace {
		return nil, fmt.Errorf("unexpected root namespace %q, expected %q", definitions.XMLName.Space, model.Namespace)
	}
	definitions.UnknownElements = unknownElements(encoded)
	return definitions, nil
}

// Load loads a process definition from BPMN XML at the specified URL.
func (s *Service) Load(ctx context.Context, URL string) (*model.Definitions, error) {
	ext := filepath.Ext(URL)
	if ext == "" {
		URL += ".bpmn"
	}
	data, err := s.metaService.Download(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load process from %s: %w", URL, err)
	}
	definitions, err := s.DecodeXML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse process from %s: %w", URL, err)
	}
	definitions.SourceURL = URL
	if s.validate {
		if issues := definitions.Validate(); len(issues) > 0 {
			return nil, issues[0]
		}
	}
	return definitions, nil
}

// unknownElements walks the raw XML token stream and collects BPMN-namespace
// element names the model does not understand.
func unknownElements(encoded []byte) []string {
	decoder := xml.NewDecoder(strings.NewReader(string(encoded)))
	seen := map[string]bool{}
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Space != model.Namespace && start.Name.Space != "" {
			continue
		}
		if !knownElements[start.Name.Local] {
			seen[start.Name.Local] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New creates a new BPMN loader service.
func New(opts ...Option) *Service {
	ret := &Service{
		metaService: meta.New(afs.New(), ""),
		validate:    true,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
