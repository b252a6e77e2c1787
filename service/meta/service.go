// Package meta provides the document source service: URL resolution against
// a base location, ${env.KEY} expansion and raw/YAML loading through the
// abstract file system.
package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads document sources from the abstract file system.
type Service struct {
	fs        afs.Service
	baseURL   string
	fsOptions []storage.Option
}

// Resolve expands env expressions and joins relative URLs with the base
// location.
func (s *Service) Resolve(URL string) string {
	URL = expandEnvExpr(URL)
	if s.baseURL == "" || isAbsolute(URL) {
		return URL
	}
	return url.Join(s.baseURL, URL)
}

// Download returns the raw content of the document at the supplied URL.
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	resolved := s.Resolve(URL)
	data, err := s.fs.DownloadWithURL(ctx, resolved, s.fsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", resolved, err)
	}
	return data, nil
}

// Load downloads the document at the supplied URL and unmarshals it as YAML
// into the target (typically a *yaml.Node).
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return err
	}
	if err = yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse yaml %s: %w", URL, err)
	}
	return nil
}

// Exists checks whether the document at the supplied URL exists.
func (s *Service) Exists(ctx context.Context, URL string) (bool, error) {
	return s.fs.Exists(ctx, s.Resolve(URL), s.fsOptions...)
}

// List returns the storage objects under the supplied URL.
func (s *Service) List(ctx context.Context, URL string, options ...storage.Option) ([]storage.Object, error) {
	options = append(options, s.fsOptions...)
	return s.fs.List(ctx, s.Resolve(URL), options...)
}

func isAbsolute(URL string) bool {
	return strings.Contains(URL, "://") || strings.HasPrefix(URL, "/")
}

// New creates a document source service.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	if fs == nil {
		fs = afs.New()
	}
	return &Service{fs: fs, baseURL: baseURL, fsOptions: options}
}
