package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"

	"github.com/procdoc/procdoc/model"
	"github.com/procdoc/procdoc/service/dao"
	"github.com/procdoc/procdoc/service/dao/criteria"
)

// Service implements a filesystem-based document registry.  Documents are
// stored as individual JSON files under the base path.
type Service struct {
	basePath string
	fs       afs.Service
	mu       sync.RWMutex
}

var _ dao.Service[string, model.Document] = (*Service)(nil)

// Save persists a document to the filesystem.
func (s *Service) Save(ctx context.Context, document *model.Document) error {
	if document == nil {
		return dao.ErrNilEntity
	}
	if document.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	filePath := s.documentPath(document.ID)
	if err = s.fs.Upload(ctx, filePath, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save document to file %s: %w", filePath, err)
	}
	return nil
}

// Load retrieves a document from the filesystem.
func (s *Service) Load(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := s.documentPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check if document exists: %w", err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}

	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}

	var document model.Document
	if err = json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document data: %w", err)
	}
	return &document, nil
}

// Delete removes a document from the filesystem.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := s.documentPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return fmt.Errorf("failed to check if document exists: %w", err)
	}
	if !exists {
		return dao.ErrNotFound
	}

	if err = s.fs.Delete(ctx, filePath); err != nil {
		return fmt.Errorf("failed to delete document file %s: %w", filePath, err)
	}
	return nil
}

// List returns all documents, optionally filtered by kind.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.basePath, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list document files: %w", err)
	}

	var documents []*model.Document
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}

		data, err := s.fs.Download(ctx, object)
		if err != nil {
			continue
		}

		var document model.Document
		if err = json.Unmarshal(data, &document); err != nil {
			continue
		}
		if !criteria.FilterByKind(document.Kind, parameters) {
			continue
		}
		documents = append(documents, &document)
	}
	return documents, nil
}

// documentPath returns the file path for a document.
func (s *Service) documentPath(id string) string {
	return path.Join(s.basePath, fmt.Sprintf("%s.json", id))
}

// New creates a new filesystem document registry rooted at basePath.
func New(basePath string) (*Service, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	fs := afs.New()

	ctx := context.Background()
	exists, _ := fs.Exists(ctx, basePath)
	if !exists {
		if err := fs.Create(ctx, basePath, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}

	basePath = url.Normalize(basePath, file.Scheme)

	return &Service{basePath: basePath, fs: fs}, nil
}
