package memory

import (
	"context"

	"github.com/procdoc/procdoc/model"
	"github.com/procdoc/procdoc/service/dao"
	"github.com/procdoc/procdoc/service/dao/criteria"
	"github.com/procdoc/procdoc/service/dao/store"
)

// Service implements an in-memory, thread-safe registry for parsed
// documents.
type Service struct {
	store *store.MemoryStore[string, model.Document]
}

var _ dao.Service[string, model.Document] = (*Service)(nil)

// Save stores or overwrites a document.
func (s *Service) Save(ctx context.Context, document *model.Document) error {
	if document == nil {
		return dao.ErrNilEntity
	}
	if document.ID == "" {
		return dao.ErrInvalidID
	}
	return s.store.Save(ctx, document)
}

// Load returns a document by id.
func (s *Service) Load(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	return s.store.Load(ctx, id)
}

// Delete removes a document by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	return s.store.Delete(ctx, id)
}

// List returns documents, optionally filtered by kind.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Document, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Document, 0, len(all))
	for _, document := range all {
		if !criteria.FilterByKind(document.Kind, parameters) {
			continue
		}
		out = append(out, document)
	}
	return out, nil
}

// New creates a new in-memory document registry.
func New() *Service {
	return &Service{
		store: store.NewMemoryStore[string, model.Document](func(d *model.Document) string { return d.ID }),
	}
}
