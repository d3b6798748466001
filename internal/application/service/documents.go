package service

import (
	"context"
	"sync"

	"github.com/garyjia/doc-workflow/internal/application/port"
	"github.com/garyjia/doc-workflow/internal/domain/entity"
)

// DocumentLoader loads one document of a collection; (nil, nil) means not found
type DocumentLoader func(ctx context.Context, id string) (entity.Document, error)

// DocumentRegistry resolves documents of any registered collection
type DocumentRegistry struct {
	mu      sync.RWMutex
	loaders map[string]DocumentLoader
}

// NewDocumentRegistry creates a registry with the blog collection registered
func NewDocumentRegistry(blogRepo port.BlogRepository) *DocumentRegistry {
	r := &DocumentRegistry{loaders: make(map[string]DocumentLoader)}
	r.Register(entity.CollectionBlog, func(ctx context.Context, id string) (entity.Document, error) {
		post, err := blogRepo.GetByID(ctx, id)
		if err != nil || post == nil {
			return nil, err
		}
		return post.Document(), nil
	})
	return r
}

// Register adds or replaces the loader for a collection
func (r *DocumentRegistry) Register(collection string, loader DocumentLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[collection] = loader
}

// Load returns (nil, nil) for unknown collections
func (r *DocumentRegistry) Load(ctx context.Context, collection, id string) (entity.Document, error) {
	r.mu.RLock()
	loader, ok := r.loaders[collection]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return loader(ctx, id)
}

var _ port.DocumentSource = (*DocumentRegistry)(nil)
