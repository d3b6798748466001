package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/doc-workflow/internal/domain/entity"
)

func TestDocumentRegistry(t *testing.T) {
	blogs := &mockBlogRepo{
		getByIDFunc: func(ctx context.Context, id string) (*entity.BlogPost, error) {
			if id != "p1" {
				return nil, nil
			}
			return &entity.BlogPost{ID: "p1", Title: "T", Amount: ptr(42.0)}, nil
		},
	}
	r := NewDocumentRegistry(blogs)

	doc, err := r.Load(context.Background(), entity.CollectionBlog, "p1")
	require.NoError(t, err)
	amount, ok := doc.Number("amount")
	assert.True(t, ok)
	assert.Equal(t, 42.0, amount)

	doc, err = r.Load(context.Background(), entity.CollectionBlog, "missing")
	require.NoError(t, err)
	assert.Nil(t, doc)

	doc, err = r.Load(context.Background(), "pages", "p1")
	require.NoError(t, err)
	assert.Nil(t, doc)

	r.Register("pages", func(ctx context.Context, id string) (entity.Document, error) {
		return entity.Document{"id": id}, nil
	})
	doc, err = r.Load(context.Background(), "pages", "x")
	require.NoError(t, err)
	assert.Equal(t, "x", doc["id"])
}
