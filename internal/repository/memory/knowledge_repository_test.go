package memory

import (
	"context"
	"testing"

	"parent-assistant-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnowledgeRepository_SearchSimilar(t *testing.T) {
	repo := NewKnowledgeRepository()
	ctx := context.Background()

	require.NoError(t, repo.CreateBulk(ctx, []*entity.KnowledgeChunk{
		{Level: "lise", Title: "Servis", Embedding: []float32{1, 0, 0}},
		{Level: "ortaokul", Title: "Kulüp", Embedding: []float32{0, 1, 0}},
		{Level: "lise", Title: "Yemek", Embedding: []float32{0.8, 0.6, 0}},
		{Level: "lise", Title: "Bozuk", Embedding: []float32{1, 0}},
	}))

	got, err := repo.SearchSimilar(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Servis", got[0].Chunk.Title)
	assert.InDelta(t, 0.0, got[0].Distance, 1e-9)
	assert.Equal(t, "Yemek", got[1].Chunk.Title)
	assert.InDelta(t, 0.2, got[1].Distance, 1e-6)

	all, err := repo.SearchSimilar(ctx, []float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3, "dimension mismatch is skipped")
	assert.Equal(t, "Kulüp", all[2].Chunk.Title)
}

func TestKnowledgeRepository_LevelBookkeeping(t *testing.T) {
	repo := NewKnowledgeRepository()
	ctx := context.Background()

	require.NoError(t, repo.CreateBulk(ctx, []*entity.KnowledgeChunk{
		{Level: "lise", Embedding: []float32{1}},
		{Level: "lise", Embedding: []float32{1}},
		{Level: "anaokulu", Embedding: []float32{1}},
	}))

	counts, err := repo.CountByLevel(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"lise": 2, "anaokulu": 1}, counts)

	require.NoError(t, repo.DeleteByLevel(ctx, "lise"))
	counts, err = repo.CountByLevel(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"anaokulu": 1}, counts)
}

func TestKnowledgeRepository_AssignsIDs(t *testing.T) {
	repo := NewKnowledgeRepository()
	chunk := &entity.KnowledgeChunk{Level: "ilkokul", Embedding: []float32{1, 1}}
	require.NoError(t, repo.CreateBulk(context.Background(), []*entity.KnowledgeChunk{chunk}))
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", chunk.Id.String())
	assert.False(t, chunk.CreatedAt.IsZero())
}
