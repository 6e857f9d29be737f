package search

import (
	"context"
	"errors"
	"testing"

	"parent-assistant-be/pkg/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	task string
	err  error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string, taskType string) ([]float32, error) {
	f.task = taskType
	if f.err != nil {
		return nil, f.err
	}
	return []float32{1, 0}, nil
}

type fakeIndex struct {
	gotN int
	out  []Candidate
}

func (f *fakeIndex) Nearest(_ context.Context, vector []float32, n int) ([]Candidate, error) {
	f.gotN = n
	return f.out, nil
}

func TestEmbeddingSearcher(t *testing.T) {
	emb := &fakeEmbedder{}
	idx := &fakeIndex{out: []Candidate{{Title: "Servis", Level: "lise", Score: 0.1}}}
	s := NewEmbeddingSearcher(emb, idx, 0)

	got, err := s.Search(context.Background(), "servis", 8)
	require.NoError(t, err)
	assert.Equal(t, idx.out, got)
	assert.Equal(t, 8, idx.gotN)
	assert.Equal(t, embedding.TaskRetrievalQuery, emb.task)
}

func TestEmbeddingSearcher_EmbedError(t *testing.T) {
	s := NewEmbeddingSearcher(&fakeEmbedder{err: errors.New("quota")}, &fakeIndex{}, 0)

	_, err := s.Search(context.Background(), "servis", 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}
