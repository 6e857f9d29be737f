package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"parent-assistant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Chat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(chatResponse{Message: message{Role: "assistant", Content: "Merhaba!"}, Done: true})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", 0.4)
	reply, err := p.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "role"},
		{Role: llm.RoleUser, Content: "Merhaba"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Merhaba!", reply.FirstText())

	assert.Equal(t, "llama3", got.Model)
	assert.False(t, got.Stream)
	assert.Len(t, got.Messages, 2)
	assert.Equal(t, 0.4, got.Options.Temperature)
	assert.Empty(t, got.Format)
}

func TestOllamaProvider_GenerateStructured(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(chatResponse{Message: message{Content: `{"label":"event"}`}, Done: true})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3", 0.4)
	var out struct {
		Label string `json:"label"`
	}
	schema := &llm.Schema{Type: llm.TypeObject, Properties: map[string]*llm.Schema{"label": {Type: llm.TypeString}}}

	err := p.GenerateStructured(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "x"}}, schema, &out)
	require.NoError(t, err)
	assert.Equal(t, "event", out.Label)
	assert.NotEmpty(t, got.Format)
	assert.Equal(t, 0.0, got.Options.Temperature)
}

func TestOllamaProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "missing", 0.4)
	_, err := p.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
