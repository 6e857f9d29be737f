package embedding

import (
	"context"
	"fmt"
)

// NewProvider builds the embedder selected by EMBEDDING_PROVIDER.
func NewProvider(ctx context.Context, provider, apiKey, model, ollamaBaseURL string) (EmbeddingProvider, error) {
	switch provider {
	case "gemini", "":
		return NewGeminiProvider(ctx, apiKey, model)
	case "ollama":
		return NewOllamaProvider(ollamaBaseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}
