package factory

import (
	"context"
	"fmt"

	"parent-assistant-be/pkg/llm"
	"parent-assistant-be/pkg/llm/gemini"
	"parent-assistant-be/pkg/llm/huggingface"
	"parent-assistant-be/pkg/llm/ollama"
)

type Settings struct {
	Provider    string
	Model       string
	Temperature float64
	APIKey      string // Gemini or HuggingFace key depending on Provider
	BaseURL     string // Ollama / HuggingFace router override
}

func NewLLMProvider(ctx context.Context, s Settings) (llm.LLMProvider, error) {
	switch s.Provider {
	case "gemini":
		return gemini.NewGeminiProvider(ctx, s.APIKey, s.Model, s.Temperature)
	case "ollama":
		baseURL := s.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, s.Model, s.Temperature), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(s.APIKey, "", s.Model, s.Temperature), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", s.Provider)
	}
}
