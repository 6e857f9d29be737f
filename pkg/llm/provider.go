package llm

import (
	"context"
	"strings"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ContentBlock is one typed part of a model reply (text, thought, tool call...).
type ContentBlock struct {
	Type string
	Text string
}

const BlockTypeText = "text"

// Reply is either a plain string (Text) or a list of typed blocks.
// Providers fill whichever their backend returns.
type Reply struct {
	Text   string
	Blocks []ContentBlock
}

// FirstText returns the plain text when present, otherwise the first
// block tagged as text. Whitespace-only values count as absent.
func (r *Reply) FirstText() string {
	if r == nil {
		return ""
	}
	if strings.TrimSpace(r.Text) != "" {
		return r.Text
	}
	for _, b := range r.Blocks {
		if b.Type == BlockTypeText {
			if strings.TrimSpace(b.Text) == "" {
				return ""
			}
			return b.Text
		}
	}
	return ""
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature *float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = &temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ApplyOptions folds opts over the provider defaults.
func ApplyOptions(defaultTemp float64, opts ...Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}
	if options.Temperature == nil {
		options.Temperature = &defaultTemp
	}
	return options
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (*Reply, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (*Reply, error)

	// GenerateStructured asks the model for JSON matching schema and decodes it into out.
	GenerateStructured(ctx context.Context, history []Message, schema *Schema, out any, options ...Option) error
}
