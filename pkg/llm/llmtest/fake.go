// Package llmtest provides an in-memory LLMProvider for tests.
package llmtest

import (
	"context"
	"sync"

	"parent-assistant-be/pkg/llm"
)

// Fake records calls and answers from its configured fields.
// Structured returns the raw JSON text a model would emit.
type Fake struct {
	Reply      *llm.Reply
	ChatErr    error
	Structured func(messages []llm.Message, schema *llm.Schema) (string, error)

	mu              sync.Mutex
	chatCalls       [][]llm.Message
	structuredCalls [][]llm.Message
}

var _ llm.LLMProvider = (*Fake)(nil)

func (f *Fake) Chat(_ context.Context, history []llm.Message, _ ...llm.Option) (*llm.Reply, error) {
	f.mu.Lock()
	f.chatCalls = append(f.chatCalls, append([]llm.Message(nil), history...))
	f.mu.Unlock()

	if f.ChatErr != nil {
		return nil, f.ChatErr
	}
	if f.Reply == nil {
		return &llm.Reply{}, nil
	}
	return f.Reply, nil
}

func (f *Fake) Generate(ctx context.Context, prompt string, options ...llm.Option) (*llm.Reply, error) {
	return f.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}

func (f *Fake) GenerateStructured(_ context.Context, history []llm.Message, schema *llm.Schema, out any, _ ...llm.Option) error {
	f.mu.Lock()
	f.structuredCalls = append(f.structuredCalls, append([]llm.Message(nil), history...))
	f.mu.Unlock()

	if f.Structured == nil {
		return llm.ErrNoJSON
	}
	raw, err := f.Structured(history, schema)
	if err != nil {
		return err
	}
	return llm.DecodeStructured(raw, out)
}

func (f *Fake) ChatCalls() [][]llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]llm.Message(nil), f.chatCalls...)
}

func (f *Fake) StructuredCalls() [][]llm.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]llm.Message(nil), f.structuredCalls...)
}

// HasProperty reports whether schema declares the named top-level property.
func HasProperty(schema *llm.Schema, name string) bool {
	if schema == nil {
		return false
	}
	_, ok := schema.Properties[name]
	return ok
}
