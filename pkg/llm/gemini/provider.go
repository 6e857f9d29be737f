package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"parent-assistant-be/pkg/llm"

	"google.golang.org/genai"
)

type GeminiProvider struct {
	client      *genai.Client
	modelName   string
	temperature float64
}

// Ensure GeminiProvider implements LLMProvider
var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string, temperature float64) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiProvider{
		client:      client,
		modelName:   modelName,
		temperature: temperature,
	}, nil
}

func (p *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (*llm.Reply, error) {
	options := llm.ApplyOptions(p.temperature, opts...)
	contents, system := toContents(history)

	res, err := p.client.Models.GenerateContent(ctx, p.model(options), contents, p.config(options, system))
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	return toReply(res), nil
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (*llm.Reply, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}

func (p *GeminiProvider) GenerateStructured(ctx context.Context, history []llm.Message, schema *llm.Schema, out any, opts ...llm.Option) error {
	options := llm.ApplyOptions(0, opts...)
	contents, system := toContents(history)

	cfg := p.config(options, system)
	cfg.ResponseMIMEType = "application/json"
	cfg.ResponseSchema = toSchema(schema)

	res, err := p.client.Models.GenerateContent(ctx, p.model(options), contents, cfg)
	if err != nil {
		return fmt.Errorf("gemini structured generate: %w", err)
	}

	text := res.Text()
	if err := json.Unmarshal([]byte(text), out); err != nil {
		// some models still wrap the payload in a fence
		return llm.DecodeStructured(text, out)
	}
	return nil
}

func (p *GeminiProvider) model(options *llm.Options) string {
	if options.Model != "" {
		return options.Model
	}
	return p.modelName
}

func (p *GeminiProvider) config(options *llm.Options, system string) *genai.GenerateContentConfig {
	temp := float32(*options.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	if options.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(options.MaxTokens)
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return cfg
}

// toContents splits system messages into the system instruction and maps the
// rest onto Gemini roles.
func toContents(history []llm.Message) ([]*genai.Content, string) {
	var system []string
	contents := make([]*genai.Content, 0, len(history))

	for _, m := range history {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, m.Content)
		case llm.RoleAssistant, "model":
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents, strings.Join(system, "\n\n")
}

func toReply(res *genai.GenerateContentResponse) *llm.Reply {
	reply := &llm.Reply{}
	if res == nil || len(res.Candidates) == 0 || res.Candidates[0].Content == nil {
		return reply
	}

	for _, part := range res.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		switch {
		case part.Thought:
			reply.Blocks = append(reply.Blocks, llm.ContentBlock{Type: "thinking", Text: part.Text})
		case part.FunctionCall != nil:
			reply.Blocks = append(reply.Blocks, llm.ContentBlock{Type: "function_call", Text: part.FunctionCall.Name})
		case part.Text != "":
			reply.Blocks = append(reply.Blocks, llm.ContentBlock{Type: llm.BlockTypeText, Text: part.Text})
		}
	}
	return reply
}

func toSchema(s *llm.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       toSchema(s.Items),
	}
	switch s.Type {
	case llm.TypeObject:
		out.Type = genai.TypeObject
	case llm.TypeArray:
		out.Type = genai.TypeArray
	case llm.TypeNumber:
		out.Type = genai.TypeNumber
	case llm.TypeBoolean:
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toSchema(prop)
		}
	}
	return out
}
