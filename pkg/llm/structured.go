package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Schema is the subset of JSON schema the providers translate into their
// native structured-output settings.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Enum        []string           `json:"enum,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// ErrNoJSON is returned when a structured reply holds no JSON object.
var ErrNoJSON = errors.New("no JSON object in model output")

// ExtractJSON pulls the outermost JSON object out of a model reply,
// tolerating ```json fences and chatter around it.
func ExtractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

// DecodeStructured extracts and unmarshals the JSON object from raw into out.
func DecodeStructured(raw string, out any) error {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("decode structured output: %w", err)
	}
	return nil
}

// SchemaInstruction renders schema as a prompt suffix for backends without
// native schema support.
func SchemaInstruction(schema *Schema) string {
	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "Respond with ONLY valid JSON."
	}
	return "Respond with ONLY valid JSON matching this schema:\n" + string(b)
}
