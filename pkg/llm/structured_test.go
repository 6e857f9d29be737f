package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare object", raw: `{"label":"casual"}`, want: `{"label":"casual"}`},
		{name: "fenced", raw: "```json\n{\"label\":\"price\"}\n```", want: `{"label":"price"}`},
		{name: "chatter around", raw: `Sure! {"a":{"b":1}} hope this helps`, want: `{"a":{"b":1}}`},
		{name: "no object", raw: "question", wantErr: true},
		{name: "reversed braces", raw: "} {", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNoJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeStructured(t *testing.T) {
	var out struct {
		Levels []string `json:"detected_levels"`
		Add    bool     `json:"should_add_to_context"`
	}
	err := DecodeStructured("```json\n{\"detected_levels\":[\"lise\"],\"should_add_to_context\":true}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, []string{"lise"}, out.Levels)
	assert.True(t, out.Add)

	assert.Error(t, DecodeStructured(`{"detected_levels": "oops`, &out))
}

func TestReplyFirstText(t *testing.T) {
	var nilReply *Reply
	assert.Equal(t, "", nilReply.FirstText())

	assert.Equal(t, "plain", (&Reply{Text: "plain"}).FirstText())

	blocks := &Reply{Blocks: []ContentBlock{
		{Type: "thinking", Text: "hmm"},
		{Type: BlockTypeText, Text: "answer"},
		{Type: BlockTypeText, Text: "second"},
	}}
	assert.Equal(t, "answer", blocks.FirstText())

	assert.Equal(t, "", (&Reply{Text: "   \n"}).FirstText())
	assert.Equal(t, "", (&Reply{Blocks: []ContentBlock{{Type: BlockTypeText, Text: " "}}}).FirstText())
}

func TestApplyOptions(t *testing.T) {
	o := ApplyOptions(0.4)
	require.NotNil(t, o.Temperature)
	assert.Equal(t, 0.4, *o.Temperature)

	o = ApplyOptions(0.4, WithTemperature(0), WithModel("m"), WithMaxTokens(10))
	assert.Equal(t, 0.0, *o.Temperature)
	assert.Equal(t, "m", o.Model)
	assert.Equal(t, 10, o.MaxTokens)
}
