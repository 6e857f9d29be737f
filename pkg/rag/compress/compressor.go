package compress

import (
	"regexp"
	"strings"

	"parent-assistant-be/pkg/rag/search"
)

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

type Config struct {
	Enabled      bool
	MaxChunks    int
	MaxSentences int
}

func DefaultConfig() Config {
	return Config{Enabled: true, MaxChunks: 3, MaxSentences: 3}
}

// Stats describes one compression for logging.
type Stats struct {
	OriginalChars   int
	CompressedChars int
	Chunks          int
	Applied         bool
}

// Reduction is the share of characters removed, in percent.
func (s Stats) Reduction() float64 {
	if s.OriginalChars == 0 {
		return 0
	}
	return float64(s.OriginalChars-s.CompressedChars) / float64(s.OriginalChars) * 100
}

// Compress caps the number of chunks and shortens each chunk body to its
// first and last sentences. The result is never longer than the input.
func Compress(text string, cfg Config) (string, Stats) {
	stats := Stats{OriginalChars: len(text), CompressedChars: len(text)}
	if !cfg.Enabled || strings.TrimSpace(text) == "" || search.IsNoInfo(text) {
		return text, stats
	}

	chunks := strings.Split(text, search.ChunkDelimiter)
	if cfg.MaxChunks > 0 && len(chunks) > cfg.MaxChunks {
		chunks = chunks[:cfg.MaxChunks]
	}

	out := make([]string, len(chunks))
	for i, chunk := range chunks {
		out[i] = compressChunk(chunk, cfg.MaxSentences)
	}
	result := strings.Join(out, search.ChunkDelimiter)

	stats.Chunks = len(out)
	if len(result) >= len(text) {
		return text, stats
	}
	stats.CompressedChars = len(result)
	stats.Applied = true
	return result, stats
}

// compressChunk keeps the header line verbatim and reduces the body.
func compressChunk(chunk string, maxSentences int) string {
	header, body, found := strings.Cut(chunk, "\n")
	if !found {
		return chunk
	}
	return header + "\n" + reduceSentences(body, maxSentences)
}

func reduceSentences(body string, maxSentences int) string {
	if maxSentences <= 0 {
		return body
	}

	var sentences []string
	for _, s := range sentenceBoundary.Split(strings.TrimSpace(body), -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	if len(sentences) <= maxSentences {
		return body
	}

	kept := []string{sentences[0]}
	if maxSentences > 1 {
		kept = append(kept, sentences[len(sentences)-(maxSentences-1):]...)
	}

	result := strings.Join(kept, ". ")
	if !strings.HasSuffix(result, ".") {
		result += "."
	}
	return result
}
