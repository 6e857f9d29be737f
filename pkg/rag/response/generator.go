package response

import (
	"context"
	"strings"
	"time"

	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/pkg/llm"
	"parent-assistant-be/pkg/rag/history"
	"parent-assistant-be/pkg/rag/level"
	"parent-assistant-be/pkg/rag/prompt"
	"parent-assistant-be/pkg/rag/ragerr"
)

// Status tells the session whether the answer may be recorded.
type Status string

const (
	StatusOK       Status = "ok"
	StatusFallback Status = "fallback"
	StatusFailed   Status = "failed"
)

type Answer struct {
	Text   string
	Status Status
}

type Request struct {
	Query   string
	Context string
	Levels  level.Set
	History []history.Turn
}

type Config struct {
	HistoryWindow int
	Temperature   float64
	Timeout       time.Duration
}

func DefaultConfig() Config {
	return Config{HistoryWindow: 10, Temperature: 0.4, Timeout: 30 * time.Second}
}

// Generator composes the answer request and runs the single model call.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	trace       logger.ILogger
	cfg         Config
}

// NewGenerator creates a new response generator. trace receives full
// prompts and replies; pass a nop logger to disable it.
func NewGenerator(llmProvider llm.LLMProvider, log, trace logger.ILogger, cfg Config) *Generator {
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultConfig().HistoryWindow
	}
	return &Generator{
		llmProvider: llmProvider,
		logger:      log,
		trace:       trace,
		cfg:         cfg,
	}
}

// Messages builds the ordered request: system prompt, recent turns, then
// one user message holding the context block and the question.
func (g *Generator) Messages(req Request) []llm.Message {
	recent := history.Window(req.History, g.cfg.HistoryWindow)

	messages := make([]llm.Message, 0, len(recent)+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: prompt.NewSystemBuilder(req.Levels).Build(),
	})
	messages = append(messages, history.ToMessages(recent)...)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: prompt.UserTurn(req.Context, req.Query),
	})
	return messages
}

func (g *Generator) Compose(ctx context.Context, req Request) Answer {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	messages := g.Messages(req)
	g.trace.Debug("AnswerComposer", "Prompt", map[string]interface{}{
		"messages": messages,
	})

	reply, err := g.llmProvider.Chat(ctx, messages, llm.WithTemperature(g.cfg.Temperature))
	if err != nil {
		g.logger.Error("AnswerComposer", "Model invocation failed", map[string]interface{}{
			"error": &ragerr.GenerationInvocationError{Err: err},
		})
		return Answer{Text: ApologyMessage, Status: StatusFailed}
	}

	text := strings.TrimSpace(reply.FirstText())
	if text == "" {
		g.logger.Warn("AnswerComposer", "Blank model reply, using fallback", nil)
		return Answer{Text: FallbackMessage, Status: StatusFallback}
	}

	g.trace.Debug("AnswerComposer", "Reply", map[string]interface{}{
		"reply": text,
	})
	g.logger.Info("AnswerComposer", "Answer generated", map[string]interface{}{
		"chars":         len(text),
		"history_turns": len(messages) - 2,
	})
	return Answer{Text: text, Status: StatusOK}
}
