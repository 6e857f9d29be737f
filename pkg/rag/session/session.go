package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/pkg/ai/router"
	"parent-assistant-be/pkg/llm"
	"parent-assistant-be/pkg/news"
	"parent-assistant-be/pkg/rag/compress"
	"parent-assistant-be/pkg/rag/history"
	"parent-assistant-be/pkg/rag/intent"
	"parent-assistant-be/pkg/rag/level"
	"parent-assistant-be/pkg/rag/levels"
	"parent-assistant-be/pkg/rag/response"
	"parent-assistant-be/pkg/rag/search"
	"parent-assistant-be/pkg/rag/state"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var (
	ErrNotFound   = errors.New("session not found")
	ErrOnboarding = errors.New("select at least one level before chatting")
	ErrEmptyQuery = errors.New("message is empty")
	ErrNoLevels   = fmt.Errorf("%w: at least one level is required", level.ErrInvalidLevel)
)

var tracer = otel.Tracer("parent-assistant/session")

// Source tells where the context of a turn came from.
type Source string

const (
	SourceRetrieve Source = "retrieve"
	SourceNews     Source = "news"
)

// ConversationContext is the material one answer was grounded on. It is
// never written to turn history.
type ConversationContext struct {
	Items      []search.Candidate `json:"items,omitempty"`
	Titles     []string           `json:"titles,omitempty"`
	Text       string             `json:"text"`
	Compressed bool               `json:"compressed"`
	Source     Source             `json:"source"`
}

// Reply is the outcome of one chat turn.
type Reply struct {
	Text        string             `json:"text"`
	Label       intent.Label       `json:"label"`
	Destination router.Destination `json:"destination"`
	Status      response.Status    `json:"status"`
	AddedLevels []string           `json:"added_levels,omitempty"`
	Titles      []string           `json:"titles,omitempty"`
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	SessionID       string               `json:"session_id"`
	ThreadID        string               `json:"thread_id"`
	Phase           state.Phase          `json:"phase"`
	ActiveLevels    []string             `json:"active_levels"`
	Turns           []history.Turn       `json:"turns"`
	LastContext     *ConversationContext `json:"last_context,omitempty"`
	CompressEnabled bool                 `json:"compress_enabled"`
	CreatedAt       time.Time            `json:"created_at"`
}

// TurnRecord describes a completed turn for observers.
type TurnRecord struct {
	SessionID     string
	ThreadID      string
	Query         string
	Label         intent.Label
	Destination   router.Destination
	Levels        []string
	AddedLevels   []string
	ContextTitles []string
	Answer        string
	Status        response.Status
	Latency       time.Duration
	CompletedAt   time.Time
}

type TurnObserver interface {
	TurnCompleted(ctx context.Context, record TurnRecord)
}

// Pipeline holds the collaborators shared by every session.
type Pipeline struct {
	Classifier  *intent.Classifier
	Detector    *levels.Detector
	Gateway     *search.Gateway
	News        news.Source
	NewsTimeout time.Duration
	Composer    *response.Generator
	States      *state.Manager
	Contact     response.Contact
	Compression compress.Config
	Logger      logger.ILogger
	Observer    TurnObserver
}

// Session is one parent's conversation. All exported methods are safe
// for concurrent use; chats on the same session run one at a time.
type Session struct {
	mu sync.Mutex

	id          string
	pipeline    *Pipeline
	memory      *history.Memory
	phase       state.Phase
	levels      level.Set
	lastContext *ConversationContext
	compression compress.Config
	createdAt   time.Time
}

func newSession(id string, p *Pipeline, store history.TurnStore) *Session {
	s := &Session{
		id:          id,
		pipeline:    p,
		memory:      history.NewMemory(store),
		phase:       state.PhaseNew,
		levels:      level.NewSet(),
		compression: p.Compression,
		createdAt:   time.Now(),
	}
	s.phase = p.States.Start(id)
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) ThreadID() string { return s.memory.ThreadID() }

// SetLevels replaces the active filter and returns the announcement for
// the parent. Setting the same levels again changes nothing.
func (s *Session) SetLevels(values []string) (string, error) {
	set, err := level.ParseSet(values)
	if err != nil {
		return "", err
	}
	if set.Empty() {
		return "", ErrNoLevels
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	first := s.phase != state.PhaseActive
	changed := !set.Equal(s.levels)
	s.levels = set
	s.phase = s.pipeline.States.LevelsSelected(s.id, s.phase)

	if changed {
		s.pipeline.Logger.Info("Session", "Active levels set", map[string]interface{}{
			"session_id": s.id,
			"levels":     set.Strings(),
		})
	}

	if first {
		return response.WelcomeMessage(set), nil
	}
	return response.LevelsUpdatedMessage(set), nil
}

// Chat answers one parent message. Only ErrOnboarding and ErrEmptyQuery
// are returned; every other failure ends up in the reply text.
func (s *Session) Chat(ctx context.Context, query string) (string, error) {
	reply, err := s.Send(ctx, query)
	if err != nil {
		return "", err
	}
	return reply.Text, nil
}

// Send is Chat with the routing details of the turn.
func (s *Session) Send(ctx context.Context, query string) (*Reply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !state.CanChat(s.phase) {
		return nil, ErrOnboarding
	}

	ctx, span := tracer.Start(ctx, "session.chat")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", s.id),
		attribute.String("session.thread_id", s.memory.ThreadID()),
	)

	started := time.Now()
	log := s.pipeline.Logger

	prior, err := s.memory.Read(ctx, 0)
	if err != nil {
		log.Warn("Session", "Reading history failed, continuing without it", map[string]interface{}{
			"session_id": s.id,
			"error":      err.Error(),
		})
		prior = nil
	}

	activeLevels, added := s.checkMutation(ctx, query)

	classification := s.pipeline.Classifier.Classify(ctx, query, prior)
	dest := router.Route(classification.Label)
	span.SetAttributes(
		attribute.String("intent.label", string(classification.Label)),
		attribute.String("router.destination", string(dest)),
	)

	var (
		answer  response.Answer
		turnCtx *ConversationContext
	)
	switch dest {
	case router.DestDirectAnswer:
		answer = response.Answer{Text: directAnswer(classification.Label), Status: response.StatusOK}
	case router.DestPriceInfo:
		answer = response.Answer{Text: response.PriceMessage(s.pipeline.Contact), Status: response.StatusOK}
	default:
		turnCtx = s.gather(ctx, dest, query, activeLevels)
		answer = s.pipeline.Composer.Compose(ctx, response.Request{
			Query:   query,
			Context: turnCtx.Text,
			Levels:  activeLevels,
			History: prior,
		})
	}

	reply := &Reply{
		Text:        answer.Text,
		Label:       classification.Label,
		Destination: dest,
		Status:      answer.Status,
	}
	if turnCtx != nil {
		reply.Titles = turnCtx.Titles
	}

	if answer.Status == response.StatusFailed {
		span.SetStatus(codes.Error, "generation failed")
		log.Warn("Session", "Turn not recorded", map[string]interface{}{
			"session_id": s.id,
			"label":      classification.Label,
		})
		return reply, nil
	}

	if len(added) > 0 {
		s.levels = activeLevels
		reply.AddedLevels = level.NewSet(added...).Strings()
		reply.Text = answer.Text + "\n\n" + response.LevelsAddedNote(added)
		log.Info("Session", "Levels widened by message", map[string]interface{}{
			"session_id": s.id,
			"added":      reply.AddedLevels,
			"levels":     s.levels.Strings(),
		})
	}
	if turnCtx != nil {
		s.lastContext = turnCtx
	}

	if err := s.memory.Append(ctx, llm.RoleUser, query); err != nil {
		log.Error("Session", "Appending user turn failed", map[string]interface{}{"session_id": s.id, "error": err})
	}
	if err := s.memory.Append(ctx, llm.RoleAssistant, answer.Text); err != nil {
		log.Error("Session", "Appending assistant turn failed", map[string]interface{}{"session_id": s.id, "error": err})
	}

	latency := time.Since(started)
	log.Info("Session", "Turn completed", map[string]interface{}{
		"session_id":  s.id,
		"label":       classification.Label,
		"destination": dest,
		"status":      answer.Status,
		"latency_ms":  latency.Milliseconds(),
	})

	if s.pipeline.Observer != nil {
		s.pipeline.Observer.TurnCompleted(ctx, TurnRecord{
			SessionID:     s.id,
			ThreadID:      s.memory.ThreadID(),
			Query:         query,
			Label:         classification.Label,
			Destination:   dest,
			Levels:        s.levels.Strings(),
			AddedLevels:   reply.AddedLevels,
			ContextTitles: reply.Titles,
			Answer:        answer.Text,
			Status:        answer.Status,
			Latency:       latency,
			CompletedAt:   time.Now(),
		})
	}
	return reply, nil
}

// checkMutation returns the levels this turn runs with. The session's own
// set is only updated once the turn is known to be recorded.
func (s *Session) checkMutation(ctx context.Context, query string) (level.Set, []level.Level) {
	if s.pipeline.Detector == nil {
		return s.levels, nil
	}

	ctx, span := tracer.Start(ctx, "session.level_mutation")
	defer span.End()

	decision, err := s.pipeline.Detector.Detect(ctx, query, s.levels)
	if err != nil {
		span.RecordError(err)
		s.pipeline.Logger.Warn("Session", "Level mutation check failed, keeping levels", map[string]interface{}{
			"session_id": s.id,
			"error":      err.Error(),
		})
		return s.levels, nil
	}
	return levels.Apply(s.levels, decision)
}

func (s *Session) gather(ctx context.Context, dest router.Destination, query string, activeLevels level.Set) *ConversationContext {
	switch dest {
	case router.DestReuseContext:
		if s.lastContext != nil {
			s.pipeline.Logger.Debug("Session", "Reusing previous context", map[string]interface{}{
				"session_id": s.id,
				"source":     s.lastContext.Source,
			})
			return s.lastContext
		}
		s.pipeline.Logger.Info("Session", "No previous context for followup, retrieving", map[string]interface{}{
			"session_id": s.id,
		})
		return s.retrieve(ctx, query, activeLevels)
	case router.DestSearchNews:
		return s.searchNews(ctx, query)
	default:
		return s.retrieve(ctx, query, activeLevels)
	}
}

func (s *Session) retrieve(ctx context.Context, query string, activeLevels level.Set) *ConversationContext {
	ctx, span := tracer.Start(ctx, "session.retrieve")
	defer span.End()

	result := s.pipeline.Gateway.Retrieve(ctx, query, activeLevels)
	span.SetAttributes(attribute.Int("retrieval.items", len(result.Items)))

	text, stats := compress.Compress(result.Text, s.compression)
	s.logCompression(stats)

	return &ConversationContext{
		Items:      result.Items,
		Titles:     result.Titles(),
		Text:       text,
		Compressed: stats.Applied,
		Source:     SourceRetrieve,
	}
}

func (s *Session) searchNews(ctx context.Context, query string) *ConversationContext {
	ctx, span := tracer.Start(ctx, "session.news")
	defer span.End()

	src := s.pipeline.News
	if src == nil {
		src = news.Disabled{}
	}
	if s.pipeline.NewsTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.pipeline.NewsTimeout)
		defer cancel()
	}

	text, titles, found := news.ContextFor(ctx, src, query)
	span.SetAttributes(attribute.Bool("news.found", found))

	compressed := false
	if found {
		var stats compress.Stats
		text, stats = compress.Compress(text, s.compression)
		s.logCompression(stats)
		compressed = stats.Applied
	}

	return &ConversationContext{
		Titles:     titles,
		Text:       text,
		Compressed: compressed,
		Source:     SourceNews,
	}
}

func (s *Session) logCompression(stats compress.Stats) {
	if !stats.Applied {
		return
	}
	s.pipeline.Logger.Debug("ContextCompressor", "Context compressed", map[string]interface{}{
		"session_id": s.id,
		"original":   stats.OriginalChars,
		"compressed": stats.CompressedChars,
		"chunks":     stats.Chunks,
		"reduction":  fmt.Sprintf("%.0f%%", stats.Reduction()),
	})
}

func directAnswer(label intent.Label) string {
	if label == intent.LabelCasual {
		return response.GreetingMessage
	}
	return response.UnknownMessage
}

// ClearHistory starts a new thread. Without preserveLevels the session
// returns to onboarding with no active levels.
func (s *Session) ClearHistory(ctx context.Context, preserveLevels bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldThread := s.memory.ThreadID()
	// The new thread is live even when the old log could not be dropped.
	newThread, err := s.memory.Reset(ctx)
	if err != nil {
		s.pipeline.Logger.Warn("Session", "Old thread not deleted", map[string]interface{}{
			"session_id":    s.id,
			"old_thread_id": oldThread,
			"error":         err.Error(),
		})
	}

	s.lastContext = nil
	if !preserveLevels {
		s.levels = level.NewSet()
	}
	s.phase = s.pipeline.States.Cleared(s.id, s.phase, preserveLevels)

	s.pipeline.Logger.Info("Session", "History cleared", map[string]interface{}{
		"session_id":      s.id,
		"old_thread_id":   oldThread,
		"thread_id":       newThread,
		"preserve_levels": preserveLevels,
	})
	return nil
}

func (s *Session) SetCompression(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compression.Enabled = enabled
}

// Levels returns the active levels.
func (s *Session) Levels() level.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.levels
}

func (s *Session) Phase() state.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) State(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns, err := s.memory.Read(ctx, 0)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read turns: %w", err)
	}

	var last *ConversationContext
	if s.lastContext != nil {
		c := *s.lastContext
		last = &c
	}

	return Snapshot{
		SessionID:       s.id,
		ThreadID:        s.memory.ThreadID(),
		Phase:           s.phase,
		ActiveLevels:    s.levels.Strings(),
		Turns:           turns,
		LastContext:     last,
		CompressEnabled: s.compression.Enabled,
		CreatedAt:       s.createdAt,
	}, nil
}

func (s *Session) discard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.memory.Reset(ctx)
	return err
}
