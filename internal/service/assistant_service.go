package service

import (
	"context"
	"time"

	"parent-assistant-be/internal/dto"
	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/internal/pkg/serverutils"
	"parent-assistant-be/pkg/events"
	"parent-assistant-be/pkg/rag/level"
	"parent-assistant-be/pkg/rag/session"
)

type IAssistantService interface {
	CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error)
	SetLevels(ctx context.Context, sessionID string, request *dto.SetLevelsRequest) (*dto.SetLevelsResponse, error)
	Chat(ctx context.Context, sessionID string, request *dto.ChatRequest) (*dto.ChatResponse, error)
	ClearHistory(ctx context.Context, sessionID string, request *dto.ClearHistoryRequest) (*dto.ClearHistoryResponse, error)
	SetCompression(ctx context.Context, sessionID string, enabled bool) (*dto.SessionStateResponse, error)
	GetState(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Exists(sessionID string) bool
	Levels() []dto.LevelResponse
	Health(ctx context.Context) *dto.HealthResponse
}

type assistantService struct {
	sessions       *session.Manager
	knowledge      IKnowledgeService
	eventPublisher events.Publisher
	jwtSecret      string
	tokenTTL       time.Duration
	logger         logger.ILogger
}

func NewAssistantService(
	sessions *session.Manager,
	knowledge IKnowledgeService,
	eventPublisher events.Publisher,
	jwtSecret string,
	tokenTTL time.Duration,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		sessions:       sessions,
		knowledge:      knowledge,
		eventPublisher: eventPublisher,
		jwtSecret:      jwtSecret,
		tokenTTL:       tokenTTL,
		logger:         log,
	}
}

func (c *assistantService) CreateSession(ctx context.Context) (*dto.CreateSessionResponse, error) {
	s := c.sessions.CreateSession()

	res := &dto.CreateSessionResponse{
		SessionId: s.ID(),
		ThreadId:  s.ThreadID(),
		Phase:     string(s.Phase()),
	}

	if c.jwtSecret != "" {
		token, err := serverutils.IssueSessionToken(c.jwtSecret, s.ID(), c.tokenTTL)
		if err != nil {
			_ = c.sessions.Delete(ctx, s.ID())
			return nil, err
		}
		res.Token = token
	}

	c.publish(ctx, events.NewSessionCreated(s.ID(), s.ThreadID()))
	return res, nil
}

func (c *assistantService) SetLevels(ctx context.Context, sessionID string, request *dto.SetLevelsRequest) (*dto.SetLevelsResponse, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	announcement, err := s.SetLevels(request.Levels)
	if err != nil {
		return nil, err
	}

	active := s.Levels().Strings()
	c.publish(ctx, events.NewLevelsChanged(sessionID, active, announcement))

	return &dto.SetLevelsResponse{
		Announcement: announcement,
		ActiveLevels: active,
		Phase:        string(s.Phase()),
	}, nil
}

func (c *assistantService) Chat(ctx context.Context, sessionID string, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	reply, err := s.Send(ctx, request.Message)
	if err != nil {
		return nil, err
	}

	if len(reply.AddedLevels) > 0 {
		c.publish(ctx, events.NewLevelsChanged(sessionID, s.Levels().Strings(), ""))
	}

	return &dto.ChatResponse{
		Answer:      reply.Text,
		Label:       string(reply.Label),
		Destination: string(reply.Destination),
		Status:      string(reply.Status),
		AddedLevels: reply.AddedLevels,
		Sources:     reply.Titles,
	}, nil
}

func (c *assistantService) ClearHistory(ctx context.Context, sessionID string, request *dto.ClearHistoryRequest) (*dto.ClearHistoryResponse, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.ClearHistory(ctx, request.PreserveLevels); err != nil {
		return nil, err
	}

	return &dto.ClearHistoryResponse{
		ThreadId:     s.ThreadID(),
		Phase:        string(s.Phase()),
		ActiveLevels: s.Levels().Strings(),
	}, nil
}

func (c *assistantService) SetCompression(ctx context.Context, sessionID string, enabled bool) (*dto.SessionStateResponse, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.SetCompression(enabled)
	return c.state(ctx, s)
}

func (c *assistantService) GetState(ctx context.Context, sessionID string) (*dto.SessionStateResponse, error) {
	s, err := c.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return c.state(ctx, s)
}

func (c *assistantService) state(ctx context.Context, s *session.Session) (*dto.SessionStateResponse, error) {
	snap, err := s.State(ctx)
	if err != nil {
		return nil, err
	}

	res := &dto.SessionStateResponse{
		SessionId:       snap.SessionID,
		ThreadId:        snap.ThreadID,
		Phase:           string(snap.Phase),
		ActiveLevels:    snap.ActiveLevels,
		Turns:           snap.Turns,
		CompressEnabled: snap.CompressEnabled,
		CreatedAt:       snap.CreatedAt,
	}
	if snap.LastContext != nil {
		res.LastSources = snap.LastContext.Titles
		res.LastSource = string(snap.LastContext.Source)
	}
	return res, nil
}

func (c *assistantService) DeleteSession(ctx context.Context, sessionID string) error {
	return c.sessions.Delete(ctx, sessionID)
}

func (c *assistantService) Exists(sessionID string) bool {
	_, err := c.sessions.Get(sessionID)
	return err == nil
}

func (c *assistantService) Levels() []dto.LevelResponse {
	res := make([]dto.LevelResponse, 0, len(level.All))
	for _, lv := range level.All {
		res = append(res, dto.LevelResponse{
			Code:        string(lv),
			DisplayName: lv.DisplayName(),
		})
	}
	return res
}

func (c *assistantService) Health(ctx context.Context) *dto.HealthResponse {
	res := &dto.HealthResponse{
		Status:         "ok",
		ActiveSessions: c.sessions.Count(),
	}

	if c.knowledge != nil {
		counts, err := c.knowledge.Stats(ctx)
		if err != nil {
			c.logger.Warn("AssistantService", "Knowledge stats unavailable", map[string]interface{}{"error": err.Error()})
			res.Status = "degraded"
		} else {
			res.Knowledge = counts
		}
	}
	return res
}

func (c *assistantService) publish(ctx context.Context, evt events.Event) {
	if c.eventPublisher == nil {
		return
	}
	if err := c.eventPublisher.Publish(ctx, evt); err != nil {
		c.logger.Warn("AssistantService", "Failed to publish event", map[string]interface{}{
			"type":  evt.EventType(),
			"error": err.Error(),
		})
	}
}
