package handler

import (
	"context"
	"encoding/json"
	"errors"

	"parent-assistant-be/internal/dto"
	"parent-assistant-be/internal/pkg/logger"
	"parent-assistant-be/internal/pkg/serverutils"
	"parent-assistant-be/internal/service"
	internalWS "parent-assistant-be/internal/websocket"
	"parent-assistant-be/pkg/rag/response"
	"parent-assistant-be/pkg/rag/session"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// SessionSocketHandler serves the chat socket of one session. Frames
// from the client run through the same service as the REST routes.
type SessionSocketHandler struct {
	assistant service.IAssistantService
	hub       *internalWS.Hub
	delivery  service.SessionDelivery
	jwtSecret string
	logger    logger.ILogger
}

func NewSessionSocketHandler(assistant service.IAssistantService, hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *SessionSocketHandler {
	return &SessionSocketHandler{
		assistant: assistant,
		hub:       hub,
		delivery:  hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

// ServeWs upgrades the request after the session middleware accepted it.
func (h *SessionSocketHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if !h.assistant.Exists(sessionID) {
		return session.ErrNotFound
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("SessionSocketHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID, h.handleFrame)
			h.logger.Info("SessionSocketHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *SessionSocketHandler) handleFrame(sessionID string, data []byte) {
	var frame dto.SocketInbound
	if err := json.Unmarshal(data, &frame); err != nil {
		h.sendError(sessionID, "Geçersiz mesaj biçimi.")
		return
	}
	if err := serverutils.ValidateRequest(frame); err != nil {
		h.sendError(sessionID, err.Error())
		return
	}

	ctx := context.Background()

	switch frame.Type {
	case "chat":
		req := &dto.ChatRequest{Message: frame.Message}
		if err := serverutils.ValidateRequest(req); err != nil {
			h.sendError(sessionID, err.Error())
			return
		}
		res, err := h.assistant.Chat(ctx, sessionID, req)
		if err != nil {
			h.sendError(sessionID, socketErrorText(err))
			return
		}
		h.delivery.Send(sessionID, internalWS.Message{Type: "answer", Text: res.Answer, Data: res})

	case "levels":
		res, err := h.assistant.SetLevels(ctx, sessionID, &dto.SetLevelsRequest{Levels: frame.Levels})
		if err != nil {
			h.sendError(sessionID, socketErrorText(err))
			return
		}
		h.delivery.Send(sessionID, internalWS.Message{Type: "announcement", Text: res.Announcement, Data: res})

	case "clear":
		res, err := h.assistant.ClearHistory(ctx, sessionID, &dto.ClearHistoryRequest{PreserveLevels: frame.PreserveLevels})
		if err != nil {
			h.sendError(sessionID, socketErrorText(err))
			return
		}
		h.delivery.Send(sessionID, internalWS.Message{Type: "announcement", Text: response.HistoryClearedMessage, Data: res})
	}
}

func (h *SessionSocketHandler) sendError(sessionID, text string) {
	h.delivery.Send(sessionID, internalWS.Message{Type: "error", Text: text})
}

func socketErrorText(err error) string {
	if errors.Is(err, session.ErrOnboarding) {
		return response.OnboardingMessage
	}
	_, res := serverutils.MapError(err)
	return res.Message
}

// RegisterRoutes registers the socket route.
func (h *SessionSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/assistant/v1/sessions/:id/ws", serverutils.SessionJwtMiddleware(h.jwtSecret), h.ServeWs)
}
