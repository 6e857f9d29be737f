package controller

import (
	"parent-assistant-be/internal/dto"
	"parent-assistant-be/internal/pkg/serverutils"
	"parent-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	SetLevels(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
	SetCompression(ctx *fiber.Ctx) error
	GetState(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	Levels(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
	jwtSecret        string
}

func NewAssistantController(assistantService service.IAssistantService, jwtSecret string) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
		jwtSecret:        jwtSecret,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Get("levels", c.Levels)
	h.Get("health", c.Health)
	h.Post("sessions", c.CreateSession)

	// the middleware reads :id, so it is attached per route
	auth := serverutils.SessionJwtMiddleware(c.jwtSecret)
	h.Put("sessions/:id/levels", auth, c.SetLevels)
	h.Post("sessions/:id/chat", auth, c.Chat)
	h.Post("sessions/:id/clear", auth, c.ClearHistory)
	h.Put("sessions/:id/compression", auth, c.SetCompression)
	h.Get("sessions/:id/state", auth, c.GetState)
	h.Delete("sessions/:id", auth, c.DeleteSession)
}

func (c *assistantController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.assistantService.CreateSession(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *assistantController) SetLevels(ctx *fiber.Ctx) error {
	var req dto.SetLevelsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.SetLevels(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set levels", res))
}

func (c *assistantController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.Chat(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *assistantController) ClearHistory(ctx *fiber.Ctx) error {
	var req dto.ClearHistoryRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	res, err := c.assistantService.ClearHistory(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear history", res))
}

func (c *assistantController) SetCompression(ctx *fiber.Ctx) error {
	var req dto.SetCompressionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.SetCompression(ctx.UserContext(), ctx.Params("id"), *req.Enabled)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set compression", res))
}

func (c *assistantController) GetState(ctx *fiber.Ctx) error {
	res, err := c.assistantService.GetState(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get state", res))
}

func (c *assistantController) DeleteSession(ctx *fiber.Ctx) error {
	if err := c.assistantService.DeleteSession(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete session", nil))
}

func (c *assistantController) Levels(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get levels", c.assistantService.Levels()))
}

func (c *assistantController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("OK", c.assistantService.Health(ctx.UserContext())))
}
