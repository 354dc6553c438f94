package controller

import (
	"errors"

	"ai-voicebot-be/internal/dto"
	"ai-voicebot-be/internal/pkg/serverutils"
	"ai-voicebot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetUserState(ctx *fiber.Ctx) error
	GetLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	service   service.IAdminService
	jwtSecret string
}

func NewAdminController(service service.IAdminService, jwtSecret string) IAdminController {
	return &adminController{
		service:   service,
		jwtSecret: jwtSecret,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret, "admin"))

	h.Get("/users/:telegramId", c.GetUserState)
	h.Get("/logs", c.GetLogs)
}

func (c *adminController) GetUserState(ctx *fiber.Ctx) error {
	telegramId := ctx.Params("telegramId")
	if telegramId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "telegramId is required")
	}

	res, err := c.service.GetUserState(ctx.UserContext(), telegramId)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get user state", res))
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	var req dto.LogQueryRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid query parameters")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GetLogs(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get logs", res))
}
