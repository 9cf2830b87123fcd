package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/middleware"
	"github.com/noah-isme/aula-go-api/internal/service"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// NotificationHandler exposes the in-app notification feed.
type NotificationHandler struct {
	service service.NotificationService
	logger  zerolog.Logger
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(service service.NotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.With().Str("component", "notification_handler").Logger(),
	}
}

// Register attaches notification endpoints to the router group.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Patch("/:id/read", h.markRead)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "limit must be an integer")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "offset must be an integer")
	}

	list, err := h.service.List(c.Context(), middleware.UserIDFromCtx(c), limit, offset)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list notifications")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "notifications retrieved", list)
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	notification, err := h.service.MarkRead(c.Context(), c.Params("id"), middleware.UserIDFromCtx(c))
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Str("notification_id", c.Params("id")).Msg("failed to mark notification read")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "notification marked as read", notification)
}
