package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/service"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// AuthHandler wires the registration and login HTTP routes.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches auth endpoints to the router group.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/register/teacher", h.registerTeacher)
	router.Post("/register/student", h.registerStudent)
	router.Post("/login", h.login)
}

func (h *AuthHandler) registerTeacher(c *fiber.Ctx) error {
	return h.register(c, models.RoleTeacher)
}

func (h *AuthHandler) registerStudent(c *fiber.Ctx) error {
	return h.register(c, models.RoleStudent)
}

func (h *AuthHandler) register(c *fiber.Ctx, role models.Role) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.Register(c.Context(), payload, role)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("registration failed")
		}
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "registration successful, you can now log in", user)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Login(c.Context(), payload)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("login failed")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "welcome, "+result.User.FullName+"!", result)
}
