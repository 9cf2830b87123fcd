package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/middleware"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/service"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// StudentHandler wires the learner-facing HTTP routes.
type StudentHandler struct {
	service service.StudentService
	logger  zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		logger:  logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register attaches student endpoints to the router group.
func (h *StudentHandler) Register(router fiber.Router) {
	studentOnly := middleware.RequireRole(string(models.RoleStudent))

	router.Get("/assignments", studentOnly, h.listAssignments)
	router.Get("/stats", studentOnly, h.stats)
	router.Get("/grades", studentOnly, h.listGrades)
}

func (h *StudentHandler) listAssignments(c *fiber.Ctx) error {
	views, err := h.service.ListAssignments(c.Context(), middleware.UserIDFromCtx(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list student assignments")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", views)
}

func (h *StudentHandler) stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context(), middleware.UserIDFromCtx(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute student stats")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "student stats retrieved", stats)
}

func (h *StudentHandler) listGrades(c *fiber.Ctx) error {
	grades, err := h.service.ListGrades(c.Context(), middleware.UserIDFromCtx(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list student grades")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "grades retrieved", grades)
}
