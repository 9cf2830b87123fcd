package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/middleware"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/service"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

// AssignmentHandler wires assignment HTTP routes.
type AssignmentHandler struct {
	assignments service.AssignmentService
	grading     service.GradingService
	logger      zerolog.Logger
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(assignments service.AssignmentService, grading service.GradingService, logger zerolog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		grading:     grading,
		logger:      logger.With().Str("component", "assignment_handler").Logger(),
	}
}

// Register attaches assignment endpoints to the router group.
func (h *AssignmentHandler) Register(router fiber.Router) {
	teacherOnly := middleware.RequireRole(string(models.RoleTeacher))

	router.Get("", h.list)
	router.Post("", teacherOnly, h.create)
	router.Get("/mine", teacherOnly, h.listMine)
	router.Get("/stats", teacherOnly, h.teacherStats)
	router.Get("/:id", h.get)
	router.Patch("/:id", teacherOnly, h.update)
	router.Delete("/:id", teacherOnly, h.delete)
	router.Get("/:id/submissions", teacherOnly, h.listSubmissions)
	router.Get("/:id/stats", teacherOnly, h.assignmentStats)
}

func (h *AssignmentHandler) list(c *fiber.Ctx) error {
	assignments, err := h.assignments.List(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list assignments")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *AssignmentHandler) listMine(c *fiber.Ctx) error {
	teacherID := middleware.UserIDFromCtx(c)

	assignments, err := h.assignments.ListByTeacher(c.Context(), teacherID)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list teacher assignments")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "assignments retrieved", assignments)
}

func (h *AssignmentHandler) get(c *fiber.Ctx) error {
	assignment, err := h.assignments.Get(c.Context(), c.Params("id"))
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to load assignment")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "assignment retrieved", assignment)
}

func (h *AssignmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.assignments.Create(c.Context(), middleware.UserIDFromCtx(c), payload)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to create assignment")
		}
		return sendServiceError(c, err)
	}

	return utils.SendCreated(c, "assignment created", assignment)
}

func (h *AssignmentHandler) update(c *fiber.Ctx) error {
	var payload dto.AssignmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assignment, err := h.assignments.Update(c.Context(), middleware.UserIDFromCtx(c), c.Params("id"), payload)
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to update assignment")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "assignment updated", assignment)
}

func (h *AssignmentHandler) delete(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.assignments.Delete(c.Context(), middleware.UserIDFromCtx(c), id); err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to delete assignment")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "assignment deleted", fiber.Map{"id": id})
}

func (h *AssignmentHandler) listSubmissions(c *fiber.Ctx) error {
	submissions, err := h.grading.ListForAssignment(c.Context(), c.Params("id"))
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to list submissions")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *AssignmentHandler) assignmentStats(c *fiber.Ctx) error {
	stats, err := h.grading.AssignmentStats(c.Context(), c.Params("id"))
	if err != nil {
		if isInternal(err) {
			h.logger.Error().Err(err).Msg("failed to compute assignment stats")
		}
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "assignment stats retrieved", stats)
}

func (h *AssignmentHandler) teacherStats(c *fiber.Ctx) error {
	stats, err := h.assignments.TeacherStats(c.Context(), middleware.UserIDFromCtx(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute teacher stats")
		return sendServiceError(c, err)
	}

	return utils.SendSuccess(c, "teacher stats retrieved", stats)
}
