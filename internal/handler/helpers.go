package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/aula-go-api/internal/service"
	"github.com/noah-isme/aula-go-api/internal/utils"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

// sendServiceError translates the shared service error taxonomy into the API
// response envelope. Unexpected errors collapse to a generic 500.
func sendServiceError(c *fiber.Ctx, err error) error {
	var validationErr *service.ValidationError
	var validatorErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErr):
		return utils.SendError(c, fiber.StatusBadRequest, validationErr.Message)
	case errors.As(err, &validatorErrs):
		return utils.SendError(c, fiber.StatusBadRequest, validatorErrs.Error())
	case errors.Is(err, service.ErrUserIDTaken), errors.Is(err, service.ErrEmailTaken):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotAssignmentOwner):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func isInternal(err error) bool {
	var validationErr *service.ValidationError
	var validatorErrs validator.ValidationErrors

	if errors.As(err, &validationErr) || errors.As(err, &validatorErrs) {
		return false
	}

	known := []error{
		service.ErrUserIDTaken, service.ErrEmailTaken, service.ErrInvalidCredentials,
		service.ErrNotAssignmentOwner, service.ErrUserNotFound, service.ErrStudentNotFound,
		service.ErrAssignmentNotFound, service.ErrNotificationNotFound,
	}
	for _, candidate := range known {
		if errors.Is(err, candidate) {
			return false
		}
	}
	return true
}
