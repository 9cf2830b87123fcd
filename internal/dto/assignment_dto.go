package dto

import (
	"encoding/json"
	"time"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating a new assignment.
type AssignmentCreateRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Course       string   `json:"course"`
	DueDate      string   `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	MaxPoints    *float64 `json:"max_points" validate:"omitempty,gt=0"`
	Kind         string   `json:"kind" validate:"omitempty,oneof=homework exam project"`
	Instructions string   `json:"instructions"`
	Attachments  []string `json:"attachments"`
}

// Fields exposes the request values checked by the required-field gate.
func (r AssignmentCreateRequest) Fields() map[string]string {
	return map[string]string{
		"title":       r.Title,
		"description": r.Description,
		"course":      r.Course,
		"due_date":    r.DueDate,
	}
}

// AssignmentUpdateRequest describes the patch payload for an assignment.
// Nil fields are left untouched.
type AssignmentUpdateRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1"`
	Description  *string  `json:"description" validate:"omitempty,min=1"`
	Course       *string  `json:"course" validate:"omitempty,min=1"`
	DueDate      *string  `json:"due_date" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	MaxPoints    *float64 `json:"max_points" validate:"omitempty,gt=0"`
	Kind         *string  `json:"kind" validate:"omitempty,oneof=homework exam project"`
	Status       *string  `json:"status" validate:"omitempty,oneof=active closed archived"`
	Instructions *string  `json:"instructions"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Course       string    `json:"course"`
	TeacherID    string    `json:"teacher_id"`
	DueDate      time.Time `json:"due_date"`
	MaxPoints    float64   `json:"max_points"`
	Kind         string    `json:"kind"`
	Status       string    `json:"status"`
	Instructions string    `json:"instructions,omitempty"`
	Attachments  []string  `json:"attachments,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TeacherAssignmentResponse augments an assignment with submission counters
// for the teacher's own listing.
type TeacherAssignmentResponse struct {
	AssignmentResponse
	TotalSubmissions int64 `json:"total_submissions"`
	GradedCount      int64 `json:"graded_count"`
}

// TeacherStatsResponse carries the derived counters shown on the teacher panel.
type TeacherStatsResponse struct {
	TotalAssignments  int64 `json:"total_assignments"`
	ActiveAssignments int64 `json:"active_assignments"`
	StudentsGraded    int64 `json:"students_graded"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		Course:       model.Course,
		TeacherID:    model.TeacherID,
		DueDate:      model.DueDate,
		MaxPoints:    model.MaxPoints,
		Kind:         string(model.Kind),
		Status:       string(model.Status),
		Instructions: model.Instructions,
		Attachments:  decodeAttachments(model.Attachments),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}

func decodeAttachments(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}

	var attachments []string
	if err := json.Unmarshal(raw, &attachments); err != nil {
		return nil
	}
	return attachments
}
