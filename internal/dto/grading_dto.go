package dto

import (
	"time"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// GradeRequest describes the payload for assigning or updating a score.
type GradeRequest struct {
	AssignmentID string   `json:"assignment_id" validate:"required"`
	StudentID    string   `json:"student_id" validate:"required"`
	Score        *float64 `json:"score" validate:"required"`
	Comment      string   `json:"comment"`
}

// SubmissionResponse is the serialized submission returned to API clients.
type SubmissionResponse struct {
	ID           string     `json:"id"`
	AssignmentID string     `json:"assignment_id"`
	StudentID    string     `json:"student_id"`
	Score        *float64   `json:"score"`
	Comment      string     `json:"comment,omitempty"`
	Status       string     `json:"status"`
	SubmittedAt  time.Time  `json:"submitted_at"`
	GradedAt     *time.Time `json:"graded_at,omitempty"`
	Attempts     int        `json:"attempts"`
}

// StudentRef is the minimal student projection joined onto submissions.
type StudentRef struct {
	ID          string `json:"id"`
	FullName    string `json:"full_name"`
	AvatarColor string `json:"avatar_color"`
}

// SubmissionWithStudentResponse joins a submission with its submitting
// student, when the student still exists.
type SubmissionWithStudentResponse struct {
	SubmissionResponse
	Student *StudentRef `json:"student,omitempty"`
}

// AssignmentStatsResponse aggregates graded submissions of one assignment.
// Highest and Lowest are omitted when nothing has been graded yet.
type AssignmentStatsResponse struct {
	Total   int64    `json:"total"`
	Graded  int64    `json:"graded"`
	Average float64  `json:"average"`
	Passed  int64    `json:"passed"`
	Failed  int64    `json:"failed"`
	Highest *float64 `json:"highest,omitempty"`
	Lowest  *float64 `json:"lowest,omitempty"`
}

// NewSubmissionResponse converts a model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Score:        model.Score,
		Comment:      model.Comment,
		Status:       model.Status,
		SubmittedAt:  model.SubmittedAt,
		GradedAt:     model.GradedAt,
		Attempts:     model.Attempts,
	}
}
