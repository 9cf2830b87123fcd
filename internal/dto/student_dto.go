package dto

import "time"

// Student-facing assignment statuses combining assignment and submission state.
const (
	StudentAssignmentPending   = "pending"
	StudentAssignmentSubmitted = "submitted"
	StudentAssignmentGraded    = "graded"
	StudentAssignmentOverdue   = "overdue"
)

// StudentAssignmentView is one row of the learner-facing assignment list:
// the assignment joined with the student's own submission and the owning
// teacher's display name.
type StudentAssignmentView struct {
	AssignmentID  string     `json:"assignment_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Course        string     `json:"course"`
	Kind          string     `json:"kind"`
	TeacherName   string     `json:"teacher_name"`
	DueDate       time.Time  `json:"due_date"`
	MaxPoints     float64    `json:"max_points"`
	Status        string     `json:"status"`
	Score         *float64   `json:"score,omitempty"`
	Comment       string     `json:"comment,omitempty"`
	DaysRemaining int        `json:"days_remaining"`
	GradedAt      *time.Time `json:"graded_at,omitempty"`
}

// StudentStatsResponse carries the derived counters shown on the student panel.
type StudentStatsResponse struct {
	Completed int64   `json:"completed"`
	Pending   int64   `json:"pending"`
	Average   float64 `json:"average"`
	Best      float64 `json:"best"`
}

// StudentGradeResponse is one row of the student's grade history.
type StudentGradeResponse struct {
	AssignmentID string     `json:"assignment_id"`
	Title        string     `json:"title"`
	Course       string     `json:"course"`
	Score        float64    `json:"score"`
	MaxPoints    float64    `json:"max_points"`
	Comment      string     `json:"comment,omitempty"`
	Passed       bool       `json:"passed"`
	GradedAt     *time.Time `json:"graded_at,omitempty"`
}
