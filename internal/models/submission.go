package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	// SubmissionStatusSubmitted indicates the submission exists but has no score yet.
	SubmissionStatusSubmitted = "submitted"
	// SubmissionStatusGraded indicates a score has been assigned.
	SubmissionStatusGraded = "graded"
)

// Submission records a student's (gradable) response to an assignment. There
// is at most one row per (assignment, student) pair; re-grading overwrites
// the existing row.
type Submission struct {
	ID           string         `gorm:"primaryKey;size:36" json:"id"`
	AssignmentID string         `gorm:"size:36;not null;uniqueIndex:idx_submission_assignment_student" json:"assignment_id"`
	StudentID    string         `gorm:"size:32;not null;uniqueIndex:idx_submission_assignment_student" json:"student_id"`
	Score        *float64       `json:"score"`
	Comment      string         `gorm:"type:text" json:"comment"`
	SubmittedAt  time.Time      `json:"submitted_at"`
	Status       string         `gorm:"size:32;not null" json:"status"`
	GradedAt     *time.Time     `json:"graded_at"`
	Attempts     int            `gorm:"not null;default:1" json:"attempts"`
	Attachments  datatypes.JSON `json:"attachments"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Assignment Assignment `gorm:"foreignKey:AssignmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsGraded reports whether the submission carries a final score.
func (s Submission) IsGraded() bool {
	return s.Status == SubmissionStatusGraded && s.Score != nil
}

// IsPassing reports whether the score meets the given passing threshold.
func (s Submission) IsPassing(threshold float64) bool {
	return s.Score != nil && *s.Score >= threshold
}
