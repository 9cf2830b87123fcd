package models

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

// AssignmentKind enumerates the supported assignment categories.
type AssignmentKind string

const (
	// AssignmentKindHomework is the default kind.
	AssignmentKindHomework AssignmentKind = "homework"
	// AssignmentKindExam marks graded examinations.
	AssignmentKindExam AssignmentKind = "exam"
	// AssignmentKindProject marks long-running project work.
	AssignmentKindProject AssignmentKind = "project"
)

// AssignmentStatus enumerates the assignment lifecycle states.
type AssignmentStatus string

const (
	// AssignmentStatusActive is the state every assignment is created in.
	AssignmentStatusActive AssignmentStatus = "active"
	// AssignmentStatusClosed marks assignments no longer accepting grades.
	AssignmentStatusClosed AssignmentStatus = "closed"
	// AssignmentStatusArchived marks assignments hidden from listings.
	AssignmentStatusArchived AssignmentStatus = "archived"
)

// Assignment represents a piece of work published by a teacher.
type Assignment struct {
	ID           string           `gorm:"primaryKey;size:36" json:"id"`
	Title        string           `gorm:"size:255;not null" json:"title"`
	Description  string           `gorm:"type:text;not null" json:"description"`
	Course       string           `gorm:"size:128;not null;index" json:"course"`
	TeacherID    string           `gorm:"size:32;not null;index" json:"teacher_id"`
	DueDate      time.Time        `gorm:"not null" json:"due_date"`
	MaxPoints    float64          `gorm:"not null;default:20" json:"max_points"`
	Kind         AssignmentKind   `gorm:"size:16;not null;default:homework" json:"kind"`
	Status       AssignmentStatus `gorm:"size:16;not null;default:active" json:"status"`
	Attachments  datatypes.JSON   `json:"attachments"`
	Instructions string           `gorm:"type:text" json:"instructions"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`

	Teacher User `gorm:"foreignKey:TeacherID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// IsPastDue reports whether the deadline has already passed.
func (a Assignment) IsPastDue(reference time.Time) bool {
	return reference.After(a.DueDate)
}

// DaysRemaining returns the whole days until the deadline, rounding partial
// days up. Negative once the deadline has passed.
func (a Assignment) DaysRemaining(reference time.Time) int {
	diff := a.DueDate.Sub(reference)
	return int(math.Ceil(diff.Hours() / 24))
}
