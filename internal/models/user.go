package models

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Role names the two account types known to the platform.
type Role string

const (
	// RoleTeacher marks accounts that create and grade assignments.
	RoleTeacher Role = "teacher"
	// RoleStudent marks accounts that receive and complete assignments.
	RoleStudent Role = "student"
)

// User is a registered account. The primary key is the external identifier
// chosen at registration (PROF### for teachers, EST### for students), not a
// generated value.
type User struct {
	ID           string     `gorm:"primaryKey;size:32" json:"id"`
	Names        string     `gorm:"size:120;not null" json:"names"`
	Surnames     string     `gorm:"size:120;not null" json:"surnames"`
	NationalID   string     `gorm:"size:8;not null" json:"national_id"`
	Email        string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         Role       `gorm:"size:16;not null" json:"role"`
	AvatarColor  string     `gorm:"size:16" json:"avatar_color"`
	LastAccessAt *time.Time `json:"last_access_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	TeacherProfile *TeacherProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"teacher_profile,omitempty"`
	StudentProfile *StudentProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"student_profile,omitempty"`
}

// FullName returns the display name composed from names and surnames.
func (u User) FullName() string {
	return strings.TrimSpace(u.Names + " " + u.Surnames)
}

// Initials returns the first letter of the first name and first surname.
func (u User) Initials() string {
	var initials strings.Builder
	for _, part := range []string{u.Names, u.Surnames} {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			initials.WriteString(strings.ToUpper(string([]rune(trimmed)[0])))
		}
	}
	return initials.String()
}

// TeacherProfile carries the teacher-only attributes of an account.
type TeacherProfile struct {
	UserID    string         `gorm:"primaryKey;size:32" json:"user_id"`
	Specialty string         `gorm:"size:120" json:"specialty"`
	Courses   datatypes.JSON `json:"courses"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// StudentProfile carries the student-only attributes of an account.
type StudentProfile struct {
	UserID          string         `gorm:"primaryKey;size:32" json:"user_id"`
	GradeLevel      string         `gorm:"size:32" json:"grade_level"`
	Section         string         `gorm:"size:16" json:"section"`
	EnrolledCourses datatypes.JSON `json:"enrolled_courses"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
