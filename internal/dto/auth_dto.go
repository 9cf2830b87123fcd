package dto

import (
	"time"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// RegisterRequest describes the payload for registering a teacher or student.
// Field-format rules are checked in order by the auth service so each failure
// carries its own message.
type RegisterRequest struct {
	ID         string `json:"id"`
	Names      string `json:"names"`
	Surnames   string `json:"surnames"`
	NationalID string `json:"national_id"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Specialty  string `json:"specialty,omitempty"`
	GradeLevel string `json:"grade_level,omitempty"`
	Section    string `json:"section,omitempty"`
}

// Fields exposes the request as a name→value map for required-field checks.
func (r RegisterRequest) Fields() map[string]string {
	return map[string]string{
		"names":       r.Names,
		"surnames":    r.Surnames,
		"national_id": r.NationalID,
		"email":       r.Email,
		"id":          r.ID,
		"password":    r.Password,
	}
}

// LoginRequest carries the credentials for a login attempt.
type LoginRequest struct {
	ID       string `json:"id" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the serialized user representation returned to API clients.
type UserResponse struct {
	ID           string      `json:"id"`
	Names        string      `json:"names"`
	Surnames     string      `json:"surnames"`
	FullName     string      `json:"full_name"`
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	AvatarColor  string      `json:"avatar_color"`
	GradeLevel   string      `json:"grade_level,omitempty"`
	Section      string      `json:"section,omitempty"`
	Specialty    string      `json:"specialty,omitempty"`
	LastAccessAt *time.Time  `json:"last_access_at,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// LoginResponse bundles the issued token with the authenticated user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewUserResponse converts a user model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	response := UserResponse{
		ID:           model.ID,
		Names:        model.Names,
		Surnames:     model.Surnames,
		FullName:     model.FullName(),
		Email:        model.Email,
		Role:         model.Role,
		AvatarColor:  model.AvatarColor,
		LastAccessAt: model.LastAccessAt,
		CreatedAt:    model.CreatedAt,
	}

	if model.TeacherProfile != nil {
		response.Specialty = model.TeacherProfile.Specialty
	}
	if model.StudentProfile != nil {
		response.GradeLevel = model.StudentProfile.GradeLevel
		response.Section = model.StudentProfile.Section
	}

	return response
}
