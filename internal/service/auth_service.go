package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/observability"
	"github.com/noah-isme/aula-go-api/internal/repository"
	"github.com/noah-isme/aula-go-api/internal/validation"
)

// avatarPalette is the set of display colors assigned to new accounts.
var avatarPalette = []string{"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A", "#98D8C8", "#F7DC6F"}

var registrationFields = []string{"names", "surnames", "national_id", "email", "id", "password"}

// AuthService registers users and authenticates logins. Authentication is
// stateless: a login issues a signed token that carries the session for the
// lifetime of each request.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest, role models.Role) (dto.UserResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
}

type authService struct {
	users         repository.UserRepository
	notifications NotificationService
	logger        zerolog.Logger
	jwtSecret     string
	tokenTTL      time.Duration
	now           func() time.Time
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, notifications NotificationService, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:         users,
		notifications: notifications,
		logger:        logger.With().Str("component", "auth_service").Logger(),
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
		now:           time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest, role models.Role) (dto.UserResponse, error) {
	// Checks run in a fixed order so the caller always sees the first
	// offending field, not an arbitrary one.
	if field := validation.FirstMissingField(payload.Fields(), registrationFields); field != "" {
		return dto.UserResponse{}, requiredFieldError(field)
	}

	if !validation.IsValidNationalID(payload.NationalID) {
		return dto.UserResponse{}, &ValidationError{Field: "national_id", Message: "national id must be exactly 8 digits"}
	}

	if !validation.IsValidEmail(payload.Email) {
		return dto.UserResponse{}, &ValidationError{Field: "email", Message: "email must be a valid Gmail address (@gmail.com)"}
	}

	if ok, message := validation.CheckPassword(payload.Password); !ok {
		return dto.UserResponse{}, &ValidationError{Field: "password", Message: message}
	}

	switch role {
	case models.RoleTeacher:
		if !validation.IsValidTeacherID(payload.ID) {
			return dto.UserResponse{}, &ValidationError{Field: "id", Message: "id must use the PROF### format (e.g. PROF001)"}
		}
	case models.RoleStudent:
		if !validation.IsValidStudentID(payload.ID) {
			return dto.UserResponse{}, &ValidationError{Field: "id", Message: "id must use the EST### format (e.g. EST001)"}
		}
	default:
		return dto.UserResponse{}, &ValidationError{Field: "role", Message: fmt.Sprintf("unknown role %q", role)}
	}

	if taken, err := s.users.ExistsByID(ctx, payload.ID); err != nil {
		return dto.UserResponse{}, err
	} else if taken {
		return dto.UserResponse{}, ErrUserIDTaken
	}

	if taken, err := s.users.ExistsByEmail(ctx, payload.Email); err != nil {
		return dto.UserResponse{}, err
	} else if taken {
		return dto.UserResponse{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           payload.ID,
		Names:        payload.Names,
		Surnames:     payload.Surnames,
		NationalID:   payload.NationalID,
		Email:        payload.Email,
		PasswordHash: string(hash),
		Role:         role,
		AvatarColor:  pickAvatarColor(payload.ID),
	}

	emptyList := datatypes.JSON([]byte("[]"))
	switch role {
	case models.RoleTeacher:
		user.TeacherProfile = &models.TeacherProfile{
			UserID:    payload.ID,
			Specialty: payload.Specialty,
			Courses:   emptyList,
		}
	case models.RoleStudent:
		user.StudentProfile = &models.StudentProfile{
			UserID:          payload.ID,
			GradeLevel:      payload.GradeLevel,
			Section:         payload.Section,
			EnrolledCourses: emptyList,
		}
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	if _, err := s.notifications.Notify(ctx, NotificationInput{
		UserID:  user.ID,
		Kind:    models.NotificationSuccess,
		Title:   "Welcome!",
		Message: "Your account has been created successfully. Start exploring!",
	}); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to create welcome notification")
	}

	observability.Registrations().WithLabelValues(string(role)).Inc()
	s.logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("user registered")

	return dto.NewUserResponse(user), nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if payload.ID == "" || payload.Password == "" {
		return dto.LoginResponse{}, &ValidationError{Field: "credentials", Message: "id and password are required"}
	}

	user, err := s.users.GetByID(ctx, payload.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrUserNotFound
		}
		return dto.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.UpdateLastAccess(ctx, user.ID, now); err != nil {
		return dto.LoginResponse{}, err
	}
	user.LastAccessAt = &now

	token, err := s.issueToken(user, now)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	if _, err := s.notifications.Notify(ctx, NotificationInput{
		UserID:  user.ID,
		Kind:    models.NotificationInfo,
		Title:   "Session started",
		Message: fmt.Sprintf("Welcome back, %s!", user.Names),
	}); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to create login notification")
	}

	return dto.LoginResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) issueToken(user models.User, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// pickAvatarColor derives a stable palette color from the user id.
func pickAvatarColor(id string) string {
	hash := 0
	for _, r := range id {
		hash = int(r) + ((hash << 5) - hash)
	}
	if hash < 0 {
		hash = -hash
	}
	return avatarPalette[hash%len(avatarPalette)]
}
