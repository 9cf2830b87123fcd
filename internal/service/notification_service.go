package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/noah-isme/aula-go-api/internal/dto"
	"github.com/noah-isme/aula-go-api/internal/models"
	"github.com/noah-isme/aula-go-api/internal/observability"
	"github.com/noah-isme/aula-go-api/internal/repository"
)

// NotificationInput describes a notification to append to a user's log.
type NotificationInput struct {
	UserID     string
	Kind       models.NotificationKind
	Title      string
	Message    string
	ActionType string
	ActionRef  string
}

// NotificationService appends and reads per-user system messages. The log is
// append-only: entries are only ever marked read, never deleted.
type NotificationService interface {
	Notify(ctx context.Context, input NotificationInput) (dto.NotificationResponse, error)
	List(ctx context.Context, userID string, limit, offset int) (dto.NotificationListResponse, error)
	MarkRead(ctx context.Context, id, userID string) (dto.NotificationResponse, error)
}

type notificationService struct {
	repo      repository.NotificationRepository
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewNotificationService constructs a notification service.
func NewNotificationService(repo repository.NotificationRepository, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:      repo,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "notification_service").Logger(),
	}
}

func (s *notificationService) Notify(ctx context.Context, input NotificationInput) (dto.NotificationResponse, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return dto.NotificationResponse{}, &ValidationError{Field: "user_id", Message: "notification target is required"}
	}

	kind := input.Kind
	if kind == "" {
		kind = models.NotificationInfo
	}

	cleanMessage := strings.TrimSpace(s.sanitizer.Sanitize(input.Message))
	if cleanMessage == "" {
		return dto.NotificationResponse{}, &ValidationError{Field: "message", Message: "notification message is required"}
	}

	model := models.Notification{
		ID:         uuid.NewString(),
		UserID:     input.UserID,
		Kind:       kind,
		Title:      strings.TrimSpace(s.sanitizer.Sanitize(input.Title)),
		Message:    cleanMessage,
		ActionType: input.ActionType,
		ActionRef:  input.ActionRef,
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		return dto.NotificationResponse{}, err
	}

	observability.NotificationsCreated().WithLabelValues(string(kind)).Inc()

	return dto.NewNotificationResponse(model), nil
}

func (s *notificationService) List(ctx context.Context, userID string, limit, offset int) (dto.NotificationListResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return dto.NotificationListResponse{}, &ValidationError{Field: "user_id", Message: "user id is required"}
	}

	notifications, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return dto.NotificationListResponse{}, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return dto.NotificationListResponse{}, err
	}

	return dto.NotificationListResponse{
		Items:  dto.NewNotificationResponseSlice(notifications),
		Unread: unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) (dto.NotificationResponse, error) {
	notification, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}
