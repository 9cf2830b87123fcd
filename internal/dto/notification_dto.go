package dto

import (
	"time"

	"github.com/noah-isme/aula-go-api/internal/models"
)

// NotificationResponse is the serialized notification returned to API clients.
type NotificationResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Kind       string    `json:"kind"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	ActionType string    `json:"action_type,omitempty"`
	ActionRef  string    `json:"action_ref,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NotificationListResponse bundles a notification page with the unread count.
type NotificationListResponse struct {
	Items  []NotificationResponse `json:"items"`
	Unread int64                  `json:"unread"`
}

// NewNotificationResponse converts a model into a DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         model.ID,
		UserID:     model.UserID,
		Kind:       string(model.Kind),
		Title:      model.Title,
		Message:    model.Message,
		Read:       model.Read,
		ActionType: model.ActionType,
		ActionRef:  model.ActionRef,
		CreatedAt:  model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice of models into DTOs.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}

	return responses
}
