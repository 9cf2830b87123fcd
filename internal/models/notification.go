package models

import "time"

// NotificationKind enumerates the notification severities.
type NotificationKind string

const (
	// NotificationInfo is used for informational events (logins, new assignments).
	NotificationInfo NotificationKind = "info"
	// NotificationSuccess is used for positive events (welcome, passing grade).
	NotificationSuccess NotificationKind = "success"
	// NotificationWarning is used for failing grades and deadline alerts.
	NotificationWarning NotificationKind = "warning"
	// NotificationError is used for system failures surfaced to the user.
	NotificationError NotificationKind = "error"
)

// Notification is an append-only per-user system message. Rows are never
// deleted, only marked read.
type Notification struct {
	ID         string           `gorm:"primaryKey;size:36" json:"id"`
	UserID     string           `gorm:"size:32;not null;index" json:"user_id"`
	Kind       NotificationKind `gorm:"size:16;not null" json:"kind"`
	Title      string           `gorm:"size:255;not null" json:"title"`
	Message    string           `gorm:"type:text;not null" json:"message"`
	Read       bool             `gorm:"not null;default:false" json:"read"`
	ActionType string           `gorm:"size:32" json:"action_type,omitempty"`
	ActionRef  string           `gorm:"size:36" json:"action_ref,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
