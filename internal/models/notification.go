package models

import (
	"time"
)

// Notification kinds
const (
	NotificationSuccess = "success"
	NotificationAlert   = "alert"
	NotificationInfo    = "info"
)

// Notification is a persisted in-app message. Delivery (push, etc.) is an
// out-of-scope collaborator; we only store and list rows.
type Notification struct {
	ID        string `gorm:"primarykey"` // uuid
	UserID    uint   `gorm:"not null;index"`
	Title     string `gorm:"not null"`
	Body      string `gorm:"not null"`
	Type      string `gorm:"not null;default:'info'"`
	Read      bool   `gorm:"default:false"`
	CreatedAt time.Time
}
