package models

import (
	"time"

	"gorm.io/gorm"
)

// Proof statuses share the withdrawal vocabulary: pending until an admin
// reviews, then terminal.
const (
	ProofStatusPending  = "pending"
	ProofStatusApproved = "approved"
	ProofStatusRejected = "rejected"
)

type Task struct {
	gorm.Model
	Title        string `gorm:"not null"`
	Reward       int64  `gorm:"not null"`
	Description  string
	URL          string
	RequireProof bool `gorm:"default:true"`
	IsActive     bool `gorm:"default:true;index"`
}

// TaskProof is a user's completion claim for a task. Approval credits the
// task reward through the ledger exactly once.
type TaskProof struct {
	ID          string `gorm:"primarykey"` // uuid
	UserID      uint   `gorm:"not null;index"`
	TaskID      uint   `gorm:"not null;index"`
	ProofURL    string `gorm:"not null"`
	Status      string `gorm:"not null;default:'pending'"`
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

func (p *TaskProof) Terminal() bool {
	return p.Status == ProofStatusApproved || p.Status == ProofStatusRejected
}
