package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email           string `gorm:"uniqueIndex;not null"` // Unique index on Email
	Password        string `gorm:"not null"`
	Name            string `gorm:"not null"`
	Phone           string `gorm:"not null"`
	Role            string `gorm:"default:'user'"`
	WalletCoins     int64  `gorm:"not null;default:0"` // Never negative; debits clamp at zero
	ReferralCode    string `gorm:"uniqueIndex;not null"`
	ReferredBy      *uint  `gorm:"default:null"` // Set once at registration, never changed
	DeviceID        string `gorm:"index;not null"`
	IsBanned        bool   `gorm:"default:false"`
	LastCheckin     *time.Time
	CheckinStreak   int  `gorm:"default:0"`
	IsMining        bool `gorm:"default:false"`
	MiningStartedAt *time.Time
	LastScratchDate string `gorm:"default:''"` // Local day of the last scratch claim
	ScratchCount    int    `gorm:"default:0"`
	TokenVersion    int    `gorm:"default:1"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
