package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a company account. Username is an email address.
type User struct {
	ID          uint   `gorm:"primaryKey"`
	Username    string `gorm:"uniqueIndex;size:255;not null"`
	Password    string `gorm:"not null"`
	CompanyName string `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// RefreshToken records an issued refresh token by its JWT id so it can be
// rotated and revoked.
type RefreshToken struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    uint   `gorm:"index;not null"`
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
