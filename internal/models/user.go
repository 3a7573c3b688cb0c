package models

import (
	"gorm.io/gorm"
)

// User represents an application account. Password-based and Google-based
// signups share the table: password users carry PasswordHash, OAuth users
// carry GoogleID, and an account may hold both after linking.
type User struct {
	gorm.Model
	Email              string `gorm:"uniqueIndex:idx_users_email_not_deleted,where:deleted_at IS NULL;not null" json:"email"`
	DisplayName        string `gorm:"not null;default:''" json:"displayName"`
	GoogleID           string `gorm:"index" json:"-"`
	PasswordHash       string `gorm:"type:text" json:"-"`
	SecurityQuestion   string `gorm:"type:text" json:"securityQuestion,omitempty"`
	SecurityAnswerHash string `gorm:"type:text" json:"-"`
}
