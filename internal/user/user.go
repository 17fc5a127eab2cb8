package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"wikiprofile/app/internal/auth"
)

// User represents an account persisted in the database. The role enum is the
// single source of truth for privileges; admin status is derived from it.
type User struct {
	ID              string    `gorm:"primaryKey;size:36"`
	Email           string    `gorm:"size:255;uniqueIndex:idx_users_email;not null"`
	Username        string    `gorm:"size:255;uniqueIndex:idx_users_username;not null"`
	PasswordHash    string    `gorm:"size:255"`
	FirstName       string    `gorm:"size:255"`
	LastName        string    `gorm:"size:255"`
	ProfileImageURL string    `gorm:"size:2048"`
	Bio             string    `gorm:"type:text"`
	Role            auth.Role `gorm:"size:50;not null;default:user"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName defines the table name for the User model.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// IsAdmin reports whether the account carries admin privileges.
func (u *User) IsAdmin() bool {
	return u.Role == auth.RoleAdmin
}

// Identity returns the authorization identity for the account.
func (u *User) Identity() auth.Identity {
	return auth.Identity{UserID: u.ID, Role: u.Role}
}
