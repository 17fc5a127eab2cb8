package entry

import (
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gorm.io/gorm"

	"wikiprofile/app/internal/user"
)

// Status is the moderation state of an entry. Every entry starts pending and
// only admins move it between states; an owner edit forces it back to pending.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ErrInvalidStatus indicates a status value outside the known set.
var ErrInvalidStatus = eris.New("invalid status")

// ParseStatus validates a raw status value against the known set.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(raw), nil
	default:
		return "", eris.Wrapf(ErrInvalidStatus, "unknown status: %q", raw)
	}
}

// Entry represents a wiki entry persisted in the database.
type Entry struct {
	ID          string    `gorm:"primaryKey;size:36"`
	UserID      string    `gorm:"size:36;index:idx_entries_user_id;not null"`
	User        user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text;not null"`
	ImageURL    string    `gorm:"size:2048"`
	Status      Status    `gorm:"size:50;index:idx_entries_status;not null;default:pending"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName defines the table name for the Entry model.
func (Entry) TableName() string {
	return "entries"
}

// BeforeCreate assigns a fresh identifier when none was provided.
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// ContentUpdate is a content-only change to an entry. There is deliberately
// no status field: a status change cannot be expressed through this type.
type ContentUpdate struct {
	Title       *string
	Description *string
	ImageURL    *string
}

// Empty reports whether the update changes nothing.
func (u ContentUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.ImageURL == nil
}
