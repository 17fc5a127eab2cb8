package user

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"wikiprofile/app/internal/auth"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateRole(ctx context.Context, id string, role auth.Role) (*User, error)
	List(ctx context.Context) ([]User, error)
}

// GormRepository persists users using a Gorm database connection.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository implementation.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

// GetByID returns the user for the provided id or nil when not found.
func (r *GormRepository) GetByID(ctx context.Context, id string) (*User, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, eris.New("user id is required")
	}

	var account User
	err := r.db.WithContext(ctx).First(&account, "id = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"user_id": trimmed}, err, "fetching user by id")
		return nil, eris.Wrapf(err, "fetching user by id: %s", trimmed)
	}

	return &account, nil
}

// GetByUsername returns the user for the provided username or nil when not found.
func (r *GormRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, eris.New("username is required")
	}

	var account User
	err := r.db.WithContext(ctx).First(&account, "username = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"username": trimmed}, err, "fetching user by username")
		return nil, eris.Wrapf(err, "fetching user by username: %s", trimmed)
	}

	return &account, nil
}

// Create stores a new user account.
func (r *GormRepository) Create(ctx context.Context, account *User) error {
	if account == nil {
		return eris.New("user is nil")
	}

	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		r.logError(logrus.Fields{"username": account.Username}, err, "creating user")
		return eris.Wrapf(err, "creating user: %s", account.Username)
	}

	return nil
}

// UpdateRole sets the role of the target user and returns the updated record,
// or nil when the user does not exist.
func (r *GormRepository) UpdateRole(ctx context.Context, id string, role auth.Role) (*User, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, eris.New("user id is required")
	}

	result := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", trimmed).Update("role", role)
	if result.Error != nil {
		r.logError(logrus.Fields{"user_id": trimmed, "role": role}, result.Error, "updating user role")
		return nil, eris.Wrapf(result.Error, "updating role for user: %s", trimmed)
	}

	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, trimmed)
}

// List returns every user ordered by creation time descending.
func (r *GormRepository) List(ctx context.Context) ([]User, error) {
	var accounts []User

	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&accounts).Error; err != nil {
		r.logError(nil, err, "listing users")
		return nil, eris.Wrap(err, "listing users")
	}

	return accounts, nil
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
