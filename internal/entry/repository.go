package entry

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Repository defines persistence operations for wiki entries.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Entry, error)
	Create(ctx context.Context, entry *Entry) error
	UpdateContent(ctx context.Context, id string, update ContentUpdate) (*Entry, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Entry, error)
	Delete(ctx context.Context, id string) error
	ListApproved(ctx context.Context) ([]Entry, error)
	ListByUser(ctx context.Context, userID string, onlyApproved bool) ([]Entry, error)
	ListAll(ctx context.Context) ([]Entry, error)
	CountByOwner(ctx context.Context) (map[string]int64, error)
}

// GormRepository persists entries using a Gorm database connection.
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

// GetByID returns the entry for the provided id or nil when not found.
func (r *GormRepository) GetByID(ctx context.Context, id string) (*Entry, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, eris.New("entry id is required")
	}

	var record Entry
	err := r.db.WithContext(ctx).First(&record, "id = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"entry_id": trimmed}, err, "fetching entry by id")
		return nil, eris.Wrapf(err, "fetching entry by id: %s", trimmed)
	}

	return &record, nil
}

// Create stores a new entry.
func (r *GormRepository) Create(ctx context.Context, record *Entry) error {
	if record == nil {
		return eris.New("entry is nil")
	}

	if err := r.db.WithContext(ctx).Omit("User").Create(record).Error; err != nil {
		r.logError(logrus.Fields{"user_id": record.UserID}, err, "creating entry")
		return eris.Wrap(err, "creating entry")
	}

	return nil
}

// UpdateContent applies a content-only update and resets the moderation
// status to pending in the same write, so an edited entry can never keep an
// earlier approval. Returns nil when the entry does not exist.
func (r *GormRepository) UpdateContent(ctx context.Context, id string, update ContentUpdate) (*Entry, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, eris.New("entry id is required")
	}

	changes := map[string]interface{}{"status": StatusPending}
	if update.Title != nil {
		changes["title"] = *update.Title
	}
	if update.Description != nil {
		changes["description"] = *update.Description
	}
	if update.ImageURL != nil {
		changes["image_url"] = *update.ImageURL
	}

	result := r.db.WithContext(ctx).Model(&Entry{}).Where("id = ?", trimmed).Updates(changes)
	if result.Error != nil {
		r.logError(logrus.Fields{"entry_id": trimmed}, result.Error, "updating entry content")
		return nil, eris.Wrapf(result.Error, "updating entry content: %s", trimmed)
	}

	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, trimmed)
}

// UpdateStatus sets the moderation status and returns the updated entry, or
// nil when the entry does not exist.
func (r *GormRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Entry, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return nil, eris.New("entry id is required")
	}

	result := r.db.WithContext(ctx).Model(&Entry{}).Where("id = ?", trimmed).Update("status", status)
	if result.Error != nil {
		r.logError(logrus.Fields{"entry_id": trimmed, "status": status}, result.Error, "updating entry status")
		return nil, eris.Wrapf(result.Error, "updating entry status: %s", trimmed)
	}

	if result.RowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, trimmed)
}

// Delete removes the entry.
func (r *GormRepository) Delete(ctx context.Context, id string) error {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return eris.New("entry id is required")
	}

	if err := r.db.WithContext(ctx).Delete(&Entry{}, "id = ?", trimmed).Error; err != nil {
		r.logError(logrus.Fields{"entry_id": trimmed}, err, "deleting entry")
		return eris.Wrapf(err, "deleting entry: %s", trimmed)
	}

	return nil
}

// ListApproved returns approved entries with their owners, newest first.
func (r *GormRepository) ListApproved(ctx context.Context) ([]Entry, error) {
	var records []Entry

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", StatusApproved).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		r.logError(nil, err, "listing approved entries")
		return nil, eris.Wrap(err, "listing approved entries")
	}

	return records, nil
}

// ListByUser returns the entries owned by the user, newest first, optionally
// restricted to approved ones.
func (r *GormRepository) ListByUser(ctx context.Context, userID string, onlyApproved bool) ([]Entry, error) {
	trimmed := strings.TrimSpace(userID)
	if trimmed == "" {
		return nil, eris.New("user id is required")
	}

	query := r.db.WithContext(ctx).Where("user_id = ?", trimmed).Order("created_at DESC")
	if onlyApproved {
		query = query.Where("status = ?", StatusApproved)
	}

	var records []Entry
	if err := query.Find(&records).Error; err != nil {
		r.logError(logrus.Fields{"user_id": trimmed}, err, "listing entries by user")
		return nil, eris.Wrapf(err, "listing entries for user: %s", trimmed)
	}

	return records, nil
}

// ListAll returns every entry with its owner, newest first.
func (r *GormRepository) ListAll(ctx context.Context) ([]Entry, error) {
	var records []Entry

	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		r.logError(nil, err, "listing all entries")
		return nil, eris.Wrap(err, "listing all entries")
	}

	return records, nil
}

// CountByOwner returns the number of entries per owning user id.
func (r *GormRepository) CountByOwner(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.WithContext(ctx).
		Model(&Entry{}).
		Select("user_id", "count(id)").
		Group("user_id").
		Rows()
	if err != nil {
		r.logError(nil, err, "querying entry counts")
		return nil, eris.Wrap(err, "querying entry counts")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var userID string
		var count int64
		if scanErr := rows.Scan(&userID, &count); scanErr != nil {
			r.logError(nil, scanErr, "scanning entry count row")
			return nil, eris.Wrap(scanErr, "scanning entry count row")
		}
		counts[userID] = count
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		r.logError(nil, rowsErr, "iterating entry count rows")
		return nil, eris.Wrap(rowsErr, "iterating entry count rows")
	}

	return counts, nil
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
