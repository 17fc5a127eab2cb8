package entry

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"wikiprofile/app/internal/auth"
)

// Service defines the moderation and ownership rules for wiki entries. Every
// operation takes the caller's identity and decides whether it may proceed
// before touching the repository.
type Service interface {
	Create(ctx context.Context, identity *auth.Identity, input CreateInput) (*Entry, error)
	Get(ctx context.Context, identity *auth.Identity, id string) (*Entry, error)
	UpdateContent(ctx context.Context, identity *auth.Identity, id string, update ContentUpdate) (*Entry, error)
	Delete(ctx context.Context, identity *auth.Identity, id string) error
	Moderate(ctx context.Context, identity *auth.Identity, id, status, note string) (*Entry, error)
	AdminDelete(ctx context.Context, identity *auth.Identity, id string) error
	ListApproved(ctx context.Context) ([]Entry, error)
	ProfileEntries(ctx context.Context, identity *auth.Identity, ownerID string) ([]Entry, error)
	AdminQueue(ctx context.Context, identity *auth.Identity) ([]Entry, error)
}

// CreateInput carries the fields of a new entry. The owner and status are
// never part of the input: the owner is the caller and the status is pending.
type CreateInput struct {
	Title       string
	Description string
	ImageURL    string
}

var (
	// ErrNotFound indicates an unresolved entry id.
	ErrNotFound = eris.New("entry not found")
	// ErrInvalidTitle indicates a title outside the accepted length.
	ErrInvalidTitle = eris.New("title must be between 1 and 255 characters")
	// ErrInvalidDescription indicates a description below the minimum length.
	ErrInvalidDescription = eris.New("description must be at least 10 characters")
)

const (
	maxTitleLength       = 255
	minDescriptionLength = 10
)

type service struct {
	repo      Repository
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the entry service with its dependencies.
func NewService(repo Repository, logger *logrus.Logger, hub *sentry.Hub) (Service, error) {
	if repo == nil {
		return nil, eris.New("entry repository is required")
	}

	return &service{
		repo:      repo,
		logger:    logger,
		sentryHub: hub,
	}, nil
}

func (s *service) Create(ctx context.Context, identity *auth.Identity, input CreateInput) (*Entry, error) {
	if identity == nil {
		return nil, auth.ErrUnauthenticated
	}

	title := strings.TrimSpace(input.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	description := strings.TrimSpace(input.Description)
	if err := validateDescription(description); err != nil {
		return nil, err
	}

	record := &Entry{
		UserID:      identity.UserID,
		Title:       title,
		Description: description,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Status:      StatusPending,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		s.recordError(logrus.Fields{"user_id": identity.UserID}, err, "persisting new entry")
		return nil, eris.Wrap(err, "persisting new entry")
	}

	return record, nil
}

func (s *service) Get(ctx context.Context, identity *auth.Identity, id string) (*Entry, error) {
	if identity == nil {
		return nil, auth.ErrUnauthenticated
	}

	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"entry_id": id}, err, "fetching entry")
		return nil, eris.Wrap(err, "fetching entry")
	}

	if record == nil {
		return nil, eris.Wrapf(ErrNotFound, "entry: %s", id)
	}

	return record, nil
}

func (s *service) UpdateContent(ctx context.Context, identity *auth.Identity, id string, update ContentUpdate) (*Entry, error) {
	if identity == nil {
		return nil, auth.ErrUnauthenticated
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"entry_id": id}, err, "fetching entry for update")
		return nil, eris.Wrap(err, "fetching entry for update")
	}

	if existing == nil {
		return nil, eris.Wrapf(ErrNotFound, "entry: %s", id)
	}

	if existing.UserID != identity.UserID {
		return nil, eris.Wrap(auth.ErrForbidden, "only the owner may edit an entry")
	}

	// An empty update changes nothing, so it does not re-enter moderation.
	if update.Empty() {
		return existing, nil
	}

	if update.Title != nil {
		trimmed := strings.TrimSpace(*update.Title)
		if err := validateTitle(trimmed); err != nil {
			return nil, err
		}
		update.Title = &trimmed
	}

	if update.Description != nil {
		trimmed := strings.TrimSpace(*update.Description)
		if err := validateDescription(trimmed); err != nil {
			return nil, err
		}
		update.Description = &trimmed
	}

	updated, err := s.repo.UpdateContent(ctx, id, update)
	if err != nil {
		s.recordError(logrus.Fields{"entry_id": id}, err, "updating entry content")
		return nil, eris.Wrap(err, "updating entry content")
	}

	if updated == nil {
		return nil, eris.Wrapf(ErrNotFound, "entry: %s", id)
	}

	return updated, nil
}

func (s *service) Delete(ctx context.Context, identity *auth.Identity, id string) error {
	if identity == nil {
		return auth.ErrUnauthenticated
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"entry_id": id}, err, "fetching entry for delete")
		return eris.Wrap(err, "fetching entry for delete")
	}

	if existing == nil {
		return eris.Wrapf(ErrNotFound, "entry: %s", id)
	}

	if existing.UserID != identity.UserID {
		return eris.Wrap(auth.ErrForbidden, "only the owner may delete an entry")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.recordError(logrus.Fields{"entry_id": id}, err, "deleting entry")
		return eris.Wrap(err, "deleting entry")
	}

	return nil
}

func (s *service) Moderate(ctx context.Context, identity *auth.Identity, id, status, note string) (*Entry, error) {
	if identity == nil {
		return nil, auth.ErrUnauthenticated
	}
	if !identity.IsAdmin() {
		return nil, eris.Wrap(auth.ErrForbidden, "moderation requires admin role")
	}

	target, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, id, target)
	if err != nil {
		s.recordError(logrus.Fields{"entry_id": id, "status": status}, err, "moderating entry")
		return nil, eris.Wrap(err, "moderating entry")
	}

	if updated == nil {
		return nil, eris.Wrapf(ErrNotFound, "entry: %s", id)
	}

	if s.logger != nil {
		fields := logrus.Fields{
			"actor_id": identity.UserID,
			"entry_id": updated.ID,
			"status":   updated.Status,
		}
		if trimmed := strings.TrimSpace(note); trimmed != "" {
			fields["note"] = trimmed
		}
		s.logger.WithFields(fields).Info("entry moderated")
	}

	return updated, nil
}

func (s *service) AdminDelete(ctx context.Context, identity *auth.Identity, id string) error {
	if identity == nil {
		return auth.ErrUnauthenticated
	}
	if !identity.IsAdmin() {
		return eris.Wrap(auth.ErrForbidden, "admin delete requires admin role")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"entry_id": id}, err, "fetching entry for admin delete")
		return eris.Wrap(err, "fetching entry for admin delete")
	}

	if existing == nil {
		return eris.Wrapf(ErrNotFound, "entry: %s", id)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.recordError(logrus.Fields{"entry_id": id}, err, "deleting entry as admin")
		return eris.Wrap(err, "deleting entry as admin")
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"actor_id": identity.UserID,
			"entry_id": id,
			"owner_id": existing.UserID,
		}).Info("entry deleted by admin")
	}

	return nil
}

func (s *service) ListApproved(ctx context.Context) ([]Entry, error) {
	records, err := s.repo.ListApproved(ctx)
	if err != nil {
		s.recordError(nil, err, "listing approved entries")
		return nil, eris.Wrap(err, "listing approved entries")
	}

	return records, nil
}

// ProfileEntries returns the entries shown on a profile page. The owner and
// admins see every status; anyone else sees only approved entries.
func (s *service) ProfileEntries(ctx context.Context, identity *auth.Identity, ownerID string) ([]Entry, error) {
	if identity == nil {
		return nil, auth.ErrUnauthenticated
	}

	onlyApproved := identity.UserID != ownerID && !identity.IsAdmin()

	records, err := s.repo.ListByUser(ctx, ownerID, onlyApproved)
	if err != nil {
		s.recordError(logrus.Fields{"user_id": ownerID}, err, "listing profile entries")
		return nil, eris.Wrap(err, "listing profile entries")
	}

	return records, nil
}

func (s *service) AdminQueue(ctx context.Context, identity *auth.Identity) ([]Entry, error) {
	if identity == nil {
		return nil, auth.ErrUnauthenticated
	}
	if !identity.IsAdmin() {
		return nil, eris.Wrap(auth.ErrForbidden, "moderation queue requires admin role")
	}

	records, err := s.repo.ListAll(ctx)
	if err != nil {
		s.recordError(nil, err, "listing moderation queue")
		return nil, eris.Wrap(err, "listing moderation queue")
	}

	return records, nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		logEntry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			logEntry = logEntry.WithFields(fields)
		}
		logEntry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}

func validateTitle(title string) error {
	if title == "" || len(title) > maxTitleLength {
		return eris.Wrapf(ErrInvalidTitle, "got %d characters", len(title))
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) < minDescriptionLength {
		return eris.Wrapf(ErrInvalidDescription, "got %d characters", len(description))
	}
	return nil
}
