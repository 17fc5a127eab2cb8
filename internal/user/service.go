package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"wikiprofile/app/internal/auth"
)

// Service defines higher-level account operations built on top of the repository.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*User, string, error)
	Login(ctx context.Context, username, password string) (*User, string, error)
	CurrentUser(ctx context.Context, identity *auth.Identity) (*User, error)
	Get(ctx context.Context, identity *auth.Identity, id string) (*User, error)
	Directory(ctx context.Context, identity *auth.Identity) ([]DirectoryEntry, error)
	List(ctx context.Context, identity *auth.Identity) ([]User, error)
	AssignRole(ctx context.Context, identity *auth.Identity, targetID, role string) (*User, error)
}

// EntryCounter reports how many entries each user owns. Implemented by the
// entry repository.
type EntryCounter interface {
	CountByOwner(ctx context.Context) (map[string]int64, error)
}

// SignupInput carries the fields of a local signup request.
type SignupInput struct {
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// DirectoryEntry is a user together with the number of entries they own.
type DirectoryEntry struct {
	User       User
	EntryCount int64
}

var (
	// ErrNotFound indicates an unresolved user id.
	ErrNotFound = eris.New("user not found")
	// ErrUsernameTaken indicates a signup with an already registered username.
	ErrUsernameTaken = eris.New("username already exists")
	// ErrInvalidCredentials indicates a failed login. Unknown usernames and
	// wrong passwords are indistinguishable to the caller.
	ErrInvalidCredentials = eris.New("invalid credentials")
	// ErrMissingName indicates a signup without a first or last name.
	ErrMissingName = eris.New("first and last name are required")
)

// Accounts created through local signup get a synthesized address in a
// reserved domain so the email uniqueness constraint holds.
const localEmailDomain = "local.wikiprofile"

// ServiceOptions configures the user service wiring.
type ServiceOptions struct {
	Repository   Repository
	EntryCounter EntryCounter
	JWTSecret    []byte
	TokenTTL     time.Duration
	Logger       *logrus.Logger
	SentryHub    *sentry.Hub
}

type service struct {
	repo      Repository
	counter   EntryCounter
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

var _ Service = (*service)(nil)

// NewService wires the user service with its dependencies.
func NewService(opts ServiceOptions) (Service, error) {
	if opts.Repository == nil {
		return nil, eris.New("user repository is required")
	}
	if opts.EntryCounter == nil {
		return nil, eris.New("entry counter is required")
	}
	if len(opts.JWTSecret) == 0 {
		return nil, eris.New("jwt secret is required")
	}
	if opts.TokenTTL <= 0 {
		return nil, eris.New("token ttl must be greater than zero")
	}

	return &service{
		repo:      opts.Repository,
		counter:   opts.EntryCounter,
		jwtSecret: opts.JWTSecret,
		tokenTTL:  opts.TokenTTL,
		logger:    opts.Logger,
		sentryHub: opts.SentryHub,
	}, nil
}

func (s *service) Signup(ctx context.Context, input SignupInput) (*User, string, error) {
	username := strings.TrimSpace(input.Username)
	if err := auth.ValidateUsername(username); err != nil {
		return nil, "", err
	}

	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, "", ErrMissingName
	}

	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, "", err
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		s.recordError(logrus.Fields{"username": username}, err, "checking username availability")
		return nil, "", eris.Wrap(err, "checking username availability")
	}
	if existing != nil {
		return nil, "", eris.Wrapf(ErrUsernameTaken, "username: %s", username)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		s.recordError(logrus.Fields{"username": username}, err, "hashing signup password")
		return nil, "", eris.Wrap(err, "hashing signup password")
	}

	account := &User{
		Username:     username,
		Email:        fmt.Sprintf("%s@%s", username, localEmailDomain),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         auth.RoleUser,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		s.recordError(logrus.Fields{"username": username}, err, "creating user account")
		return nil, "", eris.Wrap(err, "creating user account")
	}

	token, err := auth.GenerateToken(account.Identity(), s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.recordError(logrus.Fields{"username": username}, err, "minting signup token")
		return nil, "", eris.Wrap(err, "minting signup token")
	}

	return account, token, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*User, string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" || password == "" {
		return nil, "", eris.Wrap(ErrInvalidCredentials, "username and password required")
	}

	account, err := s.repo.GetByUsername(ctx, trimmed)
	if err != nil {
		s.recordError(logrus.Fields{"username": trimmed}, err, "fetching user for login")
		return nil, "", eris.Wrap(err, "fetching user for login")
	}

	if account == nil || account.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(account.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(account.Identity(), s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.recordError(logrus.Fields{"username": trimmed}, err, "minting login token")
		return nil, "", eris.Wrap(err, "minting login token")
	}

	return account, token, nil
}

func (s *service) CurrentUser(ctx context.Context, identity *auth.Identity) (*User, error) {
	if identity == nil {
		return nil, auth.ErrUnauthenticated
	}

	account, err := s.repo.GetByID(ctx, identity.UserID)
	if err != nil {
		s.recordError(logrus.Fields{"user_id": identity.UserID}, err, "fetching current user")
		return nil, eris.Wrap(err, "fetching current user")
	}

	if account == nil {
		return nil, eris.Wrapf(ErrNotFound, "user: %s", identity.UserID)
	}

	return account, nil
}

func (s *service) Get(ctx context.Context, identity *auth.Identity, id string) (*User, error) {
	if identity == nil {
		return nil, auth.ErrUnauthenticated
	}

	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.recordError(logrus.Fields{"user_id": id}, err, "fetching user profile")
		return nil, eris.Wrap(err, "fetching user profile")
	}

	if account == nil {
		return nil, eris.Wrapf(ErrNotFound, "user: %s", id)
	}

	return account, nil
}

func (s *service) Directory(ctx context.Context, identity *auth.Identity) ([]DirectoryEntry, error) {
	if identity == nil {
		return nil, auth.ErrUnauthenticated
	}

	accounts, err := s.repo.List(ctx)
	if err != nil {
		s.recordError(nil, err, "listing users for directory")
		return nil, eris.Wrap(err, "listing users for directory")
	}

	counts, err := s.counter.CountByOwner(ctx)
	if err != nil {
		s.recordError(nil, err, "counting entries per user")
		return nil, eris.Wrap(err, "counting entries per user")
	}

	directory := make([]DirectoryEntry, 0, len(accounts))
	for _, account := range accounts {
		directory = append(directory, DirectoryEntry{
			User:       account,
			EntryCount: counts[account.ID],
		})
	}

	return directory, nil
}

func (s *service) List(ctx context.Context, identity *auth.Identity) ([]User, error) {
	if identity == nil {
		return nil, auth.ErrUnauthenticated
	}
	if !identity.IsAdmin() {
		return nil, eris.Wrap(auth.ErrForbidden, "listing all users requires admin role")
	}

	accounts, err := s.repo.List(ctx)
	if err != nil {
		s.recordError(nil, err, "listing users")
		return nil, eris.Wrap(err, "listing users")
	}

	return accounts, nil
}

func (s *service) AssignRole(ctx context.Context, identity *auth.Identity, targetID, role string) (*User, error) {
	if identity == nil {
		return nil, auth.ErrUnauthenticated
	}
	if !identity.IsAdmin() {
		return nil, eris.Wrap(auth.ErrForbidden, "role assignment requires admin role")
	}

	parsed, err := auth.ParseRole(role)
	if err != nil {
		return nil, err
	}

	account, err := s.repo.UpdateRole(ctx, targetID, parsed)
	if err != nil {
		s.recordError(logrus.Fields{"user_id": targetID, "role": role}, err, "assigning user role")
		return nil, eris.Wrap(err, "assigning user role")
	}

	if account == nil {
		return nil, eris.Wrapf(ErrNotFound, "user: %s", targetID)
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"actor_id": identity.UserID,
			"user_id":  account.ID,
			"role":     account.Role,
		}).Info("user role updated")
	}

	return account, nil
}

func (s *service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
