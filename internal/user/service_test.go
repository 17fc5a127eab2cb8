package user

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"wikiprofile/app/internal/auth"
	"wikiprofile/app/internal/db"
)

var testSecret = []byte("test-secret")

func TestSignupCreatesUserWithDefaults(t *testing.T) {
	t.Parallel()

	service, _ := setupService(t, nil)
	ctx := context.Background()

	account, token, err := service.Signup(ctx, SignupInput{
		Username:  "alice",
		FirstName: "Alice",
		LastName:  "Archer",
		Password:  "Str0ng!pass",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if account.ID == "" {
		t.Fatalf("expected generated user id")
	}
	if account.Role != auth.RoleUser {
		t.Fatalf("expected role user, got %q", account.Role)
	}
	if account.Email != "alice@local.wikiprofile" {
		t.Fatalf("expected synthesized email, got %q", account.Email)
	}
	if account.PasswordHash == "Str0ng!pass" || account.PasswordHash == "" {
		t.Fatalf("expected hashed password, got %q", account.PasswordHash)
	}

	identity, err := auth.ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("expected signup token to parse: %v", err)
	}
	if identity.UserID != account.ID {
		t.Fatalf("expected token user id %q, got %q", account.ID, identity.UserID)
	}
	if identity.Role != auth.RoleUser {
		t.Fatalf("expected token role user, got %q", identity.Role)
	}
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	t.Parallel()

	service, _ := setupService(t, nil)

	_, _, err := service.Signup(context.Background(), SignupInput{
		Username:  "bob",
		FirstName: "Bob",
		LastName:  "Builder",
		Password:  "abcdefgh",
	})
	if !eris.Is(err, auth.ErrPasswordPolicy) {
		t.Fatalf("expected ErrPasswordPolicy, got %v", err)
	}
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	t.Parallel()

	service, _ := setupService(t, nil)
	ctx := context.Background()

	input := SignupInput{Username: "carol", FirstName: "Carol", LastName: "Chu", Password: "Str0ng!pass"}
	if _, _, err := service.Signup(ctx, input); err != nil {
		t.Fatalf("first signup returned error: %v", err)
	}

	if _, _, err := service.Signup(ctx, input); !eris.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestSignupRejectsMissingNames(t *testing.T) {
	t.Parallel()

	service, _ := setupService(t, nil)

	_, _, err := service.Signup(context.Background(), SignupInput{
		Username: "dave",
		Password: "Str0ng!pass",
	})
	if !eris.Is(err, ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	service, _ := setupService(t, nil)
	ctx := context.Background()

	created, _, err := service.Signup(ctx, SignupInput{
		Username:  "erin",
		FirstName: "Erin",
		LastName:  "Evans",
		Password:  "Str0ng!pass",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	account, token, err := service.Login(ctx, "erin", "Str0ng!pass")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if account.ID != created.ID {
		t.Fatalf("expected login to return the signup account")
	}
	if token == "" {
		t.Fatalf("expected login token")
	}

	if _, _, err := service.Login(ctx, "erin", "Wr0ng!pass"); !eris.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}

	if _, _, err := service.Login(ctx, "nobody", "Str0ng!pass"); !eris.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestAssignRoleGates(t *testing.T) {
	t.Parallel()

	service, repo := setupService(t, nil)
	ctx := context.Background()

	target, _, err := service.Signup(ctx, SignupInput{
		Username:  "frank",
		FirstName: "Frank",
		LastName:  "Field",
		Password:  "Str0ng!pass",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}

	if _, err := service.AssignRole(ctx, nil, target.ID, "moderator"); !eris.Is(err, auth.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for anonymous caller, got %v", err)
	}

	member := &auth.Identity{UserID: "someone", Role: auth.RoleUser}
	if _, err := service.AssignRole(ctx, member, target.ID, "moderator"); !eris.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin caller, got %v", err)
	}

	admin := &auth.Identity{UserID: "admin", Role: auth.RoleAdmin}
	if _, err := service.AssignRole(ctx, admin, target.ID, "superuser"); !eris.Is(err, auth.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}

	updated, err := service.AssignRole(ctx, admin, target.ID, "moderator")
	if err != nil {
		t.Fatalf("AssignRole returned error: %v", err)
	}
	if updated.Role != auth.RoleModerator {
		t.Fatalf("expected role moderator, got %q", updated.Role)
	}

	stored, err := repo.GetByID(ctx, target.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored.Role != auth.RoleModerator {
		t.Fatalf("expected persisted role moderator, got %q", stored.Role)
	}

	if _, err := service.AssignRole(ctx, admin, "missing", "admin"); !eris.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing target, got %v", err)
	}
}

func TestDirectoryIncludesEntryCounts(t *testing.T) {
	t.Parallel()

	counter := &stubCounter{counts: map[string]int64{}}
	service, _ := setupService(t, counter)
	ctx := context.Background()

	account, _, err := service.Signup(ctx, SignupInput{
		Username:  "grace",
		FirstName: "Grace",
		LastName:  "Gold",
		Password:  "Str0ng!pass",
	})
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	counter.counts[account.ID] = 3

	if _, err := service.Directory(ctx, nil); !eris.Is(err, auth.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated for anonymous caller, got %v", err)
	}

	viewer := &auth.Identity{UserID: account.ID, Role: auth.RoleUser}
	directory, err := service.Directory(ctx, viewer)
	if err != nil {
		t.Fatalf("Directory returned error: %v", err)
	}

	if len(directory) != 1 {
		t.Fatalf("expected 1 directory entry, got %d", len(directory))
	}
	if directory[0].EntryCount != 3 {
		t.Fatalf("expected entry count 3, got %d", directory[0].EntryCount)
	}
	if directory[0].User.ID != account.ID {
		t.Fatalf("expected directory to contain the signed up user")
	}
}

func TestListRequiresAdmin(t *testing.T) {
	t.Parallel()

	service, _ := setupService(t, nil)
	ctx := context.Background()

	if _, err := service.List(ctx, nil); !eris.Is(err, auth.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	member := &auth.Identity{UserID: "someone", Role: auth.RoleModerator}
	if _, err := service.List(ctx, member); !eris.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for moderator, got %v", err)
	}

	admin := &auth.Identity{UserID: "admin", Role: auth.RoleAdmin}
	if _, err := service.List(ctx, admin); err != nil {
		t.Fatalf("List returned error for admin: %v", err)
	}
}

type stubCounter struct {
	counts map[string]int64
	err    error
}

func (s *stubCounter) CountByOwner(ctx context.Context) (map[string]int64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.counts, nil
}

func setupService(t *testing.T, counter *stubCounter) (Service, *GormRepository) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "users.db")
	gormDB, err := db.Open(db.Options{Path: path})
	if err != nil {
		t.Fatalf("db.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := db.Close(gormDB); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	if err := Migrate(context.Background(), gormDB, logger); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	repo, err := NewRepository(gormDB, logger)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	if counter == nil {
		counter = &stubCounter{counts: map[string]int64{}}
	}

	service, err := NewService(ServiceOptions{
		Repository:   repo,
		EntryCounter: counter,
		JWTSecret:    testSecret,
		TokenTTL:     time.Hour,
		Logger:       logger,
	})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	return service, repo
}
