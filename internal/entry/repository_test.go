package entry

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"wikiprofile/app/internal/auth"
	"wikiprofile/app/internal/db"
	"wikiprofile/app/internal/user"
)

func TestNewRepositoryRequiresDatabase(t *testing.T) {
	t.Parallel()

	if _, err := NewRepository(nil, nil); err == nil {
		t.Fatalf("expected error when database is nil")
	}
}

func TestGetByIDReturnsNilForMissingEntry(t *testing.T) {
	t.Parallel()

	repo, _ := setupRepository(t)

	record, err := repo.GetByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if record != nil {
		t.Fatalf("expected nil entry for missing id, got %#v", record)
	}
}

func TestCreateAssignsID(t *testing.T) {
	t.Parallel()

	repo, owner := setupRepository(t)
	ctx := context.Background()

	record := &Entry{
		UserID:      owner.ID,
		Title:       "First entry",
		Description: "A description long enough.",
		Status:      StatusPending,
	}

	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if record.ID == "" {
		t.Fatalf("expected generated entry id")
	}

	stored, err := repo.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected stored entry to be present")
	}
	if stored.Status != StatusPending {
		t.Fatalf("expected pending status, got %q", stored.Status)
	}
}

func TestUpdateContentResetsStatusToPending(t *testing.T) {
	t.Parallel()

	repo, owner := setupRepository(t)
	ctx := context.Background()

	record := &Entry{
		UserID:      owner.ID,
		Title:       "Original title",
		Description: "A description long enough.",
		Status:      StatusApproved,
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	newTitle := "Edited title"
	updated, err := repo.UpdateContent(ctx, record.ID, ContentUpdate{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdateContent returned error: %v", err)
	}
	if updated == nil {
		t.Fatalf("expected updated entry, got nil")
	}
	if updated.Title != newTitle {
		t.Fatalf("expected title %q, got %q", newTitle, updated.Title)
	}
	if updated.Status != StatusPending {
		t.Fatalf("expected status reset to pending, got %q", updated.Status)
	}
	if updated.Description != record.Description {
		t.Fatalf("expected description to be preserved, got %q", updated.Description)
	}

	missing, err := repo.UpdateContent(ctx, "missing", ContentUpdate{Title: &newTitle})
	if err != nil {
		t.Fatalf("UpdateContent returned error for missing entry: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing entry, got %#v", missing)
	}
}

func TestUpdateStatus(t *testing.T) {
	t.Parallel()

	repo, owner := setupRepository(t)
	ctx := context.Background()

	record := &Entry{
		UserID:      owner.ID,
		Title:       "Pending entry",
		Description: "A description long enough.",
		Status:      StatusPending,
	}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := repo.UpdateStatus(ctx, record.ID, StatusApproved)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != StatusApproved {
		t.Fatalf("expected approved status, got %q", updated.Status)
	}

	missing, err := repo.UpdateStatus(ctx, "missing", StatusRejected)
	if err != nil {
		t.Fatalf("UpdateStatus returned error for missing entry: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing entry, got %#v", missing)
	}
}

func TestListApprovedFiltersAndOrders(t *testing.T) {
	t.Parallel()

	repo, owner := setupRepository(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	seed := []Entry{
		{UserID: owner.ID, Title: "Old approved", Description: "A description long enough.", Status: StatusApproved, CreatedAt: base},
		{UserID: owner.ID, Title: "Pending", Description: "A description long enough.", Status: StatusPending, CreatedAt: base.Add(time.Minute)},
		{UserID: owner.ID, Title: "New approved", Description: "A description long enough.", Status: StatusApproved, CreatedAt: base.Add(2 * time.Minute)},
		{UserID: owner.ID, Title: "Rejected", Description: "A description long enough.", Status: StatusRejected, CreatedAt: base.Add(3 * time.Minute)},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	listed, err := repo.ListApproved(ctx)
	if err != nil {
		t.Fatalf("ListApproved returned error: %v", err)
	}

	if len(listed) != 2 {
		t.Fatalf("expected 2 approved entries, got %d", len(listed))
	}
	if listed[0].Title != "New approved" || listed[1].Title != "Old approved" {
		t.Fatalf("expected newest first ordering, got %q then %q", listed[0].Title, listed[1].Title)
	}
	if listed[0].User.ID != owner.ID {
		t.Fatalf("expected owner to be preloaded")
	}
}

func TestListByUserHonoursApprovedFilter(t *testing.T) {
	t.Parallel()

	repo, owner := setupRepository(t)
	ctx := context.Background()

	seed := []Entry{
		{UserID: owner.ID, Title: "Approved", Description: "A description long enough.", Status: StatusApproved},
		{UserID: owner.ID, Title: "Pending", Description: "A description long enough.", Status: StatusPending},
	}
	for i := range seed {
		if err := repo.Create(ctx, &seed[i]); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	all, err := repo.ListByUser(ctx, owner.ID, false)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}

	approved, err := repo.ListByUser(ctx, owner.ID, true)
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(approved) != 1 || approved[0].Status != StatusApproved {
		t.Fatalf("expected only the approved entry, got %#v", approved)
	}
}

func TestCountByOwner(t *testing.T) {
	t.Parallel()

	repo, owner := setupRepository(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		record := &Entry{UserID: owner.ID, Title: "Entry", Description: "A description long enough.", Status: StatusPending}
		if err := repo.Create(ctx, record); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	counts, err := repo.CountByOwner(ctx)
	if err != nil {
		t.Fatalf("CountByOwner returned error: %v", err)
	}

	if counts[owner.ID] != 3 {
		t.Fatalf("expected count 3 for owner, got %d", counts[owner.ID])
	}
}

func TestDeleteRemovesEntry(t *testing.T) {
	t.Parallel()

	repo, owner := setupRepository(t)
	ctx := context.Background()

	record := &Entry{UserID: owner.ID, Title: "Doomed", Description: "A description long enough.", Status: StatusPending}
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := repo.Delete(ctx, record.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	stored, err := repo.GetByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if stored != nil {
		t.Fatalf("expected entry to be gone, got %#v", stored)
	}
}

func setupRepository(t *testing.T) (*GormRepository, *user.User) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "entries.db")
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

	ctx := context.Background()
	if err := user.Migrate(ctx, gormDB, logger); err != nil {
		t.Fatalf("user.Migrate returned error: %v", err)
	}
	if err := Migrate(ctx, gormDB, logger); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	userRepo, err := user.NewRepository(gormDB, logger)
	if err != nil {
		t.Fatalf("user.NewRepository returned error: %v", err)
	}

	owner := &user.User{Username: "owner", Email: "owner@local.wikiprofile", Role: auth.RoleUser}
	if err := userRepo.Create(ctx, owner); err != nil {
		t.Fatalf("creating owner returned error: %v", err)
	}

	repo, err := NewRepository(gormDB, logger)
	if err != nil {
		t.Fatalf("NewRepository returned error: %v", err)
	}

	return repo, owner
}
