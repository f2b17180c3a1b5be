package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"newsdesk/internal/domain"
	"newsdesk/internal/repository"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "newsdesk.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestEntryRepo(t *testing.T) repository.EntryRepository {
	t.Helper()

	repo := NewEntryRepository(newTestDB(t))
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init entry repository: %v", err)
	}
	return repo
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEntryRepository_InsertBatchReturnsIDsInOrder(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	entries := []domain.Entry{
		{Date: date(2026, 9, 1), Title: "First", UploadedBy: "alice", PageNo: 1},
		{Date: date(2026, 9, 1), Title: "Second", UploadedBy: "alice", PageNo: 2},
		{Date: date(2026, 9, 1), Title: "Third", UploadedBy: "alice", PageNo: 3},
	}
	ids, err := repo.InsertBatch(ctx, entries)
	if err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %d", len(ids))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Errorf("ids not increasing in input order: %v", ids)
		}
	}
}

func TestEntryRepository_ListAllOrderedByDateDesc(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	entries := []domain.Entry{
		{Date: date(2026, 8, 30), Title: "Middle", UploadedBy: "alice", PageNo: 1},
		{Date: date(2026, 8, 29), Title: "Oldest", UploadedBy: "bob", PageNo: 1},
		{Date: date(2026, 8, 31), Title: "Newest", UploadedBy: "alice", PageNo: 2},
	}
	if _, err := repo.InsertBatch(ctx, entries); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	listed, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(listed) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(listed))
	}
	wantTitles := []string{"Newest", "Middle", "Oldest"}
	for i, want := range wantTitles {
		if listed[i].Title != want {
			t.Errorf("position %d: got %q, want %q", i, listed[i].Title, want)
		}
	}
	if !listed[0].Date.Equal(date(2026, 8, 31)) {
		t.Errorf("date did not round-trip: got %v", listed[0].Date)
	}
}

func TestEntryRepository_ListByUploaderFilters(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	entries := []domain.Entry{
		{Date: date(2026, 9, 1), Title: "Storm Warning", UploadedBy: "alice", PageNo: 1},
		{Date: date(2026, 9, 1), Title: "Budget", UploadedBy: "bob", PageNo: 2},
	}
	if _, err := repo.InsertBatch(ctx, entries); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	forAlice, err := repo.ListByUploader(ctx, "alice")
	if err != nil {
		t.Fatalf("ListByUploader(alice): %v", err)
	}
	if len(forAlice) != 1 || forAlice[0].Title != "Storm Warning" {
		t.Fatalf("expected only alice's entry, got %+v", forAlice)
	}

	forCarol, err := repo.ListByUploader(ctx, "carol")
	if err != nil {
		t.Fatalf("ListByUploader(carol): %v", err)
	}
	if len(forCarol) != 0 {
		t.Fatalf("expected no entries for carol, got %d", len(forCarol))
	}
}

func TestEntryRepository_ImageBytesRoundTrip(t *testing.T) {
	repo := newTestEntryRepo(t)
	ctx := context.Background()

	image := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	entries := []domain.Entry{
		{Date: date(2026, 9, 1), Title: "With image", Image: image, UploadedBy: "alice", PageNo: 1},
		{Date: date(2026, 9, 1), Title: "Without image", UploadedBy: "alice", PageNo: 2},
	}
	if _, err := repo.InsertBatch(ctx, entries); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	listed, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	for _, entry := range listed {
		switch entry.Title {
		case "With image":
			if !bytes.Equal(entry.Image, image) {
				t.Errorf("image bytes changed: got %v", entry.Image)
			}
		case "Without image":
			if entry.HasImage() {
				t.Errorf("expected no image, got %d bytes", len(entry.Image))
			}
		}
	}
}
