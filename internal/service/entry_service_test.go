package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"newsdesk/internal/domain"
)

type fakeEntryRepo struct {
	stored  []domain.Entry
	nextID  int64
	listErr error
}

func (f *fakeEntryRepo) Init(ctx context.Context) error { return nil }

func (f *fakeEntryRepo) InsertBatch(ctx context.Context, entries []domain.Entry) ([]int64, error) {
	ids := make([]int64, len(entries))
	for i := range entries {
		f.nextID++
		entries[i].ID = f.nextID
		ids[i] = f.nextID
		f.stored = append(f.stored, entries[i])
	}
	return ids, nil
}

func (f *fakeEntryRepo) ListAll(ctx context.Context) ([]domain.Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.stored, nil
}

func (f *fakeEntryRepo) ListByUploader(ctx context.Context, uploadedBy string) ([]domain.Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Entry
	for _, entry := range f.stored {
		if entry.UploadedBy == uploadedBy {
			out = append(out, entry)
		}
	}
	return out, nil
}

type fakeStorage struct {
	keys []string
	err  error
}

func (f *fakeStorage) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "s3://" + bucket + "/" + key, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestEntryService_UploadReceiptsEchoInputOrder(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := NewEntryService(repo, nil, ArchiveOptions{}, nil)

	receipts, err := svc.Upload(context.Background(), "alice", []UploadEntry{
		{Title: "Storm Warning", Content: "Heavy rain expected.", PageNo: 1},
		{Title: "Budget", PageNo: 4},
		{Title: "Sports", PageNo: 2},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(receipts) != 3 {
		t.Fatalf("expected 3 receipts, got %d", len(receipts))
	}

	wantTitles := []string{"Storm Warning", "Budget", "Sports"}
	wantPages := []int{1, 4, 2}
	for i := range receipts {
		if receipts[i].Title != wantTitles[i] || receipts[i].PageNo != wantPages[i] {
			t.Errorf("receipt %d = %+v, want title %q page %d", i, receipts[i], wantTitles[i], wantPages[i])
		}
		if receipts[i].ID == 0 {
			t.Errorf("receipt %d missing id", i)
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, stored := range repo.stored {
		if !stored.Date.Equal(today) {
			t.Errorf("entry date = %v, want today %v", stored.Date, today)
		}
		if stored.UploadedBy != "alice" {
			t.Errorf("uploadedBy = %q", stored.UploadedBy)
		}
	}
}

func TestEntryService_UploadRejectsInvalidEntryBeforeAnyInsert(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := NewEntryService(repo, nil, ArchiveOptions{}, nil)

	_, err := svc.Upload(context.Background(), "alice", []UploadEntry{
		{Title: "Valid", PageNo: 1},
		{Title: "", PageNo: 2},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(verr.Message, "entry #2") {
		t.Errorf("message %q should name the failing entry", verr.Message)
	}
	if len(repo.stored) != 0 {
		t.Fatalf("expected no inserts after validation failure, got %d", len(repo.stored))
	}
}

func TestEntryService_UploadRejectsEmptyBatchAndMissingUploader(t *testing.T) {
	svc := NewEntryService(&fakeEntryRepo{}, nil, ArchiveOptions{}, nil)
	ctx := context.Background()

	var verr *ValidationError
	if _, err := svc.Upload(ctx, "alice", nil); !errors.As(err, &verr) {
		t.Errorf("empty batch: expected ValidationError, got %v", err)
	}
	if _, err := svc.Upload(ctx, " ", []UploadEntry{{Title: "x", PageNo: 1}}); !errors.As(err, &verr) {
		t.Errorf("missing uploader: expected ValidationError, got %v", err)
	}
	if _, err := svc.Upload(ctx, "alice", []UploadEntry{{Title: "x", PageNo: 0}}); !errors.As(err, &verr) {
		t.Errorf("non-positive page: expected ValidationError, got %v", err)
	}
}

func TestEntryService_UploadNormalizesImageToJPEG(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := NewEntryService(repo, nil, ArchiveOptions{}, nil)

	_, err := svc.Upload(context.Background(), "alice", []UploadEntry{
		{Title: "With image", PageNo: 1, Image: pngBytes(t)},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	stored := repo.stored[0]
	if !stored.HasImage() {
		t.Fatal("expected stored image bytes")
	}
	// JPEG SOI marker
	if stored.Image[0] != 0xFF || stored.Image[1] != 0xD8 {
		t.Errorf("stored image is not JPEG encoded: % x", stored.Image[:2])
	}
}

func TestEntryService_UploadRejectsUndecodableImage(t *testing.T) {
	svc := NewEntryService(&fakeEntryRepo{}, nil, ArchiveOptions{}, nil)

	_, err := svc.Upload(context.Background(), "alice", []UploadEntry{
		{Title: "Broken", PageNo: 1, Image: []byte("not an image")},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestEntryService_ListForUserRoleVisibility(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := NewEntryService(repo, nil, ArchiveOptions{}, nil)
	ctx := context.Background()

	if _, err := svc.Upload(ctx, "alice", []UploadEntry{{Title: "Storm Warning", PageNo: 1}}); err != nil {
		t.Fatalf("Upload alice: %v", err)
	}
	if _, err := svc.Upload(ctx, "bob", []UploadEntry{{Title: "Budget", PageNo: 2}}); err != nil {
		t.Fatalf("Upload bob: %v", err)
	}

	forAlice, err := svc.ListForUser(ctx, "alice")
	if err != nil {
		t.Fatalf("ListForUser(alice): %v", err)
	}
	if len(forAlice) != 1 || forAlice[0].Title != "Storm Warning" {
		t.Errorf("alice should see only her entry, got %+v", forAlice)
	}

	forBob, err := svc.ListForUser(ctx, "bob")
	if err != nil {
		t.Fatalf("ListForUser(bob): %v", err)
	}
	for _, entry := range forBob {
		if entry.Title == "Storm Warning" {
			t.Error("bob should not see alice's entry")
		}
	}

	forAdmin, err := svc.ListForUser(ctx, "admin")
	if err != nil {
		t.Fatalf("ListForUser(admin): %v", err)
	}
	if len(forAdmin) != 2 {
		t.Errorf("admin should see all entries, got %d", len(forAdmin))
	}
}

func TestEntryService_ArchiveFailureDoesNotFailUpload(t *testing.T) {
	repo := &fakeEntryRepo{}
	store := &fakeStorage{err: errors.New("bucket unavailable")}
	svc := NewEntryService(repo, store, ArchiveOptions{Bucket: "archive"}, nil)

	receipts, err := svc.Upload(context.Background(), "alice", []UploadEntry{
		{Title: "With image", PageNo: 1, Image: pngBytes(t)},
	})
	if err != nil {
		t.Fatalf("Upload should succeed despite archive failure: %v", err)
	}
	if len(receipts) != 1 {
		t.Fatalf("expected 1 receipt, got %d", len(receipts))
	}
}

func TestEntryService_ArchivesImagesWhenConfigured(t *testing.T) {
	repo := &fakeEntryRepo{}
	store := &fakeStorage{}
	svc := NewEntryService(repo, store, ArchiveOptions{Bucket: "archive", KeyPrefix: "images"}, nil)

	_, err := svc.Upload(context.Background(), "alice", []UploadEntry{
		{Title: "With image", PageNo: 1, Image: pngBytes(t)},
		{Title: "No image", PageNo: 2},
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(store.keys) != 1 {
		t.Fatalf("expected 1 archived object, got %d", len(store.keys))
	}
	if !strings.HasPrefix(store.keys[0], "images/") || !strings.HasSuffix(store.keys[0], ".jpg") {
		t.Errorf("unexpected archive key %q", store.keys[0])
	}
}
