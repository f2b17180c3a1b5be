package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"newsdesk/internal/domain"
	"newsdesk/internal/imaging"
	"newsdesk/internal/repository"
	"newsdesk/internal/storage"
)

// UploadEntry is one entry of an upload batch as received from the client.
// Image carries the raw attachment bytes before normalization.
type UploadEntry struct {
	Title   string
	Content string
	PageNo  int
	Image   []byte
}

// ArchiveOptions conveys the destination for best-effort image archival.
type ArchiveOptions struct {
	Bucket    string
	KeyPrefix string
}

// EntryService coordinates entry publication and listing.
type EntryService interface {
	// ListForUser returns the entries visible to userName: everything for the
	// admin role, only the user's own uploads otherwise.
	ListForUser(ctx context.Context, userName string) ([]domain.Entry, error)
	// Upload validates the whole batch, assigns today's date to every entry,
	// and persists all rows in one transaction. Receipts are returned in
	// input order.
	Upload(ctx context.Context, uploadedBy string, entries []UploadEntry) ([]domain.Receipt, error)
}

type entryService struct {
	entries repository.EntryRepository
	store   storage.Service
	archive ArchiveOptions
	logger  *logrus.Logger
}

func NewEntryService(entries repository.EntryRepository, store storage.Service, archive ArchiveOptions, logger *logrus.Logger) EntryService {
	if logger == nil {
		logger = logrus.New()
	}
	return &entryService{
		entries: entries,
		store:   store,
		archive: archive,
		logger:  logger,
	}
}

func (s *entryService) ListForUser(ctx context.Context, userName string) ([]domain.Entry, error) {
	if domain.RoleOf(userName).SeesAll() {
		return s.entries.ListAll(ctx)
	}
	return s.entries.ListByUploader(ctx, userName)
}

func (s *entryService) Upload(ctx context.Context, uploadedBy string, entries []UploadEntry) ([]domain.Receipt, error) {
	uploadedBy = strings.TrimSpace(uploadedBy)
	if uploadedBy == "" {
		return nil, validationErrorf("Missing required field: uploaded_by")
	}
	if len(entries) == 0 {
		return nil, validationErrorf("Invalid entries data format")
	}

	// Validate the whole batch before touching the store: a bad entry must
	// leave nothing behind.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	rows := make([]domain.Entry, len(entries))
	for i, entry := range entries {
		if strings.TrimSpace(entry.Title) == "" || entry.PageNo <= 0 {
			return nil, validationErrorf("Missing required fields in entry #%d", i+1)
		}

		var image []byte
		if len(entry.Image) > 0 {
			normalized, err := imaging.NormalizeJPEG(entry.Image)
			if err != nil {
				return nil, validationErrorf("Invalid image in entry #%d: %v", i+1, err)
			}
			image = normalized
		}

		rows[i] = domain.Entry{
			Date:       today,
			Title:      entry.Title,
			Content:    entry.Content,
			Image:      image,
			UploadedBy: uploadedBy,
			PageNo:     entry.PageNo,
		}
	}

	ids, err := s.entries.InsertBatch(ctx, rows)
	if err != nil {
		return nil, err
	}

	receipts := make([]domain.Receipt, len(rows))
	for i := range rows {
		receipts[i] = domain.Receipt{
			ID:     ids[i],
			Title:  rows[i].Title,
			PageNo: rows[i].PageNo,
		}
	}

	s.archiveImages(ctx, rows, ids)
	return receipts, nil
}

// archiveImages mirrors stored image bytes to object storage when configured.
// Failures are logged and never surface to the uploader.
func (s *entryService) archiveImages(ctx context.Context, rows []domain.Entry, ids []int64) {
	if s.store == nil || s.archive.Bucket == "" {
		return
	}
	prefix := strings.Trim(s.archive.KeyPrefix, "/")
	for i := range rows {
		if !rows[i].HasImage() {
			continue
		}
		key := fmt.Sprintf("%s/%d.jpg", rows[i].Date.Format("2006-01-02"), ids[i])
		if prefix != "" {
			key = prefix + "/" + key
		}
		location, err := s.store.PutObject(ctx, s.archive.Bucket, key, rows[i].Image, "image/jpeg")
		if err != nil {
			s.logger.Warnf("archive image for entry %d: %v", ids[i], err)
			continue
		}
		s.logger.Debugf("archived image for entry %d to %s", ids[i], location)
	}
}
