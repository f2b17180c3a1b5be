package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"newsdesk/internal/domain"
	"newsdesk/internal/repository"
)

const createNewsTable = `
CREATE TABLE IF NOT EXISTS news (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	title TEXT NOT NULL,
	image BLOB NULL,
	content TEXT NOT NULL DEFAULT '',
	uploaded_by TEXT NOT NULL,
	page_no INTEGER NOT NULL
);
`

// dateLayout is the on-disk form of the date column. Entries carry a calendar
// date only, no time of day.
const dateLayout = "2006-01-02"

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) repository.EntryRepository {
	return &EntryRepository{db: db}
}

func (r *EntryRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createNewsTable); err != nil {
		return fmt.Errorf("create news table: %w", err)
	}
	return nil
}

func (r *EntryRepository) InsertBatch(ctx context.Context, entries []domain.Entry) ([]int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin insert batch: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(entries))
	for i := range entries {
		var image any
		if entries[i].HasImage() {
			image = entries[i].Image
		}
		res, err := tx.ExecContext(ctx, `
INSERT INTO news (date, title, image, content, uploaded_by, page_no)
VALUES (?, ?, ?, ?, ?, ?)`,
			entries[i].Date.Format(dateLayout),
			entries[i].Title,
			image,
			entries[i].Content,
			entries[i].UploadedBy,
			entries[i].PageNo,
		)
		if err != nil {
			return nil, fmt.Errorf("insert entry %d: %w", i+1, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("entry last insert id: %w", err)
		}
		entries[i].ID = id
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit insert batch: %w", err)
	}
	return ids, nil
}

func (r *EntryRepository) ListAll(ctx context.Context) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, date, title, image, content, uploaded_by, page_no
FROM news
ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *EntryRepository) ListByUploader(ctx context.Context, uploadedBy string) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, date, title, image, content, uploaded_by, page_no
FROM news
WHERE uploaded_by = ?
ORDER BY date DESC, id DESC`,
		uploadedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries by uploader: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]domain.Entry, error) {
	var entries []domain.Entry
	for rows.Next() {
		var (
			entry domain.Entry
			date  string
			image []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&date,
			&entry.Title,
			&image,
			&entry.Content,
			&entry.UploadedBy,
			&entry.PageNo,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		parsed, err := time.Parse(dateLayout, date)
		if err != nil {
			return nil, fmt.Errorf("parse entry date %q: %w", date, err)
		}
		entry.Date = parsed
		entry.Image = image
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}
