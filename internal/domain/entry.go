package domain

import "time"

// Entry represents one published news item. Image holds the raw bytes as
// stored; the data-URI form readers see is produced at the response boundary.
type Entry struct {
	ID         int64
	Date       time.Time
	Title      string
	Content    string
	Image      []byte
	UploadedBy string
	PageNo     int
}

// HasImage reports whether the entry carries an image payload.
func (e Entry) HasImage() bool {
	return len(e.Image) > 0
}

// NewEntry is the caller-supplied shape of an entry before it is persisted.
// Date and ID are assigned server side.
type NewEntry struct {
	Title   string
	Content string
	PageNo  int
	Image   []byte
}

// Receipt echoes what was accepted for one entry of an upload batch.
type Receipt struct {
	ID     int64
	Title  string
	PageNo int
}

// DraftSection is one AI-generated block of content with a suggested
// ordering. Sections are never persisted; the caller maps them onto entries.
type DraftSection struct {
	Content       string  `json:"content"`
	PriorityOrder float64 `json:"priorityOrder"`
}
