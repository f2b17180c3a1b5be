package draft

import (
	"fmt"

	"newsdesk/internal/domain"
)

// EntryDraft is one editable entry produced from generated sections. Drafts
// are handed back to the client for review; they are never persisted here.
type EntryDraft struct {
	Title   string
	Content string
	PageNo  int
}

// Expand maps generated sections onto entry drafts. The first section keeps
// the caller's title and requested page number; every additional section
// becomes a new draft titled "<title> - Part N" whose page number defaults to
// the generator's priority hint, falling back to its position.
func Expand(title string, pageNo int, sections []domain.DraftSection) []EntryDraft {
	drafts := make([]EntryDraft, 0, len(sections))
	for i, section := range sections {
		if i == 0 {
			drafts = append(drafts, EntryDraft{
				Title:   title,
				Content: section.Content,
				PageNo:  pageNo,
			})
			continue
		}

		page := int(section.PriorityOrder)
		if page <= 0 {
			page = pageNo + i
		}
		drafts = append(drafts, EntryDraft{
			Title:   fmt.Sprintf("%s - Part %d", title, i+1),
			Content: section.Content,
			PageNo:  page,
		})
	}
	return drafts
}
