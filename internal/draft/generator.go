package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"newsdesk/internal/domain"
)

// ErrGenerationFailed wraps any transport or shape failure from the
// generative model. The underlying message is kept for diagnostics.
var ErrGenerationFailed = errors.New("failed to generate content")

// Prompt carries the four fields sent to the model for one draft request.
type Prompt struct {
	Title       string `json:"title"`
	UserID      string `json:"userId"`
	Instruction string `json:"instruction"`
	PageNumber  int    `json:"pageNumber"`
}

// Empty reports whether the prompt carries nothing to work with.
func (p Prompt) Empty() bool {
	return strings.TrimSpace(p.Title) == "" &&
		strings.TrimSpace(p.Instruction) == ""
}

// Generator produces ordered draft sections for an entry prompt.
type Generator interface {
	Generate(ctx context.Context, prompt Prompt) ([]domain.DraftSection, error)
}

// sectionsEnvelope is the JSON shape the model is constrained to return.
type sectionsEnvelope struct {
	Sections []domain.DraftSection `json:"sections"`
}

// parseSections validates the model output against the expected shape: a
// non-empty ordered list of sections, each with content. Order is preserved
// exactly as returned; priority reconciliation belongs to the caller.
func parseSections(raw string) ([]domain.DraftSection, error) {
	var envelope sectionsEnvelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("%w: unexpected response shape: %v", ErrGenerationFailed, err)
	}
	if len(envelope.Sections) == 0 {
		return nil, fmt.Errorf("%w: response contained no sections", ErrGenerationFailed)
	}
	for i, section := range envelope.Sections {
		if strings.TrimSpace(section.Content) == "" {
			return nil, fmt.Errorf("%w: section %d has no content", ErrGenerationFailed, i+1)
		}
	}
	return envelope.Sections, nil
}
