package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"newsdesk/internal/domain"
)

const systemPrompt = `You draft content for an internal news publication.
Given a title, an uploader id, an instruction and a page number, write the
requested entry content. Split the material into one section per entry the
instruction asks for, and give every section a priorityOrder starting at the
requested page number. Keep each section self-contained and publishable
as-is.`

// Gemini generates draft sections through Google's generative model,
// constrained to a JSON object holding an ordered section list.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGemini(ctx context.Context, apiKey, modelName string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"sections"},
		Properties: map[string]*genai.Schema{
			"sections": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"content", "priorityOrder"},
					Properties: map[string]*genai.Schema{
						"content": {
							Type:        genai.TypeString,
							Description: "Detailed content for the section",
						},
						"priorityOrder": {
							Type:        genai.TypeNumber,
							Description: "Priority order of the content",
						},
					},
				},
			},
		},
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt Prompt) ([]domain.DraftSection, error) {
	payload, err := json.Marshal(prompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	return parseSections(sb.String())
}

func (g *Gemini) Close() error {
	return g.client.Close()
}
