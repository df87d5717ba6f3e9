package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	genai "google.golang.org/genai"

	"roomstyler/internal/design"
)

// ImageResult is the raw product of one image-generation call. The caller
// owns persistence of the bytes.
type ImageResult struct {
	Data     []byte
	MIME     string
	Analysis string
}

// Client is a thin wrapper around the official genai client. It only
// focuses on the API calls themselves; retries, concurrency limits and
// deadlines are applied by the batch layer.
type Client struct {
	cli        *genai.Client
	textModel  string
	imageModel string
}

type Config struct {
	APIKey     string
	TextModel  string
	ImageModel string
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	textModel := cfg.TextModel
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image-preview"
	}
	return &Client{cli: cli, textModel: textModel, imageModel: imageModel}, nil
}

func (c *Client) Close() error { return nil }

// AnalyzeRoom asks the text model for a structured description of the room.
func (c *Client) AnalyzeRoom(ctx context.Context, src *design.Source) (*design.RoomAnalysis, error) {
	raw, err := c.generateJSON(ctx, analyzePrompt, src)
	if err != nil {
		return nil, err
	}
	var out design.RoomAnalysis
	if err := json.Unmarshal(raw, &out); err != nil {
		// The model occasionally answers in prose despite the JSON request.
		// Mirror that into the structured shape rather than failing.
		return &design.RoomAnalysis{
			RoomType:      "studio",
			SizeEstimate:  "unknown",
			CurrentLayout: string(raw),
			Issues:        []string{"analysis could not be structured"},
		}, nil
	}
	return &out, nil
}

// GenerateGuide asks the text model for style-specific recommendations
// based on a prior room analysis.
func (c *Client) GenerateGuide(ctx context.Context, src *design.Source, analysis *design.RoomAnalysis, style design.Style) (*design.DesignGuide, error) {
	raw, err := c.generateJSON(ctx, guidePrompt(analysis, style.Name), src)
	if err != nil {
		return nil, err
	}
	guide := design.DesignGuide{Style: style.Name, Analysis: *analysis}
	if err := json.Unmarshal(raw, &guide); err != nil {
		guide.Recommendations = []string{string(raw)}
		guide.LayoutSuggestions = "detailed proposal was returned as free text"
	}
	guide.Style = style.Name
	guide.Analysis = *analysis
	log.Printf("design guide generated for %s", style.Name)
	return &guide, nil
}

// GenerateImage asks the image model for a restyled rendering of the room.
// Errors are classified for the retry layer; a text-only answer is a
// permanent failure.
func (c *Client) GenerateImage(ctx context.Context, style design.Style, src *design.Source) (*ImageResult, error) {
	resp, err := c.cli.Models.GenerateContent(ctx, c.imageModel,
		[]*genai.Content{{Parts: []*genai.Part{
			{Text: imagePrompt(style)},
			{InlineData: &genai.Blob{MIMEType: src.MIME, Data: src.Data}},
		}}},
		&genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, NewPermanentError(ErrEmptyResponse)
	}

	out := &ImageResult{}
	var analysis strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			out.Data = part.InlineData.Data
			out.MIME = part.InlineData.MIMEType
			continue
		}
		if part.Text != "" {
			if analysis.Len() > 0 {
				analysis.WriteString("\n")
			}
			analysis.WriteString(part.Text)
		}
	}
	if len(out.Data) == 0 {
		return nil, NewPermanentError(ErrNoImage)
	}
	if out.MIME == "" {
		out.MIME = "image/png"
	}
	out.Analysis = strings.TrimSpace(analysis.String())
	return out, nil
}

func (c *Client) generateJSON(ctx context.Context, prompt string, src *design.Source) (json.RawMessage, error) {
	resp, err := c.cli.Models.GenerateContent(ctx, c.textModel,
		[]*genai.Content{{Parts: []*genai.Part{
			{Text: prompt},
			{InlineData: &genai.Blob{MIMEType: src.MIME, Data: src.Data}},
		}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, classify(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, NewPermanentError(ErrEmptyResponse)
	}
	txt := resp.Candidates[0].Content.Parts[0].Text
	return json.RawMessage(stripFences(txt)), nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
