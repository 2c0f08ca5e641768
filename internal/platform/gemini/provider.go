// Package gemini implements a model-backed extraction provider on top
// of the Google Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/MarcKarbowiak/meeting-action-extractor/internal/extraction"
)

const (
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 30 * time.Second
)

// promptTemplate instructs the model to emit a JSON array matching the
// extraction.ExtractedTask shape. %s is replaced with the note text.
const promptTemplate = `You extract action items from meeting notes.
Return a JSON array of objects with these fields:
  "title" (string, required, the action to take),
  "owner" (string, empty when unknown),
  "dueDate" (string, YYYY-MM-DD, empty when unknown),
  "confidence" (number between 0 and 1).
Return [] when the notes contain no action items. Notes:

%s`

// Config holds the settings for the Gemini provider.
type Config struct {
	// APIKey authenticates against the Gemini API. Required.
	APIKey string

	// Model names the Gemini model to use. Defaults to defaultModel.
	Model string

	// Timeout bounds a single extraction call. Defaults to defaultTimeout.
	Timeout time.Duration
}

// Provider calls Gemini to extract candidate tasks from note text.
type Provider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

var _ extraction.Provider = (*Provider)(nil)

// NewProvider creates a Gemini-backed extraction provider.
func NewProvider(ctx context.Context, config Config, logger *slog.Logger) (*Provider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: API key is required", extraction.ErrInvalidConfig)
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Provider{
		client:  client,
		model:   config.Model,
		timeout: config.Timeout,
		logger:  logger.With(slog.String("component", "gemini_provider")),
	}, nil
}

// ExtractTasks sends the note text to Gemini and parses the JSON
// response into candidate tasks.
func (p *Provider) ExtractTasks(ctx context.Context, rawText string) ([]extraction.ExtractedTask, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, rawText)

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("%w: empty model response", extraction.ErrContentBlocked)
	}

	tasks, err := parseResponse(text)
	if err != nil {
		p.logger.Warn("unparseable model response", slog.String("error", err.Error()))
		return nil, err
	}

	p.logger.Debug("extraction complete", slog.Int("tasks", len(tasks)))
	return tasks, nil
}

// parseResponse decodes the model output, tolerating a markdown code
// fence around the JSON array and clamping out-of-range confidences.
func parseResponse(text string) ([]extraction.ExtractedTask, error) {
	text = stripCodeFence(text)

	var tasks []extraction.ExtractedTask
	if err := json.Unmarshal([]byte(text), &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", extraction.ErrInvalidResponse, err)
	}

	valid := tasks[:0]
	for _, task := range tasks {
		task.Title = strings.TrimSpace(task.Title)
		if task.Title == "" {
			continue
		}
		if task.Confidence < 0 {
			task.Confidence = 0
		}
		if task.Confidence > 1 {
			task.Confidence = 1
		}
		valid = append(valid, task)
	}
	return valid, nil
}

func stripCodeFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
