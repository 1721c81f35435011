// Package suggest asks a chat-completion model for a custom column schema.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/koba/xcellab/internal/config"
	xerrors "github.com/koba/xcellab/internal/errors"
	"github.com/koba/xcellab/internal/schema"
)

const (
	// MaxColumns caps how many suggested columns are kept
	MaxColumns = 8

	defaultModel = "gpt-4o-mini"

	systemPrompt = "You design practice spreadsheets. Reply with JSON only."
)

// allowedTypes are the column types a suggestion may use
var allowedTypes = map[schema.ColumnType]bool{
	schema.TypeText:     true,
	schema.TypeNumber:   true,
	schema.TypeDate:     true,
	schema.TypeCurrency: true,
	schema.TypeEmail:    true,
	schema.TypeCity:     true,
}

// chatClient is the part of the OpenAI client the suggester uses
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Suggester turns a free-text description into column definitions
type Suggester struct {
	client chatClient
	model  string
}

// New creates a Suggester. A missing API key is reported before any request
// is made.
func New(cfg config.SuggestConfig) (*Suggester, error) {
	if cfg.APIKey == "" {
		return nil, xerrors.NewSuggestError(xerrors.CodeMissingCredential,
			"API key not found; set XCELLAB_API_KEY or OPENAI_API_KEY", nil)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = defaultModel
		slog.Warn("Suggest model not set, defaulting", "model", model)
	}

	slog.Debug("Initializing suggestion client", "model", model)
	return &Suggester{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Prompt builds the user message for a dataset description
func Prompt(description string) string {
	return fmt.Sprintf(`Generate 5-8 column definitions for an Excel dataset about: %q.
Use only these data types: string, number, date, currency, email, city.
Respond with a JSON object of the form {"columns": [{"name": "...", "type": "..."}]}.`, description)
}

// Suggest requests a schema for the description. Transport failures are
// errors; a reply that cannot be parsed yields an empty schema.
func (s *Suggester) Suggest(ctx context.Context, description string) ([]schema.Column, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: Prompt(description)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		slog.Error("Suggestion request failed", "model", s.model, "error", err)
		return nil, xerrors.NewSuggestError(xerrors.CodeRequestFailed, "schema suggestion request failed", err)
	}

	if len(resp.Choices) == 0 {
		slog.Warn("Suggestion returned no choices", "model", s.model)
		return []schema.Column{}, nil
	}
	slog.Debug("Received suggestion", "finish_reason", resp.Choices[0].FinishReason)

	columns, err := ParseColumns(resp.Choices[0].Message.Content)
	if err != nil {
		slog.Warn("Failed to parse suggested schema", "error", err)
		return []schema.Column{}, nil
	}
	return columns, nil
}

type suggestedColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ParseColumns decodes a model reply, accepting either {"columns": [...]} or a
// bare array. Types outside the allowed set become text, nameless and
// duplicate entries are dropped, and at most MaxColumns are kept.
func ParseColumns(content string) ([]schema.Column, error) {
	content = stripFence(content)

	var raw []suggestedColumn
	if strings.HasPrefix(content, "[") {
		if err := json.Unmarshal([]byte(content), &raw); err != nil {
			return nil, fmt.Errorf("failed to decode column list: %w", err)
		}
	} else {
		var wrapped struct {
			Columns []suggestedColumn `json:"columns"`
		}
		if err := json.Unmarshal([]byte(content), &wrapped); err != nil {
			return nil, fmt.Errorf("failed to decode column object: %w", err)
		}
		raw = wrapped.Columns
	}

	columns := make([]schema.Column, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, c := range raw {
		name := strings.TrimSpace(c.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		t := schema.ParseColumnType(c.Type)
		if !allowedTypes[t] {
			t = schema.TypeText
		}
		columns = append(columns, schema.Column{Name: name, Type: t})
		if len(columns) == MaxColumns {
			break
		}
	}
	return columns, nil
}

// stripFence removes a markdown code fence some models wrap JSON in
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
