// Package ai provides a minimal client for an OpenAI-compatible chat
// completion API.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Defaults for the completion collaborator.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is kept for logs.
	maxErrorBody = 4 << 10

	// maxResponseBody bounds a successful completion response.
	maxResponseBody = 4 << 20
)

// systemPrompt frames the summary the collaborator should return.
const systemPrompt = "You are a log analysis assistant. Provide structured insights grouped as:\n\n" +
	" - Critical errors:\n - Warnings:\n - Information:\n\n"

// Completer turns an input text into a completion.
type Completer interface {
	Complete(ctx context.Context, input string) (string, error)
}

// Config holds client configuration.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// CollaboratorError reports any failure talking to the completion API.
type CollaboratorError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *CollaboratorError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("ai %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Client calls the chat completions endpoint.
type Client struct {
	cfg    Config
	hc     *http.Client
	logger *slog.Logger
}

// NewClient creates a new completion client. Zero config fields take defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg: cfg,
		hc: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends input as the user message and returns the first choice's
// content verbatim.
func (c *Client) Complete(ctx context.Context, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Analyze these logs and summarize key issues:\n" + input},
		},
	})
	if err != nil {
		return "", &CollaboratorError{Op: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", &CollaboratorError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("User-Agent", "Narvana-Logsight")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", &CollaboratorError{Op: "send request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &CollaboratorError{
			Op:         "chat completion",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", strings.TrimSpace(string(msg))),
		}
	}

	var decoded chatResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&decoded); err != nil {
		return "", &CollaboratorError{Op: "decode response", Err: err}
	}
	if len(decoded.Choices) == 0 {
		return "", &CollaboratorError{Op: "decode response", Err: fmt.Errorf("no choices returned")}
	}

	c.logger.Debug("completion received",
		"model", c.cfg.Model,
		"duration", time.Since(start).String(),
		"input_bytes", len(input),
	)
	return decoded.Choices[0].Message.Content, nil
}
