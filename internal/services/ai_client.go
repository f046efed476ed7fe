package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courseforge/backend/internal/logger"
	apperrors "github.com/courseforge/backend/internal/pkg/errors"
	"github.com/courseforge/backend/internal/pkg/httpx"
)

// GenerativeClient is the single operation the backend consumes from the
// text-generation provider. Rate-limit rejections surface as ErrQuotaExceeded
// so callers can back off; everything else is generic failure.
type GenerativeClient interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

type generativeClient struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	maxRetries int
}

func NewGenerativeClient(log *logger.Logger) (GenerativeClient, error) {
	apiKey := os.Getenv("AI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing AI_API_KEY")
	}
	baseURL := strings.TrimRight(os.Getenv("AI_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	timeoutSec := 120
	if v := os.Getenv("AI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}
	maxRetries := 3
	if v := os.Getenv("AI_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &generativeClient{
		log:        log.With("service", "GenerativeClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

func (gc *generativeClient) ModelName() string { return gc.model }

type aiHTTPError struct {
	StatusCode int
	Body       string
}

func (e *aiHTTPError) Error() string {
	return fmt.Sprintf("ai http %d: %s", e.StatusCode, e.Body)
}

func (e *aiHTTPError) HTTPStatusCode() int { return e.StatusCode }

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (gc *generativeClient) doOnce(ctx context.Context, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, gc.baseURL+"/v1/chat/completions", &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+gc.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := gc.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &aiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (gc *generativeClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: gc.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	backoff := 1 * time.Second
	var lastErr error
	for attempt := 0; attempt <= gc.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		resp, raw, err := gc.doOnce(ctx, reqBody)
		if err == nil {
			var parsed chatCompletionResponse
			if uErr := json.Unmarshal(raw, &parsed); uErr != nil {
				return "", fmt.Errorf("ai decode error: %w", uErr)
			}
			if len(parsed.Choices) == 0 {
				return "", fmt.Errorf("ai response contained no choices")
			}
			return parsed.Choices[0].Message.Content, nil
		}
		lastErr = err

		if !httpx.IsRetryableError(err) || attempt == gc.maxRetries {
			break
		}

		sleepFor := httpx.BackoffDuration(resp, backoff, 10*time.Second)
		gc.log.Warn("AI request retrying",
			"attempt", attempt+1,
			"max_retries", gc.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}

	var httpErr *aiHTTPError
	if errors.As(lastErr, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("%w: %s", apperrors.ErrQuotaExceeded, httpErr.Body)
	}
	return "", lastErr
}
