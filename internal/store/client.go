package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/courseforge/backend/internal/logger"
	"github.com/courseforge/backend/internal/pkg/httpx"
)

// Client is the narrow contract the rest of the backend has with the document
// store: query execution, single-document writes, and atomic multi-mutation
// transactions. Implementations must be safe for concurrent use.
type Client interface {
	Fetch(ctx context.Context, query string, params map[string]any, out any) error
	Create(ctx context.Context, doc any) (string, error)
	Delete(ctx context.Context, id string) error
	Commit(ctx context.Context, tx *Transaction) (*TransactionResult, error)
}

type httpClient struct {
	log        *logger.Logger
	baseURL    string
	dataset    string
	token      string
	httpc      *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	baseURL := strings.TrimRight(os.Getenv("STORE_BASE_URL"), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing STORE_BASE_URL")
	}
	dataset := os.Getenv("STORE_DATASET")
	if dataset == "" {
		dataset = "production"
	}
	token := os.Getenv("STORE_TOKEN")

	timeoutSec := 30
	if v := os.Getenv("STORE_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}
	maxRetries := 3
	if v := os.Getenv("STORE_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &httpClient{
		log:        log.With("service", "StoreClient"),
		baseURL:    baseURL,
		dataset:    dataset,
		token:      token,
		httpc:      &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type storeHTTPError struct {
	StatusCode int
	Body       string
}

func (e *storeHTTPError) Error() string {
	return fmt.Sprintf("store http %d: %s", e.StatusCode, e.Body)
}

func (e *storeHTTPError) HTTPStatusCode() int { return e.StatusCode }

func (c *httpClient) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &storeHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

// doRead retries transient failures; used only for queries. Mutations are
// never retried here because the caller cannot know whether the batch landed.
func (c *httpClient) doRead(ctx context.Context, path string, body any, out any) error {
	backoff := 1 * time.Second
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("store decode error: %w", uErr)
			}
			return nil
		}
		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			return err
		}
		sleepFor := httpx.BackoffDuration(resp, backoff, 10*time.Second)
		c.log.Warn("Store query retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)
		time.Sleep(sleepFor)
		backoff *= 2
	}
	return fmt.Errorf("unreachable retry loop")
}

type queryRequest struct {
	Query  string         `json:"query"`
	Params map[string]any `json:"params,omitempty"`
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

func (c *httpClient) Fetch(ctx context.Context, query string, params map[string]any, out any) error {
	var resp queryResponse
	if err := c.doRead(ctx, "/v1/data/query/"+c.dataset, queryRequest{Query: query, Params: params}, &resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("store result decode error: %w", err)
	}
	return nil
}

type mutateRequest struct {
	Mutations []mutation `json:"mutations"`
	ReturnIDs bool       `json:"returnIds"`
}

func (c *httpClient) mutate(ctx context.Context, muts []mutation) (*TransactionResult, error) {
	_, raw, err := c.doOnce(ctx, "/v1/data/mutate/"+c.dataset, mutateRequest{Mutations: muts, ReturnIDs: true})
	if err != nil {
		return nil, err
	}
	var result TransactionResult
	if uErr := json.Unmarshal(raw, &result); uErr != nil {
		return nil, fmt.Errorf("store mutate decode error: %w", uErr)
	}
	return &result, nil
}

func (c *httpClient) Create(ctx context.Context, doc any) (string, error) {
	result, err := c.mutate(ctx, []mutation{{Create: doc}})
	if err != nil {
		return "", err
	}
	if len(result.Results) == 0 {
		return "", fmt.Errorf("store create returned no result")
	}
	return result.Results[0].ID, nil
}

func (c *httpClient) Delete(ctx context.Context, id string) error {
	_, err := c.mutate(ctx, []mutation{{Delete: &deleteByID{ID: id}}})
	return err
}

func (c *httpClient) Commit(ctx context.Context, tx *Transaction) (*TransactionResult, error) {
	if tx.Len() == 0 {
		return nil, fmt.Errorf("empty transaction")
	}
	return c.mutate(ctx, tx.mutations)
}
