package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/courseforge/backend/internal/logger"
	apperrors "github.com/courseforge/backend/internal/pkg/errors"
)

// MailingListService proxies newsletter subscribe/unsubscribe to the
// upstream mailing-list API. Narrow interface; the backend never stores
// subscriber state itself.
type MailingListService interface {
	Subscribe(ctx context.Context, email string) error
	Unsubscribe(ctx context.Context, email string) error
}

type mailingListService struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	listID     string
	httpClient *http.Client
}

func NewMailingListService(baseLog *logger.Logger) (MailingListService, error) {
	apiKey := os.Getenv("MAILING_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing MAILING_API_KEY")
	}
	baseURL := strings.TrimRight(os.Getenv("MAILING_API_BASE_URL"), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("missing MAILING_API_BASE_URL")
	}
	listID := os.Getenv("MAILING_LIST_ID")
	if listID == "" {
		return nil, fmt.Errorf("missing MAILING_LIST_ID")
	}
	return &mailingListService{
		log:        baseLog.With("service", "MailingListService"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		listID:     listID,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (mls *mailingListService) Subscribe(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	body := map[string]any{"email": email, "status": "subscribed"}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/lists/%s/subscribers", mls.baseURL, mls.listID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+mls.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return mls.do(req, "subscribe")
}

func (mls *mailingListService) Unsubscribe(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/lists/%s/subscribers/%s", mls.baseURL, mls.listID, url.PathEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+mls.apiKey)
	return mls.do(req, "unsubscribe")
}

func (mls *mailingListService) do(req *http.Request, op string) error {
	resp, err := mls.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailing list %s: %w", op, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mailing list %s http %d: %s", op, resp.StatusCode, string(raw))
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("%w: invalid email", apperrors.ErrInvalidArgument)
	}
	return email, nil
}
