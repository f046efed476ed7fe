package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/courseforge/backend/internal/cache"
	"github.com/courseforge/backend/internal/logger"
	apperrors "github.com/courseforge/backend/internal/pkg/errors"
)

type Image struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Photographer string `json:"photographer,omitempty"`
	Alt          string `json:"alt,omitempty"`
}

// ImageSearchService proxies the upstream image API with a TTL cache keyed by
// search term, so repeated stepper queries do not burn upstream quota.
type ImageSearchService interface {
	Search(ctx context.Context, term string, page int) ([]Image, error)
}

type imageSearchService struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      cache.Cache
	ttl        time.Duration
	group      singleflight.Group
}

func NewImageSearchService(baseLog *logger.Logger, cacheClient cache.Cache) (ImageSearchService, error) {
	apiKey := os.Getenv("IMAGE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("missing IMAGE_API_KEY")
	}
	baseURL := strings.TrimRight(os.Getenv("IMAGE_API_BASE_URL"), "/")
	if baseURL == "" {
		baseURL = "https://api.pexels.com"
	}
	ttlSec := 3600
	if v := os.Getenv("IMAGE_CACHE_TTL_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			ttlSec = parsed
		}
	}
	return &imageSearchService{
		log:        baseLog.With("service", "ImageSearchService"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      cacheClient,
		ttl:        time.Duration(ttlSec) * time.Second,
	}, nil
}

type imageSearchResponse struct {
	Photos []struct {
		ID           int    `json:"id"`
		Photographer string `json:"photographer"`
		Alt          string `json:"alt"`
		Src          struct {
			Large string `json:"large"`
			Small string `json:"small"`
		} `json:"src"`
	} `json:"photos"`
}

func (iss *imageSearchService) Search(ctx context.Context, term string, page int) ([]Image, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("%w: search term is required", apperrors.ErrInvalidArgument)
	}
	if page < 1 {
		page = 1
	}
	key := fmt.Sprintf("image-search:%s:%d", strings.ToLower(term), page)

	if cached, ok, err := iss.cache.Get(ctx, key); err == nil && ok {
		var images []Image
		if uErr := json.Unmarshal(cached, &images); uErr == nil {
			return images, nil
		}
	} else if err != nil {
		iss.log.Warn("Image cache read failed", "error", err)
	}

	v, err, _ := iss.group.Do(key, func() (any, error) {
		images, err := iss.fetchUpstream(ctx, term, page)
		if err != nil {
			return nil, err
		}
		if encoded, mErr := json.Marshal(images); mErr == nil {
			if cErr := iss.cache.Set(ctx, key, encoded, iss.ttl); cErr != nil {
				iss.log.Warn("Image cache write failed", "error", cErr)
			}
		}
		return images, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Image), nil
}

func (iss *imageSearchService) fetchUpstream(ctx context.Context, term string, page int) ([]Image, error) {
	endpoint := fmt.Sprintf("%s/v1/search?query=%s&page=%d&per_page=12", iss.baseURL, url.QueryEscape(term), page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", iss.apiKey)

	resp, err := iss.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image search request: %w", err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: image api", apperrors.ErrQuotaExceeded)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("image api http %d: %s", resp.StatusCode, string(raw))
	}

	var parsed imageSearchResponse
	if uErr := json.Unmarshal(raw, &parsed); uErr != nil {
		return nil, fmt.Errorf("image api decode error: %w", uErr)
	}
	images := make([]Image, 0, len(parsed.Photos))
	for _, p := range parsed.Photos {
		images = append(images, Image{
			ID:           strconv.Itoa(p.ID),
			URL:          p.Src.Large,
			ThumbnailURL: p.Src.Small,
			Photographer: p.Photographer,
			Alt:          p.Alt,
		})
	}
	return images, nil
}
