package catalog

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	userAgent       = "spigell/internship-matcher"
	contentEncoding = "gzip"
)

// HTTP fetches a CSV catalog from a remote URL on every call.
type HTTP struct {
	URL        string
	UserAgent  string
	HTTPClient *http.Client
	logger     *zap.Logger
}

func NewHTTP(url string, logger *zap.Logger) *HTTP {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTP{
		URL:       url,
		UserAgent: userAgent,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (h *HTTP) Name() string { return h.URL }

func (h *HTTP) Listings(ctx context.Context) ([]Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", h.UserAgent)
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("Accept-Encoding", contentEncoding)

	h.logger.Debug("fetching catalog", zap.String("url", h.URL))

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == contentEncoding {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	listings, err := Decode(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", h.URL, err)
	}

	h.logger.Debug("fetched catalog", zap.String("url", h.URL), zap.Int("listings", len(listings)))

	return listings, nil
}
