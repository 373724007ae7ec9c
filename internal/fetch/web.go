// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/pdiddy/termex/internal/httputil"
	"github.com/pdiddy/termex/pkg/types"
)

// maxBodyBytes bounds a fetched document. Larger bodies are rejected.
var maxBodyBytes int64 = 64 << 20

// WebFetcher downloads web documents. Fetched text is always treated as
// the respec dialect.
type WebFetcher struct {
	Client     *http.Client
	UserAgent  string
	MaxRetries int

	// Tokens maps a lower-case host name to the bearer token sent only
	// to that host.
	Tokens map[string]string
}

// NewWebFetcher builds a WebFetcher from HTTP settings.
func NewWebFetcher(cfg types.HTTPConfig, tokens map[string]string) *WebFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WebFetcher{
		Client:     &http.Client{Timeout: timeout},
		UserAgent:  cfg.UserAgent,
		MaxRetries: cfg.MaxRetries,
		Tokens:     tokens,
	}
}

// Fetch downloads uri and returns it as a respec document. The body is
// decoded to UTF-8 according to the response's declared or sniffed
// charset.
func (f *WebFetcher) Fetch(ctx context.Context, uri string) (types.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return types.Document{}, fmt.Errorf("%w: building request for %s: %v", ErrFetch, uri, err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	if token := f.Tokens[strings.ToLower(req.URL.Hostname())]; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, f.MaxRetries)
	if err != nil {
		return types.Document{}, fmt.Errorf("%w: GET %s: %v", ErrFetch, uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.Document{}, fmt.Errorf("%w: GET %s: HTTP %d", ErrFetch, uri, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return types.Document{}, fmt.Errorf("%w: reading %s: %v", ErrFetch, uri, err)
	}
	if int64(len(raw)) > maxBodyBytes {
		return types.Document{}, fmt.Errorf("%w: GET %s: body exceeds %d bytes", ErrFetch, uri, maxBodyBytes)
	}

	body, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return types.Document{}, fmt.Errorf("%w: decoding %s: %v", ErrFetch, uri, err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return types.Document{}, fmt.Errorf("%w: decoding %s: %v", ErrFetch, uri, err)
	}

	return types.Document{ID: uri, Dialect: types.DialectRespec, Text: string(data)}, nil
}
