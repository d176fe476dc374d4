// Package version fetches the published browser versions document.
package version

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"ffupdater/internal/metrics"
)

// Fetcher retrieves and decodes the versions document. It holds no state
// between calls.
type Fetcher struct {
	client    *http.Client
	userAgent string
	log       zerolog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(f *Fetcher) { f.log = l }
}

// WithMetrics records fetch outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// NewFetcher creates a Fetcher. The default client has no timeout of its
// own; the request is bounded by the caller's context.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{},
		userAgent: "ffupdater",
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs one GET against url and decodes the body. The response
// body is closed on every return path.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Info, error) {
	start := time.Now()
	info, err := f.fetch(ctx, url)
	elapsed := time.Since(start)

	if err != nil {
		outcome := metrics.OutcomeNetworkFailure
		if IsDecodeFailure(err) {
			outcome = metrics.OutcomeDecodeFailure
		}
		f.metrics.ObserveFetch(outcome, elapsed)
		f.log.Warn().Err(err).Str("url", url).Dur("duration", elapsed).Msg("version fetch failed")
		return Info{}, err
	}

	f.metrics.ObserveFetch(metrics.OutcomeSuccess, elapsed)
	f.log.Debug().
		Str("url", url).
		Str("release", info.ReleaseVersion).
		Str("beta", info.BetaVersion).
		Str("nightly", info.NightlyVersion).
		Dur("duration", elapsed).
		Msg("version fetch completed")
	return info, nil
}

func (f *Fetcher) fetch(ctx context.Context, url string) (Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Info{}, &FetchError{Kind: NetworkFailure, URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Info{}, &FetchError{Kind: NetworkFailure, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Info{}, &FetchError{
			Kind: NetworkFailure,
			URL:  url,
			Err:  fmt.Errorf("server returned %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Info{}, &FetchError{Kind: NetworkFailure, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}

	return decode(url, body)
}

// decode parses body into Info. A JSON null is rejected along with any
// document that is not an object of string fields.
func decode(url string, body []byte) (Info, error) {
	var parsed *Info
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Info{}, &FetchError{Kind: DecodeFailure, URL: url, Err: err}
	}
	if parsed == nil {
		return Info{}, &FetchError{Kind: DecodeFailure, URL: url, Err: errors.New("document is null")}
	}
	return *parsed, nil
}
