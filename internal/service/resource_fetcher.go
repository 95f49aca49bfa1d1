package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/adityaharshit/code-i-technology-sub001/internal/apperr"
	"github.com/adityaharshit/code-i-technology-sub001/pkg/retry"
)

// ResourceFetcher loads external binary resources such as card template
// images and student photos.
type ResourceFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string   { return fmt.Sprintf("unexpected status %d", e.status) }
func (e *httpStatusError) StatusCode() int { return e.status }

type httpResourceFetcher struct {
	client   *http.Client
	retryCfg retry.Config
	logger   zerolog.Logger
}

// NewHTTPResourceFetcher builds a fetcher with a per-request timeout and the
// configured retry policy. Timeouts, connection failures and 5xx responses
// are retried; other statuses fail immediately.
func NewHTTPResourceFetcher(timeout time.Duration, retryCfg retry.Config, logger zerolog.Logger) ResourceFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &httpResourceFetcher{
		client:   &http.Client{Timeout: timeout},
		retryCfg: retryCfg,
		logger:   logger.With().Str("component", "resource_fetcher").Logger(),
	}
}

func (f *httpResourceFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	cfg := f.retryCfg
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		f.logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", delay).Str("url", url).Msg("resource fetch failed, retrying")
	}

	var payload []byte
	err := retry.Do(ctx, cfg, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return &httpStatusError{status: resp.StatusCode}
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		payload = body
		return nil
	})
	if err != nil {
		return nil, asTransportError(err)
	}

	return payload, nil
}

// asTransportError converts a terminal retry failure into the matching
// transport taxonomy error so handlers can pick the right user message.
func asTransportError(err error) error {
	var terminal *retry.Error
	if !errors.As(err, &terminal) {
		return err
	}

	switch terminal.Category {
	case retry.CategoryTimeout:
		return apperr.Transport(apperr.TransportTimeout, 0, terminal.Err)
	case retry.CategoryNetwork:
		return apperr.Transport(apperr.TransportNetwork, 0, terminal.Err)
	case retry.CategoryServer:
		status := 0
		var coder interface{ StatusCode() int }
		if errors.As(terminal.Err, &coder) {
			status = coder.StatusCode()
		}
		return apperr.Transport(apperr.TransportServer, status, terminal.Err)
	default:
		return terminal.Err
	}
}
