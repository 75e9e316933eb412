package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/shopkit/commerce-gateway/internal/adapter"
	"github.com/shopkit/commerce-gateway/internal/logger"
)

const (
	// MaxResponseExcerpt is the number of characters of the response body kept per attempt
	MaxResponseExcerpt = 1000
	// enough bytes for MaxResponseExcerpt characters of any UTF-8 text
	maxResponseRead = MaxResponseExcerpt * utf8.UTFMax

	// DefaultUserAgent is sent when no user agent is configured
	DefaultUserAgent = "ShopKit-Webhooks/1.0"
)

// ErrAttemptCancelled is returned when the caller's context ends during an attempt.
// Such attempts have no outcome and are never recorded.
var ErrAttemptCancelled = errors.New("delivery attempt cancelled")

// Outcome is the classified result of a single delivery attempt
type Outcome struct {
	Success bool
	// HTTPStatus is nil when no response was received
	HTTPStatus      *int
	ResponseExcerpt *string
	ErrorMessage    *string
	Duration        time.Duration
}

// Deliverer performs one signed HTTP POST of an envelope body
//
//go:generate mockgen -source=deliverer.go -destination=../mocks/deliverer.go -package=mocks -mock_names=Deliverer=MockDeliverer
type Deliverer interface {
	// Attempt never retries. The only error it returns is ErrAttemptCancelled.
	Attempt(ctx context.Context, url string, body []byte, secret string, timeout time.Duration) (Outcome, error)
}

type deliverer struct {
	httpClient adapter.HTTPClient
	clock      adapter.Clock
	userAgent  string
}

// NewDeliverer creates a deliverer. An empty user agent uses DefaultUserAgent.
func NewDeliverer(httpClient adapter.HTTPClient, clock adapter.Clock, userAgent string) Deliverer {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &deliverer{
		httpClient: httpClient,
		clock:      clock,
		userAgent:  userAgent,
	}
}

func (d *deliverer) Attempt(ctx context.Context, url string, body []byte, secret string, timeout time.Duration) (Outcome, error) {
	start := d.clock.Now()
	headers := map[string]string{
		"Content-Type":  "application/json",
		"User-Agent":    d.userAgent,
		SignatureHeader: Sign(secret, start.Unix(), body),
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := d.httpClient.PostWithHeadersNoRetry(attemptCtx, url, headers, bytes.NewReader(body))
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ErrAttemptCancelled
		}

		msg := err.Error()
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			msg = timeoutMessage(timeout)
		}
		return Outcome{
			Success:      false,
			ErrorMessage: &msg,
			Duration:     d.clock.Since(start),
		}, nil
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.WarnCtx(ctx, "failed to close response body", zap.Error(err), zap.String("url", url))
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseRead))
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ErrAttemptCancelled
		}
		// keep whatever was read; the status code already decides the outcome
		logger.WarnCtx(ctx, "failed to read webhook response body", zap.Error(err), zap.String("url", url))
	}

	status := resp.StatusCode
	excerpt := truncateExcerpt(raw)
	outcome := Outcome{
		Success:         status >= 200 && status < 300,
		HTTPStatus:      &status,
		ResponseExcerpt: &excerpt,
		Duration:        d.clock.Since(start),
	}
	if !outcome.Success {
		msg := fmt.Sprintf("HTTP %d", status)
		outcome.ErrorMessage = &msg
	}
	return outcome, nil
}

func timeoutMessage(timeout time.Duration) string {
	return fmt.Sprintf("Timeout after %dms", timeout.Milliseconds())
}

// truncateExcerpt keeps the first MaxResponseExcerpt characters as valid UTF-8
func truncateExcerpt(raw []byte) string {
	s := strings.ToValidUTF8(string(raw), "\uFFFD")
	if utf8.RuneCountInString(s) <= MaxResponseExcerpt {
		return s
	}

	n := 0
	for i := range s {
		if n == MaxResponseExcerpt {
			return s[:i]
		}
		n++
	}
	return s
}
