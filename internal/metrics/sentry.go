package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics records requests and engine calls as Sentry spans. Nothing is
// recorded unless the hub serving ctx has a client, that is SENTRY_DSN is set.
type SentryMetrics struct{}

// NewSentryMetrics creates a new Sentry metrics recorder
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{}
}

// RecordAPIRequest records API request metrics
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if !sentryEnabled(ctx) {
		return
	}

	span := startSpanAt(ctx, "api.request", duration)
	defer span.Finish()

	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetTag("success", fmt.Sprintf("%t", statusCode < successStatusCodeThreshold))
	span.SetData("status_code", statusCode)

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
}

// RecordEngineCall implements Recorder with one engine.<operation> span
// covering the call
func (m *SentryMetrics) RecordEngineCall(ctx context.Context, operation, outcome string, duration time.Duration) {
	if !sentryEnabled(ctx) {
		return
	}

	span := startSpanAt(ctx, "engine."+operation, duration)
	defer span.Finish()

	span.SetTag("operation", operation)
	span.SetTag("outcome", outcome)

	switch outcome {
	case OutcomeOK:
		span.Status = sentry.SpanStatusOK
	case OutcomeNotFound:
		span.Status = sentry.SpanStatusNotFound
	default:
		span.Status = sentry.SpanStatusInvalidArgument
	}

	span.Description = fmt.Sprintf("Engine: %s", operation)
}

// startSpanAt opens a span for work that has already taken duration and
// ends now, so the span covers the work instead of the recording
func startSpanAt(ctx context.Context, operation string, duration time.Duration) *sentry.Span {
	end := time.Now()
	span := sentry.StartSpan(ctx, operation)
	span.StartTime = end.Add(-duration)
	span.EndTime = end
	return span
}

func sentryEnabled(ctx context.Context) bool {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	return hub.Client() != nil
}
