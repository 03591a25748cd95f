package metrics

import (
	"context"
	"time"
)

// Engine call outcomes used as metric labels
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Recorder receives one event per engine operation
type Recorder interface {
	RecordEngineCall(ctx context.Context, operation, outcome string, duration time.Duration)
}

// Multi fans an engine call out to several recorders. Nil entries are skipped.
type Multi []Recorder

// RecordEngineCall implements Recorder
func (m Multi) RecordEngineCall(ctx context.Context, operation, outcome string, duration time.Duration) {
	for _, r := range m {
		if r != nil {
			r.RecordEngineCall(ctx, operation, outcome, duration)
		}
	}
}
