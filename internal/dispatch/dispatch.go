// Package dispatch delivers elevated-risk alerts to their outbound channels.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/climatesense/climatesense/internal/store"
)

// Dispatcher delivers a finished record as an alert.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec store.Record) error
}

// ConsoleBroadcaster writes a human-readable alert block to a writer,
// typically stdout.
type ConsoleBroadcaster struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsoleBroadcaster(out io.Writer) *ConsoleBroadcaster {
	return &ConsoleBroadcaster{out: out}
}

func (b *ConsoleBroadcaster) Dispatch(_ context.Context, rec store.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rep := rec.Report
	_, err := fmt.Fprintf(b.out, `
=============================================
COMMUNITY ALERT: %s
=============================================
Severity: %s
Reason: %s
Heat risk: %s
Air quality: %s
Trend: %s
Local news: %s

Recommendations:
%s
=============================================
`,
		rec.City,
		rep.FinalLevel,
		rep.FinalReasoning,
		rep.HeatRisk,
		rep.AirQuality.Narrative,
		rep.Trend,
		rec.NewsSummary,
		rec.Recommendations)
	return err
}
