// Package telemetry records how long the stages of an import take.
//
// A collector travels in the context, so packages can be instrumented without
// threading it through their signatures:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.StartTimer(ctx, "import statement.csv")
//	for range rows {
//	    timer.Add(1)
//	}
//	timer.End()
//
//	collector.Report(os.Stderr, styles)
//
// Without a collector in the context every call is a no-op.
package telemetry

import (
	"context"
	"io"

	"github.com/robinvdvleuten/perfin/output"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector gathers timers and renders them.
type Collector interface {
	// Start begins a timer nested under the timer that is currently running.
	Start(name string) Timer

	// Report writes the collected timings. styles may be nil for plain text.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks one stage.
type Timer interface {
	// End stops the timer.
	End()

	// Child starts a timer nested under this one.
	Child(name string) Timer

	// Add counts n processed items (rows, transactions) against the stage.
	Add(n int)
}

// WithCollector returns a context carrying collector.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext returns the collector in ctx, or one that discards everything.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}

// StartTimer starts a timer on the collector in ctx.
func StartTimer(ctx context.Context, name string) Timer {
	return FromContext(ctx).Start(name)
}
