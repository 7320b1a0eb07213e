// Package observe provides telemetry for coordination primitives.
//
// It bundles structured logging, OpenTelemetry metrics, and tracing behind
// a single Observer, plus a Middleware that instruments any operation with
// all three. The coordination packages (dedupe, valve, stream, poller)
// accept an observe.Logger for their own diagnostics; metrics and tracing
// are applied from the outside by wrapping operations with Middleware.
//
// # Usage
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "worker",
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "stdout"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer obs.Shutdown(ctx)
//
//	mw, err := observe.MiddlewareFromObserver(obs)
//	if err != nil {
//	    return err
//	}
//	refresh := mw.Wrap(observe.OpMeta{Component: "poller", Name: "refresh"}, refreshFeed)
package observe
