// Package oteladapters provides OpenTelemetry implementations of the observable observability interfaces.
//
// Wire them into an Observable with observable.WithContextualLogger, observable.WithMetrics and
// observable.WithTracing. Every subscription then produces one span named "observable.subscription",
// the observable_* counters and histogram, and log records correlated with the active trace.
package oteladapters
