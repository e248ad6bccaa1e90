package vdom

import (
	"log/slog"

	"github.com/vango-dev/lazydom/pkg/dom"
	"github.com/vango-dev/lazydom/pkg/editdist"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for flush spans.
const defaultTracerName = "lazydom"

// Planner computes the edit script turning source into target.
type Planner func(source, target []dom.Node) []editdist.Op[dom.Node]

// Phase identifies the content pass an element was applied in.
type Phase uint8

const (
	PhaseOffTree Phase = iota + 1 // Element not attached to the live tree
	PhaseLive                     // Element attached to the live tree
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseOffTree:
		return "off-tree"
	case PhaseLive:
		return "live"
	default:
		return "unknown"
	}
}

// FlushObserver receives the statistics of every completed flush.
type FlushObserver interface {
	ObserveFlush(FlushStats)
}

// ObserverFunc adapts a function to FlushObserver.
type ObserverFunc func(FlushStats)

// ObserveFlush implements FlushObserver.
func (f ObserverFunc) ObserveFlush(s FlushStats) { f(s) }

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger. Default: slog.Default() tagged with
// component=vdom.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTracer sets the tracer used for flush spans. Default: the global
// OpenTelemetry tracer provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Reconciler) {
		if tracer != nil {
			r.tracer = tracer
		}
	}
}

// WithPlanner replaces the edit planner.
func WithPlanner(p Planner) Option {
	return func(r *Reconciler) {
		if p != nil {
			r.planner = p
		}
	}
}

// WithObserver registers a flush observer.
func WithObserver(o FlushObserver) Option {
	return func(r *Reconciler) {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// WithApplyHook registers a function called after an element's content has
// been applied during a flush.
func WithApplyHook(hook func(e *Element, phase Phase)) Option {
	return func(r *Reconciler) {
		r.applyHook = hook
	}
}

func defaultTracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}
