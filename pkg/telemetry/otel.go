package telemetry

import (
	"context"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/narvi-dev/narvi/pkg/notify"
)

// Default tracer name for narvi instrumentation.
const defaultTracerName = "narvi"

// Span and attribute names.
const (
	SpanCascade       = "narvi.cascade"
	AttrType          = "narvi.type"
	AttrProperty      = "narvi.property"
	AttrNotified      = "narvi.notified"
	AttrNotifiedCount = "narvi.notified_count"
)

// TracingConfig configures the OpenTelemetry instrumentation.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "narvi").
	TracerName string

	// Tracer overrides the tracer resolved from the global provider.
	Tracer trace.Tracer

	// Filter decides which cascades are traced. If nil, all are.
	Filter func(owner reflect.Type, property string) bool
}

// TracingOption configures the OpenTelemetry instrumentation.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithTracer sets the tracer directly.
func WithTracer(tracer trace.Tracer) TracingOption {
	return func(c *TracingConfig) {
		c.Tracer = tracer
	}
}

// WithCascadeFilter sets a filter for traced cascades.
func WithCascadeFilter(filter func(owner reflect.Type, property string) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// Tracing records one span per cascade. Cascades are synchronous and carry
// no context, so each span is a root span.
type Tracing struct {
	tracer trace.Tracer
	filter func(reflect.Type, string) bool
}

// OpenTelemetry returns instrumentation that traces cascades.
//
// The tracer uses the global OpenTelemetry tracer provider unless
// WithTracer is given. Configure the provider before installing it:
//
//	otel.SetTracerProvider(tp)
//	notify.SetInstrumentation(telemetry.OpenTelemetry())
func OpenTelemetry(opts ...TracingOption) *Tracing {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Tracer == nil {
		config.Tracer = otel.Tracer(config.TracerName)
	}
	return &Tracing{tracer: config.Tracer, filter: config.Filter}
}

func (t *Tracing) CascadeStarted(owner reflect.Type, property string) notify.CascadeScope {
	if t.filter != nil && !t.filter(owner, property) {
		return nopScope{}
	}

	_, span := t.tracer.Start(context.Background(), SpanCascade,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(AttrType, typeLabel(owner)),
			attribute.String(AttrProperty, property),
		),
	)
	return &spanScope{span: span}
}

func (t *Tracing) CallbackCollected()        {}
func (t *Tracing) SubscriptionOpened(string) {}
func (t *Tracing) SubscriptionClosed(string) {}
func (t *Tracing) PathRewired(string)        {}

type spanScope struct {
	span     trace.Span
	notified []string
}

func (s *spanScope) Notified(property string) {
	s.notified = append(s.notified, property)
}

func (s *spanScope) End(err error) {
	s.span.SetAttributes(
		attribute.StringSlice(AttrNotified, s.notified),
		attribute.Int(AttrNotifiedCount, len(s.notified)),
	)
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

type nopScope struct{}

func (nopScope) Notified(string) {}
func (nopScope) End(error)       {}
