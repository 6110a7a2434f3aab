package opentelemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/get-eventually/go-base64bytes/record"
)

// Attribute keys used by the instrumentation in this package.
const (
	ErrorAttribute         attribute.Key = "error"
	RecordIDAttribute      attribute.Key = "record.id"
	FormatAttribute        attribute.Key = "serde.format"
	HumanReadableAttribute attribute.Key = "serde.human_readable"
	PayloadSizeAttribute   attribute.Key = "serde.payload.size"
)

var _ record.Store[any] = new(InstrumentedStore[any])

// InstrumentedStore is a wrapper type over a record.Store
// instance to provide instrumentation, in the form of metrics and traces
// using OpenTelemetry.
//
// Use NewInstrumentedStore for constructing a new instance of this type.
type InstrumentedStore[T any] struct {
	store record.Store[T]

	tracer         trace.Tracer
	getDuration    metric.Int64Histogram
	saveDuration   metric.Int64Histogram
	deleteDuration metric.Int64Histogram
}

func (is *InstrumentedStore[T]) registerMetrics(meter metric.Meter) error {
	var err error

	if is.getDuration, err = meter.Int64Histogram(
		"base64bytes.record.get.duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of record.Store.Get operations performed."),
	); err != nil {
		return fmt.Errorf("opentelemetry.InstrumentedStore: failed to register metric, %w", err)
	}

	if is.saveDuration, err = meter.Int64Histogram(
		"base64bytes.record.save.duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of record.Store.Save operations performed."),
	); err != nil {
		return fmt.Errorf("opentelemetry.InstrumentedStore: failed to register metric, %w", err)
	}

	if is.deleteDuration, err = meter.Int64Histogram(
		"base64bytes.record.delete.duration.milliseconds",
		metric.WithUnit("ms"),
		metric.WithDescription("Duration in milliseconds of record.Store.Delete operations performed."),
	); err != nil {
		return fmt.Errorf("opentelemetry.InstrumentedStore: failed to register metric, %w", err)
	}

	return nil
}

// NewInstrumentedStore returns a wrapper type to provide OpenTelemetry
// instrumentation (metrics and traces) around a record.Store.
//
// An error is returned if metrics could not be registered.
func NewInstrumentedStore[T any](store record.Store[T], options ...Option) (*InstrumentedStore[T], error) {
	cfg := newConfig(options...)

	is := &InstrumentedStore[T]{
		store:  store,
		tracer: cfg.tracer(),
	}

	if err := is.registerMetrics(cfg.meter()); err != nil {
		return nil, err
	}

	return is, nil
}

// observe starts a span for the named operation, and returns the function
// to call when the operation completes to end the span and record its duration.
func (is *InstrumentedStore[T]) observe(
	ctx context.Context,
	name string,
	id uuid.UUID,
	histogram metric.Int64Histogram,
) (context.Context, func(err error)) {
	ctx, span := is.tracer.Start(ctx, name, trace.WithAttributes(RecordIDAttribute.String(id.String())))
	start := time.Now()

	return ctx, func(err error) {
		histogram.Record(ctx, time.Since(start).Milliseconds(),
			metric.WithAttributes(ErrorAttribute.Bool(err != nil)),
		)

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		span.End()
	}
}

// Get calls the wrapped record.Store.Get method and records metrics
// and traces around it.
func (is *InstrumentedStore[T]) Get(ctx context.Context, id uuid.UUID) (result T, err error) {
	ctx, done := is.observe(ctx, "record.Store.Get", id, is.getDuration)
	defer func() { done(err) }()

	return is.store.Get(ctx, id)
}

// Save calls the wrapped record.Store.Save method and records metrics
// and traces around it.
func (is *InstrumentedStore[T]) Save(ctx context.Context, id uuid.UUID, value T) (err error) {
	ctx, done := is.observe(ctx, "record.Store.Save", id, is.saveDuration)
	defer func() { done(err) }()

	return is.store.Save(ctx, id, value)
}

// Delete calls the wrapped record.Store.Delete method and records metrics
// and traces around it.
func (is *InstrumentedStore[T]) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, done := is.observe(ctx, "record.Store.Delete", id, is.deleteDuration)
	defer func() { done(err) }()

	return is.store.Delete(ctx, id)
}
