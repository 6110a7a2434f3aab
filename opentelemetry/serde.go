package opentelemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/get-eventually/go-base64bytes/serde"
)

var (
	_ serde.Serde[any, []byte] = new(InstrumentedSerde[any])
	_ serde.Formatted          = new(InstrumentedSerde[any])
)

// InstrumentedSerde is a wrapper type over a serde.Serde instance producing
// byte payloads, to provide instrumentation in the form of metrics and traces
// using OpenTelemetry.
//
// Use the SerializeContext and DeserializeContext methods to attach the
// spans to an existing trace. The plain Serialize and Deserialize methods
// satisfy the serde.Serde interface, and start a new trace.
type InstrumentedSerde[T any] struct {
	serde  serde.Serde[T, []byte]
	format serde.Format

	tracer              trace.Tracer
	serializeDuration   metric.Int64Histogram
	deserializeDuration metric.Int64Histogram
	payloadSize         metric.Int64Histogram
}

func (is *InstrumentedSerde[T]) registerMetrics(meter metric.Meter) error {
	var err error

	if is.serializeDuration, err = meter.Int64Histogram(
		"base64bytes.serde.serialize.duration.microseconds",
		metric.WithUnit("us"),
		metric.WithDescription("Duration in microseconds of serde.Serializer.Serialize operations performed."),
	); err != nil {
		return fmt.Errorf("opentelemetry.InstrumentedSerde: failed to register metric, %w", err)
	}

	if is.deserializeDuration, err = meter.Int64Histogram(
		"base64bytes.serde.deserialize.duration.microseconds",
		metric.WithUnit("us"),
		metric.WithDescription("Duration in microseconds of serde.Deserializer.Deserialize operations performed."),
	); err != nil {
		return fmt.Errorf("opentelemetry.InstrumentedSerde: failed to register metric, %w", err)
	}

	if is.payloadSize, err = meter.Int64Histogram(
		"base64bytes.serde.payload.size.bytes",
		metric.WithUnit("By"),
		metric.WithDescription("Size in bytes of the payloads serialized or deserialized."),
	); err != nil {
		return fmt.Errorf("opentelemetry.InstrumentedSerde: failed to register metric, %w", err)
	}

	return nil
}

// NewInstrumentedSerde returns a wrapper type to provide OpenTelemetry
// instrumentation (metrics and traces) around a serde.Serde.
//
// The serde.Format of the wrapped serde, if any, is reported as an attribute,
// and exposed through the serde.Formatted interface.
//
// An error is returned if metrics could not be registered.
func NewInstrumentedSerde[T any](s serde.Serde[T, []byte], options ...Option) (*InstrumentedSerde[T], error) {
	cfg := newConfig(options...)
	format, _ := serde.FormatOf(s)

	is := &InstrumentedSerde[T]{
		serde:  s,
		format: format,
		tracer: cfg.tracer(),
	}

	if err := is.registerMetrics(cfg.meter()); err != nil {
		return nil, err
	}

	return is, nil
}

// Format implements the serde.Formatted interface.
func (is *InstrumentedSerde[T]) Format() serde.Format { return is.format }

func (is *InstrumentedSerde[T]) attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		FormatAttribute.String(is.format.Name),
		HumanReadableAttribute.Bool(is.format.HumanReadable),
	}
}

func (is *InstrumentedSerde[T]) observe(
	ctx context.Context,
	name string,
	histogram metric.Int64Histogram,
) (context.Context, func(size int, err error)) {
	attributes := is.attributes()

	ctx, span := is.tracer.Start(ctx, name, trace.WithAttributes(attributes...))
	start := time.Now()

	return ctx, func(size int, err error) {
		attributes := append(attributes, ErrorAttribute.Bool(err != nil))

		histogram.Record(ctx, time.Since(start).Microseconds(), metric.WithAttributes(attributes...))

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			is.payloadSize.Record(ctx, int64(size), metric.WithAttributes(is.attributes()...))
			span.SetAttributes(PayloadSizeAttribute.Int(size))
		}

		span.End()
	}
}

// SerializeContext calls the wrapped serde.Serializer.Serialize method
// and records metrics and traces around it.
func (is *InstrumentedSerde[T]) SerializeContext(ctx context.Context, value T) (data []byte, err error) {
	_, done := is.observe(ctx, "serde.Serializer.Serialize", is.serializeDuration)
	defer func() { done(len(data), err) }()

	return is.serde.Serialize(value)
}

// DeserializeContext calls the wrapped serde.Deserializer.Deserialize method
// and records metrics and traces around it.
func (is *InstrumentedSerde[T]) DeserializeContext(ctx context.Context, data []byte) (value T, err error) {
	_, done := is.observe(ctx, "serde.Deserializer.Deserialize", is.deserializeDuration)
	defer func() { done(len(data), err) }()

	return is.serde.Deserialize(data)
}

// Serialize implements the serde.Serializer interface.
func (is *InstrumentedSerde[T]) Serialize(value T) ([]byte, error) {
	return is.SerializeContext(context.Background(), value)
}

// Deserialize implements the serde.Deserializer interface.
func (is *InstrumentedSerde[T]) Deserialize(data []byte) (T, error) {
	return is.DeserializeContext(context.Background(), data)
}
