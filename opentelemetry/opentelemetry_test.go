package opentelemetry_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/get-eventually/go-base64bytes/attachment"
	"github.com/get-eventually/go-base64bytes/opentelemetry"
	"github.com/get-eventually/go-base64bytes/record"
	"github.com/get-eventually/go-base64bytes/record/recordtest"
	"github.com/get-eventually/go-base64bytes/serde"
)

type telemetry struct {
	reader   *sdkmetric.ManualReader
	recorder *tracetest.SpanRecorder
	options  []opentelemetry.Option
}

func newTelemetry() telemetry {
	reader := sdkmetric.NewManualReader()
	recorder := tracetest.NewSpanRecorder()

	return telemetry{
		reader:   reader,
		recorder: recorder,
		options: []opentelemetry.Option{
			opentelemetry.WithMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))),
			opentelemetry.WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))),
		},
	}
}

// histogramCount returns the number of values recorded by the named histogram.
func (tm telemetry) histogramCount(t *testing.T, name string) uint64 {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, tm.reader.Collect(context.Background(), &rm))

	var count uint64

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}

			histogram, ok := m.Data.(metricdata.Histogram[int64])
			require.True(t, ok, "metric %s is not an int64 histogram", name)

			for _, dp := range histogram.DataPoints {
				count += dp.Count
			}
		}
	}

	return count
}

func (tm telemetry) spanNames() []string {
	var names []string
	for _, span := range tm.recorder.Ended() {
		names = append(names, span.Name())
	}

	return names
}

func newAttachment() *attachment.Attachment { return new(attachment.Attachment) }

func TestInstrumentedStore(t *testing.T) {
	ctx := context.Background()
	tm := newTelemetry()

	store, err := opentelemetry.NewInstrumentedStore[*attachment.Attachment](
		record.NewInMemoryStore[*attachment.Attachment](serde.NewJSON(newAttachment)),
		tm.options...,
	)
	require.NoError(t, err)

	id := uuid.New()

	require.NoError(t, store.Save(ctx, id, attachment.New("a.txt", []byte("a"))))

	_, err = store.Get(ctx, id)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))

	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, record.ErrNotFound)

	assert.Equal(t, []string{
		"record.Store.Save",
		"record.Store.Get",
		"record.Store.Delete",
		"record.Store.Get",
	}, tm.spanNames())

	spans := tm.recorder.Ended()
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[3].Status().Code)
	assert.Contains(t, spans[0].Attributes(), opentelemetry.RecordIDAttribute.String(id.String()))

	assert.Equal(t, uint64(2), tm.histogramCount(t, "base64bytes.record.get.duration.milliseconds"))
	assert.Equal(t, uint64(1), tm.histogramCount(t, "base64bytes.record.save.duration.milliseconds"))
	assert.Equal(t, uint64(1), tm.histogramCount(t, "base64bytes.record.delete.duration.milliseconds"))
}

func TestInstrumentedStore_Suite(t *testing.T) {
	recordtest.RunStoreSuite(t, func() record.Store[*attachment.Attachment] {
		store, err := opentelemetry.NewInstrumentedStore[*attachment.Attachment](
			record.NewInMemoryStore[*attachment.Attachment](serde.NewCBOR(newAttachment)),
		)
		require.NoError(t, err)

		return store
	})
}

func TestInstrumentedSerde(t *testing.T) {
	ctx := context.Background()
	tm := newTelemetry()

	mySerde, err := opentelemetry.NewInstrumentedSerde[*attachment.Attachment](serde.NewMsgPack(newAttachment), tm.options...)
	require.NoError(t, err)

	t.Run("it keeps the wrapped serde format", func(t *testing.T) {
		format, ok := serde.FormatOf(mySerde)
		assert.True(t, ok)
		assert.Equal(t, serde.FormatMsgPack, format)
	})

	t.Run("it records serialization and deserialization", func(t *testing.T) {
		want := attachment.New("hello.txt", []byte("hello"))

		data, err := mySerde.SerializeContext(ctx, want)
		require.NoError(t, err)

		got, err := mySerde.Deserialize(data)
		require.NoError(t, err)
		assert.True(t, want.Equal(got))

		_, err = mySerde.DeserializeContext(ctx, []byte{0xc1})
		assert.Error(t, err)

		assert.Equal(t, []string{
			"serde.Serializer.Serialize",
			"serde.Deserializer.Deserialize",
			"serde.Deserializer.Deserialize",
		}, tm.spanNames())

		spans := tm.recorder.Ended()
		assert.Contains(t, spans[0].Attributes(), opentelemetry.FormatAttribute.String("msgpack"))
		assert.Contains(t, spans[0].Attributes(), opentelemetry.PayloadSizeAttribute.Int(len(data)))
		assert.Equal(t, codes.Error, spans[2].Status().Code)

		assert.Equal(t, uint64(1), tm.histogramCount(t, "base64bytes.serde.serialize.duration.microseconds"))
		assert.Equal(t, uint64(2), tm.histogramCount(t, "base64bytes.serde.deserialize.duration.microseconds"))
		assert.Equal(t, uint64(2), tm.histogramCount(t, "base64bytes.serde.payload.size.bytes"))
	})
}
