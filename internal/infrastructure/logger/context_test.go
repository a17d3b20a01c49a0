package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func spanContext(t *testing.T) (context.Context, trace.SpanContext) {
	t.Helper()
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc), sc
}

func TestFromContext(t *testing.T) {
	t.Run("stored logger", func(t *testing.T) {
		l := zap.NewExample()
		assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
	})

	t.Run("missing returns nop", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
	})

	t.Run("wrong type returns nop", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
		assert.NotNil(t, FromContext(ctx))
	})
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx, enriched := WithRequestID(context.Background(), zap.New(core), "req-123")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	enriched.Info("direct")
	L(ctx).Info("via context")

	logs := recorded.All()
	assert.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, "req-123", entry.ContextMap()["request_id"])
		// exactly one request_id field per entry
		count := 0
		for _, f := range entry.Context {
			if f.Key == "request_id" {
				count++
			}
		}
		assert.Equal(t, 1, count, entry.Message)
	}
}

func TestWithInvoiceNumber(t *testing.T) {
	assert.Empty(t, GetInvoiceNumber(context.Background()))

	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithInvoiceNumber(ctx, "INV-20250101-0930")

	assert.Equal(t, "INV-20250101-0930", GetInvoiceNumber(ctx))
	L(ctx).Info("rendered")
	assert.Equal(t, "INV-20250101-0930", recorded.All()[0].ContextMap()["invoice_number"])
}

func TestGetTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	ctx, sc := spanContext(t)
	assert.Equal(t, sc.TraceID().String(), GetTraceID(ctx))

	invalid := trace.ContextWithSpanContext(context.Background(), trace.SpanContext{})
	assert.Empty(t, GetTraceID(invalid))
}

func TestContextLogger(t *testing.T) {
	t.Run("adds trace fields", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		ctx, sc := spanContext(t)

		WithLogger(ctx, zap.New(core)).Info("traced")

		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
		assert.Equal(t, sc.SpanID().String(), fields["span_id"])
	})

	t.Run("no context fields", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		WithLogger(context.Background(), zap.New(core)).Info("plain")
		assert.Empty(t, recorded.All()[0].Context)
	})

	t.Run("levels", func(t *testing.T) {
		core, recorded := observer.New(zapcore.DebugLevel)
		cl := WithLogger(context.Background(), zap.New(core))
		cl.Debug("d")
		cl.Info("i")
		cl.Warn("w")
		cl.Error("e")

		logs := recorded.All()
		assert.Len(t, logs, 4)
		assert.Equal(t, zapcore.ErrorLevel, logs[3].Level)
	})

	t.Run("with chaining", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)
		WithLogger(context.Background(), zap.New(core)).
			With(zap.String("format", "pdf")).
			With(zap.Int("pages", 1)).
			Info("chained")

		fields := recorded.All()[0].ContextMap()
		assert.Equal(t, "pdf", fields["format"])
		assert.Equal(t, int64(1), fields["pages"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		cl := WithLogger(context.Background(), nil)
		assert.NotPanics(t, func() {
			cl.Info("nothing")
			cl.With(zap.String("k", "v")).Warn("still nothing")
			_ = cl.Zap()
		})
	})
}
