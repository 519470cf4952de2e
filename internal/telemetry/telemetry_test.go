package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordSpans installs a synchronous in-memory provider for one test.
func recordSpans(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exp := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))

	prevProvider, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
		otel.SetTracerProvider(prevProvider)
		otel.SetTextMapPropagator(prevProp)
	})
	return exp
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Options{ServiceName: "dittonas"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupRejectsUnknownProfile(t *testing.T) {
	_, err := Setup(context.Background(), Options{
		ServiceName: "dittonas",
		Profiling: ProfilingOptions{
			Enabled:      true,
			Endpoint:     "http://localhost:4040",
			ProfileTypes: []string{"cpu", "heap"},
		},
	})
	assert.ErrorContains(t, err, `"heap"`)
}

func TestParseProfileTypes(t *testing.T) {
	types, err := ParseProfileTypes([]string{"cpu", "inuse_space", "mutex_count"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileMutexCount,
	}, types)

	types, err = ParseProfileTypes(nil)
	require.NoError(t, err)
	assert.Empty(t, types)

	_, err = ParseProfileTypes([]string{"CPU"})
	assert.Error(t, err)
}

func TestSpansWithoutProviderAreNoOps(t *testing.T) {
	ctx, span := StartStoreSpan(context.Background(), "list_disks")
	defer span.End()

	assert.False(t, span.SpanContext().IsValid())
	traceID, spanID := SpanIDs(ctx)
	assert.Empty(t, traceID)
	assert.Empty(t, spanID)
	assert.NotPanics(t, func() {
		RecordError(ctx, errors.New("ignored"))
		SetAttributes(ctx, Resource("disks"))
	})
}

func TestStartStoreSpan(t *testing.T) {
	exp := recordSpans(t)

	ctx, span := StartStoreSpan(context.Background(), "list_disks", Resource("disks"))
	SetAttributes(ctx, Rows(25), Total(66))
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "store.list_disks", spans[0].Name)
	attrs := attrMap(spans[0].Attributes)
	assert.Equal(t, "list_disks", attrs[AttrDBOp].AsString())
	assert.Equal(t, "disks", attrs[AttrResource].AsString())
	assert.Equal(t, int64(25), attrs[AttrRows].AsInt64())
	assert.Equal(t, int64(66), attrs[AttrTotal].AsInt64())
}

func TestStartTreeSpan(t *testing.T) {
	exp := recordSpans(t)

	_, span := StartTreeSpan(context.Background(), "tank", VolumeID(3), Stride(100))
	span.SetAttributes(Nodes(4))
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "storagetree.project", spans[0].Name)
	attrs := attrMap(spans[0].Attributes)
	assert.Equal(t, "tank", attrs[AttrVolume].AsString())
	assert.Equal(t, int64(3), attrs[AttrVolumeID].AsInt64())
	assert.Equal(t, int64(100), attrs[AttrStride].AsInt64())
	assert.Equal(t, int64(4), attrs[AttrNodes].AsInt64())
}

func TestRecordError(t *testing.T) {
	exp := recordSpans(t)

	ctx, span := StartSpan(context.Background(), "inventory.import")
	RecordError(ctx, nil)
	RecordError(ctx, errors.New("volume tank: duplicate dataset"))
	span.End()

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "volume tank: duplicate dataset", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestStartHTTPSpanContinuesTrace(t *testing.T) {
	exp := recordSpans(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/storage/volumes", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	ctx, span := StartHTTPSpan(req)
	traceID, spanID := SpanIDs(ctx)
	span.End()

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", traceID)
	assert.Len(t, spanID, 16)
	assert.NotEqual(t, "00f067aa0ba902b7", spanID)

	spans := exp.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/storage/volumes", spans[0].Name)
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent.SpanID().String())
	assert.Equal(t, http.MethodGet, attrMap(spans[0].Attributes)[AttrHTTPMethod].AsString())
}

func TestAttributeKeys(t *testing.T) {
	tests := []struct {
		kv  attribute.KeyValue
		key string
	}{
		{ClientIP("192.168.1.100"), "client.address"},
		{HTTPRoute("/api/v1/storage/volumes/{id}"), "http.route"},
		{HTTPStatus(404), "http.response.status_code"},
		{Username("admin"), "enduser.id"},
		{Role("operator"), "enduser.role"},
		{Volume("tank"), "nas.volume"},
		{ImportFile("/etc/dittonas/inventory.yaml"), "nas.import.file"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.key, string(tt.kv.Key))
	}
}
