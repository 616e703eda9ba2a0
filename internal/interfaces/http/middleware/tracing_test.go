package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/sfa/backend/internal/infrastructure/telemetry"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return recorder
}

func tracedRouter() *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), Tracing(TracingConfig{Enabled: true}), Auth(AuthConfig{}), SpanEnricher())
	r.GET("/api/v1/accounts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	return r
}

func TestTracing_EnrichesSpan(t *testing.T) {
	recorder := withRecorder(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/7", nil)
	req.Header.Set(RequestIDHeader, "req-77")
	req.Header.Set(ActorHeader, "JD-MAN-000042")
	tracedRouter().ServeHTTP(httptest.NewRecorder(), req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/accounts/:id")

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "req-77", attrs["request_id"])
	assert.Equal(t, "JD-MAN-000042", attrs[telemetry.SpanAttrReferenceID])
}

func TestTracing_MarksServerErrors(t *testing.T) {
	recorder := withRecorder(t)

	tracedRouter().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_Disabled(t *testing.T) {
	recorder := withRecorder(t)

	r := gin.New()
	r.Use(Tracing(TracingConfig{Enabled: false}), SpanEnricher())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorder.Ended())
}
