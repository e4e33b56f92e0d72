package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// recordSpans installs an in-memory tracer provider for the test.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	recorder := tracetest.NewSpanRecorder()
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(previous) })
	return recorder
}

func spanAttrs(attrs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{}, len(attrs))
	for _, attr := range attrs {
		m[string(attr.Key)] = attr.Value.AsInterface()
	}
	return m
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("query_search_analytics").
		WithService(ServiceSearchConsole).
		WithOperation(OperationQuery).
		WithSite("sc-domain:example.com").
		WithErrorCategory("rate_limited").
		WithReadOnly(true).
		Build()

	if len(attrs) != 6 {
		t.Errorf("expected 6 attributes, got %d", len(attrs))
	}

	m := spanAttrs(attrs)
	if m[SpanAttrTool] != "query_search_analytics" {
		t.Errorf("tool = %v", m[SpanAttrTool])
	}
	if m[SpanAttrService] != ServiceSearchConsole {
		t.Errorf("service = %v", m[SpanAttrService])
	}
	if m[SpanAttrSite] != "sc-domain:example.com" {
		t.Errorf("site = %v", m[SpanAttrSite])
	}
	if m[SpanAttrErrorCategory] != "rate_limited" {
		t.Errorf("category = %v", m[SpanAttrErrorCategory])
	}
	if m[SpanAttrReadOnly] != true {
		t.Errorf("read_only = %v", m[SpanAttrReadOnly])
	}
}

func TestSpanAttributeBuilder_EmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().
		WithTool("list_sites").
		WithSite("").
		WithErrorCategory("").
		Build()

	if len(attrs) != 1 {
		t.Errorf("expected 1 attribute (only tool), got %d", len(attrs))
	}
}

func TestStartToolSpan(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartToolSpan(context.Background(), "list_sitemaps")
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "tool.list_sitemaps" {
		t.Errorf("span name = %q", spans[0].Name())
	}
	if spanAttrs(spans[0].Attributes())[SpanAttrTool] != "list_sitemaps" {
		t.Error("tool attribute missing")
	}
}

func TestStartGoogleAPISpan(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartGoogleAPISpan(context.Background(), ServiceSearchConsole, OperationInspect,
		attribute.String(SpanAttrSite, "https://example.com/"))
	span.End()

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "google.searchconsole.inspect" {
		t.Errorf("span name = %q", spans[0].Name())
	}
	m := spanAttrs(spans[0].Attributes())
	if m[SpanAttrOperation] != OperationInspect || m[SpanAttrSite] != "https://example.com/" {
		t.Errorf("unexpected attributes %v", m)
	}
}

func TestStartSpan_TraceContext(t *testing.T) {
	recordSpans(t)

	ctx, span := StartSpan(context.Background(), "test-span")
	defer span.End()

	if GetTraceID(ctx) == "" || GetSpanID(ctx) == "" {
		t.Error("expected trace and span IDs from a recording span")
	}
	if SpanContextString(ctx) == "" {
		t.Error("expected a span context string")
	}
}

func TestSetSpanError(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartSpan(context.Background(), "failing")
	SetSpanError(span, errors.New("Permission denied."))
	span.End()

	got := recorder.Ended()[0]
	if got.Status().Code != codes.Error {
		t.Errorf("status = %v, want error", got.Status().Code)
	}
	if len(got.Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestSetSpanError_Nil(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartSpan(context.Background(), "fine")
	SetSpanError(span, nil)
	span.End()

	if recorder.Ended()[0].Status().Code != codes.Unset {
		t.Error("nil error should leave the status unset")
	}
}

func TestSetSpanSuccess(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartSpan(context.Background(), "ok")
	SetSpanSuccess(span)
	span.End()

	if recorder.Ended()[0].Status().Code != codes.Ok {
		t.Error("expected OK status")
	}
}

func TestAddSpanEvent(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartSpan(context.Background(), "events")
	AddSpanEvent(span, "rows_normalized", attribute.Int("rows", 2))
	span.End()

	events := recorder.Ended()[0].Events()
	if len(events) != 1 || events[0].Name != "rows_normalized" {
		t.Errorf("unexpected events %v", events)
	}
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("GetTraceID() = %q, want empty string", id)
	}
}

func TestGetSpanID_NoSpan(t *testing.T) {
	if id := GetSpanID(context.Background()); id != "" {
		t.Errorf("GetSpanID() = %q, want empty string", id)
	}
}

func TestSpanContextString_NoSpan(t *testing.T) {
	if s := SpanContextString(context.Background()); s != "" {
		t.Errorf("SpanContextString() = %q, want empty string", s)
	}
}
