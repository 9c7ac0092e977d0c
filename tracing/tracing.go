package tracing

import (
	"context"
	"io"
	"os"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentation = "github.com/viant/cpusched"

// Init installs a stdout exporter writing to outputFile, or os.Stdout when
// outputFile is empty. Only the first successful call takes effect; call
// Shutdown to flush spans and close the file.
func Init(serviceName, serviceVersion, outputFile string) error {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		w, closer = f, f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err == nil {
		var installed bool
		installed, err = installProvider(serviceName, serviceVersion, exporter, closer)
		if installed {
			return nil
		}
	}
	if closer != nil {
		_ = closer.Close()
	}
	return err
}

// InitWithExporter installs exporter as the global span sink
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	_, err := installProvider(serviceName, serviceVersion, exporter, nil)
	return err
}

var (
	mux      sync.Mutex
	provider *sdktrace.TracerProvider
	output   io.Closer
)

func installProvider(serviceName, serviceVersion string, exporter sdktrace.SpanExporter, closer io.Closer) (bool, error) {
	if exporter == nil {
		return false, nil
	}
	mux.Lock()
	defer mux.Unlock()
	if provider != nil {
		return false, nil
	}
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		),
	)
	if err != nil {
		return false, err
	}
	provider = sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	output = closer
	otel.SetTracerProvider(provider)
	return true, nil
}

// Shutdown flushes and stops the installed provider and closes its output
// file. Tracing falls back to a no-op provider until the next Init.
func Shutdown(ctx context.Context) error {
	mux.Lock()
	defer mux.Unlock()
	if provider == nil {
		return nil
	}
	err := provider.Shutdown(ctx)
	if output != nil {
		if closeErr := output.Close(); err == nil {
			err = closeErr
		}
	}
	provider, output = nil, nil
	otel.SetTracerProvider(noop.NewTracerProvider())
	return err
}

// Span wraps an OpenTelemetry span
type Span struct {
	span trace.Span
}

// WithAttributes attaches string attributes
func (s *Span) WithAttributes(attrs map[string]string) *Span {
	if s == nil || len(attrs) == 0 {
		return s
	}
	otelAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		otelAttrs = append(otelAttrs, attribute.String(k, v))
	}
	s.span.SetAttributes(otelAttrs...)
	return s
}

// WithInt attaches one integer attribute
func (s *Span) WithInt(key string, value int) *Span {
	if s == nil {
		return s
	}
	s.span.SetAttributes(attribute.Int(key, value))
	return s
}

// AddEvent records a named point in time on the span
func (s *Span) AddEvent(name string, attrs map[string]int) {
	if s == nil {
		return
	}
	otelAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		otelAttrs = append(otelAttrs, attribute.Int(k, v))
	}
	s.span.AddEvent(name, trace.WithAttributes(otelAttrs...))
}

// SetStatus records err, or OK when err is nil
func (s *Span) SetStatus(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
		return
	}
	s.span.SetStatus(codes.Ok, "")
}

// TraceID returns the hex trace id or "" for a no-op span
func (s *Span) TraceID() string {
	if s == nil || !s.span.SpanContext().IsValid() {
		return ""
	}
	return s.span.SpanContext().TraceID().String()
}

// StartSpan starts an internal span named name
func StartSpan(ctx context.Context, name string) (context.Context, *Span) {
	tracer := otel.Tracer(instrumentation)
	ctx, span := tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	return ctx, &Span{span: span}
}

// EndSpan records the outcome and ends sp
func EndSpan(sp *Span, err error) {
	if sp == nil {
		return
	}
	sp.SetStatus(err)
	sp.span.End()
}

// SpanFromContext returns the span carried by ctx
func SpanFromContext(ctx context.Context) (*Span, bool) {
	sp := trace.SpanFromContext(ctx)
	if !sp.SpanContext().IsValid() {
		return nil, false
	}
	return &Span{span: sp}, true
}

// Attrs formats integer attributes for WithAttributes
func Attrs(kv map[string]int) map[string]string {
	ret := make(map[string]string, len(kv))
	for k, v := range kv {
		ret[k] = strconv.Itoa(v)
	}
	return ret
}
