package middleware

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/hive/pkg/store"
)

// Default tracer name for hive stores.
const defaultTracerName = "hive"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "hive").
	TracerName string

	// TracerProvider supplies the tracer. If nil, the global provider is
	// used.
	TracerProvider trace.TracerProvider

	// IncludePayload records the payload's Go type as a span attribute.
	// Payload values are never recorded.
	IncludePayload bool

	// Filter determines which operations to trace.
	// Return true to trace the operation, false to skip.
	// If nil, all operations are traced.
	Filter func(op *store.Operation) bool

	// AttributeExtractor extracts custom attributes from the operation.
	AttributeExtractor func(op *store.Operation) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithIncludePayload enables recording the payload type.
func WithIncludePayload(include bool) OTelOption {
	return func(c *OTelConfig) {
		c.IncludePayload = include
	}
}

// WithOperationFilter sets a filter function for operations.
func WithOperationFilter(filter func(op *store.Operation) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(op *store.Operation) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that traces every store operation.
//
// The middleware:
//   - Creates a span per operation named "hive.<kind>" with module and
//     handler name attributes
//   - Replaces the operation context with the span context, so nested
//     calls made by setters and actions become child spans
//   - Records errors and sets span status
//
// The tracer comes from the global OpenTelemetry tracer provider unless
// WithTracerProvider is given:
//
//	otel.SetTracerProvider(tp)
//	s := store.New(cfg, store.WithMiddleware(middleware.OpenTelemetry()))
func OpenTelemetry(opts ...OTelOption) store.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	tp := config.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	tracer := tp.Tracer(config.TracerName)

	return func(next store.Handler) store.Handler {
		return func(op *store.Operation) (any, error) {
			if config.Filter != nil && !config.Filter(op) {
				return next(op)
			}

			attrs := []attribute.KeyValue{
				attribute.String("hive.module", moduleLabel(op.Module)),
				attribute.String("hive.name", op.Name),
			}
			if config.IncludePayload && op.Payload != nil {
				attrs = append(attrs, attribute.String("hive.payload_type", typeName(op.Payload)))
			}
			if config.AttributeExtractor != nil {
				attrs = append(attrs, config.AttributeExtractor(op)...)
			}

			spanCtx, span := tracer.Start(
				op.Context(),
				"hive."+string(op.Kind),
				trace.WithSpanKind(trace.SpanKindInternal),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			op.SetContext(spanCtx)

			res, err := next(op)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else {
				span.SetStatus(codes.Ok, "")
			}
			return res, err
		}
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
