package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName — имя tracer для спанов приложения.
const TracerName = "github.com/shaiso/subway"

// SetupTracing настраивает глобальный TracerProvider.
//
// Режим определяется параметром mode (обычно OTEL_TRACES):
//   - "stdout" — спаны печатаются в stdout (для разработки)
//   - "none" или пусто — provider без exporter, спаны не экспортируются
//
// Возвращает функцию shutdown, которую нужно вызвать при остановке.
func SetupTracing(serviceName, mode string) (func(context.Context) error, error) {
	res := sdkresource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
	}

	switch mode {
	case "stdout":
		exporter, err := stdouttrace.New(
			stdouttrace.WithWriter(os.Stdout),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	case "", "none":
	default:
		return nil, fmt.Errorf("unknown traces mode %q", mode)
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

// Tracer возвращает tracer приложения из глобального provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// StartSpan начинает дочерний спан с именем name.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}
