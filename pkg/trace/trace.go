package trace

import (
	"io"
	"net/http"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/spf13/viper"
	"github.com/tass-io/predictor/pkg/env"
	"github.com/uber/jaeger-client-go"
	tracer_config "github.com/uber/jaeger-client-go/config"
	"go.uber.org/zap"
)

const serviceName = "predictor"

// TraceInit installs a jaeger tracer as the global tracer when an agent address is
// configured. Without one the opentracing no-op tracer stays in place.
func TraceInit() (io.Closer, error) {
	hostPort := viper.GetString(env.TraceAgentHostPort)
	if hostPort == "" {
		zap.S().Debug("no jaeger agent configured, tracing disabled")
		return io.NopCloser(nil), nil
	}
	cfg := &tracer_config.Configuration{}
	cfg.Sampler = &tracer_config.SamplerConfig{
		Type:  jaeger.SamplerTypeConst,
		Param: 1.0,
	}
	zap.S().Infow("use jaeger agent host and port", "HostAndPort", hostPort)
	cfg.Reporter = &tracer_config.ReporterConfig{
		QueueSize:           100,
		BufferFlushInterval: 1 * time.Second,
		LogSpans:            false,
		LocalAgentHostPort:  hostPort,
	}
	return cfg.InitGlobalTracer(serviceName)
}

// StartSpanFromHeaders starts a span that continues the caller's trace when the
// request carries one, or a new root span otherwise.
func StartSpanFromHeaders(operation string, header http.Header) opentracing.Span {
	tracer := opentracing.GlobalTracer()
	parent, err := tracer.Extract(opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(header))
	if err != nil {
		if err != opentracing.ErrSpanContextNotFound {
			zap.S().Warnw("trace get spanContext error", "err", err)
		}
		return tracer.StartSpan(operation)
	}
	return tracer.StartSpan(operation, opentracing.ChildOf(parent))
}
