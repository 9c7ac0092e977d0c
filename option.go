package cpusched

import (
	"log/slog"

	"github.com/viant/afs/storage"
	"github.com/viant/cpusched/service/dao"
	"github.com/viant/cpusched/service/event"
	"github.com/viant/cpusched/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises a Service
type Option func(s *Service)

// WithLogger sets the structured logger shared by the service and its sessions
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithConfig replaces the whole configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			cloned := *config
			s.config = &cloned
		}
	}
}

// WithMaxTicks caps every simulation run by the service
func WithMaxTicks(maxTicks int) Option {
	return func(s *Service) {
		s.config.Engine.MaxTicks = maxTicks
	}
}

// WithQuantum sets the quantum used when none is requested
func WithQuantum(quantum int) Option {
	return func(s *Service) {
		s.config.Engine.Quantum = quantum
	}
}

// WithAging enables priority aging every interval ticks
func WithAging(interval int) Option {
	return func(s *Service) {
		s.config.Engine.AgingInterval = interval
	}
}

// WithComparatorWorkers sets how many algorithms Compare simulates concurrently
func WithComparatorWorkers(count int) Option {
	return func(s *Service) {
		s.config.Comparator.Workers = count
	}
}

// WithEventService sets the service sessions publish kernel events and metric samples to
func WithEventService(service *event.Service) Option {
	return func(s *Service) {
		s.events = service
	}
}

// WithSessionDAO sets the session store
func WithSessionDAO(dao dao.Service[string, Session]) Option {
	return func(s *Service) {
		s.sessions = dao
	}
}

// WithBaseURL sets the location relative workload and config URLs resolve against
func WithBaseURL(URL string) Option {
	return func(s *Service) {
		s.baseURL = URL
	}
}

// WithFsOptions sets storage options used for workload access, e.g. an embed.FS
func WithFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.fsOptions = options
	}
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used. The first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			if s.logger != nil {
				s.logger.Warn("tracing disabled", slog.Any("error", err))
			}
			return
		}
		s.tracing = true
	}
}

// WithTracingExporter configures OpenTelemetry tracing with a custom SpanExporter
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		if tracing.InitWithExporter(serviceName, serviceVersion, exporter) == nil {
			s.tracing = true
		}
	}
}
