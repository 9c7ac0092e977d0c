package event

import (
	"log/slog"

	"github.com/viant/cpusched/service/messaging/memory"
)

type Option func(s *Service)

// WithNewMemoryQueueConfig sets the per-queue configuration factory; name is
// the payload type name or "any" for the shared queue.
func WithNewMemoryQueueConfig(newConfig func(name string) memory.Config) Option {
	return func(s *Service) {
		s.memNewQueueConfig = newConfig
	}
}

// WithLogger sets the logger used by listeners
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
