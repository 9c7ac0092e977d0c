package cpusched

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/cpusched/engine"
	"github.com/viant/cpusched/internal/clock"
	"github.com/viant/cpusched/internal/idgen"
	"github.com/viant/cpusched/model"
	"github.com/viant/cpusched/progress"
	"github.com/viant/cpusched/service/comparator"
	"github.com/viant/cpusched/service/dao"
	"github.com/viant/cpusched/service/dao/criteria"
	"github.com/viant/cpusched/service/dao/store"
	"github.com/viant/cpusched/service/event"
	"github.com/viant/cpusched/service/messaging"
	"github.com/viant/cpusched/service/messaging/memory"
	"github.com/viant/cpusched/service/workload"
	"github.com/viant/cpusched/tracing"
)

// Service owns simulation sessions and workload access
type Service struct {
	config    *Config
	logger    *slog.Logger
	sessions  dao.Service[string, Session]
	workloads *workload.Service
	events    *event.Service
	baseURL   string
	fsOptions []storage.Option
	tracing   bool
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	return s.ensureBaseSetup()
}

func (s *Service) ensureBaseSetup() error {
	if s.logger == nil {
		s.logger = NewLogger(slog.LevelInfo)
	}
	if s.workloads == nil {
		s.workloads = workload.New(afs.New(), s.baseURL, s.fsOptions...)
	}
	if s.sessions == nil {
		s.sessions = store.NewMemoryStore[string, Session](
			func(session *Session) string { return session.ID },
			store.WithFilter[string, Session](func(session *Session, parameters []*dao.Parameter) bool {
				return criteria.Match("Algorithm", session.Algorithm().String(), parameters)
			}),
			store.WithOrder[string, Session](func(a, b *Session) bool { return a.CreatedAt.Before(b.CreatedAt) }),
		)
	}
	if s.events == nil {
		buffer, retries := s.config.Events.QueueBuffer, s.config.Events.MaxRetries
		events, err := event.New(messaging.VendorMemory,
			event.WithLogger(s.logger),
			event.WithNewMemoryQueueConfig(func(string) memory.Config {
				ret := memory.DefaultConfig()
				ret.QueueBuffer = buffer
				ret.MaxRetries = retries
				return ret
			}))
		if err != nil {
			return err
		}
		s.events = events
	}
	return nil
}

// Config returns the effective configuration
func (s *Service) Config() *Config {
	return s.config
}

// Events returns the service sessions publish to
func (s *Service) Events() *event.Service {
	return s.events
}

// NewSession creates and stores an empty session. A zero quantum falls
// back to the configured one.
func (s *Service) NewSession(ctx context.Context, algorithm model.Algorithm, quantum int) (*Session, error) {
	return s.createSession(ctx, "", algorithm, quantum)
}

func (s *Service) createSession(ctx context.Context, name string, algorithm model.Algorithm, quantum int) (*Session, error) {
	if quantum == 0 {
		quantum = s.config.Engine.Quantum
	}
	anEngine, err := engine.New(algorithm, quantum, s.config.engineOptions()...)
	if err != nil {
		return nil, err
	}
	session, err := newSession(name, anEngine, s.logger, s.events)
	if err != nil {
		return nil, err
	}
	if err = s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("session created",
		slog.String("session", session.ID),
		slog.String("algorithm", algorithm.String()),
		slog.Int("quantum", quantum))
	return session, nil
}

// NewSessionFromWorkload creates a session with the workload's algorithm
// (or the configured default) and submits its processes.
func (s *Service) NewSessionFromWorkload(ctx context.Context, aWorkload *model.Workload) (*Session, error) {
	if err := aWorkload.Validate(); err != nil {
		return nil, err
	}
	name := aWorkload.Algorithm
	if name == "" {
		name = s.config.Engine.Algorithm
	}
	algorithm, err := model.ParseAlgorithm(name)
	if err != nil {
		return nil, err
	}
	session, err := s.createSession(ctx, aWorkload.Name, algorithm, aWorkload.Quantum)
	if err != nil {
		return nil, err
	}
	if err = session.SubmitWorkload(aWorkload); err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, err
	}
	return session, nil
}

// Session returns a stored session
func (s *Service) Session(ctx context.Context, id string) (*Session, error) {
	if !idgen.Valid(id) {
		return nil, fmt.Errorf("session %v: %w", id, dao.ErrInvalidID)
	}
	session, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("session %v: %w", id, err)
	}
	return session, nil
}

// Sessions lists stored sessions oldest first, optionally filtered by
// an "Algorithm" parameter.
func (s *Service) Sessions(ctx context.Context, parameters ...*dao.Parameter) ([]*Session, error) {
	return s.sessions.List(ctx, parameters...)
}

// DeleteSession drops a stored session
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("session %v: %w", id, err)
	}
	return nil
}

// LoadWorkload reads a JSON or YAML workload
func (s *Service) LoadWorkload(ctx context.Context, URL string) (*model.Workload, error) {
	return s.workloads.Load(ctx, URL)
}

// Upload encodes value as JSON or YAML, chosen by the URL extension
func (s *Service) Upload(ctx context.Context, URL string, value interface{}) error {
	return s.workloads.Upload(ctx, URL, value)
}

// Compare simulates workload under every requested algorithm, all of them
// when none are given. Progress goes to the tracker carried by ctx, or a
// new one.
func (s *Service) Compare(ctx context.Context, aWorkload *model.Workload, algorithms ...model.Algorithm) ([]*comparator.Result, error) {
	srv, err := comparator.New(s.config.comparatorConfig())
	if err != nil {
		return nil, err
	}
	tracker, ok := progress.FromContext(ctx)
	if !ok {
		label := ""
		if aWorkload != nil {
			label = aWorkload.Name
		}
		ctx, tracker = progress.WithNewTracker(ctx, idgen.New(), label, nil)
	}
	results, err := srv.Compare(ctx, aWorkload, algorithms...)
	status := tracker.Snapshot()
	if err != nil {
		s.logger.Error("compare failed", slog.String("compare", status.ID), errAttr(err))
		return nil, err
	}
	s.logger.Info("compare completed",
		slog.String("compare", status.ID),
		slog.Int("completed", status.Completed),
		slog.Int("failed", status.Failed),
		slog.Duration("elapsed", clock.Since(status.StartedAt)))
	for _, result := range results {
		if result.Err != nil {
			s.logger.Warn("algorithm aborted",
				slog.String("algorithm", result.Algorithm.String()),
				slog.Int("tick", result.Ticks),
				errAttr(result.Err))
		}
	}
	return results, nil
}

// Shutdown stops event listeners and flushes tracing installed by WithTracing
func (s *Service) Shutdown(ctx context.Context) error {
	s.events.Shutdown()
	if !s.tracing {
		return nil
	}
	s.tracing = false
	return tracing.Shutdown(ctx)
}

// New creates a service; invalid options fall back to DefaultConfig
func New(options ...Option) *Service {
	ret, err := NewFromConfig(DefaultConfig(), options...)
	if err != nil {
		ret, _ = NewFromConfig(DefaultConfig())
		ret.logger.Warn("invalid configuration, using defaults", errAttr(err))
	}
	return ret
}

// NewFromConfig creates a service from config, then applies options
func NewFromConfig(config *Config, options ...Option) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cloned := *config
	ret := &Service{config: &cloned}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
