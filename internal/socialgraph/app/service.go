// Package app implements the social-graph operations as
// load-validate-mutate-persist transactions over the shared document.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"

	"github.com/averso/socialstore/internal/domain"
)

var tracer = otel.Tracer("socialgraph/app")

var (
	usersRegisteredTotal   metric.Int64Counter
	loginAttemptsTotal     metric.Int64Counter
	chatsCreatedTotal      metric.Int64Counter
	messagesSentTotal      metric.Int64Counter
	friendRequestsTotal    metric.Int64Counter
	pathAccessesTotal      metric.Int64Counter
	persistFailuresTotal   metric.Int64Counter
	operationFailuresTotal metric.Int64Counter
)

func init() {
	m := otel.Meter("socialgraph/app")

	usersRegisteredTotal, _ = m.Int64Counter("social_users_registered_total",
		metric.WithDescription("Total users registered"))
	loginAttemptsTotal, _ = m.Int64Counter("social_login_attempts_total",
		metric.WithDescription("Total login attempts"))
	chatsCreatedTotal, _ = m.Int64Counter("social_chats_created_total",
		metric.WithDescription("Total chats created"))
	messagesSentTotal, _ = m.Int64Counter("social_messages_sent_total",
		metric.WithDescription("Total messages sent"))
	friendRequestsTotal, _ = m.Int64Counter("social_friend_requests_total",
		metric.WithDescription("Total friend-request transitions"))
	pathAccessesTotal, _ = m.Int64Counter("store_path_accesses_total",
		metric.WithDescription("Total generic path reads and writes"))
	persistFailuresTotal, _ = m.Int64Counter("store_persist_failures_total",
		metric.WithDescription("Total document persist failures"))
	operationFailuresTotal, _ = m.Int64Counter("social_operation_failures_total",
		metric.WithDescription("Total failed domain operations"))
}

// DocumentStore is the narrow, consumer-defined interface the service
// requires from the persistence adapter. Load must return the latest
// committed state; Persist must replace it atomically.
type DocumentStore interface {
	Load(ctx context.Context) (*domain.Document, error)
	Persist(ctx context.Context, doc *domain.Document) error
}

// ServiceConfig holds the dependencies for Service.
type ServiceConfig struct {
	Store  DocumentStore
	Clock  domain.Clock
	Logger *slog.Logger
}

// Service orchestrates all domain operations against the shared document.
//
// Every operation executes its load → validate → mutate → persist sequence
// as one critical section under mu, so concurrent operations serialize and
// no partial interleaving of mutations is possible. Nothing is cached across
// calls: each operation sees the latest committed state at time of load, and
// a failed persist discards the per-call copy.
type Service struct {
	mu     sync.Mutex
	store  DocumentStore
	clock  domain.Clock
	logger *slog.Logger
}

// NewService creates a Service with the given dependencies.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		store:  cfg.Store,
		clock:  cfg.Clock,
		logger: cfg.Logger,
	}
}

// update runs fn against a freshly loaded document and persists the result.
// Validation errors from fn leave committed state untouched because the
// mutation only ever touched the per-call copy.
func (s *Service) update(ctx context.Context, op string, fn func(doc *domain.Document) error) error {
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		err = fmt.Errorf("%s: load document: %w", op, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := fn(doc); err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		operationFailuresTotal.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := s.store.Persist(ctx, doc); err != nil {
		err = fmt.Errorf("%s: persist document: %w", op, err)
		persistFailuresTotal.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// view runs fn against a freshly loaded document without persisting.
// Read-only operations still take the lock: the contract is that loaded
// state reflects the latest committed state at time of load.
func (s *Service) view(ctx context.Context, op string, fn func(doc *domain.Document) error) error {
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.store.Load(ctx)
	if err != nil {
		err = fmt.Errorf("%s: load document: %w", op, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := fn(doc); err != nil {
		err = fmt.Errorf("%s: %w", op, err)
		operationFailuresTotal.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

// lengthWithin validates a length bound pair, lower bound first.
func lengthWithin(field, value string, min, max int) error {
	if len(value) < min {
		return fmt.Errorf("%s: length %d below minimum %d: %w", field, len(value), min, domain.ErrInvalidInput)
	}
	if len(value) > max {
		return fmt.Errorf("%s: length %d above maximum %d: %w", field, len(value), max, domain.ErrInvalidInput)
	}
	return nil
}

// required validates that a string argument is present.
func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%s: must not be empty: %w", field, domain.ErrInvalidInput)
	}
	return nil
}
