// Package mutation is the single write path for board elements. Every field
// change goes through Engine.Mutate, which detects no-op writes, bumps the
// version counters, invalidates cached shapes, reroutes elbow arrows, and
// applies the binding cascades planned by the binding package.
package mutation

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BakaI9/excalidraw/internal/binding"
	"github.com/BakaI9/excalidraw/internal/metrics"
	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// Router computes the orthogonal path of an elbow arrow. The returned updates
// are merged over the caller's updates.
type Router interface {
	Route(store scene.ElementsMap, el *types.Element, updates types.Updates) (types.Updates, error)
}

// ShapeCache holds derived render data keyed by element.
type ShapeCache interface {
	Delete(el *types.Element)
}

// Notifier is implemented by stores that want to hear about writes.
type Notifier interface {
	TriggerUpdate()
}

// Engine applies element mutations. The zero value is not usable; call
// NewEngine.
type Engine struct {
	logger   *zap.Logger
	metrics  *metrics.Collector
	reporter binding.Reporter
	router   Router
	cache    ShapeCache
	now      func() time.Time
	random   func() int64
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the collector that counts mutations.
func WithMetrics(m *metrics.Collector) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithReporter overrides where skipped binding relations are reported.
// The default logs them on the engine logger.
func WithReporter(r binding.Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithRouter sets the elbow arrow router. Without one, elbow arrows are
// treated like straight connectors.
func WithRouter(r Router) Option {
	return func(e *Engine) { e.router = r }
}

// WithShapeCache sets the cache invalidated on geometry changes.
func WithShapeCache(c ShapeCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithClock sets the time source used for the updated timestamp.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRandom sets the source of version nonces and seeds.
func WithRandom(random func() int64) Option {
	return func(e *Engine) { e.random = random }
}

// WithIDGenerator sets the source of new element and group IDs.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine creates an engine. Unset options fall back to a no-op logger,
// the wall clock, a pseudo-random nonce source, and UUIDv7 IDs.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger: zap.NewNop(),
		now:    time.Now,
		random: RandomInteger,
		newID:  NewID,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.reporter == nil {
		e.reporter = binding.NewLogReporter(e.logger, e.metrics)
	}
	return e
}

// Logger returns the engine logger.
func (e *Engine) Logger() *zap.Logger { return e.logger }

// Metrics returns the engine collector, possibly nil.
func (e *Engine) Metrics() *metrics.Collector { return e.metrics }

// Reporter returns the binding reporter.
func (e *Engine) Reporter() binding.Reporter { return e.reporter }

// GenerateID returns a fresh ID from the configured generator.
func (e *Engine) GenerateID() string { return e.newID() }

// Now returns the current time in Unix milliseconds.
func (e *Engine) Now() int64 { return e.now().UnixMilli() }

// Random returns a value from the configured nonce source.
func (e *Engine) Random() int64 { return e.random() }

// NewID returns a UUIDv7 string, falling back to v4.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// RandomInteger returns a non-negative pseudo-random 31-bit integer.
func RandomInteger() int64 {
	return rand.Int63n(math.MaxInt32)
}
