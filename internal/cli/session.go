package cli

import (
	"fmt"

	"github.com/BakaI9/excalidraw/internal/binding"
	"github.com/BakaI9/excalidraw/internal/duplicate"
	"github.com/BakaI9/excalidraw/internal/elbow"
	"github.com/BakaI9/excalidraw/internal/mutation"
	"github.com/BakaI9/excalidraw/internal/scene"
	"github.com/BakaI9/excalidraw/internal/shapecache"
	"github.com/BakaI9/excalidraw/internal/sqlite"
	"github.com/BakaI9/excalidraw/pkg/types"
)

// session is an attached board with the engines that edit it.
type session struct {
	backend *sqlite.Backend
	scene   *scene.Scene
	shapes  *shapecache.Cache
	mut     *mutation.Engine
	dup     *duplicate.Engine

	// dirty is set when the scene reports a change.
	dirty bool
}

// open attaches the board and loads it into a scene.
func (a *app) open() (*session, error) {
	cfg, err := a.boardConfig()
	if err != nil {
		return nil, err
	}
	backend := sqlite.NewBackend(sqlite.WithLogger(a.logger))
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach board: %w", err)
	}
	elements, err := backend.Load()
	if err != nil {
		_ = backend.Detach()
		return nil, fmt.Errorf("load board: %w", err)
	}

	shapes := shapecache.New(shapecache.DefaultCapacity)
	mut := mutation.NewEngine(
		mutation.WithLogger(a.logger),
		mutation.WithMetrics(a.metrics),
		mutation.WithReporter(binding.NewLogReporter(a.logger, a.metrics)),
		mutation.WithRouter(elbow.New()),
		mutation.WithShapeCache(shapes),
	)
	s := &session{
		backend: backend,
		scene:   scene.New(elements),
		shapes:  shapes,
		mut:     mut,
		dup:     duplicate.NewEngine(mut, duplicate.WithOffset(cfg.DuplicateOffset)),
	}
	s.scene.OnUpdate(func() { s.dirty = true })
	return s, nil
}

// element returns the element with id or a not-found user error.
func (s *session) element(id string) (*types.Element, error) {
	el := s.scene.Get(id)
	if el == nil {
		return nil, userError(fmt.Errorf("element %q: %w", id, types.ErrNotFound))
	}
	return el, nil
}

func (s *session) save() error {
	if err := s.backend.Save(s.scene.Elements()); err != nil {
		return fmt.Errorf("save board: %w", err)
	}
	return nil
}

func (s *session) close() {
	_ = s.backend.Detach()
}
