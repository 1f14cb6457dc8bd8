package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"holo-museum-guide/internal/domain"
)

// SessionRepository abstracts where live sessions are registered (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(id string) (*Session, bool)
	Delete(id string)
}

// CatalogRepository loads artifact catalogs (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error)
}

// GuideService opens and closes guide sessions.
type GuideService struct {
	sessions  SessionRepository
	catalogs  CatalogRepository
	catalogID string
	opts      Options
	logger    *zap.Logger
}

func NewGuideService(sessions SessionRepository, catalogs CatalogRepository, catalogID string, opts Options, logger *zap.Logger) *GuideService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GuideService{
		sessions:  sessions,
		catalogs:  catalogs,
		catalogID: catalogID,
		opts:      opts,
		logger:    logger,
	}
}

// Open loads the catalog and registers a new session. The caller runs it.
func (s *GuideService) Open(ctx context.Context, deps Deps) (*Session, error) {
	registry, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if deps.Logger == nil {
		deps.Logger = s.logger.With(zap.String("session", id))
	}
	session := NewSession(id, registry, deps, s.opts)
	s.sessions.Put(session)
	s.logger.Info("session opened", zap.String("session", id), zap.Int("artifacts", len(registry.artifacts)))
	return session, nil
}

// Close tears a session down and forgets it.
func (s *GuideService) Close(id string) {
	session, ok := s.sessions.Get(id)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(id)
	s.logger.Info("session closed", zap.String("session", id))
}

// Post forwards ev to a live session.
func (s *GuideService) Post(id string, ev Event) error {
	session, ok := s.sessions.Get(id)
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.Post(ev)
}

// Artifacts lists the catalog new sessions are opened with.
func (s *GuideService) Artifacts(ctx context.Context) ([]domain.Artifact, error) {
	registry, err := s.registry(ctx)
	if err != nil {
		return nil, err
	}
	return registry.All(), nil
}

// Artifact looks one catalog entry up by key.
func (s *GuideService) Artifact(ctx context.Context, key string) (domain.Artifact, error) {
	registry, err := s.registry(ctx)
	if err != nil {
		return domain.Artifact{}, err
	}
	artifact, ok := registry.Get(key)
	if !ok {
		return domain.Artifact{}, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, key)
	}
	return artifact, nil
}

func (s *GuideService) registry(ctx context.Context) (*Registry, error) {
	catalog, err := s.catalogs.GetCatalog(ctx, s.catalogID)
	if err != nil {
		return nil, fmt.Errorf("load catalog %q: %w", s.catalogID, err)
	}
	return NewRegistry(catalog)
}
