package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"holo-museum-guide/internal/app"
	"holo-museum-guide/internal/config"
	"holo-museum-guide/internal/domain"
	"holo-museum-guide/internal/infra/memory"
	"holo-museum-guide/internal/infra/postgres"
	infraredis "holo-museum-guide/internal/infra/redis"
	"holo-museum-guide/internal/logging"
)

const defaultCatalogID = "default"

// runtime holds the process-wide collaborators built from config.
type runtime struct {
	cfg       config.Config
	logger    *zap.Logger
	service   *app.GuideService
	catalogs  app.CatalogRepository
	snapshots *postgres.SnapshotLog
	liveness  *infraredis.SessionStore
	closers   []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	_ = r.logger.Sync()
}

func loadRuntime(ctx context.Context, configPath string) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rt.closers = append(rt.closers, func() { _ = redisClient.Close() })
	}

	var loader memory.CatalogLoader
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		rt.closers = append(rt.closers, pool.Close)
		loader = postgres.NewCatalogLoader(pool)

		db := postgres.OpenBun(cfg.Postgres.URL)
		rt.closers = append(rt.closers, func() { _ = db.Close() })
		rt.snapshots = postgres.NewSnapshotLog(db)
	case cfg.Catalog.File != "":
		loader = memory.NewFileCatalogLoader(cfg.Catalog.File)
	default:
		loader = memory.NewStaticCatalogLoader(map[string]domain.Catalog{
			catalogID(cfg): domain.DefaultCatalog(),
		})
	}

	catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
	if redisClient != nil {
		rt.catalogs = infraredis.NewCatalogRepository(redisClient, loader, catalogTTL)
	} else {
		rt.catalogs = memory.NewCatalogRepository(loader, catalogTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		rt.liveness = infraredis.NewSessionStore(redisClient, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
		store = rt.liveness
	} else {
		store = memory.NewSessionStore()
	}

	rt.service = app.NewGuideService(store, rt.catalogs, catalogID(cfg), guideOptions(cfg), logger)
	return rt, nil
}

func guideOptions(cfg config.Config) app.Options {
	return app.Options{
		TickInterval:    config.TTLDuration(cfg.Guide.TickInterval, app.ProximityInterval),
		FeedbackDelay:   config.TTLDuration(cfg.Guide.FeedbackDelay, app.FeedbackDelay),
		HotspotDuration: config.TTLDuration(cfg.Guide.HotspotDuration, app.HotspotDuration),
		VoiceEnabled:    cfg.Guide.VoiceEnabled,
	}
}

func catalogID(cfg config.Config) string {
	if cfg.Catalog.ID == "" {
		return defaultCatalogID
	}
	return cfg.Catalog.ID
}
