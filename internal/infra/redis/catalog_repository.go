package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"holo-museum-guide/internal/domain"
	"holo-museum-guide/internal/infra/memory"
)

// CatalogRepository caches catalogs in Redis and falls back to a loader on cache miss.
// Artifacts are stored as:   HSET catalog:{catalogID}:artifacts {key} {artifact JSON}
// Display order is kept as:  RPUSH catalog:{catalogID}:order {key}...
type CatalogRepository struct {
	client *redis.Client
	loader memory.CatalogLoader
	ttl    time.Duration
	sf     singleflight.Group

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader memory.CatalogLoader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetCatalog(ctx context.Context, catalogID string) (domain.Catalog, error) {
	if catalog, ok := r.fromCache(ctx, catalogID); ok {
		return catalog, nil
	}

	result, err, _ := r.sf.Do(catalogID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if catalog, ok := r.fromCache(ctx, catalogID); ok {
			return catalog, nil
		}

		catalog, err := r.loader.LoadCatalog(ctx, catalogID)
		if err != nil {
			return domain.Catalog{}, err
		}
		if err := catalog.Validate(); err != nil {
			return domain.Catalog{}, err
		}
		if err := r.store(ctx, catalogID, catalog); err != nil {
			return domain.Catalog{}, err
		}
		return catalog, nil
	})
	if err != nil {
		return domain.Catalog{}, err
	}
	return result.(domain.Catalog), nil
}

// Invalidate drops the cached copy so the next read goes to the loader.
func (r *CatalogRepository) Invalidate(ctx context.Context, catalogID string) error {
	return r.client.Del(ctx, r.artifactsKey(catalogID), r.orderKey(catalogID)).Err()
}

func (r *CatalogRepository) fromCache(ctx context.Context, catalogID string) (domain.Catalog, bool) {
	order, err := r.client.LRange(ctx, r.orderKey(catalogID), 0, -1).Result()
	if err != nil || len(order) == 0 {
		return domain.Catalog{}, false
	}
	raw, err := r.client.HGetAll(ctx, r.artifactsKey(catalogID)).Result()
	if err != nil {
		return domain.Catalog{}, false
	}

	catalog := domain.Catalog{Artifacts: make([]domain.Artifact, 0, len(order))}
	for _, key := range order {
		data, ok := raw[key]
		if !ok {
			return domain.Catalog{}, false
		}
		var artifact domain.Artifact
		if err := json.Unmarshal([]byte(data), &artifact); err != nil {
			return domain.Catalog{}, false
		}
		catalog.Artifacts = append(catalog.Artifacts, artifact)
	}
	return catalog, true
}

func (r *CatalogRepository) store(ctx context.Context, catalogID string, catalog domain.Catalog) error {
	artifactsKey := r.artifactsKey(catalogID)
	orderKey := r.orderKey(catalogID)

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, artifactsKey, orderKey)
	for _, a := range catalog.Artifacts {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshal artifact %q: %w", a.Key, err)
		}
		pipe.HSet(ctx, artifactsKey, a.Key, data)
		pipe.RPush(ctx, orderKey, a.Key)
	}
	if ttl := r.ttlWithJitter(); ttl > 0 {
		pipe.Expire(ctx, artifactsKey, ttl)
		pipe.Expire(ctx, orderKey, ttl)
	}
	// Cache fill is best effort; the loaded catalog is still served.
	_, _ = pipe.Exec(ctx)
	return nil
}

func (r *CatalogRepository) artifactsKey(catalogID string) string {
	return "catalog:" + catalogID + ":artifacts"
}

func (r *CatalogRepository) orderKey(catalogID string) string {
	return "catalog:" + catalogID + ":order"
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
