// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"recipe_backend/internal/feature/recipes/domain/entity"
	"recipe_backend/internal/feature/recipes/usecase"
)

// RecipeStore is the full surface the decorator wraps: the repository the
// recipe usecase consumes plus the visibility check the comments usecase
// consumes.
type RecipeStore interface {
	usecase.RecipeRepository
	ExistsVisible(ctx context.Context, recipeID uint) (bool, error)
}

// cachedList is the serialized form of one cached list page.
type cachedList struct {
	Recipes []entity.Recipe `json:"recipes"`
	Total   int64           `json:"total"`
}

// CachingRecipeRepository decorates a RecipeStore with Redis caching.
// It implements the decorator pattern, transparently adding caching without
// modifying the underlying repository. Reads are cached; every write
// invalidates the whole namespace, since list pages depend on filters that
// cannot be mapped back to a single recipe.
type CachingRecipeRepository struct {
	inner     RecipeStore
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

// CachingRecipeRepositoryがRecipeStoreを実装していることをコンパイル時に検証します。
var _ RecipeStore = (*CachingRecipeRepository)(nil)

// NewCachingRecipeRepository decorates a RecipeStore with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "recipes".
func NewCachingRecipeRepository(rdb *redis.Client, ttl time.Duration, inner RecipeStore, namespace string) *CachingRecipeRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "recipes"
	}
	return &CachingRecipeRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create persists the recipe and invalidates cached pages.
func (c *CachingRecipeRepository) Create(ctx context.Context, recipe *entity.Recipe) error {
	if err := c.inner.Create(ctx, recipe); err != nil {
		return err
	}
	c.invalidateAll(ctx)
	return nil
}

// Update persists the recipe and invalidates cached pages.
func (c *CachingRecipeRepository) Update(ctx context.Context, recipe *entity.Recipe, replaceIngredients, replaceInstructions bool) error {
	if err := c.inner.Update(ctx, recipe, replaceIngredients, replaceInstructions); err != nil {
		return err
	}
	c.invalidateAll(ctx)
	return nil
}

// FindByID retrieves a recipe, checking cache first then falling back to the database.
func (c *CachingRecipeRepository) FindByID(ctx context.Context, id uint) (*entity.Recipe, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.detailKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.Recipe
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// List retrieves a filtered page, checking cache first then falling back to the database.
func (c *CachingRecipeRepository) List(ctx context.Context, filter usecase.ListFilter) ([]entity.Recipe, int64, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, filter)
	}

	key := c.listKey(filter)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out cachedList
		if err := json.Unmarshal(b, &out); err == nil {
			return out.Recipes, out.Total, nil
		}
		_ = c.rdb.Del(ctx, key).Err()
	}

	recipes, total, err := c.inner.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if b, err := json.Marshal(cachedList{Recipes: recipes, Total: total}); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return recipes, total, nil
}

// ExistsByName is never cached: it backs the duplicate-name check and must
// see the latest writes.
func (c *CachingRecipeRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	return c.inner.ExistsByName(ctx, name, excludeID)
}

// ExistsVisible is never cached for the same reason as ExistsByName.
func (c *CachingRecipeRepository) ExistsVisible(ctx context.Context, recipeID uint) (bool, error) {
	return c.inner.ExistsVisible(ctx, recipeID)
}

// SoftDelete archives the recipe and invalidates cached pages.
func (c *CachingRecipeRepository) SoftDelete(ctx context.Context, id uint) error {
	if err := c.inner.SoftDelete(ctx, id); err != nil {
		return err
	}
	c.invalidateAll(ctx)
	return nil
}

// detailKey generates the cache key for one recipe detail.
func (c *CachingRecipeRepository) detailKey(id uint) string {
	return fmt.Sprintf("%s:detail:%d", c.namespace, id)
}

// listKey generates the cache key for one filtered list page.
func (c *CachingRecipeRepository) listKey(f usecase.ListFilter) string {
	return fmt.Sprintf("%s:list:%s:%s:%s:%s:%s:%d:%d:%s:%d",
		c.namespace,
		safe(f.Search),
		safe(f.CourseType),
		safe(f.RecipeType),
		safe(f.PrimaryProtein),
		safe(f.EthnicStyle),
		f.UploadedBy,
		f.MinServings,
		safe(f.TimeNeeded),
		f.Page,
	)
}

// invalidateAll drops every cached entry in the namespace.
func (c *CachingRecipeRepository) invalidateAll(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	_ = c.deleteByPattern(ctx, c.namespace+":*") // Best effort: don't fail if cache deletion fails
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingRecipeRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
