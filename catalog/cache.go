package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/learnhub/session"
	"github.com/redis/go-redis/v9"
)

const (
	// CourseCacheTTL bounds how long a cached course survives without an edit.
	CourseCacheTTL = 7 * 24 * time.Hour

	courseCachePrefix  = "course"
	maxCachedCourseLen = 256 << 10
)

// CourseCache keeps public course documents in Redis under course:<id>.
type CourseCache struct {
	store *session.Store[Course]
}

// NewCourseCache returns a cache on rdb. A non-positive ttl uses
// CourseCacheTTL.
func NewCourseCache(rdb redis.UniversalClient, ttl time.Duration) *CourseCache {
	if ttl <= 0 {
		ttl = CourseCacheTTL
	}
	return &CourseCache{store: session.NewStore[Course](rdb, courseCachePrefix, ttl, maxCachedCourseLen)}
}

// Get returns the cached course and whether it was present.
func (c *CourseCache) Get(ctx context.Context, id string) (*Course, bool, error) {
	course, err := c.store.Get(ctx, id)
	switch {
	case err == nil:
		return course, true, nil
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrSnapshotCorrupt):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

func (c *CourseCache) Set(ctx context.Context, course *Course) error {
	return c.store.Put(ctx, course.ID, course)
}

func (c *CourseCache) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, id)
}
