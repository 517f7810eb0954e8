package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openclass-labs/exam-engine/internal/cache"
	"github.com/openclass-labs/exam-engine/internal/utils"
)

// rosterTTL keeps roster reads cheap during a live exam window without
// holding on to stale enrollment for long.
const rosterTTL = 5 * time.Minute

type cachedProvider struct {
	next   Provider
	cache  cache.CacheService
	logger utils.Logger
}

// NewCachedProvider wraps a Provider with a redis-backed read-through cache.
// Cache failures degrade to the underlying provider, never to a denial.
func NewCachedProvider(next Provider, cacheService cache.CacheService, logger utils.Logger) Provider {
	return &cachedProvider{
		next:   next,
		cache:  cacheService,
		logger: logger,
	}
}

func (p *cachedProvider) IsEnrolled(ctx context.Context, studentID string, courseID uint) (bool, error) {
	key := fmt.Sprintf("enrollment:%d:%s", courseID, studentID)

	var enrolled bool
	if err := p.cache.Get(ctx, key, &enrolled); err == nil {
		return enrolled, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		p.logger.Warn("Enrollment cache read failed", "key", key, "error", err)
	}

	enrolled, err := p.next.IsEnrolled(ctx, studentID, courseID)
	if err != nil {
		return false, err
	}

	if err := p.cache.Set(ctx, key, enrolled, rosterTTL); err != nil {
		p.logger.Warn("Enrollment cache write failed", "key", key, "error", err)
	}
	return enrolled, nil
}

func (p *cachedProvider) ListRoster(ctx context.Context, courseID uint) ([]RosterEntry, error) {
	key := fmt.Sprintf("roster:%d", courseID)

	var roster []RosterEntry
	if err := p.cache.Get(ctx, key, &roster); err == nil {
		return roster, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		p.logger.Warn("Roster cache read failed", "key", key, "error", err)
	}

	roster, err := p.next.ListRoster(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, roster, rosterTTL); err != nil {
		p.logger.Warn("Roster cache write failed", "key", key, "error", err)
	}
	return roster, nil
}
