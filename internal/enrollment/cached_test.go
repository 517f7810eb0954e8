package enrollment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/openclass-labs/exam-engine/internal/cache"
	"github.com/openclass-labs/exam-engine/internal/utils"
	"github.com/stretchr/testify/assert"
)

// memoryCache is a minimal in-memory CacheService for tests.
type memoryCache struct {
	values map[string][]byte
	getErr error
	setErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string][]byte)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = data
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	data, ok := c.values[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	delete(c.values, key)
	return nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) error {
	return nil
}

// countingProvider tracks how often the underlying provider is consulted.
type countingProvider struct {
	enrolled    bool
	roster      []RosterEntry
	err         error
	isEnrolled  int
	listRosters int
}

func (p *countingProvider) IsEnrolled(ctx context.Context, studentID string, courseID uint) (bool, error) {
	p.isEnrolled++
	return p.enrolled, p.err
}

func (p *countingProvider) ListRoster(ctx context.Context, courseID uint) ([]RosterEntry, error) {
	p.listRosters++
	return p.roster, p.err
}

func TestCachedProvider_IsEnrolled(t *testing.T) {
	ctx := context.Background()
	logger := utils.NewDevelopmentLogger()

	t.Run("second lookup served from cache", func(t *testing.T) {
		next := &countingProvider{enrolled: true}
		provider := NewCachedProvider(next, newMemoryCache(), logger)

		for i := 0; i < 3; i++ {
			enrolled, err := provider.IsEnrolled(ctx, "student-1", 7)
			assert.NoError(t, err)
			assert.True(t, enrolled)
		}

		assert.Equal(t, 1, next.isEnrolled)
	})

	t.Run("negative answers are cached too", func(t *testing.T) {
		next := &countingProvider{enrolled: false}
		provider := NewCachedProvider(next, newMemoryCache(), logger)

		enrolled, err := provider.IsEnrolled(ctx, "student-1", 7)
		assert.NoError(t, err)
		assert.False(t, enrolled)

		enrolled, err = provider.IsEnrolled(ctx, "student-1", 7)
		assert.NoError(t, err)
		assert.False(t, enrolled)
		assert.Equal(t, 1, next.isEnrolled)
	})

	t.Run("cache failure degrades to the underlying provider", func(t *testing.T) {
		next := &countingProvider{enrolled: true}
		broken := newMemoryCache()
		broken.getErr = errors.New("connection refused")
		broken.setErr = errors.New("connection refused")
		provider := NewCachedProvider(next, broken, logger)

		enrolled, err := provider.IsEnrolled(ctx, "student-1", 7)
		assert.NoError(t, err)
		assert.True(t, enrolled)
		assert.Equal(t, 1, next.isEnrolled)
	})

	t.Run("provider error propagates", func(t *testing.T) {
		next := &countingProvider{err: errors.New("course service unavailable")}
		provider := NewCachedProvider(next, newMemoryCache(), logger)

		_, err := provider.IsEnrolled(ctx, "student-1", 7)
		assert.Error(t, err)
	})
}

func TestCachedProvider_ListRoster(t *testing.T) {
	ctx := context.Background()
	logger := utils.NewDevelopmentLogger()

	roster := []RosterEntry{
		{StudentID: "alice", Name: "Alice", Email: "alice@example.edu"},
		{StudentID: "bob", Name: "Bob", Email: "bob@example.edu"},
	}

	next := &countingProvider{roster: roster}
	provider := NewCachedProvider(next, newMemoryCache(), logger)

	got, err := provider.ListRoster(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, roster, got)

	got, err = provider.ListRoster(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, roster, got)
	assert.Equal(t, 1, next.listRosters)
}

func TestHTTPProvider_IsEnrolled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/courses/7/enrollments/alice":
			w.WriteHeader(http.StatusOK)
		case "/api/v1/courses/7/enrollments/bob":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL)
	ctx := context.Background()

	enrolled, err := provider.IsEnrolled(ctx, "alice", 7)
	assert.NoError(t, err)
	assert.True(t, enrolled)

	enrolled, err = provider.IsEnrolled(ctx, "bob", 7)
	assert.NoError(t, err)
	assert.False(t, enrolled)

	_, err = provider.IsEnrolled(ctx, "carol", 8)
	assert.Error(t, err)
}

func TestHTTPProvider_ListRoster(t *testing.T) {
	roster := []RosterEntry{
		{StudentID: "alice", Name: "Alice", Email: "alice@example.edu"},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/courses/7/roster", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(roster)
	}))
	defer server.Close()

	provider := NewHTTPProvider(server.URL)

	got, err := provider.ListRoster(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, roster, got)
}
