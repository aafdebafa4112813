package repository

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/course-admin-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var out []string
	assert.ErrorIs(t, repo.Get(ctx, "terms:list", &out), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "terms:list", []string{"2024-1"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "terms:*"))
	assert.NoError(t, repo.Close())
}

func TestCacheRepositoryWrapsTransportErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	repo := NewCacheRepository(client, nil)
	defer repo.Close()
	ctx := context.Background()

	var out []string
	err := repo.Get(ctx, "terms:list", &out)
	require.Error(t, err)
	assert.NotErrorIs(t, err, appErrors.ErrCacheMiss)
	assert.Contains(t, err.Error(), "redis get terms:list")

	err = repo.Set(ctx, "terms:list", []string{"2024-1"}, time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis set terms:list")
}

func TestCacheRepositoryRejectsUnencodableValues(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	repo := NewCacheRepository(client, nil)
	defer repo.Close()

	err := repo.Set(context.Background(), "bad", make(chan int), time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal cache value for bad")
}

func TestNamespacedKeys(t *testing.T) {
	assert.Equal(t, "course-admin:terms:list", namespaced("terms:list"))
}
