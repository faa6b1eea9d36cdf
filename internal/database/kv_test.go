package database_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/justsurfingit/JobConnect/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store database.KVStore) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "[]"))
	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v, "an empty list is still a present record")

	require.NoError(t, store.Set(ctx, "k", `[{"id":"1"}]`))
	v, _, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting an absent key is fine
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, database.NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := database.NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	store := database.NewRedisStore(client, "jobconnect:")
	exerciseStore(t, store)

	require.NoError(t, store.Set(context.Background(), "job_app_user", `{"phone":"1"}`))
	assert.True(t, mr.Exists("jobconnect:job_app_user"))
}

func TestNewRedisClient_BadURL(t *testing.T) {
	_, err := database.NewRedisClient(context.Background(), "not-a-url://")
	assert.Error(t, err)
}
