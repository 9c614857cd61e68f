package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	return store, mr
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	// Create test room data
	roomData := &RoomData{
		ID:    "table-1",
		State: "in_round",
		Round: 1,
		Players: []PlayerData{
			{ID: "p1", Nickname: "Alice", IsHost: true, Connected: true, HandCount: 29},
			{ID: "p2", Nickname: "Bob", Ready: true, Connected: true, HandCount: 30},
		},
		PlayerOrder: []string{"p1", "p2"},
		TurnOrder:   []string{"p1", "p2"},
		TurnIndex:   1,
		Table:       []CardData{{Top: 7, Bottom: 2}},
		Dealt:       90,
		CreatedAt:   time.Now().Unix(),
	}

	// Save
	require.NoError(t, store.SaveRoom(ctx, roomData.ID, roomData))
	assert.True(t, mr.Exists("room:table-1"))
	assert.Greater(t, mr.TTL("room:table-1"), time.Duration(0))

	// Load
	loaded, err := store.LoadRoom(ctx, roomData.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, roomData, loaded)

	ids, err := store.GetAllRoomIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"table-1"}, ids)

	// Delete
	require.NoError(t, store.DeleteRoom(ctx, roomData.ID))

	loaded, err = store.LoadRoom(ctx, roomData.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_SaveNil(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()

	assert.NoError(t, store.SaveRoom(context.Background(), "x", nil))
	assert.False(t, mr.Exists("room:x"))
}

func TestRedisStore_LoadCorrupted(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()

	require.NoError(t, mr.Set("room:bad", "{not json"))

	_, err := store.LoadRoom(context.Background(), "bad")
	assert.Error(t, err)
}

func TestRedisStore_Stats(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	defer mr.Close()
	ctx := context.Background()

	require.NoError(t, store.IncrStat(ctx, "p1", StatShows))
	require.NoError(t, store.IncrStat(ctx, "p1", StatShows))
	require.NoError(t, store.IncrStat(ctx, "p1", StatScouts))
	require.NoError(t, store.IncrStat(ctx, "p2", StatPasses))

	stats, err := store.GetStats(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{StatShows: 2, StatScouts: 1}, stats)

	global, err := store.GetGlobalStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{StatShows: 2, StatScouts: 1, StatPasses: 1}, global)

	empty, err := store.GetStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRedisStore_Disabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	for _, store := range []*RedisStore{nil, NewRedisStore(nil)} {
		assert.False(t, store.Enabled())
		assert.NoError(t, store.Ping(ctx))
		assert.NoError(t, store.SaveRoom(ctx, "r", &RoomData{ID: "r"}))
		assert.NoError(t, store.DeleteRoom(ctx, "r"))
		assert.NoError(t, store.IncrStat(ctx, "p1", StatShows))

		loaded, err := store.LoadRoom(ctx, "r")
		assert.NoError(t, err)
		assert.Nil(t, loaded)

		stats, err := store.GetStats(ctx, "p1")
		assert.NoError(t, err)
		assert.Empty(t, stats)

		assert.NoError(t, store.Close())
	}
}

func TestRedisStore_Ping(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
