package room

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/scout/internal/apperrors"
	"github.com/palemoky/scout/internal/game/card"
	"github.com/palemoky/scout/internal/game/rule"
	"github.com/palemoky/scout/internal/server/storage"
)

func newTestManager(t *testing.T, opts ManagerOptions) *RoomManager {
	t.Helper()
	if opts.Emitter == nil {
		opts.Emitter = &RecordingEmitter{}
	}
	opts.Rules = rule.DefaultRuleset()
	rm := NewRoomManager(opts)
	t.Cleanup(rm.Close)
	return rm
}

func newMiniredisStore(t *testing.T) (*storage.RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return storage.NewRedisStore(client), mr
}

func TestRoomManager_JoinCreatesRoom(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t, ManagerOptions{})
	assert.Equal(t, 0, rm.RoomCount())
	assert.Nil(t, rm.GetRoom("r1"))

	room, err := rm.Join("r1", "p1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "r1", room.ID)
	assert.Same(t, room, rm.GetRoom("r1"))
	assert.Same(t, room, rm.GetOrCreate("r1"))
	assert.Equal(t, 1, rm.RoomCount())

	_, err = rm.Join("r1", "p2", "Bob")
	require.NoError(t, err)
	assert.Same(t, room, rm.GetRoomByPlayerID("p2"))
	assert.Nil(t, rm.GetRoomByPlayerID("ghost"))
}

func TestRoomManager_MaxPlayers(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t, ManagerOptions{MaxPlayers: 2})
	_, err := rm.Join("r1", "p1", "a")
	require.NoError(t, err)
	_, err = rm.Join("r1", "p2", "b")
	require.NoError(t, err)

	_, err = rm.Join("r1", "p3", "c")
	assert.ErrorIs(t, err, apperrors.ErrRoomFull)
}

func TestRoomManager_UnknownRoom(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t, ManagerOptions{})

	tests := []struct {
		name string
		op   func() error
	}{
		{"toggle_ready", func() error { return rm.ToggleReady("nope", "p1") }},
		{"start_round", func() error { return rm.StartRound("nope", "p1") }},
		{"show", func() error { return rm.Show("nope", "p1", []card.Card{{Top: 1, Bottom: 2}}) }},
		{"scout", func() error { return rm.Scout("nope", "p1", SideTop) }},
		{"pass", func() error { return rm.Pass("nope", "p1") }},
		{"disconnect", func() error { return rm.Disconnect("nope", "p1") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.op()
			assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
			assert.True(t, apperrors.IsSilent(err))
		})
	}

	assert.Equal(t, 0, rm.RoomCount(), "unknown rooms are never created by actions")
}

func TestRoomManager_RoundFlow(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t, ManagerOptions{})
	room, err := rm.Join("r1", "p1", "a")
	require.NoError(t, err)
	_, err = rm.Join("r1", "p2", "b")
	require.NoError(t, err)

	assert.Equal(t, 0, rm.GetActiveGamesCount())
	require.NoError(t, rm.ToggleReady("r1", "p2"))
	require.NoError(t, rm.StartRound("r1", "p1"))
	assert.Equal(t, 1, rm.GetActiveGamesCount())

	hand := room.HandOf("p1")
	require.NoError(t, rm.Show("r1", "p1", hand[:1]))
	assert.Equal(t, hand[:1], room.TableCards())

	require.NoError(t, rm.Scout("r1", "p2", SideBottom))
	assert.Empty(t, room.TableCards())

	assert.ErrorIs(t, rm.Pass("r1", "p2"), apperrors.ErrNotYourTurn)
	require.NoError(t, rm.Pass("r1", "p1"))
	assert.Equal(t, room.Dealt, room.CardCount())

	require.NoError(t, rm.Disconnect("r1", "p2"))
	assert.Equal(t, "p1", room.ActivePlayer())
}

func TestRoomManager_PersistsSnapshotsAndStats(t *testing.T) {
	t.Parallel()

	store, mr := newMiniredisStore(t)
	rm := newTestManager(t, ManagerOptions{Store: store})

	_, err := rm.Join("r1", "p1", "a")
	require.NoError(t, err)
	_, err = rm.Join("r1", "p2", "b")
	require.NoError(t, err)
	require.NoError(t, rm.ToggleReady("r1", "p2"))
	require.NoError(t, rm.StartRound("r1", "p1"))
	require.NoError(t, rm.Pass("r1", "p1"))

	assert.Eventually(t, func() bool {
		return mr.Exists("room:r1")
	}, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		rounds := mr.HGet("stats:p1", storage.StatRounds) == "1" && mr.HGet("stats:p2", storage.StatRounds) == "1"
		return rounds && mr.HGet("stats:p1", storage.StatPasses) == "1"
	}, time.Second, 10*time.Millisecond)

	// Rejected moves are not counted
	assert.ErrorIs(t, rm.Pass("r1", "p1"), apperrors.ErrNotYourTurn)
	assert.Never(t, func() bool {
		return mr.HGet("stats:p1", storage.StatPasses) != "1"
	}, 100*time.Millisecond, 10*time.Millisecond)
}

func TestRoomManager_Cleanup(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t, ManagerOptions{IdleTimeout: time.Hour})

	_, err := rm.Join("empty", "p1", "a")
	require.NoError(t, err)
	require.NoError(t, rm.Disconnect("empty", "p1"))

	_, err = rm.Join("busy", "p2", "b")
	require.NoError(t, err)

	rm.cleanup(time.Now().Add(30 * time.Minute))
	assert.Equal(t, 2, rm.RoomCount(), "not idle long enough")

	rm.cleanup(time.Now().Add(2 * time.Hour))
	assert.Nil(t, rm.GetRoom("empty"))
	assert.NotNil(t, rm.GetRoom("busy"))
}

func TestRoomManager_CleanupSkipsRoomRejoinedAfterScan(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t, ManagerOptions{IdleTimeout: time.Hour})
	room, err := rm.Join("r1", "p1", "a")
	require.NoError(t, err)
	require.NoError(t, rm.Disconnect("r1", "p1"))

	now := time.Now().Add(2 * time.Hour)
	require.Greater(t, room.IdleFor(now), time.Hour)

	// the player comes back between the idle scan and the removal
	_, err = rm.Join("r1", "p1", "a")
	require.NoError(t, err)

	removed := rm.removeIdle([]*Room{room}, now)
	assert.Empty(t, removed)
	assert.Same(t, room, rm.GetRoom("r1"))
	assert.NoError(t, rm.ToggleReady("r1", "p1"))
}

func TestRoomManager_JoinAfterCleanupCreatesFreshRoom(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t, ManagerOptions{IdleTimeout: time.Hour})
	old, err := rm.Join("r1", "p1", "a")
	require.NoError(t, err)
	require.NoError(t, rm.Disconnect("r1", "p1"))

	rm.cleanup(time.Now().Add(2 * time.Hour))
	require.Nil(t, rm.GetRoom("r1"))

	room, err := rm.Join("r1", "p1", "a")
	require.NoError(t, err)
	assert.NotSame(t, old, room)
	assert.Same(t, room, rm.GetRoom("r1"))
}

func TestRoomManager_ActiveGamesIgnoreAbandonedRounds(t *testing.T) {
	t.Parallel()

	rm := newTestManager(t, ManagerOptions{})
	_, err := rm.Join("r1", "p1", "a")
	require.NoError(t, err)
	_, err = rm.Join("r1", "p2", "b")
	require.NoError(t, err)
	require.NoError(t, rm.ToggleReady("r1", "p2"))
	require.NoError(t, rm.StartRound("r1", "p1"))
	require.Equal(t, 1, rm.GetActiveGamesCount())

	require.NoError(t, rm.Disconnect("r1", "p1"))
	assert.Equal(t, 1, rm.GetActiveGamesCount(), "p2 is still playing")

	require.NoError(t, rm.Disconnect("r1", "p2"))
	assert.Equal(t, 0, rm.GetActiveGamesCount())
	assert.Equal(t, RoomStateInRound, rm.GetRoom("r1").State)

	_, err = rm.Join("r1", "p2", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, rm.GetActiveGamesCount())
}

func TestRoomManager_RoomsGetOwnRandomSource(t *testing.T) {
	t.Parallel()

	deal := func(seed uint64) [][]card.Card {
		rm := newTestManager(t, ManagerOptions{Rand: rand.New(rand.NewPCG(seed, seed))})

		ids := []string{"r1", "r2", "r3", "r4"}
		for _, id := range ids {
			_, err := rm.Join(id, "p1", "a")
			require.NoError(t, err)
			_, err = rm.Join(id, "p2", "b")
			require.NoError(t, err)
			require.NoError(t, rm.ToggleReady(id, "p2"))
		}
		assert.NotSame(t, rm.GetRoom("r1").rng, rm.GetRoom("r2").rng)

		var wg sync.WaitGroup
		for _, id := range ids {
			wg.Go(func() {
				assert.NoError(t, rm.StartRound(id, "p1"))
			})
		}
		wg.Wait()

		hands := make([][]card.Card, 0, len(ids))
		for _, id := range ids {
			hands = append(hands, rm.GetRoom(id).HandOf("p1"))
		}
		return hands
	}

	// same seed, same creation order: every room deals identically
	assert.Equal(t, deal(7), deal(7))
}

func TestRoomManager_CloseIdempotent(t *testing.T) {
	t.Parallel()

	rm := NewRoomManager(ManagerOptions{IdleTimeout: time.Minute})
	assert.NotPanics(t, func() {
		rm.Close()
		rm.Close()
	})
}
