package progress

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hasLevels(ids ...int) func(int) bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id int) bool { return set[id] }
}

func TestDefault(t *testing.T) {
	p := Default()
	assert.True(t, p.IsUnlocked(FirstLevelID))
	assert.False(t, p.IsUnlocked(2))
	assert.Empty(t, p.Stars)
	assert.Equal(t, FirstLevelID, p.LastLevel)
}

func TestIsUnlocked_FirstLevelImplicit(t *testing.T) {
	p := &Progress{Unlocked: map[int]bool{}, Stars: map[int]int{}, LastLevel: 1}
	assert.True(t, p.IsUnlocked(FirstLevelID), "level 1 is playable even if the stored set lost it")
}

func TestRecord_StoresAndUnlocksNext(t *testing.T) {
	p := Default()

	changed := p.Record(1, 2, hasLevels(1, 2, 3))

	assert.True(t, changed)
	assert.Equal(t, 2, p.Stars[1])
	assert.True(t, p.IsUnlocked(2))
	assert.False(t, p.IsUnlocked(3), "only the next sequential level unlocks")
}

func TestRecord_StrictImprovementOnly(t *testing.T) {
	p := Default()
	require.True(t, p.Record(1, 2, hasLevels(1, 2)))

	assert.False(t, p.Record(1, 2, hasLevels(1, 2)), "equal rating is not an improvement")
	assert.False(t, p.Record(1, 1, hasLevels(1, 2)))
	assert.Equal(t, 2, p.Stars[1])

	assert.True(t, p.Record(1, 3, hasLevels(1, 2)))
	assert.Equal(t, 3, p.Stars[1])
}

func TestRecord_LastLevelHasNoSuccessor(t *testing.T) {
	p := Default()

	changed := p.Record(4, 3, hasLevels(1, 2, 3, 4))

	assert.True(t, changed, "the rating still records")
	assert.False(t, p.IsUnlocked(5), "nothing unlocks past the catalog")
}

func TestRecord_RejectsOutOfRangeStars(t *testing.T) {
	p := Default()
	assert.False(t, p.Record(1, 0, hasLevels(1, 2)))
	assert.False(t, p.Record(1, 4, hasLevels(1, 2)))
	assert.Empty(t, p.Stars)
	assert.False(t, p.IsUnlocked(2))
}

func TestVisit(t *testing.T) {
	p := Default()
	p.Visit(3)
	assert.Equal(t, 3, p.LastLevel)
}

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "progress.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestStore_LoadFreshDatabaseIsDefault(t *testing.T) {
	store, _ := openTestStore(t)

	p := store.Load(context.Background())

	assert.True(t, p.IsUnlocked(FirstLevelID))
	assert.Empty(t, p.Stars)
	assert.Equal(t, FirstLevelID, p.LastLevel)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, path := openTestStore(t)

	p := Default()
	p.Record(1, 3, hasLevels(1, 2))
	p.Record(2, 1, hasLevels(1, 2))
	p.Visit(2)
	require.NoError(t, store.Save(ctx, p))

	got := store.Load(ctx)
	assert.Equal(t, map[int]int{1: 3, 2: 1}, got.Stars)
	assert.True(t, got.IsUnlocked(2))
	assert.Equal(t, 2, got.LastLevel)

	// The record survives a reopen.
	require.NoError(t, store.Close())
	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	again := reopened.Load(ctx)
	assert.Equal(t, got.Stars, again.Stars)
	assert.Equal(t, got.LastLevel, again.LastLevel)
}

func TestStore_SaveRewritesWholesale(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	p := Default()
	p.Record(1, 3, hasLevels(1, 2))
	require.NoError(t, store.Save(ctx, p))

	require.NoError(t, store.Save(ctx, Default()))

	got := store.Load(ctx)
	assert.Empty(t, got.Stars, "a later save fully replaces the earlier record")
	assert.False(t, got.IsUnlocked(2))
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	store, _ := openTestStore(t)

	p := Default()
	p.Record(1, 3, hasLevels(1, 2))
	p.Visit(2)
	require.NoError(t, store.Save(ctx, p))

	require.NoError(t, store.Clear(ctx))

	got := store.Load(ctx)
	assert.Empty(t, got.Stars)
	assert.Equal(t, FirstLevelID, got.LastLevel)
}

func TestStore_LoadFallsBackOnMalformedMeta(t *testing.T) {
	ctx := context.Background()
	store, path := openTestStore(t)

	p := Default()
	p.Record(1, 2, hasLevels(1, 2))
	require.NoError(t, store.Save(ctx, p))
	require.NoError(t, store.Close())

	// Corrupt the last-level marker out-of-band.
	raw, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = raw.Exec(`UPDATE meta SET value = 'garbage' WHERE key = 'last_level'`)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got := reopened.Load(ctx)
	assert.Empty(t, got.Stars, "a broken record yields the default, not a partial load")
	assert.Equal(t, FirstLevelID, got.LastLevel)
}

func TestStore_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}
