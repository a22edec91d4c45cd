package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := OpenAndInit(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestPreferenceRoundTrip(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	value, err := database.GetPreference(ctx, "last_server")
	require.NoError(t, err)
	require.Empty(t, value)

	require.NoError(t, database.SetPreference(ctx, "last_server", "gehennas"))

	value, err = database.GetPreference(ctx, "last_server")
	require.NoError(t, err)
	require.Equal(t, "gehennas", value)
}

func TestPreferenceOverwrite(t *testing.T) {
	database := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, database.SetPreference(ctx, "last_faction", "alliance"))
	require.NoError(t, database.SetPreference(ctx, "last_faction", "horde"))

	value, err := database.GetPreference(ctx, "last_faction")
	require.NoError(t, err)
	require.Equal(t, "horde", value)
}

func TestSnapshotRoundTrip(t *testing.T) {
	database := openTestDB(t)
	store := NewSnapshotStore(database)
	ctx := context.Background()

	snap := craftcost.Snapshot{
		2589:  {Quantity: 120, MarketValue: 450},
		12359: {Quantity: 8, MarketValue: 31500, Faction: craftcost.FactionHorde},
	}
	require.NoError(t, store.Save(ctx, "gehennas", craftcost.FactionBoth, snap))

	loaded, fetchedAt, err := store.Load(ctx, "gehennas", craftcost.FactionBoth)
	require.NoError(t, err)
	require.Equal(t, snap, loaded)
	require.WithinDuration(t, time.Now().UTC(), fetchedAt, time.Minute)
}

func TestSnapshotLoadMissing(t *testing.T) {
	database := openTestDB(t)
	store := NewSnapshotStore(database)

	loaded, fetchedAt, err := store.Load(context.Background(), "nowhere", craftcost.FactionHorde)
	require.NoError(t, err)
	require.Nil(t, loaded)
	require.True(t, fetchedAt.IsZero())
}

func TestSnapshotSaveReplaces(t *testing.T) {
	database := openTestDB(t)
	store := NewSnapshotStore(database)
	ctx := context.Background()

	old := craftcost.Snapshot{1: {Quantity: 1, MarketValue: 10}, 2: {Quantity: 2, MarketValue: 20}}
	require.NoError(t, store.Save(ctx, "gehennas", craftcost.FactionHorde, old))

	fresh := craftcost.Snapshot{1: {Quantity: 9, MarketValue: 90}}
	require.NoError(t, store.Save(ctx, "gehennas", craftcost.FactionHorde, fresh))

	loaded, _, err := store.Load(ctx, "gehennas", craftcost.FactionHorde)
	require.NoError(t, err)
	require.Equal(t, fresh, loaded)
}

func TestSnapshotSaveIsolatedByKey(t *testing.T) {
	database := openTestDB(t)
	store := NewSnapshotStore(database)
	ctx := context.Background()

	horde := craftcost.Snapshot{1: {Quantity: 1, MarketValue: 10}}
	alliance := craftcost.Snapshot{1: {Quantity: 2, MarketValue: 20}}
	require.NoError(t, store.Save(ctx, "gehennas", craftcost.FactionHorde, horde))
	require.NoError(t, store.Save(ctx, "gehennas", craftcost.FactionAlliance, alliance))

	loaded, _, err := store.Load(ctx, "gehennas", craftcost.FactionHorde)
	require.NoError(t, err)
	require.Equal(t, horde, loaded)
}

func TestSnapshotPrune(t *testing.T) {
	database := openTestDB(t)
	store := NewSnapshotStore(database)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "gehennas", craftcost.FactionHorde,
		craftcost.Snapshot{1: {Quantity: 1, MarketValue: 10}}))

	// Backdate the row past the retention window.
	_, err := database.ExecContext(ctx,
		`UPDATE market_snapshots SET fetched_at = datetime('now', '-40 days')`)
	require.NoError(t, err)

	pruned, err := store.Prune(ctx, 30)
	require.NoError(t, err)
	require.Equal(t, int64(1), pruned)

	loaded, _, err := store.Load(ctx, "gehennas", craftcost.FactionHorde)
	require.NoError(t, err)
	require.Nil(t, loaded)
}
