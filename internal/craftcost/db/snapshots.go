package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

// SnapshotStore persists market snapshots per (server, faction) so the server
// can keep pricing from the last known data when the upstream API is down.
type SnapshotStore struct {
	db *DB
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Save replaces the stored snapshot for (server, faction).
func (s *SnapshotStore) Save(ctx context.Context, server string, faction craftcost.Faction, snap craftcost.Snapshot) error {
	fetchedAt := time.Now().UTC().Format(time.RFC3339)

	return s.db.InTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM market_snapshots WHERE server = ? AND faction = ?`,
			server, string(faction),
		); err != nil {
			return fmt.Errorf("clearing old snapshot: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO market_snapshots
			(server, faction, item_id, quantity, market_value, won_faction, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing snapshot statement: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for itemID, entry := range snap {
			_, err := stmt.ExecContext(ctx,
				server, string(faction), itemID,
				entry.Quantity, entry.MarketValue, string(entry.Faction), fetchedAt,
			)
			if err != nil {
				return fmt.Errorf("inserting snapshot row for item %d: %w", itemID, err)
			}
		}

		return nil
	})
}

// Load returns the stored snapshot for (server, faction) and the time it was
// fetched. Returns a nil snapshot when none is stored.
func (s *SnapshotStore) Load(ctx context.Context, server string, faction craftcost.Faction) (craftcost.Snapshot, time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_id, quantity, market_value, won_faction, fetched_at
		FROM market_snapshots
		WHERE server = ? AND faction = ?
	`, server, string(faction))
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("querying snapshot: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		snap      craftcost.Snapshot
		fetchedAt time.Time
	)
	for rows.Next() {
		var (
			itemID     int
			entry      craftcost.MarketEntry
			wonFaction string
			fetched    string
		)
		if err := rows.Scan(&itemID, &entry.Quantity, &entry.MarketValue, &wonFaction, &fetched); err != nil {
			return nil, time.Time{}, fmt.Errorf("scanning snapshot row: %w", err)
		}
		entry.Faction = craftcost.Faction(wonFaction)
		if snap == nil {
			snap = make(craftcost.Snapshot)
			if t, err := time.Parse(time.RFC3339, fetched); err == nil {
				fetchedAt = t
			}
		}
		snap[itemID] = entry
	}

	return snap, fetchedAt, rows.Err()
}

// Prune removes snapshots fetched more than olderThanDays ago.
func (s *SnapshotStore) Prune(ctx context.Context, olderThanDays int) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM market_snapshots
		WHERE fetched_at < datetime('now', ?)
	`, fmt.Sprintf("-%d days", olderThanDays))
	if err != nil {
		return 0, fmt.Errorf("pruning snapshots: %w", err)
	}
	return result.RowsAffected()
}
