package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/wowcraft/craftcost-server/internal/craftcost/db"
	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

// Fetcher fetches a single-faction snapshot. Implemented by Client.
type Fetcher interface {
	FetchPrices(ctx context.Context, server string, faction craftcost.Faction) (craftcost.Snapshot, error)
}

// Loader serves snapshots keyed by (server, faction), with a TTL cache and
// at most one outstanding fetch per key. When the upstream API fails and a
// persisted snapshot exists, the persisted one is served instead.
type Loader struct {
	fetcher Fetcher
	store   *db.SnapshotStore // optional fallback/persistence
	cache   *gocache.Cache
	group   singleflight.Group
	logger  *slog.Logger
}

// NewLoader creates a Loader. store may be nil to disable persistence.
func NewLoader(fetcher Fetcher, store *db.SnapshotStore, ttl time.Duration, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		fetcher: fetcher,
		store:   store,
		cache:   gocache.New(ttl, 2*ttl),
		logger:  logger,
	}
}

// Load returns the snapshot for (server, faction), fetching it if needed.
// Faction "both" is synthesized from concurrent alliance and horde loads
// merged with MergeFactions; the merge only runs once both sides complete.
func (l *Loader) Load(ctx context.Context, server string, faction craftcost.Faction) (craftcost.Snapshot, error) {
	key := fmt.Sprintf("%s-%s", server, faction)
	if cached, ok := l.cache.Get(key); ok {
		return cached.(craftcost.Snapshot), nil
	}

	snap, err, _ := l.group.Do(key, func() (any, error) {
		snap, err := l.load(ctx, server, faction)
		if err != nil {
			return nil, err
		}
		l.cache.Set(key, snap, gocache.DefaultExpiration)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}

	return snap.(craftcost.Snapshot), nil
}

func (l *Loader) load(ctx context.Context, server string, faction craftcost.Faction) (craftcost.Snapshot, error) {
	if faction == craftcost.FactionBoth {
		var alliance, horde craftcost.Snapshot
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			alliance, err = l.Load(gctx, server, craftcost.FactionAlliance)
			return err
		})
		g.Go(func() error {
			var err error
			horde, err = l.Load(gctx, server, craftcost.FactionHorde)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return MergeFactions(alliance, horde), nil
	}

	snap, err := l.fetcher.FetchPrices(ctx, server, faction)
	if err != nil {
		if stored, fetchedAt, loadErr := l.loadStored(ctx, server, faction); loadErr == nil && stored != nil {
			l.logger.Warn("price fetch failed, using stored snapshot",
				"server", server, "faction", faction,
				"fetched_at", fetchedAt, "error", err)
			return stored, nil
		}
		return nil, err
	}

	if l.store != nil {
		if saveErr := l.store.Save(ctx, server, faction, snap); saveErr != nil {
			l.logger.Warn("failed to persist snapshot",
				"server", server, "faction", faction, "error", saveErr)
		}
	}

	return snap, nil
}

func (l *Loader) loadStored(ctx context.Context, server string, faction craftcost.Faction) (craftcost.Snapshot, time.Time, error) {
	if l.store == nil {
		return nil, time.Time{}, nil
	}
	return l.store.Load(ctx, server, faction)
}
