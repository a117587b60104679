package catalog

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ShardIndex maps product ids to the catalog group that owns them. It is
// rebuilt per report request; group assignment can change between requests.
type ShardIndex struct {
	groups map[int64]Group
}

// GroupFor resolves the owning group for a product id.
func (idx ShardIndex) GroupFor(productID int64) (Group, bool) {
	g, ok := idx.groups[productID]
	return g, ok
}

// Len returns the number of indexed product ids.
func (idx ShardIndex) Len() int { return len(idx.groups) }

// BuildShardIndex scans every shard concurrently and merges the results into
// a single id-to-group map. A failed shard read is logged and treated as an
// empty shard so a single unreachable table degrades the report instead of
// failing it. If an id were ever present in two shards the first group in
// enumeration order wins; the merge is sequential so the outcome is stable.
func BuildShardIndex(ctx context.Context, reader ShardReader, logger *slog.Logger) ShardIndex {
	results := make([][]int64, len(Groups))

	g, gctx := errgroup.WithContext(ctx)
	for i, group := range Groups {
		g.Go(func() error {
			ids, err := reader.ShardIDs(gctx, group)
			if err != nil {
				if logger != nil {
					logger.Warn("catalog shard scan failed",
						slog.String("group", group.Key()),
						slog.Any("error", err))
				}
				return nil
			}
			results[i] = ids
			return nil
		})
	}
	_ = g.Wait()

	index := make(map[int64]Group)
	for i, group := range Groups {
		for _, id := range results[i] {
			if _, exists := index[id]; !exists {
				index[id] = group
			}
		}
	}
	return ShardIndex{groups: index}
}
