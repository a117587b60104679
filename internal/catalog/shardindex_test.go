package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubShardReader struct {
	ids  map[string][]int64
	fail map[string]bool
}

func (s stubShardReader) ShardIDs(_ context.Context, group Group) ([]int64, error) {
	if s.fail[group.Key()] {
		return nil, errors.New("shard unreachable")
	}
	return s.ids[group.Key()], nil
}

func TestBuildShardIndexMergesAllShards(t *testing.T) {
	reader := stubShardReader{ids: map[string][]int64{
		"creams":    {1, 2},
		"serums":    {3},
		"lipsticks": {10, 11, 12},
	}}

	idx := BuildShardIndex(context.Background(), reader, nil)

	require.Equal(t, 6, idx.Len())
	g, ok := idx.GroupFor(3)
	require.True(t, ok)
	assert.Equal(t, "serums", g.Key())
	g, ok = idx.GroupFor(11)
	require.True(t, ok)
	assert.Equal(t, "lipsticks", g.Key())
}

func TestBuildShardIndexDuplicateIDKeepsFirstGroup(t *testing.T) {
	// A product id present in two shards is a configuration error; the index
	// must still resolve it to exactly one group, deterministically.
	reader := stubShardReader{ids: map[string][]int64{
		"creams": {7},
		"masks":  {7},
	}}

	idx := BuildShardIndex(context.Background(), reader, nil)

	require.Equal(t, 1, idx.Len())
	g, ok := idx.GroupFor(7)
	require.True(t, ok)
	assert.Equal(t, "creams", g.Key(), "enumeration order decides ties")
}

func TestBuildShardIndexDegradesOnShardFailure(t *testing.T) {
	reader := stubShardReader{
		ids:  map[string][]int64{"creams": {1}, "serums": {2}},
		fail: map[string]bool{"serums": true},
	}

	idx := BuildShardIndex(context.Background(), reader, nil)

	_, ok := idx.GroupFor(2)
	assert.False(t, ok, "failed shard is treated as empty")
	g, ok := idx.GroupFor(1)
	require.True(t, ok)
	assert.Equal(t, "creams", g.Key())
}

func TestGroupByKey(t *testing.T) {
	g, ok := GroupByKey("perfumes")
	require.True(t, ok)
	assert.Equal(t, "Perfumes", g.Label())

	_, ok = GroupByKey("nonexistent")
	assert.False(t, ok)
}
