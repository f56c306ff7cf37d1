package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/manifest-destiny/mapgrid/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCatalog(t *testing.T) *Catalog {
	c, err := Open(filepath.Join(t.TempDir(), "mapgrid.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func makeTestGrid(t *testing.T, seed uint16) *grid.Grid {
	g, err := grid.New(4, 3, grid.NumBands)
	require.NoError(t, err)
	for i := range g.Values() {
		g.Values()[i] = seed + uint16(i)
	}
	return g
}

func TestPutGet(t *testing.T) {
	c := openTestCatalog(t)
	g := makeTestGrid(t, 1)

	require.NoError(t, c.Put("usa", g))

	out, err := c.Get("usa")
	require.NoError(t, err)
	assert.True(t, g.Equal(out))

	_, err = c.Get("mars")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.Error(t, c.Put("", g))
}

func TestDedupe(t *testing.T) {
	c := openTestCatalog(t)
	g := makeTestGrid(t, 1)

	require.NoError(t, c.Put("a", g))
	require.NoError(t, c.Put("b", g))
	require.NoError(t, c.Put("c", makeTestGrid(t, 2)))

	entries, err := c.List()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{entries[0].Name, entries[1].Name, entries[2].Name})
	assert.Equal(t, entries[0].SHA1, entries[1].SHA1)
	assert.NotEqual(t, entries[0].SHA1, entries[2].SHA1)
	assert.Equal(t, Entry{Name: "c", SHA1: entries[2].SHA1, Width: 4, Height: 3, Bands: grid.NumBands}, entries[2])

	var grids int
	require.NoError(t, c.db.QueryRow("SELECT COUNT(*) FROM grid").Scan(&grids))
	assert.Equal(t, 2, grids)
}

func TestReplaceAndDelete(t *testing.T) {
	c := openTestCatalog(t)

	require.NoError(t, c.Put("a", makeTestGrid(t, 1)))
	require.NoError(t, c.Put("a", makeTestGrid(t, 2)))

	out, err := c.Get("a")
	require.NoError(t, err)
	assert.True(t, makeTestGrid(t, 2).Equal(out))

	var grids int
	require.NoError(t, c.db.QueryRow("SELECT COUNT(*) FROM grid").Scan(&grids))
	assert.Equal(t, 1, grids)

	require.NoError(t, c.Delete("a"))
	assert.True(t, errors.Is(c.Delete("a"), ErrNotFound))

	entries, err := c.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
