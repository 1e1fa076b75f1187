package recyclerview

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listFixtureGroups returns three groups of four, three, and five rows.
// Headers are type 0, rows type 1.
func listFixtureGroups() []Group {
	mk := func(key string, n int) Group {
		g := Group{Key: key, HeaderPayload: key}
		for i := 0; i < n; i++ {
			g.Records = append(g.Records, Record{
				Type:    1,
				Payload: key + "-" + strconv.Itoa(i),
			})
		}
		return g
	}
	return []Group{mk("alpha", 4), mk("beta", 3), mk("gamma", 5)}
}

// TestListGroups tests data replacement and section state through the
// facade.
func TestListGroups(t *testing.T) {
	t.Parallel()

	t.Run("set groups wires the pipeline", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))
		l.SetContainerExtent(300, 80)
		l.SetScrollPosition(0, 300)

		assert.Equal(t, 15, l.Len())

		start, end := l.VisibleRange(0)
		assert.Equal(t, 0, start)
		assert.Equal(t, 5, end)

		rect := l.LayoutFor(1)
		assert.Equal(t, 50.0, rect.MainOffset)
		assert.Equal(t, 80.0, rect.CrossSize)

		main, cross := l.ContentExtent()
		assert.Equal(t, 750.0, main)
		assert.Equal(t, 80.0, cross)
	})

	t.Run("duplicate keys refuse the replacement", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))
		gen := l.Generation()

		bad := listFixtureGroups()
		bad[0].Records[0].Key = "dup"
		bad[2].Records[1].Key = "dup"

		err := l.SetGroups(bad)
		require.ErrorIs(t, err, ErrDuplicateKey)
		assert.Equal(t, 15, l.Len())
		assert.Equal(t, gen, l.Generation())
	})

	t.Run("collapse flows through the facade", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))

		assert.True(t, l.SetCollapsed("beta", true))
		assert.False(t, l.SetCollapsed("beta", true))
		assert.True(t, l.IsCollapsed("beta"))
		assert.Equal(t, 12, l.Len())
		assert.Equal(t, -1, l.FlatIndexOf(1, 0))

		b, ok := l.BoundaryFor("beta")
		require.True(t, ok)
		assert.Zero(t, b.RecordCount)
	})

	t.Run("footers extend each group", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))

		l.SetFooters(true)
		assert.Equal(t, 18, l.Len())

		c := l.CoordinatesOf(5)
		assert.True(t, c.IsFooter)
		assert.Equal(t, 0, c.GroupIndex)
	})
}

// TestListMeasurements tests both measurement paths.
func TestListMeasurements(t *testing.T) {
	t.Parallel()

	t.Run("measurement by key reprices the layout", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))

		l.RecordMeasurement("alpha/0", Rect{MainSize: 80})

		assert.Equal(t, 80.0, l.LayoutFor(1).MainSize)
		assert.Equal(t, 130.0, l.LayoutFor(2).MainOffset)
		// Unmeasured rows adopt the type average.
		assert.Equal(t, 80.0, l.LayoutFor(2).MainSize)
	})

	t.Run("unknown keys are dropped", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))
		before, _ := l.ContentExtent()

		l.RecordMeasurement("delta/9", Rect{MainSize: 500})

		after, _ := l.ContentExtent()
		assert.Equal(t, before, after)
	})

	t.Run("stale generation updates are dropped", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))
		stale := l.Generation()

		l.SetCollapsed("alpha", true)

		l.UpdateItemLayoutAt(stale, 0, Rect{MainSize: 90})
		assert.Equal(t, 50.0, l.LayoutFor(0).MainSize)

		l.UpdateItemLayoutAt(l.Generation(), 0, Rect{MainSize: 90})
		assert.Equal(t, 90.0, l.LayoutFor(0).MainSize)
	})
}

// TestListViewability tests tracker attachment and the flush pump.
func TestListViewability(t *testing.T) {
	t.Parallel()

	t.Run("attached trackers inherit the current state", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))
		l.SetContainerExtent(300, 80)
		l.SetScrollPosition(0, 300)

		v := l.Viewability(ViewabilityConfig{})
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, v.VisibleIndices())

		rec := &deltaRecorder{}
		v.Subscribe(rec.record)

		l.SetScrollPosition(100, 300)
		assert.Zero(t, rec.calls)

		l.Flush()
		require.Equal(t, 1, rec.calls)
		entered, exited := rec.last()
		assert.Equal(t, []int{6, 7}, entered)
		assert.Equal(t, []int{0, 1}, exited)
	})

	t.Run("record interaction reaches trackers", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))
		l.SetScrollPosition(0, 300)

		v := l.Viewability(ViewabilityConfig{WaitForInteraction: true})
		assert.Empty(t, v.VisibleIndices())

		l.RecordInteraction()
		l.Flush()

		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, v.VisibleIndices())
	})

	t.Run("data replacement resets trackers", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))
		l.SetScrollPosition(0, 300)

		v := l.Viewability(ViewabilityConfig{})
		rec := &deltaRecorder{}
		v.Subscribe(rec.record)

		require.NoError(t, l.SetGroups(listFixtureGroups()))
		l.Flush()

		require.Equal(t, 1, rec.calls)
		entered, exited := rec.last()
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, entered)
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, exited)
	})

	t.Run("dispose detaches trackers", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))
		l.SetScrollPosition(0, 300)
		v := l.Viewability(ViewabilityConfig{})
		require.NotEmpty(t, v.VisibleIndices())

		l.Dispose()

		assert.Empty(t, v.VisibleIndices())
		l.SetScrollPosition(200, 300)
		assert.Zero(t, l.Scheduler().Pending())
	})
}

// TestListScrollTargets tests programmatic scroll-position helpers.
func TestListScrollTargets(t *testing.T) {
	t.Parallel()

	t.Run("offset for index honors the view position", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))
		l.SetScrollPosition(0, 300)

		// Entry 6 starts at 300 and is 50 tall; content is 750.
		assert.Equal(t, 300.0, l.OffsetForIndex(6, 0))
		assert.Equal(t, 175.0, l.OffsetForIndex(6, 0.5))
		assert.Equal(t, 50.0, l.OffsetForIndex(6, 1))

		// Clamped to the scrollable range on both sides.
		assert.Equal(t, 450.0, l.OffsetForIndex(14, 0))
		assert.Zero(t, l.OffsetForIndex(0, 0.5))

		assert.Zero(t, l.OffsetForIndex(-1, 0))
		assert.Zero(t, l.OffsetForIndex(15, 0))
	})

	t.Run("sticky header tracks the containing group", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		require.NoError(t, l.SetGroups(listFixtureGroups()))

		// Group spans: alpha [0,250), beta [250,450), gamma [450,750).
		assert.Equal(t, 0, l.StickyHeaderFor(0))
		assert.Equal(t, 0, l.StickyHeaderFor(249.9))
		assert.Equal(t, 5, l.StickyHeaderFor(250))
		assert.Equal(t, 5, l.StickyHeaderFor(449.9))
		assert.Equal(t, 9, l.StickyHeaderFor(450))
		assert.Equal(t, 9, l.StickyHeaderFor(749.9))
		assert.Equal(t, -1, l.StickyHeaderFor(750))
		assert.Equal(t, -1, l.StickyHeaderFor(-5))
	})
}

// TestListEndReached tests the end-of-content callback.
func TestListEndReached(t *testing.T) {
	t.Parallel()

	t.Run("fires once per content extent", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		fired := 0
		l.SetEndReachedFunc(func() { fired++ }).SetEndReachedThreshold(100)
		require.NoError(t, l.SetGroups(listFixtureGroups()))

		// Content is 750; remaining drops to 50.
		l.SetScrollPosition(400, 300)
		assert.Equal(t, 1, fired)

		l.SetScrollPosition(405, 300)
		assert.Equal(t, 1, fired)
	})

	t.Run("re-arms on data replacement", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		fired := 0
		l.SetEndReachedFunc(func() { fired++ }).SetEndReachedThreshold(100)
		require.NoError(t, l.SetGroups(listFixtureGroups()))
		l.SetScrollPosition(400, 300)
		require.Equal(t, 1, fired)

		require.NoError(t, l.SetGroups(listFixtureGroups()))
		assert.Equal(t, 2, fired)
	})

	t.Run("stays quiet above the threshold", func(t *testing.T) {
		t.Parallel()
		l := NewList()
		fired := 0
		l.SetEndReachedFunc(func() { fired++ }).SetEndReachedThreshold(100)
		require.NoError(t, l.SetGroups(listFixtureGroups()))

		l.SetScrollPosition(0, 300)
		assert.Zero(t, fired)
	})
}

// TestListPool tests cell handout through the facade.
func TestListPool(t *testing.T) {
	t.Parallel()

	l := NewList()
	require.NoError(t, l.SetGroups(listFixtureGroups()))

	header := l.GetOrCreate(0)
	row := l.GetOrCreate(1)
	require.NotNil(t, header)
	require.NotNil(t, row)
	assert.Equal(t, RecordType(0), header.Type)
	assert.Equal(t, RecordType(1), row.Type)

	l.Release(header)

	// Index 5 is the beta header and reuses the released header cell.
	again := l.GetOrCreate(5)
	assert.Same(t, header, again)
	assert.Equal(t, 5, again.FlatIndex)

	stats := l.PoolStats()
	assert.Equal(t, 1, stats[0].InUse)
	assert.Equal(t, 1, stats[1].InUse)

	assert.Nil(t, l.GetOrCreate(99))
}
