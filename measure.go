package recyclerview

// MeasureCache stores post-paint measurements keyed by stable item key and
// keeps a running size average per record type. Entries persist across
// flatten passes for as long as their key persists; the cache is bounded by
// the number of distinct keys ever measured, not by a capacity, and is only
// ever shrunk by Delete, Clear, or InvalidateFrom.
type MeasureCache struct {
	rects map[string]Rect
	stats []typeStat // indexed by RecordType
}

type typeStat struct {
	total float64
	count int
}

// NewMeasureCache returns an empty cache.
func NewMeasureCache() *MeasureCache {
	return &MeasureCache{rects: make(map[string]Rect)}
}

// Get returns the measured rect stored under key.
func (c *MeasureCache) Get(key string) (Rect, bool) {
	rect, ok := c.rects[key]
	return rect, ok
}

// Set stores rect as the measured layout for key.
func (c *MeasureCache) Set(key string, rect Rect) {
	c.rects[key] = rect
}

// Has reports whether a measured rect is stored under key.
func (c *MeasureCache) Has(key string) bool {
	_, ok := c.rects[key]
	return ok
}

// Delete removes the measured rect stored under key, if any.
func (c *MeasureCache) Delete(key string) {
	delete(c.rects, key)
}

// Clear drops every measured rect and resets every type average.
func (c *MeasureCache) Clear() {
	c.rects = make(map[string]Rect)
	c.stats = c.stats[:0]
}

// RecordMeasurement folds size into t's running average. Sample counts only
// grow; there is no way to unlearn a sample short of Clear.
func (c *MeasureCache) RecordMeasurement(t RecordType, size float64) {
	if t < 0 {
		return
	}
	for int(t) >= len(c.stats) {
		c.stats = append(c.stats, typeStat{})
	}
	c.stats[t].total += size
	c.stats[t].count++
}

// AverageSize returns the arithmetic mean of all sizes recorded for t since
// the last Clear. The second return is false while t has no samples.
func (c *MeasureCache) AverageSize(t RecordType) (float64, bool) {
	if t < 0 || int(t) >= len(c.stats) || c.stats[t].count == 0 {
		return 0, false
	}
	return c.stats[t].total / float64(c.stats[t].count), true
}

// InvalidateFrom deletes every cached rect whose current flat index, per
// keyToIndex, is at or after flatIndex. Keys absent from the map are kept:
// they belong to entries that are not materialized right now and their
// measurements stay valid for when they come back.
func (c *MeasureCache) InvalidateFrom(flatIndex int, keyToIndex map[string]int) {
	for key := range c.rects {
		if index, ok := keyToIndex[key]; ok && index >= flatIndex {
			delete(c.rects, key)
		}
	}
}
