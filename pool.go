package recyclerview

import "go.uber.org/zap"

// DefaultMaxPoolSize is the per-type cap on idle cells kept for reuse.
const DefaultMaxPoolSize = 10

// Cell is a recyclable view slot. The engine tracks identity and binding;
// the host hangs its actual view object off the cell however it likes,
// keyed by Key, which is unique for the lifetime of the pool and never
// reused. Type is fixed at allocation: a cell only ever serves entries of
// its own type. FlatIndex is the entry the cell is currently bound to, -1
// while the cell sits in the pool.
type Cell struct {
	Key       uint64
	Type      RecordType
	FlatIndex int
}

// PoolStat is a snapshot of one type's cell population.
type PoolStat struct {
	Available int
	InUse     int
}

// Pool recycles cells stratified by record type. Each type keeps its own
// free list bounded by its max pool size; releases beyond the bound drop
// the cell instead of growing the list.
type Pool struct {
	free    [][]*Cell
	inUse   []int
	maxSize []int
	nextKey uint64
	logger  *zap.Logger
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{logger: zap.NewNop()}
}

// SetLogger sets the logger used for allocation and drop events.
func (p *Pool) SetLogger(logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	p.logger = logger
	return p
}

// grow extends the per-type bookkeeping to cover t. New types start with
// the default max pool size.
func (p *Pool) grow(t RecordType) {
	for int(t) >= len(p.free) {
		p.free = append(p.free, nil)
		p.inUse = append(p.inUse, 0)
		p.maxSize = append(p.maxSize, DefaultMaxPoolSize)
	}
}

// Acquire takes an idle cell of type t from the pool and binds it to
// flatIndex. Returns nil when the pool has no idle cell of that type.
func (p *Pool) Acquire(t RecordType, flatIndex int) *Cell {
	if t < 0 {
		return nil
	}
	p.grow(t)
	list := p.free[t]
	if len(list) == 0 {
		return nil
	}
	cell := list[len(list)-1]
	p.free[t] = list[:len(list)-1]
	p.inUse[t]++
	cell.FlatIndex = flatIndex
	return cell
}

// GetOrCreate returns a cell of type t bound to flatIndex, reusing an idle
// one when available and allocating otherwise. Returns nil for a negative
// type.
func (p *Pool) GetOrCreate(t RecordType, flatIndex int) *Cell {
	if t < 0 {
		return nil
	}
	if cell := p.Acquire(t, flatIndex); cell != nil {
		return cell
	}
	p.nextKey++
	p.inUse[t]++
	cell := &Cell{Key: p.nextKey, Type: t, FlatIndex: flatIndex}
	p.logger.Debug("allocated cell",
		zap.Uint64("key", cell.Key),
		zap.Int32("type", int32(t)))
	return cell
}

// Release returns a cell to its type's free list. When the free list is
// already at its max pool size the cell is dropped for collection instead.
func (p *Pool) Release(cell *Cell) {
	if cell == nil || cell.Type < 0 {
		return
	}
	t := cell.Type
	p.grow(t)
	if p.inUse[t] > 0 {
		p.inUse[t]--
	}
	cell.FlatIndex = -1
	if len(p.free[t]) >= p.maxSize[t] {
		p.logger.Debug("dropped cell over pool bound",
			zap.Uint64("key", cell.Key),
			zap.Int32("type", int32(t)))
		return
	}
	p.free[t] = append(p.free[t], cell)
}

// SetMaxPoolSize sets the idle-cell bound for type t, trimming the free
// list if it already exceeds the new bound. Negative bounds clamp to zero,
// which disables recycling for the type.
func (p *Pool) SetMaxPoolSize(t RecordType, n int) {
	if t < 0 {
		return
	}
	if n < 0 {
		n = 0
	}
	p.grow(t)
	p.maxSize[t] = n
	if len(p.free[t]) > n {
		p.free[t] = p.free[t][:n]
	}
}

// Clear drops every idle cell and resets the usage accounting. Cells
// currently held by the host are unaffected but will not be counted when
// released.
func (p *Pool) Clear() {
	for t := range p.free {
		p.free[t] = nil
		p.inUse[t] = 0
	}
}

// Stats returns a per-type population snapshot covering every type the
// pool has seen.
func (p *Pool) Stats() map[RecordType]PoolStat {
	stats := make(map[RecordType]PoolStat, len(p.free))
	for t := range p.free {
		stats[RecordType(t)] = PoolStat{
			Available: len(p.free[t]),
			InUse:     p.inUse[t],
		}
	}
	return stats
}
