package engine

import (
	"math/bits"
	"sync/atomic"

	mg "wyvern-chess/movegen"
)

// Bound classifies what a stored score proves about the true value.
type Bound uint8

const (
	BoundNone  Bound = 0
	BoundUpper Bound = 1 // score is an upper bound (fail-low)
	BoundLower Bound = 2 // score is a lower bound (fail-high)
	BoundExact Bound = BoundUpper | BoundLower
)

const (
	clusterSize = 4
	genMask     = 0x3FFF // 14 generation bits

	// DefaultTTSizeMB is used when no hash size has been configured.
	DefaultTTSizeMB = 64
)

// TTEntry is one 128-bit transposition record stored as two atomically
// accessed words. Multiple search threads probe and store without locks;
// a torn pair of words decodes to bounded garbage and only costs a wasted
// probe, never undefined behavior.
//
//	word0: key32 | move16<<32 | bound2<<48 | generation14<<50
//	word1: value16 | depth16<<16 | eval16<<32 | margin16<<48
type TTEntry struct {
	word0 atomic.Uint64
	word1 atomic.Uint64
}

// TTCluster groups four entries in one cache line sharing a hash bucket.
type TTCluster [clusterSize]TTEntry

func (e *TTEntry) key32() uint32      { return uint32(e.word0.Load()) }
func (e *TTEntry) Move() mg.Move      { return mg.Move(e.word0.Load() >> 32) }
func (e *TTEntry) Bound() Bound       { return Bound(e.word0.Load() >> 48 & 3) }
func (e *TTEntry) Generation() uint16 { return uint16(e.word0.Load() >> 50 & genMask) }
func (e *TTEntry) Value() int16       { return int16(e.word1.Load()) }
func (e *TTEntry) Depth() int16       { return int16(e.word1.Load() >> 16) }
func (e *TTEntry) Eval() int16        { return int16(e.word1.Load() >> 32) }
func (e *TTEntry) EvalMargin() int16  { return int16(e.word1.Load() >> 48) }

// save overwrites every field of the entry. Callers must keep value, depth,
// eval and margin within int16 range (mate scores are ply-adjusted before
// they reach the table).
func (e *TTEntry) save(key uint64, m mg.Move, b Bound, gen uint16, value, depth, eval, margin int16) {
	w0 := uint64(uint32(key)) |
		uint64(uint16(m))<<32 |
		uint64(b&3)<<48 |
		uint64(gen&genMask)<<50
	w1 := uint64(uint16(value)) |
		uint64(uint16(depth))<<16 |
		uint64(uint16(eval))<<32 |
		uint64(uint16(margin))<<48
	e.word1.Store(w1)
	e.word0.Store(w0)
}

// setGeneration restamps only the generation bits, keeping move, bound and
// the analytical payload intact.
func (e *TTEntry) setGeneration(gen uint16) {
	w0 := e.word0.Load()
	w0 = w0&^(uint64(genMask)<<50) | uint64(gen&genMask)<<50
	e.word0.Store(w0)
}

// TransTable is the process-wide shared transposition table. It is sized
// once at startup, cleared between games, and aged once per search start.
// All access is lock-free.
type TransTable struct {
	clusters   []TTCluster
	mask       uint64
	generation atomic.Uint32
}

// NewTransTable allocates a table fitting the given megabyte budget.
func NewTransTable(megabytes int) *TransTable {
	tt := &TransTable{}
	tt.Resize(megabytes)
	return tt
}

// Resize reallocates the table to the largest power-of-two cluster count
// fitting the byte budget, discarding all prior contents. Not safe to call
// during a search.
func (tt *TransTable) Resize(megabytes int) {
	if megabytes < 1 {
		megabytes = 1
	}
	totalBytes := uint64(megabytes) * 1024 * 1024
	clusterBytes := uint64(clusterSize * 16)
	count := totalBytes / clusterBytes
	if count == 0 {
		count = 1
	}
	// Round down to a power of two so indexing is a mask.
	count = 1 << (63 - bits.LeadingZeros64(count))
	tt.clusters = make([]TTCluster, count)
	tt.mask = count - 1
	tt.generation.Store(0)
}

// Clear wipes all stored entries, keeping the allocation.
func (tt *TransTable) Clear() {
	for i := range tt.clusters {
		for j := range tt.clusters[i] {
			tt.clusters[i][j].word0.Store(0)
			tt.clusters[i][j].word1.Store(0)
		}
	}
	tt.generation.Store(0)
}

// NewSearch bumps the generation counter. Old entries become eviction
// candidates purely through the age comparison in Store; nothing is scanned
// or rewritten, so this never blocks concurrent probes.
func (tt *TransTable) NewSearch() {
	tt.generation.Add(1)
}

func (tt *TransTable) curGen() uint16 {
	return uint16(tt.generation.Load()) & genMask
}

func (tt *TransTable) cluster(key uint64) *TTCluster {
	return &tt.clusters[key&tt.mask]
}

// Probe scans the key's cluster for a matching entry. A miss is a normal
// outcome, not an error.
func (tt *TransTable) Probe(key uint64) (entry *TTEntry, found bool) {
	c := tt.cluster(key)
	k32 := uint32(key)
	for i := range c {
		e := &c[i]
		if e.word0.Load() != 0 && e.key32() == k32 {
			return e, true
		}
	}
	return nil, false
}

// Refresh restamps a probed entry with the current generation so a hit
// lowers its eviction priority.
func (tt *TransTable) Refresh(entry *TTEntry) {
	entry.setGeneration(tt.curGen())
}

// relAge measures how many generations behind the current one an entry is,
// wrapping over the 14-bit counter.
func relAge(cur, entryGen uint16) uint16 {
	return (cur - entryGen) & genMask
}

// Store writes a search result for key. A slot already holding the key is
// overwritten in place; otherwise the victim is the entry with the oldest
// generation, ties broken by shallowest depth, so deep recent analysis
// survives longest.
func (tt *TransTable) Store(key uint64, m mg.Move, b Bound, value, depth, eval, margin int16) {
	c := tt.cluster(key)
	gen := tt.curGen()
	k32 := uint32(key)

	victim := &c[0]
	for i := range c {
		e := &c[i]
		if e.word0.Load() == 0 || e.key32() == k32 {
			// Keep an existing best move when the new result has none.
			if m == mg.MoveNone && e.key32() == k32 {
				m = e.Move()
			}
			victim = e
			break
		}
		if relAge(gen, e.Generation()) > relAge(gen, victim.Generation()) ||
			(relAge(gen, e.Generation()) == relAge(gen, victim.Generation()) && e.Depth() < victim.Depth()) {
			victim = e
		}
	}
	victim.save(key, m, b, gen, value, depth, eval, margin)
}

// Hashfull estimates table saturation in permille by sampling a thousand
// entries, the figure UCI "info hashfull" expects.
func (tt *TransTable) Hashfull() int {
	gen := tt.curGen()
	count := 0
	sampled := 0
	for i := 0; i < len(tt.clusters) && sampled < 1000; i++ {
		for j := range tt.clusters[i] {
			if sampled >= 1000 {
				break
			}
			sampled++
			e := &tt.clusters[i][j]
			if e.word0.Load() != 0 && e.Generation() == gen {
				count++
			}
		}
	}
	if sampled == 0 {
		return 0
	}
	return count * 1000 / sampled
}
