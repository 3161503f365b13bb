package bench

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"
	"time"
)

// --------------------------------------------------------------------------
// Seeding
// --------------------------------------------------------------------------

var seedMu sync.Mutex

// SafeSeed returns a fresh random seed. The process entropy source is
// shared state, so access is serialized.
//
// Thread-safety: This function is thread-safe and can be called concurrently.
func SafeSeed() uint64 {
	seedMu.Lock()
	defer seedMu.Unlock()

	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}

// --------------------------------------------------------------------------
// Key sources
// --------------------------------------------------------------------------

// KeySource yields pseudo-random benchmark keys. A source belongs to one
// worker and is not safe for concurrent use.
type KeySource interface {
	// Next returns a key in [0, bound).
	Next(bound int64) int64
}

// Xorshift64 is the fast shift-register generator used by default for the
// benchmark workloads.
type Xorshift64 struct {
	state uint64
}

// NewXorshift64 seeds a generator; a zero seed is replaced since the
// all-zero state is a fixed point.
func NewXorshift64(seed uint64) *Xorshift64 {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	return &Xorshift64{state: seed}
}

func (x *Xorshift64) Next(bound int64) int64 {
	s := x.state
	s ^= s << 13
	s ^= s >> 7
	s ^= s << 17
	x.state = s
	return int64(s % uint64(bound))
}

// libSource adapts the standard library generator to KeySource.
type libSource struct {
	rng *rand.Rand
}

func (l *libSource) Next(bound int64) int64 {
	return l.rng.Int63n(bound)
}

// NewKeySource returns a per-worker key source. useRandRNG selects the
// standard library generator instead of xorshift64.
func NewKeySource(useRandRNG bool) KeySource {
	if useRandRNG {
		return &libSource{rng: rand.New(rand.NewSource(int64(SafeSeed())))}
	}
	return NewXorshift64(SafeSeed())
}
