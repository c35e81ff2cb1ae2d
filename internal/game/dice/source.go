package dice

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand/v2"
	"sync"
)

// float64Mantissa is 2^53; dividing a 53-bit integer by it yields a uniform
// float64 in [0, 1).
const float64Mantissa = 1 << 53

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, 1).
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Float64 is in [0, 1).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Float64 returns a cryptographically secure float in [0, 1).
//
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Float64() float64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return float64(binary.LittleEndian.Uint64(b[:])>>11) / float64Mantissa
}

// seededSource is a deterministic PCG generator guarded by a mutex.
type seededSource struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewSeededSource returns a deterministic Source. Two sources created with the
// same seed produce the same sequence.
//
// Postcondition: Every value returned by Float64 is in [0, 1).
func NewSeededSource(seed uint64) Source {
	return &seededSource{rng: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 returns the next value of the seeded sequence.
func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

// ScriptedSource replays a fixed sequence of values and then repeats the last
// one forever. It exists so tests can force hit, crit, and guts outcomes.
type ScriptedSource struct {
	mu     sync.Mutex
	values []float64
	next   int
	drawn  int
}

// NewScriptedSource returns a ScriptedSource replaying values in order.
//
// Precondition: len(values) >= 1 and every value is in [0, 1).
func NewScriptedSource(values ...float64) *ScriptedSource {
	if len(values) == 0 {
		panic("dice: NewScriptedSource requires at least one value")
	}
	for _, v := range values {
		if v < 0 || v >= 1 {
			panic("dice: NewScriptedSource values must be in [0, 1)")
		}
	}
	cp := make([]float64, len(values))
	copy(cp, values)
	return &ScriptedSource{values: cp}
}

// Float64 returns the next scripted value.
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next]
	s.drawn++
	if s.next < len(s.values)-1 {
		s.next++
	}
	return v
}

// Drawn reports how many values have been drawn in total, repeats included.
func (s *ScriptedSource) Drawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawn
}

// Succeed and Fail are the conventional values for forcing a check outcome
// with a ScriptedSource: Succeed passes every check with chance > 0, Fail
// passes only checks with chance == 1.
const (
	Succeed = 0.0
	Fail    = 0.999999
)
