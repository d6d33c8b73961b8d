// Package hsrand supplies the reproducible random decisions consumed by the
// stochastic transforms. There is no package-level generator: every
// pipeline execution owns a State, and parallel work spawns or clones its
// own.
package hsrand

import(
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// A State is a seeded PCG generator plus a count of the draws taken from
// it. The same seed always yields the same sequence of draws. A State is
// not safe for concurrent use.
type State struct {
	seed  uint64
	pcg   rand.PCGSource
	rng   *rand.Rand
	draws uint64
}

// New returns a State seeded with seed.
func New(seed uint64) *State {
	s := &State{}
	s.Reseed(seed)
	return s
}

// FromBytes seeds a State from an arbitrary byte sequence (FNV-1a hash).
func FromBytes(b []byte) *State {
	h := fnv.New64a()
	h.Write(b)
	return New(h.Sum64())
}

// NewUnseeded returns a State seeded from the operating system's entropy
// source. Runs using it are not reproducible unless Seed() is recorded.
func NewUnseeded() *State {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return New(uint64(time.Now().UnixNano()))
	}
	return New(binary.LittleEndian.Uint64(b[:]))
}

// Reseed resets the State to the start of seed's sequence.
func (s *State)Reseed(seed uint64) {
	s.seed = seed
	s.pcg.Seed(seed)
	s.rng = rand.New(&s.pcg)
	s.draws = 0
}

func (s *State)Seed() uint64  { return s.seed }
func (s *State)Draws() uint64 { return s.draws }

func (s *State)String() string {
	return fmt.Sprintf("State[seed %d, %d draws]", s.seed, s.draws)
}

// Clone returns an independent copy positioned at exactly the same point in
// the sequence; both copies produce the same draws from here on.
func (s *State)Clone() *State {
	c := &State{seed: s.seed, pcg: s.pcg, draws: s.draws}
	c.rng = rand.New(&c.pcg)
	return c
}

// Spawn derives a child State from the next draw. Spawning N children in a
// fixed order from a seeded State is deterministic, and the children do not
// share any state with the parent or each other.
func (s *State)Spawn() *State {
	s.draws++
	return New(s.rng.Uint64())
}

// Uniform draws from [lo, hi). lo == hi returns lo (still consuming a draw).
func (s *State)Uniform(lo, hi float64) float64 {
	s.draws++
	return distuv.Uniform{Min: lo, Max: hi, Src: &s.pcg}.Rand()
}

// Gaussian draws from N(mean, std^2); std is expected to be >= 0.
func (s *State)Gaussian(mean, std float64) float64 {
	s.draws++
	return distuv.Normal{Mu: mean, Sigma: std, Src: &s.pcg}.Rand()
}

// Bool returns true with probability p. p <= 0 is never true and p >= 1 is
// always true; a draw is consumed either way.
func (s *State)Bool(p float64) bool {
	s.draws++
	return distuv.Bernoulli{P: p, Src: &s.pcg}.Rand() == 1
}

// Intn draws uniformly from [0, n); n must be positive.
func (s *State)Intn(n int) int {
	s.draws++
	return s.rng.Intn(n)
}
