package engine

import "math/rand"

// Random is the source of randomness for move generation and acceptance.
// *rand.Rand satisfies it.
type Random interface {
	Float64() float64
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// DefaultSeed is used when no seed is configured.
const DefaultSeed uint64 = 88172645463325252

// XorShift is a 64-bit xorshift generator. It implements both Random and
// rand.Source64, so rand.New(NewXorShift(seed)) also works.
type XorShift struct {
	state uint64
}

// NewXorShift seeds a generator; zero selects DefaultSeed.
func NewXorShift(seed uint64) *XorShift {
	if seed == 0 {
		seed = DefaultSeed
	}
	return &XorShift{state: seed}
}

func (x *XorShift) Uint64() uint64 {
	x.state ^= x.state << 7
	x.state ^= x.state >> 9
	return x.state
}

func (x *XorShift) Int63() int64 { return int64(x.Uint64() >> 1) }

func (x *XorShift) Seed(seed int64) {
	*x = *NewXorShift(uint64(seed))
}

// Float64 returns a value in [0, 1) built from the low 32 bits.
func (x *XorShift) Float64() float64 {
	return float64(x.Uint64()&0xffffffff) / (1 << 32)
}

// Intn returns a value in [0, n). It panics if n <= 0.
func (x *XorShift) Intn(n int) int {
	if n <= 0 {
		panic("engine: invalid argument to Intn")
	}
	return int(x.Uint64() % uint64(n))
}

// Shuffle is a Fisher-Yates shuffle.
func (x *XorShift) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		swap(i, x.Intn(i+1))
	}
}

var _ rand.Source64 = (*XorShift)(nil)
