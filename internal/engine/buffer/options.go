package buffer

// Default sizing for gap buffers.
const (
	DefaultInitialCapacity = 256
	DefaultMinGrowth       = 32
)

// Option is a functional option for configuring a GapBuffer.
type Option func(*GapBuffer)

// WithInitialCapacity sets the capacity allocated for an empty buffer and
// restored by Clear.
func WithInitialCapacity(n int) Option {
	return func(b *GapBuffer) {
		if n > 0 {
			b.initialCap = n
		}
	}
}

// WithMinGrowth sets the minimum number of runes added to the gap when the
// storage has to grow and the old gap is exhausted.
func WithMinGrowth(n int) Option {
	return func(b *GapBuffer) {
		if n > 0 {
			b.minGrowth = n
		}
	}
}
