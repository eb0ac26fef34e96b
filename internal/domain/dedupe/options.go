package dedupe

type config struct {
	capacity int
}

// Option configures an Index.
type Option func(*config)

// WithCapacity presizes the index for n keys.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}
