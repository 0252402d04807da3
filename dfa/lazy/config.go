package lazy

// Config configures the behavior of the Lazy DFA engine.
//
// The configuration allows tuning the trade-off between memory usage and
// performance. Larger caches provide better hit rates but consume more memory.
type Config struct {
	// MaxStates is the maximum number of DFA states to cache.
	// When this limit is reached, the DFA clears the cache (if the
	// MaxCacheClears budget allows) and answers the current attempt with a
	// full NFA pass over its input.
	//
	// Default: 10,000 states
	//
	// Tuning guidelines:
	//   - Simple patterns: 100-1,000 states sufficient
	//   - Complex patterns: 10,000-100,000 states
	//   - Memory-constrained: 1,000 states (~100KB)
	MaxStates uint32

	// MaxCacheClears is the maximum number of times the DFA cache can be
	// cleared and rebuilt over the DFA's lifetime (the count is reset only
	// by ResetCache).
	//
	// When the cache fills up during determinization, the DFA clears the
	// cache and re-creates the start state, so that later attempts can
	// rebuild states on demand; the attempt in progress is answered by a
	// full pass of the NFA Simulator over its whole input.
	//
	// After MaxCacheClears clears, the cache is no longer cleared: it stays
	// full, and every attempt that needs a state not already cached falls
	// back to the NFA Simulator.
	//
	// Default: 5
	// Set to 0 to disable cache clearing (always fall back to NFA on full cache).
	MaxCacheClears int

	// CacheHitThreshold is a cache hit rate in the range 0.0-1.0. Validate
	// checks that range; the DFA's search does not consult the value, so it
	// has no effect on when the DFA falls back to the NFA.
	//
	// Default: 0.0
	CacheHitThreshold float64

	// DeterminizationLimit is the maximum number of NFA states in a single
	// DFA state before giving up on determinization.
	//
	// Default: 1,000 NFA states
	//
	// This prevents exponential blowup for patterns like (a|b)*c.
	// When exceeded, the current attempt is answered by a full NFA pass
	// over its whole input.
	DeterminizationLimit int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxStates:            10_000,
		MaxCacheClears:       5,
		CacheHitThreshold:    0.0,
		DeterminizationLimit: 1_000,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of acceptable range.
func (c *Config) Validate() error {
	if c.MaxStates == 0 {
		return &DFAError{
			Kind:    InvalidConfig,
			Message: "MaxStates must be > 0",
		}
	}

	if c.MaxCacheClears < 0 {
		return &DFAError{
			Kind:    InvalidConfig,
			Message: "MaxCacheClears must be >= 0",
		}
	}

	if c.CacheHitThreshold < 0.0 || c.CacheHitThreshold > 1.0 {
		return &DFAError{
			Kind:    InvalidConfig,
			Message: "CacheHitThreshold must be in range [0.0, 1.0]",
		}
	}

	if c.DeterminizationLimit <= 0 {
		return &DFAError{
			Kind:    InvalidConfig,
			Message: "DeterminizationLimit must be > 0",
		}
	}

	return nil
}

// WithMaxStates returns a new config with the specified max states
func (c Config) WithMaxStates(maxStates uint32) Config {
	c.MaxStates = maxStates
	return c
}

// WithMaxCacheClears returns a new config with the specified max cache clears.
// Set to 0 to disable cache clearing (always fall back to NFA on full cache).
func (c Config) WithMaxCacheClears(maxClears int) Config {
	c.MaxCacheClears = maxClears
	return c
}

// WithCacheHitThreshold returns a new config with the specified cache hit threshold
func (c Config) WithCacheHitThreshold(threshold float64) Config {
	c.CacheHitThreshold = threshold
	return c
}

// WithDeterminizationLimit returns a new config with the specified limit
func (c Config) WithDeterminizationLimit(limit int) Config {
	c.DeterminizationLimit = limit
	return c
}
