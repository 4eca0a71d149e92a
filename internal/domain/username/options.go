package username

import "github.com/okian/duorank/internal/dependencies/random"

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithLengthBounds sets the accepted username length range.
func WithLengthBounds(min, max int) Option {
	return func(r *Registry) {
		if min > 0 && max >= min {
			r.minLen = min
			r.maxLen = max
		}
	}
}

// WithGeneratedPrefix sets the prefix of generated usernames.
func WithGeneratedPrefix(prefix string) Option {
	return func(r *Registry) {
		if prefix != "" {
			r.prefix = prefix
		}
	}
}

// WithSuffixDigits sets the number of random digits appended to
// generated usernames.
func WithSuffixDigits(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.suffixDigits = n
		}
	}
}

// WithMaxAttempts bounds the generated-name retry loop.
func WithMaxAttempts(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithRandom sets the randomness source (injectable for tests).
func WithRandom(rnd random.Random) Option {
	return func(r *Registry) {
		if rnd != nil {
			r.rand = rnd
		}
	}
}
