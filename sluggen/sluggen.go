// Package sluggen generates the random tokens used as short-link slugs.
// Generators are safe for concurrent use.
package sluggen

import (
	"crypto/rand"
	"errors"
)

const base62 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Generator produces a random slug of the requested length.
// Implementations must be safe for concurrent use.
type Generator interface {
	Generate(length int) (string, error)
}

type generator struct {
	alphabet string
}

// Option configures a Generator.
type Option func(*generator)

// WithAlphabet replaces the default base62 alphabet. The alphabet must not
// be empty; invalid values are ignored.
func WithAlphabet(alphabet string) Option {
	return func(g *generator) {
		if alphabet != "" {
			g.alphabet = alphabet
		}
	}
}

// NewBase62 returns a Generator drawing characters from [0-9A-Za-z]
// unless overridden with WithAlphabet.
func NewBase62(opts ...Option) Generator {
	g := &generator{alphabet: base62}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns a random string of exactly length characters.
func (g *generator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("length must be positive")
	}

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	for i := range b {
		b[i] = g.alphabet[int(b[i])%len(g.alphabet)]
	}

	return string(b), nil
}
