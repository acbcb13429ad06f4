package token

import (
	"crypto/rand"
	"io"
	"time"
)

// Option configures a Codec.
type Option func(*Codec)

// WithWindow overrides DefaultWindow.
func WithWindow(window Window) Option {
	return func(c *Codec) {
		c.window = window
	}
}

// WithClock replaces time.Now, mainly so tests can pin issue and check times.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithRandom replaces crypto/rand as the nonce source.
func WithRandom(r io.Reader) Option {
	return func(c *Codec) {
		if r != nil {
			c.random = r
		}
	}
}

// Codec binds a secret, a validity window and a clock so callers do not have
// to thread them through every Create/Check call. A Codec is immutable after
// construction and safe for concurrent use as long as its random source is.
type Codec struct {
	secret []byte
	window Window
	now    func() time.Time
	random io.Reader
}

// NewCodec returns a Codec for secret.
func NewCodec(secret []byte, opts ...Option) *Codec {
	c := &Codec{
		secret: append([]byte(nil), secret...),
		window: DefaultWindow,
		now:    time.Now,
		random: rand.Reader,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// Window returns the configured validity window.
func (c *Codec) Window() Window {
	return c.window
}

// Create issues a token stamped with the codec clock.
func (c *Codec) Create() (string, error) {
	return create(c.secret, c.now(), c.random)
}

// Check verifies token against the codec secret, window and clock.
func (c *Codec) Check(token string) bool {
	return Check(token, c.secret, c.now(), c.window)
}
