// Package token issues and verifies time-windowed, tamper-evident form tokens.
//
// A token is the base64url encoding of a msgpack payload (issue timestamp and
// a random nonce) followed by a dot and the base64url encoding of an
// HMAC-SHA256 tag over the payload bytes:
//
//	b64(msgpack([unix_seconds, nonce16])) "." b64(hmac_sha256(secret, payload))
//
// Tokens are embedded in hidden form inputs at render time and checked once
// when the form is submitted. A token is accepted only while its age lies in
// the configured [From, To] window, so submissions that arrive too quickly
// (automated posts) or too late (stale forms) are rejected.
package token

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

const (
	// NonceSize is the number of random bytes carried by every token.
	NonceSize = 16
	// TagSize is the length of the HMAC-SHA256 tag.
	TagSize = sha256.Size

	separator = "."
)

var (
	// ErrEmptySecret is returned when a token is requested without a secret.
	ErrEmptySecret = errors.New("token: empty secret")

	encoding = base64.RawURLEncoding.Strict()
)

// Window is the accepted age range of a token, relative to its issue time.
// Both bounds are inclusive and are evaluated in whole seconds.
type Window struct {
	From time.Duration
	To   time.Duration
}

// DefaultWindow rejects submissions faster than five seconds and forms that
// have been open for more than twenty minutes.
var DefaultWindow = Window{
	From: 5 * time.Second,
	To:   20 * time.Minute,
}

// Contains reports whether a token issued at issued is acceptable at now.
func (w Window) Contains(issued, now int64) bool {
	age := now - issued
	return age >= int64(w.From/time.Second) && age <= int64(w.To/time.Second)
}

type payload struct {
	_msgpack struct{} `msgpack:",as_array"`

	Timestamp int64
	Nonce     []byte
}

// Create issues a new token for secret stamped with now.
func Create(secret []byte, now time.Time) (string, error) {
	return create(secret, now, rand.Reader)
}

// Check reports whether token was issued with secret and is inside window at
// now. Malformed, tampered, foreign and out-of-window tokens all yield false
// without distinguishing the cause.
func Check(token string, secret []byte, now time.Time, window Window) bool {
	if len(secret) == 0 || token == "" {
		return false
	}

	encodedPayload, encodedTag, ok := strings.Cut(token, separator)
	if !ok || encodedPayload == "" || encodedTag == "" {
		return false
	}

	raw, err := encoding.DecodeString(encodedPayload)
	if err != nil {
		return false
	}
	tag, err := encoding.DecodeString(encodedTag)
	if err != nil || len(tag) != TagSize {
		return false
	}

	if !hmac.Equal(tag, sign(secret, raw)) {
		return false
	}

	var p payload
	if err := msgpack.Unmarshal(raw, &p); err != nil {
		return false
	}
	if len(p.Nonce) != NonceSize {
		return false
	}

	return window.Contains(p.Timestamp, now.Unix())
}

func create(secret []byte, now time.Time, random io.Reader) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(random, nonce); err != nil {
		return "", fmt.Errorf("token: read nonce: %w", err)
	}

	raw, err := msgpack.Marshal(&payload{Timestamp: now.Unix(), Nonce: nonce})
	if err != nil {
		return "", fmt.Errorf("token: encode payload: %w", err)
	}

	return encoding.EncodeToString(raw) + separator + encoding.EncodeToString(sign(secret, raw)), nil
}

func sign(secret, data []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write(data)
	return mac.Sum(nil)
}
