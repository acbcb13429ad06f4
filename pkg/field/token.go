package field

import (
	"time"

	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/markup"
	"github.com/goliatone/go-formkit/pkg/token"
)

// TokenField is a hidden input carrying a signed, time-limited form token.
type TokenField struct {
	Base
	Secret []byte
	Window token.Window
	// Now is the clock used to issue and check tokens.
	Now func() time.Time
}

// NewTokenField returns a token field named name signed with secret and
// accepted within token.DefaultWindow.
func NewTokenField(name string, secret []byte) *TokenField {
	return &TokenField{
		Base:   Base{Name: name, Required: true},
		Secret: append([]byte(nil), secret...),
		Window: token.DefaultWindow,
	}
}

func (f *TokenField) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

// CreateToken issues a token for the current time.
func (f *TokenField) CreateToken() (string, error) {
	return token.Create(f.Secret, f.now())
}

// HiddenInput implements Hidden.
func (f *TokenField) HiddenInput() bool { return true }

// CheckToken implements TokenChecker.
func (f *TokenField) CheckToken(value string) bool {
	return token.Check(value, f.Secret, f.now(), f.Window)
}

// Value returns the submitted token.
func (f *TokenField) Value(m *input.Model) string {
	return m.String(f.Name)
}

// RenderInput implements Renderable. A fresh token is issued on every call.
func (f *TokenField) RenderInput(r Renderer, _ *input.Model, attrs markup.Attrs) (string, error) {
	value, err := f.CreateToken()
	if err != nil {
		return "", err
	}
	return hidden(r.Name(f), &value, attrs), nil
}
