// Package prompt fills an input model interactively, one field at a time,
// validating every answer with the same rules used for submitted forms.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-formkit/pkg/field"
	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// Option configures a Filler.
type Option func(*Filler)

// WithValidatorOptions sets the options used for per-field validation.
func WithValidatorOptions(opts ...validation.Option) Option {
	return func(f *Filler) {
		f.validatorOpts = append(f.validatorOpts, opts...)
	}
}

// WithMaxAttempts caps how many invalid answers a field accepts before
// filling fails. Zero means no limit.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n >= 0 {
			f.maxAttempts = n
		}
	}
}

// Filler asks a Driver for the value of each field.
type Filler struct {
	driver        Driver
	validatorOpts []validation.Option
	maxAttempts   int
}

// New returns a filler prompting through driver.
func New(driver Driver, opts ...Option) *Filler {
	f := &Filler{driver: driver, maxAttempts: 5}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for every field in order and stores the answers on m. Token
// fields receive a fresh token; hidden fields keep their current value.
func (f *Filler) Fill(ctx context.Context, m *input.Model, fields ...field.Field) error {
	if f.driver == nil {
		return errors.New("prompt: driver is nil")
	}
	for _, fd := range fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.fill(ctx, m, fd); err != nil {
			return fmt.Errorf("prompt: field %q: %w", fd.Descriptor().Name, err)
		}
	}
	return nil
}

func (f *Filler) fill(ctx context.Context, m *input.Model, fd field.Field) error {
	if issuer, ok := fd.(field.TokenIssuer); ok {
		tok, err := issuer.CreateToken()
		if err != nil {
			return err
		}
		m.Set(issuer.Descriptor().Name, tok)
		return nil
	}
	if hidden, ok := fd.(field.Hidden); ok && hidden.HiddenInput() {
		return nil
	}

	v := validation.New(m, f.validatorOpts...)
	for attempt := 1; ; attempt++ {
		if err := f.ask(ctx, m, fd); err != nil {
			return err
		}
		v.Clear(fd).Validate(fd)
		msg := m.Error(fd.Descriptor().Name)
		if msg == "" {
			return nil
		}
		v.Clear(fd)
		if f.maxAttempts > 0 && attempt >= f.maxAttempts {
			return fmt.Errorf("%w: %s", ErrTooManyAttempts, msg)
		}
		if err := f.driver.Info(ctx, msg); err != nil {
			return err
		}
	}
}

func (f *Filler) ask(ctx context.Context, m *input.Model, fd field.Field) error {
	base := fd.Descriptor()
	message := base.Label
	if message == "" {
		message = base.Name
	}
	current := m.String(base.Name)

	switch typed := fd.(type) {
	case *field.CheckboxField:
		checked, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: typed.Value(m)})
		if err != nil {
			return err
		}
		typed.SetValue(m, checked)
		return nil

	case *field.DateSelectField:
		help := "YYYY-MM-DD"
		def := ""
		if t, err := typed.Value(m); err == nil && t != nil {
			def = t.Format(field.DateLayout)
		}
		answer, err := f.driver.Input(ctx, InputConfig{Message: message, Default: def, Help: help})
		if err != nil {
			return err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			typed.SetValue(m, nil)
			return nil
		}
		t, err := time.ParseInLocation(field.DateLayout, answer, typed.TimeZone())
		if err != nil {
			// Keep the raw answer so validation reports it.
			m.Set(base.Name, map[string]any{"year": answer})
			return nil
		}
		typed.SetValue(m, &t)
		return nil

	case field.HasOptions:
		options := typed.Options()
		labels := make([]string, len(options))
		def := -1
		for i, option := range options {
			labels[i] = option.Label
			if option.Value == current {
				def = i
			}
		}
		idx, err := f.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: def})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			m.Set(base.Name, nil)
			return nil
		}
		m.Set(base.Name, options[idx].Value)
		return nil

	case *field.PasswordField:
		answer, err := f.driver.Password(ctx, InputConfig{Message: message})
		if err != nil {
			return err
		}
		setString(m, base.Name, answer)
		return nil

	case *field.TextArea:
		answer, err := f.driver.TextArea(ctx, InputConfig{Message: message, Default: current, Help: typed.Placeholder})
		if err != nil {
			return err
		}
		setString(m, base.Name, answer)
		return nil
	}

	cfg := InputConfig{Message: message, Default: current}
	if dt, ok := fd.(*field.DateTimeField); ok {
		cfg.Help = dt.Placeholder
		if cfg.Help == "" {
			cfg.Help = dt.Layout
		}
	}
	answer, err := f.driver.Input(ctx, cfg)
	if err != nil {
		return err
	}
	setString(m, base.Name, strings.TrimSpace(answer))
	return nil
}

func setString(m *input.Model, name, value string) {
	if value == "" {
		m.Set(name, nil)
		return
	}
	m.Set(name, value)
}
