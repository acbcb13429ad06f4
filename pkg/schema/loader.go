package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formkit/pkg/input"
	"github.com/goliatone/go-formkit/pkg/token"
)

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithRegistry replaces the default kind registry.
func WithRegistry(registry *Registry) LoaderOption {
	return func(l *Loader) {
		if registry != nil {
			l.registry = registry
		}
	}
}

// WithSecret sets the secret token fields sign with.
func WithSecret(secret []byte) LoaderOption {
	return func(l *Loader) {
		l.env.Secret = append([]byte(nil), secret...)
	}
}

// WithTokenWindow sets the acceptance window of token fields.
func WithTokenWindow(window token.Window) LoaderOption {
	return func(l *Loader) {
		l.env.Window = window
	}
}

// WithLocation sets the default location of date fields.
func WithLocation(loc *time.Location) LoaderOption {
	return func(l *Loader) {
		l.env.Location = loc
	}
}

// WithClock sets the clock handed to token and date-select fields.
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.env.Now = now
	}
}

// Loader parses definition files into forms.
type Loader struct {
	registry *Registry
	env      Env
}

// NewLoader returns a loader using the built-in kinds.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{registry: NewRegistry()}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Store holds loaded forms by id.
type Store struct {
	forms map[string]Form
}

// Form returns the form with the given id.
func (s *Store) Form(id string) (Form, bool) {
	if s == nil {
		return Form{}, false
	}
	form, ok := s.forms[id]
	return form, ok
}

// IDs lists the form ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.forms))
	for id := range s.forms {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

// LoadFS walks fsys and loads every .json, .yaml and .yml file. A nil fsys
// yields an empty store. Form ids must be unique across files.
func (l *Loader) LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]Form)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", path, err)
		}
		forms, err := l.Parse(data, path)
		if err != nil {
			return err
		}
		for id, form := range forms {
			if existing, ok := store.forms[id]; ok {
				return fmt.Errorf("schema: duplicate form %q (files %s and %s)", id, existing.Source, path)
			}
			store.forms[id] = form
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

type documentFile struct {
	Forms map[string]FormSpec `json:"forms" yaml:"forms"`
}

// Parse builds the forms defined in a single JSON or YAML document.
func (l *Loader) Parse(data []byte, source string) (map[string]Form, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}
	if len(doc.Forms) == 0 {
		return nil, fmt.Errorf("schema: file %s defines no forms", source)
	}

	out := make(map[string]Form, len(doc.Forms))
	for rawID, spec := range doc.Forms {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return nil, fmt.Errorf("schema: file %s defines an empty form id", source)
		}
		form, err := l.Build(id, spec, source)
		if err != nil {
			return nil, err
		}
		out[id] = form
	}
	return out, nil
}

// Build turns a single form definition into a form. Field names must be
// unique once canonicalised.
func (l *Loader) Build(id string, spec FormSpec, source string) (Form, error) {
	form := Form{
		ID:         id,
		Title:      spec.Title,
		NamePrefix: spec.NamePrefix,
		IDPrefix:   spec.IDPrefix,
		Source:     source,
	}
	seen := make(map[string]struct{}, len(spec.Fields))
	for _, fieldSpec := range spec.Fields {
		path := input.Canonical(fieldSpec.Name)
		if _, ok := seen[path]; ok && path != "" {
			return Form{}, fmt.Errorf("schema: form %q (file %s) defines duplicate field %q", id, source, fieldSpec.Name)
		}
		seen[path] = struct{}{}

		f, err := l.registry.Build(fieldSpec, l.env)
		if err != nil {
			return Form{}, fmt.Errorf("schema: form %q (file %s): %w", id, source, err)
		}
		form.Fields = append(form.Fields, f)
	}
	return form, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("schema: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("schema: parse %s: %w", source, err)
	}
	return doc, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
