package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit"
	"github.com/goliatone/go-formkit/pkg/openapi"
	"github.com/goliatone/go-formkit/pkg/schema"
)

// formFlags selects a form from a definition file or directory.
type formFlags struct {
	id      string
	openapi bool
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.id, "form", "f", "", "form id (or OpenAPI operationId); optional when the source defines one form")
	cmd.Flags().BoolVar(&f.openapi, "openapi", false, "treat the source as an OpenAPI document")
}

func (a *app) loader() *schema.Loader {
	opts := []schema.LoaderOption{
		schema.WithTokenWindow(a.cfg.Window()),
		schema.WithClock(a.now),
	}
	if secret, err := a.cfg.SecretBytes(); err == nil {
		opts = append(opts, schema.WithSecret(secret))
	}
	return schema.NewLoader(opts...)
}

// loadForm resolves the definition source from args or the forms setting and
// returns the selected form.
func (a *app) loadForm(ctx context.Context, args []string, flags formFlags) (schema.Form, error) {
	source := a.cfg.Forms
	if len(args) > 0 {
		source = args[0]
	}
	if strings.TrimSpace(source) == "" {
		return schema.Form{}, errors.New("no definition source given (pass a path or set forms in the config)")
	}

	forms, err := a.loadForms(ctx, source, flags.openapi)
	if err != nil {
		if errors.Is(err, schema.ErrNoSecret) {
			return schema.Form{}, fmt.Errorf("%w (set FORMKIT_SECRET or --secret)", err)
		}
		return schema.Form{}, err
	}

	ids := forms.IDs()
	a.log.Debug("definitions loaded", zap.String("source", source), zap.Strings("forms", ids))

	id := flags.id
	if id == "" {
		if len(ids) != 1 {
			return schema.Form{}, fmt.Errorf("source %s defines %d forms, pick one with --form: %s", source, len(ids), strings.Join(ids, ", "))
		}
		id = ids[0]
	}
	form, ok := forms.Form(id)
	if !ok {
		return schema.Form{}, fmt.Errorf("form %q not found in %s (available: %s)", id, source, strings.Join(ids, ", "))
	}
	return form, nil
}

type formSet interface {
	IDs() []string
	Form(id string) (schema.Form, bool)
}

func (a *app) loadForms(ctx context.Context, source string, asOpenAPI bool) (formSet, error) {
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return a.loader().LoadFS(os.DirFS(source))
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, err
	}
	if asOpenAPI || looksLikeOpenAPI(data) {
		forms, err := openapi.NewParser().Forms(ctx, data, source, a.loader())
		if err != nil {
			return nil, err
		}
		return mapSet(forms), nil
	}
	forms, err := a.loader().Parse(data, source)
	if err != nil {
		return nil, err
	}
	return mapSet(forms), nil
}

type mapSet map[string]schema.Form

func (m mapSet) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (m mapSet) Form(id string) (schema.Form, bool) {
	form, ok := m[id]
	return form, ok
}

func looksLikeOpenAPI(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		return bytes.Contains(trimmed, []byte(`"openapi"`))
	}
	return bytes.HasPrefix(trimmed, []byte("openapi:")) || bytes.Contains(trimmed, []byte("\nopenapi:"))
}

// bind builds a formkit.Form for def. Prefixes from the definition win over
// the configured defaults.
func (a *app) bind(def schema.Form, values map[string][]string) *formkit.Form {
	if def.NamePrefix == "" {
		def.NamePrefix = a.cfg.Render.NamePrefix
	}
	if def.IDPrefix == "" {
		def.IDPrefix = a.cfg.Render.IDPrefix
	}
	return formkit.FromSchema(def, values)
}
