package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formkit/pkg/schema"
)

// ErrNoPaths is returned for documents without any operations.
var ErrNoPaths = errors.New("openapi: document does not contain any paths")

// Operation is an OpenAPI operation reduced to its form definition.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	Fields      []schema.FieldSpec
}

// FormSpec returns the operation as a form definition.
func (o Operation) FormSpec() schema.FormSpec {
	title := o.Summary
	if title == "" {
		title = o.ID
	}
	return schema.FormSpec{Title: title, Fields: append([]schema.FieldSpec(nil), o.Fields...)}
}

// Option configures a Parser.
type Option func(*Parser)

// WithValidation validates the document before extracting operations.
func WithValidation() Option {
	return func(p *Parser) {
		p.validate = true
	}
}

// WithMaxDepth caps how deep nested object schemas are flattened.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

// WithMediaTypes sets the request body media types tried in order before
// falling back to any other declared content.
func WithMediaTypes(mediaTypes ...string) Option {
	return func(p *Parser) {
		if len(mediaTypes) > 0 {
			p.mediaTypes = append([]string(nil), mediaTypes...)
		}
	}
}

// Parser extracts form definitions from OpenAPI documents.
type Parser struct {
	validate   bool
	maxDepth   int
	mediaTypes []string
}

// NewParser returns a parser with the given options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		maxDepth:   4,
		mediaTypes: []string{"application/x-www-form-urlencoded", "multipart/form-data", "application/json"},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Operations parses a JSON or YAML document and returns its operations keyed
// by operationId. Operations without an id are keyed "method:path".
func (p *Parser) Operations(ctx context.Context, data []byte) (map[string]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if p.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, ErrNoPaths
	}

	operations := make(map[string]Operation)
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			operation, err := p.operation(method, path, op)
			if err != nil {
				return nil, err
			}
			if _, ok := operations[operation.ID]; ok {
				return nil, fmt.Errorf("openapi: duplicate operation %q", operation.ID)
			}
			operations[operation.ID] = operation
		}
	}
	return operations, nil
}

// Forms builds one form per operation that declares a request body.
func (p *Parser) Forms(ctx context.Context, data []byte, source string, loader *schema.Loader) (map[string]schema.Form, error) {
	if loader == nil {
		loader = schema.NewLoader()
	}
	operations, err := p.Operations(ctx, data)
	if err != nil {
		return nil, err
	}
	out := make(map[string]schema.Form, len(operations))
	for id, op := range operations {
		if len(op.Fields) == 0 {
			continue
		}
		form, err := loader.Build(id, op.FormSpec(), source)
		if err != nil {
			return nil, err
		}
		out[id] = form
	}
	return out, nil
}

func (p *Parser) operation(method, path string, op *openapi3.Operation) (Operation, error) {
	id := op.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	out := Operation{
		ID:          id,
		Method:      strings.ToUpper(method),
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
	}

	body := p.requestSchema(op.RequestBody)
	if body == nil {
		return out, nil
	}
	fields, err := p.fields(body, "", 0, map[string]bool{})
	if err != nil {
		return Operation{}, fmt.Errorf("openapi: operation %q: %w", id, err)
	}
	out.Fields = fields
	return out, nil
}

func (p *Parser) requestSchema(body *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range p.mediaTypes {
		if mt := content.Get(mediaType); mt != nil && mt.Schema != nil {
			return mt.Schema
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}
