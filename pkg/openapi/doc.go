// Package openapi derives form definitions from the request bodies of
// OpenAPI 3 operations. Documents are parsed with kin-openapi; each
// operation's schema properties become schema.FieldSpec values which a
// schema.Loader turns into field descriptors.
//
// Property schemas map to kinds by type and format:
//
//	string               text
//	string/email         email
//	string/password      password
//	string/date-time     datetime
//	string/date          date
//	string + enum        select
//	integer              int
//	number               float
//	boolean              checkbox
//	object               flattened into dotted child names
//
// A property may override the mapping with an x-formkit extension holding
// any of kind, label, order, rows, prompt and labels (enum value to label).
package openapi
