// Package host names the collaborator interfaces the projection engine
// consumes from its surrounding log driver: a message store, a macro
// registry, a template engine and a glob engine. The engine never assumes
// a concrete implementation of any of these; see host/refimpl for one.
package host

// TypeHint tags a rendered value with how a downstream serializer should
// encode it. The zero value is HintString.
type TypeHint string

// Well-known type hints. TemplateEngine implementations may also return
// hints produced by their own type-parser; HintString is merely the
// default.
const (
	HintString   TypeHint = "string"
	HintInt      TypeHint = "int"
	HintBool     TypeHint = "bool"
	HintDouble   TypeHint = "double"
	HintDatetime TypeHint = "datetime"
	HintLiteral  TypeHint = "literal"
)

// TemplateOptions carries the rendering knobs a Template needs beyond the
// message itself (time-zone display mode, sequence number). The engine
// treats its contents as opaque and only forwards them.
type TemplateOptions struct {
	TimeZoneMode int
	SeqNum       int32
}

// Message is the opaque log event the engine projects values out of. The
// engine never inspects a Message directly; all access goes through
// MessageStore, MacroRegistry and Template.
type Message interface{}

// MacroRegistry resolves built-in macro names (HOST, PROGRAM, FACILITY,
// ...) to numeric ids and expands an id against a message.
type MacroRegistry interface {
	// Lookup returns the macro id for name, or ok=false if name is not a
	// built-in macro.
	Lookup(name string) (id uint32, ok bool)
	// Expand renders macro id against msg.
	Expand(id uint32, msg Message, opts TemplateOptions) (string, error)
	// AllNames returns every built-in macro name known to the registry,
	// in a stable order. It backs the ALL_MACROS scope.
	AllNames() []string
}

// MessageStore is the dynamic name-value side of a Message: its payload
// table (including RFC 5424 SDATA) and handle-based value access.
type MessageStore interface {
	// ValueHandle allocates or returns the handle bound to name. Handles
	// are stable for the lifetime of the process.
	ValueHandle(name string) uint32
	// GetValue reads the value bound to handle on msg.
	GetValue(msg Message, handle uint32) (value string, ok bool)
	// IsSDATAHandle reports whether handle was allocated for an RFC 5424
	// structured-data name (by convention, one whose name starts with
	// ".SDATA.").
	IsSDATAHandle(handle uint32) bool
	// ForEachNV enumerates every dynamic name-value pair attached to msg,
	// including SDATA. fn returning false stops enumeration early.
	ForEachNV(msg Message, fn func(handle uint32, name, value string) bool)
}

// Template is a compiled, reusable rendering unit bound to one explicit
// pair's value expression.
type Template interface {
	// SetTypeHint parses and attaches a type hint string (the TYPE in
	// TYPE(VALUE) explicit-pair syntax); hint == "" clears it.
	SetTypeHint(hint string) error
	// Render evaluates the template against msg.
	Render(msg Message, opts TemplateOptions) (value string, hint TypeHint, err error)
}

// TemplateEngine compiles template source text into a reusable Template.
type TemplateEngine interface {
	Compile(text string) (Template, error)
}

// HintedValue pairs a rendered value with its type hint. It is the unit of
// storage in an OutputMap.
type HintedValue struct {
	Hint  TypeHint
	Value string
}

// CompiledGlob matches a single compiled wildcard pattern.
type CompiledGlob interface {
	Match(s string) bool
}

// GlobEngine compiles wildcard patterns ('*' any run, '?' one character).
type GlobEngine interface {
	Compile(pattern string) (CompiledGlob, error)
}
