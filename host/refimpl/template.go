// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package refimpl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/thinkgos/valuepairs/host"
)

// refVar matches a $NAME or ${NAME} macro/value reference inside template
// source text.
var refVar = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// knownHints are the type hints this template engine accepts via
// SetTypeHint; an unrecognized tag string produces a compile-time error.
var knownHints = map[host.TypeHint]bool{
	host.HintString:   true,
	host.HintInt:      true,
	host.HintBool:     true,
	host.HintDouble:   true,
	host.HintDatetime: true,
	host.HintLiteral:  true,
}

// Engine compiles template text against a fixed macro registry and value
// store.
type Engine struct {
	macros *Macros
	store  *Store
}

var _ host.TemplateEngine = (*Engine)(nil)

// NewEngine returns a TemplateEngine resolving $NAME references against
// macros and store.
func NewEngine(macros *Macros, store *Store) *Engine {
	return &Engine{macros: macros, store: store}
}

// Compile implements host.TemplateEngine. It never fails: any malformed
// $-reference is left as literal text, matching a permissive "best
// effort" template compiler. (A stricter engine could validate references
// against the macro/store tables up front; this one defers that to
// render time, where an unresolved reference simply expands to "".)
func (sf *Engine) Compile(text string) (host.Template, error) {
	return &Template{engine: sf, source: text}, nil
}

// Template is a compiled template bound to the Engine that produced it.
type Template struct {
	engine *Engine
	source string
	hint   host.TypeHint
}

var _ host.Template = (*Template)(nil)

// SetTypeHint implements host.Template.
func (sf *Template) SetTypeHint(hint string) error {
	if hint == "" {
		sf.hint = ""
		return nil
	}
	h := host.TypeHint(strings.ToLower(hint))
	if !knownHints[h] {
		return fmt.Errorf("refimpl: unknown type hint %q", hint)
	}
	sf.hint = h
	return nil
}

// Render implements host.Template. A "literal" hint bypasses $-reference
// substitution entirely, so `literal(some $TEXT)` is returned verbatim.
func (sf *Template) Render(msg host.Message, opts host.TemplateOptions) (string, host.TypeHint, error) {
	hint := sf.hint
	if hint == "" {
		hint = host.HintString
	}
	if hint == host.HintLiteral {
		return sf.source, hint, nil
	}

	rendered := refVar.ReplaceAllStringFunc(sf.source, func(ref string) string {
		name := refVar.FindStringSubmatch(ref)[1]
		if name == "" {
			name = refVar.FindStringSubmatch(ref)[2]
		}
		if id, ok := sf.engine.macros.Lookup(name); ok {
			value, err := sf.engine.macros.Expand(id, msg, opts)
			if err != nil {
				return ""
			}
			return value
		}
		handle := sf.engine.store.ValueHandle(name)
		value, _ := sf.engine.store.GetValue(msg, handle)
		return value
	})

	switch hint {
	case host.HintInt:
		if _, err := strconv.ParseInt(strings.TrimSpace(rendered), 10, 64); err != nil {
			return "", "", fmt.Errorf("refimpl: %q is not an int: %w", rendered, err)
		}
	case host.HintDouble:
		if _, err := strconv.ParseFloat(strings.TrimSpace(rendered), 64); err != nil {
			return "", "", fmt.Errorf("refimpl: %q is not a double: %w", rendered, err)
		}
	case host.HintBool:
		if _, err := strconv.ParseBool(strings.TrimSpace(rendered)); err != nil {
			return "", "", fmt.Errorf("refimpl: %q is not a bool: %w", rendered, err)
		}
	}
	return rendered, hint, nil
}
