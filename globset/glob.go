// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package globset implements the glob-pattern half of value-pairs
// selection: an ordered, append-only list of (pattern, include) entries
// evaluated with last-match-wins semantics.
package globset

import (
	"github.com/gobwas/glob"
	"github.com/pkg/errors"

	"github.com/thinkgos/valuepairs/host"
)

// Engine compiles wildcard patterns ('*' any run, '?' one character) using
// gobwas/glob. It satisfies host.GlobEngine.
type Engine struct{}

// NewEngine returns the default glob engine.
func NewEngine() Engine { return Engine{} }

// Compile implements host.GlobEngine.
func (sf Engine) Compile(pattern string) (host.CompiledGlob, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "globset: invalid pattern %q", pattern)
	}
	return compiled{g}, nil
}

type compiled struct {
	g glob.Glob
}

// Match implements host.CompiledGlob.
func (sf compiled) Match(s string) bool { return sf.g.Match(s) }

// Pattern is a single (glob, include) entry. Immutable once added to a
// List.
type Pattern struct {
	raw     string
	include bool
	glob    host.CompiledGlob
}

// Raw returns the original pattern text.
func (sf Pattern) Raw() string { return sf.raw }

// Include reports the entry's inclusion flag.
func (sf Pattern) Include() bool { return sf.include }

// List is an ordered, append-only list of glob patterns. The zero value
// compiles patterns with the default gobwas/glob engine; use NewListWithEngine
// to inject another host.GlobEngine.
type List struct {
	engine   host.GlobEngine
	patterns []Pattern
}

// NewList returns an empty List using the default glob engine.
func NewList() *List {
	return &List{engine: NewEngine()}
}

// NewListWithEngine returns an empty List compiling patterns with engine.
func NewListWithEngine(engine host.GlobEngine) *List {
	return &List{engine: engine}
}

// Add compiles pattern and appends it to the list. Compile failure is
// propagated to the caller; the list is left unchanged on error.
func (sf *List) Add(pattern string, include bool) error {
	if sf.engine == nil {
		sf.engine = NewEngine()
	}
	g, err := sf.engine.Compile(pattern)
	if err != nil {
		return err
	}
	sf.patterns = append(sf.patterns, Pattern{raw: pattern, include: include, glob: g})
	return nil
}

// Len reports the number of patterns in the list.
func (sf *List) Len() int {
	if sf == nil {
		return 0
	}
	return len(sf.patterns)
}

// Patterns returns the ordered pattern entries for inspection (e.g. by a
// YAML config dumper). The returned slice must not be mutated.
func (sf *List) Patterns() []Pattern {
	if sf == nil {
		return nil
	}
	return sf.patterns
}

// Eval evaluates the list against name starting from seed: every matching
// entry, in order, overwrites the running inclusion with its own include
// flag, so the last match wins.
func (sf *List) Eval(name string, seed bool) bool {
	included := seed
	if sf == nil {
		return included
	}
	for _, p := range sf.patterns {
		if p.glob.Match(name) {
			included = p.include
		}
	}
	return included
}
