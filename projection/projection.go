// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package projection implements the selector/merger: the configured
// object that, given a message, builds a sorted key -> HintedValue map by
// composing built-in macro groups, the message's dynamic name-value
// pairs, SDATA, and explicit literal pairs, honoring glob-pattern
// inclusion/exclusion.
package projection

import (
	"go.uber.org/zap"

	"github.com/thinkgos/valuepairs/globset"
	"github.com/thinkgos/valuepairs/host"
	"github.com/thinkgos/valuepairs/outputmap"
	"github.com/thinkgos/valuepairs/transform"
	"github.com/thinkgos/valuepairs/valuespec"
)

type explicitPair struct {
	name string
	tmpl host.Template
}

// Projection is the configured value-pairs object: scope bitmask, glob
// patterns, explicit pairs and a rename chain. It is safe for concurrent
// read-only use by multiple goroutines evaluating distinct messages; see
// DESIGN.md for the reference-counting vs. garbage-collection tradeoff.
type Projection struct {
	macros host.MacroRegistry
	store  host.MessageStore
	tables *valuespec.Tables
	log    *zap.Logger

	scope      valuespec.Scope
	patterns   *globset.List
	explicit   []explicitPair
	transforms *transform.Chain
}

// Option configures a Projection at construction time.
type Option func(*Projection)

// WithLogger attaches a zap logger used for debug-level phase tracing.
// The default is zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(p *Projection) { p.log = log }
}

// WithGlobEngine overrides the engine used to compile glob patterns
// (default: globset.NewEngine(), backed by gobwas/glob).
func WithGlobEngine(engine host.GlobEngine) Option {
	return func(p *Projection) { p.patterns = globset.NewListWithEngine(engine) }
}

// New returns an empty Projection (scope 0x00, no patterns, no explicit
// pairs, no transforms) bound to macros and store. The static ValueSpec
// tables are resolved on the first call to New in the process (see
// valuespec.Init) and are read-only thereafter.
func New(macros host.MacroRegistry, store host.MessageStore, opts ...Option) *Projection {
	p := &Projection{
		macros:     macros,
		store:      store,
		tables:     valuespec.Init(macros, store),
		log:        zap.NewNop(),
		patterns:   globset.NewList(),
		transforms: &transform.Chain{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewDefault returns a Projection preset to the default scope combination:
// selected-macros, nv-pairs and sdata.
func NewDefault(macros host.MacroRegistry, store host.MessageStore, opts ...Option) *Projection {
	p := New(macros, store, opts...)
	p.scope |= valuespec.SelectedMacros | valuespec.NVPairs | valuespec.SDATA
	return p
}

// AddScope ORs scope's bits into the Projection's scope mask. Despite the
// source's handler being named CfgFlagHandler's "SET" op, repeated calls
// accumulate; that is what this does.
func (sf *Projection) AddScope(scope valuespec.Scope) {
	sf.scope |= scope
}

// AddScopeName resolves one of the accepted scope name spellings and ORs
// it in, or returns valuespec.ErrUnknownScope.
func (sf *Projection) AddScopeName(name string) error {
	scope, err := valuespec.ScopeFromName(name)
	if err != nil {
		return err
	}
	sf.AddScope(scope)
	return nil
}

// Scope returns the Projection's current scope mask.
func (sf *Projection) Scope() valuespec.Scope { return sf.scope }

// AddGlobPattern compiles and appends a (pattern, include) entry. Patterns
// are evaluated last-match-wins, in append order.
func (sf *Projection) AddGlobPattern(pattern string, include bool) error {
	return sf.patterns.Add(pattern, include)
}

// AddPair adds an explicit key=template pair. Explicit pairs are always
// included and are merged last, so they can override any derived value
// under the same transformed key.
func (sf *Projection) AddPair(name string, tmpl host.Template) {
	sf.explicit = append(sf.explicit, explicitPair{name: name, tmpl: tmpl})
}

// AddTransformSet appends a transform set to the rename chain.
func (sf *Projection) AddTransformSet(set *transform.Set) {
	sf.transforms.Add(set)
}

// transformKey applies the configured rename chain to key.
func (sf *Projection) transformKey(key string) string {
	return sf.transforms.Apply(key)
}

// Evaluate runs the selector/merger against msg and returns the resulting
// OutputMap, ordered per desc (true: descending, for the Walker; false:
// ascending, for flat consumers). Evaluation is infallible; value
// rendering that errors produces no insertion for that entry instead of
// aborting the whole evaluation.
func (sf *Projection) Evaluate(msg host.Message, opts host.TemplateOptions, desc bool) *outputmap.Map {
	var out *outputmap.Map
	if desc {
		out = outputmap.NewDescending()
	} else {
		out = outputmap.NewAscending()
	}

	// Phase 1: message NV-pairs (including SDATA).
	if sf.scope.HasAny(valuespec.NVPairs|valuespec.DotNVPairs|valuespec.SDATA|valuespec.RFC5424) || sf.patterns.Len() > 0 {
		sf.mergeMessageNV(msg, out)
	}

	// Phase 2: pattern-only macro merge (seed=false: patterns must opt in).
	if sf.patterns.Len() > 0 {
		sf.mergeOtherSet(sf.tables.AllMacros, msg, opts, out, false)
	}

	// Phase 3-6: scope-gated static table merges (seed=true: patterns may only exclude).
	if sf.scope.HasAny(valuespec.RFC3164 | valuespec.RFC5424 | valuespec.SelectedMacros) {
		sf.mergeOtherSet(sf.tables.RFC3164, msg, opts, out, true)
	}
	if sf.scope.Has(valuespec.RFC5424) {
		sf.mergeOtherSet(sf.tables.RFC5424, msg, opts, out, true)
	}
	if sf.scope.Has(valuespec.SelectedMacros) {
		sf.mergeOtherSet(sf.tables.SelectedMacros, msg, opts, out, true)
	}
	if sf.scope.Has(valuespec.AllMacros) {
		sf.mergeOtherSet(sf.tables.AllMacros, msg, opts, out, true)
	}

	// Phase 7: explicit pairs, merged last so they win any collision.
	sf.mergeExplicitPairs(msg, opts, out)

	sf.log.Debug("projection evaluated",
		zap.String("scope", sf.scope.String()),
		zap.Int("keys", out.Len()),
	)
	return out
}

func (sf *Projection) mergeMessageNV(msg host.Message, out *outputmap.Map) {
	sf.store.ForEachNV(msg, func(handle uint32, name, value string) bool {
		if len(value) == 0 {
			return true
		}
		seed := (len(name) > 0 && name[0] == '.' && sf.scope.Has(valuespec.DotNVPairs)) ||
			(len(name) > 0 && name[0] != '.' && sf.scope.Has(valuespec.NVPairs)) ||
			(sf.store.IsSDATAHandle(handle) && sf.scope.HasAny(valuespec.SDATA|valuespec.RFC5424))
		included := sf.patterns.Eval(name, seed)
		if !included {
			return true
		}
		out.Set(sf.transformKey(name), host.HintedValue{Hint: host.HintString, Value: value})
		return true
	})
}

// mergeOtherSet merges one static table into out. exclude selects the seed
// convention: true means patterns can only exclude (seed starts included),
// false means patterns must opt entries in.
func (sf *Projection) mergeOtherSet(set valuespec.Table, msg host.Message, opts host.TemplateOptions, out *outputmap.Map, exclude bool) {
	for _, entry := range set {
		if !sf.patterns.Eval(entry.Name, exclude) {
			continue
		}
		value, ok := sf.renderSpec(entry, msg, opts)
		if !ok || len(value) == 0 {
			continue
		}
		out.Set(sf.transformKey(entry.Name), host.HintedValue{Hint: host.HintString, Value: value})
	}
}

func (sf *Projection) renderSpec(entry valuespec.Spec, msg host.Message, opts host.TemplateOptions) (string, bool) {
	switch entry.Kind {
	case valuespec.KindMacro:
		value, err := sf.macros.Expand(entry.ID, msg, opts)
		if err != nil {
			sf.log.Debug("macro expand failed", zap.String("name", entry.Name), zap.Error(err))
			return "", false
		}
		return value, true
	case valuespec.KindMsgValue:
		return sf.store.GetValue(msg, entry.ID)
	default:
		return "", false
	}
}

func (sf *Projection) mergeExplicitPairs(msg host.Message, opts host.TemplateOptions, out *outputmap.Map) {
	for _, pair := range sf.explicit {
		value, hint, err := pair.tmpl.Render(msg, opts)
		if err != nil {
			sf.log.Debug("explicit pair render failed", zap.String("name", pair.name), zap.Error(err))
			continue
		}
		if len(value) == 0 {
			continue
		}
		out.Set(sf.transformKey(pair.name), host.HintedValue{Hint: hint, Value: value})
	}
}

// ForEach evaluates the Projection against msg and invokes fn for each
// resulting (key, value) pair in ascending lexicographic order. fn's
// return values are combined by logical AND into a running accumulator;
// once that accumulator is false, no further callbacks are invoked — the
// first failing callback halts traversal. ForEach returns the final
// accumulator value.
func (sf *Projection) ForEach(msg host.Message, opts host.TemplateOptions, fn func(key string, value host.HintedValue) bool) bool {
	out := sf.Evaluate(msg, opts, false)
	result := true
	out.Each(func(key string, value host.HintedValue) bool {
		if !result {
			return false
		}
		result = result && fn(key, value)
		return result
	})
	return result
}

// DebugString renders a flat "key=value " dump of the Projection's
// evaluation against msg, suitable for a debug log tag.
func (sf *Projection) DebugString(msg host.Message, opts host.TemplateOptions) string {
	return sf.Evaluate(msg, opts, false).String()
}
