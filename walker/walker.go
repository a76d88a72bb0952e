// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package walker re-reads a Projection's OutputMap and emits SAX-style
// hierarchical start/value/end events by tokenizing dotted keys into a
// path, including the RFC 5424 enterprise-ID lexical rule.
package walker

import (
	"strings"

	"go.uber.org/zap"

	"github.com/thinkgos/valuepairs/host"
	"github.com/thinkgos/valuepairs/outputmap"
)

// Node is one open container on the walk stack: its key, its full dotted
// prefix, and a per-frame opaque slot the consumer may read and write
// during ObjStart/ProcessValue/ObjEnd. Data is a type parameter so
// per-frame state stays typed instead of boxed behind an interface{}.
type Node[T any] struct {
	Key    string
	Prefix string
	Data   T
}

// Callbacks bundles the three SAX hooks a Walk invokes. Each returns
// false to signal failure; once any callback returns false, no further
// callbacks run and Walk returns false (callback results combine by
// boolean AND).
//
// ObjStart and ObjEnd each receive node == nil once per walk: the
// outermost root bracket that lets a consumer establish its root state.
// The closing ObjEnd(nil, nil) is not called once a callback has failed.
// parent is nil when node has no enclosing container.
type Callbacks[T any] struct {
	ObjStart     func(node, parent *Node[T]) bool
	ObjEnd       func(node, parent *Node[T]) bool
	ProcessValue func(key string, parent *Node[T], hint host.TypeHint, value string) bool
}

// Option configures a Walk call at invocation time.
type Option func(*config)

type config struct {
	log *zap.Logger
}

// WithLogger attaches a zap logger used for debug-level phase tracing of
// container open/close events. The default is zap.NewNop().
func WithLogger(log *zap.Logger) Option {
	return func(c *config) { c.log = log }
}

// Walk consumes m (which must be ordered descending — outputmap.NewDescending)
// and emits the Callbacks. It returns the AND of every callback's result,
// short-circuiting on the first false.
func Walk[T any](m *outputmap.Map, cb Callbacks[T], opts ...Option) bool {
	cfg := config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var stack []*Node[T]
	result := true

	and := func(ok bool) bool {
		result = result && ok
		return result
	}
	top := func() *Node[T] {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}
	objStart := func(node, parent *Node[T]) bool {
		key := ""
		if node != nil {
			key = node.Key
		}
		cfg.log.Debug("walk object start", zap.String("key", key))
		return and(cb.ObjStart(node, parent))
	}
	objEnd := func(node, parent *Node[T]) bool {
		key := ""
		if node != nil {
			key = node.Key
		}
		cfg.log.Debug("walk object end", zap.String("key", key))
		return and(cb.ObjEnd(node, parent))
	}
	unwindUntil := func(name string, hasName bool) {
		for len(stack) > 0 && result {
			t := stack[len(stack)-1]
			if hasName && strings.HasPrefix(name, t.Prefix) {
				break
			}
			stack = stack[:len(stack)-1]
			if !objEnd(t, top()) {
				return
			}
		}
	}

	if !objStart(nil, nil) {
		return result
	}

	m.Each(func(name string, value host.HintedValue) bool {
		unwindUntil(name, true)
		if !result {
			return false
		}

		tokens := tokenize(name)
		for i := len(stack); i < len(tokens)-1; i++ {
			parent := top()
			node := &Node[T]{Key: tokens[i], Prefix: joinPrefix(tokens, i)}
			stack = append(stack, node)
			if !objStart(node, parent) {
				return false
			}
		}

		leafKey := ""
		if len(tokens) > 0 {
			leafKey = tokens[len(tokens)-1]
		}
		cfg.log.Debug("walk process value", zap.String("key", leafKey))
		if !and(cb.ProcessValue(leafKey, top(), value.Hint, value.Value)) {
			return false
		}
		return true
	})

	if result {
		unwindUntil("", false)
	}
	if result {
		objEnd(nil, nil)
	}
	return result
}

func joinPrefix(tokens []string, until int) string {
	var b strings.Builder
	for i := 0; i < until; i++ {
		b.WriteString(tokens[i])
		b.WriteByte('.')
	}
	b.WriteString(tokens[until])
	return b.String()
}
