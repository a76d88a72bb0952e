// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package outputmap implements the ordered map a Projection evaluates
// into: final key -> HintedValue, with a comparator chosen at
// construction time and never mutated afterward (flat consumers iterate
// ascending, the walker descending).
package outputmap

import (
	"strings"

	"github.com/google/btree"

	"github.com/thinkgos/valuepairs/host"
)

const degree = 32

type entry struct {
	key   string
	value host.HintedValue
}

// Map is an ordered key -> HintedValue map backed by a B-tree. Duplicate
// keys are resolved by replacement: the later insert wins and the earlier
// HintedValue is discarded.
type Map struct {
	tree *btree.BTreeG[entry]
	desc bool
}

// NewAscending returns a Map ordered by ascending lexicographic key order
// (the default flat-iteration comparator).
func NewAscending() *Map {
	return &Map{
		tree: btree.NewG(degree, func(a, b entry) bool {
			return a.key < b.key
		}),
	}
}

// NewDescending returns a Map ordered by descending lexicographic key
// order — the comparator the Walker requires for its unwind-on-prefix-
// mismatch traversal.
func NewDescending() *Map {
	return &Map{
		desc: true,
		tree: btree.NewG(degree, func(a, b entry) bool {
			return a.key > b.key
		}),
	}
}

// Set inserts or replaces the value at key.
func (sf *Map) Set(key string, value host.HintedValue) {
	sf.tree.ReplaceOrInsert(entry{key: key, value: value})
}

// Get looks up key.
func (sf *Map) Get(key string) (host.HintedValue, bool) {
	e, ok := sf.tree.Get(entry{key: key})
	return e.value, ok
}

// Len reports the number of distinct keys held.
func (sf *Map) Len() int {
	if sf == nil || sf.tree == nil {
		return 0
	}
	return sf.tree.Len()
}

// Descending reports whether the map iterates in descending key order.
func (sf *Map) Descending() bool { return sf.desc }

// Each visits every (key, value) pair in the map's comparator order. The
// walk stops early if fn returns false — callers combine this with an
// external success accumulator to implement "first failing callback halts
// traversal" semantics.
func (sf *Map) Each(fn func(key string, value host.HintedValue) bool) {
	if sf == nil || sf.tree == nil {
		return
	}
	visit := func(e entry) bool { return fn(e.key, e.value) }
	if sf.desc {
		sf.tree.Descend(visit)
	} else {
		sf.tree.Ascend(visit)
	}
}

// Keys returns every key in the map's comparator order, primarily for
// tests and debugging.
func (sf *Map) Keys() []string {
	keys := make([]string, 0, sf.Len())
	sf.Each(func(key string, _ host.HintedValue) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// String renders the map as "key=value " pairs in comparator order, for
// diagnostic logging (see Projection.DebugString).
func (sf *Map) String() string {
	var b strings.Builder
	sf.Each(func(key string, value host.HintedValue) bool {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value.Value)
		b.WriteByte(' ')
		return true
	})
	return b.String()
}
