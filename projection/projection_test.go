// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package projection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkgos/valuepairs/host"
	"github.com/thinkgos/valuepairs/host/refimpl"
	"github.com/thinkgos/valuepairs/projection"
	"github.com/thinkgos/valuepairs/transform"
	"github.com/thinkgos/valuepairs/valuespec"
)

func newFixture() (*refimpl.Macros, *refimpl.Store, *refimpl.Engine) {
	macros := refimpl.NewMacros()
	store := refimpl.NewStore()
	return macros, store, refimpl.NewEngine(macros, store)
}

// TestEmptyValuesDropped verifies that an empty-valued macro must not
// appear in the output, but a non-empty one in the same scope must.
func TestEmptyValuesDropped(t *testing.T) {
	macros, store, _ := newFixture()
	msg := refimpl.NewMessage()
	msg.Host = ""
	msg.Program = "x"

	p := projection.New(macros, store)
	p.AddScopeName("rfc3164")

	out := p.Evaluate(msg, host.TemplateOptions{}, false)
	value, ok := out.Get("PROGRAM")
	require.True(t, ok)
	assert.Equal(t, "x", value.Value)

	_, ok = out.Get("HOST")
	assert.False(t, ok)
}

// TestLastMatchWins verifies last-match-wins glob semantics at the
// Projection level.
func TestLastMatchWins(t *testing.T) {
	macros, store, _ := newFixture()
	msg := refimpl.NewMessage()
	msg.Set("foo", "1")
	msg.Set("foobar", "2")

	p := projection.New(macros, store)
	p.AddScopeName("nv-pairs")
	require.NoError(t, p.AddGlobPattern("foo*", true))
	require.NoError(t, p.AddGlobPattern("foobar", false))

	out := p.Evaluate(msg, host.TemplateOptions{}, false)
	_, ok := out.Get("foo")
	assert.True(t, ok)
	_, ok = out.Get("foobar")
	assert.False(t, ok)
}

// TestExplicitOverridesDerived verifies an explicit pair overrides a
// derived value under the same key.
func TestExplicitOverridesDerived(t *testing.T) {
	macros, store, engine := newFixture()
	msg := refimpl.NewMessage()
	msg.Host = "real-host"

	p := projection.New(macros, store)
	p.AddScopeName("rfc3164")

	tmpl, err := engine.Compile("override")
	require.NoError(t, err)
	require.NoError(t, tmpl.SetTypeHint("literal"))
	p.AddPair("HOST", tmpl)

	out := p.Evaluate(msg, host.TemplateOptions{}, false)
	value, ok := out.Get("HOST")
	require.True(t, ok)
	assert.Equal(t, "override", value.Value)
}

// TestTransformChain verifies a rekey context on "foo.*" with steps
// [shift 4, add-prefix "X."] renames the matching key.
func TestTransformChain(t *testing.T) {
	macros, store, _ := newFixture()
	msg := refimpl.NewMessage()
	msg.Set("foo.bar", "1")

	p := projection.New(macros, store)
	p.AddScopeName("nv-pairs")

	set := transform.NewSet("foo.*")
	set.Add(transform.Shift{N: 4})
	set.Add(transform.AddPrefix{S: "X."})
	p.AddTransformSet(set)

	out := p.Evaluate(msg, host.TemplateOptions{}, false)
	value, ok := out.Get("X.bar")
	require.True(t, ok)
	assert.Equal(t, "1", value.Value)
}

// TestSDATAViaRFC5424 verifies a single SDATA key survives scope rfc5424
// unmodified (the hierarchical-walk side of this behavior is covered in
// package walker).
func TestSDATAViaRFC5424(t *testing.T) {
	macros, store, _ := newFixture()
	msg := refimpl.NewMessage()
	msg.Set(".SDATA.foo@1.2.3.bar", "v")

	p := projection.New(macros, store)
	p.AddScopeName("rfc5424")

	out := p.Evaluate(msg, host.TemplateOptions{}, false)
	value, ok := out.Get(".SDATA.foo@1.2.3.bar")
	require.True(t, ok)
	assert.Equal(t, "v", value.Value)
	assert.Equal(t, 1, out.Len())
}

// TestScopeMonotonicity verifies enabling an additional scope bit
// produces a superset of keys.
func TestScopeMonotonicity(t *testing.T) {
	macros, store, _ := newFixture()
	msg := refimpl.NewMessage()
	msg.Host, msg.Program = "h", "p"
	msg.Set("TAGS", "t")

	narrow := projection.New(macros, store)
	narrow.AddScopeName("rfc3164")
	narrowKeys := narrow.Evaluate(msg, host.TemplateOptions{}, false).Keys()

	wide := projection.New(macros, store)
	wide.AddScope(valuespec.RFC3164 | valuespec.SelectedMacros)
	wideKeys := wide.Evaluate(msg, host.TemplateOptions{}, false).Keys()

	narrowSet := make(map[string]bool, len(narrowKeys))
	for _, k := range narrowKeys {
		narrowSet[k] = true
	}
	for k := range narrowSet {
		assert.Contains(t, wideKeys, k)
	}
	assert.Greater(t, len(wideKeys), len(narrowKeys))
}

// TestForEachShortCircuits checks that ForEach halts on the first failing
// callback rather than visiting every key.
func TestForEachShortCircuits(t *testing.T) {
	macros, store, _ := newFixture()
	msg := refimpl.NewMessage()
	msg.Set("a", "1")
	msg.Set("b", "2")

	p := projection.New(macros, store)
	p.AddScopeName("nv-pairs")

	var seen []string
	ok := p.ForEach(msg, host.TemplateOptions{}, func(key string, _ host.HintedValue) bool {
		seen = append(seen, key)
		return false
	})
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, seen)
}
