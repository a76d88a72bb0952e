// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package builder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkgos/valuepairs/builder"
	"github.com/thinkgos/valuepairs/host"
	"github.com/thinkgos/valuepairs/host/refimpl"
	"github.com/thinkgos/valuepairs/projection"
	"github.com/thinkgos/valuepairs/valuespec"
)

func newFixture() (*projection.Projection, *refimpl.Engine) {
	macros := refimpl.NewMacros()
	store := refimpl.NewStore()
	engine := refimpl.NewEngine(macros, store)
	return projection.New(macros, store), engine
}

func TestParseScope(t *testing.T) {
	proj, engine := newFixture()
	b := builder.New(proj, engine)

	require.NoError(t, b.ParseArgs([]string{"--scope", "rfc3164,sdata"}))
	assert.True(t, proj.Scope().Has(valuespec.RFC3164))
	assert.True(t, proj.Scope().Has(valuespec.SDATA))
}

func TestParseUnknownScope(t *testing.T) {
	proj, engine := newFixture()
	b := builder.New(proj, engine)

	err := b.ParseArgs([]string{"-s", "bogus"})
	assert.ErrorIs(t, err, builder.ErrUnknownScope)
}

func TestParsePositionalKeyVsPair(t *testing.T) {
	proj, engine := newFixture()
	b := builder.New(proj, engine)

	require.NoError(t, b.ParseArgs([]string{"foo*", "HOST=literal(x)"}))

	msg := refimpl.NewMessage()
	msg.Host = "real"
	msg.Set("foobar", "1")
	msg.Set("other", "2")

	out := proj.Evaluate(msg, host.TemplateOptions{}, false)
	_, ok := out.Get("foobar") // included by the positional glob "foo*"
	assert.True(t, ok)
	_, ok = out.Get("other") // not matched by any pattern
	assert.False(t, ok)
	value, ok := out.Get("HOST") // positional "HOST=literal(x)" parsed as an explicit pair
	require.True(t, ok)
	assert.Equal(t, "x", value.Value)
}

func TestParsePairMissingEquals(t *testing.T) {
	proj, engine := newFixture()
	b := builder.New(proj, engine)

	err := b.ParseArgs([]string{"--pair", "HOST"})
	assert.ErrorIs(t, err, builder.ErrPairMissingEquals)
}

func TestParsePairWithTypeHint(t *testing.T) {
	proj, engine := newFixture()
	b := builder.New(proj, engine)

	require.NoError(t, b.ParseArgs([]string{"--pair", "HOST=literal(override)"}))

	msg := refimpl.NewMessage()
	msg.Host = "real"
	out := proj.Evaluate(msg, host.TemplateOptions{}, false)
	value, ok := out.Get("HOST")
	require.True(t, ok)
	assert.Equal(t, "override", value.Value)
}

func TestRekeyShiftAddPrefix(t *testing.T) {
	proj, engine := newFixture()
	b := builder.New(proj, engine)

	require.NoError(t, b.ParseArgs([]string{
		"--scope", "nv-pairs",
		"--key", "foo.*",
		"--shift", "4",
		"--add-prefix", "X.",
	}))

	msg := refimpl.NewMessage()
	msg.Set("foo.bar", "1")
	out := proj.Evaluate(msg, host.TemplateOptions{}, false)
	value, ok := out.Get("X.bar")
	require.True(t, ok)
	assert.Equal(t, "1", value.Value)
}

func TestTransformWithoutRekeyContext(t *testing.T) {
	proj, engine := newFixture()
	b := builder.New(proj, engine)

	err := b.ParseArgs([]string{"--shift", "4"})
	assert.ErrorIs(t, err, builder.ErrTransformWithoutRekeyContext)
}

func TestReplacePrefixRequiresEquals(t *testing.T) {
	proj, engine := newFixture()
	b := builder.New(proj, engine)

	err := b.ParseArgs([]string{"--rekey", "foo.*", "--replace-prefix", "nosep"})
	assert.ErrorIs(t, err, builder.ErrReplacePrefixMissingEquals)
}

func TestRekeyFlushedByNextScope(t *testing.T) {
	// A --key without a following transform option still opens, and then
	// is silently dropped by, a rekey context once another accumulation
	// token arrives.
	proj, engine := newFixture()
	b := builder.New(proj, engine)

	require.NoError(t, b.ParseArgs([]string{"--key", "foo.*", "--scope", "nv-pairs"}))

	msg := refimpl.NewMessage()
	msg.Set("foo.bar", "1")
	out := proj.Evaluate(msg, host.TemplateOptions{}, false)
	_, ok := out.Get("foo.bar")
	assert.True(t, ok) // no transform was ever attached, key unchanged.
}

func TestShortFlagAttachedValue(t *testing.T) {
	proj, engine := newFixture()
	b := builder.New(proj, engine)

	require.NoError(t, b.ParseArgs([]string{"-srfc3164"}))
	assert.True(t, proj.Scope().Has(valuespec.RFC3164))
}
