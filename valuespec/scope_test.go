// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package valuespec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkgos/valuepairs/valuespec"
)

func TestScopeFromName(t *testing.T) {
	tests := []struct {
		name string
		want valuespec.Scope
	}{
		{"nv-pairs", valuespec.NVPairs},
		{"dot-nv-pairs", valuespec.DotNVPairs},
		{"all-nv-pairs", valuespec.NVPairs | valuespec.DotNVPairs},
		{"rfc3164", valuespec.RFC3164},
		{"core", valuespec.RFC3164},
		{"base", valuespec.RFC3164},
		{"rfc5424", valuespec.RFC5424},
		{"syslog-proto", valuespec.RFC5424},
		{"all-macros", valuespec.AllMacros},
		{"selected-macros", valuespec.SelectedMacros},
		{"sdata", valuespec.SDATA},
		{"everything", valuespec.Everything},
	}
	for _, tt := range tests {
		got, err := valuespec.ScopeFromName(tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestScopeFromNameUnknown(t *testing.T) {
	_, err := valuespec.ScopeFromName("bogus")
	assert.ErrorIs(t, err, valuespec.ErrUnknownScope)
}

func TestScopeAccumulatesByOr(t *testing.T) {
	// Scope application is additive across calls, not a replacing "set".
	var scope valuespec.Scope
	scope |= valuespec.SelectedMacros
	scope |= valuespec.NVPairs
	scope |= valuespec.SDATA

	assert.True(t, scope.Has(valuespec.SelectedMacros))
	assert.True(t, scope.Has(valuespec.NVPairs))
	assert.True(t, scope.Has(valuespec.SDATA))
	assert.False(t, scope.Has(valuespec.RFC5424))
}

func TestEverythingIsAllBitsPreserved(t *testing.T) {
	assert.Equal(t, valuespec.Scope(0x7f), valuespec.Everything)
}
