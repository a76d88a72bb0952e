// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package valuespec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinkgos/valuepairs/host/refimpl"
	"github.com/thinkgos/valuepairs/valuespec"
)

func TestInitResolvesAgainstMacrosAndStore(t *testing.T) {
	macros := refimpl.NewMacros()
	store := refimpl.NewStore()

	tables := valuespec.Init(macros, store)
	require.NotNil(t, tables)

	var host *valuespec.Spec
	for i := range tables.RFC3164 {
		if tables.RFC3164[i].Name == "HOST" {
			host = &tables.RFC3164[i]
		}
	}
	require.NotNil(t, host)
	assert.Equal(t, valuespec.KindMacro, host.Kind)

	var message *valuespec.Spec
	for i := range tables.RFC3164 {
		if tables.RFC3164[i].Name == "MESSAGE" {
			message = &tables.RFC3164[i]
		}
	}
	require.NotNil(t, message)
	assert.Equal(t, valuespec.KindMsgValue, message.Kind)

	assert.NotEmpty(t, tables.AllMacros)
	for _, spec := range tables.AllMacros {
		assert.Equal(t, valuespec.KindMacro, spec.Kind)
	}
}

func TestInitIsProcessWideOnce(t *testing.T) {
	macros := refimpl.NewMacros()
	store := refimpl.NewStore()

	first := valuespec.Init(macros, store)
	second := valuespec.Init(macros, store)
	assert.Same(t, first, second)
}
