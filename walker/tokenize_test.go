// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTokenizeEnterpriseIDGrammar checks the enterprise-id tokenization
// grammar.
func TestTokenizeEnterpriseIDGrammar(t *testing.T) {
	tests := []struct {
		name string
		want []string
	}{
		{"foo@1.2.3.bar", []string{"foo@1.2.3", "bar"}},
		{"foo@1.bar", []string{"foo@1", "bar"}},
		{"foo.bar", []string{"foo", "bar"}},
		{"a.b.c", []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tokenize(tt.name))
	}
}

// TestTokenizeSDATALeadingDot verifies a name starting with '.' produces
// a documented empty leading token rather than silently dropping it.
func TestTokenizeSDATALeadingDot(t *testing.T) {
	got := tokenize(".SDATA.foo@1.2.3.bar")
	assert.Equal(t, []string{"", "SDATA", "foo@1.2.3", "bar"}, got)
}
