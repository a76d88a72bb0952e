// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

// Package valuespec holds the static tables the selector/merger consults:
// the RFC3164/RFC5424/selected-macros/all-macros name lists, resolved once
// per process against a macro registry and message store, plus the scope
// bitmask those tables are gated behind.
package valuespec

import "github.com/pkg/errors"

// Scope is a bitmask of the named groups a Projection pulls values from.
// Bit values must be preserved exactly for on-disk config compatibility.
type Scope uint32

// Scope bits.
const (
	NVPairs        Scope = 0x01
	DotNVPairs     Scope = 0x02
	RFC3164        Scope = 0x04
	RFC5424        Scope = 0x08
	AllMacros      Scope = 0x10
	SelectedMacros Scope = 0x20
	SDATA          Scope = 0x40
	Everything     Scope = 0x7f
)

func (sf Scope) String() string {
	if sf == Everything {
		return "everything"
	}
	names := []struct {
		bit  Scope
		name string
	}{
		{NVPairs, "nv-pairs"},
		{DotNVPairs, "dot-nv-pairs"},
		{RFC3164, "rfc3164"},
		{RFC5424, "rfc5424"},
		{AllMacros, "all-macros"},
		{SelectedMacros, "selected-macros"},
		{SDATA, "sdata"},
	}
	s := ""
	for _, n := range names {
		if sf&n.bit != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// Has reports whether every bit in want is set in sf.
func (sf Scope) Has(want Scope) bool { return sf&want == want }

// HasAny reports whether any bit in want is set in sf.
func (sf Scope) HasAny(want Scope) bool { return sf&want != 0 }

// ErrUnknownScope is returned by ScopeFromName for an unrecognized scope
// name.
var ErrUnknownScope = errors.New("valuespec: unknown scope")

// ScopeFromName resolves one of the accepted scope name spellings to its
// bitmask. Unknown names return ErrUnknownScope.
func ScopeFromName(name string) (Scope, error) {
	switch name {
	case "nv-pairs":
		return NVPairs, nil
	case "dot-nv-pairs":
		return DotNVPairs, nil
	case "all-nv-pairs":
		return NVPairs | DotNVPairs, nil
	case "rfc3164", "core", "base":
		return RFC3164, nil
	case "rfc5424", "syslog-proto":
		return RFC5424, nil
	case "all-macros":
		return AllMacros, nil
	case "selected-macros":
		return SelectedMacros, nil
	case "sdata":
		return SDATA, nil
	case "everything":
		return Everything, nil
	default:
		return 0, errors.Wrapf(ErrUnknownScope, "%q", name)
	}
}
