// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package refimpl

import (
	"fmt"

	"github.com/thinkgos/valuepairs/host"
)

// macroField binds a macro name to an accessor reading it off a *Message.
type macroField struct {
	name   string
	access func(*Message) string
}

// Macros is a fixed-table host.MacroRegistry over the fields Message
// exposes directly: HOST, PROGRAM, FACILITY, PID, MSGID, PRIORITY.
type Macros struct {
	fields []macroField
}

var _ host.MacroRegistry = (*Macros)(nil)

// NewMacros returns the standard macro table.
func NewMacros() *Macros {
	return &Macros{fields: []macroField{
		{"HOST", func(m *Message) string { return m.Host }},
		{"PROGRAM", func(m *Message) string { return m.Program }},
		{"FACILITY", func(m *Message) string { return m.Facility }},
		{"PID", func(m *Message) string { return m.Pid }},
		{"MSGID", func(m *Message) string { return m.MsgID }},
		{"PRIORITY", func(m *Message) string { return m.Priority }},
	}}
}

// Lookup implements host.MacroRegistry.
func (sf *Macros) Lookup(name string) (uint32, bool) {
	for i, f := range sf.fields {
		if f.name == name {
			return uint32(i), true
		}
	}
	return 0, false
}

// Expand implements host.MacroRegistry.
func (sf *Macros) Expand(id uint32, msg host.Message, _ host.TemplateOptions) (string, error) {
	if int(id) >= len(sf.fields) {
		return "", fmt.Errorf("refimpl: macro id %d out of range", id)
	}
	m, ok := msg.(*Message)
	if !ok {
		return "", fmt.Errorf("refimpl: macro expand against unexpected message type %T", msg)
	}
	return sf.fields[id].access(m), nil
}

// AllNames implements host.MacroRegistry.
func (sf *Macros) AllNames() []string {
	names := make([]string, len(sf.fields))
	for i, f := range sf.fields {
		names[i] = f.name
	}
	return names
}
