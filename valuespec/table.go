// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package valuespec

import (
	"sync"

	"github.com/thinkgos/valuepairs/host"
)

// Kind distinguishes how a Spec's value is produced.
type Kind uint8

// Kind values.
const (
	KindMacro Kind = iota
	KindMsgValue
)

func (sf Kind) String() string {
	switch sf {
	case KindMacro:
		return "macro"
	case KindMsgValue:
		return "msg-value"
	default:
		return "unknown"
	}
}

// Spec binds one name to either a macro id or a message-value handle,
// resolved once by Table.Init. AltName, when set, is consulted instead of
// Name during resolution (the rendered key is still Name).
type Spec struct {
	Name    string
	AltName string
	Kind    Kind
	ID      uint32
}

func (sf *Spec) resolve(macros host.MacroRegistry, store host.MessageStore) {
	name := sf.Name
	if sf.AltName != "" {
		name = sf.AltName
	}
	if id, ok := macros.Lookup(name); ok {
		sf.Kind = KindMacro
		sf.ID = id
		return
	}
	sf.Kind = KindMsgValue
	sf.ID = store.ValueHandle(name)
}

// Table is a static, ordered list of Specs. It is immutable after Init.
type Table []Spec

// Init resolves every entry's Kind/ID exactly once. Calling Init again is a
// no-op for entries already resolved, but Table does not track that itself
// — callers resolve a Table once via Tables.Init, guarded by sync.Once.
func (sf Table) Init(macros host.MacroRegistry, store host.MessageStore) {
	for i := range sf {
		sf[i].resolve(macros, store)
	}
}

// rfc3164Names lists the RFC 3164 ("BSD syslog") core fields. DATE gets
// no special-casing here: it is resolved and merged like any other entry,
// as a macro if the registry knows it, else as a message value.
var rfc3164Names = []string{
	"FACILITY",
	"PRIORITY",
	"HOST",
	"PROGRAM",
	"PID",
	"MESSAGE",
	"DATE",
}

var rfc5424Names = []string{
	"MSGID",
}

var selectedMacroNames = []string{
	"TAGS",
	"SOURCEIP",
	"SEQNUM",
}

// Tables bundles the four static tables a Projection merges from, resolved
// together exactly once per process.
type Tables struct {
	RFC3164        Table
	RFC5424        Table
	SelectedMacros Table
	AllMacros      Table
}

var (
	globalOnce   sync.Once
	globalTables Tables
)

func newTables() Tables {
	mk := func(names []string) Table {
		t := make(Table, len(names))
		for i, n := range names {
			t[i] = Spec{Name: n}
		}
		return t
	}
	return Tables{
		RFC3164:        mk(rfc3164Names),
		RFC5424:        mk(rfc5424Names),
		SelectedMacros: mk(selectedMacroNames),
	}
}

// Init returns the process-wide Tables, resolving them against macros and
// store exactly once (guarded by a sync.Once — configuration happens
// serially so no further locking is required after the first call
// returns).
func Init(macros host.MacroRegistry, store host.MessageStore) *Tables {
	globalOnce.Do(func() {
		globalTables = newTables()
		globalTables.RFC3164.Init(macros, store)
		globalTables.RFC5424.Init(macros, store)
		globalTables.SelectedMacros.Init(macros, store)

		names := macros.AllNames()
		all := make(Table, len(names))
		for i, n := range names {
			id, _ := macros.Lookup(n)
			all[i] = Spec{Name: n, Kind: KindMacro, ID: id}
		}
		globalTables.AllMacros = all
	})
	return &globalTables
}
