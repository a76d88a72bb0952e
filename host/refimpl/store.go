// Copyright 2020 thinkgos (thinkgo@aliyun.com).  All rights reserved.
// Use of this source code is governed by a version 3 of the GNU General
// Public License, license that can be found in the LICENSE file.

package refimpl

import (
	"sort"
	"strings"
	"sync"

	"github.com/thinkgos/valuepairs/host"
)

// Store is a process-wide handle table over dynamic name-value names: it
// hands out a stable uint32 handle per distinct name the first time it is
// seen, and answers IsSDATAHandle/GetValue/ForEachNV against a *Message's
// Values table.
type Store struct {
	mu      sync.Mutex
	byName  map[string]uint32
	byIndex []string
}

var _ host.MessageStore = (*Store)(nil)

// processStore is the single handle table every NewStore call returns, so
// a handle resolved through one caller (valuespec.Init, for instance)
// names the same value for every other caller.
var processStore = &Store{byName: make(map[string]uint32)}

// NewStore returns the process-wide handle table.
func NewStore() *Store {
	return processStore
}

// ValueHandle implements host.MessageStore.
func (sf *Store) ValueHandle(name string) uint32 {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if h, ok := sf.byName[name]; ok {
		return h
	}
	h := uint32(len(sf.byIndex))
	sf.byName[name] = h
	sf.byIndex = append(sf.byIndex, name)
	return h
}

func (sf *Store) name(handle uint32) (string, bool) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if int(handle) >= len(sf.byIndex) {
		return "", false
	}
	return sf.byIndex[handle], true
}

// GetValue implements host.MessageStore.
func (sf *Store) GetValue(msg host.Message, handle uint32) (string, bool) {
	name, ok := sf.name(handle)
	if !ok {
		return "", false
	}
	m, ok := msg.(*Message)
	if !ok {
		return "", false
	}
	value, ok := m.Values[name]
	return value, ok
}

// IsSDATAHandle implements host.MessageStore. By convention an SDATA name
// is prefixed ".SDATA.".
func (sf *Store) IsSDATAHandle(handle uint32) bool {
	name, ok := sf.name(handle)
	return ok && strings.HasPrefix(name, ".SDATA.")
}

// ForEachNV implements host.MessageStore, visiting a *Message's Values in
// sorted name order for deterministic iteration.
func (sf *Store) ForEachNV(msg host.Message, fn func(handle uint32, name, value string) bool) {
	m, ok := msg.(*Message)
	if !ok {
		return
	}
	names := make([]string, 0, len(m.Values))
	for name := range m.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !fn(sf.ValueHandle(name), name, m.Values[name]) {
			return
		}
	}
}
