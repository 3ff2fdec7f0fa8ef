package protocol

import (
	"iter"

	"github.com/cespare/xxhash/v2"
)

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   Value
	Value Value
}

// Map is an insertion-ordered map keyed by Value. Keys are matched by structural equality
// (see Equal), never by identity: two independently built keys with the same tag and payload
// address the same entry. Keys must not be mutated after they have been inserted.
//
// The zero Map is empty and ready to use.
type Map struct {
	entries []Entry
	index   map[uint64][]int
}

// Len returns the number of entries.
func (m *Map) Len() int {
	return len(m.entries)
}

// Get returns the value stored under a key structurally equal to k.
func (m *Map) Get(k Value) (Value, bool) {
	if i, _ := m.find(k); i >= 0 {
		return m.entries[i].Value, true
	}
	return nil, false
}

// Has reports whether a key structurally equal to k is present.
func (m *Map) Has(k Value) bool {
	i, _ := m.find(k)
	return i >= 0
}

// Set stores v under k. If an equal key is already present its value is replaced in place
// and the entry keeps its position; otherwise the entry is appended.
func (m *Map) Set(k, v Value) {
	if k == nil {
		k = Null{}
	}
	if v == nil {
		v = Null{}
	}
	i, h := m.find(k)
	if i >= 0 {
		m.entries[i].Value = v
		return
	}
	if m.index == nil {
		m.index = make(map[uint64][]int)
	}
	m.index[h] = append(m.index[h], len(m.entries))
	m.entries = append(m.entries, Entry{Key: k, Value: v})
}

// Delete removes the entry stored under k and reports whether there was one.
func (m *Map) Delete(k Value) bool {
	i, _ := m.find(k)
	if i < 0 {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	m.reindex()
	return true
}

// ByIndex returns the value of the i-th entry in insertion order.
func (m *Map) ByIndex(i int) (Value, bool) {
	if i < 0 || i >= len(m.entries) {
		return nil, false
	}
	return m.entries[i].Value, true
}

// EntryAt returns the i-th entry in insertion order.
func (m *Map) EntryAt(i int) (Entry, bool) {
	if i < 0 || i >= len(m.entries) {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Entries returns a copy of the entries in insertion order.
func (m *Map) Entries() []Entry {
	entries := make([]Entry, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// All iterates over the entries in insertion order.
func (m *Map) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for _, entry := range m.entries {
			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}

// Equal reports whether both maps hold structurally equal entries in the same order.
func (m *Map) Equal(o *Map) bool {
	if len(m.entries) != len(o.entries) {
		return false
	}
	for i, entry := range m.entries {
		other := o.entries[i]
		if !Equal(entry.Key, other.Key) || !Equal(entry.Value, other.Value) {
			return false
		}
	}
	return true
}

func (m *Map) find(k Value) (int, uint64) {
	h := keyHash(k)
	for _, i := range m.index[h] {
		if Equal(m.entries[i].Key, k) {
			return i, h
		}
	}
	return -1, h
}

func (m *Map) reindex() {
	clear(m.index)
	for i, entry := range m.entries {
		h := keyHash(entry.Key)
		if m.index == nil {
			m.index = make(map[uint64][]int)
		}
		m.index[h] = append(m.index[h], i)
	}
}

// keyHash hashes the canonical tagged encoding of k. Keys that cannot be encoded hash by
// tag alone and are told apart by Equal.
func keyHash(k Value) uint64 {
	if k == nil {
		return 0
	}
	s := AcquireSink()
	defer ReleaseSink(s)
	if err := NewEncoder(s).Encode(k, true); err != nil {
		return uint64(k.Tag())
	}
	return xxhash.Sum64(s.Bytes())
}
