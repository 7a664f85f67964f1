package rules

type memoEntry struct {
	details Details
	found   bool
}

// Memo remembers every answer of the wrapped resolver, misses included.
// It is not safe for concurrent use.
type Memo struct {
	next    Resolver
	entries map[string]memoEntry
}

// NewMemo wraps next with an in-memory cache.
func NewMemo(next Resolver) *Memo {
	if next == nil {
		next = None
	}
	return &Memo{
		next:    next,
		entries: make(map[string]memoEntry),
	}
}

// Lookup returns the remembered answer for key, asking the wrapped resolver
// on first use.
func (m *Memo) Lookup(key string) (Details, bool) {
	if e, ok := m.entries[key]; ok {
		return e.details, e.found
	}
	d, found := m.next.Lookup(key)
	m.entries[key] = memoEntry{details: d, found: found}
	return d, found
}

// Len returns the number of remembered keys.
func (m *Memo) Len() int {
	return len(m.entries)
}
