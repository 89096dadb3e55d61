package store

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// Memory is an in-process Store used by tests and by dev mode.  Documents
// are kept as marshalled JSON so Get/Query hand out copies, never aliases
// of shared state.  All operations are guarded by one mutex, which also
// makes UpdateIf a true compare-and-set: exactly one of two racing callers
// with the same expected version can win.
type Memory struct {
	mu   sync.Mutex
	data map[string]map[string]json.RawMessage // collection -> id -> doc
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]json.RawMessage)}
}

func (m *Memory) Get(_ context.Context, collection, id string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (m *Memory) Set(_ context.Context, collection, id string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]json.RawMessage)
	}
	m.data[collection][id] = raw
	return nil
}

func (m *Memory) Update(_ context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.patchLocked(collection, id, fields)
}

func (m *Memory) UpdateIf(_ context.Context, collection, id string, fields map[string]any, expectedVersion uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	var probe struct {
		Version uint64 `json:"version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return err
	}
	if probe.Version != expectedVersion {
		return ErrVersionMismatch
	}
	return m.patchLocked(collection, id, fields)
}

func (m *Memory) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.data[collection], id)
	return nil
}

func (m *Memory) QueryByField(_ context.Context, collection, field string, value any, out any) error {
	want, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data[collection]))
	for id := range m.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var docs [][]byte
	for _, id := range ids {
		raw := m.data[collection][id]
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		if got, ok := doc[field]; ok && bytes.Equal(normalize(got), normalize(want)) {
			docs = append(docs, raw)
		}
	}
	return decodeList(docs, out)
}

func (m *Memory) All(_ context.Context, collection string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.data[collection]))
	for id := range m.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var docs [][]byte
	for _, id := range ids {
		docs = append(docs, m.data[collection][id])
	}
	return decodeList(docs, out)
}

// patchLocked merges fields into the stored document.  Caller holds m.mu.
func (m *Memory) patchLocked(collection, id string, fields map[string]any) error {
	raw, ok := m.data[collection][id]
	if !ok {
		return ErrNotFound
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for k, v := range fields {
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	m.data[collection][id] = merged
	return nil
}

// normalize re-marshals a JSON value so equivalent encodings compare equal.
func normalize(raw []byte) []byte {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return raw
	}
	b, err := json.Marshal(v)
	if err != nil {
		return raw
	}
	return b
}
