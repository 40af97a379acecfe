package store

import (
	"context"
	"strings"
	"sync"
)

// Compile-time assertion: *MemStore satisfies Store.
var _ Store = (*MemStore)(nil)

// MemStore implements Store with Go maps. Thread-safe via sync.RWMutex.
type MemStore struct {
	mu        sync.RWMutex
	modules   map[string]ModuleNode
	functions map[string]FunctionNode
	contains  [][2]string // [moduleID, functionID]
	calls     [][2]string // [callerID, calleeID]
}

// NewMemStore returns an initialized MemStore ready for use.
func NewMemStore() *MemStore {
	return &MemStore{
		modules:   make(map[string]ModuleNode),
		functions: make(map[string]FunctionNode),
	}
}

// InitSchema is a no-op for the in-memory store.
func (m *MemStore) InitSchema(_ context.Context) error { return nil }

func (m *MemStore) AddModule(_ context.Context, node ModuleNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.modules[node.ID] = node
	return nil
}

func (m *MemStore) AddFunction(_ context.Context, node FunctionNode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.functions[node.ID] = node
	return nil
}

func (m *MemStore) AddContains(_ context.Context, moduleID, functionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contains = append(m.contains, [2]string{moduleID, functionID})
	return nil
}

func (m *MemStore) AddCall(_ context.Context, callerID, calleeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, [2]string{callerID, calleeID})
	return nil
}

// GetFunction returns the function node for id, or nil when absent.
func (m *MemStore) GetFunction(_ context.Context, id string) (*FunctionNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.functions[id]
	if !ok {
		return nil, nil
	}
	return &fn, nil
}

// QueryFunctions returns functions whose name contains name
// (case-insensitive), up to limit results. A limit <= 0 returns all matches.
func (m *MemStore) QueryFunctions(_ context.Context, name string, limit int) ([]FunctionNode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	needle := strings.ToLower(name)
	var results []FunctionNode
	for _, fn := range m.functions {
		if strings.Contains(strings.ToLower(fn.Name), needle) {
			results = append(results, fn)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results, nil
}

// Callees performs a BFS over CALLS edges from id, up to maxDepth hops.
func (m *MemStore) Callees(_ context.Context, id string, maxDepth int) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if maxDepth <= 0 {
		return nil, nil
	}

	visited := map[string]bool{id: true}
	frontier := []string{id}
	var reachable []string

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, cur := range frontier {
			for _, edge := range m.calls {
				if edge[0] != cur || visited[edge[1]] {
					continue
				}
				visited[edge[1]] = true
				reachable = append(reachable, edge[1])
				next = append(next, edge[1])
			}
		}
		frontier = next
	}
	return reachable, nil
}

// Stats returns node and edge counts.
func (m *MemStore) Stats(_ context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &Stats{
		ModuleCount:   len(m.modules),
		FunctionCount: len(m.functions),
		ContainsCount: len(m.contains),
		CallCount:     len(m.calls),
	}, nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error { return nil }
