//go:build cgo

package store

// Open returns a KuzuDB-backed store at dbPath, or an in-memory store when
// dbPath is empty.
func Open(dbPath string) (Store, error) {
	if dbPath == "" {
		return NewMemStore(), nil
	}
	return NewKuzuFileStore(dbPath)
}
