//go:build !cgo

package store

import "github.com/cockroachdb/errors"

// Open returns an in-memory store when dbPath is empty. The KuzuDB backend
// requires cgo; without it a persistent path is an error rather than a
// silent downgrade.
func Open(dbPath string) (Store, error) {
	if dbPath == "" {
		return NewMemStore(), nil
	}
	return nil, errors.Newf("store: persistent graph at %q requires a cgo-enabled build", dbPath)
}
