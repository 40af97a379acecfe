//go:build cgo

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	kuzu "github.com/kuzudb/go-kuzu"

	"github.com/dusk-indust/polyglot/internal/lang"
)

// KuzuStore implements Store using KuzuDB as the graph backend. It requires
// CGO because the go-kuzu driver wraps KuzuDB's C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time check that KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore creates a KuzuStore backed by an in-memory KuzuDB instance.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file database at dbPath.
// KuzuDB creates the leaf directory itself for new databases.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "kuzu: create parent directory")
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "kuzu: open database")
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "kuzu: open connection")
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the KuzuDB connection and database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ddlStatements is the Cypher DDL executed by InitSchema. Node tables must
// precede relationship tables.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Module(
		id STRING,
		name STRING,
		language STRING,
		file STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Function(
		id STRING,
		name STRING,
		module_id STRING,
		language STRING,
		param_count INT64,
		return_type STRING,
		PRIMARY KEY(id)
	)`,
	`CREATE REL TABLE IF NOT EXISTS CONTAINS(FROM Module TO Function)`,
	`CREATE REL TABLE IF NOT EXISTS CALLS(FROM Function TO Function)`,
}

// InitSchema creates the node and relationship tables if they do not exist.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return errors.Wrap(err, "kuzu: init schema")
		}
		res.Close()
	}
	return nil
}

func (s *KuzuStore) AddModule(_ context.Context, node ModuleNode) error {
	return s.exec(
		"CREATE (m:Module {id: $id, name: $name, language: $lang, file: $file})",
		map[string]any{
			"id":   node.ID,
			"name": node.Name,
			"lang": string(node.Language),
			"file": node.File,
		},
	)
}

func (s *KuzuStore) AddFunction(_ context.Context, node FunctionNode) error {
	return s.exec(
		`CREATE (f:Function {
			id: $id,
			name: $name,
			module_id: $mid,
			language: $lang,
			param_count: $pc,
			return_type: $rt
		})`,
		map[string]any{
			"id":   node.ID,
			"name": node.Name,
			"mid":  node.ModuleID,
			"lang": string(node.Language),
			"pc":   int64(node.ParamCount),
			"rt":   node.ReturnType,
		},
	)
}

func (s *KuzuStore) AddContains(_ context.Context, moduleID, functionID string) error {
	return s.exec(
		`MATCH (m:Module {id: $src}), (f:Function {id: $dst})
		 CREATE (m)-[:CONTAINS]->(f)`,
		map[string]any{"src": moduleID, "dst": functionID},
	)
}

func (s *KuzuStore) AddCall(_ context.Context, callerID, calleeID string) error {
	return s.exec(
		`MATCH (a:Function {id: $src}), (b:Function {id: $dst})
		 CREATE (a)-[:CALLS]->(b)`,
		map[string]any{"src": callerID, "dst": calleeID},
	)
}

// GetFunction retrieves a Function node by id, or nil when absent.
func (s *KuzuStore) GetFunction(_ context.Context, id string) (*FunctionNode, error) {
	rows, err := s.query(
		`MATCH (f:Function {id: $id})
		 RETURN f.id, f.name, f.module_id, f.language, f.param_count, f.return_type`,
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToFunction(rows[0]), nil
}

// QueryFunctions returns functions whose name contains name.
func (s *KuzuStore) QueryFunctions(_ context.Context, name string, limit int) ([]FunctionNode, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.query(
		`MATCH (f:Function) WHERE f.name CONTAINS $q
		 RETURN f.id, f.name, f.module_id, f.language, f.param_count, f.return_type
		 LIMIT $lim`,
		map[string]any{"q": name, "lim": int64(limit)},
	)
	if err != nil {
		return nil, err
	}
	out := make([]FunctionNode, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToFunction(r))
	}
	return out, nil
}

// Callees performs a BFS over CALLS edges from id, one Cypher hop at a time.
func (s *KuzuStore) Callees(_ context.Context, id string, maxDepth int) ([]string, error) {
	if maxDepth <= 0 {
		return nil, nil
	}

	visited := map[string]bool{id: true}
	frontier := []string{id}
	var reachable []string

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, cur := range frontier {
			rows, err := s.query(
				"MATCH (a:Function {id: $id})-[:CALLS]->(b:Function) RETURN b.id",
				map[string]any{"id": cur},
			)
			if err != nil {
				return nil, err
			}
			for _, r := range rows {
				nb := toString(r[0])
				if visited[nb] {
					continue
				}
				visited[nb] = true
				reachable = append(reachable, nb)
				next = append(next, nb)
			}
		}
		frontier = next
	}
	return reachable, nil
}

// Stats returns node and edge counts.
func (s *KuzuStore) Stats(_ context.Context) (*Stats, error) {
	modules, err := s.count("MATCH (n:Module) RETURN count(n)")
	if err != nil {
		return nil, err
	}
	functions, err := s.count("MATCH (n:Function) RETURN count(n)")
	if err != nil {
		return nil, err
	}
	contains, err := s.count("MATCH ()-[r:CONTAINS]->() RETURN count(r)")
	if err != nil {
		return nil, err
	}
	calls, err := s.count("MATCH ()-[r:CALLS]->() RETURN count(r)")
	if err != nil {
		return nil, err
	}
	return &Stats{
		ModuleCount:   modules,
		FunctionCount: functions,
		ContainsCount: contains,
		CallCount:     calls,
	}, nil
}

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return errors.Wrap(err, "kuzu: prepare")
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return errors.Wrap(err, "kuzu: execute")
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows,
// each as a []any in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, errors.Wrap(err, "kuzu: prepare")
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, errors.Wrap(err, "kuzu: query")
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, errors.Wrap(err, "kuzu: next")
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, errors.Wrap(err, "kuzu: row values")
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

func (s *KuzuStore) count(cypher string) (int, error) {
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// rowToFunction converts a 6-column row in the order
// id, name, module_id, language, param_count, return_type.
func rowToFunction(r []any) *FunctionNode {
	return &FunctionNode{
		ID:         toString(r[0]),
		Name:       toString(r[1]),
		ModuleID:   toString(r[2]),
		Language:   lang.Language(toString(r[3])),
		ParamCount: toInt(r[4]),
		ReturnType: toString(r[5]),
	}
}

// KuzuDB returns typed Go values (int64, float64, bool, string); these
// coerce any -> concrete type.

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case int32:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}
