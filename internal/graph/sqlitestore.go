package graph

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // pure Go driver registered as "sqlite"
)

// Compile-time assertion: *SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store on a SQLite database file. Unlike KuzuStore
// it needs no cgo, so a family graph can be persisted by any build.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path. Use ":memory:"
// for a throwaway store.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases alive and serializes
	// writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ---------- Schema setup ----------

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS persons (
		xref       TEXT PRIMARY KEY,
		given      TEXT NOT NULL DEFAULT '',
		surname    TEXT NOT NULL DEFAULT '',
		sex        TEXT NOT NULL DEFAULT '',
		birth_year INTEGER NOT NULL DEFAULT 0,
		death_year INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS families (
		xref          TEXT PRIMARY KEY,
		husband       TEXT NOT NULL DEFAULT '',
		wife          TEXT NOT NULL DEFAULT '',
		marriage_year INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS branches (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		name         TEXT NOT NULL UNIQUE,
		surname      TEXT NOT NULL DEFAULT '',
		family_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS edges (
		id     INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		target TEXT NOT NULL,
		kind   TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS edges_source ON edges(source, kind)`,
	`CREATE INDEX IF NOT EXISTS edges_target ON edges(target, kind)`,
}

// InitSchema creates the tables if they do not exist.
func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite: init schema: %w", err)
		}
	}
	return nil
}

// ---------- Write operations ----------

// AddPerson inserts or replaces a person keyed by xref.
func (s *SQLiteStore) AddPerson(ctx context.Context, node PersonNode) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO persons (xref, given, surname, sex, birth_year, death_year)
		VALUES (?, ?, ?, ?, ?, ?)`,
		node.XRef, node.Given, node.Surname, node.Sex, node.BirthYear, node.DeathYear)
	if err != nil {
		return fmt.Errorf("sqlite: add person %s: %w", node.XRef, err)
	}
	return nil
}

// AddFamily inserts or replaces a family keyed by xref.
func (s *SQLiteStore) AddFamily(ctx context.Context, node FamilyNode) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO families (xref, husband, wife, marriage_year) VALUES (?, ?, ?, ?)`,
		node.XRef, node.Husband, node.Wife, node.MarriageYear)
	if err != nil {
		return fmt.Errorf("sqlite: add family %s: %w", node.XRef, err)
	}
	return nil
}

// AddBranch stores a branch. Members are recorded separately as BELONGS
// edges, as Build does.
func (s *SQLiteStore) AddBranch(ctx context.Context, node BranchNode) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO branches (name, surname, family_count) VALUES (?, ?, ?)`,
		node.Name, node.Surname, node.FamilyCount)
	if err != nil {
		return fmt.Errorf("sqlite: add branch %s: %w", node.Name, err)
	}
	return nil
}

// AddEdge appends an edge. Unknown kinds are rejected.
func (s *SQLiteStore) AddEdge(ctx context.Context, edge Edge) error {
	switch edge.Kind {
	case EdgeKindChildIn, EdgeKindSpouseIn, EdgeKindBelongs:
	default:
		return fmt.Errorf("sqlite: unknown edge kind: %s", edge.Kind)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO edges (source, target, kind) VALUES (?, ?, ?)`,
		edge.SourceID, edge.TargetID, string(edge.Kind))
	if err != nil {
		return fmt.Errorf("sqlite: add edge %s->%s: %w", edge.SourceID, edge.TargetID, err)
	}
	return nil
}

// ---------- Read operations ----------

const sqlitePersonColumns = "xref, given, surname, sex, birth_year, death_year"

func scanPerson(row interface{ Scan(...any) error }) (PersonNode, error) {
	var p PersonNode
	err := row.Scan(&p.XRef, &p.Given, &p.Surname, &p.Sex, &p.BirthYear, &p.DeathYear)
	return p, err
}

// GetPerson returns the person with the given xref, or nil if not found.
func (s *SQLiteStore) GetPerson(ctx context.Context, xref string) (*PersonNode, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sqlitePersonColumns+" FROM persons WHERE xref = ?", xref)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get person %s: %w", xref, err)
	}
	return &p, nil
}

// GetFamily returns the family with the given xref, or nil if not found.
func (s *SQLiteStore) GetFamily(ctx context.Context, xref string) (*FamilyNode, error) {
	var f FamilyNode
	err := s.db.QueryRowContext(ctx,
		"SELECT xref, husband, wife, marriage_year FROM families WHERE xref = ?", xref,
	).Scan(&f.XRef, &f.Husband, &f.Wife, &f.MarriageYear)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get family %s: %w", xref, err)
	}
	return &f, nil
}

// QueryPersons returns persons whose full name contains query, ignoring
// case, ordered by xref. A limit <= 0 returns all matches.
func (s *SQLiteStore) QueryPersons(ctx context.Context, query string, limit int) ([]PersonNode, error) {
	stmt := "SELECT " + sqlitePersonColumns + ` FROM persons
		WHERE instr(lower(trim(given || ' ' || surname)), ?) > 0
		ORDER BY xref`
	args := []any{strings.ToLower(query)}
	if limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query persons: %w", err)
	}
	defer rows.Close()

	var results []PersonNode
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: query persons: %w", err)
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// ---------- Graph traversal ----------

// GetLineage performs a BFS from xref over parent or child links, up to
// maxDepth generations, in the same order as MemStore.
func (s *SQLiteStore) GetLineage(ctx context.Context, xref string, direction Direction, maxDepth int) ([]LineageChain, error) {
	if maxDepth <= 0 {
		return nil, nil
	}

	visited := map[string]bool{xref: true}
	queue := [][]string{{xref}}
	var chains []LineageChain

	for depth := 0; depth < maxDepth && len(queue) > 0; depth++ {
		var next [][]string
		for _, path := range queue {
			neighbors, err := s.relatives(ctx, path[len(path)-1], direction)
			if err != nil {
				return nil, err
			}
			for _, nb := range neighbors {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				newPath := make([]string, len(path), len(path)+1)
				copy(newPath, path)
				newPath = append(newPath, nb)
				chains = append(chains, LineageChain{Nodes: newPath, Depth: len(newPath) - 1})
				next = append(next, newPath)
			}
		}
		queue = next
	}
	return chains, nil
}

// relatives joins the edge table with itself through the shared family.
func (s *SQLiteStore) relatives(ctx context.Context, xref string, direction Direction) ([]string, error) {
	from, to := EdgeKindChildIn, EdgeKindSpouseIn
	if direction == DirectionDescendants {
		from, to = EdgeKindSpouseIn, EdgeKindChildIn
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.source FROM edges e
		JOIN edges o ON o.target = e.target AND o.kind = ?
		WHERE e.source = ? AND e.kind = ?
		ORDER BY e.id, o.id`,
		string(to), xref, string(from))
	if err != nil {
		return nil, fmt.Errorf("sqlite: relatives of %s: %w", xref, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// GetBranches returns branches in insertion order with their members.
func (s *SQLiteStore) GetBranches(ctx context.Context) ([]BranchNode, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, surname, family_count FROM branches ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("sqlite: get branches: %w", err)
	}
	var branches []BranchNode
	for rows.Next() {
		var b BranchNode
		if err := rows.Scan(&b.Name, &b.Surname, &b.FamilyCount); err != nil {
			rows.Close()
			return nil, err
		}
		branches = append(branches, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range branches {
		members, err := s.branchMembers(ctx, branches[i].Name)
		if err != nil {
			return nil, err
		}
		branches[i].Members = members
	}
	return branches, nil
}

func (s *SQLiteStore) branchMembers(ctx context.Context, name string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT source FROM edges WHERE target = ? AND kind = ? ORDER BY id",
		name, string(EdgeKindBelongs))
	if err != nil {
		return nil, fmt.Errorf("sqlite: members of %s: %w", name, err)
	}
	defer rows.Close()
	var members []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// GetAllEdges returns every edge in insertion order.
func (s *SQLiteStore) GetAllEdges(ctx context.Context) ([]Edge, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT source, target, kind FROM edges ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("sqlite: get edges: %w", err)
	}
	defer rows.Close()
	var edges []Edge
	for rows.Next() {
		var e Edge
		var kind string
		if err := rows.Scan(&e.SourceID, &e.TargetID, &kind); err != nil {
			return nil, err
		}
		e.Kind = EdgeKind(kind)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// Stats counts rows in each table.
func (s *SQLiteStore) Stats(ctx context.Context) (*GraphStats, error) {
	var st GraphStats
	err := s.db.QueryRowContext(ctx, `SELECT
		(SELECT count(*) FROM persons),
		(SELECT count(*) FROM families),
		(SELECT count(*) FROM branches),
		(SELECT count(*) FROM edges)`,
	).Scan(&st.PersonCount, &st.FamilyCount, &st.BranchCount, &st.EdgeCount)
	if err != nil {
		return nil, fmt.Errorf("sqlite: stats: %w", err)
	}
	return &st, nil
}
