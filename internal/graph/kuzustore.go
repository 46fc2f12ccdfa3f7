//go:build cgo

package graph

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kuzu "github.com/kuzudb/go-kuzu"
)

// KuzuStore keeps the family graph in KuzuDB. Building it needs cgo, since
// go-kuzu binds the C library.
type KuzuStore struct {
	db   *kuzu.Database
	conn *kuzu.Connection
}

// Compile-time assertion: *KuzuStore satisfies Store.
var _ Store = (*KuzuStore)(nil)

// NewKuzuStore opens a throwaway in-memory KuzuDB.
func NewKuzuStore() (*KuzuStore, error) {
	return openKuzu(":memory:")
}

// NewKuzuFileStore creates a KuzuStore backed by a file-based KuzuDB at the
// given directory path. KuzuDB creates the leaf directory itself; an existing
// directory must hold a valid database.
func NewKuzuFileStore(dbPath string) (*KuzuStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("kuzu: create parent directory: %w", err)
	}
	return openKuzu(dbPath)
}

func openKuzu(path string) (*KuzuStore, error) {
	cfg := kuzu.DefaultSystemConfig()
	db, err := kuzu.OpenDatabase(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("kuzu: open database %s: %w", path, err)
	}
	conn, err := kuzu.OpenConnection(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kuzu: open connection: %w", err)
	}
	return &KuzuStore{db: db, conn: conn}, nil
}

// Close releases the connection, then the database.
func (s *KuzuStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	return nil
}

// ---------- Schema setup ----------

// ddlStatements run in order; Person, Family and Branch tables must exist
// before the rel tables that join them.
var ddlStatements = []string{
	`CREATE NODE TABLE IF NOT EXISTS Person(
		xref STRING,
		given STRING,
		surname STRING,
		sex STRING,
		birth_year INT64,
		death_year INT64,
		PRIMARY KEY(xref)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Family(
		xref STRING,
		husband STRING,
		wife STRING,
		marriage_year INT64,
		PRIMARY KEY(xref)
	)`,
	`CREATE NODE TABLE IF NOT EXISTS Branch(
		name STRING,
		surname STRING,
		family_count INT64,
		PRIMARY KEY(name)
	)`,
	`CREATE REL TABLE IF NOT EXISTS CHILD_IN(FROM Person TO Family)`,
	`CREATE REL TABLE IF NOT EXISTS SPOUSE_IN(FROM Person TO Family)`,
	`CREATE REL TABLE IF NOT EXISTS BELONGS_TO(FROM Person TO Branch)`,
}

// relTables maps edge kinds to relationship tables.
var relTables = []struct {
	kind   EdgeKind
	table  string
	target string // node table and key of the edge target
}{
	{EdgeKindChildIn, "CHILD_IN", "Family {xref: $dst}"},
	{EdgeKindSpouseIn, "SPOUSE_IN", "Family {xref: $dst}"},
	{EdgeKindBelongs, "BELONGS_TO", "Branch {name: $dst}"},
}

// InitSchema creates the person, family and branch tables and their rel
// tables. Existing tables are kept.
func (s *KuzuStore) InitSchema(_ context.Context) error {
	for _, stmt := range ddlStatements {
		res, err := s.conn.Query(stmt)
		if err != nil {
			return fmt.Errorf("kuzu: init schema: %w", err)
		}
		res.Close()
	}
	return nil
}

// ---------- Write operations ----------

// AddPerson inserts a Person node.
func (s *KuzuStore) AddPerson(_ context.Context, node PersonNode) error {
	return s.exec(
		`CREATE (p:Person {
			xref: $xref,
			given: $given,
			surname: $surname,
			sex: $sex,
			birth_year: $by,
			death_year: $dy
		})`,
		map[string]any{
			"xref":    node.XRef,
			"given":   node.Given,
			"surname": node.Surname,
			"sex":     node.Sex,
			"by":      int64(node.BirthYear),
			"dy":      int64(node.DeathYear),
		},
	)
}

// AddFamily inserts a Family node.
func (s *KuzuStore) AddFamily(_ context.Context, node FamilyNode) error {
	return s.exec(
		"CREATE (f:Family {xref: $xref, husband: $h, wife: $w, marriage_year: $my})",
		map[string]any{
			"xref": node.XRef,
			"h":    node.Husband,
			"w":    node.Wife,
			"my":   int64(node.MarriageYear),
		},
	)
}

// AddBranch inserts a Branch node. Members are attached with BELONGS edges.
func (s *KuzuStore) AddBranch(_ context.Context, node BranchNode) error {
	return s.exec(
		"CREATE (b:Branch {name: $name, surname: $surname, family_count: $fc})",
		map[string]any{
			"name":    node.Name,
			"surname": node.Surname,
			"fc":      int64(node.FamilyCount),
		},
	)
}

// AddEdge inserts a relationship edge from a person to a family or branch.
func (s *KuzuStore) AddEdge(_ context.Context, edge Edge) error {
	cypher, err := edgeCypher(edge.Kind)
	if err != nil {
		return err
	}
	return s.exec(cypher, map[string]any{
		"src": edge.SourceID,
		"dst": edge.TargetID,
	})
}

// edgeCypher maps an edge kind to the rel table insert joining its endpoints.
func edgeCypher(kind EdgeKind) (string, error) {
	for _, rt := range relTables {
		if rt.kind == kind {
			return fmt.Sprintf(`MATCH (a:Person {xref: $src}), (b:%s)
				CREATE (a)-[:%s]->(b)`, rt.target, rt.table), nil
		}
	}
	return "", fmt.Errorf("kuzu: unsupported edge kind: %s", kind)
}

// ---------- Read operations ----------

const personColumns = "p.xref, p.given, p.surname, p.sex, p.birth_year, p.death_year"

// GetPerson retrieves a single Person node by xref, or returns nil if not found.
func (s *KuzuStore) GetPerson(_ context.Context, xref string) (*PersonNode, error) {
	rows, err := s.query(
		"MATCH (p:Person {xref: $xref}) RETURN "+personColumns,
		map[string]any{"xref": xref},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowToPerson(rows[0]), nil
}

// GetFamily retrieves a single Family node by xref, or returns nil if not found.
func (s *KuzuStore) GetFamily(_ context.Context, xref string) (*FamilyNode, error) {
	rows, err := s.query(
		"MATCH (f:Family {xref: $xref}) RETURN f.xref, f.husband, f.wife, f.marriage_year",
		map[string]any{"xref": xref},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	r := rows[0]
	return &FamilyNode{
		XRef:         toString(r[0]),
		Husband:      toString(r[1]),
		Wife:         toString(r[2]),
		MarriageYear: toInt(r[3]),
	}, nil
}

// QueryPersons returns persons whose given name or surname contains the
// query string, ignoring case, ordered by xref. A limit <= 0 returns all
// matches.
func (s *KuzuStore) QueryPersons(_ context.Context, queryStr string, limit int) ([]PersonNode, error) {
	cypher := `MATCH (p:Person)
		WHERE lower(p.given) CONTAINS $q OR lower(p.surname) CONTAINS $q
		RETURN ` + personColumns + `
		ORDER BY p.xref`
	params := map[string]any{"q": strings.ToLower(queryStr)}
	if limit > 0 {
		cypher += " LIMIT $lim"
		params["lim"] = int64(limit)
	}
	rows, err := s.query(cypher, params)
	if err != nil {
		return nil, err
	}
	out := make([]PersonNode, 0, len(rows))
	for _, r := range rows {
		out = append(out, *rowToPerson(r))
	}
	return out, nil
}

// ---------- Graph traversal ----------

// GetLineage performs a BFS over parent or child links starting from the
// given person. It returns one LineageChain per reachable person.
func (s *KuzuStore) GetLineage(_ context.Context, xref string, dir Direction, maxDepth int) ([]LineageChain, error) {
	if maxDepth <= 0 {
		return nil, nil
	}

	type bfsEntry struct {
		path  []string
		depth int
	}
	visited := map[string]bool{xref: true}
	queue := []bfsEntry{{path: []string{xref}, depth: 0}}
	var chains []LineageChain

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		tip := cur.path[len(cur.path)-1]
		neighbors, err := s.relatives(tip, dir)
		if err != nil {
			return nil, err
		}
		for _, nb := range neighbors {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			newPath := make([]string, len(cur.path)+1)
			copy(newPath, cur.path)
			newPath[len(cur.path)] = nb
			chains = append(chains, LineageChain{
				Nodes: newPath,
				Depth: cur.depth + 1,
			})
			queue = append(queue, bfsEntry{path: newPath, depth: cur.depth + 1})
		}
	}
	return chains, nil
}

// relatives returns the parents or children of a person, one hop through a
// Family node.
func (s *KuzuStore) relatives(xref string, dir Direction) ([]string, error) {
	var cypher string
	switch dir {
	case DirectionAncestors:
		cypher = `MATCH (c:Person {xref: $xref})-[:CHILD_IN]->(f:Family)<-[:SPOUSE_IN]-(p:Person)
			RETURN p.xref ORDER BY f.xref, p.xref`
	case DirectionDescendants:
		cypher = `MATCH (p:Person {xref: $xref})-[:SPOUSE_IN]->(f:Family)<-[:CHILD_IN]-(c:Person)
			RETURN c.xref ORDER BY f.xref, c.xref`
	default:
		return nil, fmt.Errorf("kuzu: unknown direction: %s", dir)
	}
	rows, err := s.query(cypher, map[string]any{"xref": xref})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, toString(r[0]))
	}
	return out, nil
}

// GetBranches returns all Branch nodes with their members.
func (s *KuzuStore) GetBranches(_ context.Context) ([]BranchNode, error) {
	rows, err := s.query(
		"MATCH (b:Branch) RETURN b.name, b.surname, b.family_count ORDER BY b.name",
		nil,
	)
	if err != nil {
		return nil, err
	}
	out := make([]BranchNode, 0, len(rows))
	for _, r := range rows {
		name := toString(r[0])

		memberRows, err := s.query(
			"MATCH (p:Person)-[:BELONGS_TO]->(b:Branch {name: $name}) RETURN p.xref ORDER BY p.xref",
			map[string]any{"name": name},
		)
		if err != nil {
			return nil, err
		}
		members := make([]string, 0, len(memberRows))
		for _, mr := range memberRows {
			members = append(members, toString(mr[0]))
		}

		out = append(out, BranchNode{
			Name:        name,
			Surname:     toString(r[1]),
			FamilyCount: toInt(r[2]),
			Members:     members,
		})
	}
	return out, nil
}

// ---------- Edge enumeration ----------

// GetAllEdges returns all edges across all relationship tables.
func (s *KuzuStore) GetAllEdges(_ context.Context) ([]Edge, error) {
	queries := []struct {
		cypher string
		kind   EdgeKind
	}{
		{"MATCH (a:Person)-[:CHILD_IN]->(b:Family) RETURN a.xref, b.xref", EdgeKindChildIn},
		{"MATCH (a:Person)-[:SPOUSE_IN]->(b:Family) RETURN a.xref, b.xref", EdgeKindSpouseIn},
		{"MATCH (a:Person)-[:BELONGS_TO]->(b:Branch) RETURN a.xref, b.name", EdgeKindBelongs},
	}

	var edges []Edge
	for _, q := range queries {
		rows, err := s.query(q.cypher, nil)
		if err != nil {
			// Table may not exist yet; skip.
			continue
		}
		for _, r := range rows {
			edges = append(edges, Edge{
				SourceID: toString(r[0]),
				TargetID: toString(r[1]),
				Kind:     q.kind,
			})
		}
	}
	return edges, nil
}

// ---------- Stats ----------

// Stats returns counts of all node and edge tables.
func (s *KuzuStore) Stats(_ context.Context) (*GraphStats, error) {
	persons, err := s.countTable("Person")
	if err != nil {
		return nil, err
	}
	families, err := s.countTable("Family")
	if err != nil {
		return nil, err
	}
	branches, err := s.countTable("Branch")
	if err != nil {
		return nil, err
	}
	edges, err := s.countEdges()
	if err != nil {
		return nil, err
	}
	return &GraphStats{
		PersonCount: persons,
		FamilyCount: families,
		BranchCount: branches,
		EdgeCount:   edges,
	}, nil
}

// ---------- Internal helpers ----------

// exec runs a parameterized Cypher statement that produces no result rows.
func (s *KuzuStore) exec(cypher string, params map[string]any) error {
	stmt, err := s.conn.Prepare(cypher)
	if err != nil {
		return fmt.Errorf("kuzu: prepare: %w", err)
	}
	defer stmt.Close()

	res, err := s.conn.Execute(stmt, params)
	if err != nil {
		return fmt.Errorf("kuzu: execute: %w", err)
	}
	res.Close()
	return nil
}

// query runs a parameterized Cypher statement and collects all result rows.
// Each row is a []any slice with values in column order.
func (s *KuzuStore) query(cypher string, params map[string]any) ([][]any, error) {
	var res *kuzu.QueryResult
	var err error

	if len(params) == 0 {
		res, err = s.conn.Query(cypher)
	} else {
		var stmt *kuzu.PreparedStatement
		stmt, err = s.conn.Prepare(cypher)
		if err != nil {
			return nil, fmt.Errorf("kuzu: prepare: %w", err)
		}
		defer stmt.Close()
		res, err = s.conn.Execute(stmt, params)
	}
	if err != nil {
		return nil, fmt.Errorf("kuzu: query: %w", err)
	}
	defer res.Close()

	var rows [][]any
	for res.HasNext() {
		tuple, err := res.Next()
		if err != nil {
			return nil, fmt.Errorf("kuzu: next: %w", err)
		}
		vals, err := tuple.GetAsSlice()
		if err != nil {
			return nil, fmt.Errorf("kuzu: row values: %w", err)
		}
		rows = append(rows, vals)
	}
	return rows, nil
}

// countTable returns the number of rows in a node table.
func (s *KuzuStore) countTable(table string) (int, error) {
	// Table name is a fixed internal constant, not user input.
	cypher := fmt.Sprintf("MATCH (n:%s) RETURN count(n)", table)
	rows, err := s.query(cypher, nil)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, nil
	}
	return toInt(rows[0][0]), nil
}

// countEdges returns the total number of edges across all relationship tables.
func (s *KuzuStore) countEdges() (int, error) {
	total := 0
	for _, rt := range relTables {
		cypher := fmt.Sprintf("MATCH ()-[r:%s]->() RETURN count(r)", rt.table)
		rows, err := s.query(cypher, nil)
		if err != nil {
			// Table may not exist yet; treat as zero.
			continue
		}
		if len(rows) > 0 && len(rows[0]) > 0 {
			total += toInt(rows[0][0])
		}
	}
	return total, nil
}

// rowToPerson converts a 6-column result row into a PersonNode.
// Column order matches personColumns.
func rowToPerson(r []any) *PersonNode {
	return &PersonNode{
		XRef:      toString(r[0]),
		Given:     toString(r[1]),
		Surname:   toString(r[2]),
		Sex:       toString(r[3]),
		BirthYear: toInt(r[4]),
		DeathYear: toInt(r[5]),
	}
}

// ---------- Type coercion helpers ----------
// KuzuDB returns typed Go values (int64, float64, bool, string).

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
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
