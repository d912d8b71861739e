// Package index maintains a sqlite index of documented members across every
// added assembly, for name/text search from the CLI and the MCP server.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type DB struct {
	conn *sql.DB
}

func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dsn := "file:" + dbPath + "?_busy_timeout=5000&_journal_mode=WAL&_fk=1"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	d := &DB{conn: conn}
	if err := d.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return d, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS assemblies (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			member_count INTEGER NOT NULL DEFAULT 0,
			added_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS members (
			id INTEGER PRIMARY KEY,
			assembly_id INTEGER NOT NULL REFERENCES assemblies(id) ON DELETE CASCADE,
			doc_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			UNIQUE(assembly_id, doc_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_members_name ON members (name)`,
		`CREATE INDEX IF NOT EXISTS idx_members_doc_id ON members (doc_id)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// Assembly is one indexed documentation file.
type Assembly struct {
	ID          int
	Name        string
	MemberCount int
	AddedAt     time.Time
}

// Member is one indexed documented member.
type Member struct {
	DocID   string
	Kind    string
	Name    string
	Summary string
}

// Result is a search hit.
type Result struct {
	Assembly string
	Member
}

// NewMember derives kind and simple name from a doc-comment identifier.
func NewMember(docID, summary string) Member {
	return Member{
		DocID:   docID,
		Kind:    kindOf(docID),
		Name:    nameOf(docID),
		Summary: summary,
	}
}

func kindOf(docID string) string {
	if len(docID) < 2 || docID[1] != ':' {
		return "unknown"
	}
	switch docID[0] {
	case 'T':
		return "type"
	case 'F':
		return "field"
	case 'P':
		return "property"
	case 'E':
		return "event"
	case 'M':
		if strings.Contains(docID, "#ctor") {
			return "constructor"
		}
		return "method"
	default:
		return "unknown"
	}
}

func nameOf(docID string) string {
	s := docID
	if len(s) > 2 && s[1] == ':' {
		s = s[2:]
	}
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// ReplaceAssembly records an assembly and its members, replacing any prior
// index entries for the same assembly name.
func (db *DB) ReplaceAssembly(name string, members []Member) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO assemblies (name, member_count) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET member_count = excluded.member_count, added_at = CURRENT_TIMESTAMP`,
		name, len(members),
	); err != nil {
		return fmt.Errorf("upserting assembly: %w", err)
	}

	var assemblyID int64
	if err := tx.QueryRow(`SELECT id FROM assemblies WHERE name = ?`, name).Scan(&assemblyID); err != nil {
		return fmt.Errorf("reading assembly id: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM members WHERE assembly_id = ?`, assemblyID); err != nil {
		return fmt.Errorf("clearing old members: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO members (assembly_id, doc_id, kind, name, summary) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range members {
		if _, err := stmt.Exec(assemblyID, m.DocID, m.Kind, m.Name, m.Summary); err != nil {
			return fmt.Errorf("inserting member %q: %w", m.DocID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// RemoveAssembly drops an assembly and its members from the index.
func (db *DB) RemoveAssembly(name string) error {
	if _, err := db.conn.Exec(`DELETE FROM assemblies WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting assembly: %w", err)
	}
	return nil
}

// Assemblies lists every indexed assembly, sorted by name.
func (db *DB) Assemblies() ([]Assembly, error) {
	rows, err := db.conn.Query(
		`SELECT id, name, member_count, added_at FROM assemblies ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying assemblies: %w", err)
	}
	defer rows.Close()

	var out []Assembly
	for rows.Next() {
		var a Assembly
		if err := rows.Scan(&a.ID, &a.Name, &a.MemberCount, &a.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning assembly: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Search returns members whose identifier, name or summary contains the
// query, case-insensitively.
func (db *DB) Search(query string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + escapeLike(query) + "%"

	rows, err := db.conn.Query(
		`SELECT a.name, m.doc_id, m.kind, m.name, m.summary
		 FROM members m JOIN assemblies a ON a.id = m.assembly_id
		 WHERE m.doc_id LIKE ? ESCAPE '\'
		    OR m.name LIKE ? ESCAPE '\'
		    OR m.summary LIKE ? ESCAPE '\'
		 ORDER BY a.name, m.doc_id
		 LIMIT ?`,
		pattern, pattern, pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching members: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Assembly, &r.DocID, &r.Kind, &r.Name, &r.Summary); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
