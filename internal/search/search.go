// Package search maintains a derived SQLite FTS5 index over issue
// records. The .mdx files stay the source of truth; the index lives
// under the store's cache dir and is rebuilt from a snapshot.
package search

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bugsdev/bugs/internal/types"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE VIRTUAL TABLE IF NOT EXISTS issue_fts USING fts5(
	id UNINDEXED,
	status UNINDEXED,
	priority UNINDEXED,
	title,
	body,
	tags,
	tokenize='porter unicode61'
);`

// Index is an open FTS index.
type Index struct {
	db *sql.DB
}

// Match is one search hit, best first.
type Match struct {
	ID       int
	Status   types.Status
	Priority types.Priority
	Title    string
	Snippet  string
}

// Open opens or creates the index database at path.
func Open(path string) (*Index, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating index dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("opening search index: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating search schema: %w", err)
	}
	return &Index{db: db}, nil
}

func (ix *Index) Close() error { return ix.db.Close() }

func indexBody(issue *types.Issue) string {
	parts := []string{issue.Description, issue.Impact, issue.Acceptance, issue.Context}
	for _, cp := range issue.Checkpoints {
		parts = append(parts, cp.Note)
	}
	for _, cn := range issue.CloseNotes {
		parts = append(parts, cn.Note)
	}
	return strings.Join(parts, "\n")
}

// Rebuild replaces the index contents with the given snapshot.
func (ix *Index) Rebuild(issues []*types.Issue) error {
	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM issue_fts`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO issue_fts (id, status, priority, title, body, tags) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, issue := range issues {
		_, err := stmt.Exec(
			issue.ID,
			string(issue.Status),
			string(issue.Priority),
			issue.Title,
			indexBody(issue),
			strings.Join(issue.Tags, " "),
		)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", types.Ref(issue.ID), err)
		}
	}
	return tx.Commit()
}

// ftsQuery quotes each term so user input cannot break MATCH syntax.
// A trailing * keeps prefix matching.
func ftsQuery(q string) string {
	var terms []string
	for _, tok := range strings.Fields(q) {
		prefix := strings.HasSuffix(tok, "*")
		tok = strings.Trim(tok, `"*`)
		if tok == "" {
			continue
		}
		term := `"` + strings.ReplaceAll(tok, `"`, "") + `"`
		if prefix {
			term += "*"
		}
		terms = append(terms, term)
	}
	return strings.Join(terms, " ")
}

// Query returns up to limit matches ordered by FTS rank.
func (ix *Index) Query(q string, limit int) ([]Match, error) {
	match := ftsQuery(q)
	if match == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := ix.db.Query(`
		SELECT id, status, priority, title, snippet(issue_fts, -1, '[', ']', '…', 12)
		FROM issue_fts WHERE issue_fts MATCH ? ORDER BY rank LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var status, priority string
		if err := rows.Scan(&m.ID, &status, &priority, &m.Title, &m.Snippet); err != nil {
			return nil, err
		}
		m.Status = types.Status(status)
		m.Priority = types.Priority(priority)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
