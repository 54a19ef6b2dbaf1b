package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/knotted/kgx/internal/graph"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite search index. The index is derived state, rebuilt
// from graphs.jsonl whenever the stored content hash goes stale.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the search index at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// createSchema creates the index schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		-- One row per stored graph
		CREATE TABLE IF NOT EXISTS graphs (
			id TEXT PRIMARY KEY,
			title TEXT,
			subject TEXT NOT NULL,
			model TEXT,
			created_at INTEGER NOT NULL,
			node_count INTEGER NOT NULL,
			edge_count INTEGER NOT NULL,
			parent_graph_id TEXT,
			is_example INTEGER NOT NULL DEFAULT 0
		);

		CREATE INDEX IF NOT EXISTS idx_graphs_parent ON graphs(parent_graph_id)
			WHERE parent_graph_id IS NOT NULL AND parent_graph_id != '';

		-- Full-text search over graph metadata and node labels
		CREATE VIRTUAL TABLE IF NOT EXISTS graphs_fts USING fts5(
			id,
			title,
			subject,
			node_labels
		);

		CREATE TABLE IF NOT EXISTS _meta (
			key TEXT PRIMARY KEY,
			value TEXT
		);
	`

	_, err := db.Exec(schema)
	return err
}

// GraphSummary is one search or list result row.
type GraphSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title,omitempty"`
	Subject       string `json:"subject"`
	Model         string `json:"model,omitempty"`
	CreatedAt     int64  `json:"createdAt"`
	NodeCount     int    `json:"nodeCount"`
	EdgeCount     int    `json:"edgeCount"`
	ParentGraphID string `json:"parentGraphId,omitempty"`
	IsExample     bool   `json:"isExample,omitempty"`
}

// Rebuild clears the index and repopulates it from the given graphs,
// recording the source-file hash for staleness checks.
func (d *DB) Rebuild(graphs []*graph.Graph, sourceHash string) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM graphs"); err != nil {
		return 0, fmt.Errorf("clearing graphs table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM graphs_fts"); err != nil {
		return 0, fmt.Errorf("clearing FTS table: %w", err)
	}

	for _, g := range graphs {
		if err := insertGraph(tx, g); err != nil {
			return 0, fmt.Errorf("indexing graph %s: %w", g.ID, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO _meta (key, value) VALUES ('source_hash', ?)`, sourceHash); err != nil {
		return 0, fmt.Errorf("updating hash: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`INSERT OR REPLACE INTO _meta (key, value) VALUES ('last_sync', ?)`, now); err != nil {
		return 0, fmt.Errorf("updating sync time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(graphs), nil
}

// insertGraph inserts one graph into the main and FTS tables.
func insertGraph(tx *sql.Tx, g *graph.Graph) error {
	isExample := 0
	if g.IsExample {
		isExample = 1
	}

	_, err := tx.Exec(`INSERT INTO graphs
		(id, title, subject, model, created_at, node_count, edge_count, parent_graph_id, is_example)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.Subject, g.Model, g.CreatedAt,
		len(g.Data.Nodes), len(g.Data.Edges), g.ParentGraphID, isExample)
	if err != nil {
		return err
	}

	labels := make([]string, 0, len(g.Data.Nodes))
	for _, n := range g.Data.Nodes {
		labels = append(labels, n.Label)
	}

	_, err = tx.Exec(`INSERT INTO graphs_fts (id, title, subject, node_labels) VALUES (?, ?, ?, ?)`,
		g.ID, g.Title, g.Subject, strings.Join(labels, " "))
	return err
}

// StoredHash returns the source-file hash recorded at the last rebuild.
func (d *DB) StoredHash() (string, error) {
	var hash sql.NullString
	err := d.db.QueryRow("SELECT value FROM _meta WHERE key = 'source_hash'").Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash.String, nil
}

// LastSyncTime returns the time of the last rebuild, zero if never synced.
func (d *DB) LastSyncTime() (time.Time, error) {
	var timeStr sql.NullString
	err := d.db.QueryRow("SELECT value FROM _meta WHERE key = 'last_sync'").Scan(&timeStr)
	if err == sql.ErrNoRows || !timeStr.Valid {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, timeStr.String)
}

// NeedsSync reports whether the index is stale relative to the source hash.
func (d *DB) NeedsSync(sourceHash string) (bool, error) {
	stored, err := d.StoredHash()
	if err != nil {
		return true, err
	}
	return stored != sourceHash, nil
}

const selectSummaryFields = `id, title, subject, model, created_at,
	node_count, edge_count, parent_graph_id, is_example`

// Search runs a full-text query over titles, subjects, and node labels.
func (d *DB) Search(query string, limit int) ([]GraphSummary, error) {
	rows, err := d.db.Query(fmt.Sprintf(`
		SELECT %s FROM graphs
		WHERE id IN (SELECT id FROM graphs_fts WHERE graphs_fts MATCH ?)
		ORDER BY created_at DESC
		LIMIT ?`, selectSummaryFields), query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// ListAll returns all indexed graphs, newest first.
func (d *DB) ListAll(limit int) ([]GraphSummary, error) {
	rows, err := d.db.Query(fmt.Sprintf(`
		SELECT %s FROM graphs ORDER BY created_at DESC LIMIT ?`, selectSummaryFields), limit)
	if err != nil {
		return nil, fmt.Errorf("listing index: %w", err)
	}
	defer rows.Close()

	return scanSummaries(rows)
}

// Count returns the number of indexed graphs.
func (d *DB) Count() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM graphs").Scan(&n)
	return n, err
}

// scanSummaries converts result rows to summaries.
func scanSummaries(rows *sql.Rows) ([]GraphSummary, error) {
	var out []GraphSummary
	for rows.Next() {
		var s GraphSummary
		var title, model, parent sql.NullString
		var isExample int
		if err := rows.Scan(&s.ID, &title, &s.Subject, &model, &s.CreatedAt,
			&s.NodeCount, &s.EdgeCount, &parent, &isExample); err != nil {
			return nil, err
		}
		s.Title = title.String
		s.Model = model.String
		s.ParentGraphID = parent.String
		s.IsExample = isExample != 0
		out = append(out, s)
	}
	return out, rows.Err()
}
