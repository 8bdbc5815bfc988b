package index

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a path has no cached document.
var ErrNotFound = errors.New("document not cached")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    hash TEXT NOT NULL DEFAULT '',
    options_key TEXT NOT NULL DEFAULT '',
    mod_time INTEGER NOT NULL DEFAULT 0,
    size INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS headings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    level INTEGER NOT NULL,
    text TEXT NOT NULL,
    slug TEXT NOT NULL DEFAULT '',
    seen INTEGER NOT NULL DEFAULT 0,
    line INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_headings_document ON headings(document_id);

CREATE VIRTUAL TABLE IF NOT EXISTS headings_fts USING fts5(
    text,
    content=headings, content_rowid=id,
    tokenize='unicode61 remove_diacritics 2'
);

CREATE TRIGGER IF NOT EXISTS headings_ai AFTER INSERT ON headings BEGIN
    INSERT INTO headings_fts(rowid, text) VALUES (new.id, new.text);
END;

CREATE TRIGGER IF NOT EXISTS headings_ad AFTER DELETE ON headings BEGIN
    INSERT INTO headings_fts(headings_fts, rowid, text) VALUES ('delete', old.id, old.text);
END;
`

// Document is the cached state of one markdown file.
type Document struct {
	ID         int64
	Path       string
	Hash       string
	OptionsKey string
	ModTime    int64
	Size       int64
}

// Heading is a cached TOC entry.
type Heading struct {
	Level int
	Text  string
	Slug  string
	Seen  int
	Line  int
}

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at the given path.
func Open(path string) (*DB, error) {
	return open(path + "?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
}

// OpenMemory opens an in-memory database (for testing).
func OpenMemory() (*DB, error) {
	return open(":memory:?_pragma=foreign_keys(on)")
}

func open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection serializes writers from parallel jobs and keeps a
	// :memory: database from splitting across the pool.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("init schema: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("init schema: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("migrate db: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func upsertDocument(tx *sql.Tx, doc Document) (int64, error) {
	_, err := tx.Exec(`
		INSERT INTO documents (path, hash, options_key, mod_time, size)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			hash = excluded.hash,
			options_key = excluded.options_key,
			mod_time = excluded.mod_time,
			size = excluded.size
	`, doc.Path, doc.Hash, doc.OptionsKey, doc.ModTime, doc.Size)
	if err != nil {
		return 0, err
	}

	// Get the ID (either inserted or existing)
	var id int64
	if err := tx.QueryRow("SELECT id FROM documents WHERE path = ?", doc.Path).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// DocumentState returns the cached document for path, or ErrNotFound.
func (db *DB) DocumentState(path string) (Document, error) {
	doc := Document{Path: path}
	err := db.conn.QueryRow(
		"SELECT id, hash, options_key, mod_time, size FROM documents WHERE path = ?", path,
	).Scan(&doc.ID, &doc.Hash, &doc.OptionsKey, &doc.ModTime, &doc.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

// RecordDocument upserts doc and replaces its headings in one transaction.
func (db *DB) RecordDocument(doc Document, headings []Heading) (err error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	id, err := upsertDocument(tx, doc)
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	if err := replaceHeadings(tx, id, headings); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceHeadings(tx *sql.Tx, documentID int64, headings []Heading) error {
	if _, err := tx.Exec("DELETE FROM headings WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clear headings: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO headings (document_id, level, text, slug, seen, line) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare heading insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, h := range headings {
		if _, err := stmt.Exec(documentID, h.Level, h.Text, h.Slug, h.Seen, h.Line); err != nil {
			return fmt.Errorf("insert heading %q: %w", h.Text, err)
		}
	}
	return nil
}

// Headings returns the cached headings of path in document order.
func (db *DB) Headings(path string) ([]Heading, error) {
	rows, err := db.conn.Query(`
		SELECT h.level, h.text, h.slug, h.seen, h.line
		FROM headings h
		JOIN documents d ON d.id = h.document_id
		WHERE d.path = ?
		ORDER BY h.line, h.id
	`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Heading
	for rows.Next() {
		var h Heading
		if err := rows.Scan(&h.Level, &h.Text, &h.Slug, &h.Seen, &h.Line); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// DeleteDocument removes a document and its headings.
func (db *DB) DeleteDocument(path string) error {
	// Headings go first so the FTS delete trigger sees them.
	if _, err := db.conn.Exec(
		"DELETE FROM headings WHERE document_id IN (SELECT id FROM documents WHERE path = ?)", path,
	); err != nil {
		return err
	}
	_, err := db.conn.Exec("DELETE FROM documents WHERE path = ?", path)
	return err
}

func (db *DB) migrate() error {
	// documents.options_key was added after the first cache format; rows
	// without it never match a fingerprint and get rebuilt.
	hasKey, err := db.hasColumn("documents", "options_key")
	if err != nil {
		return err
	}
	if !hasKey {
		if _, err := db.conn.Exec("ALTER TABLE documents ADD COLUMN options_key TEXT NOT NULL DEFAULT ''"); err != nil {
			return fmt.Errorf("add documents.options_key: %w", err)
		}
	}

	hasSeen, err := db.hasColumn("headings", "seen")
	if err != nil {
		return err
	}
	if !hasSeen {
		if _, err := db.conn.Exec("ALTER TABLE headings ADD COLUMN seen INTEGER NOT NULL DEFAULT 0"); err != nil {
			return fmt.Errorf("add headings.seen: %w", err)
		}
	}
	return nil
}

func (db *DB) hasColumn(table, col string) (bool, error) {
	rows, err := db.conn.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == col {
			return true, nil
		}
	}
	return false, rows.Err()
}
