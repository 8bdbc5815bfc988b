package index

import "strings"

// HeadingResult is a cached heading and the document it belongs to.
type HeadingResult struct {
	Path  string
	Level int
	Text  string
	Slug  string
	Line  int
	Rank  float64
}

// SearchHeadings runs a full-text query over cached heading text. Each word
// of query matches as a prefix.
func (db *DB) SearchHeadings(query string, limit int) ([]HeadingResult, error) {
	if limit <= 0 {
		limit = 50
	}
	match := ftsQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := db.conn.Query(`
		SELECT d.path, h.level, h.text, h.slug, h.line, rank
		FROM headings_fts
		JOIN headings h ON h.id = headings_fts.rowid
		JOIN documents d ON d.id = h.document_id
		WHERE headings_fts MATCH ?
		ORDER BY rank, d.path, h.line
		LIMIT ?
	`, match, limit)
	if err != nil {
		return nil, err
	}

	var results []HeadingResult
	for rows.Next() {
		var r HeadingResult
		if err := rows.Scan(&r.Path, &r.Level, &r.Text, &r.Slug, &r.Line, &r.Rank); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

// ListDocuments returns all cached documents, sorted by path.
func (db *DB) ListDocuments(limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 200
	}

	rows, err := db.conn.Query(`
		SELECT id, path, hash, options_key, mod_time, size
		FROM documents
		ORDER BY path
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}

	var results []Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(&d.ID, &d.Path, &d.Hash, &d.OptionsKey, &d.ModTime, &d.Size); err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

// ftsQuery quotes every word so FTS5 operators in user input are literal.
func ftsQuery(query string) string {
	words := strings.Fields(query)
	for i, w := range words {
		words[i] = `"` + strings.ReplaceAll(w, `"`, `""`) + `"*`
	}
	return strings.Join(words, " ")
}
