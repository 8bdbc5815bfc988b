package index

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pfassina/mdtoc/internal/toc"
)

// Cache remembers which documents already carry an up-to-date TOC for a
// given options fingerprint.
type Cache struct {
	db  *DB
	log *zap.Logger
}

func NewCache(db *DB, log *zap.Logger) *Cache {
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{db: db, log: log}
}

// Hash is the content hash stored per document.
func Hash(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// DB returns the backing database.
func (c *Cache) DB() *DB {
	return c.db
}

// Fresh reports whether path was last recorded with the same content hash
// and options key.
func (c *Cache) Fresh(path, hash, key string) (bool, error) {
	doc, err := c.db.DocumentState(path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s: %w", path, err)
	}
	fresh := doc.Hash == hash && doc.OptionsKey == key
	c.log.Debug("cache lookup", zap.String("path", path), zap.Bool("fresh", fresh))
	return fresh, nil
}

// Record stores the hash, options key and TOC entries of path.
func (c *Cache) Record(path, hash, key string, entries []toc.Entry) error {
	doc := Document{Path: path, Hash: hash, OptionsKey: key}
	if info, err := os.Stat(path); err == nil {
		doc.ModTime = info.ModTime().Unix()
		doc.Size = info.Size()
	}

	headings := make([]Heading, len(entries))
	for i, e := range entries {
		headings[i] = Heading{Level: e.Depth, Text: e.Content, Slug: e.Slug, Seen: e.Seen, Line: e.Line}
	}
	if err := c.db.RecordDocument(doc, headings); err != nil {
		return fmt.Errorf("record %s: %w", path, err)
	}
	c.log.Debug("cache record", zap.String("path", path), zap.Int("headings", len(headings)))
	return nil
}

// Headings returns the cached entries of path, or ErrNotFound.
func (c *Cache) Headings(path string) ([]toc.Entry, error) {
	if _, err := c.db.DocumentState(path); err != nil {
		return nil, err
	}
	rows, err := c.db.Headings(path)
	if err != nil {
		return nil, fmt.Errorf("headings %s: %w", path, err)
	}
	entries := make([]toc.Entry, len(rows))
	for i, h := range rows {
		entries[i] = toc.Entry{Content: h.Text, Slug: h.Slug, Depth: h.Level, Seen: h.Seen, Order: i, Line: h.Line}
	}
	return entries, nil
}

// Forget drops path from the cache.
func (c *Cache) Forget(path string) error {
	if err := c.db.DeleteDocument(path); err != nil {
		return fmt.Errorf("forget %s: %w", path, err)
	}
	c.log.Debug("cache forget", zap.String("path", path))
	return nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}
