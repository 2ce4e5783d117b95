package storage

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rohmanhakim/docs-crawler/internal/normalize"
	"github.com/rohmanhakim/docs-crawler/pkg/hashutil"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS pages (
	url_hash TEXT PRIMARY KEY,
	source_url TEXT NOT NULL,
	canonical_url TEXT NOT NULL,
	title TEXT,
	section TEXT,
	crawl_depth INTEGER,
	content_hash TEXT,
	content TEXT,
	crawler_version TEXT
);`

// sqliteWriter owns a single *sql.DB for the crawl's pages.db file.
// Opened lazily on first SQLite write, kept open for the rest of the
// crawl, and closed by DispatchSink.Close.
type sqliteWriter struct {
	db   *sql.DB
	path string
}

func openSQLiteWriter(outputDir string) (*sqliteWriter, *StorageError) {
	path := filepath.Join(outputDir, "pages.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &StorageError{Message: err.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: path}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, &StorageError{Message: err.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: path}
	}
	return &sqliteWriter{db: db, path: path}, nil
}

func (w *sqliteWriter) write(normalizedDoc normalize.NormalizedMarkdownDoc, hashAlgo hashutil.HashAlgo) (WriteResult, *StorageError) {
	fm := normalizedDoc.Frontmatter()
	canonicalURL := fm.CanonicalURL()
	urlHashFull, hashErr := hashutil.HashBytes([]byte(canonicalURL), hashAlgo)
	if hashErr != nil {
		return WriteResult{}, &StorageError{Message: hashErr.Error(), Retryable: false, Cause: ErrCauseHashComputationFailed}
	}
	urlHash := urlHashFull[:12]

	_, err := w.db.Exec(
		`INSERT INTO pages (url_hash, source_url, canonical_url, title, section, crawl_depth, content_hash, content, crawler_version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url_hash) DO UPDATE SET
			source_url=excluded.source_url, canonical_url=excluded.canonical_url,
			title=excluded.title, section=excluded.section, crawl_depth=excluded.crawl_depth,
			content_hash=excluded.content_hash, content=excluded.content,
			crawler_version=excluded.crawler_version`,
		urlHash, fm.SourceURL(), canonicalURL, fm.Title(), fm.Section(), fm.CrawlDepth(),
		fm.ContentHash(), string(normalizedDoc.Content()), fm.CrawlerVersion(),
	)
	if err != nil {
		return WriteResult{}, &StorageError{Message: err.Error(), Retryable: false, Cause: ErrCauseWriteFailure, Path: w.path}
	}

	return NewWriteResult(urlHash, fmt.Sprintf("%s#%s", w.path, urlHash), fm.ContentHash()), nil
}

func (w *sqliteWriter) Close() error {
	return w.db.Close()
}
