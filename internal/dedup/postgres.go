package dedup

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/vitalviral/newsbot/internal/logger"
	"github.com/vitalviral/newsbot/internal/news"
)

// PostgresStore keeps the seen-article ledger in PostgreSQL for deployments
// where the working directory does not survive between runs (CI runners).
// Matching semantics are identical to FileStore; the fuzzy comparison runs in
// process over the retained window, not in SQL.
type PostgresStore struct {
	db             *sql.DB
	maxAge         time.Duration
	maxRecords     int
	fuzzyThreshold float64
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects, pings and ensures the schema exists.
func NewPostgresStore(connStr string, maxAge time.Duration, maxRecords int, fuzzyThreshold float64) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	ps := &PostgresStore{
		db:             db,
		maxAge:         maxAge,
		maxRecords:     maxRecords,
		fuzzyThreshold: fuzzyThreshold,
	}
	if err := ps.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	logger.Info("postgres seen ledger connected")
	return ps, nil
}

func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS seen_articles (
		id         SERIAL PRIMARY KEY,
		url        TEXT NOT NULL,
		title      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_seen_articles_created_at ON seen_articles (created_at);
	`
	_, err := ps.db.Exec(schema)
	return err
}

// Close releases the connection pool.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}

// recent returns the retained window in chronological order, failing open to
// an empty ledger on any read error.
func (ps *PostgresStore) recent() []SeenRecord {
	rows, err := ps.db.Query(
		`SELECT url, title, created_at FROM seen_articles
		 WHERE created_at > NOW() - $1::interval
		 ORDER BY created_at ASC`,
		fmt.Sprintf("%d hours", int(ps.maxAge.Hours())),
	)
	if err != nil {
		logger.Warn("seen ledger query failed, treating as empty", "err", err)
		return nil
	}
	defer rows.Close()

	var records []SeenRecord
	for rows.Next() {
		var rec SeenRecord
		if err := rows.Scan(&rec.URL, &rec.Title, &rec.Timestamp); err != nil {
			logger.Warn("seen ledger scan failed, treating as empty", "err", err)
			return nil
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		logger.Warn("seen ledger iteration failed, treating as empty", "err", err)
		return nil
	}
	return records
}

// IsNew reports whether no retained record matches the article.
func (ps *PostgresStore) IsNew(article news.Article) bool {
	for _, rec := range ps.recent() {
		if matchesRecord(article, rec, ps.fuzzyThreshold) {
			return false
		}
	}
	return true
}

// MarkSeen inserts the article and applies both retention bounds.
func (ps *PostgresStore) MarkSeen(article news.Article) error {
	tx, err := ps.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO seen_articles (url, title) VALUES ($1, $2)`,
		article.URL, article.Title,
	); err != nil {
		return fmt.Errorf("insert seen record: %w", err)
	}

	// Time filter first, then the size cap on what remains.
	if _, err := tx.Exec(
		`DELETE FROM seen_articles WHERE created_at <= NOW() - $1::interval`,
		fmt.Sprintf("%d hours", int(ps.maxAge.Hours())),
	); err != nil {
		return fmt.Errorf("prune by age: %w", err)
	}
	if _, err := tx.Exec(
		`DELETE FROM seen_articles WHERE id NOT IN (
			SELECT id FROM seen_articles ORDER BY created_at DESC, id DESC LIMIT $1
		)`,
		ps.maxRecords,
	); err != nil {
		return fmt.Errorf("prune by count: %w", err)
	}

	return tx.Commit()
}
