package dedup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vitalviral/newsbot/internal/logger"
	"github.com/vitalviral/newsbot/internal/news"
)

// FileStore keeps the seen-article ledger in a single JSON file. A missing or
// corrupt file is treated as an empty ledger so a bad disk state can never
// fail the run. Writes replace the whole file via a temp file and rename, so
// a crash mid-write leaves the previous state intact.
type FileStore struct {
	path           string
	maxAge         time.Duration
	maxRecords     int
	fuzzyThreshold float64

	mu  sync.Mutex
	now func() time.Time
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed store with the retention bounds and
// fuzzy duplicate threshold to use.
func NewFileStore(path string, maxAge time.Duration, maxRecords int, fuzzyThreshold float64) *FileStore {
	return &FileStore{
		path:           path,
		maxAge:         maxAge,
		maxRecords:     maxRecords,
		fuzzyThreshold: fuzzyThreshold,
		now:            time.Now,
	}
}

// load reads the ledger, failing open to an empty one.
func (fs *FileStore) load() []SeenRecord {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("seen ledger unreadable, starting empty", "path", fs.path, "err", err)
		}
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var records []SeenRecord
	if err := json.Unmarshal(data, &records); err != nil {
		logger.Warn("seen ledger corrupt, starting empty", "path", fs.path, "err", err)
		return nil
	}
	return records
}

// IsNew reports whether no stored record matches the article by URL, exact
// title or fuzzy title similarity.
func (fs *FileStore) IsNew(article news.Article) bool {
	fs.mu.Lock()
	records := fs.load()
	fs.mu.Unlock()

	// Exact matches short-circuit; the fuzzy scan has to visit every record.
	for _, rec := range records {
		if matchesRecord(article, rec, fs.fuzzyThreshold) {
			return false
		}
	}
	return true
}

// MarkSeen appends the article with the current timestamp and rewrites the
// ledger with the retention policy applied.
func (fs *FileStore) MarkSeen(article news.Article) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	now := fs.now()
	records := append(fs.load(), SeenRecord{
		URL:       article.URL,
		Title:     article.Title,
		Timestamp: now,
	})
	records = prune(records, now, fs.maxAge, fs.maxRecords)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen ledger: %w", err)
	}

	if dir := filepath.Dir(fs.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ledger dir: %w", err)
		}
	}

	// Full-state replace: write a complete new file, then rename over the old.
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write seen ledger: %w", err)
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("replace seen ledger: %w", err)
	}
	return nil
}
