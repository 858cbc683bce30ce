// Package cache implements the Cache Layer (component F): content-
// addressed memoisation of translated batches on disk, grounded on
// original_source/tasks/translater/cache.py.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// endOfString is the sentinel byte written after every source string when
// hashing a batch, so {"ab", "c"} and {"a", "bc"} never collide.
const endOfString = 0x03

// Translator produces translations for a batch of source strings that
// missed the cache. It receives a report callback for incremental progress.
type Translator func(sourceTexts []string, reportProgress func(float64)) ([]string, error)

// Cache memoises Translator results keyed by the hash of their source
// batch, so re-running a translation against an unchanged page is free.
type Cache struct {
	dir    string
	logger *logrus.Entry
}

// New returns a Cache rooted at dir, creating it if necessary.
func New(dir string, logger *logrus.Entry) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, logger: logger}, nil
}

// Translate returns the cached translation for sourceTexts if present,
// otherwise calls translate and persists its result before returning it.
func (c *Cache) Translate(sourceTexts []string, reportProgress func(float64), translate Translator) ([]string, error) {
	hash := Hash(sourceTexts)
	path := filepath.Join(c.dir, hash+".json")

	if raw, err := os.ReadFile(path); err == nil {
		var cached []string
		if err := json.Unmarshal(raw, &cached); err == nil {
			c.logger.WithField("hash", hash).Debug("cache hit")
			reportProgress(1.0)
			return cached, nil
		}
		c.logger.WithField("hash", hash).Warn("cache entry unreadable, retranslating")
	}

	translated, err := translate(sourceTexts, reportProgress)
	if err != nil {
		return nil, err
	}

	if err := c.write(path, translated); err != nil {
		c.logger.WithError(err).WithField("hash", hash).Warn("failed to persist cache entry")
	}

	return translated, nil
}

// write encodes value as indented JSON and commits it atomically by
// writing to a temp file in the same directory and renaming over path.
func (c *Cache) write(path string, value []string) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(c.dir, "*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// Hash returns the hex-encoded SHA-256 digest of texts, each followed by
// an ETX sentinel byte, used as the cache's content-addressed key.
func Hash(texts []string) string {
	h := sha256.New()
	for _, text := range texts {
		h.Write([]byte(text))
		h.Write([]byte{endOfString})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Entry describes one on-disk cache file, for status reporting.
type Entry struct {
	Hash       string
	Bytes      int64
	ModifiedAt time.Time
}

// Stats lists every cache entry under dir, for the cache status command.
func Stats(dir string) ([]Entry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(matches))
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Hash:       info.Name()[:len(info.Name())-len(filepath.Ext(info.Name()))],
			Bytes:      info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}
	return entries, nil
}

// GC removes cache entries under dir older than maxAge, returning the
// number of files removed.
func GC(dir string, maxAge time.Duration, now time.Time) (int, error) {
	entries, err := Stats(dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if now.Sub(e.ModifiedAt) <= maxAge {
			continue
		}
		path := filepath.Join(dir, e.Hash+".json")
		if err := os.Remove(path); err != nil {
			continue
		}
		removed++
	}
	return removed, nil
}
