package rawstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gamecatalog/internal/models"
)

const (
	bulkPrefix = "rawg_games_"
	bulkSuffix = ".json"

	// TimestampLayout is embedded in bulk file names so that lexicographic
	// order equals chronological order.
	TimestampLayout = "2006-01-02_15-04-05"
)

// Store reads and writes the raw JSON checkpoint files produced by fetch
// passes. Bulk passes write one timestamped file each, detail passes write
// one file per game id.
type Store struct {
	rawDir    string
	detailDir string
}

func New(rawDir, detailDir string) *Store {
	return &Store{rawDir: rawDir, detailDir: detailDir}
}

// WriteBulk persists the complete result set of one bulk fetch pass as a
// single timestamped JSON array. The file is written to a temp name and
// renamed so readers never see a partial file.
func (s *Store) WriteBulk(results []json.RawMessage, ts time.Time) (string, error) {
	if err := os.MkdirAll(s.rawDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create raw dir %s: %w", s.rawDir, err)
	}

	data, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to marshal raw results: %w", err)
	}

	name := bulkPrefix + ts.Format(TimestampLayout) + bulkSuffix
	path := filepath.Join(s.rawDir, name)
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}

	return path, nil
}

// LatestBulk returns the path of the most recent bulk file, determined by the
// timestamp embedded in the file name rather than filesystem mtime.
func (s *Store) LatestBulk() (string, error) {
	entries, err := os.ReadDir(s.rawDir)
	if err != nil {
		return "", fmt.Errorf("failed to read raw dir %s: %w", s.rawDir, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, bulkPrefix) || !strings.HasSuffix(name, bulkSuffix) {
			continue
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return "", fmt.Errorf("no raw files found in %s", s.rawDir)
	}

	sort.Strings(names)
	return filepath.Join(s.rawDir, names[len(names)-1]), nil
}

// ReadBulk decodes a bulk raw file into typed records.
func (s *Store) ReadBulk(path string) ([]models.RawGame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw file %s: %w", path, err)
	}

	var records []models.RawGame
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse raw file %s: %w", path, err)
	}

	return records, nil
}

// WriteDetail persists the raw detail response for one game id. Each key gets
// its own file so partial progress survives a crash mid-run.
func (s *Store) WriteDetail(gameID int64, body []byte) (string, error) {
	if err := os.MkdirAll(s.detailDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create detail dir %s: %w", s.detailDir, err)
	}

	path := filepath.Join(s.detailDir, fmt.Sprintf("game_%d.json", gameID))
	if err := writeAtomic(path, body); err != nil {
		return "", err
	}

	return path, nil
}

// BulkTimestamp extracts the fetch timestamp embedded in a bulk file name.
// The name, not filesystem mtime, is the batch's ingestion time.
func BulkTimestamp(path string) (time.Time, error) {
	name := filepath.Base(path)
	if !strings.HasPrefix(name, bulkPrefix) || !strings.HasSuffix(name, bulkSuffix) {
		return time.Time{}, fmt.Errorf("%s is not a bulk raw file", name)
	}

	stamp := strings.TrimSuffix(strings.TrimPrefix(name, bulkPrefix), bulkSuffix)
	ts, err := time.Parse(TimestampLayout, stamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp from %s: %w", name, err)
	}

	return ts, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename %s: %w", tmp, err)
	}
	return nil
}
