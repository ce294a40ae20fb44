package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"gamecatalog/internal/models"
)

const (
	filePrefix = "rawg_games_cleaned_"
	fileSuffix = ".parquet"

	timestampLayout = "2006-01-02_15-04-05"
)

// snapshotRow is the parquet-tagged mirror of models.GameRow. The schema is
// embedded in every snapshot file.
type snapshotRow struct {
	GameID       int64      `parquet:"game_id"`
	Slug         string     `parquet:"slug"`
	Name         string     `parquet:"name"`
	Released     *time.Time `parquet:"released,optional"`
	Rating       float64    `parquet:"rating"`
	RatingsCount int64      `parquet:"ratings_count"`
	Platforms    []string   `parquet:"platforms,list"`
	Genres       []string   `parquet:"genres,list"`
	UpdatedAt    time.Time  `parquet:"updated_at"`
}

// Write serializes one batch of rows into an immutable snapshot file named
// by ts. The data goes to a temp file first and is renamed into place, so a
// reader either sees the complete file or no file at all.
func Write(dir string, rows []models.GameRow, ts time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir %s: %w", dir, err)
	}

	snapshotRows := make([]snapshotRow, len(rows))
	for i, row := range rows {
		snapshotRows[i] = snapshotRow{
			GameID:       row.GameID,
			Slug:         row.Slug,
			Name:         row.Name,
			Released:     row.Released,
			Rating:       row.Rating,
			RatingsCount: row.RatingsCount,
			Platforms:    row.Platforms,
			Genres:       row.Genres,
			UpdatedAt:    row.UpdatedAt,
		}
	}

	path := filepath.Join(dir, filePrefix+ts.Format(timestampLayout)+fileSuffix)
	tmp := path + ".tmp"

	file, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot temp file: %w", err)
	}

	writer := parquet.NewGenericWriter[snapshotRow](file)
	if _, err := writer.Write(snapshotRows); err != nil {
		file.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to write snapshot rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		file.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("failed to finalize snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to close snapshot file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("failed to rename snapshot into place: %w", err)
	}

	return path, nil
}

// Read loads a snapshot file back into rows, in the order they were written.
func Read(path string) ([]models.GameRow, error) {
	snapshotRows, err := parquet.ReadFile[snapshotRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	rows := make([]models.GameRow, len(snapshotRows))
	for i, sr := range snapshotRows {
		rows[i] = models.GameRow{
			GameID:       sr.GameID,
			Slug:         sr.Slug,
			Name:         sr.Name,
			Released:     sr.Released,
			Rating:       sr.Rating,
			RatingsCount: sr.RatingsCount,
			Platforms:    emptyIfNil(sr.Platforms),
			Genres:       emptyIfNil(sr.Genres),
			UpdatedAt:    sr.UpdatedAt,
		}
	}

	return rows, nil
}

// Latest returns the snapshot file with the greatest embedded timestamp. The
// file name, not filesystem mtime, decides which snapshot is authoritative.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read snapshot dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		return "", fmt.Errorf("no snapshot files found in %s", dir)
	}

	sort.Strings(names)
	return filepath.Join(dir, names[len(names)-1]), nil
}

func emptyIfNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
