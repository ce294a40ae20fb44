package normalize

import (
	"log"
	"time"

	"gamecatalog/internal/models"
)

const dateLayout = "2006-01-02"

// Stats counts the outcome of one normalization batch. Dropped records are
// the ones missing their game id, which is the only fatal per-record defect.
type Stats struct {
	Input   int
	Rows    int
	Dropped int
}

// Games flattens raw API records into canonical rows. The output preserves
// input order and every row carries the same updatedAt value. Missing nested
// collections degrade to empty lists, a missing release date to nil; only a
// missing id drops the record.
func Games(records []models.RawGame, updatedAt time.Time) ([]models.GameRow, Stats) {
	stats := Stats{Input: len(records)}

	rows := make([]models.GameRow, 0, len(records))
	for _, record := range records {
		if record.ID == nil {
			stats.Dropped++
			continue
		}

		rows = append(rows, models.GameRow{
			GameID:       *record.ID,
			Slug:         record.Slug,
			Name:         record.Name,
			Released:     parseReleaseDate(record.Released),
			Rating:       record.Rating,
			RatingsCount: record.RatingsCount,
			Platforms:    platformNames(record.Platforms),
			Genres:       genreNames(record.Genres),
			UpdatedAt:    updatedAt,
		})
	}

	stats.Rows = len(rows)
	if stats.Dropped > 0 {
		log.Printf("Dropped %d records with no game id", stats.Dropped)
	}

	return rows, stats
}

func parseReleaseDate(value string) *time.Time {
	if value == "" {
		return nil
	}

	date, err := time.Parse(dateLayout, value)
	if err != nil {
		log.Printf("Could not parse release date %q, keeping it null: %v", value, err)
		return nil
	}
	return &date
}

func platformNames(wrappers []models.PlatformWrapper) []string {
	names := make([]string, 0, len(wrappers))
	for _, wrapper := range wrappers {
		names = append(names, wrapper.Platform.Name)
	}
	return names
}

func genreNames(genres []models.Genre) []string {
	names := make([]string, 0, len(genres))
	for _, genre := range genres {
		names = append(names, genre.Name)
	}
	return names
}
