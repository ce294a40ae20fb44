package pipeline

import (
	"fmt"

	"gamecatalog/internal/database"
	"gamecatalog/internal/models"
)

const defaultPullBatchSize = 1000

// PullAllGames reconstructs the complete games table as one ordered slice by
// reading sequential fixed-size windows until a window comes back empty.
// Completeness assumes the table is not concurrently reordered under the
// reader; game_id ordering makes the windows stable within one pass.
func PullAllGames(db database.DBManager, batchSize int) ([]models.GameRow, error) {
	if batchSize <= 0 {
		batchSize = defaultPullBatchSize
	}

	var all []models.GameRow
	for start := 0; ; start += batchSize {
		window, err := db.FetchGamesWindow(start, batchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to read games window starting at %d: %w", start, err)
		}
		if len(window) == 0 {
			break
		}
		all = append(all, window...)
	}

	return all, nil
}
