package database

import (
	"time"

	"gamecatalog/internal/models"
)

// Temporal columns are sent as canonical strings and cast server-side, since
// the transport layer is not trusted to serialize temporal types itself.
const (
	releasedWireLayout  = "2006-01-02"
	updatedAtWireLayout = time.RFC3339
)

func releasedArg(released *time.Time) *string {
	if released == nil {
		return nil
	}
	value := released.Format(releasedWireLayout)
	return &value
}

func updatedAtArg(updatedAt time.Time) string {
	return updatedAt.UTC().Format(updatedAtWireLayout)
}

// upsertArgs builds the positional arguments for one queued upsert, in the
// column order of upsertGameQuery.
func upsertArgs(row models.GameRow) []any {
	return []any{
		row.GameID,
		row.Slug,
		row.Name,
		releasedArg(row.Released),
		row.Rating,
		row.RatingsCount,
		row.Platforms,
		row.Genres,
		updatedAtArg(row.UpdatedAt),
	}
}
