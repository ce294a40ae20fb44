package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"gamecatalog/internal/models"
)

// DBManager is the remote table store seen by the rest of the pipeline.
type DBManager interface {
	EnsureSchema() error
	UpsertGames(rows []models.GameRow) error
	FetchGamesWindow(start, batchSize int) ([]models.GameRow, error)
	FetchGame(gameID int64) (*models.GameRow, error)
	CountGames() (int64, error)
	InsertIngestRun(rawFile, checksum string, startedAt time.Time) (int, error)
	UpdateIngestRunStatus(runID int, status string, rowCount, dropped int) error
	IsRawFilePromoted(checksum string) (bool, error)
}

func ConnectDB(connStr string) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	return dbpool, nil
}
