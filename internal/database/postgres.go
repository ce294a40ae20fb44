package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gamecatalog/internal/models"
)

type PostgresDBManager struct {
	dbpool *pgxpool.Pool
	ctx    context.Context
}

func NewPostgresDBManager(ctx context.Context, pool *pgxpool.Pool) *PostgresDBManager {
	return &PostgresDBManager{dbpool: pool, ctx: ctx}
}

// EnsureSchema creates the games table and the ingest_runs bookkeeping table
// if they do not exist yet.
func (m *PostgresDBManager) EnsureSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS games (
			game_id BIGINT PRIMARY KEY,
			slug TEXT NOT NULL,
			name TEXT NOT NULL,
			released DATE,
			rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			ratings_count BIGINT NOT NULL DEFAULT 0,
			platforms TEXT[] NOT NULL DEFAULT '{}',
			genres TEXT[] NOT NULL DEFAULT '{}',
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS ingest_runs (
			id SERIAL PRIMARY KEY,
			raw_file VARCHAR(255) NOT NULL,
			checksum VARCHAR(64) NOT NULL,
			status VARCHAR(50) NOT NULL CHECK (status IN ('DONE', 'DONE_WITH_ERRORS', 'PROCESSING', 'FATAL')),
			row_count INTEGER NOT NULL DEFAULT 0,
			dropped_count INTEGER NOT NULL DEFAULT 0,
			started_at TIMESTAMPTZ NOT NULL
		);`,
	}

	for _, query := range queries {
		if _, err := m.dbpool.Exec(m.ctx, query); err != nil {
			return fmt.Errorf("error creating schema: %v", err)
		}
	}

	return nil
}

const upsertGameQuery = `
	INSERT INTO games (game_id, slug, name, released, rating, ratings_count, platforms, genres, updated_at)
	VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9::timestamptz)
	ON CONFLICT (game_id) DO UPDATE SET
		slug = EXCLUDED.slug,
		name = EXCLUDED.name,
		released = EXCLUDED.released,
		rating = EXCLUDED.rating,
		ratings_count = EXCLUDED.ratings_count,
		platforms = EXCLUDED.platforms,
		genres = EXCLUDED.genres,
		updated_at = EXCLUDED.updated_at;`

// UpsertGames submits the whole batch as one pgx batch keyed on game_id. On
// conflict the incoming row replaces every non-key column, so re-sending the
// same batch is safe. A transport failure surfaces to the caller and aborts
// the pass; there is no partial-batch retry here.
func (m *PostgresDBManager) UpsertGames(rows []models.GameRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertGameQuery, upsertArgs(row)...)
	}

	results := m.dbpool.SendBatch(m.ctx, batch)
	for i := range rows {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("error upserting game %d: %w", rows[i].GameID, err)
		}
	}

	if err := results.Close(); err != nil {
		return fmt.Errorf("error closing upsert batch: %w", err)
	}

	return nil
}

const selectGameColumns = `game_id, slug, name, released, rating, ratings_count, platforms, genres, updated_at`

// FetchGamesWindow reads one fixed-size window of the games table in stable
// game_id order. An empty result means the reader has gone past the end.
func (m *PostgresDBManager) FetchGamesWindow(start, batchSize int) ([]models.GameRow, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM games
	ORDER BY game_id
	LIMIT $1 OFFSET $2;`, selectGameColumns)

	rows, err := m.dbpool.Query(m.ctx, query, batchSize, start)
	if err != nil {
		return nil, fmt.Errorf("error querying games window [%d, %d): %w", start, start+batchSize, err)
	}
	defer rows.Close()

	var games []models.GameRow
	for rows.Next() {
		game, err := scanGameRow(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over games window: %w", err)
	}

	return games, nil
}

func (m *PostgresDBManager) FetchGame(gameID int64) (*models.GameRow, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM games
	WHERE game_id = $1;`, selectGameColumns)

	rows, err := m.dbpool.Query(m.ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("error querying game %d: %w", gameID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error querying game %d: %w", gameID, err)
		}
		return nil, nil
	}

	game, err := scanGameRow(rows)
	if err != nil {
		return nil, err
	}

	return &game, nil
}

func (m *PostgresDBManager) CountGames() (int64, error) {
	var count int64
	err := m.dbpool.QueryRow(m.ctx, `SELECT COUNT(*) FROM games;`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting games: %w", err)
	}

	return count, nil
}

func (m *PostgresDBManager) InsertIngestRun(rawFile, checksum string, startedAt time.Time) (int, error) {
	query := `
	INSERT INTO ingest_runs (raw_file, checksum, status, started_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id;`

	var runID int
	err := m.dbpool.QueryRow(m.ctx, query, rawFile, checksum, models.RunStatusProcessing, startedAt).Scan(&runID)
	if err != nil {
		return 0, fmt.Errorf("error inserting ingest run: %v", err)
	}

	return runID, nil
}

func (m *PostgresDBManager) UpdateIngestRunStatus(runID int, status string, rowCount, dropped int) error {
	query := `
	UPDATE ingest_runs
	SET status = $1,
		row_count = $2,
		dropped_count = $3
	WHERE id = $4;`

	_, err := m.dbpool.Exec(m.ctx, query, status, rowCount, dropped, runID)
	if err != nil {
		return fmt.Errorf("error updating ingest run status: %v", err)
	}

	return nil
}

// IsRawFilePromoted reports whether a raw file with this checksum already
// went through a successful promote pass.
func (m *PostgresDBManager) IsRawFilePromoted(checksum string) (bool, error) {
	query := `
	SELECT id
	FROM ingest_runs
	WHERE checksum = $1 AND status = 'DONE';`

	var id int
	err := m.dbpool.QueryRow(m.ctx, query, checksum).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("error finding ingest run by checksum: %v", err)
	}

	return true, nil
}

func scanGameRow(rows pgx.Rows) (models.GameRow, error) {
	var game models.GameRow
	err := rows.Scan(
		&game.GameID,
		&game.Slug,
		&game.Name,
		&game.Released,
		&game.Rating,
		&game.RatingsCount,
		&game.Platforms,
		&game.Genres,
		&game.UpdatedAt,
	)
	if err != nil {
		return models.GameRow{}, fmt.Errorf("error scanning game row: %w", err)
	}

	return game, nil
}
