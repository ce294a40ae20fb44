package pipeline

import (
	"context"
	"log"
	"time"

	"gamecatalog/internal/database"
)

// DetailFetcher is the piece of the RAWG client the detail pass needs.
type DetailFetcher interface {
	FetchGameDetail(ctx context.Context, gameID int64) ([]byte, error)
}

// DetailWriter persists one per-key detail file.
type DetailWriter interface {
	WriteDetail(gameID int64, body []byte) (string, error)
}

// DetailService fetches the detail record for every game currently in the
// remote table, one request per id. Each success is persisted immediately so
// partial progress survives a crash; a failed id is logged, cooled down and
// skipped.
type DetailService struct {
	dbManager     database.DBManager
	fetcher       DetailFetcher
	store         DetailWriter
	pace          time.Duration
	cooldown      time.Duration
	pullBatchSize int
}

func NewDetailService(dbManager database.DBManager, fetcher DetailFetcher, store DetailWriter, pace, cooldown time.Duration, pullBatchSize int) *DetailService {
	return &DetailService{
		dbManager:     dbManager,
		fetcher:       fetcher,
		store:         store,
		pace:          pace,
		cooldown:      cooldown,
		pullBatchSize: pullBatchSize,
	}
}

func (s *DetailService) Execute(ctx context.Context) error {
	startTime := time.Now()

	games, err := PullAllGames(s.dbManager, s.pullBatchSize)
	if err != nil {
		return err
	}
	log.Printf("Fetching details for %d games", len(games))

	fetched := 0
	failed := 0
	for _, game := range games {
		body, err := s.fetcher.FetchGameDetail(ctx, game.GameID)
		if err != nil {
			failed++
			log.Printf("Detail fetch for game %d failed, cooling down: %v", game.GameID, err)
			if err := sleepCtx(ctx, s.cooldown); err != nil {
				return err
			}
			continue
		}

		if _, err := s.store.WriteDetail(game.GameID, body); err != nil {
			return err
		}
		fetched++

		if err := sleepCtx(ctx, s.pace); err != nil {
			return err
		}
	}

	elapsed := time.Since(startTime)
	log.Printf("Detail pass finished: %d fetched, %d failed, elapsed %.2fs", fetched, failed, elapsed.Seconds())
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
