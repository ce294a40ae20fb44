package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gamecatalog/internal/rawg"
)

// BulkFetcher is the piece of the RAWG client the fetch pass needs.
type BulkFetcher interface {
	FetchAllGames(ctx context.Context, datesFrom string) ([]json.RawMessage, *rawg.FetchStats, error)
}

// BulkWriter persists the raw checkpoint of one bulk pass.
type BulkWriter interface {
	WriteBulk(results []json.RawMessage, ts time.Time) (string, error)
}

// FetchService runs one bulk fetch pass: walk the listing endpoint and write
// the complete result set as a timestamped raw checkpoint file.
type FetchService struct {
	fetcher BulkFetcher
	store   BulkWriter
}

func NewFetchService(fetcher BulkFetcher, store BulkWriter) *FetchService {
	return &FetchService{fetcher: fetcher, store: store}
}

func (s *FetchService) Execute(ctx context.Context, datesFrom string) error {
	results, stats, err := s.fetcher.FetchAllGames(ctx, datesFrom)
	if err != nil {
		return fmt.Errorf("bulk fetch failed: %w", err)
	}

	path, err := s.store.WriteBulk(results, time.Now())
	if err != nil {
		return fmt.Errorf("failed to checkpoint raw results: %w", err)
	}

	log.Printf("Collected %d games over %d pages in %s", stats.Records, stats.Pages, stats.Elapsed.Round(time.Millisecond))
	log.Printf("Saved raw response to %s", path)
	return nil
}
