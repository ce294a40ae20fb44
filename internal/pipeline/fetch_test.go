package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamecatalog/internal/rawg"
	"gamecatalog/internal/rawstore"
)

func TestFetchExecuteWritesCheckpoint(t *testing.T) {
	dir := t.TempDir()
	store := rawstore.New(dir, filepath.Join(dir, "details"))

	results := []json.RawMessage{
		json.RawMessage(`{"id": 1}`),
		json.RawMessage(`{"id": 2}`),
	}
	fetcher := new(MockBulkFetcher)
	fetcher.On("FetchAllGames", "2025-09-01").Return(results, &rawg.FetchStats{Pages: 1, Records: 2}, nil)

	service := NewFetchService(fetcher, store)
	require.NoError(t, service.Execute(context.Background(), "2025-09-01"))

	latest, err := store.LatestBulk()
	require.NoError(t, err)

	records, err := store.ReadBulk(latest)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFetchExecutePropagatesFetchError(t *testing.T) {
	dir := t.TempDir()
	store := rawstore.New(dir, filepath.Join(dir, "details"))

	fetcher := new(MockBulkFetcher)
	fetcher.On("FetchAllGames", "2025-09-01").Return(nil, nil, errors.New("context canceled"))

	service := NewFetchService(fetcher, store)
	err := service.Execute(context.Background(), "2025-09-01")
	assert.Error(t, err)

	_, err = store.LatestBulk()
	assert.Error(t, err)
}
