package rawg

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamecatalog/internal/config"
)

func testClient(baseURL string) *Client {
	return NewClient(config.RAWGConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		PageSize:    40,
		DatesFrom:   "2025-09-01",
		PageDelay:   time.Millisecond,
		MaxAttempts: 2,
		RetryDelay:  time.Millisecond,
	})
}

func pageBody(t *testing.T, baseID, count int, next string) []byte {
	t.Helper()

	results := make([]json.RawMessage, count)
	for i := 0; i < count; i++ {
		results[i] = json.RawMessage(fmt.Sprintf(`{"id": %d, "slug": "game-%d"}`, baseID+i, baseID+i))
	}

	body, err := json.Marshal(map[string]any{
		"count":   85,
		"next":    next,
		"results": results,
	})
	require.NoError(t, err)
	return body
}

func TestFetchAllGamesPaginatesToExhaustion(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "40", r.URL.Query().Get("page_size"))

		switch r.URL.Query().Get("page") {
		case "1":
			w.Write(pageBody(t, 0, 40, server.URL+"/games?page=2"))
		case "2":
			w.Write(pageBody(t, 40, 40, server.URL+"/games?page=3"))
		case "3":
			w.Write(pageBody(t, 80, 5, ""))
		default:
			t.Errorf("unexpected page request: %s", r.URL.RawQuery)
		}
	}))
	defer server.Close()

	client := testClient(server.URL)
	results, stats, err := client.FetchAllGames(context.Background(), "2025-09-01")
	require.NoError(t, err)

	require.Len(t, results, 85)
	assert.Equal(t, 3, stats.Pages)
	assert.Equal(t, 85, stats.Records)

	// No duplicates and no gaps: ids must be exactly 0..84 in order.
	for i, raw := range results {
		var record struct {
			ID int `json:"id"`
		}
		require.NoError(t, json.Unmarshal(raw, &record))
		assert.Equal(t, i, record.ID)
	}
}

func TestFetchAllGamesMalformedBodyEndsPass(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>rate limited</html>"))
	}))
	defer server.Close()

	client := testClient(server.URL)
	results, stats, err := client.FetchAllGames(context.Background(), "2025-09-01")
	require.NoError(t, err)

	assert.Empty(t, results)
	assert.Equal(t, 1, stats.Pages)
}

func TestFetchAllGamesStopsOnPersistentServerError(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(server.URL)
	results, stats, err := client.FetchAllGames(context.Background(), "2025-09-01")
	require.NoError(t, err)

	assert.Empty(t, results)
	assert.Equal(t, 0, stats.Records)
	// MaxAttempts is 2, so the failing page was retried once.
	assert.Equal(t, 2, requests)
}

func TestFetchGameDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/games/42", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Write([]byte(`{"id": 42, "name": "Celeste", "description": "climb"}`))
	}))
	defer server.Close()

	client := testClient(server.URL)
	body, err := client.FetchGameDetail(context.Background(), 42)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 42, "name": "Celeste", "description": "climb"}`, string(body))
}

func TestFetchGameDetailRejectsNonJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.FetchGameDetail(context.Background(), 42)
	assert.Error(t, err)
}

func TestFetchGameDetailSurfacesTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.FetchGameDetail(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "game 42")
}
