package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gamecatalog/internal/cache"
	"gamecatalog/internal/models"
)

// MockDBManager is a mock implementation of the database.DBManager interface.
type MockDBManager struct {
	mock.Mock
}

func (m *MockDBManager) EnsureSchema() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDBManager) UpsertGames(rows []models.GameRow) error {
	args := m.Called(rows)
	return args.Error(0)
}

func (m *MockDBManager) FetchGamesWindow(start, batchSize int) ([]models.GameRow, error) {
	args := m.Called(start, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GameRow), args.Error(1)
}

func (m *MockDBManager) FetchGame(gameID int64) (*models.GameRow, error) {
	args := m.Called(gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GameRow), args.Error(1)
}

func (m *MockDBManager) CountGames() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDBManager) InsertIngestRun(rawFile, checksum string, startedAt time.Time) (int, error) {
	args := m.Called(rawFile, checksum, startedAt)
	return args.Int(0), args.Error(1)
}

func (m *MockDBManager) UpdateIngestRunStatus(runID int, status string, rowCount, dropped int) error {
	args := m.Called(runID, status, rowCount, dropped)
	return args.Error(0)
}

func (m *MockDBManager) IsRawFilePromoted(checksum string) (bool, error) {
	args := m.Called(checksum)
	return args.Bool(0), args.Error(1)
}

func testRows(ids ...int64) []models.GameRow {
	rows := make([]models.GameRow, len(ids))
	for i, id := range ids {
		rows[i] = models.GameRow{GameID: id, Slug: "g", Platforms: []string{}, Genres: []string{}}
	}
	return rows
}

func newTestServer(dbManager *MockDBManager) *httptest.Server {
	catalog := NewCatalogService(dbManager, cache.NewMemoryCache(), time.Minute, 100)
	return httptest.NewServer(SetupRoutes(catalog))
}

func TestHealthReportsRowCount(t *testing.T) {
	dbManager := new(MockDBManager)
	dbManager.On("CountGames").Return(int64(85), nil)

	server := newTestServer(dbManager)
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(85), body["games"])
}

func TestListGamesUsesQueryWindow(t *testing.T) {
	dbManager := new(MockDBManager)
	dbManager.On("FetchGamesWindow", 40, 20).Return(testRows(41, 42), nil)

	server := newTestServer(dbManager)
	defer server.Close()

	resp, err := http.Get(server.URL + "/games?offset=40&limit=20")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var games []models.GameRow
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&games))
	require.Len(t, games, 2)
	assert.Equal(t, int64(41), games[0].GameID)
}

func TestGetGameNotFound(t *testing.T) {
	dbManager := new(MockDBManager)
	dbManager.On("FetchGame", int64(999)).Return(nil, nil)

	server := newTestServer(dbManager)
	defer server.Close()

	resp, err := http.Get(server.URL + "/games/999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetGameInvalidID(t *testing.T) {
	dbManager := new(MockDBManager)

	server := newTestServer(dbManager)
	defer server.Close()

	resp, err := http.Get(server.URL + "/games/not-a-number")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAllGamesIsCachedForTTL(t *testing.T) {
	dbManager := new(MockDBManager)
	dbManager.On("FetchGamesWindow", 0, 100).Return(testRows(1, 2, 3), nil).Once()
	dbManager.On("FetchGamesWindow", 100, 100).Return([]models.GameRow{}, nil).Once()

	server := newTestServer(dbManager)
	defer server.Close()

	for i := 0; i < 3; i++ {
		resp, err := http.Get(server.URL + "/games/all")
		require.NoError(t, err)

		var games []models.GameRow
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&games))
		resp.Body.Close()
		assert.Len(t, games, 3)
	}

	// Only the first request touched the store.
	dbManager.AssertExpectations(t)
}

func TestAllGamesStoreFailureIs500(t *testing.T) {
	dbManager := new(MockDBManager)
	dbManager.On("FetchGamesWindow", 0, 100).Return(nil, errors.New("connection refused"))

	server := newTestServer(dbManager)
	defer server.Close()

	resp, err := http.Get(server.URL + "/games/all")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
