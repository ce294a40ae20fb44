package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"gamecatalog/internal/models"
	"gamecatalog/internal/rawg"
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

// MockRawReader is a mock implementation of the RawReader interface.
type MockRawReader struct {
	mock.Mock
}

func (m *MockRawReader) LatestBulk() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func (m *MockRawReader) ReadBulk(path string) ([]models.RawGame, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RawGame), args.Error(1)
}

// MockDetailFetcher is a mock implementation of the DetailFetcher interface.
type MockDetailFetcher struct {
	mock.Mock
}

func (m *MockDetailFetcher) FetchGameDetail(ctx context.Context, gameID int64) ([]byte, error) {
	args := m.Called(gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockDetailWriter is a mock implementation of the DetailWriter interface.
type MockDetailWriter struct {
	mock.Mock
}

func (m *MockDetailWriter) WriteDetail(gameID int64, body []byte) (string, error) {
	args := m.Called(gameID, body)
	return args.String(0), args.Error(1)
}

// MockBulkFetcher is a mock implementation of the BulkFetcher interface.
type MockBulkFetcher struct {
	mock.Mock
}

func (m *MockBulkFetcher) FetchAllGames(ctx context.Context, datesFrom string) ([]json.RawMessage, *rawg.FetchStats, error) {
	args := m.Called(datesFrom)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]json.RawMessage), args.Get(1).(*rawg.FetchStats), args.Error(2)
}
