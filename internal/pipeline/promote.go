package pipeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gamecatalog/internal/archive"
	"gamecatalog/internal/database"
	"gamecatalog/internal/models"
	"gamecatalog/internal/normalize"
	"gamecatalog/internal/rawstore"
	"gamecatalog/internal/snapshot"
	"gamecatalog/pkg/checksum"
)

// RawReader is the piece of the raw store the promote pass needs.
type RawReader interface {
	LatestBulk() (string, error)
	ReadBulk(path string) ([]models.RawGame, error)
}

// PromoteService runs one promote pass: normalize the latest raw checkpoint,
// write an immutable snapshot, archive a copy, and upsert the batch into the
// games table. Each pass is recorded in ingest_runs and a raw file that was
// already promoted is skipped unless force is set.
type PromoteService struct {
	dbManager   database.DBManager
	rawStore    RawReader
	archive     archive.Archive
	snapshotDir string
	force       bool
}

func NewPromoteService(dbManager database.DBManager, rawStore RawReader, arc archive.Archive, snapshotDir string, force bool) *PromoteService {
	return &PromoteService{
		dbManager:   dbManager,
		rawStore:    rawStore,
		archive:     arc,
		snapshotDir: snapshotDir,
		force:       force,
	}
}

func (s *PromoteService) Execute() error {
	startTime := time.Now()

	rawPath, err := s.rawStore.LatestBulk()
	if err != nil {
		return fmt.Errorf("no raw file to promote: %w", err)
	}
	log.Printf("Latest raw file found: %s", rawPath)

	sum, err := checksum.FileChecksum(rawPath)
	if err != nil {
		return err
	}

	if !s.force {
		promoted, err := s.dbManager.IsRawFilePromoted(sum)
		if err != nil {
			return err
		}
		if promoted {
			log.Printf("Raw file %s already promoted (checksum %s), skipping", filepath.Base(rawPath), sum)
			return nil
		}
	}

	records, err := s.rawStore.ReadBulk(rawPath)
	if err != nil {
		return err
	}

	// The batch's ingestion timestamp is the fetch time embedded in the raw
	// file name, so re-promoting the same file is reproducible.
	updatedAt, err := rawstore.BulkTimestamp(rawPath)
	if err != nil {
		log.Printf("Could not derive timestamp from %s, falling back to now: %v", rawPath, err)
		updatedAt = startTime.UTC()
	}

	runID, err := s.dbManager.InsertIngestRun(filepath.Base(rawPath), sum, startTime)
	if err != nil {
		return err
	}

	rows, stats := normalize.Games(records, updatedAt)

	snapPath, err := snapshot.Write(s.snapshotDir, rows, startTime)
	if err != nil {
		s.failRun(runID, stats)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	log.Printf("Created snapshot %s", snapPath)

	data, err := os.ReadFile(snapPath)
	if err != nil {
		s.failRun(runID, stats)
		return fmt.Errorf("failed to read snapshot back: %w", err)
	}
	if err := s.archive.Put(filepath.Base(snapPath), data); err != nil {
		s.failRun(runID, stats)
		return err
	}
	log.Printf("Archived snapshot %s (%d bytes)", filepath.Base(snapPath), len(data))

	// Upsert what the snapshot actually holds, not the in-memory batch, so
	// the remote table always matches the promoted file.
	finalRows, err := snapshot.Read(snapPath)
	if err != nil {
		s.failRun(runID, stats)
		return err
	}

	if err := s.dbManager.UpsertGames(finalRows); err != nil {
		s.failRun(runID, stats)
		return fmt.Errorf("upsert failed, pass aborted: %w", err)
	}

	status := models.RunStatusDone
	if stats.Dropped > 0 {
		status = models.RunStatusDoneWithErrors
	}
	if err := s.dbManager.UpdateIngestRunStatus(runID, status, stats.Rows, stats.Dropped); err != nil {
		log.Printf("Failed to update ingest run %d: %v", runID, err)
	}

	elapsed := time.Since(startTime)
	log.Printf("Promote pass finished: %d rows upserted, %d dropped, elapsed %.2fs (%.1f rows/s)",
		stats.Rows, stats.Dropped, elapsed.Seconds(), float64(stats.Rows)/elapsed.Seconds())
	return nil
}

func (s *PromoteService) failRun(runID int, stats normalize.Stats) {
	if err := s.dbManager.UpdateIngestRunStatus(runID, models.RunStatusFatal, stats.Rows, stats.Dropped); err != nil {
		log.Printf("Failed to mark ingest run %d as fatal: %v", runID, err)
	}
}
