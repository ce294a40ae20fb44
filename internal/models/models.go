package models

import (
	"time"
)

// RawGame is one game record as returned by the RAWG API. Only the fields
// the pipeline cares about are decoded; everything else is ignored.
type RawGame struct {
	ID           *int64            `json:"id"`
	Slug         string            `json:"slug"`
	Name         string            `json:"name"`
	Released     string            `json:"released"`
	Rating       float64           `json:"rating"`
	RatingsCount int64             `json:"ratings_count"`
	Platforms    []PlatformWrapper `json:"platforms"`
	Genres       []Genre           `json:"genres"`
}

// PlatformWrapper mirrors the API's nesting: each platform entry wraps the
// actual platform object.
type PlatformWrapper struct {
	Platform Platform `json:"platform"`
}

type Platform struct {
	Name string `json:"name"`
}

type Genre struct {
	Name string `json:"name"`
}

// GameRow is the flat, canonical form of one game. A batch of GameRows is
// what gets written to a snapshot and upserted into the games table.
type GameRow struct {
	GameID       int64      `json:"game_id"`
	Slug         string     `json:"slug"`
	Name         string     `json:"name"`
	Released     *time.Time `json:"released"`
	Rating       float64    `json:"rating"`
	RatingsCount int64      `json:"ratings_count"`
	Platforms    []string   `json:"platforms"`
	Genres       []string   `json:"genres"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Ingest run statuses recorded in the ingest_runs table.
const (
	RunStatusProcessing     = "PROCESSING"
	RunStatusDone           = "DONE"
	RunStatusDoneWithErrors = "DONE_WITH_ERRORS"
	RunStatusFatal          = "FATAL"
)

// IngestRun is the bookkeeping record for one promote pass over a raw file.
type IngestRun struct {
	ID        int
	RawFile   string
	Checksum  string
	Status    string
	RowCount  int
	Dropped   int
	StartedAt time.Time
}
