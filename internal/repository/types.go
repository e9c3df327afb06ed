package repository

import (
	"database/sql"
	"time"
)

type Repo struct {
	db  *sql.DB
	now func() time.Time
}

// Resolution is one stored resolution outcome.
type Resolution struct {
	ID        int64
	RequestID string
	VideoID   string
	Source    string
	URL       string
	OK        bool
	Attempts  int
	Elapsed   time.Duration
	CreatedAt time.Time
}

// SourceStat aggregates outcomes per winning source; failed calls are
// grouped under an empty source.
type SourceStat struct {
	Source string
	Count  int
	AvgMs  float64
}
