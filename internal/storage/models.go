package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrInvalidRecord is returned when a snapshot is missing one of its
// natural-key fields. It is reported before any I/O is attempted.
var ErrInvalidRecord = errors.New("invalid record")

// ErrUnavailable is returned when the backing database cannot be opened,
// read, or written. Retrying the whole call is safe: writes are
// idempotent on the natural key.
var ErrUnavailable = errors.New("storage unavailable")

// WriteResult reports whether RecordSnapshot durably created a new row
// or found one already present for the same natural key.
type WriteResult int

const (
	Inserted WriteResult = iota
	Skipped
)

func (r WriteResult) String() string {
	if r == Inserted {
		return "inserted"
	}
	return "skipped"
}

// Snapshot is one observed score reading for one agent at one instant.
// (AgentName, Date, Time) is the natural key; RecordedAt and the row id
// are store-internal and not part of identity.
type Snapshot struct {
	AgentName    string
	AgentFaction string // "ENL" or "RES", empty when unknown
	Date         string // YYYY-MM-DD
	Time         string // HH:MM or HH:MM:SS
	Level        *int64
	LifetimeAP   *int64
	CurrentAP    *int64
	CycleName    string
	CyclePoints  *int64
	RawLine      string
	RecordedAt   time.Time
}
