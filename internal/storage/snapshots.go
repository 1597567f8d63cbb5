package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordSnapshot persists one snapshot at most once per natural key.
// It returns Inserted when this call caused a new row to durably exist,
// and Skipped when a row for (AgentName, Date, Time) already existed —
// whether written earlier in this process or in a prior run. Duplicates
// are expected traffic, never an error.
//
// The existence check and the insert are a single atomic operation:
// INSERT OR IGNORE leans on the table's uniqueness constraint, so two
// concurrent calls with the same key cannot both observe "absent". A
// Skipped call performs no write; the earlier row's content stays
// authoritative even when the resubmission carries different raw text.
func (s *Store) RecordSnapshot(snap Snapshot) (WriteResult, error) {
	if err := validateKey(snap); err != nil {
		return Skipped, err
	}

	recordedAt := snap.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	res, err := s.db.Exec(`
		INSERT OR IGNORE INTO snapshots (
			agent_name, agent_faction, date, time,
			level, lifetime_ap, current_ap,
			cycle_name, cycle_points, raw_line, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.AgentName, snap.AgentFaction, snap.Date, snap.Time,
		nullable(snap.Level), nullable(snap.LifetimeAP), nullable(snap.CurrentAP),
		snap.CycleName, nullable(snap.CyclePoints), snap.RawLine,
		recordedAt.Format(time.RFC3339),
	)
	if err != nil {
		return Skipped, fmt.Errorf("%w: inserting snapshot: %v", ErrUnavailable, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return Skipped, fmt.Errorf("%w: checking inserted rows: %v", ErrUnavailable, err)
	}
	if n == 0 {
		return Skipped, nil
	}
	return Inserted, nil
}

// GetSnapshot looks up a snapshot by its natural key. Returns ErrNotFound
// when no row exists for the key.
func (s *Store) GetSnapshot(agent, date, timeOfDay string) (Snapshot, error) {
	var snap Snapshot
	var level, lifetimeAP, currentAP, cyclePoints sql.NullInt64
	var recordedAt string
	err := s.db.QueryRow(`
		SELECT agent_name, agent_faction, date, time,
			level, lifetime_ap, current_ap,
			cycle_name, cycle_points, raw_line, recorded_at
		FROM snapshots WHERE agent_name = ? AND date = ? AND time = ?`,
		agent, date, timeOfDay,
	).Scan(&snap.AgentName, &snap.AgentFaction, &snap.Date, &snap.Time,
		&level, &lifetimeAP, &currentAP,
		&snap.CycleName, &cyclePoints, &snap.RawLine, &recordedAt)
	if err == sql.ErrNoRows {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: selecting snapshot: %v", ErrUnavailable, err)
	}

	snap.Level = fromNullable(level)
	snap.LifetimeAP = fromNullable(lifetimeAP)
	snap.CurrentAP = fromNullable(currentAP)
	snap.CyclePoints = fromNullable(cyclePoints)

	t, err := time.Parse(time.RFC3339, recordedAt)
	if err != nil {
		return Snapshot{}, fmt.Errorf("parsing recorded_at: %w", err)
	}
	snap.RecordedAt = t
	return snap, nil
}

func validateKey(snap Snapshot) error {
	switch {
	case snap.AgentName == "":
		return fmt.Errorf("%w: empty agent name", ErrInvalidRecord)
	case snap.Date == "":
		return fmt.Errorf("%w: empty date", ErrInvalidRecord)
	case snap.Time == "":
		return fmt.Errorf("%w: empty time", ErrInvalidRecord)
	}
	return nil
}

func nullable(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNullable(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
