package stats

import (
	"strings"
	"testing"

	"github.com/primecycle/statsnap/internal/storage"
)

func int64p(v int64) *int64 { return &v }

// TestFormatSnapshotFull renders every populated field.
func TestFormatSnapshotFull(t *testing.T) {
	got := FormatSnapshot(storage.Snapshot{
		AgentName:    "agent1",
		AgentFaction: "ENL",
		Date:         "2024-01-01",
		Time:         "10:00:00",
		Level:        int64p(16),
		LifetimeAP:   int64p(42000000),
		CurrentAP:    int64p(41000000),
		CycleName:    "Theta",
		CyclePoints:  int64p(512),
	})

	for _, want := range []string{
		"Agent Name: agent1",
		"Agent Faction: ENL",
		"Date (yyyy-mm-dd): 2024-01-01",
		"Time (hh:mm:ss): 10:00:00",
		"Level: 16",
		"Lifetime AP: 42000000",
		"Current AP: 41000000",
		"Cycle Theta: 512",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

// TestFormatSnapshotOmitsEmpty leaves out unset optional fields.
func TestFormatSnapshotOmitsEmpty(t *testing.T) {
	got := FormatSnapshot(storage.Snapshot{
		AgentName: "agent2",
		Date:      "2024-02-02",
		Time:      "08:30",
	})

	for _, absent := range []string{"Faction", "Level", "Lifetime AP", "Current AP", "Cycle"} {
		if strings.Contains(got, absent) {
			t.Errorf("output should omit %q:\n%s", absent, got)
		}
	}
}
