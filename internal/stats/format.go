package stats

import (
	"fmt"
	"strings"

	"github.com/primecycle/statsnap/internal/storage"
)

// FormatSnapshot renders the general section of a parsed snapshot as a
// Telegram-friendly text block, in the primestatsbot style.
func FormatSnapshot(snap storage.Snapshot) string {
	var b strings.Builder
	b.WriteString("General\n")
	fmt.Fprintf(&b, "Agent Name: %s\n", snap.AgentName)
	if snap.AgentFaction != "" {
		fmt.Fprintf(&b, "Agent Faction: %s\n", snap.AgentFaction)
	}
	fmt.Fprintf(&b, "Date (yyyy-mm-dd): %s\n", snap.Date)
	fmt.Fprintf(&b, "Time (hh:mm:ss): %s\n", snap.Time)
	if snap.Level != nil {
		fmt.Fprintf(&b, "Level: %d\n", *snap.Level)
	}
	if snap.LifetimeAP != nil {
		fmt.Fprintf(&b, "Lifetime AP: %d\n", *snap.LifetimeAP)
	}
	if snap.CurrentAP != nil {
		fmt.Fprintf(&b, "Current AP: %d\n", *snap.CurrentAP)
	}
	if snap.CycleName != "" {
		if snap.CyclePoints != nil {
			fmt.Fprintf(&b, "Cycle %s: %d\n", snap.CycleName, *snap.CyclePoints)
		} else {
			fmt.Fprintf(&b, "Cycle %s\n", snap.CycleName)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
