package stats

import (
	"strings"
	"testing"
)

// TestParseStandardLine parses a standard export line with a cycle token.
func TestParseStandardLine(t *testing.T) {
	p := NewParser()

	got := p.Parse("WEEK agent1 Enlightened 2024-01-01 10:00:00 16 42000000 41000000 +Theta 512")
	if len(got) != 1 {
		t.Fatalf("parsed %d snapshots, want 1", len(got))
	}

	snap := got[0]
	if snap.AgentName != "agent1" {
		t.Errorf("AgentName = %q, want agent1", snap.AgentName)
	}
	if snap.AgentFaction != "ENL" {
		t.Errorf("AgentFaction = %q, want ENL", snap.AgentFaction)
	}
	if snap.Date != "2024-01-01" || snap.Time != "10:00:00" {
		t.Errorf("key = (%q, %q), want (2024-01-01, 10:00:00)", snap.Date, snap.Time)
	}
	if snap.Level == nil || *snap.Level != 16 {
		t.Errorf("Level = %v, want 16", snap.Level)
	}
	if snap.LifetimeAP == nil || *snap.LifetimeAP != 42000000 {
		t.Errorf("LifetimeAP = %v, want 42000000", snap.LifetimeAP)
	}
	if snap.CycleName != "Theta" {
		t.Errorf("CycleName = %q, want Theta", snap.CycleName)
	}
	if snap.CyclePoints == nil || *snap.CyclePoints != 512 {
		t.Errorf("CyclePoints = %v, want 512", snap.CyclePoints)
	}
	if !strings.Contains(snap.RawLine, "agent1") {
		t.Errorf("RawLine = %q, want original line retained", snap.RawLine)
	}
}

// TestParseAllTimeSpan folds the two-word "ALL TIME" span so column
// offsets still line up.
func TestParseAllTimeSpan(t *testing.T) {
	p := NewParser()

	got := p.Parse("ALL TIME agent2 RES 2024-02-02 08:30 14 30000000 29000000")
	if len(got) != 1 {
		t.Fatalf("parsed %d snapshots, want 1", len(got))
	}
	if got[0].AgentName != "agent2" {
		t.Errorf("AgentName = %q, want agent2", got[0].AgentName)
	}
	if got[0].AgentFaction != "RES" {
		t.Errorf("AgentFaction = %q, want RES", got[0].AgentFaction)
	}
	if got[0].Time != "08:30" {
		t.Errorf("Time = %q, want 08:30", got[0].Time)
	}
}

// TestParseSkipsHeader drops the export's header row before parsing.
func TestParseSkipsHeader(t *testing.T) {
	p := NewParser()

	text := "Time Span Agent Name Agent Faction Date (yyyy-mm-dd) Time (hh:mm:ss)\n" +
		"WEEK agent3 ENL 2024-03-03 12:00:00 10 1000000 900000"
	got := p.Parse(text)
	if len(got) != 1 {
		t.Fatalf("parsed %d snapshots, want 1", len(got))
	}
	if got[0].AgentName != "agent3" {
		t.Errorf("AgentName = %q, want agent3", got[0].AgentName)
	}
}

// TestParseMultipleLines parses several agents from one paste.
func TestParseMultipleLines(t *testing.T) {
	p := NewParser()

	text := "WEEK agent4 ENL 2024-04-04 10:00:00 12 2000000 1900000\n" +
		"\n" +
		"WEEK agent5 RES 2024-04-04 10:00:05 13 2100000 2000000"
	got := p.Parse(text)
	if len(got) != 2 {
		t.Fatalf("parsed %d snapshots, want 2", len(got))
	}
	if got[0].AgentName != "agent4" || got[1].AgentName != "agent5" {
		t.Errorf("agents = %q, %q", got[0].AgentName, got[1].AgentName)
	}
}

// TestParseCarriesCycleForward lines without a cycle token inherit the
// last cycle name seen by the parser.
func TestParseCarriesCycleForward(t *testing.T) {
	p := NewParser()

	first := p.Parse("WEEK agent6 ENL 2024-05-05 10:00:00 12 2000000 1900000 +Gamma 300")
	if len(first) != 1 || first[0].CycleName != "Gamma" {
		t.Fatalf("first parse: %+v", first)
	}

	second := p.Parse("WEEK agent7 RES 2024-05-05 10:01:00 11 1800000 1700000")
	if len(second) != 1 {
		t.Fatalf("parsed %d snapshots, want 1", len(second))
	}
	if second[0].CycleName != "Gamma" {
		t.Errorf("CycleName = %q, want carried-forward Gamma", second[0].CycleName)
	}
	if second[0].CyclePoints != nil {
		t.Errorf("CyclePoints = %v, want nil (none in line)", *second[0].CyclePoints)
	}
}

// TestParseRejectsMalformed drops lines with bad dates, times, factions,
// or too few columns.
func TestParseRejectsMalformed(t *testing.T) {
	p := NewParser()

	cases := []string{
		"WEEK agent8 ENL 01-01-2024 10:00:00 12 2000000 1900000", // bad date
		"WEEK agent8 ENL 2024-01-01 10h00 12 2000000 1900000",    // bad time
		"WEEK agent8 MACHINA 2024-01-01 10:00:00 12 2000000 1900000", // unknown faction
		"WEEK agent8 ENL 2024-01-01 10:00:00 twelve 2000000 1900000", // non-numeric level
		"WEEK agent8 ENL 2024-01-01",                             // too short
		"",
	}
	for _, line := range cases {
		if got := p.Parse(line); len(got) != 0 {
			t.Errorf("Parse(%q) = %d snapshots, want 0", line, len(got))
		}
	}
}

// TestParseCycleTokenWithoutPoints accepts a cycle name whose following
// column is not numeric.
func TestParseCycleTokenWithoutPoints(t *testing.T) {
	p := NewParser()

	got := p.Parse("WEEK agent9 ENL 2024-06-06 10:00:00 12 2000000 1900000 +Delta pending")
	if len(got) != 1 {
		t.Fatalf("parsed %d snapshots, want 1", len(got))
	}
	if got[0].CycleName != "Delta" {
		t.Errorf("CycleName = %q, want Delta", got[0].CycleName)
	}
	if got[0].CyclePoints != nil {
		t.Errorf("CyclePoints = %v, want nil", *got[0].CyclePoints)
	}
}
