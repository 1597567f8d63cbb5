// Package stats parses pasted Ingress Prime stat exports into snapshot
// records and formats them for user-facing acknowledgments.
package stats

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/primecycle/statsnap/internal/storage"
)

var (
	headerPattern = regexp.MustCompile(`Time Span|Agent Name|Date \(yyyy-mm-dd\)`)
	datePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern   = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
)

// Parser converts raw export text into snapshots. It remembers the last
// cycle name seen, so lines that carry only points still get attributed
// to the running cycle.
type Parser struct {
	currentCycle string
}

func NewParser() *Parser {
	return &Parser{}
}

// Parse handles one pasted message, which may contain a header line and
// any number of stat lines. Unparseable lines are dropped; a nil result
// means the message contained no recognizable stats.
func (p *Parser) Parse(text string) []storage.Snapshot {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) > 0 && headerPattern.MatchString(lines[0]) {
		lines = lines[1:]
	}

	var results []storage.Snapshot
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		snap, ok := p.parseLine(line)
		if !ok {
			continue
		}
		if snap.CycleName != "" && snap.CycleName != p.currentCycle {
			p.currentCycle = snap.CycleName
		}
		results = append(results, snap)
	}
	return results
}

// parseLine parses a single export line. The leading columns are fixed:
// time span, agent name, faction, date, time, level, lifetime AP,
// current AP. A "+Cycle points" token pair may appear anywhere after.
func (p *Parser) parseLine(line string) (storage.Snapshot, bool) {
	parts := strings.Fields(line)
	if len(parts) < 8 {
		return storage.Snapshot{}, false
	}

	// "ALL TIME" is a two-word time span; fold it so the column offsets
	// match the standard format.
	if parts[0] == "ALL" && parts[1] == "TIME" {
		parts = append([]string{"ALL TIME"}, parts[2:]...)
		if len(parts) < 8 {
			return storage.Snapshot{}, false
		}
	}

	agentName := parts[1]
	faction, ok := normalizeFaction(parts[2])
	if !ok {
		return storage.Snapshot{}, false
	}
	dateStr := parts[3]
	timeStr := parts[4]
	if !datePattern.MatchString(dateStr) || !timePattern.MatchString(timeStr) {
		return storage.Snapshot{}, false
	}

	level, err := strconv.ParseInt(parts[5], 10, 64)
	if err != nil {
		return storage.Snapshot{}, false
	}
	lifetimeAP, err := strconv.ParseInt(parts[6], 10, 64)
	if err != nil {
		return storage.Snapshot{}, false
	}
	currentAP, err := strconv.ParseInt(parts[7], 10, 64)
	if err != nil {
		return storage.Snapshot{}, false
	}

	snap := storage.Snapshot{
		AgentName:    agentName,
		AgentFaction: faction,
		Date:         dateStr,
		Time:         timeStr,
		Level:        &level,
		LifetimeAP:   &lifetimeAP,
		CurrentAP:    &currentAP,
		RawLine:      line,
	}

	cycleName, cyclePoints := extractCycle(parts)
	if cycleName != "" {
		snap.CycleName = cycleName
		snap.CyclePoints = cyclePoints
	} else if p.currentCycle != "" {
		snap.CycleName = p.currentCycle
		snap.CyclePoints = cyclePoints
	}

	return snap, true
}

// normalizeFaction maps the export's faction spelling to the stored
// short form.
func normalizeFaction(raw string) (string, bool) {
	switch strings.ToLower(raw) {
	case "enlightened", "enl":
		return "ENL", true
	case "resistance", "res":
		return "RES", true
	}
	return "", false
}

// extractCycle finds the first "+Name" token and takes the following
// column, when numeric, as the cycle points.
func extractCycle(parts []string) (string, *int64) {
	for i, part := range parts {
		if !strings.HasPrefix(part, "+") || len(part) < 2 {
			continue
		}
		name := part[1:]
		if i+1 < len(parts) {
			if points, err := strconv.ParseInt(parts[i+1], 10, 64); err == nil {
				return name, &points
			}
		}
		return name, nil
	}
	return "", nil
}
