package sim

import (
	"strings"
	"testing"
)

func TestSimLog_FormatRange(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, RaiderID, "event", "raid_start", "Raid started!", 0)
	sl.Add(5, RaiderID, "event", "line_crossed", "Kabaddi! Line crossed", 0)
	sl.Add(9, "defender_2", "event", "raider_caught", "Raider caught!", 1)

	out := sl.FormatRange(2, 9)
	if strings.Contains(out, "raid_start") {
		t.Fatalf("tick 1 is outside the range:\n%s", out)
	}
	if !strings.Contains(out, "line_crossed") || !strings.Contains(out, "raider_caught") {
		t.Fatalf("range should include ticks 5 and 9:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != 2 {
		t.Fatalf("want 2 lines, got %d", got)
	}
	if sl.FormatRange(10, 20) != "" {
		t.Fatal("empty range should format to nothing")
	}
}

func TestSimLog_VerboseOnly(t *testing.T) {
	quiet := NewSimLog(false)
	quiet.AddVerbose(1, RaiderID, "move", "position", "(1,1)", 1)
	if len(quiet.Entries()) != 0 {
		t.Fatal("non-verbose log should drop verbose entries")
	}

	loud := NewSimLog(true)
	loud.AddVerbose(1, RaiderID, "move", "position", "(1,1)", 1)
	loud.Add(2, "--", "score", "change", "0-0 → 0-1", 1)
	if loud.CountCategory("move", "position") != 1 {
		t.Fatal("verbose log should keep positions")
	}
	if last, ok := loud.LastOf("score", "change"); !ok || last.Tick != 2 {
		t.Fatalf("LastOf should find the score change, got %+v %v", last, ok)
	}
}
