package main

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Garsondee/kabaddi/internal/sim"
)

func TestDetectImbalance_NoPoints(t *testing.T) {
	bad, reason := detectImbalance(runStats{})
	if !bad || reason != "no_points_scored" {
		t.Fatalf("expected no_points_scored, got %v/%s", bad, reason)
	}
}

func TestDetectImbalance_ShutOut(t *testing.T) {
	rs := runStats{outcome: sim.MatchOutcome{Score: sim.Score{Raiders: 0, Defenders: 9}}}
	bad, reason := detectImbalance(rs)
	if !bad || reason != "raiders_shut_out" {
		t.Fatalf("expected raiders_shut_out, got %v/%s", bad, reason)
	}
	rs.outcome.Score = sim.Score{Raiders: 10, Defenders: 1}
	if bad, reason := detectImbalance(rs); !bad || reason != "defenders_shut_out" {
		t.Fatalf("expected defenders_shut_out, got %v/%s", bad, reason)
	}
}

func TestDetectImbalance_Balanced(t *testing.T) {
	rs := runStats{outcome: sim.MatchOutcome{Score: sim.Score{Raiders: 4, Defenders: 5}}}
	if bad, reason := detectImbalance(rs); bad {
		t.Fatalf("4-5 should be balanced (reason=%s)", reason)
	}
	rs.outcome.Score = sim.Score{Raiders: 0, Defenders: 2}
	if bad, reason := detectImbalance(rs); bad || reason != "too_few_points" {
		t.Fatalf("two points is too few to judge, got %v/%s", bad, reason)
	}
}

func TestFirstTick(t *testing.T) {
	entries := []sim.SimLogEntry{
		{Tick: 3, Actor: "defender_1", Category: "event", Key: "defender_tagged"},
		{Tick: 9, Actor: "defender_4", Category: "event", Key: "defender_tagged"},
	}
	if got := firstTick(entries, "event", "defender_tagged", ""); got != 3 {
		t.Fatalf("want 3, got %d", got)
	}
	if got := firstTick(entries, "event", "defender_tagged", "defender_4"); got != 9 {
		t.Fatalf("actor filter should pick defender_4, got %d", got)
	}
	if got := firstTick(entries, "event", "raider_safe", ""); got != -1 {
		t.Fatalf("want -1, got %d", got)
	}
}

func TestParseDifficulties(t *testing.T) {
	all, err := parseDifficulties("ALL")
	if err != nil || len(all) != 3 {
		t.Fatalf("all should expand to three difficulties, got %v (%v)", all, err)
	}
	if _, err := parseDifficulties("nightmare"); err == nil {
		t.Fatal("unknown difficulty should fail")
	}
}

func TestMedianAndJoinCounts(t *testing.T) {
	if median(nil) != -1 || median([]int{5, 1, 3}) != 3 {
		t.Fatal("unexpected median")
	}
	if got := joinCounts(map[string]int{"b": 2, "a": 1}); got != "a=1,b=2" {
		t.Fatalf("unexpected join %q", got)
	}
	if joinCounts(nil) != "none" {
		t.Fatal("empty counts should print none")
	}
}

func TestRun_ShortMatches(t *testing.T) {
	var sb strings.Builder
	o := options{runs: 2, seedBase: 1, seedStep: 1, difficulty: "easy", gameDuration: 20}
	if err := run(&sb, o, zap.NewNop()); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"=== Headless Match Report ===", "--- Run 1 (easy, seed=1) ---", "--- Run 2 (easy, seed=2) ---", "=== Aggregate (easy, 2 runs) ===", "(time)"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRun_RejectsBadFlags(t *testing.T) {
	var sb strings.Builder
	if err := run(&sb, options{runs: 0, difficulty: "easy"}, zap.NewNop()); err == nil {
		t.Fatal("zero runs should fail")
	}
	if err := run(&sb, options{runs: 1, difficulty: "brutal"}, zap.NewNop()); err == nil {
		t.Fatal("unknown difficulty should fail")
	}
}
