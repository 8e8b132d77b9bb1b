package sim

import (
	"fmt"
	"math"
)

// ScoringRules holds the point values of the game.
var ScoringRules = struct {
	SuccessfulRaid int // crossing and returning safely
	DefenderTagged int // per defender tagged
	BonusRaid      int // tagging every defender in one raid
	DefenderTackle int // defenders stopping the raider
	AllOutBonus    int // whole side eliminated
}{
	SuccessfulRaid: 1,
	DefenderTagged: 1,
	BonusRaid:      2,
	DefenderTackle: 1,
	AllOutBonus:    2,
}

// ScoreDelta is the score contribution of a single event. A raid timeout
// scores for the defenders like a catch.
func ScoreDelta(e GameEvent) Score {
	switch e.Type {
	case EventRaiderSafe:
		return Score{Raiders: ScoringRules.SuccessfulRaid}
	case EventDefenderTagged:
		return Score{Raiders: ScoringRules.DefenderTagged}
	case EventRaiderCaught, EventRaidTimeout:
		return Score{Defenders: ScoringRules.DefenderTackle}
	default:
		return Score{}
	}
}

// CalculateScore folds events into current and returns the new score.
func CalculateScore(events []GameEvent, current Score) Score {
	s := current
	for _, e := range events {
		s = s.Add(ScoreDelta(e))
	}
	return s
}

// CheckGameOver reports whether the match has ended on time or score.
func CheckGameOver(score Score, gameTimer float64, cfg GameConfig) bool {
	return gameTimer <= 0 ||
		score.Raiders >= cfg.MaxScore ||
		score.Defenders >= cfg.MaxScore
}

// IsRaidSuccessful is the raid-level success rule.
func IsRaidSuccessful(crossedLine, returned, caught bool) bool {
	return crossedLine && returned && !caught
}

// Side names the winner of a match.
type Side int

const (
	SideTie Side = iota
	SideRaiders
	SideDefenders
)

func (s Side) String() string {
	switch s {
	case SideRaiders:
		return "raiders"
	case SideDefenders:
		return "defenders"
	case SideTie:
		return "tie"
	default:
		return "unknown"
	}
}

// Winner compares the two sides' scores.
func Winner(score Score) Side {
	switch {
	case score.Raiders > score.Defenders:
		return SideRaiders
	case score.Defenders > score.Raiders:
		return SideDefenders
	default:
		return SideTie
	}
}

// FormatClock renders seconds as mm:ss, rounding partial seconds up so the
// clock reads 00:00 only once time has actually run out.
func FormatClock(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(math.Ceil(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// GameStats are the per-match counters shown on the results screen.
type GameStats struct {
	TotalRaids      int
	SuccessfulRaids int
	DefendersTagged int
	RaidersCaught   int
	Timeouts        int
	TimeRemaining   float64
}

// CalculateStats counts raid outcomes in an event log.
func CalculateStats(events []GameEvent) GameStats {
	var st GameStats
	for _, e := range events {
		switch e.Type {
		case EventRaidStart:
			st.TotalRaids++
		case EventRaiderSafe:
			st.SuccessfulRaids++
		case EventDefenderTagged:
			st.DefendersTagged++
		case EventRaiderCaught:
			st.RaidersCaught++
		case EventRaidTimeout:
			st.Timeouts++
		}
	}
	return st
}

// IsAllOut reports whether every defender on the roster is tagged.
func IsAllOut(defenders []AIDefender) bool {
	if len(defenders) == 0 {
		return false
	}
	for _, d := range defenders {
		if !d.IsTagged {
			return false
		}
	}
	return true
}
