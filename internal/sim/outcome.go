package sim

import "fmt"

// EndReason says why a match finished.
type EndReason int

const (
	EndInProgress EndReason = iota
	EndTime
	EndScoreLimit
)

func (r EndReason) String() string {
	switch r {
	case EndInProgress:
		return "in_progress"
	case EndTime:
		return "time"
	case EndScoreLimit:
		return "score_limit"
	default:
		return "unknown"
	}
}

// MatchOutcome is the results-screen summary of a match.
type MatchOutcome struct {
	Winner      Side
	Reason      EndReason
	Score       Score
	Stats       GameStats
	SuccessRate float64 // successful raids / raids started, 0 when none
	Description string
}

// DetermineOutcome summarises a match from its score, state and event log.
func DetermineOutcome(score Score, state GameState, events []GameEvent, cfg GameConfig) MatchOutcome {
	stats := CalculateStats(events)
	stats.TimeRemaining = state.GameTimer

	out := MatchOutcome{
		Winner: Winner(score),
		Score:  score,
		Stats:  stats,
	}
	switch {
	case !state.IsGameOver:
		out.Reason = EndInProgress
	case score.Raiders >= cfg.MaxScore || score.Defenders >= cfg.MaxScore:
		out.Reason = EndScoreLimit
	default:
		out.Reason = EndTime
	}
	if stats.TotalRaids > 0 {
		out.SuccessRate = float64(stats.SuccessfulRaids) / float64(stats.TotalRaids)
	}

	switch out.Winner {
	case SideRaiders:
		out.Description = fmt.Sprintf("Raiders win %d-%d", score.Raiders, score.Defenders)
	case SideDefenders:
		out.Description = fmt.Sprintf("Defenders win %d-%d", score.Defenders, score.Raiders)
	default:
		out.Description = fmt.Sprintf("Tie %d-%d", score.Raiders, score.Defenders)
	}
	switch out.Reason {
	case EndScoreLimit:
		out.Description += fmt.Sprintf(" (first to %d)", cfg.MaxScore)
	case EndTime:
		out.Description += " (time)"
	case EndInProgress:
		out.Description += " (in progress)"
	}
	return out
}

// Report renders the outcome as the multi-line text shown on the results
// screen and copied to the clipboard.
func (o MatchOutcome) Report() string {
	return fmt.Sprintf(
		"%s\nRaids: %d  Successful: %d (%.0f%%)\nDefenders tagged: %d  Raider caught: %d  Timeouts: %d\nTime remaining: %s\n",
		o.Description,
		o.Stats.TotalRaids, o.Stats.SuccessfulRaids, o.SuccessRate*100,
		o.Stats.DefendersTagged, o.Stats.RaidersCaught, o.Stats.Timeouts,
		FormatClock(o.Stats.TimeRemaining))
}
