package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"go.uber.org/zap"

	"github.com/Garsondee/kabaddi/internal/logx"
	"github.com/Garsondee/kabaddi/internal/sim"
)

type runStats struct {
	runIndex   int
	seed       int64
	difficulty sim.Difficulty
	ticks      int

	firstCrossTick int
	firstTagTick   int
	firstCatchTick int
	firstSafeTick  int

	phaseChanges int
	scoreChanges int

	outcome sim.MatchOutcome
}

type options struct {
	runs         int
	maxTicks     int
	seedBase     int64
	seedStep     int64
	difficulty   string
	configPath   string
	gameDuration float64
	copyReport   bool
	verbose      bool
}

func main() {
	var o options
	flag.IntVar(&o.runs, "runs", 5, "number of headless matches per difficulty")
	flag.IntVar(&o.maxTicks, "max-ticks", 0, "tick cap per match (0 = game duration plus a margin)")
	flag.Int64Var(&o.seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&o.seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&o.difficulty, "difficulty", "medium", "easy, medium, hard or all")
	flag.StringVar(&o.configPath, "config", "", "optional YAML config file")
	flag.Float64Var(&o.gameDuration, "game-duration", 0, "override the match length in seconds")
	flag.BoolVar(&o.copyReport, "copy", false, "copy the report to the clipboard")
	flag.BoolVar(&o.verbose, "verbose", false, "log engine events to stderr")
	flag.Parse()

	log, err := logx.New(o.verbose, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	var sb strings.Builder
	if err := run(&sb, o, log); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	fmt.Print(sb.String())

	if o.copyReport {
		if err := clipboard.WriteAll(sb.String()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: clipboard copy failed: %v\n", err)
			return
		}
		fmt.Println("(report copied to clipboard)")
	}
}

func run(w io.Writer, o options, log *zap.Logger) error {
	if o.runs <= 0 {
		return fmt.Errorf("-runs must be > 0")
	}
	if o.maxTicks < 0 {
		return fmt.Errorf("-max-ticks must not be negative")
	}

	fc := sim.DefaultFileConfig()
	if o.configPath != "" {
		loaded, err := sim.LoadConfig(o.configPath)
		if err != nil {
			return err
		}
		fc = loaded
	}
	if o.gameDuration > 0 {
		fc.Game.GameDuration = o.gameDuration
	}

	diffs, err := parseDifficulties(o.difficulty)
	if err != nil {
		return err
	}
	maxTicks := o.maxTicks
	if maxTicks == 0 {
		maxTicks = int((fc.Game.GameDuration+10)*1000/sim.HeadlessFrameMs) + 1
	}

	fmt.Fprintf(w, "=== Headless Match Report ===\n")
	fmt.Fprintf(w, "difficulty=%s runs=%d max_ticks=%d seed_base=%d seed_step=%d game_duration=%.0fs\n\n",
		o.difficulty, o.runs, maxTicks, o.seedBase, o.seedStep, fc.Game.GameDuration)

	for _, d := range diffs {
		all := make([]runStats, 0, o.runs)
		for i := 0; i < o.runs; i++ {
			seed := o.seedBase + int64(i)*o.seedStep
			rs, err := runMatch(i+1, seed, d, fc, maxTicks, log)
			if err != nil {
				return err
			}
			all = append(all, rs)
			printRun(w, rs)
		}
		printAggregate(w, d, all)
	}
	return nil
}

func parseDifficulties(s string) ([]sim.Difficulty, error) {
	if strings.EqualFold(s, "all") {
		return sim.Difficulties(), nil
	}
	d, err := sim.ParseDifficulty(s)
	if err != nil {
		return nil, err
	}
	return []sim.Difficulty{d}, nil
}

func runMatch(runIndex int, seed int64, d sim.Difficulty, fc sim.FileConfig, maxTicks int, log *zap.Logger) (runStats, error) {
	ts, err := sim.NewTestSim(
		sim.WithGameConfig(fc.Game),
		sim.WithDifficultyConfig(fc.ProfileFor(d)),
		sim.WithSimSeed(seed),
		sim.WithSimLogger(log.With(zap.Int("run", runIndex), zap.Stringer("difficulty", d))),
	)
	if err != nil {
		return runStats{}, err
	}
	ticks := ts.RunToEnd(maxTicks)

	entries := ts.SimLog.Entries()
	return runStats{
		runIndex:       runIndex,
		seed:           seed,
		difficulty:     d,
		ticks:          ticks,
		firstCrossTick: firstTick(entries, "event", "line_crossed", ""),
		firstTagTick:   firstTick(entries, "event", "defender_tagged", ""),
		firstCatchTick: firstTick(entries, "event", "raider_caught", ""),
		firstSafeTick:  firstTick(entries, "event", "raider_safe", ""),
		phaseChanges:   ts.SimLog.CountCategory("phase", "change"),
		scoreChanges:   ts.SimLog.CountCategory("score", "change"),
		outcome:        ts.Outcome(),
	}, nil
}

// firstTick returns the tick of the first entry matching category and key
// whose actor contains actorSub, or -1.
func firstTick(entries []sim.SimLogEntry, category, key, actorSub string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if actorSub == "" || strings.Contains(e.Actor, actorSub) {
			return e.Tick
		}
	}
	return -1
}

// detectImbalance flags matches one side dominated.
func detectImbalance(rs runStats) (bool, string) {
	s := rs.outcome.Score
	total := s.Raiders + s.Defenders
	if total == 0 {
		return true, "no_points_scored"
	}
	if total < 4 {
		return false, "too_few_points"
	}
	lo := min(s.Raiders, s.Defenders)
	if float64(lo)/float64(total) < 0.2 {
		if s.Raiders < s.Defenders {
			return true, "raiders_shut_out"
		}
		return true, "defenders_shut_out"
	}
	return false, "balanced"
}

func printRun(w io.Writer, rs runStats) {
	o := rs.outcome
	fmt.Fprintf(w, "--- Run %d (%s, seed=%d) ---\n", rs.runIndex, rs.difficulty, rs.seed)
	fmt.Fprintf(w, "result: %s ticks=%d\n", o.Description, rs.ticks)
	fmt.Fprintf(w, "firsts: cross=%d tag=%d catch=%d safe=%d\n",
		rs.firstCrossTick, rs.firstTagTick, rs.firstCatchTick, rs.firstSafeTick)
	fmt.Fprintf(w, "raids: total=%d safe=%d tags=%d caught=%d timeouts=%d success_rate=%.0f%%\n",
		o.Stats.TotalRaids, o.Stats.SuccessfulRaids, o.Stats.DefendersTagged,
		o.Stats.RaidersCaught, o.Stats.Timeouts, o.SuccessRate*100)
	fmt.Fprintf(w, "log: phase_changes=%d score_changes=%d\n", rs.phaseChanges, rs.scoreChanges)
	if bad, reason := detectImbalance(rs); bad {
		fmt.Fprintf(w, "imbalance: %s\n", reason)
	}
	fmt.Fprintln(w)
}

func printAggregate(w io.Writer, d sim.Difficulty, all []runStats) {
	if len(all) == 0 {
		return
	}
	var raiders, defenders, raids, safe, tags, caught, timeouts int
	wins := map[sim.Side]int{}
	imbalanced := map[string]int{}
	crossTicks := make([]int, 0, len(all))
	for _, rs := range all {
		o := rs.outcome
		raiders += o.Score.Raiders
		defenders += o.Score.Defenders
		raids += o.Stats.TotalRaids
		safe += o.Stats.SuccessfulRaids
		tags += o.Stats.DefendersTagged
		caught += o.Stats.RaidersCaught
		timeouts += o.Stats.Timeouts
		wins[o.Winner]++
		if bad, reason := detectImbalance(rs); bad {
			imbalanced[reason]++
		}
		if rs.firstCrossTick >= 0 {
			crossTicks = append(crossTicks, rs.firstCrossTick)
		}
	}
	n := float64(len(all))

	fmt.Fprintf(w, "=== Aggregate (%s, %d runs) ===\n", d, len(all))
	fmt.Fprintf(w, "wins: raiders=%d defenders=%d ties=%d\n",
		wins[sim.SideRaiders], wins[sim.SideDefenders], wins[sim.SideTie])
	fmt.Fprintf(w, "avg_score: raiders=%.1f defenders=%.1f\n", float64(raiders)/n, float64(defenders)/n)
	rate := 0.0
	if raids > 0 {
		rate = float64(safe) / float64(raids) * 100
	}
	fmt.Fprintf(w, "totals: raids=%d safe=%d tags=%d caught=%d timeouts=%d success_rate=%.0f%%\n",
		raids, safe, tags, caught, timeouts, rate)
	fmt.Fprintf(w, "first_cross_tick: median=%d\n", median(crossTicks))
	fmt.Fprintf(w, "imbalanced_runs: %s\n", joinCounts(imbalanced))
	fmt.Fprintln(w)
}

func median(xs []int) int {
	if len(xs) == 0 {
		return -1
	}
	s := append([]int(nil), xs...)
	sort.Ints(s)
	return s[len(s)/2]
}

func joinCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, m[k])
	}
	return strings.Join(parts, ",")
}
