package sim

import (
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is the cause of every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// GameConfig sizes the pitch and sets match rules.
type GameConfig struct {
	CanvasWidth   float64 `yaml:"canvas_width"`
	CanvasHeight  float64 `yaml:"canvas_height"`
	PitchWidth    float64 `yaml:"pitch_width"`
	PitchHeight   float64 `yaml:"pitch_height"`
	RaidDuration  float64 `yaml:"raid_duration"` // seconds
	GameDuration  float64 `yaml:"game_duration"` // seconds
	MaxScore      int     `yaml:"max_score"`
	PlayerSpeed   float64 `yaml:"player_speed"`
	DefenderSpeed float64 `yaml:"defender_speed"`
}

// DefaultGameConfig returns the standard 800x600 match.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		CanvasWidth:   800,
		CanvasHeight:  600,
		PitchWidth:    760,
		PitchHeight:   560,
		RaidDuration:  30,
		GameDuration:  600,
		MaxScore:      30,
		PlayerSpeed:   3,
		DefenderSpeed: 2.5,
	}
}

// Validate rejects configurations that would produce degenerate geometry,
// negative timers or NaN positions.
func (c GameConfig) Validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"canvas_width", c.CanvasWidth},
		{"canvas_height", c.CanvasHeight},
		{"pitch_width", c.PitchWidth},
		{"pitch_height", c.PitchHeight},
		{"raid_duration", c.RaidDuration},
		{"game_duration", c.GameDuration},
		{"player_speed", c.PlayerSpeed},
		{"defender_speed", c.DefenderSpeed},
	}
	for _, ch := range checks {
		if !positive(ch.v) {
			return errors.Wrapf(ErrInvalidConfig, "%s must be positive, got %v", ch.name, ch.v)
		}
	}
	if c.MaxScore <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "max_score must be positive, got %d", c.MaxScore)
	}
	if c.PitchHeight > c.CanvasHeight {
		return errors.Wrapf(ErrInvalidConfig, "pitch_height %v exceeds canvas_height %v", c.PitchHeight, c.CanvasHeight)
	}
	if c.PitchWidth > c.CanvasWidth {
		return errors.Wrapf(ErrInvalidConfig, "pitch_width %v exceeds canvas_width %v", c.PitchWidth, c.CanvasWidth)
	}
	// The raider (size 20) needs room to stand inside the boundary.
	if c.CanvasHeight <= 2*(fieldMargin+raiderSize) || c.CanvasWidth <= 2*(fieldMargin+raiderSize) {
		return errors.Wrapf(ErrInvalidConfig, "canvas %vx%v too small for the boundary margin", c.CanvasWidth, c.CanvasHeight)
	}
	// The spawn must sit in raider territory and inside the raider's movement box.
	f := CreateGameField(c)
	spawn := RaiderSpawn(f, c)
	if spawn.Y <= f.CenterLine {
		return errors.Wrapf(ErrInvalidConfig, "pitch_height %v puts the raider spawn (y=%v) on the defenders' side of the centre line", c.PitchHeight, spawn.Y)
	}
	if !f.BoundaryLines.Inset(raiderSize).Contains(spawn) {
		return errors.Wrapf(ErrInvalidConfig, "pitch_height %v puts the raider spawn (y=%v) outside the boundary; at most %v fits",
			c.PitchHeight, spawn.Y, c.CanvasHeight-2*fieldMargin+2*(spawnInset-raiderSize))
	}
	return nil
}

// DifficultyConfig tunes the defenders.
type DifficultyConfig struct {
	DefenderSpeed          float64 `yaml:"defender_speed"`
	DefenderReactionTime   float64 `yaml:"defender_reaction_time"` // ms
	DefenderAggressiveness float64 `yaml:"defender_aggressiveness"`
	AIUpdateFrequency      float64 `yaml:"ai_update_frequency"` // ms
}

// Validate rejects profiles that would stall or destabilise the AI.
func (d DifficultyConfig) Validate() error {
	if !positive(d.DefenderSpeed) {
		return errors.Wrapf(ErrInvalidConfig, "defender_speed must be positive, got %v", d.DefenderSpeed)
	}
	if d.DefenderReactionTime < 0 || math.IsNaN(d.DefenderReactionTime) {
		return errors.Wrapf(ErrInvalidConfig, "defender_reaction_time must not be negative, got %v", d.DefenderReactionTime)
	}
	if !(d.DefenderAggressiveness >= 0 && d.DefenderAggressiveness <= 1) {
		return errors.Wrapf(ErrInvalidConfig, "defender_aggressiveness must be in [0,1], got %v", d.DefenderAggressiveness)
	}
	if d.AIUpdateFrequency < 0 || math.IsNaN(d.AIUpdateFrequency) {
		return errors.Wrapf(ErrInvalidConfig, "ai_update_frequency must not be negative, got %v", d.AIUpdateFrequency)
	}
	return nil
}

// Difficulty selects one of the built-in defender profiles.
type Difficulty int

const (
	DifficultyEasy Difficulty = iota
	DifficultyMedium
	DifficultyHard
)

var difficultyProfiles = map[Difficulty]DifficultyConfig{
	DifficultyEasy:   {DefenderSpeed: 2, DefenderReactionTime: 800, DefenderAggressiveness: 0.3, AIUpdateFrequency: 100},
	DifficultyMedium: {DefenderSpeed: 2.5, DefenderReactionTime: 600, DefenderAggressiveness: 0.6, AIUpdateFrequency: 60},
	DifficultyHard:   {DefenderSpeed: 3, DefenderReactionTime: 300, DefenderAggressiveness: 0.9, AIUpdateFrequency: 30},
}

// Profile returns the defender tuning for this difficulty.
func (d Difficulty) Profile() DifficultyConfig {
	return difficultyProfiles[d]
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	default:
		return "unknown"
	}
}

// Difficulties lists every built-in difficulty in menu order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// ParseDifficulty maps "easy", "medium" or "hard" (any case) to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties() {
		if strings.EqualFold(strings.TrimSpace(s), d.String()) {
			return d, nil
		}
	}
	return DifficultyMedium, errors.Errorf("unknown difficulty %q (want easy, medium or hard)", s)
}

// FileConfig is the on-disk YAML layout:
//
//	game:
//	  raid_duration: 20
//	difficulty: hard
//	profiles:
//	  hard:
//	    defender_speed: 3.5
type FileConfig struct {
	Game       GameConfig                  `yaml:"game"`
	Difficulty string                      `yaml:"difficulty"`
	Profiles   map[string]DifficultyConfig `yaml:"profiles"`
}

// DefaultFileConfig is what LoadConfig starts from before applying the file.
func DefaultFileConfig() FileConfig {
	fc := FileConfig{
		Game:       DefaultGameConfig(),
		Difficulty: DifficultyMedium.String(),
		Profiles:   make(map[string]DifficultyConfig, len(difficultyProfiles)),
	}
	for d, p := range difficultyProfiles {
		fc.Profiles[d.String()] = p
	}
	return fc
}

// LoadConfig reads a YAML file over the defaults and validates the result.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied config path
	if err != nil {
		return FileConfig{}, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML bytes over the defaults and validates the result.
func ParseConfig(data []byte) (FileConfig, error) {
	fc := DefaultFileConfig()
	var raw struct {
		Game       yaml.Node            `yaml:"game"`
		Difficulty string               `yaml:"difficulty"`
		Profiles   map[string]yaml.Node `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return FileConfig{}, errors.Wrap(err, "parse config")
	}
	if !raw.Game.IsZero() {
		if err := raw.Game.Decode(&fc.Game); err != nil {
			return FileConfig{}, errors.Wrap(err, "decode game section")
		}
	}
	if raw.Difficulty != "" {
		fc.Difficulty = raw.Difficulty
	}
	for name, node := range raw.Profiles {
		d, err := ParseDifficulty(name)
		if err != nil {
			return FileConfig{}, errors.Wrap(err, "profiles")
		}
		p := fc.Profiles[d.String()]
		if err := node.Decode(&p); err != nil {
			return FileConfig{}, errors.Wrapf(err, "decode profile %s", name)
		}
		fc.Profiles[d.String()] = p
	}
	if err := fc.Validate(); err != nil {
		return FileConfig{}, err
	}
	return fc, nil
}

// Validate checks the game section, the selected difficulty and every profile.
func (fc FileConfig) Validate() error {
	if err := fc.Game.Validate(); err != nil {
		return errors.Wrap(err, "game")
	}
	if _, err := ParseDifficulty(fc.Difficulty); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	for name, p := range fc.Profiles {
		if err := p.Validate(); err != nil {
			return errors.Wrapf(err, "profile %s", name)
		}
	}
	return nil
}

// Selected returns the difficulty named by the file and its (possibly overridden) profile.
func (fc FileConfig) Selected() (Difficulty, DifficultyConfig) {
	d, err := ParseDifficulty(fc.Difficulty)
	if err != nil {
		d = DifficultyMedium
	}
	return d, fc.ProfileFor(d)
}

// ProfileFor returns the file's profile for d, falling back to the built-in one.
func (fc FileConfig) ProfileFor(d Difficulty) DifficultyConfig {
	if p, ok := fc.Profiles[d.String()]; ok {
		return p
	}
	return d.Profile()
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
