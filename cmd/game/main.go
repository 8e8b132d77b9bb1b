package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/Garsondee/kabaddi/internal/audio"
	"github.com/Garsondee/kabaddi/internal/game"
	"github.com/Garsondee/kabaddi/internal/logx"
	"github.com/Garsondee/kabaddi/internal/sim"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	difficulty := flag.String("difficulty", "", "easy, medium or hard (default from config)")
	mute := flag.Bool("mute", false, "start with sound off")
	verbose := flag.Bool("verbose", false, "debug logging")
	logPath := flag.String("log", "", "write logs to this file instead of stderr")
	flag.Parse()

	logger, err := logx.New(*verbose, *logPath)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	fc, d, err := loadConfig(*configPath, *difficulty)
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	sound := audio.NewSoundManager()
	if err := sound.Initialize(); err != nil {
		logger.Warn("audio unavailable, running silent", zap.Error(err))
	}
	defer sound.Cleanup()
	sound.SetMuted(*mute)

	g, err := game.New(
		game.WithFileConfig(fc),
		game.WithDifficulty(d),
		game.WithLogger(logger),
		game.WithSound(sound),
	)
	if err != nil {
		logger.Fatal("create game", zap.Error(err))
	}

	ebiten.SetWindowTitle("Kabaddi")
	ebiten.SetWindowSize(g.WindowSize())
	if err := ebiten.RunGame(g); err != nil {
		logger.Fatal("run game", zap.Error(err))
	}
}

// loadConfig reads the optional config file and resolves the difficulty,
// letting the flag override the file's selection.
func loadConfig(path, difficulty string) (sim.FileConfig, sim.Difficulty, error) {
	fc := sim.DefaultFileConfig()
	if path != "" {
		loaded, err := sim.LoadConfig(path)
		if err != nil {
			return fc, 0, err
		}
		fc = loaded
	}
	d, _ := fc.Selected()
	if difficulty != "" {
		parsed, err := sim.ParseDifficulty(difficulty)
		if err != nil {
			return fc, 0, err
		}
		d = parsed
	}
	return fc, d, nil
}
