package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Garsondee/kabaddi/internal/audio"
	"github.com/Garsondee/kabaddi/internal/logx"
	"github.com/Garsondee/kabaddi/internal/sim"
	"github.com/Garsondee/kabaddi/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "optional YAML config file")
	difficulty := flag.String("difficulty", "", "easy, medium or hard (default from config)")
	mute := flag.Bool("mute", false, "start with sound off")
	verbose := flag.Bool("verbose", false, "debug logging (needs -log)")
	logPath := flag.String("log", "", "log file; logs are discarded when empty")
	flag.Parse()

	logger, err := logx.NewFileOrNop(*verbose, *logPath)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	fc := sim.DefaultFileConfig()
	if *configPath != "" {
		if fc, err = sim.LoadConfig(*configPath); err != nil {
			return err
		}
	}
	d, _ := fc.Selected()
	if *difficulty != "" {
		if d, err = sim.ParseDifficulty(*difficulty); err != nil {
			return err
		}
	}

	sound := audio.NewSoundManager()
	if err := sound.Initialize(); err != nil {
		logger.Warn("audio unavailable, running silent", zap.Error(err))
	}
	defer sound.Cleanup()
	sound.SetMuted(*mute)

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	term, err := tui.New(screen, fc, d, sound, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := term.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
