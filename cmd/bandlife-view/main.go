//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"bandlife/internal/app"
	"bandlife/internal/core"
	"bandlife/internal/gather"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	cfg.BindView(flag.CommandLine)
	configPath := flag.String("config", "", "YAML config file")
	flag.Parse()

	v, err := app.NewViper(*configPath)
	if err != nil {
		fatal(err)
	}
	app.BindFlagSet(v, flag.CommandLine)
	cfg.Resolve(v)
	cfg.Scale = v.GetInt("scale")
	cfg.FPS = v.GetInt("fps")

	iterations, err := app.ParseIterations(flag.Args())
	if err != nil {
		fatal(err)
	}
	log, err := app.NewLogger(cfg.LogLevel, os.Stderr)
	if err != nil {
		fatal(err)
	}

	frames := make(chan core.Frame, 1)
	opts, err := cfg.Options(iterations, gather.NewChannelReporter(frames), log)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		defer close(frames)
		if err := cfg.Execute(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("run failed")
		}
	}()

	game := app.NewViewer(frames, cfg.Side, cfg.Workers, cfg.Scale, cfg.FPS, opts.Parameters())
	ebiten.SetWindowTitle(app.WindowTitle(opts.Parameters()))
	ebiten.SetWindowSize(cfg.Side*cfg.Scale+220, cfg.Side*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		fatal(err)
	}
}

func fatal(err error) {
	var uerr *app.UsageError
	if errors.As(err, &uerr) {
		fmt.Fprintln(os.Stderr, "usage: bandlife-view [flags] [iterations]")
	}
	fmt.Fprintln(os.Stderr, "bandlife-view:", err)
	os.Exit(1)
}
