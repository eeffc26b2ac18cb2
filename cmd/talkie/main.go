package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lcavallo/talkie/internal/app"
	"github.com/lcavallo/talkie/internal/cli"
	"github.com/lcavallo/talkie/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	components, err := app.Build(ctx, cfg, app.Options{SpeechFallback: true})
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer components.Close()

	recorder, err := cli.NewCommandRecorder(cfg.CaptureCommand, cfg.CaptureSampleRate)
	if err != nil {
		log.Fatalf("capture setup failed: %v", err)
	}
	player, err := cli.NewCommandPlayer(cfg.PlaybackCommand)
	if err != nil {
		log.Fatalf("playback setup failed: %v", err)
	}

	loop := cli.NewLoop(
		recorder,
		player,
		components.Transcriber,
		components.Engine,
		components.Synth,
		cfg.CaptureSampleRate,
		os.Stdin,
		os.Stdout,
	)
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("conversation loop failed: %v", err)
	}
}
