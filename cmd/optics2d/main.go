package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"

	"github.com/gogpu/gg"
	"github.com/lukaszgryglicki/optics2d/internal/optics2d"
	"github.com/ttacon/chalk"
)

func main() {
	optics2d.Debug = os.Getenv("DEBUG") != ""
	optics2d.AlwaysBVH = os.Getenv("ALWAYS_BVH") != ""
	optics2d.NeverBVH = os.Getenv("NEVER_BVH") != ""
	serve := os.Getenv("SERVE") != ""
	profile := os.Getenv("PROFILE") != ""

	level := slog.LevelInfo
	if optics2d.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	optics2d.SetLogger(logger)
	gg.SetLogger(logger)

	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := ""
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}

	if serve {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := optics2d.Serve(ctx, cfg); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	res, err := optics2d.Run(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	color := chalk.Yellow
	switch {
	case res.Outcome.Win:
		color = chalk.Green
	case res.Outcome.Lose:
		color = chalk.Red
	}
	fmt.Println(color, res.Outcome.String(), chalk.Reset)
	fmt.Printf("rays: %d, win: %d, lose: %d, time: %s\n", res.Outcome.Rays, res.Outcome.WinRays, res.Outcome.LoseRays, res.Elapsed)
}
