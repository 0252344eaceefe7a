package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/convoy/internal/config"
	"github.com/tomz197/convoy/internal/logger"
	"github.com/tomz197/convoy/internal/loop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "drive: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	simCfg, err := config.LoadSim()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	timing, err := config.LoadTiming()
	if err != nil {
		return fmt.Errorf("load timing: %w", err)
	}

	// The renderer owns the terminal, so logs only go to LOG_FILE.
	log, closer, err := logger.FromEnv("drive", nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader := bufio.NewReader(os.Stdin)
	err = loop.Run(ctx, reader, os.Stdout, loop.Options{
		Sim:           simCfg,
		Logger:        log,
		FrameRate:     timing.FrameRate,
		TicksPerFrame: timing.TicksPerFrame,
		HoldDuration:  timing.InputHold,
	})
	if err != nil {
		log.Error("session failed", "err", err)
		return err
	}
	return nil
}
