package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/tomz197/earthkeeper/internal/config"
	"github.com/tomz197/earthkeeper/internal/game"
	"github.com/tomz197/earthkeeper/internal/leaderboard"
	"github.com/tomz197/earthkeeper/internal/loop/client"
	lconfig "github.com/tomz197/earthkeeper/internal/loop/config"
	"github.com/tomz197/earthkeeper/internal/loop/server"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	// stdout is the game screen, so logs go to EK_LOG_FILE or nowhere.
	logger, closer, err := config.NewFileLogger("earthkeeper")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()

	tuning, err := game.LoadTuning(config.GetEnv("EK_TUNING", ""))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := leaderboard.Open(ctx, config.GetEnv("EK_STORE", "file:earthkeeper-scores.yaml"))
	if err != nil {
		return err
	}
	defer store.Close()

	hub := server.NewServer(store, logger.WithPrefix("hub"), config.GetEnvInt("EK_LEADERBOARD_SIZE", lconfig.LeaderboardSize))
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		if err := hub.Run(ctx); err != nil {
			logger.Error("hub stopped", "err", err)
		}
	}()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	nickname := config.GetEnv("EK_NICKNAME", config.GetEnv("USER", ""))
	c := client.NewClient(hub, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: nickname,
		Tuning:   &tuning,
		Logger:   logger,
	})
	runErr := c.Run()

	// Let the hub save the last run before the store closes.
	cancel()
	<-hubDone
	return runErr
}
