package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"battle_chess_tft/internal/game"
	"battle_chess_tft/internal/httpx"
)

const shutdownGrace = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server (default)",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := cfg.Log.Logger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	rules, err := cfg.GameRules()
	if err != nil {
		return err
	}
	opts := []game.Option{game.WithRules(rules), game.WithLogger(logger.Named("engine"))}
	if cfg.Shop.Seed != 0 {
		opts = append(opts, game.WithSeed(cfg.Shop.Seed))
	}
	eng, err := game.NewEngine(opts...)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	httpLog := logger.Named("http")
	srv := httpx.NewServer(eng,
		httpx.WithLogger(httpLog),
		httpx.WithHub(httpx.NewHub(httpLog.Named("ws"))),
		httpx.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("engine ready",
		zap.Int("round", eng.Round()),
		zap.Stringer("phase", eng.Phase()),
		zap.Uint64("seed", cfg.Shop.Seed))

	errc := make(chan error, 1)
	go func() { errc <- srv.Listen(cfg.Server.Addr) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Close(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return <-errc
}
