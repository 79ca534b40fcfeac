package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pollchat/internal/app"
)

func main() {
	cfg, err := app.ServerConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pollchat-server: %v\n", err)
		os.Exit(1)
	}

	addr := flag.String("addr", cfg.Addr, "server listen address")
	db := flag.String("db", cfg.DBPath, "sqlite database path (empty keeps the room in memory only)")
	flag.Parse()
	cfg.Addr = *addr
	cfg.DBPath = *db

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handle, err := app.RunServer(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pollchat-server: %v\n", err)
		os.Exit(1)
	}
	if err := handle.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "pollchat-server: %v\n", err)
		os.Exit(1)
	}
}
