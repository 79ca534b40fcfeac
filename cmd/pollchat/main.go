package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"pollchat/internal/app"
)

const (
	modeServer = "server"
	modeClient = "client"
	modeLocal  = "local"
)

func main() {
	mode, args := parseMode(os.Args[1:])

	serverCfg, err := app.ServerConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pollchat: %v\n", err)
		os.Exit(1)
	}
	clientCfg, err := app.ClientConfigFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pollchat: %v\n", err)
		os.Exit(1)
	}

	flagSet := flag.NewFlagSet("pollchat", flag.ExitOnError)
	addr := flagSet.String("addr", defaultAddrForMode(mode, serverCfg.Addr), "server listen address")
	db := flagSet.String("db", serverCfg.DBPath, "sqlite database path (local mode defaults to a per-user path, empty keeps the room in memory)")
	serverURL := flagSet.String("server-url", clientCfg.ServerURL, "server base URL (client mode)")
	username := flagSet.String("user", clientCfg.Username, "default display name")
	quiet := flagSet.Bool("quiet", false, "suppress informational logs")
	_ = flagSet.Parse(args)

	serverCfg.Addr = *addr
	serverCfg.DBPath = *db
	if mode == modeLocal && serverCfg.DBPath == "" {
		serverCfg.DBPath = app.DefaultDBPath()
	}
	clientCfg.ServerURL = *serverURL
	clientCfg.Username = *username

	infof := func(format string, args ...interface{}) {
		if *quiet {
			return
		}
		log.Printf(format, args...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch mode {
	case modeServer:
		err = runServerMode(ctx, serverCfg, infof)
	case modeLocal:
		err = runLocalMode(ctx, serverCfg, clientCfg, infof)
	default:
		err = runClientMode(clientCfg)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "pollchat: %v\n", err)
		os.Exit(1)
	}
}

func runServerMode(ctx context.Context, cfg app.ServerConfig, infof func(string, ...interface{})) error {
	handle, err := app.RunServer(ctx, cfg)
	if err != nil {
		return err
	}
	infof("PollChat server listening on %s (db %q)", handle.Addr(), cfg.DBPath)
	return handle.Wait()
}

func runClientMode(cfg app.ClientConfig) error {
	if cfg.ServerURL == "" {
		return errors.New("client mode requires --server-url or POLLCHAT_SERVER")
	}
	return app.RunClient(cfg)
}

func runLocalMode(ctx context.Context, serverCfg app.ServerConfig, clientCfg app.ClientConfig, infof func(string, ...interface{})) error {
	if serverCfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(serverCfg.DBPath), 0o700); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	handle, err := app.RunServer(ctx, serverCfg)
	if err != nil {
		return err
	}
	defer stopServer(handle)

	infof("Starting local PollChat server on %s (db %q)", handle.Addr(), serverCfg.DBPath)
	if err := waitForServer(handle.Addr(), 5*time.Second); err != nil {
		return err
	}

	clientCfg.ServerURL = "http://" + handle.Addr()
	infof("Launching client against %s", clientCfg.ServerURL)

	if err := app.RunClient(clientCfg); err != nil {
		return err
	}
	stopServer(handle)
	return handle.Wait()
}

func waitForServer(addr string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := net.DialTimeout("tcp", addr, 500*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("server did not become ready: %w", err)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func parseMode(args []string) (string, []string) {
	if len(args) == 0 {
		return modeLocal, args
	}
	switch strings.ToLower(args[0]) {
	case modeServer, modeClient, modeLocal:
		return strings.ToLower(args[0]), args[1:]
	}
	return modeClient, args
}

func defaultAddrForMode(mode, configured string) string {
	if mode == modeLocal {
		return "127.0.0.1:0"
	}
	return configured
}

func stopServer(handle *app.ServerHandle) {
	if handle == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = handle.Stop(shutdownCtx)
}
