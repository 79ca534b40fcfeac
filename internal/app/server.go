package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	intrnl "pollchat/internal"
	"pollchat/internal/storage"
)

// ServerHandle represents a running pollchat server instance.
type ServerHandle struct {
	addr     string
	server   *http.Server
	store    *storage.Store
	presence *intrnl.PresenceRegistry
	logger   zerolog.Logger
	done     chan struct{}
	err      error
}

// Addr returns the actual listen address (after the OS allocated a port).
func (h *ServerHandle) Addr() string {
	return h.addr
}

// Stop triggers a graceful shutdown with the provided context deadline.
func (h *ServerHandle) Stop(ctx context.Context) error {
	if h == nil || h.server == nil {
		return nil
	}
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}
	return h.server.Shutdown(ctx)
}

// Wait blocks until the server exits.
func (h *ServerHandle) Wait() error {
	if h == nil {
		return nil
	}
	<-h.done
	return h.err
}

// RunServer wires the state engine, opens the SQLite archive when a path is
// configured, runs migrations, and starts serving in the background. Call
// Stop/Wait to manage its lifecycle. An empty DBPath runs the room purely in
// memory; typing presence is never durable either way.
func RunServer(ctx context.Context, cfg ServerConfig) (*ServerHandle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(cfg.LogLevel)

	var store *storage.Store
	var archive intrnl.MessageArchive
	if cfg.DBPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o700); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		opened, err := storage.NewStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		if err := opened.Migrate(context.Background()); err != nil {
			_ = opened.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		store = opened
		archive = intrnl.NewSQLiteArchive(store)
	}

	messageLog := intrnl.NewMessageLog(archive)
	if err := messageLog.Hydrate(context.Background()); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("hydrate: %w", err)
	}
	logger.Info().Int("messages", messageLog.Len()).Msg("message log ready")

	presence := intrnl.NewPresenceRegistry(cfg.ActiveWindow, cfg.ReapWindow, cfg.SweepInterval)

	server := intrnl.NewServer(messageLog, presence, logger)
	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Routes(),
	}

	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		presence.Close()
		_ = store.Close()
		return nil, fmt.Errorf("listen: %w", err)
	}

	handle := &ServerHandle{
		addr:     listener.Addr().String(),
		server:   httpServer,
		store:    store,
		presence: presence,
		logger:   logger,
		done:     make(chan struct{}),
	}

	go func() {
		if ctx == nil {
			return
		}
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server shutdown error")
		}
	}()

	go handle.serve(listener)

	return handle, nil
}

func (h *ServerHandle) serve(listener net.Listener) {
	defer close(h.done)
	err := h.server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	h.presence.Close()
	if closeErr := h.store.Close(); closeErr != nil {
		h.logger.Error().Err(closeErr).Msg("store close error")
	}
	h.err = err
}

func newLogger(level string) zerolog.Logger {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		parsed = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(parsed).With().Timestamp().Logger()
}
