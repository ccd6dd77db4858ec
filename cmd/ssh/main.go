package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/tomz197/earthkeeper/internal/config"
	"github.com/tomz197/earthkeeper/internal/draw"
	"github.com/tomz197/earthkeeper/internal/game"
	"github.com/tomz197/earthkeeper/internal/leaderboard"
	"github.com/tomz197/earthkeeper/internal/loop/client"
	lconfig "github.com/tomz197/earthkeeper/internal/loop/config"
	"github.com/tomz197/earthkeeper/internal/loop/server"
	"golang.org/x/sync/errgroup"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := config.NewLogger("ssh")
	if err := run(logger); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

func run(logger *log.Logger) error {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	apiAddr := config.GetEnv("EK_API_ADDR", "")
	topSize := config.GetEnvInt("EK_LEADERBOARD_SIZE", lconfig.LeaderboardSize)
	grace := config.GetEnvDuration("EK_SHUTDOWN_GRACE", 15*time.Second)
	logger.Info("ssh config", "host", host, "port", port, "hostKeyPath", hostKeyPath, "apiAddr", apiAddr)

	tuning, err := game.LoadTuning(config.GetEnv("EK_TUNING", ""))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := leaderboard.Open(ctx, config.GetEnv("EK_STORE", "memory"))
	if err != nil {
		return err
	}
	defer store.Close()

	// Shared hub for every SSH session
	hubCtx, cancelHub := context.WithCancel(context.Background())
	defer cancelHub()
	hub := server.NewServer(store, logger.WithPrefix("hub"), topSize)

	sessions := &sessionHandler{hub: hub, tuning: &tuning, logger: logger}
	s, err := wish.NewServer(sshOptions(host, port, hostKeyPath, sessions, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	var api *http.Server
	if apiAddr != "" {
		api = &http.Server{
			Addr:              apiAddr,
			Handler:           leaderboard.NewHandler(store, topSize, logger.WithPrefix("api")),
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		return hub.Run(hubCtx)
	})
	g.Go(func() error {
		logger.Info("starting ssh server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			stop()
			return err
		}
		return nil
	})
	if api != nil {
		g.Go(func() error {
			logger.Info("starting leaderboard api", "addr", api.Addr)
			if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				stop()
				return err
			}
			return nil
		})
	}

	<-ctx.Done()
	logger.Info("shutting down")

	// Notify players and wait for them to disconnect before stopping the hub,
	// so finished runs still get saved.
	hub.Shutdown(grace)
	cancelHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Error("ssh shutdown", "err", err)
	}
	if api != nil {
		if err := api.Shutdown(shutdownCtx); err != nil {
			logger.Error("api shutdown", "err", err)
		}
	}

	return g.Wait()
}

func sshOptions(host, port, hostKeyPath string, sessions *sessionHandler, logger *log.Logger) []ssh.Option {
	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			sessions.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}
	return opts
}

// sessionHandler runs one game client per SSH session.
type sessionHandler struct {
	hub    *server.Server
	tuning *game.Tuning
	logger *log.Logger
}

func (h *sessionHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		h.logger.Info("new game session", "user", sess.User(), "term", pty.Term,
			"width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		c := client.NewClient(h.hub, bufio.NewReader(sess), sess, client.ClientOptions{
			TermSizeFunc: sizeTracker.getSize,
			Username:     sess.User(),
			Tuning:       h.tuning,
			Logger:       h.logger,
		})
		if err := c.Run(); err != nil {
			h.logger.Error("game error", "user", sess.User(), "err", err)
		}

		next(sess)
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
