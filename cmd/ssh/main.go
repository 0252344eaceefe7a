package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	charmlog "github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/tomz197/convoy/internal/config"
	"github.com/tomz197/convoy/internal/draw"
	"github.com/tomz197/convoy/internal/logger"
	"github.com/tomz197/convoy/internal/loop"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ssh: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log, closer, err := logger.FromEnv("ssh", os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	simCfg, err := config.LoadSim()
	if err != nil {
		log.Error("invalid simulation config", "err", err)
		return err
	}
	timing, err := config.LoadTiming()
	if err != nil {
		log.Error("invalid timing config", "err", err)
		return err
	}

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	log.Info("ssh config", "host", host, "port", port, "host_key", hostKeyPath, "cars", simCfg.NumCars, "policy", simCfg.CollisionPolicy)

	// Every session drives its own convoy; the server holds no shared state.
	sessions := &sessionHandler{
		sim:    simCfg,
		timing: timing,
		log:    log,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			sessions.middleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(log, charmlog.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for steering input
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

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	log.Info("starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-done:
	case err := <-serveErr:
		log.Error("server error", "err", err)
		return err
	}
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "err", err)
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// sessionHandler runs one simulation per SSH session.
type sessionHandler struct {
	sim    config.Sim
	timing config.Timing
	log    *logger.Logger
}

// middleware handles SSH sessions and runs the driving loop.
func (h *sessionHandler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		log := h.log.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		log.Info("new session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		err := loop.Run(sess.Context(), bufio.NewReader(sess), sess, loop.Options{
			Sim:           h.sim,
			TermSizeFunc:  sizeTracker.getSize,
			Renderer:      lipgloss.NewRenderer(sess),
			Logger:        log,
			FrameRate:     h.timing.FrameRate,
			TicksPerFrame: h.timing.TicksPerFrame,
			HoldDuration:  h.timing.InputHold,
		})
		if err != nil {
			log.Error("session error", "err", err)
		}

		log.Info("session ended")
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
