package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-bowling/internal/config"
	"github.com/vovakirdan/tui-bowling/internal/lanes"
	"github.com/vovakirdan/tui-bowling/internal/storage"
)

// SSHServer serves one lane per SSH session. All lanes share the service and
// the score store.
type SSHServer struct {
	config config.Config
	server *ssh.Server
	svc    *lanes.Service
	store  *storage.Store // Optional, can be nil
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg config.Config, svc *lanes.Service, store *storage.Store, logger *log.Logger) (*SSHServer, error) {
	srv := &SSHServer{
		config: cfg,
		svc:    svc,
		store:  store,
		logger: logger,
	}

	hostKeyPath, err := config.ExpandHome(cfg.SSH.HostKeyPath)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve host key path: %w", err)
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.SSH.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.SSH.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a lane for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	if _, _, ok := sshSession.Pty(); !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Fatalln(sshSession, "a terminal is required: connect with ssh -t")
		return nil, nil
	}

	if cmd := sshSession.Command(); len(cmd) > 0 && cmd[0] == "watch" {
		return s.watchHandler(sshSession, cmd[1:])
	}

	names := SessionPlayers(sshSession.Command(), sshSession.User(), s.config.Lanes.DefaultPlayers)
	lane, err := NewLaneModel(s.svc, names)
	if err != nil {
		s.logger.Error("cannot start lane", "user", sshSession.User(), "error", err)
		wish.Fatalln(sshSession, "cannot start lane:", err)
		return nil, nil
	}
	s.logger.Info("lane opened", "user", sshSession.User(), "game", lane.GameID(), "players", names)

	// The game stays recorded; only the hosted copy goes away with the session
	var mu sync.Mutex
	current := lane.GameID()
	lane = lane.OnNewGame(func(id lanes.GameID) {
		mu.Lock()
		current = id
		mu.Unlock()
	})
	go func() {
		<-sshSession.Context().Done()
		mu.Lock()
		id := current
		mu.Unlock()
		if err := s.svc.Close(id); err == nil {
			s.logger.Debug("lane closed", "user", sshSession.User(), "game", id)
		}
	}()

	return NewSessionModel(lane, s.store, s.config.Lanes.ScoreLimit), []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// watchHandler puts a spectator on a hosted lane, or lists the lanes when no
// id is given.
func (s *SSHServer) watchHandler(sshSession ssh.Session, args []string) (tea.Model, []tea.ProgramOption) {
	if len(args) == 0 {
		wish.Println(sshSession, LaneList(s.svc.Games()))
		return nil, nil
	}

	id := lanes.GameID(args[0])
	watcher, err := s.svc.Watch(sshSession.Context(), id)
	if err != nil {
		wish.Fatalln(sshSession, "cannot watch lane:", err)
		return nil, nil
	}
	s.logger.Info("spectator joined", "user", sshSession.User(), "game", id)
	return NewWatchModel(watcher), []tea.ProgramOption{tea.WithAltScreen()}
}

// SessionPlayers picks the player names for an SSH session: names passed as
// the SSH command win, then the SSH user, then the configured defaults.
func SessionPlayers(command []string, user string, defaults []string) []string {
	if len(command) > 0 {
		return command
	}
	if user != "" {
		return []string{user}
	}
	return defaults
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.SSH.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		s.logger.Error("server error", "error", err)
		return err
	}
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.SSH.Address
}
