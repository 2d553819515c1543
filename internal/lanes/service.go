// Package lanes hosts bowling games behind the four-operation service
// boundary: create a game, submit a roll, read the scoreboard, read the
// active turn.
//
// Each game gets its own lock. Rolls for the same game are strictly ordered;
// reads share the lock and always see whole rolls. Separate games never
// contend with each other.
package lanes

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-bowling/internal/bowling"
)

// GameID uniquely identifies a hosted game.
type GameID string

// ErrUnknownGame is returned for game IDs the service does not host.
var ErrUnknownGame = errors.New("lanes: unknown game")

// Recorder is notified of every change to a hosted game.
// This allows the service to persist games without depending on the storage package.
// Errors are logged; they never undo an accepted roll.
type Recorder interface {
	GameCreated(gameID string, board bowling.Scoreboard) error
	RollRecorded(gameID string, seq int, roll bowling.Roll) error
	RollUndone(gameID string, seq int) error
	GameFinished(gameID string, board bowling.Scoreboard) error
}

// lane is one hosted game and the lock serializing access to it.
type lane struct {
	mu        sync.RWMutex
	game      *bowling.Game
	createdAt time.Time
	watchers  map[*Watcher]struct{}
	closed    bool
}

// LaneInfo summarizes a hosted game.
type LaneInfo struct {
	ID        GameID
	Players   []string
	Finished  bool
	Watchers  int
	CreatedAt time.Time
}

// Service hosts any number of independent games.
type Service struct {
	logger   *log.Logger
	recorder Recorder // Optional, can be nil

	mu    sync.RWMutex
	lanes map[GameID]*lane
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRecorder sets the optional recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// NewService creates an empty service.
func NewService(opts ...Option) *Service {
	s := &Service{
		logger: log.Default(),
		lanes:  make(map[GameID]*lane),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateGame starts a new game for the given players in registration order.
func (s *Service) CreateGame(ctx context.Context, names []string) (GameID, error) {
	g, err := bowling.NewGame(names)
	if err != nil {
		return "", err
	}
	return s.host(ctx, g)
}

// Restore hosts an existing game, typically rebuilt with bowling.Replay.
// The recorder is not notified since the game is already recorded.
func (s *Service) Restore(_ context.Context, id GameID, g *bowling.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.lanes[id]; exists {
		return fmt.Errorf("lanes: game %s already hosted", id)
	}
	s.lanes[id] = &lane{game: g, createdAt: time.Now()}
	s.logger.Info("game restored", "game", id, "rolls", len(g.History()), "finished", g.Finished())
	return nil
}

func (s *Service) host(_ context.Context, g *bowling.Game) (GameID, error) {
	id := GameID(uuid.NewString())
	l := &lane{game: g, createdAt: time.Now()}

	s.mu.Lock()
	s.lanes[id] = l
	s.mu.Unlock()

	s.logger.Info("game created", "game", id, "players", g.Names())
	if s.recorder != nil {
		if err := s.recorder.GameCreated(string(id), g.Scoreboard()); err != nil {
			s.logger.Warn("could not record game", "game", id, "error", err)
		}
	}
	return id, nil
}

// SubmitRoll records pins for a player. Rejected rolls leave the game unchanged.
func (s *Service) SubmitRoll(_ context.Context, id GameID, player bowling.PlayerID, pins int) (bowling.RollResult, error) {
	l, err := s.lane(id)
	if err != nil {
		return bowling.RollResult{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	res, err := l.game.SubmitRoll(player, pins)
	if err != nil {
		s.logger.Debug("roll rejected", "game", id, "player", player, "pins", pins, "kind", bowling.ErrorKind(err), "error", err)
		return res, err
	}

	seq := len(l.game.History()) - 1
	if res.FrameClosed {
		s.logger.Debug("frame closed", "game", id, "player", player, "frame", res.FrameIndex, "status", res.FrameStatus)
	}
	l.publish()
	if s.recorder != nil {
		if err := s.recorder.RollRecorded(string(id), seq, l.game.History()[seq]); err != nil {
			s.logger.Warn("could not record roll", "game", id, "seq", seq, "error", err)
		}
	}

	if res.GameFinished {
		board := l.game.Scoreboard()
		s.logger.Info("game finished", "game", id, "totals", totals(board))
		if s.recorder != nil {
			if err := s.recorder.GameFinished(string(id), board); err != nil {
				s.logger.Warn("could not record finished game", "game", id, "error", err)
			}
		}
	}
	return res, nil
}

// Undo retracts the last roll of a game by replaying everything before it.
func (s *Service) Undo(_ context.Context, id GameID) (*bowling.ActiveTurn, error) {
	l, err := s.lane(id)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.game.Finished() {
		return nil, fmt.Errorf("lanes: undo: %w", bowling.ErrGameFinished)
	}
	prev, err := l.game.Undo()
	if err != nil {
		return nil, fmt.Errorf("lanes: %w", err)
	}
	l.game = prev
	l.publish()

	seq := len(prev.History())
	s.logger.Debug("roll undone", "game", id, "seq", seq)
	if s.recorder != nil {
		if err := s.recorder.RollUndone(string(id), seq); err != nil {
			s.logger.Warn("could not record undo", "game", id, "seq", seq, "error", err)
		}
	}
	return prev.ActiveTurn(), nil
}

// Scoreboard returns a consistent snapshot of a game.
func (s *Service) Scoreboard(_ context.Context, id GameID) (bowling.Scoreboard, error) {
	l, err := s.lane(id)
	if err != nil {
		return bowling.Scoreboard{}, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.game.Scoreboard(), nil
}

// ActiveTurn returns who rolls next, or nil once the game is finished.
func (s *Service) ActiveTurn(_ context.Context, id GameID) (*bowling.ActiveTurn, error) {
	l, err := s.lane(id)
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.game.ActiveTurn(), nil
}

// Games lists hosted games, oldest first.
func (s *Service) Games() []LaneInfo {
	s.mu.RLock()
	infos := make([]LaneInfo, 0, len(s.lanes))
	for id, l := range s.lanes {
		l.mu.RLock()
		infos = append(infos, LaneInfo{
			ID:        id,
			Players:   l.game.Names(),
			Finished:  l.game.Finished(),
			Watchers:  len(l.watchers),
			CreatedAt: l.createdAt,
		})
		l.mu.RUnlock()
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Close stops hosting a game and ends its watchers. The game's record, if
// any, is kept.
func (s *Service) Close(id GameID) error {
	s.mu.Lock()
	l, ok := s.lanes[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownGame, id)
	}
	delete(s.lanes, id)
	s.mu.Unlock()

	l.detachAll()
	s.logger.Debug("game closed", "game", id)
	return nil
}

func (s *Service) lane(id GameID) (*lane, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lanes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, id)
	}
	return l, nil
}

func totals(board bowling.Scoreboard) map[string]int {
	out := make(map[string]int, len(board.Players))
	for _, p := range board.Players {
		out[p.Name] = p.Total
	}
	return out
}
