package lanes

import (
	"context"
	"fmt"

	"github.com/vovakirdan/tui-bowling/internal/bowling"
)

// watchBuffer is how many snapshots a slow watcher may fall behind before the
// oldest ones are dropped.
const watchBuffer = 16

// Watcher receives scoreboard snapshots of one hosted game. Updates is closed
// when the watch context ends or the game stops being hosted.
type Watcher struct {
	game    GameID
	updates chan bowling.Scoreboard
	stop    chan struct{}
}

// Game returns the watched game.
func (w *Watcher) Game() GameID {
	return w.game
}

// Updates returns the snapshot channel. The current scoreboard is delivered
// first, then one snapshot per accepted roll or undo.
func (w *Watcher) Updates() <-chan bowling.Scoreboard {
	return w.updates
}

// send delivers a snapshot without blocking the lane. If the buffer is full
// the oldest snapshot is dropped, since every snapshot is complete.
// Callers hold the lane's write lock.
func (w *Watcher) send(board bowling.Scoreboard) {
	select {
	case w.updates <- board:
		return
	default:
	}
	select {
	case <-w.updates:
	default:
	}
	select {
	case w.updates <- board:
	default:
	}
}

// detach closes the watcher. Callers hold the lane's write lock.
func (w *Watcher) detach() {
	close(w.updates)
	close(w.stop)
}

// Watch subscribes to a hosted game until ctx is done.
func (s *Service) Watch(ctx context.Context, id GameID) (*Watcher, error) {
	l, err := s.lane(id)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		game:    id,
		updates: make(chan bowling.Scoreboard, watchBuffer),
		stop:    make(chan struct{}),
	}

	// Close may have taken the lane between the lookup and here
	if !l.attach(w) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGame, id)
	}
	s.logger.Debug("watcher attached", "game", id)

	go func() {
		select {
		case <-ctx.Done():
		case <-w.stop:
			return
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.watchers[w]; ok {
			delete(l.watchers, w)
			w.detach()
		}
	}()
	return w, nil
}

// attach registers w and sends it the current scoreboard. It reports false
// once the lane has been closed.
func (l *lane) attach(w *Watcher) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	if l.watchers == nil {
		l.watchers = make(map[*Watcher]struct{})
	}
	l.watchers[w] = struct{}{}
	w.send(l.game.Scoreboard())
	return true
}

// publish sends the current scoreboard to every watcher.
// Callers hold the lane's write lock.
func (l *lane) publish() {
	if len(l.watchers) == 0 {
		return
	}
	board := l.game.Scoreboard()
	for w := range l.watchers {
		w.send(board)
	}
}

// detachAll closes every watcher of the lane and refuses new ones.
func (l *lane) detachAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	for w := range l.watchers {
		delete(l.watchers, w)
		w.detach()
	}
}
