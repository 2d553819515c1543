package lanes

import (
	"context"
	"errors"
	"io"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bowling/internal/bowling"
)

type fakeRecorder struct {
	mu       sync.Mutex
	created  []string
	rolls    []bowling.Roll
	undone   []int
	finished []bowling.Scoreboard
	err      error
}

func (f *fakeRecorder) GameCreated(gameID string, _ bowling.Scoreboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, gameID)
	return f.err
}

func (f *fakeRecorder) RollRecorded(_ string, seq int, roll bowling.Roll) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != len(f.rolls) {
		return errors.New("out of sequence")
	}
	f.rolls = append(f.rolls, roll)
	return f.err
}

func (f *fakeRecorder) RollUndone(_ string, seq int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.undone = append(f.undone, seq)
	f.rolls = f.rolls[:seq]
	return f.err
}

func (f *fakeRecorder) GameFinished(_ string, board bowling.Scoreboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finished = append(f.finished, board)
	return f.err
}

func quietService(opts ...Option) *Service {
	return NewService(append([]Option{WithLogger(log.New(io.Discard))}, opts...)...)
}

func TestServiceCreateAndRoll(t *testing.T) {
	ctx := context.Background()
	svc := quietService()

	id, err := svc.CreateGame(ctx, []string{"Ann", "Bob"})
	if err != nil {
		t.Fatalf("CreateGame() failed: %v", err)
	}

	at, err := svc.ActiveTurn(ctx, id)
	if err != nil {
		t.Fatalf("ActiveTurn() failed: %v", err)
	}
	want := &bowling.ActiveTurn{PlayerID: "p1", PlayerName: "Ann", FrameIndex: 1, RollNumber: 1}
	if !reflect.DeepEqual(at, want) {
		t.Errorf("ActiveTurn() = %+v, want %+v", at, want)
	}

	res, err := svc.SubmitRoll(ctx, id, "p1", 10)
	if err != nil {
		t.Fatalf("SubmitRoll() failed: %v", err)
	}
	if !res.FrameClosed || res.FrameStatus != bowling.StatusStrike {
		t.Errorf("strike result = %+v", res)
	}
	if res.Next == nil || res.Next.PlayerID != "p2" {
		t.Errorf("Next = %+v, want p2", res.Next)
	}

	board, err := svc.Scoreboard(ctx, id)
	if err != nil {
		t.Fatalf("Scoreboard() failed: %v", err)
	}
	if !board.Players[0].Frames[0].Pending() {
		t.Errorf("strike without bonus rolls should be pending: %+v", board.Players[0].Frames[0])
	}
	if board.Finished {
		t.Error("game reported finished after one roll")
	}
}

func TestServiceCreateGameNoPlayers(t *testing.T) {
	svc := quietService()
	if _, err := svc.CreateGame(context.Background(), nil); !errors.Is(err, bowling.ErrNoPlayers) {
		t.Errorf("CreateGame(nil) error = %v, want ErrNoPlayers", err)
	}
	if len(svc.Games()) != 0 {
		t.Error("failed creation left a hosted game")
	}
}

func TestServiceUnknownGame(t *testing.T) {
	ctx := context.Background()
	svc := quietService()

	if _, err := svc.SubmitRoll(ctx, "nope", "p1", 3); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("SubmitRoll() error = %v, want ErrUnknownGame", err)
	}
	if _, err := svc.Scoreboard(ctx, "nope"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Scoreboard() error = %v, want ErrUnknownGame", err)
	}
	if _, err := svc.ActiveTurn(ctx, "nope"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("ActiveTurn() error = %v, want ErrUnknownGame", err)
	}
	if _, err := svc.Undo(ctx, "nope"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Undo() error = %v, want ErrUnknownGame", err)
	}
	if err := svc.Close("nope"); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Close() error = %v, want ErrUnknownGame", err)
	}
}

func TestServiceRejectedRollIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	svc := quietService(WithRecorder(rec))

	id, err := svc.CreateGame(ctx, []string{"Ann", "Bob"})
	if err != nil {
		t.Fatalf("CreateGame() failed: %v", err)
	}
	if _, err := svc.SubmitRoll(ctx, id, "p1", 6); err != nil {
		t.Fatalf("SubmitRoll() failed: %v", err)
	}
	before, _ := svc.Scoreboard(ctx, id)

	tests := []struct {
		player bowling.PlayerID
		pins   int
		want   error
	}{
		{"p2", 3, bowling.ErrNotPlayersTurn},
		{"p1", 5, bowling.ErrInvalidRoll},
		{"p1", -1, bowling.ErrInvalidRoll},
		{"p9", 1, bowling.ErrUnknownPlayer},
	}
	for _, tc := range tests {
		if _, err := svc.SubmitRoll(ctx, id, tc.player, tc.pins); !errors.Is(err, tc.want) {
			t.Errorf("SubmitRoll(%s, %d) error = %v, want %v", tc.player, tc.pins, err, tc.want)
		}
	}

	after, _ := svc.Scoreboard(ctx, id)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("rejected rolls changed the game:\nbefore %+v\nafter  %+v", before, after)
	}
	if len(rec.rolls) != 1 {
		t.Errorf("recorder saw %d rolls, want 1", len(rec.rolls))
	}
}

func TestServiceRecorderFailureKeepsRoll(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{err: errors.New("disk full")}
	svc := quietService(WithRecorder(rec))

	id, err := svc.CreateGame(ctx, []string{"Ann"})
	if err != nil {
		t.Fatalf("CreateGame() failed: %v", err)
	}
	if _, err := svc.SubmitRoll(ctx, id, "p1", 7); err != nil {
		t.Fatalf("SubmitRoll() failed: %v", err)
	}
	at, _ := svc.ActiveTurn(ctx, id)
	if at == nil || at.RollNumber != 2 {
		t.Errorf("ActiveTurn() = %+v, want second roll", at)
	}
}

func TestServiceFinishedGame(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	svc := quietService(WithRecorder(rec))

	id, err := svc.CreateGame(ctx, []string{"Ann"})
	if err != nil {
		t.Fatalf("CreateGame() failed: %v", err)
	}

	var res bowling.RollResult
	for i := 0; i < 12; i++ {
		res, err = svc.SubmitRoll(ctx, id, "p1", 10)
		if err != nil {
			t.Fatalf("roll %d failed: %v", i+1, err)
		}
	}
	if !res.GameFinished || res.Next != nil {
		t.Errorf("last result = %+v, want finished with no next turn", res)
	}

	at, err := svc.ActiveTurn(ctx, id)
	if err != nil || at != nil {
		t.Errorf("ActiveTurn() = %+v, %v; want nil, nil", at, err)
	}
	if _, err := svc.SubmitRoll(ctx, id, "p1", 0); !errors.Is(err, bowling.ErrGameFinished) {
		t.Errorf("roll after finish error = %v, want ErrGameFinished", err)
	}
	if _, err := svc.Undo(ctx, id); !errors.Is(err, bowling.ErrGameFinished) {
		t.Errorf("Undo() after finish error = %v, want ErrGameFinished", err)
	}

	if len(rec.finished) != 1 || rec.finished[0].Players[0].Total != 300 {
		t.Errorf("recorder finished = %+v, want one 300 game", rec.finished)
	}
}

func TestServiceUndo(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	svc := quietService(WithRecorder(rec))

	id, err := svc.CreateGame(ctx, []string{"Ann", "Bob"})
	if err != nil {
		t.Fatalf("CreateGame() failed: %v", err)
	}

	if _, err := svc.Undo(ctx, id); err == nil {
		t.Error("Undo() on a fresh game succeeded")
	}

	if _, err := svc.SubmitRoll(ctx, id, "p1", 10); err != nil {
		t.Fatalf("SubmitRoll() failed: %v", err)
	}
	at, err := svc.Undo(ctx, id)
	if err != nil {
		t.Fatalf("Undo() failed: %v", err)
	}
	if at == nil || at.PlayerID != "p1" || at.FrameIndex != 1 || at.RollNumber != 1 {
		t.Errorf("ActiveTurn after undo = %+v, want Ann frame 1 roll 1", at)
	}
	if !reflect.DeepEqual(rec.undone, []int{0}) || len(rec.rolls) != 0 {
		t.Errorf("recorder undone = %v rolls = %v", rec.undone, rec.rolls)
	}

	// Sequence numbers continue from the truncated log
	if _, err := svc.SubmitRoll(ctx, id, "p1", 4); err != nil {
		t.Fatalf("SubmitRoll() after undo failed: %v", err)
	}
	if len(rec.rolls) != 1 || rec.rolls[0].Pins != 4 {
		t.Errorf("recorder rolls = %v", rec.rolls)
	}
}

func TestServiceRestore(t *testing.T) {
	ctx := context.Background()
	svc := quietService()

	g, err := bowling.Play([]string{"Ann"}, []int{3, 4, 5})
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if err := svc.Restore(ctx, "saved", g); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if err := svc.Restore(ctx, "saved", g); err == nil {
		t.Error("Restore() of an already hosted id succeeded")
	}

	at, err := svc.ActiveTurn(ctx, "saved")
	if err != nil {
		t.Fatalf("ActiveTurn() failed: %v", err)
	}
	if at.FrameIndex != 2 || at.RollNumber != 2 {
		t.Errorf("ActiveTurn() = %+v, want frame 2 roll 2", at)
	}
}

func TestServiceGamesAndClose(t *testing.T) {
	ctx := context.Background()
	svc := quietService()

	a, _ := svc.CreateGame(ctx, []string{"Ann"})
	b, _ := svc.CreateGame(ctx, []string{"Bob", "Cid"})

	games := svc.Games()
	if len(games) != 2 {
		t.Fatalf("Games() returned %d, want 2", len(games))
	}
	ids := map[GameID]bool{games[0].ID: true, games[1].ID: true}
	if !ids[a] || !ids[b] {
		t.Errorf("Games() = %+v, want %s and %s", games, a, b)
	}

	if err := svc.Close(a); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if _, err := svc.Scoreboard(ctx, a); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Scoreboard() after close error = %v", err)
	}
	if games := svc.Games(); len(games) != 1 || games[0].ID != b {
		t.Errorf("Games() after close = %+v", games)
	}
}

// Each player's goroutine only rolls for its own player, so a roll can only be
// rejected as out of turn; every player must still finish with a perfect game.
func TestServiceConcurrentPlayers(t *testing.T) {
	ctx := context.Background()
	svc := quietService()

	names := []string{"Ann", "Bob", "Cid", "Dee"}
	id, err := svc.CreateGame(ctx, names)
	if err != nil {
		t.Fatalf("CreateGame() failed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(names)+1)
	for i := range names {
		player := bowling.PlayerID("p" + string(rune('1'+i)))
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				at, err := svc.ActiveTurn(ctx, id)
				if err != nil {
					errs <- err
					return
				}
				if at == nil {
					return
				}
				if at.PlayerID != player {
					runtime.Gosched()
					continue
				}
				if _, err := svc.SubmitRoll(ctx, id, player, 10); err != nil {
					errs <- err
					return
				}
			}
		}()
	}

	// A concurrent reader must only ever see consistent snapshots
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			board, err := svc.Scoreboard(ctx, id)
			if err != nil {
				errs <- err
				return
			}
			for _, p := range board.Players {
				prev := 0
				for _, f := range p.Frames {
					if f.Pending() {
						break
					}
					if f.Cumulative < prev {
						errs <- errors.New("cumulative score went down")
						return
					}
					prev = f.Cumulative
				}
			}
			runtime.Gosched()
		}
	}()

	for {
		at, err := svc.ActiveTurn(ctx, id)
		if err != nil {
			t.Fatalf("ActiveTurn() failed: %v", err)
		}
		if at == nil {
			break
		}
		runtime.Gosched()
	}
	close(done)
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent play: %v", err)
	}

	board, _ := svc.Scoreboard(ctx, id)
	if !board.Finished {
		t.Fatal("game not finished")
	}
	for _, p := range board.Players {
		if p.Total != 300 {
			t.Errorf("%s total = %d, want 300", p.Name, p.Total)
		}
	}
}

func TestServiceSeparateGamesInParallel(t *testing.T) {
	ctx := context.Background()
	svc := quietService()

	const games = 8
	var wg sync.WaitGroup
	totals := make([]int, games)
	for i := 0; i < games; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := svc.CreateGame(ctx, []string{"Solo"})
			if err != nil {
				t.Errorf("CreateGame() failed: %v", err)
				return
			}
			for r := 0; r < 20; r++ {
				if _, err := svc.SubmitRoll(ctx, id, "p1", i%5); err != nil {
					t.Errorf("game %d roll %d failed: %v", i, r+1, err)
					return
				}
			}
			board, _ := svc.Scoreboard(ctx, id)
			totals[i] = board.Players[0].Total
		}(i)
	}
	wg.Wait()

	for i, total := range totals {
		if want := 20 * (i % 5); total != want {
			t.Errorf("game %d total = %d, want %d", i, total, want)
		}
	}
}
