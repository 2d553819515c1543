package bowling

import "errors"

// Caller errors returned by Game.SubmitRoll. A rejected roll never mutates the game.
var (
	ErrInvalidRoll        = errors.New("invalid roll")
	ErrNotPlayersTurn     = errors.New("not player's turn")
	ErrFrameAlreadyClosed = errors.New("frame already closed")
	ErrGameFinished       = errors.New("game already finished")
)

// Errors returned when building a game.
var (
	ErrNoPlayers     = errors.New("need at least one player")
	ErrUnknownPlayer = errors.New("unknown player")
)

// ErrorKind names the caller error wrapped by err, or "" if err is not one of them.
// Presentation layers surface this verbatim since each kind needs a different fix.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRoll):
		return "InvalidRoll"
	case errors.Is(err, ErrNotPlayersTurn):
		return "NotPlayersTurn"
	case errors.Is(err, ErrFrameAlreadyClosed):
		return "FrameAlreadyClosed"
	case errors.Is(err, ErrGameFinished):
		return "GameAlreadyFinished"
	case errors.Is(err, ErrUnknownPlayer):
		return "UnknownPlayer"
	case errors.Is(err, ErrNoPlayers):
		return "NoPlayers"
	default:
		return ""
	}
}
