package game

import "errors"

// Game errors
var (
	ErrGameOver              = errors.New("game is over")
	ErrInvalidAction         = errors.New("invalid action for current phase")
	ErrNotYourTurn           = errors.New("not your turn")
	ErrInvalidTarget         = errors.New("invalid target")
	ErrInsufficientResources = errors.New("insufficient resources")
	ErrOccupied              = errors.New("location already occupied")
	ErrTooClose              = errors.New("adjacent to another building")
	ErrNotConnected          = errors.New("not connected to a road or building")
	ErrBuildLimit            = errors.New("build limit reached")
	ErrBadDiscard            = errors.New("discard does not match required count")
	ErrBadTrade              = errors.New("trade does not balance at available ratios")
	ErrNoTrade               = errors.New("no pending trade offer")
	ErrCardNotPlayable       = errors.New("card cannot be played this turn")
	ErrDeckEmpty             = errors.New("development card deck is empty")
)
