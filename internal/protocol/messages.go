// Package protocol defines the network message types for client-server communication.
package protocol

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"hexisle/internal/game"
)

// MessageType identifies the type of message.
type MessageType string

// Authentication message types
const (
	TypeAuthenticate MessageType = "authenticate"
	TypeAuthResult   MessageType = "auth_result"
)

// Lobby message types
const (
	TypeCreateGame   MessageType = "create_game"
	TypeGameCreated  MessageType = "game_created"
	TypeJoinGame     MessageType = "join_game"
	TypeJoinByCode   MessageType = "join_by_code"
	TypeJoinedGame   MessageType = "joined_game"
	TypeLeaveGame    MessageType = "leave_game"
	TypeStartGame    MessageType = "start_game"
	TypeListGames    MessageType = "list_games"
	TypeGameList     MessageType = "game_list"
	TypeLobbyState   MessageType = "lobby_state"
	TypePlayerJoined MessageType = "player_joined"
	TypePlayerLeft   MessageType = "player_left"
)

// Game flow message types
const (
	TypeGameStarted  MessageType = "game_started"
	TypeActionResult MessageType = "action_result"
	TypeGameState    MessageType = "game_state"
	TypeGameEnded    MessageType = "game_ended"
	TypeGameHistory  MessageType = "game_history"
)

// Action message types
const (
	TypeRollDice         MessageType = "roll_dice"
	TypeBuildRoad        MessageType = "build_road"
	TypeBuildSettlement  MessageType = "build_settlement"
	TypeBuildCity        MessageType = "build_city"
	TypeBuyDevCard       MessageType = "buy_dev_card"
	TypePlayKnight       MessageType = "play_knight"
	TypePlayRoadBuilding MessageType = "play_road_building"
	TypePlayYearOfPlenty MessageType = "play_year_of_plenty"
	TypePlayMonopoly     MessageType = "play_monopoly"
	TypeProposeTrade     MessageType = "propose_trade"
	TypeRespondTrade     MessageType = "respond_trade"
	TypeCancelTrade      MessageType = "cancel_trade"
	TypeBankTrade        MessageType = "bank_trade"
	TypeDiscard          MessageType = "discard"
	TypeMoveRobber       MessageType = "move_robber"
	TypeStealResource    MessageType = "steal_resource"
	TypeEndTurn          MessageType = "end_turn"
)

// System message types
const (
	TypeWelcome    MessageType = "welcome"
	TypeError      MessageType = "error"
	TypeReconnect  MessageType = "reconnect"
	TypeDisconnect MessageType = "disconnect"
	TypePing       MessageType = "ping"
	TypePong       MessageType = "pong"
)

// Message is the envelope for all messages.
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewMessage creates a new message with the given type and payload.
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
		Payload:   data,
	}, nil
}

// ParsePayload unmarshals the payload into the given type.
func (m *Message) ParsePayload(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// ErrorCode represents an error type.
type ErrorCode string

const (
	ErrCodeGameOver              ErrorCode = "game_over"
	ErrCodeInvalidAction         ErrorCode = "invalid_action"
	ErrCodeNotYourTurn           ErrorCode = "not_your_turn"
	ErrCodeInvalidTarget         ErrorCode = "invalid_target"
	ErrCodeInsufficientResources ErrorCode = "insufficient_resources"
	ErrCodeOccupied              ErrorCode = "occupied"
	ErrCodeTooClose              ErrorCode = "too_close"
	ErrCodeNotConnected          ErrorCode = "not_connected"
	ErrCodeBuildLimit            ErrorCode = "build_limit"
	ErrCodeBadDiscard            ErrorCode = "bad_discard"
	ErrCodeBadTrade              ErrorCode = "bad_trade"
	ErrCodeNoTrade               ErrorCode = "no_trade"
	ErrCodeCardNotPlayable       ErrorCode = "card_not_playable"
	ErrCodeDeckEmpty             ErrorCode = "deck_empty"
	ErrCodeGameNotFound          ErrorCode = "game_not_found"
	ErrCodeLobbyFull             ErrorCode = "lobby_full"
	ErrCodeNotAuthenticated      ErrorCode = "not_authenticated"
	ErrCodeInternalError         ErrorCode = "internal_error"
)

// CodeForError maps a rules engine error to its wire code.
func CodeForError(err error) ErrorCode {
	switch {
	case errors.Is(err, game.ErrGameOver):
		return ErrCodeGameOver
	case errors.Is(err, game.ErrInvalidAction):
		return ErrCodeInvalidAction
	case errors.Is(err, game.ErrNotYourTurn):
		return ErrCodeNotYourTurn
	case errors.Is(err, game.ErrInvalidTarget):
		return ErrCodeInvalidTarget
	case errors.Is(err, game.ErrInsufficientResources):
		return ErrCodeInsufficientResources
	case errors.Is(err, game.ErrOccupied):
		return ErrCodeOccupied
	case errors.Is(err, game.ErrTooClose):
		return ErrCodeTooClose
	case errors.Is(err, game.ErrNotConnected):
		return ErrCodeNotConnected
	case errors.Is(err, game.ErrBuildLimit):
		return ErrCodeBuildLimit
	case errors.Is(err, game.ErrBadDiscard):
		return ErrCodeBadDiscard
	case errors.Is(err, game.ErrBadTrade):
		return ErrCodeBadTrade
	case errors.Is(err, game.ErrNoTrade):
		return ErrCodeNoTrade
	case errors.Is(err, game.ErrCardNotPlayable):
		return ErrCodeCardNotPlayable
	case errors.Is(err, game.ErrDeckEmpty):
		return ErrCodeDeckEmpty
	default:
		return ErrCodeInternalError
	}
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}
