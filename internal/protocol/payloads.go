package protocol

import "hexisle/internal/game"

// ==================== Authentication Payloads ====================

// AuthenticatePayload is sent as the first message on a connection.
// The token comes from the REST login endpoint.
type AuthenticatePayload struct {
	Token string `json:"token"`
}

// AuthResultPayload is the response to authentication.
type AuthResultPayload struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"player_id,omitempty"`
	Name     string `json:"name,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ==================== Lobby Payloads ====================

// GameSettings are the configurable game parameters.
type GameSettings struct {
	MaxPlayers int `json:"max_players"` // 2-4
	TargetVP   int `json:"target_vp"`   // victory points to win, default 10
}

// CreateGamePayload is sent to create a new game.
type CreateGamePayload struct {
	Name     string       `json:"name"`
	IsPublic bool         `json:"is_public"`
	Settings GameSettings `json:"settings"`
}

// GameCreatedPayload is the response when a game is created.
type GameCreatedPayload struct {
	GameID   string `json:"game_id"`
	JoinCode string `json:"join_code"`
}

// JoinGamePayload is sent to join a game by ID.
type JoinGamePayload struct {
	GameID string `json:"game_id"`
}

// JoinByCodePayload is sent to join a game by join code.
type JoinByCodePayload struct {
	JoinCode string `json:"join_code"`
}

// JoinedGamePayload is the response when successfully joining a game.
type JoinedGamePayload struct {
	GameID   string `json:"game_id"`
	JoinCode string `json:"join_code"`
}

// GameListPayload contains the joinable public games.
type GameListPayload struct {
	Games []GameListItem `json:"games"`
}

// GameListItem is a summary of a game.
type GameListItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	JoinCode    string `json:"join_code,omitempty"`
	Status      string `json:"status"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	HostName    string `json:"host_name,omitempty"`
}

// LobbyStatePayload contains the pre-game room state.
type LobbyStatePayload struct {
	GameID   string        `json:"game_id"`
	GameName string        `json:"game_name"`
	JoinCode string        `json:"join_code"`
	HostID   string        `json:"host_id"`
	IsPublic bool          `json:"is_public"`
	Settings GameSettings  `json:"settings"`
	Players  []LobbyPlayer `json:"players"`
}

// LobbyPlayer is a player waiting in the room.
type LobbyPlayer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsConnected bool   `json:"is_connected"`
}

// PlayerJoinedPayload is sent when a player joins the room.
type PlayerJoinedPayload struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// PlayerLeftPayload is sent when a player leaves the room.
type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

// ==================== Game Flow Payloads ====================

// GameStartedPayload is sent when the game begins.
type GameStartedPayload struct {
	GameID string `json:"game_id"`
}

// ActionResultPayload is the direct response to a player action. The
// ActionID echoes the envelope ID of the command.
type ActionResultPayload struct {
	ActionID string    `json:"action_id"`
	Success  bool      `json:"success"`
	Code     ErrorCode `json:"code,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// GameStatePayload carries a per-viewer snapshot of the game.
type GameStatePayload struct {
	State *StateView `json:"state"`
}

// GameEndedPayload is sent when the game concludes.
type GameEndedPayload struct {
	WinnerID   string `json:"winner_id"`
	WinnerName string `json:"winner_name"`
}

// GameHistoryPayload contains the event log of a finished game.
type GameHistoryPayload struct {
	GameID string       `json:"game_id"`
	Events []game.Event `json:"events"`
}

// ==================== Action Payloads ====================

// RollDicePayload, BuyDevCardPayload and the other bare actions carry
// no fields; the envelope type alone is the command.

// BuildRoadPayload places a road on an edge. During setup and road
// building the same command applies, the server routes it by phase.
type BuildRoadPayload struct {
	EdgeID int `json:"edge_id"`
}

// BuildSettlementPayload places a settlement on a vertex. Used for
// setup placements as well.
type BuildSettlementPayload struct {
	VertexID int `json:"vertex_id"`
}

// BuildCityPayload upgrades a settlement to a city.
type BuildCityPayload struct {
	VertexID int `json:"vertex_id"`
}

// PlayYearOfPlentyPayload names the two resources taken from the bank.
type PlayYearOfPlentyPayload struct {
	First  string `json:"first"`
	Second string `json:"second"`
}

// PlayMonopolyPayload names the resource collected from every opponent.
type PlayMonopolyPayload struct {
	Resource string `json:"resource"`
}

// ProposeTradePayload offers a trade to one opponent.
type ProposeTradePayload struct {
	TargetPlayer string           `json:"target_player"`
	Give         game.ResourceSet `json:"give"`
	Want         game.ResourceSet `json:"want"`
}

// RespondTradePayload accepts or declines the pending offer.
type RespondTradePayload struct {
	Accepted bool `json:"accepted"`
}

// BankTradePayload trades with the bank at harbor ratios.
type BankTradePayload struct {
	Give game.ResourceSet `json:"give"`
	Want game.ResourceSet `json:"want"`
}

// DiscardPayload chooses the cards surrendered to a seven.
type DiscardPayload struct {
	Cards game.ResourceSet `json:"cards"`
}

// MoveRobberPayload moves the robber to a hex.
type MoveRobberPayload struct {
	HexID int `json:"hex_id"`
}

// StealResourcePayload picks the opponent to rob.
type StealResourcePayload struct {
	TargetPlayer string `json:"target_player"`
}

// ==================== System Payloads ====================

// WelcomePayload is sent on connection.
type WelcomePayload struct {
	ServerVersion string `json:"server_version"`
}

// ReconnectPayload is sent to restore a session into a running game.
type ReconnectPayload struct {
	Token  string `json:"token"`
	GameID string `json:"game_id"`
}

// DisconnectPayload notifies of a player disconnect.
type DisconnectPayload struct {
	PlayerID string `json:"player_id"`
	Reason   string `json:"reason"`
}
