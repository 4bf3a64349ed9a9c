package server

import (
	"errors"
	"log"

	"hexisle/internal/auth"
	"hexisle/internal/database"
	"hexisle/internal/game"
	"hexisle/internal/protocol"
)

// Handler guard errors.
var (
	errNotAuthenticated = errors.New("not authenticated")
	errNotInGame        = errors.New("not in a game")
	errUnknownType      = errors.New("unknown message type")
)

// Handlers processes incoming messages.
type Handlers struct {
	hub *Hub
}

// NewHandlers creates a new handler set.
func NewHandlers(hub *Hub) *Handlers {
	return &Handlers{hub: hub}
}

// Handle routes a message to the appropriate handler.
func (h *Handlers) Handle(client *Client, msg *protocol.Message) {
	var err error

	switch msg.Type {
	case protocol.TypeAuthenticate:
		err = h.handleAuthenticate(client, msg)
	case protocol.TypeReconnect:
		err = h.handleReconnect(client, msg)
	case protocol.TypeCreateGame:
		err = h.handleCreateGame(client, msg)
	case protocol.TypeJoinGame:
		err = h.handleJoinGame(client, msg)
	case protocol.TypeJoinByCode:
		err = h.handleJoinByCode(client, msg)
	case protocol.TypeLeaveGame:
		err = h.handleLeaveGame(client, msg)
	case protocol.TypeStartGame:
		err = h.handleStartGame(client, msg)
	case protocol.TypeListGames:
		err = h.handleListGames(client, msg)
	case protocol.TypeGameHistory:
		err = h.handleGameHistory(client, msg)
	case protocol.TypePing:
		err = h.handlePing(client, msg)
	case protocol.TypeRollDice, protocol.TypeBuildRoad, protocol.TypeBuildSettlement,
		protocol.TypeBuildCity, protocol.TypeBuyDevCard, protocol.TypePlayKnight,
		protocol.TypePlayRoadBuilding, protocol.TypePlayYearOfPlenty, protocol.TypePlayMonopoly,
		protocol.TypeProposeTrade, protocol.TypeRespondTrade, protocol.TypeCancelTrade,
		protocol.TypeBankTrade, protocol.TypeDiscard, protocol.TypeMoveRobber,
		protocol.TypeStealResource, protocol.TypeEndTurn:
		err = h.handleAction(client, msg)
	default:
		err = errUnknownType
	}

	if err != nil {
		h.sendError(client, msg.ID, err)
	}
}

// handleAuthenticate verifies a session token and binds the connection
// to its player.
func (h *Handlers) handleAuthenticate(client *Client, msg *protocol.Message) error {
	var payload protocol.AuthenticatePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	response := protocol.AuthResultPayload{}
	claims, err := h.hub.server.auth.Verify(payload.Token)
	if err != nil {
		response.Error = "invalid or expired token"
	} else if player, perr := h.hub.server.db.GetPlayerByID(claims.Subject); perr != nil {
		response.Error = "unknown player"
	} else {
		h.hub.SetClientPlayer(client, player.ID)
		client.Name = player.Name
		h.hub.server.db.UpdatePlayerLastSeen(player.ID)

		response.Success = true
		response.PlayerID = player.ID
		response.Name = player.Name
		log.Printf("Player authenticated: %s (%s)", player.Name, player.ID)
	}

	respMsg, _ := protocol.NewMessage(protocol.TypeAuthResult, response)
	respMsg.ID = msg.ID
	client.Send(respMsg)
	return nil
}

// handleReconnect authenticates and drops the player straight back
// into a running game.
func (h *Handlers) handleReconnect(client *Client, msg *protocol.Message) error {
	var payload protocol.ReconnectPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	claims, err := h.hub.server.auth.Verify(payload.Token)
	if err != nil {
		return auth.ErrInvalidToken
	}
	player, err := h.hub.server.db.GetPlayerByID(claims.Subject)
	if err != nil {
		return err
	}

	h.hub.SetClientPlayer(client, player.ID)
	client.Name = player.Name

	room := h.hub.server.rooms.Get(payload.GameID)
	if room == nil {
		return database.ErrGameNotFound
	}

	response := protocol.AuthResultPayload{
		Success:  true,
		PlayerID: player.ID,
		Name:     player.Name,
	}
	respMsg, _ := protocol.NewMessage(protocol.TypeAuthResult, response)
	respMsg.ID = msg.ID
	client.Send(respMsg)

	if err := room.Join(player.ID, player.Name); err != nil {
		return err
	}
	h.hub.AddClientToGame(client, room.ID)

	log.Printf("Player %s reconnected to game %s", player.Name, room.ID)
	return nil
}

// handleCreateGame opens a new room with the client as host.
func (h *Handlers) handleCreateGame(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errNotAuthenticated
	}

	var payload protocol.CreateGamePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	// Set defaults
	name := payload.Name
	if name == "" {
		name = client.Name + "'s game"
	}
	maxPlayers := payload.Settings.MaxPlayers
	if maxPlayers < game.MinPlayers || maxPlayers > game.MaxPlayers {
		maxPlayers = game.MaxPlayers
	}
	targetVP := payload.Settings.TargetVP
	if targetVP <= 0 {
		targetVP = game.DefaultSettings(maxPlayers).TargetVP
	}

	room, err := h.hub.server.rooms.Create(client.PlayerID, client.Name, name, maxPlayers, targetVP, payload.IsPublic)
	if err != nil {
		return err
	}

	h.hub.AddClientToGame(client, room.ID)
	log.Printf("Game created: %s (%s) by %s", room.Name, room.ID, client.Name)

	response := protocol.GameCreatedPayload{
		GameID:   room.ID,
		JoinCode: room.JoinCode,
	}
	respMsg, _ := protocol.NewMessage(protocol.TypeGameCreated, response)
	respMsg.ID = msg.ID
	client.Send(respMsg)

	room.SendState(client.PlayerID)
	return nil
}

// handleJoinGame handles joining a game by ID.
func (h *Handlers) handleJoinGame(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errNotAuthenticated
	}

	var payload protocol.JoinGamePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	room := h.hub.server.rooms.Get(payload.GameID)
	if room == nil {
		return database.ErrGameNotFound
	}
	return h.joinRoom(client, msg.ID, room)
}

// handleJoinByCode handles joining a game by join code.
func (h *Handlers) handleJoinByCode(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errNotAuthenticated
	}

	var payload protocol.JoinByCodePayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	room := h.hub.server.rooms.GetByCode(payload.JoinCode)
	if room == nil {
		return database.ErrJoinCodeNotFound
	}
	return h.joinRoom(client, msg.ID, room)
}

// joinRoom is the common logic for joining a room.
func (h *Handlers) joinRoom(client *Client, msgID string, room *Room) error {
	if err := room.Join(client.PlayerID, client.Name); err != nil {
		return err
	}

	h.hub.AddClientToGame(client, room.ID)
	log.Printf("Player %s joined game %s", client.Name, room.ID)

	response := protocol.JoinedGamePayload{
		GameID:   room.ID,
		JoinCode: room.JoinCode,
	}
	respMsg, _ := protocol.NewMessage(protocol.TypeJoinedGame, response)
	respMsg.ID = msgID
	client.Send(respMsg)
	return nil
}

// handleLeaveGame handles leaving a game.
func (h *Handlers) handleLeaveGame(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errNotAuthenticated
	}
	if client.GameID == "" {
		return errNotInGame
	}

	gameID := client.GameID
	if room := h.hub.server.rooms.Get(gameID); room != nil {
		if err := room.Leave(client.PlayerID); err != nil {
			return err
		}
	}
	h.hub.RemoveClientFromGame(client, gameID)

	log.Printf("Player %s left game %s", client.Name, gameID)
	return nil
}

// handleStartGame handles starting the game.
func (h *Handlers) handleStartGame(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errNotAuthenticated
	}
	if client.GameID == "" {
		return errNotInGame
	}

	room := h.hub.server.rooms.Get(client.GameID)
	if room == nil {
		return database.ErrGameNotFound
	}
	if err := room.Start(client.PlayerID); err != nil {
		return err
	}

	log.Printf("Game started: %s", room.ID)
	return nil
}

// handleListGames handles listing public games.
func (h *Handlers) handleListGames(client *Client, msg *protocol.Message) error {
	games, err := h.hub.server.db.ListPublicGames()
	if err != nil {
		return err
	}

	gameList := make([]protocol.GameListItem, len(games))
	for i, g := range games {
		gameList[i] = protocol.GameListItem{
			ID:          g.ID,
			Name:        g.Name,
			JoinCode:    g.JoinCode,
			Status:      string(g.Status),
			PlayerCount: g.PlayerCount,
			MaxPlayers:  g.MaxPlayers,
			HostName:    g.HostName,
		}
	}

	response := protocol.GameListPayload{Games: gameList}
	respMsg, _ := protocol.NewMessage(protocol.TypeGameList, response)
	respMsg.ID = msg.ID
	client.Send(respMsg)

	return nil
}

// handleGameHistory returns the stored event log of a finished game.
func (h *Handlers) handleGameHistory(client *Client, msg *protocol.Message) error {
	var payload protocol.GameHistoryPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}

	events, err := h.hub.server.db.GetGameHistory(payload.GameID)
	if err != nil {
		return err
	}

	out := make([]game.Event, len(events))
	for i, ev := range events {
		out[i] = game.Event{
			Type:      game.EventType(ev.EventType),
			PlayerID:  ev.PlayerID,
			Message:   ev.Message,
			Timestamp: ev.OccurredAt,
		}
	}

	response := protocol.GameHistoryPayload{GameID: payload.GameID, Events: out}
	respMsg, _ := protocol.NewMessage(protocol.TypeGameHistory, response)
	respMsg.ID = msg.ID
	client.Send(respMsg)
	return nil
}

// handlePing answers with a pong carrying the same ID.
func (h *Handlers) handlePing(client *Client, msg *protocol.Message) error {
	respMsg, _ := protocol.NewMessage(protocol.TypePong, nil)
	respMsg.ID = msg.ID
	client.Send(respMsg)
	return nil
}

// handleAction runs one game command through the player's room. The
// outcome goes back as an action_result; a rule violation is a normal
// answer here, not a transport error.
func (h *Handlers) handleAction(client *Client, msg *protocol.Message) error {
	if client.PlayerID == "" {
		return errNotAuthenticated
	}
	room := h.hub.server.rooms.Get(client.GameID)
	if room == nil {
		return errNotInGame
	}

	act, err := buildAction(client.PlayerID, msg)
	if err != nil {
		return err
	}

	err = room.Apply(client.PlayerID, act)

	result := protocol.ActionResultPayload{ActionID: msg.ID, Success: err == nil}
	if err != nil {
		result.Code = protocol.CodeForError(err)
		result.Error = err.Error()
	}
	respMsg, _ := protocol.NewMessage(protocol.TypeActionResult, result)
	respMsg.ID = msg.ID
	client.Send(respMsg)
	return nil
}

// buildAction maps a command message onto a rules engine call. Build
// commands are routed by phase, so the same message places setup
// pieces and bought ones.
func buildAction(playerID string, msg *protocol.Message) (func(*game.GameState) error, error) {
	switch msg.Type {
	case protocol.TypeRollDice:
		return func(g *game.GameState) error {
			_, _, err := g.RollDice(playerID)
			return err
		}, nil

	case protocol.TypeBuildRoad:
		var p protocol.BuildRoadPayload
		if err := msg.ParsePayload(&p); err != nil {
			return nil, err
		}
		return func(g *game.GameState) error {
			if g.Phase == game.PhaseSetupRoad {
				return g.PlaceSetupRoad(playerID, p.EdgeID)
			}
			return g.BuildRoad(playerID, p.EdgeID)
		}, nil

	case protocol.TypeBuildSettlement:
		var p protocol.BuildSettlementPayload
		if err := msg.ParsePayload(&p); err != nil {
			return nil, err
		}
		return func(g *game.GameState) error {
			if g.Phase == game.PhaseSetupSettlement {
				return g.PlaceSetupSettlement(playerID, p.VertexID)
			}
			return g.BuildSettlement(playerID, p.VertexID)
		}, nil

	case protocol.TypeBuildCity:
		var p protocol.BuildCityPayload
		if err := msg.ParsePayload(&p); err != nil {
			return nil, err
		}
		return func(g *game.GameState) error {
			return g.BuildCity(playerID, p.VertexID)
		}, nil

	case protocol.TypeBuyDevCard:
		return func(g *game.GameState) error {
			return g.BuyDevCard(playerID)
		}, nil

	case protocol.TypePlayKnight:
		return func(g *game.GameState) error {
			return g.PlayKnight(playerID)
		}, nil

	case protocol.TypePlayRoadBuilding:
		return func(g *game.GameState) error {
			return g.PlayRoadBuilding(playerID)
		}, nil

	case protocol.TypePlayYearOfPlenty:
		var p protocol.PlayYearOfPlentyPayload
		if err := msg.ParsePayload(&p); err != nil {
			return nil, err
		}
		return func(g *game.GameState) error {
			first, ok1 := game.ParseResource(p.First)
			second, ok2 := game.ParseResource(p.Second)
			if !ok1 || !ok2 {
				return game.ErrInvalidTarget
			}
			return g.PlayYearOfPlenty(playerID, first, second)
		}, nil

	case protocol.TypePlayMonopoly:
		var p protocol.PlayMonopolyPayload
		if err := msg.ParsePayload(&p); err != nil {
			return nil, err
		}
		return func(g *game.GameState) error {
			r, ok := game.ParseResource(p.Resource)
			if !ok {
				return game.ErrInvalidTarget
			}
			return g.PlayMonopoly(playerID, r)
		}, nil

	case protocol.TypeProposeTrade:
		var p protocol.ProposeTradePayload
		if err := msg.ParsePayload(&p); err != nil {
			return nil, err
		}
		return func(g *game.GameState) error {
			return g.ProposeTrade(playerID, p.TargetPlayer, p.Give, p.Want)
		}, nil

	case protocol.TypeRespondTrade:
		var p protocol.RespondTradePayload
		if err := msg.ParsePayload(&p); err != nil {
			return nil, err
		}
		return func(g *game.GameState) error {
			return g.RespondTrade(playerID, p.Accepted)
		}, nil

	case protocol.TypeCancelTrade:
		return func(g *game.GameState) error {
			return g.CancelTrade(playerID)
		}, nil

	case protocol.TypeBankTrade:
		var p protocol.BankTradePayload
		if err := msg.ParsePayload(&p); err != nil {
			return nil, err
		}
		return func(g *game.GameState) error {
			return g.BankTrade(playerID, p.Give, p.Want)
		}, nil

	case protocol.TypeDiscard:
		var p protocol.DiscardPayload
		if err := msg.ParsePayload(&p); err != nil {
			return nil, err
		}
		return func(g *game.GameState) error {
			return g.DiscardResources(playerID, p.Cards)
		}, nil

	case protocol.TypeMoveRobber:
		var p protocol.MoveRobberPayload
		if err := msg.ParsePayload(&p); err != nil {
			return nil, err
		}
		return func(g *game.GameState) error {
			return g.MoveRobber(playerID, p.HexID)
		}, nil

	case protocol.TypeStealResource:
		var p protocol.StealResourcePayload
		if err := msg.ParsePayload(&p); err != nil {
			return nil, err
		}
		return func(g *game.GameState) error {
			return g.StealResource(playerID, p.TargetPlayer)
		}, nil

	case protocol.TypeEndTurn:
		return func(g *game.GameState) error {
			return g.EndTurn(playerID)
		}, nil
	}

	return nil, errUnknownType
}

// sendError sends an error response.
func (h *Handlers) sendError(client *Client, msgID string, err error) {
	payload := protocol.ErrorPayload{
		Code:    errorCode(err),
		Message: err.Error(),
	}
	msg, _ := protocol.NewMessage(protocol.TypeError, payload)
	msg.ID = msgID
	client.Send(msg)
}

// errorCode maps transport and lobby errors onto wire codes.
func errorCode(err error) protocol.ErrorCode {
	switch {
	case errors.Is(err, errNotAuthenticated), errors.Is(err, auth.ErrInvalidToken):
		return protocol.ErrCodeNotAuthenticated
	case errors.Is(err, ErrRoomFull), errors.Is(err, database.ErrGameFull):
		return protocol.ErrCodeLobbyFull
	case errors.Is(err, errNotInGame), errors.Is(err, ErrRoomClosed), errors.Is(err, ErrNotInRoom),
		errors.Is(err, database.ErrGameNotFound), errors.Is(err, database.ErrJoinCodeNotFound):
		return protocol.ErrCodeGameNotFound
	case errors.Is(err, ErrNotHost), errors.Is(err, ErrRoomStarted), errors.Is(err, ErrRoomNotStarted):
		return protocol.ErrCodeInvalidAction
	default:
		return protocol.ErrCodeInternalError
	}
}
