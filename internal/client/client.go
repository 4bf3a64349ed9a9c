package client

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"hexisle/internal/game"
	"hexisle/internal/protocol"
)

// Options configure a terminal session.
type Options struct {
	Server     string
	Name       string
	Password   string
	Create     bool
	GameName   string
	MaxPlayers int
	TargetVP   int
	Public     bool
	JoinCode   string
}

// App is an interactive terminal session: one connection, one player.
// Commands come in from stdin; server pushes go straight to the screen.
type App struct {
	config  *Config
	network *NetworkClient
	opts    Options
	out     io.Writer
	in      io.Reader

	mu        sync.Mutex
	playerID  string
	name      string
	gameID    string
	view      *protocol.StateView
	lobby     *protocol.LobbyStatePayload
	lastEvent int64

	authResult chan protocol.AuthResultPayload
}

// session is the REST login/register response.
type session struct {
	Token    string `json:"token"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

// New creates a terminal session from flags and the saved config.
func New(opts Options) (*App, error) {
	config, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
	}
	if opts.Server == "" {
		opts.Server = config.LastServer
	}
	if opts.MaxPlayers == 0 {
		opts.MaxPlayers = game.MaxPlayers
	}

	a := &App{
		config:     config,
		network:    NewNetworkClient(),
		opts:       opts,
		out:        os.Stdout,
		in:         os.Stdin,
		authResult: make(chan protocol.AuthResultPayload, 1),
	}
	a.network.OnMessage = a.handleMessage
	a.network.OnDisconnect = func(error) {
		fmt.Fprintln(a.out, "Connection lost.")
	}
	return a, nil
}

// Run connects, authenticates and hands control to the command loop.
func (a *App) Run() error {
	fmt.Fprintf(a.out, "Connecting to %s...\n", a.opts.Server)
	if err := a.network.Connect(a.opts.Server); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer a.network.Disconnect()

	if err := a.authenticate(); err != nil {
		return err
	}

	a.config.LastServer = a.opts.Server
	if err := a.config.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save config: %v\n", err)
	}

	if a.opts.JoinCode != "" {
		a.network.SendPayload(protocol.TypeJoinByCode, protocol.JoinByCodePayload{JoinCode: a.opts.JoinCode})
	} else if a.opts.Create {
		a.sendCreate(a.opts.GameName)
	}

	return a.repl()
}

// authenticate establishes identity over the socket: the saved token if
// it still works, otherwise a REST login, registering on first use.
func (a *App) authenticate() error {
	sameAccount := a.opts.Name == "" || a.opts.Name == a.config.PlayerName
	if sameAccount && a.config.PlayerToken != "" {
		if a.tryToken(a.config.PlayerToken) {
			fmt.Fprintf(a.out, "Welcome back, %s.\n", a.currentName())
			return nil
		}
	}

	name, password := a.opts.Name, a.opts.Password
	reader := bufio.NewReader(a.in)
	for name == "" {
		fmt.Fprint(a.out, "Account name: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		name = strings.TrimSpace(line)
	}
	for password == "" {
		fmt.Fprint(a.out, "Password: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		password = strings.TrimSpace(line)
	}

	sess, err := a.login(name, password)
	if err != nil {
		return err
	}
	if !a.tryToken(sess.Token) {
		return errors.New("server rejected a freshly issued token")
	}

	a.config.PlayerToken = sess.Token
	a.config.PlayerName = sess.Name
	a.config.PlayerID = sess.PlayerID
	fmt.Fprintf(a.out, "Signed in as %s.\n", sess.Name)
	return nil
}

// tryToken authenticates the socket with a token and waits for the
// verdict.
func (a *App) tryToken(token string) bool {
	a.network.SendPayload(protocol.TypeAuthenticate, protocol.AuthenticatePayload{Token: token})
	select {
	case res := <-a.authResult:
		if !res.Success {
			return false
		}
		a.mu.Lock()
		a.playerID = res.PlayerID
		a.name = res.Name
		a.mu.Unlock()
		return true
	case <-time.After(10 * time.Second):
		return false
	}
}

// login registers the account, falling back to a plain login when the
// name is already taken.
func (a *App) login(name, password string) (*session, error) {
	base := httpURL(a.opts.Server)
	sess, status, err := postCredentials(base+"/api/register", name, password)
	if status == http.StatusConflict {
		sess, _, err = postCredentials(base+"/api/login", name, password)
	}
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return sess, nil
}

func postCredentials(url, name, password string) (*session, int, error) {
	body, _ := json.Marshal(map[string]string{"name": name, "password": password})
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, resp.StatusCode, fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(data)))
	}

	var sess session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return nil, resp.StatusCode, err
	}
	return &sess, resp.StatusCode, nil
}

// repl reads commands until EOF or quit.
func (a *App) repl() error {
	fmt.Fprintln(a.out, `Type "help" for commands.`)
	scanner := bufio.NewScanner(a.in)
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := a.dispatch(line); err != nil {
			fmt.Fprintf(a.out, "%v\n", err)
		}
	}
}

// dispatch parses one command line and sends the matching message.
func (a *App) dispatch(line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		a.printHelp()
		return nil

	case "games":
		return a.network.SendPayload(protocol.TypeListGames, nil)

	case "create":
		return a.sendCreate(strings.Join(args, " "))

	case "join":
		if len(args) != 1 {
			return errors.New("usage: join <code>")
		}
		return a.network.SendPayload(protocol.TypeJoinByCode, protocol.JoinByCodePayload{JoinCode: args[0]})

	case "start":
		return a.network.SendPayload(protocol.TypeStartGame, nil)

	case "leave":
		if err := a.network.SendPayload(protocol.TypeLeaveGame, nil); err != nil {
			return err
		}
		a.mu.Lock()
		a.gameID, a.view, a.lobby, a.lastEvent = "", nil, nil, 0
		a.mu.Unlock()
		fmt.Fprintln(a.out, "Left the game.")
		return nil

	case "state":
		a.printFullState()
		return nil

	case "board":
		a.printBoard()
		return nil

	case "hand":
		a.printHand()
		return nil

	case "log":
		a.printLog()
		return nil

	case "history":
		gameID := a.currentGameID()
		if len(args) == 1 {
			gameID = args[0]
		}
		if gameID == "" {
			return errors.New("usage: history <game-id>")
		}
		return a.network.SendPayload(protocol.TypeGameHistory, protocol.GameHistoryPayload{GameID: gameID})

	case "roll":
		return a.network.SendPayload(protocol.TypeRollDice, nil)

	case "road":
		id, err := intArg(args, "usage: road <edge>")
		if err != nil {
			return err
		}
		return a.network.SendPayload(protocol.TypeBuildRoad, protocol.BuildRoadPayload{EdgeID: id})

	case "settle":
		id, err := intArg(args, "usage: settle <vertex>")
		if err != nil {
			return err
		}
		return a.network.SendPayload(protocol.TypeBuildSettlement, protocol.BuildSettlementPayload{VertexID: id})

	case "city":
		id, err := intArg(args, "usage: city <vertex>")
		if err != nil {
			return err
		}
		return a.network.SendPayload(protocol.TypeBuildCity, protocol.BuildCityPayload{VertexID: id})

	case "buy":
		return a.network.SendPayload(protocol.TypeBuyDevCard, nil)

	case "knight":
		return a.network.SendPayload(protocol.TypePlayKnight, nil)

	case "roads":
		return a.network.SendPayload(protocol.TypePlayRoadBuilding, nil)

	case "plenty":
		if len(args) != 2 {
			return errors.New("usage: plenty <resource> <resource>")
		}
		for _, s := range args {
			if _, ok := game.ParseResource(s); !ok {
				return fmt.Errorf("unknown resource %q", s)
			}
		}
		return a.network.SendPayload(protocol.TypePlayYearOfPlenty, protocol.PlayYearOfPlentyPayload{First: args[0], Second: args[1]})

	case "mono":
		if len(args) != 1 {
			return errors.New("usage: mono <resource>")
		}
		if _, ok := game.ParseResource(args[0]); !ok {
			return fmt.Errorf("unknown resource %q", args[0])
		}
		return a.network.SendPayload(protocol.TypePlayMonopoly, protocol.PlayMonopolyPayload{Resource: args[0]})

	case "offer":
		if len(args) < 4 {
			return errors.New("usage: offer <player> <give...> for <want...>")
		}
		target, err := a.resolvePlayer(args[0])
		if err != nil {
			return err
		}
		give, want, err := splitTrade(args[1:])
		if err != nil {
			return err
		}
		return a.network.SendPayload(protocol.TypeProposeTrade, protocol.ProposeTradePayload{
			TargetPlayer: target,
			Give:         give,
			Want:         want,
		})

	case "accept":
		return a.network.SendPayload(protocol.TypeRespondTrade, protocol.RespondTradePayload{Accepted: true})

	case "decline":
		return a.network.SendPayload(protocol.TypeRespondTrade, protocol.RespondTradePayload{Accepted: false})

	case "cancel":
		return a.network.SendPayload(protocol.TypeCancelTrade, nil)

	case "bank":
		give, want, err := splitTrade(args)
		if err != nil {
			return errors.New("usage: bank <give...> for <want...>")
		}
		return a.network.SendPayload(protocol.TypeBankTrade, protocol.BankTradePayload{Give: give, Want: want})

	case "discard":
		if len(args) == 0 {
			return errors.New("usage: discard <cards> (e.g. discard 2wood 1ore)")
		}
		cards, err := parseResourceSet(args)
		if err != nil {
			return err
		}
		return a.network.SendPayload(protocol.TypeDiscard, protocol.DiscardPayload{Cards: cards})

	case "robber":
		id, err := intArg(args, "usage: robber <hex>")
		if err != nil {
			return err
		}
		return a.network.SendPayload(protocol.TypeMoveRobber, protocol.MoveRobberPayload{HexID: id})

	case "steal":
		if len(args) != 1 {
			return errors.New("usage: steal <player>")
		}
		target, err := a.resolvePlayer(args[0])
		if err != nil {
			return err
		}
		return a.network.SendPayload(protocol.TypeStealResource, protocol.StealResourcePayload{TargetPlayer: target})

	case "end":
		return a.network.SendPayload(protocol.TypeEndTurn, nil)
	}

	return fmt.Errorf("unknown command %q, try help", cmd)
}

func (a *App) sendCreate(name string) error {
	return a.network.SendPayload(protocol.TypeCreateGame, protocol.CreateGamePayload{
		Name:     name,
		IsPublic: a.opts.Public,
		Settings: protocol.GameSettings{
			MaxPlayers: a.opts.MaxPlayers,
			TargetVP:   a.opts.TargetVP,
		},
	})
}

// handleMessage runs on the read pump and prints server pushes.
func (a *App) handleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeWelcome, protocol.TypePong:

	case protocol.TypeAuthResult:
		var res protocol.AuthResultPayload
		if msg.ParsePayload(&res) == nil {
			select {
			case a.authResult <- res:
			default:
			}
		}

	case protocol.TypeGameCreated:
		var p protocol.GameCreatedPayload
		if msg.ParsePayload(&p) != nil {
			return
		}
		a.mu.Lock()
		a.gameID = p.GameID
		a.mu.Unlock()
		fmt.Fprintf(a.out, "Game created. Join code: %s\n", p.JoinCode)

	case protocol.TypeJoinedGame:
		var p protocol.JoinedGamePayload
		if msg.ParsePayload(&p) != nil {
			return
		}
		a.mu.Lock()
		a.gameID = p.GameID
		a.mu.Unlock()
		fmt.Fprintf(a.out, "Joined game %s.\n", p.GameID)

	case protocol.TypeLobbyState:
		var p protocol.LobbyStatePayload
		if msg.ParsePayload(&p) != nil {
			return
		}
		a.mu.Lock()
		a.lobby = &p
		a.mu.Unlock()
		a.printLobby(&p)

	case protocol.TypePlayerJoined:
		var p protocol.PlayerJoinedPayload
		if msg.ParsePayload(&p) == nil {
			fmt.Fprintf(a.out, "%s joined.\n", p.Name)
		}

	case protocol.TypePlayerLeft:
		var p protocol.PlayerLeftPayload
		if msg.ParsePayload(&p) == nil {
			fmt.Fprintf(a.out, "%s left.\n", a.nameOf(p.PlayerID))
		}

	case protocol.TypeGameStarted:
		fmt.Fprintln(a.out, "The game begins.")

	case protocol.TypeGameState:
		var p protocol.GameStatePayload
		if msg.ParsePayload(&p) != nil || p.State == nil {
			return
		}
		a.applyState(p.State)

	case protocol.TypeActionResult:
		var p protocol.ActionResultPayload
		if msg.ParsePayload(&p) == nil && !p.Success {
			fmt.Fprintf(a.out, "Rejected: %s (%s)\n", p.Error, p.Code)
		}

	case protocol.TypeGameEnded:
		var p protocol.GameEndedPayload
		if msg.ParsePayload(&p) == nil {
			fmt.Fprintf(a.out, "==== %s wins the game ====\n", p.WinnerName)
		}

	case protocol.TypeGameList:
		var p protocol.GameListPayload
		if msg.ParsePayload(&p) == nil {
			a.printGameList(p.Games)
		}

	case protocol.TypeGameHistory:
		var p protocol.GameHistoryPayload
		if msg.ParsePayload(&p) == nil {
			a.printHistory(&p)
		}

	case protocol.TypeDisconnect:
		var p protocol.DisconnectPayload
		if msg.ParsePayload(&p) == nil {
			fmt.Fprintf(a.out, "%s lost their connection.\n", a.nameOf(p.PlayerID))
		}

	case protocol.TypeError:
		var p protocol.ErrorPayload
		if msg.ParsePayload(&p) == nil {
			fmt.Fprintf(a.out, "Server error: %s (%s)\n", p.Message, p.Code)
		}
	}
}

// applyState stores a fresh view, prints events not seen before and a
// turn banner whenever whose-turn-it-is changes.
func (a *App) applyState(view *protocol.StateView) {
	a.mu.Lock()
	prev := a.view
	a.view = view
	a.gameID = view.GameID
	last := a.lastEvent
	var newest int64
	for _, ev := range view.Events {
		if ev.Timestamp > newest {
			newest = ev.Timestamp
		}
	}
	if newest > a.lastEvent {
		a.lastEvent = newest
	}
	a.mu.Unlock()

	for _, ev := range view.Events {
		if ev.Timestamp > last {
			fmt.Fprintf(a.out, "  * %s\n", ev.Message)
		}
	}

	if prev == nil || prev.Phase != view.Phase || prev.CurrentPlayer != view.CurrentPlayer {
		a.printTurnBanner(view)
	}
}

func (a *App) currentName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.name
}

func (a *App) currentGameID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gameID
}

func (a *App) snapshot() (*protocol.StateView, *protocol.LobbyStatePayload, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view, a.lobby, a.playerID
}

// nameOf resolves a player ID against the current game or lobby.
func (a *App) nameOf(playerID string) string {
	view, lobby, _ := a.snapshot()
	if view != nil {
		for _, p := range view.Players {
			if p.ID == playerID {
				return p.Name
			}
		}
	}
	if lobby != nil {
		for _, p := range lobby.Players {
			if p.ID == playerID {
				return p.Name
			}
		}
	}
	return playerID
}

// resolvePlayer accepts an opponent's name or ID.
func (a *App) resolvePlayer(s string) (string, error) {
	view, lobby, _ := a.snapshot()
	if view != nil {
		for _, p := range view.Players {
			if p.ID == s || strings.EqualFold(p.Name, s) {
				return p.ID, nil
			}
		}
	}
	if lobby != nil {
		for _, p := range lobby.Players {
			if p.ID == s || strings.EqualFold(p.Name, s) {
				return p.ID, nil
			}
		}
	}
	return "", fmt.Errorf("no player named %q here", s)
}

func intArg(args []string, usage string) (int, error) {
	if len(args) != 1 {
		return 0, errors.New(usage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.New(usage)
	}
	return id, nil
}

// parseResourceSet reads tokens like "2wood" or "ore" into a set.
func parseResourceSet(args []string) (game.ResourceSet, error) {
	var set game.ResourceSet
	for _, tok := range args {
		count := 1
		name := tok
		i := 0
		for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
			i++
		}
		if i > 0 {
			n, err := strconv.Atoi(tok[:i])
			if err != nil || n <= 0 {
				return set, fmt.Errorf("bad card count in %q", tok)
			}
			count = n
			name = tok[i:]
		}
		r, ok := game.ParseResource(name)
		if !ok {
			return set, fmt.Errorf("unknown resource %q", name)
		}
		set.Add(r, count)
	}
	return set, nil
}

// splitTrade parses "<give...> for <want...>".
func splitTrade(args []string) (give, want game.ResourceSet, err error) {
	sep := -1
	for i, tok := range args {
		if tok == "for" {
			sep = i
			break
		}
	}
	if sep <= 0 || sep == len(args)-1 {
		return give, want, errors.New(`expected "<give...> for <want...>"`)
	}
	if give, err = parseResourceSet(args[:sep]); err != nil {
		return give, want, err
	}
	want, err = parseResourceSet(args[sep+1:])
	return give, want, err
}
