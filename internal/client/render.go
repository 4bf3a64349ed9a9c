package client

import (
	"fmt"
	"strings"
	"time"

	"hexisle/internal/game"
	"hexisle/internal/protocol"
)

// formatSet renders a resource multiset as "2 wood, 1 ore".
func formatSet(s game.ResourceSet) string {
	var parts []string
	for _, r := range game.AllResources {
		if n := s.Get(r); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, r))
		}
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}

func (a *App) printHelp() {
	fmt.Fprint(a.out, `Lobby:
  games                       list public games
  create [name]               create a game
  join <code>                 join by code
  start                       start the game (host)
  leave                       leave the game

Turn:
  roll                        roll the dice
  settle <vertex>             place a settlement
  road <edge>                 place a road
  city <vertex>               upgrade to a city
  buy                         buy a development card
  knight | roads              play a knight / road building
  plenty <res> <res>          play year of plenty
  mono <res>                  play monopoly
  offer <player> <give...> for <want...>
  accept | decline | cancel   answer or withdraw a trade
  bank <give...> for <want...>
  discard <cards>             e.g. discard 2wood 1ore
  robber <hex>                move the robber
  steal <player>              rob an adjacent player
  end                         end your turn

Info:
  state | board | hand | log  show game details
  history [game-id]           fetch a finished game's log
  quit
`)
}

func (a *App) printLobby(p *protocol.LobbyStatePayload) {
	_, _, selfID := a.snapshot()
	fmt.Fprintf(a.out, "-- %s (code %s, %d/%d seats, first to %d VP) --\n",
		p.GameName, p.JoinCode, len(p.Players), p.Settings.MaxPlayers, p.Settings.TargetVP)
	for _, pl := range p.Players {
		marks := ""
		if pl.ID == p.HostID {
			marks += " [host]"
		}
		if pl.ID == selfID {
			marks += " (you)"
		}
		if !pl.IsConnected {
			marks += " [offline]"
		}
		fmt.Fprintf(a.out, "   %s%s\n", pl.Name, marks)
	}
	if selfID == p.HostID && len(p.Players) >= game.MinPlayers {
		fmt.Fprintln(a.out, `   Type "start" when everyone is in.`)
	}
}

// printTurnBanner says whose move it is and, for the viewer, what kind
// of command the phase expects.
func (a *App) printTurnBanner(view *protocol.StateView) {
	_, _, selfID := a.snapshot()

	switch view.Phase {
	case "trade":
		if view.Offer != nil {
			fmt.Fprintf(a.out, "[trade] %s offers %s for %s to %s\n",
				a.nameOf(view.Offer.From), formatSet(view.Offer.Give), formatSet(view.Offer.Want), a.nameOf(view.Offer.To))
			if view.Offer.To == selfID {
				fmt.Fprintln(a.out, `   Answer with "accept" or "decline".`)
			}
		}
		return
	case "robber_discard":
		if n := view.PendingDiscards[selfID]; n > 0 {
			fmt.Fprintf(a.out, "[discard] You must discard %d cards: discard <cards>\n", n)
		} else {
			fmt.Fprintf(a.out, "[discard] Waiting for %d players to discard\n", len(view.PendingDiscards))
		}
		return
	case "ended":
		fmt.Fprintf(a.out, "[ended] %s has won\n", a.nameOf(view.WinnerID))
		return
	}

	if view.CurrentPlayer != selfID {
		fmt.Fprintf(a.out, "[%s] Waiting for %s\n", view.Phase, a.nameOf(view.CurrentPlayer))
		return
	}

	var hint string
	switch view.Phase {
	case "setup_settlement":
		hint = "settle <vertex>"
	case "setup_road":
		hint = "road <edge>"
	case "roll":
		hint = "roll"
	case "main":
		hint = fmt.Sprintf("rolled %d+%d; build, trade or end", view.LastRoll[0], view.LastRoll[1])
	case "robber_move":
		hint = "robber <hex>"
	case "robber_steal":
		hint = "steal <player>"
	case "road_building":
		hint = fmt.Sprintf("road <edge>, %d free", view.RoadBuildingFree)
	}
	fmt.Fprintf(a.out, "[%s] Your move -- %s\n", view.Phase, hint)
}

func (a *App) printFullState() {
	view, lobby, selfID := a.snapshot()
	if view == nil {
		if lobby != nil {
			a.printLobby(lobby)
		} else {
			fmt.Fprintln(a.out, "Not in a game.")
		}
		return
	}

	fmt.Fprintf(a.out, "-- turn %d, %s, first to %d VP --\n", view.Turn, view.Phase, view.TargetVP)
	if view.LastRoll[0] > 0 {
		fmt.Fprintf(a.out, "   Last roll: %d+%d = %d\n", view.LastRoll[0], view.LastRoll[1], view.LastRoll[0]+view.LastRoll[1])
	}
	for _, p := range view.Players {
		marks := ""
		if p.ID == view.CurrentPlayer {
			marks += " <- to act"
		}
		if p.ID == selfID {
			marks += " (you)"
		}
		if !p.IsOnline {
			marks += " [offline]"
		}
		badges := ""
		if p.HasLongestRoad {
			badges += " +longest road"
		}
		if p.HasLargestArmy {
			badges += " +largest army"
		}
		fmt.Fprintf(a.out, "   %-12s %2d VP  %d cards, %d dev  roads %d settlements %d cities %d%s%s\n",
			p.Name, p.VictoryPoints, p.HandCount, p.DevCardCount,
			p.RoadsBuilt, p.SettlementsBuilt, p.CitiesBuilt, badges, marks)
	}
	fmt.Fprintf(a.out, "   Deck: %d cards left. Robber on hex %d.\n", view.DeckRemaining, view.Board.Robber)
	a.printHand()
	a.printTurnBanner(view)
}

func (a *App) printBoard() {
	view, _, _ := a.snapshot()
	if view == nil || view.Board == nil {
		fmt.Fprintln(a.out, "No board yet.")
		return
	}
	b := view.Board

	fmt.Fprintln(a.out, "Hexes:")
	for _, h := range b.Hexes {
		robber := ""
		if h.ID == b.Robber {
			robber = "  <- robber"
		}
		if h.Number == 0 {
			fmt.Fprintf(a.out, "   %2d  %-6s -%s\n", h.ID, h.Terrain, robber)
		} else {
			fmt.Fprintf(a.out, "   %2d  %-6s %2d%s\n", h.ID, h.Terrain, h.Number, robber)
		}
	}

	fmt.Fprintln(a.out, "Buildings:")
	any := false
	for _, v := range b.Vertices {
		if v.Building == nil {
			continue
		}
		any = true
		harbor := ""
		if h := b.HarborAt(v.ID); h != nil {
			harbor = fmt.Sprintf("  harbor %s", h.Kind)
		}
		fmt.Fprintf(a.out, "   vertex %2d  %s of %s%s\n", v.ID, v.Building.Kind, a.nameOf(v.Building.Owner), harbor)
	}
	if !any {
		fmt.Fprintln(a.out, "   none")
	}

	fmt.Fprintln(a.out, "Roads:")
	any = false
	for _, e := range b.Edges {
		if e.Owner == "" {
			continue
		}
		any = true
		fmt.Fprintf(a.out, "   edge %2d  (%d-%d) %s\n", e.ID, e.A, e.B, a.nameOf(e.Owner))
	}
	if !any {
		fmt.Fprintln(a.out, "   none")
	}

	fmt.Fprintln(a.out, "Harbors:")
	for _, h := range b.Harbors {
		fmt.Fprintf(a.out, "   %-9s vertices %d, %d\n", h.Kind, h.VertexA, h.VertexB)
	}
}

func (a *App) printHand() {
	view, _, selfID := a.snapshot()
	if view == nil {
		fmt.Fprintln(a.out, "Not in a game.")
		return
	}
	for _, p := range view.Players {
		if p.ID != selfID {
			continue
		}
		if p.Hand == nil {
			fmt.Fprintln(a.out, "   Your hand is hidden.")
			return
		}
		fmt.Fprintf(a.out, "   Hand: %s\n", formatSet(*p.Hand))
		if len(p.DevCards) > 0 {
			var cards []string
			for _, c := range p.DevCards {
				s := string(c.Type)
				if c.BoughtThisTurn {
					s += " (new)"
				}
				cards = append(cards, s)
			}
			fmt.Fprintf(a.out, "   Dev cards: %s\n", strings.Join(cards, ", "))
		}
		return
	}
}

func (a *App) printLog() {
	view, _, _ := a.snapshot()
	if view == nil {
		fmt.Fprintln(a.out, "Not in a game.")
		return
	}
	for _, ev := range view.Events {
		fmt.Fprintf(a.out, "   %s  %s\n", time.UnixMilli(ev.Timestamp).Format("15:04:05"), ev.Message)
	}
}

func (a *App) printGameList(games []protocol.GameListItem) {
	if len(games) == 0 {
		fmt.Fprintln(a.out, "No open games.")
		return
	}
	for _, g := range games {
		fmt.Fprintf(a.out, "   %s  %-20s %d/%d  host %s\n", g.JoinCode, g.Name, g.PlayerCount, g.MaxPlayers, g.HostName)
	}
	fmt.Fprintln(a.out, `Join one with "join <code>".`)
}

func (a *App) printHistory(p *protocol.GameHistoryPayload) {
	if len(p.Events) == 0 {
		fmt.Fprintf(a.out, "No history for game %s.\n", p.GameID)
		return
	}
	fmt.Fprintf(a.out, "History of game %s:\n", p.GameID)
	for _, ev := range p.Events {
		fmt.Fprintf(a.out, "   %s  %s\n", time.UnixMilli(ev.Timestamp).Format("Jan 2 15:04:05"), ev.Message)
	}
}
