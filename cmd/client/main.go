package main

import (
	"flag"
	"log"

	"hexisle/internal/client"
)

func main() {
	server := flag.String("server", "", "Server address (host:port)")
	name := flag.String("name", "", "Account name")
	password := flag.String("password", "", "Account password")
	create := flag.Bool("create", false, "Create a game after signing in")
	gameName := flag.String("game-name", "", "Name for the created game")
	players := flag.Int("players", 4, "Seats in the created game (2-4)")
	target := flag.Int("target", 0, "Victory points to win, 0 for the default")
	public := flag.Bool("public", true, "List the created game publicly")
	join := flag.String("join", "", "Join code of a game to enter")
	profile := flag.String("profile", "", "Profile name for separate config (e.g., player1, player2)")
	flag.Parse()

	client.SetProfile(*profile)

	app, err := client.New(client.Options{
		Server:     *server,
		Name:       *name,
		Password:   *password,
		Create:     *create,
		GameName:   *gameName,
		MaxPlayers: *players,
		TargetVP:   *target,
		Public:     *public,
		JoinCode:   *join,
	})
	if err != nil {
		log.Fatalf("Failed to start client: %v", err)
	}

	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
