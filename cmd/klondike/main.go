package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play a game in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Serve games over WebSocket"`
	Deal     DealCmd          `cmd:"" help:"Print the opening layout for a seed"`
	Simulate SimulateCmd      `cmd:"" help:"Play many games with a bot and report win rates"`
	Replay   ReplayCmd        `cmd:"" help:"Replay a saved game and print the result"`
	Remote   RemoteCmd        `cmd:"" help:"Play a game on a server by following its hints"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("klondike"),
		kong.Description("Klondike solitaire: play, serve and simulate"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
