package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/avend/jotter/cmd/jotter/serve"
	"github.com/avend/jotter/cmd/jotter/sessions"
	"github.com/avend/jotter/cmd/jotter/user"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "jotter",
		Usage: "A tiny todo service with username/password accounts and cookie sessions",
		Commands: []*cli.Command{
			serve.Cmd(),
			user.Cmd(),
			sessions.Cmd(),
		},
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err := app.RunContext(ctx, os.Args)
	if err != nil {
		log.Error().Err(err).Msg("Application failed")
	}
}
