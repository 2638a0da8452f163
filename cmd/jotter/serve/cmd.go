package serve

import (
	"github.com/avend/jotter/auth"
	"github.com/avend/jotter/internal/cmdflags"
	"github.com/avend/jotter/internal/httpserver"
	"github.com/avend/jotter/store"
	"github.com/avend/jotter/webapi"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	bindAddr := "localhost:7013"
	dbPath := "jotter.db"
	sessionCache := true
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the jotter HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "bind",
				Usage:       "Address to bind and export the API",
				Value:       bindAddr,
				Destination: &bindAddr,
			},
			cmdflags.Database(&dbPath),
			&cli.BoolFlag{
				Name:        "session-cache",
				Usage:       "Answer repeat session validations from memory instead of the database",
				Value:       sessionCache,
				Destination: &sessionCache,
			},
		},
		Action: func(ctx *cli.Context) error {
			st, err := store.Open(ctx.Context, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			sessions := auth.NewSessions(st)
			if sessionCache {
				sessions.EnableCache()
			}
			handler := webapi.AsHandler(ctx.Context, st, sessions)
			return httpserver.Serve(ctx.Context, bindAddr, handler)
		},
	}
}
