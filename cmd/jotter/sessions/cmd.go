package sessions

import (
	"time"

	"github.com/avend/jotter/internal/cmdflags"
	"github.com/avend/jotter/internal/logutil"
	"github.com/avend/jotter/store"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "Commands to manage stored sessions",
		Subcommands: []*cli.Command{
			pruneCmd(),
		},
	}
}

func pruneCmd() *cli.Command {
	dbPath := "jotter.db"
	return &cli.Command{
		Name:  "prune",
		Usage: "Delete sessions whose expiry has passed. The server never does this on its own",
		Flags: []cli.Flag{
			cmdflags.Database(&dbPath),
		},
		Action: func(ctx *cli.Context) error {
			st, err := store.Open(ctx.Context, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			n, err := st.DeleteExpiredSessions(ctx.Context, time.Now())
			if err != nil {
				return err
			}
			logger := logutil.GetOrDefault(ctx.Context)
			logger.Info().Int64("sessions.pruned", n).Msg("Expired sessions removed")
			return nil
		},
	}
}
