package user

import (
	"errors"

	"github.com/avend/jotter/auth"
	"github.com/avend/jotter/internal/cmdflags"
	"github.com/avend/jotter/internal/logutil"
	"github.com/avend/jotter/store"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:  "user",
		Usage: "Commands to manage user accounts without going through the API",
		Subcommands: []*cli.Command{
			addCmd(),
		},
	}
}

func addCmd() *cli.Command {
	dbPath := "jotter.db"
	passwordEnvVar := auth.PasswordEnvVar
	return &cli.Command{
		Name:      "add",
		Usage:     "Create a user account, reading the password from the environment",
		ArgsUsage: "<username>",
		Flags: []cli.Flag{
			cmdflags.Database(&dbPath),
			cmdflags.PasswordEnvVar(&passwordEnvVar),
		},
		Action: func(ctx *cli.Context) error {
			username := ctx.Args().First()
			if username == "" {
				return errors.New("missing username argument")
			}
			password, err := auth.PasswordFromEnv(passwordEnvVar, nil, nil)
			if err != nil {
				return err
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			st, err := store.Open(ctx.Context, dbPath)
			if err != nil {
				return err
			}
			defer st.Close()
			id, err := st.CreateUser(ctx.Context, username, hash)
			if err != nil {
				return err
			}
			logger := logutil.GetOrDefault(ctx.Context)
			logger.Info().Int64("user.id", id).Str("user.name", username).Msg("User created")
			return nil
		},
	}
}
