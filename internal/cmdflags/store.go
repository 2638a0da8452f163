package cmdflags

import (
	"github.com/avend/jotter/auth"
	"github.com/urfave/cli/v2"
)

func Database(out *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "database",
		Aliases:     []string{"db", "d"},
		Usage:       "Path to the sqlite database file",
		Destination: out,
		Value:       *out,
	}
}

func PasswordEnvVar(out *string) cli.Flag {
	if len(*out) == 0 {
		*out = auth.PasswordEnvVar
	}
	return &cli.StringFlag{
		Name:        "password-envvar-name",
		Usage:       "Name of the environment variable that holds the password. The password itself should not be passed as an argument",
		Value:       *out,
		Destination: out,
	}
}
