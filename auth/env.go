package auth

import (
	"fmt"
	"os"
)

const (
	PasswordEnvVar = "JOTTER_PASSWORD"
)

// PasswordFromEnv reads a plaintext password from the named environment
// variable and blanks the variable right away, so the secret does not
// survive in the process environment. Passwords are never accepted as
// command-line arguments.
func PasswordFromEnv(varname string, getfn func(string) string, setfn func(string, string) error) (string, error) {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	if len(val) == 0 {
		return "", fmt.Errorf("auth: environment variable %v is empty, expected a password", varname)
	}
	return val, nil
}
