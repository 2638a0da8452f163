package auth

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordFromEnv(t *testing.T) {
	os.Setenv(PasswordEnvVar, "hunter2")
	pw, err := PasswordFromEnv(PasswordEnvVar, nil, nil)
	require.NoError(t, err)
	require.Equal(t, "hunter2", pw)
	require.Empty(t, os.Getenv(PasswordEnvVar), "reading the password should remove it from the environment")

	_, err = PasswordFromEnv(PasswordEnvVar, nil, nil)
	require.Error(t, err, "an empty variable is an error, not an empty password")
}
