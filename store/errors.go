package store

import "fmt"

type (
	UsernameTaken struct {
		Username string
	}
)

func (u UsernameTaken) Error() string {
	return fmt.Sprintf("username %v is already taken", u.Username)
}
