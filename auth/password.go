package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	passwordAlgo  = "pbkdf2_sha256"
	passwordIters = 150_000
	saltLen       = 16
	keyLen        = 32
)

// HashPassword derives a salted hash of password and encodes it as
//
//	pbkdf2_sha256$<iterations>$<base64 salt>$<base64 key>
//
// The format matches what other deployments of this system store, so
// databases can move between them.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("unable to generate password salt, cause %w", err)
	}
	dk := pbkdf2.Key([]byte(password), salt, passwordIters, keyLen, sha256.New)
	return fmt.Sprintf("%v$%v$%v$%v", passwordAlgo, passwordIters,
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(dk)), nil
}

// VerifyPassword reports whether password matches the stored hash.
// Any defect in the stored value, unknown algorithm tag, unparsable
// iteration count, broken base64, makes it return false. It never
// returns an error: a hash we cannot read is a hash nothing matches.
func VerifyPassword(stored string, password string) bool {
	parts := strings.SplitN(stored, "$", 4)
	if len(parts) != 4 || parts[0] != passwordAlgo {
		return false
	}
	iters, err := strconv.Atoi(parts[1])
	if err != nil || iters <= 0 {
		return false
	}
	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(expected) == 0 {
		return false
	}
	derived := pbkdf2.Key([]byte(password), salt, iters, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}
