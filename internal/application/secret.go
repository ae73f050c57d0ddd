package application

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const hashedSecretPrefix = "$argon2id$"

var (
	ErrInvalidSecretHash         = errors.New("invalid secret hash format")
	ErrIncompatibleSecretVersion = errors.New("incompatible secret hash version")
)

type Argon2idParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

var DefaultArgon2idParams = Argon2idParams{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// NormalizeSecret applies the entry convention for secrets: surrounding
// whitespace is dropped and letters are upper-cased.
func NormalizeSecret(secret string) string {
	return strings.ToUpper(strings.TrimSpace(secret))
}

// HashSecret produces a directory-ready argon2id encoding of the normalized secret.
func HashSecret(secret string, params Argon2idParams) (string, error) {
	salt := make([]byte, params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(NormalizeSecret(secret)), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	// $argon2id$v=19$m=...,t=...,p=...$salt$hash
	format := "$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s"
	return fmt.Sprintf(format, argon2.Version, params.Memory, params.Iterations, params.Parallelism, b64Salt, b64Hash), nil
}

// VerifySecret checks a normalized candidate against an argon2id encoding.
func VerifySecret(hashed, secret string) error {
	parts := strings.Split(hashed, "$")
	if len(parts) != 6 {
		return ErrInvalidSecretHash
	}

	if parts[1] != "argon2id" {
		return ErrInvalidSecretHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return err
	}
	if version != argon2.Version {
		return ErrIncompatibleSecretVersion
	}

	var params Argon2idParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Iterations, &params.Parallelism); err != nil {
		return err
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return err
	}

	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return err
	}
	params.KeyLength = uint32(len(decodedHash))

	comparisonHash := argon2.IDKey([]byte(secret), salt, params.Iterations, params.Memory, params.Parallelism, params.KeyLength)

	if subtle.ConstantTimeCompare(decodedHash, comparisonHash) == 1 {
		return nil
	}

	return ErrInvalidCredentials
}

// SecretMatcher decides whether a candidate secret matches the stored one.
type SecretMatcher func(stored, candidate string) bool

// MatchSecret compares secrets after normalizing both sides. Stored values
// carrying an argon2id encoding are verified against the hash instead.
func MatchSecret(stored, candidate string) bool {
	normalized := NormalizeSecret(candidate)
	if normalized == "" {
		return false
	}
	if strings.HasPrefix(stored, hashedSecretPrefix) {
		return VerifySecret(stored, normalized) == nil
	}
	return NormalizeSecret(stored) == normalized
}
