// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

var errMalformedHash = errors.New("malformed password hash")

// argonParams are the argon2id cost settings stored inside every encoded
// hash, so old hashes stay verifiable after the defaults change.
type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

var currentParams = argonParams{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
}

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

// encode renders the PHC string form:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
func (p argonParams) encode(salt, key []byte) string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.memory, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)
}

type decodedHash struct {
	params argonParams
	salt   []byte
	key    []byte
}

func parseHash(encoded string) (*decodedHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return nil, fmt.Errorf("%w: version %q", errMalformedHash, parts[2])
	}

	d := &decodedHash{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d",
		&d.params.memory, &d.params.time, &d.params.threads); err != nil {
		return nil, fmt.Errorf("%w: params: %v", errMalformedHash, err)
	}

	var err error
	if d.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("%w: salt: %v", errMalformedHash, err)
	}
	if d.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("%w: key: %v", errMalformedHash, err)
	}

	//nolint:gosec // argon2id keys are 32 bytes
	d.params.keyLen = uint32(len(d.key))
	return d, nil
}

func (d *decodedHash) matches(password string) bool {
	return subtle.ConstantTimeCompare(d.key, d.params.derive(password, d.salt)) == 1
}

func (d *decodedHash) outdated() bool {
	return d.params != currentParams
}

// HashPassword derives an argon2id hash with a fresh random salt.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return currentParams.encode(salt, currentParams.derive(password, salt)), nil
}

// VerifyPasswordWithRehash also returns a replacement hash when the stored
// one was made with outdated parameters. A failed rehash is not an error.
func VerifyPasswordWithRehash(password, encodedHash string) (bool, string, error) {
	d, err := parseHash(encodedHash)
	if err != nil {
		return false, "", err
	}
	if !d.matches(password) {
		return false, "", nil
	}
	if !d.outdated() {
		return true, "", nil
	}

	rehashed, err := HashPassword(password)
	if err != nil {
		return true, "", nil //nolint:nilerr // login already succeeded
	}
	return true, rehashed, nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

func unknownAccountHash() string {
	dummyOnce.Do(func() {
		hash, err := HashPassword("guardops-dummy-credential-for-unknown-accounts")
		if err != nil {
			panic(fmt.Sprintf("security: dummy hash: %v", err))
		}
		dummyHash = hash
	})
	return dummyHash
}

// VerifyPasswordTimingSafe always performs one argon2 derivation, against
// a dummy hash when encodedHash is nil, so unknown and inactive accounts
// cost the same as a wrong password.
func VerifyPasswordTimingSafe(password string, encodedHash *string) (bool, string, error) {
	if encodedHash == nil || *encodedHash == "" {
		_, _, _ = VerifyPasswordWithRehash(password, unknownAccountHash())
		return false, "", nil
	}
	return VerifyPasswordWithRehash(password, *encodedHash)
}
