// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/samber/oops"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/holomush/authcore/pkg/errutil"
)

// OWASP-recommended argon2id parameters.
const (
	DefaultArgon2Time    = 1         // iterations
	DefaultArgon2Memory  = 64 * 1024 // 64 MB
	DefaultArgon2Threads = 4         // parallelism
	argon2SaltLen        = 16        // salt length in bytes
	argon2KeyLen         = 32        // output length in bytes
)

const argon2Prefix = "$argon2id$"

// Argon2Params tunes the argon2id cost.
type Argon2Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

// DefaultArgon2Params returns the OWASP baseline.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Time:    DefaultArgon2Time,
		Memory:  DefaultArgon2Memory,
		Threads: DefaultArgon2Threads,
	}
}

// Argon2idHasher implements Hasher with argon2id PHC strings. It also
// verifies legacy bcrypt hashes so imported accounts can still log in.
type Argon2idHasher struct {
	params Argon2Params
}

var _ Hasher = (*Argon2idHasher)(nil)

// NewArgon2idHasher creates a hasher with the given cost. Zero fields
// fall back to the defaults.
func NewArgon2idHasher(params Argon2Params) *Argon2idHasher {
	def := DefaultArgon2Params()
	if params.Time == 0 {
		params.Time = def.Time
	}
	if params.Memory == 0 {
		params.Memory = def.Memory
	}
	if params.Threads == 0 {
		params.Threads = def.Threads
	}
	return &Argon2idHasher{params: params}
}

// Hash produces an argon2id hash of the password.
func (h *Argon2idHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", oops.Code("PASSWORD_EMPTY").
			In(errutil.DomainValidation).
			Errorf("password cannot be empty")
	}

	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", oops.Code("CREDENTIAL_SALT_FAILED").In(errutil.DomainIntegrity).Wrap(err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.Memory, h.params.Threads, argon2KeyLen)

	// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks if the password matches the hash.
func (h *Argon2idHasher) Verify(password, encoded string) (bool, error) {
	if isBcrypt(encoded) {
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
		if err == nil {
			return true, nil
		}
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, invalidHash().Wrap(err)
	}

	phc, err := decodeArgon2(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), phc.salt, phc.time, phc.memory, phc.threads, uint32(len(phc.key)))
	return subtle.ConstantTimeCompare(computed, phc.key) == 1, nil
}

// IsAlreadyHashed reports whether candidate is a well-formed argon2id or
// bcrypt hash.
func (h *Argon2idHasher) IsAlreadyHashed(candidate string) bool {
	if isBcrypt(candidate) {
		return true
	}
	_, err := decodeArgon2(candidate)
	return err == nil
}

// NeedsUpgrade returns true if the hash is not argon2id with the current cost.
func (h *Argon2idHasher) NeedsUpgrade(encoded string) bool {
	phc, err := decodeArgon2(encoded)
	if err != nil {
		return true
	}
	return phc.time != h.params.Time || phc.memory != h.params.Memory || phc.threads != h.params.Threads
}

func isBcrypt(encoded string) bool {
	if !strings.HasPrefix(encoded, "$2a$") && !strings.HasPrefix(encoded, "$2b$") && !strings.HasPrefix(encoded, "$2y$") {
		return false
	}
	_, err := bcrypt.Cost([]byte(encoded))
	return err == nil
}

type argon2PHC struct {
	time    uint32
	memory  uint32
	threads uint8
	salt    []byte
	key     []byte
}

func invalidHash() oops.OopsErrorBuilder {
	return oops.Code("CREDENTIAL_HASH_INVALID").In(errutil.DomainIntegrity)
}

func decodeArgon2(encoded string) (argon2PHC, error) {
	if !strings.HasPrefix(encoded, argon2Prefix) {
		return argon2PHC{}, invalidHash().Errorf("unsupported hash format")
	}
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return argon2PHC{}, invalidHash().Errorf("invalid hash format")
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return argon2PHC{}, invalidHash().Wrap(err)
	}
	if version != argon2.Version {
		return argon2PHC{}, invalidHash().Errorf("unsupported argon2 version %d", version)
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return argon2PHC{}, invalidHash().Wrap(err)
	}
	// Validate threads fits in uint8 to prevent silent truncation
	if threads == 0 || threads > 255 {
		return argon2PHC{}, invalidHash().Errorf("threads value %d out of range", threads)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return argon2PHC{}, invalidHash().Wrap(err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return argon2PHC{}, invalidHash().Wrap(err)
	}
	if len(key) == 0 || len(key) > 1<<10 {
		return argon2PHC{}, invalidHash().Errorf("invalid hash key length: %d", len(key))
	}

	return argon2PHC{
		time:    time,
		memory:  memory,
		threads: uint8(threads),
		salt:    salt,
		key:     key,
	}, nil
}
