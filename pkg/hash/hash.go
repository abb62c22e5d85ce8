package hash

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/apnabazaar/bazaar/internal/domain"
)

// Cost is the bcrypt work factor for every stored password.
const Cost = 10

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// HashPassword reports a password bcrypt cannot take as ErrValidation.
func HashPassword(password string) (string, error) {
	hashbytes, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("password must be at most %d bytes: %w", MaxPasswordBytes, domain.ErrValidation)
	}
	if err != nil {
		return "", err
	}

	return string(hashbytes), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// BurnCompare runs one comparison against a throwaway hash of the same cost,
// so a lookup miss spends the same hashing effort as a password mismatch.
func BurnCompare(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("bazaar-dummy-password"), Cost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}
