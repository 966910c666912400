// Package auth implements the bearer-token register/login flow the
// HTTP surface sits behind. Credentials are held in an in-memory
// directory keyed by email; nothing here is durable across restarts,
// mirroring the orchestrator's own stance that the process, not a
// database row, is the source of truth for anything not explicitly
// persisted through an activity.
package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken        = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
)

const tokenTTL = 24 * time.Hour

// Directory holds registered users and issues/verifies bearer tokens
// signed with a single in-process HMAC secret.
type Directory struct {
	secret []byte

	mu    sync.RWMutex
	users map[string]string // email -> bcrypt hash
}

// NewDirectory returns a Directory that signs tokens with secret. A
// random per-process secret is fine for a single server instance;
// callers that run more than one replica must supply a shared one.
func NewDirectory(secret []byte) *Directory {
	return &Directory{secret: secret, users: map[string]string{}}
}

// Register hashes and stores password for email, failing if the
// email is already taken.
func (d *Directory) Register(email, password string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.users[email]; exists {
		return ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	d.users[email] = string(hash)
	return nil
}

// Login verifies email/password and returns a signed bearer token
// valid for tokenTTL.
func (d *Directory) Login(email, password string) (string, error) {
	d.mu.RLock()
	hash, ok := d.users[email]
	d.mu.RUnlock()
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	claims := jwt.RegisteredClaims{
		Subject:   email,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(d.secret)
}

// Verify parses and validates a bearer token, returning the subject
// email it was issued for.
func (d *Directory) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return d.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}
	return claims.Subject, nil
}
