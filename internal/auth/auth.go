package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
)

// Credentials is the login form payload.
type Credentials struct {
	Username string
	Password string
}

// Authenticator decides whether credentials get a token. The rest of the
// service only knows this interface, so the mocked gate can be swapped for a
// real backend without touching the quiz side.
type Authenticator interface {
	Authenticate(ctx context.Context, creds Credentials) error
}

// MockAuthenticator lets everyone in after a fixed delay, simulating the
// round trip to a credentials backend that does not exist yet.
type MockAuthenticator struct {
	delay time.Duration
}

func NewMockAuthenticator(delay time.Duration) *MockAuthenticator {
	return &MockAuthenticator{delay: delay}
}

func (a *MockAuthenticator) Authenticate(ctx context.Context, _ Credentials) error {
	select {
	case <-time.After(a.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CredentialsAuthenticator checks logins against an in-memory user table.
// It exists to prove the Authenticator seam with a real password check;
// users live only as long as the process.
type CredentialsAuthenticator struct {
	mu    sync.RWMutex
	users map[string]string // username -> bcrypt hash
}

func NewCredentialsAuthenticator() *CredentialsAuthenticator {
	return &CredentialsAuthenticator{users: make(map[string]string)}
}

func (a *CredentialsAuthenticator) Register(username, password string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.users[username]; ok {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	a.users[username] = string(hash)
	return nil
}

func (a *CredentialsAuthenticator) Authenticate(_ context.Context, creds Credentials) error {
	a.mu.RLock()
	hash, ok := a.users[creds.Username]
	a.mu.RUnlock()

	if !ok {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
