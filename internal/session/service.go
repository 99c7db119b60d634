package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"smart-poll/poll-cli/internal"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Identity is the backend's answer to "who am I". All user-facing flags
// derive from it; nothing here is stored independently of the fetch.
type Identity struct {
	Login      string   `json:"login"`
	Roles      []string `json:"roles"`
	Registered bool     `json:"isRegistered"`
}

func (i Identity) IsAdmin() bool {
	return slices.Contains(i.Roles, "ADMIN")
}

// API is the slice of the backend client the session layer needs.
type API interface {
	// CreateUser provisions an anonymous session and returns its token.
	CreateUser(ctx context.Context) (string, error)
	// Login exchanges credentials for a token.
	Login(ctx context.Context, login, password string) (string, error)
	// UpdateCredentials attaches credentials to the current anonymous
	// identity.
	UpdateCredentials(ctx context.Context, newLogin, newPassword string) error
	// GetMe fetches the current identity.
	GetMe(ctx context.Context) (Identity, error)
}

// Service owns the process-wide bearer token and the identity cache.
// The token is written only here; every write invalidates the cached
// identity and notifies subscribers so identity-dependent views re-read.
type Service struct {
	logger *zap.Logger
	api    API
	store  *Store

	mu          sync.Mutex
	token       string
	identity    *Identity
	subscribers []func()
}

func NewService(logger *zap.Logger, api API, store *Store) *Service {
	return &Service{
		logger: logger,
		api:    api,
		store:  store,
	}
}

// Subscribe registers a callback fired on every identity invalidation.
func (s *Service) Subscribe(fn func()) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

// Token returns the current bearer token for outgoing requests.
func (s *Service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// IsAuthenticated reports whether a token is present.
func (s *Service) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Service) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.identity = nil
	subscribers := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn()
	}
}

// Ensure makes sure a usable token exists before any authenticated call:
// it loads the stored one, and silently provisions a fresh anonymous
// session when there is none or the stored token is already expired.
// Failures leave the user unauthenticated; the next run retries instead
// of blocking the application.
func (s *Service) Ensure(ctx context.Context) error {
	stored, err := s.store.Load()
	if err != nil {
		return err
	}

	if stored != "" && !expired(stored) {
		s.mu.Lock()
		s.token = stored
		s.mu.Unlock()
		return nil
	}

	token, err := s.api.CreateUser(ctx)
	if err != nil {
		s.logger.Warn("anonymous session bootstrap failed", zap.Error(err))
		return err
	}

	// Persist before anything authenticated renders.
	if err := s.store.Save(token); err != nil {
		return err
	}

	s.logger.Debug("provisioned anonymous session")
	s.setToken(token)
	return nil
}

// Reprovision discards the current token and bootstraps a fresh
// anonymous session. The expiry peek in Ensure cannot see a token the
// backend invalidated server-side; when such a token comes back as a
// 401, this is the recovery path instead of a hard failure.
func (s *Service) Reprovision(ctx context.Context) error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.setToken("")

	s.logger.Info("stored session rejected by the server, provisioning a new one")
	return s.Ensure(ctx)
}

// Login exchanges credentials for a token, replacing the stored one. A
// 401 or 404 from the backend means bad credentials, not a broken
// session: local state is untouched in that case.
func (s *Service) Login(ctx context.Context, login, password string) error {
	token, err := s.api.Login(ctx, login, password)
	if err != nil {
		if errors.Is(err, internal.ErrUnauthorized) || errors.Is(err, internal.ErrNotFound) {
			return internal.ErrInvalidCredentials
		}
		return err
	}

	if err := s.store.Save(token); err != nil {
		return err
	}

	s.logger.Info("logged in", zap.String("login", login))
	s.setToken(token)
	return nil
}

// Register upgrades the current anonymous identity by attaching
// credentials to it. The token stays the same; only the cached identity
// is stale afterwards.
func (s *Service) Register(ctx context.Context, login, password string) error {
	if !s.IsAuthenticated() {
		return internal.ErrNoSession
	}

	if err := s.api.UpdateCredentials(ctx, login, password); err != nil {
		if errors.Is(err, internal.ErrConflict) {
			return internal.ErrLoginConflict
		}
		return err
	}

	s.logger.Info("registered", zap.String("login", login))
	s.invalidate()
	return nil
}

// Logout clears the stored token. The next run bootstraps a fresh
// anonymous session.
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}

	s.logger.Info("logged out")
	s.setToken("")
	return nil
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.identity = nil
	subscribers := slices.Clone(s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn()
	}
}

// Identity returns the current identity, fetching it once per
// invalidation cycle.
func (s *Service) Identity(ctx context.Context) (Identity, error) {
	s.mu.Lock()
	if s.identity != nil {
		cached := *s.identity
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	identity, err := s.api.GetMe(ctx)
	if err != nil {
		return Identity{}, err
	}

	s.mu.Lock()
	s.identity = &identity
	s.mu.Unlock()
	return identity, nil
}

// expired peeks at the token's exp claim without verifying the
// signature; verification is the backend's job. Opaque tokens pass
// through and get rejected server-side with a 401 if stale.
func expired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
