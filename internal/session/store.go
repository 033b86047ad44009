package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/aldoetobex/legal-mp-client/pkg/models"
	"github.com/aldoetobex/legal-mp-client/pkg/validation"
)

// ErrNotInitialized is returned when a caller reads the session before
// Initialize has run. Route-guard decisions must wait for initialization.
var ErrNotInitialized = errors.New("session: not initialized")

// ValidationError carries field-level failures caught before dispatch.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string { return "validation failed" }

// poster is the slice of the API client the store needs for auth calls.
type poster interface {
	Post(ctx context.Context, path string, body, out any) error
}

// state is what survives a restart: the opaque credential plus the
// serialized identity, exactly what the backend returned.
type state struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Store holds the current authenticated identity and credential, persisted
// to a JSON file across restarts. All methods are safe for concurrent use,
// though in practice writes only happen from user-initiated auth actions or
// the global 401 hook.
type Store struct {
	path string
	api  poster
	log  *zap.Logger

	mu          sync.RWMutex
	token       string
	user        *models.User
	initialized bool
}

// New builds a Store persisting to path. Wire the API client with UseAPI
// (the client also needs the store as its token source), then call
// Initialize before anything consults the session.
func New(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log}
}

// UseAPI attaches the API client used for auth calls.
func (s *Store) UseAPI(p poster) { s.api = p }

// Initialize rehydrates any persisted session. It always completes: a
// missing or corrupt state file just leaves the store unauthenticated.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() { s.initialized = true }()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var st state
	if err := json.Unmarshal(raw, &st); err != nil || st.Token == "" {
		s.log.Warn("discarding unreadable session state", zap.String("path", s.path))
		return
	}
	s.token = st.Token
	u := st.User
	s.user = &u
}

// Initialized reports whether Initialize has completed.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Current returns the signed-in identity, or nil when unauthenticated.
func (s *Store) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SignIn exchanges credentials for a session. On failure the prior state is
// left untouched.
func (s *Store) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	req := models.SignInRequest{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if errs, err := validation.Validate(req); err != nil {
		return nil, err
	} else if errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	var resp models.AuthResponse
	if err := s.api.Post(ctx, "/auth/signin", req, &resp); err != nil {
		return nil, err
	}
	return s.activate(resp)
}

// SignUp registers a new account and activates the resulting session. The
// lawyer-only fields are stripped for client registrations so they never
// reach the wire.
func (s *Store) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Role != string(models.RoleLawyer) {
		req.Jurisdiction = ""
		req.BarNumber = ""
	}
	if errs, err := validation.Validate(req); err != nil {
		return nil, err
	} else if errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	var resp models.AuthResponse
	if err := s.api.Post(ctx, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}
	return s.activate(resp)
}

// SignOut clears the persisted and in-memory session unconditionally. It is
// also the target of the API client's global 401 hook.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	_ = os.Remove(s.path)
}

func (s *Store) activate(resp models.AuthResponse) (*models.User, error) {
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("session: backend returned no access token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = resp.AccessToken
	u := resp.User
	s.user = &u

	if err := s.persist(state{Token: resp.AccessToken, User: resp.User}); err != nil {
		// In-memory session still works for this run.
		s.log.Warn("failed to persist session", zap.Error(err))
	}
	out := u
	return &out, nil
}

func (s *Store) persist(st state) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}
