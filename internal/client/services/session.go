package services

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/prepio/prepio-cli/internal/client/api"
	"github.com/prepio/prepio-cli/internal/client/models"
	"github.com/prepio/prepio-cli/internal/client/repositories/credential"
)

// SessionView is the derived authentication state. It is recomputed, never
// independently mutated: Authenticated is true iff a credential is present
// and the last completed identity check did not reject it; Loading is true
// while an identity check is outstanding.
type SessionView struct {
	User          *models.UserProfile
	Authenticated bool
	Loading       bool
	Err           error
}

// SessionService reconciles the locally persisted credential with
// server-confirmed identity and owns login, signup, and logout.
//
// Contract:
//   - Refresh: run the identity check if a credential exists; concurrent
//     calls share one request.
//   - Login/Signup: authenticate, persist the returned token, replace the
//     view wholesale.
//   - Logout: clear the credential and reset the view; idempotent.
//   - HandleUnauthorized: the process-wide rejection hook; always wins over
//     any in-flight reconciliation result.
type SessionService interface {
	View() SessionView
	CredentialPresent() bool
	Refresh(ctx context.Context) SessionView
	Login(ctx context.Context, email string, password []byte) error
	Signup(ctx context.Context, name, email string, password []byte) error
	Logout(ctx context.Context) error
	HandleUnauthorized()
}

type sessionService struct {
	client    api.Client
	creds     *credential.Cache
	onRevoked func()

	group singleflight.Group

	mu   sync.Mutex
	view SessionView
	// gen changes on every credential write; an identity check that started
	// under an older gen discards its result instead of overwriting the
	// rejection handler's state.
	gen uint64
}

// NewSessionService binds the reconciler to the API client and credential
// cache. onRevoked, if non-nil, is invoked after a forced logout so the view
// layer can navigate back to the login entry point; it may be nil.
func NewSessionService(client api.Client, creds *credential.Cache, onRevoked func()) SessionService {
	return &sessionService{client: client, creds: creds, onRevoked: onRevoked}
}

func (s *sessionService) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *sessionService) CredentialPresent() bool {
	return s.creds.Present()
}

func (s *sessionService) Refresh(ctx context.Context) SessionView {
	if !s.creds.Present() {
		s.mu.Lock()
		s.view = SessionView{}
		v := s.view
		s.mu.Unlock()
		return v
	}

	s.mu.Lock()
	s.view.Loading = true
	s.view.Authenticated = true
	s.view.Err = nil
	gen := s.gen
	s.mu.Unlock()

	// De-duplicated by request identity: a second Refresh while one is
	// resolving joins it instead of issuing another request.
	res, err, _ := s.group.Do("identity-check", func() (any, error) {
		return s.client.Me(ctx)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		// The credential changed under us (rejection or re-login). That
		// writer's state is authoritative; drop this result.
		return s.view
	}

	s.view.Loading = false

	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			// The sole automatic logout trigger besides explicit action.
			s.revokeLocked()
			return s.view
		}
		// A transient failure is not a rejection: keep the credential and
		// whatever profile we had, surface the error.
		s.view.Err = err
		s.view.Authenticated = s.creds.Present()
		return s.view
	}

	user := res.(models.UserProfile)
	s.view = SessionView{User: &user, Authenticated: true}
	return s.view
}

func (s *sessionService) Login(ctx context.Context, email string, password []byte) error {
	token, user, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.creds.Set(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.gen++
	s.view = SessionView{User: &user, Authenticated: true}
	s.mu.Unlock()
	return nil
}

func (s *sessionService) Signup(ctx context.Context, name, email string, password []byte) error {
	token, user, err := s.client.Signup(ctx, name, email, password)
	if err != nil {
		return err
	}
	if err := s.creds.Set(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	s.gen++
	s.view = SessionView{User: &user, Authenticated: true}
	s.mu.Unlock()
	return nil
}

// Logout clears the credential and resets the view to the unauthenticated
// default. Safe to call when already logged out.
func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.creds.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.gen++
	s.view = SessionView{}
	s.mu.Unlock()
	return nil
}

// HandleUnauthorized reacts to an authentication rejection from any
// endpoint. Registered once with the API transport at process start.
func (s *sessionService) HandleUnauthorized() {
	_ = s.creds.Clear(context.Background())

	s.mu.Lock()
	s.revokeLocked()
	cb := s.onRevoked
	s.mu.Unlock()

	if cb != nil {
		cb()
	}
}

func (s *sessionService) revokeLocked() {
	_ = s.creds.Clear(context.Background())
	s.gen++
	s.view = SessionView{}
}
