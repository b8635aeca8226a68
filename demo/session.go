package demo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/statetree/container"
	"github.com/tailored-agentic-units/statetree/fsm"
	"github.com/tailored-agentic-units/statetree/optic"
	"github.com/tailored-agentic-units/statetree/record"
)

const (
	SignedOut fsm.Name = "signed_out"
	SigningIn fsm.Name = "signing_in"
	SignedIn  fsm.Name = "signed_in"
)

// AuthKey is the IO entry holding the session's Authenticator.
const AuthKey = "auth"

var ErrNoAuthenticator = errors.New("no authenticator in session IO")

type SessionState struct {
	Connecting bool          `json:"connecting"`
	Profile    record.Record `json:"profile"`
	Error      string        `json:"error,omitempty"`
}

// Authenticator resolves a user name to a profile.
type Authenticator interface {
	Authenticate(ctx context.Context, user string) (record.Record, error)
}

var hasUser fsm.Predicate[SessionState] = func(s SessionState) bool {
	return record.Has("user")(s.Profile)
}

var sessionDef = fsm.Definition[SessionState]{
	States: map[fsm.Name]fsm.State[SessionState]{
		SignedOut: {
			Is: fsm.Not(hasUser),
			Set: func(_ SessionState, args ...any) SessionState {
				var next SessionState
				if len(args) > 0 {
					if err, ok := args[0].(error); ok && err != nil {
						next.Error = err.Error()
					}
				}
				return next
			},
		},
		SigningIn: {
			Is: func(s SessionState) bool { return s.Connecting },
			Set: func(s SessionState, _ ...any) SessionState {
				return SessionState{Connecting: true, Profile: s.Profile}
			},
		},
		SignedIn: {
			Is: hasUser,
			Set: func(_ SessionState, args ...any) SessionState {
				return SessionState{Profile: args[0].(record.Record)}
			},
		},
	},
	Transitions: map[fsm.Name][]fsm.Name{
		SignedOut: {SigningIn},
		SigningIn: {SignedIn, SignedOut},
		SignedIn:  {SignedOut},
	},
	Order: []fsm.Name{SignedOut, SigningIn, SignedIn},
}

type Session struct {
	*fsm.Machine[SessionState]
}

func NewSession(initial SessionState, opts ...container.Option) *Session {
	return &Session{fsm.MustNew(container.New(initial, opts...), sessionDef)}
}

var (
	profileName = record.Field[string]("user")
	profileUser = optic.Compose(optic.MustProp[SessionState, record.Record]("Profile"), profileName)
)

// User returns the signed in user name, or "".
func (s *Session) User() string {
	return optic.View(profileUser, s.State())
}

// Login runs the whole sign-in flow against the IO authenticator. A login
// while another is in flight or after sign-in reports false.
func (s *Session) Login(ctx context.Context, user string) (bool, error) {
	ok, err := s.BeginLogin()
	if err != nil || !ok {
		return false, err
	}

	auth, err := s.Authenticator()
	if err != nil {
		return s.FinishLogin(record.Record{}, err)
	}

	profile, err := auth.Authenticate(ctx, user)
	return s.FinishLogin(profile, err)
}

// BeginLogin enters SigningIn. Callers that authenticate on another
// goroutine pair it with FinishLogin back on the owning one.
func (s *Session) BeginLogin() (bool, error) {
	return s.To(SigningIn)
}

// FinishLogin enters SignedIn with profile, or SignedOut when authErr is set
// or the profile has no user. authErr is returned unchanged.
func (s *Session) FinishLogin(profile record.Record, authErr error) (bool, error) {
	if authErr == nil && !hasUser(SessionState{Profile: profile}) {
		authErr = errors.New("authenticator returned a profile without a user")
	}

	if authErr != nil {
		if _, err := s.To(SignedOut, authErr); err != nil {
			return false, err
		}
		return false, authErr
	}
	return s.To(SignedIn, profile)
}

func (s *Session) Logout() (bool, error) {
	return s.To(SignedOut)
}

// Authenticator returns the IO authenticator.
func (s *Session) Authenticator() (Authenticator, error) {
	auth, ok := s.IO()[AuthKey].(Authenticator)
	if !ok {
		return nil, ErrNoAuthenticator
	}
	return auth, nil
}

// LocalAuth accepts any non-blank user name and issues a random token.
type LocalAuth struct {
	Delay time.Duration
}

func (a LocalAuth) Authenticate(ctx context.Context, user string) (record.Record, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return record.Record{}, errors.New("user name is required")
	}

	if a.Delay > 0 {
		select {
		case <-ctx.Done():
			return record.Record{}, ctx.Err()
		case <-time.After(a.Delay):
		}
	}

	token, err := uuid.NewRandom()
	if err != nil {
		return record.Record{}, fmt.Errorf("issue token: %w", err)
	}

	return record.New(map[string]any{
		"user":      user,
		"signed_in": time.Now().UTC().Format(time.RFC3339),
	}).SetSecret("token", token.String()), nil
}
