// Package session orchestrates login, registration and logout against
// the backend and keeps the token store and the student cache
// consistent. It is the single source of truth for "is a user logged
// in"; it never talks to the UI.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/api"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/auth"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/cache"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/models"
	"github.com/eyajribi/Gestion-projets-Scolaires-sub002/internal/stream"
)

// State of the local session.
type State string

const (
	StateLoggedOut   State = "LOGGED_OUT"
	StateLoggingIn   State = "LOGGING_IN"
	StateLoggedIn    State = "LOGGED_IN"
	StateLoginFailed State = "LOGIN_FAILED"
)

type Gateway struct {
	// mu serializes session mutations: a logout racing a login is
	// allowed, and whichever persists last wins.
	mu       sync.Mutex
	api      *api.Client
	auth     *auth.Manager
	students *cache.Students
	state    *stream.Var[State]
}

// NewGateway wires the gateway over its collaborators. The initial
// state is recovered from the persisted token.
func NewGateway(client *api.Client, manager *auth.Manager, students *cache.Students) *Gateway {
	initial := StateLoggedOut
	if manager.IsLoggedIn() {
		initial = StateLoggedIn
	}
	return &Gateway{
		api:      client,
		auth:     manager,
		students: students,
		state:    stream.NewVar(initial),
	}
}

// State returns the current session state.
func (g *Gateway) State() State {
	return g.state.Get()
}

// WatchState emits the current state immediately and on every
// transition.
func (g *Gateway) WatchState() (<-chan State, func()) {
	return g.state.Subscribe()
}

// Login authenticates against the backend. On success the token and
// the profile are persisted and the state becomes LoggedIn. On any
// failure nothing is persisted: a prior session, if any, is left
// untouched and the state becomes LoginFailed.
func (g *Gateway) Login(ctx context.Context, email, password string) (*models.Student, error) {
	g.state.Set(StateLoggingIn)

	env, err := g.api.Login(ctx, email, password)
	if err != nil {
		g.state.Set(StateLoginFailed)
		return nil, err
	}
	if env.Token == "" {
		g.state.Set(StateLoginFailed)
		return nil, &api.DecodeError{Err: errors.New("login response carried no token")}
	}

	user := env.User
	student, err := g.persistSession(env.Token, user)
	if err != nil {
		g.state.Set(StateLoginFailed)
		return nil, err
	}

	// profile missing from the login envelope: fetch it now that the
	// token is in place, best effort. A logout landing while the fetch
	// is in flight wins: the fetched profile is only persisted on
	// success, and persistSession re-publishes LoggedIn with the token
	// back in place.
	if student == nil {
		if fetched, ferr := g.api.Profile(ctx); ferr == nil && fetched != nil {
			if _, perr := g.persistSession(env.Token, fetched); perr == nil {
				student = fetched
			}
		}
	}

	return student, nil
}

// Register creates an account. When the backend issues a token right
// away the session is persisted exactly as for Login; otherwise the
// account exists but the user still has to log in (e.g. after email
// verification), and the local state is untouched.
func (g *Gateway) Register(ctx context.Context, req api.RegisterRequest) (*models.Student, error) {
	g.state.Set(StateLoggingIn)

	env, err := g.api.Register(ctx, req)
	if err != nil {
		g.state.Set(StateLoginFailed)
		return nil, err
	}

	if env.Token == "" {
		g.state.Set(StateLoggedOut)
		return env.User, nil
	}

	student, err := g.persistSession(env.Token, env.User)
	if err != nil {
		g.state.Set(StateLoginFailed)
		return nil, err
	}
	return student, nil
}

// persistSession writes the token and, when present, the user record
// to both stores and publishes LoggedIn, all under the session mutex.
// State and stores never disagree: a concurrent Logout either runs
// before (and is overwritten wholesale) or after (and wins wholesale).
func (g *Gateway) persistSession(token string, user *models.Student) (*models.Student, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.auth.SaveToken(token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}
	if user != nil {
		if err := g.auth.SaveCurrentUser(user); err != nil {
			return nil, fmt.Errorf("persist current user: %w", err)
		}
		if err := g.students.SetCurrent(*user); err != nil {
			return nil, fmt.Errorf("cache current user: %w", err)
		}
	}
	g.state.Set(StateLoggedIn)
	return user, nil
}

// Logout drops the local session unconditionally: no remote call, no
// failure path that leaves the user logged in. Cached profiles are
// kept, only the current flag is cleared. Idempotent.
func (g *Gateway) Logout() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.auth.ClearToken(); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := g.students.LogoutAll(); err != nil {
		return fmt.Errorf("clear current flag: %w", err)
	}
	g.state.Set(StateLoggedOut)
	return nil
}

// ForgotPassword is a stateless pass-through.
func (g *Gateway) ForgotPassword(ctx context.Context, email string) error {
	return g.api.ForgotPassword(ctx, email)
}

// ResetPassword resets the password remotely. On success the local
// session is dropped: the old token may have been invalidated server
// side, and keeping it would leave a credential the user just rotated
// away.
func (g *Gateway) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := g.api.ResetPassword(ctx, token, newPassword); err != nil {
		return err
	}
	return g.Logout()
}

// VerifyEmail is a stateless pass-through.
func (g *Gateway) VerifyEmail(ctx context.Context, token string) error {
	return g.api.VerifyEmail(ctx, token)
}

// RefreshProfile re-fetches the authenticated profile and mirrors it
// into both stores.
func (g *Gateway) RefreshProfile(ctx context.Context) (*models.Student, error) {
	student, err := g.api.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.auth.SaveCurrentUser(student); err != nil {
		return nil, fmt.Errorf("persist current user: %w", err)
	}
	if err := g.students.SetCurrent(*student); err != nil {
		return nil, fmt.Errorf("cache current user: %w", err)
	}
	return student, nil
}

// CurrentUser returns the locally cached profile without touching the
// network, preferring the structured cache over the prefs blob.
func (g *Gateway) CurrentUser() *models.Student {
	if student, err := g.students.Current(); err == nil && student != nil {
		return student
	}
	return g.auth.CurrentUser()
}
