package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/orgball2608/community-feed-bot/internal/api"
	"github.com/orgball2608/community-feed-bot/internal/domain"
	"github.com/orgball2608/community-feed-bot/internal/notify"
	"github.com/orgball2608/community-feed-bot/internal/repositories/profile"
	apperrors "github.com/orgball2608/community-feed-bot/pkg/errors"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
	"go.uber.org/fx"
)

const (
	msgEmptyCredentials = "Please fill in both email and password."
	msgInvalidLogin     = "Wrong email or password."
	msgInvalidSignUp    = "Sign up was rejected, check your email and password."
	msgAlreadyLoggedIn  = "You are already logged in."
	msgNotLoggedIn      = "Please log in first."
	msgBusy             = "Another request is still in progress."
	msgNotInitialized   = "Still starting up, try again in a moment."
	msgUpstream         = "The server could not be reached, please try again."
)

type Opts struct {
	fx.In

	API      api.Client
	Profiles profile.Repository
	Notifier notify.Notifier
	Logger   logger.Logger
}

// Manager owns the identity of the running client. Every identity change
// bumps epoch; async results carrying an older epoch are dropped.
type Manager struct {
	api      api.Client
	profiles profile.Repository
	notifier notify.Notifier
	logger   logger.Logger

	mu       sync.RWMutex
	state    State
	identity *domain.Identity
	profile  *domain.Profile
	epoch    uint64

	initOnce sync.Once
	ready    chan struct{}
	busy     atomic.Bool

	ctx     context.Context
	cancel  context.CancelFunc
	fetches sync.WaitGroup
}

func New(opts Opts) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		api:      opts.API,
		profiles: opts.Profiles,
		notifier: opts.Notifier,
		logger:   opts.Logger.WithComponent("Session"),
		ready:    make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Initialize probes the backend for an existing session. Only the first call
// does any work; the manager is initialized afterwards whatever the outcome.
func (m *Manager) Initialize(ctx context.Context) {
	first := false
	m.initOnce.Do(func() { first = true })
	if !first {
		m.logger.Debug("Session already initialized")
		return
	}

	m.mu.Lock()
	m.state = StateInitializing
	m.mu.Unlock()

	identity, err := m.api.Me(ctx)
	switch {
	case err == nil:
		m.authenticate(identity)
		m.logger.Info("Restored existing session", "user_id", identity.ID)
	case apperrors.Is(err, api.ErrNoSession):
		m.setAnonymous()
		m.logger.Info("No existing session")
	default:
		m.setAnonymous()
		m.logger.Error("Session probe failed", "error", err)
	}

	close(m.ready)
}

// Ready is closed once Initialize has finished.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) LogIn(ctx context.Context, email, password string) error {
	return m.credentialCall(ctx, "log in", email, password, false, m.api.LogIn)
}

// SignUp behaves like LogIn but refuses to run while already authenticated.
func (m *Manager) SignUp(ctx context.Context, email, password string) error {
	return m.credentialCall(ctx, "sign up", email, password, true, m.api.SignUp)
}

type credentialFunc func(ctx context.Context, creds domain.Credentials) (domain.Identity, error)

func (m *Manager) credentialCall(ctx context.Context, op, email, password string, signUp bool, call credentialFunc) error {
	if email == "" || password == "" {
		m.notifier.Alert(msgEmptyCredentials)
		return apperrors.WrapWithCode(apperrors.ErrValidation, apperrors.CodeEmptyCredentials, msgEmptyCredentials)
	}

	if err := m.acquire(); err != nil {
		return err
	}
	defer m.release()

	if signUp {
		if _, ok := m.Identity(); ok {
			m.notifier.Alert(msgAlreadyLoggedIn)
			return apperrors.Wrap(apperrors.ErrAlreadyAuthenticated, msgAlreadyLoggedIn)
		}
	}

	identity, err := call(ctx, domain.Credentials{Email: email, Password: password})
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			msg := msgInvalidLogin
			if signUp {
				msg = msgInvalidSignUp
			}
			m.logger.Info("Credentials rejected", "op", op, "email", email)
			m.notifier.Alert(msg)
			return apperrors.WrapWithCode(err, apperrors.CodeInvalidLogin, msg)
		}
		m.logger.Error("Credential request failed", "op", op, "error", err)
		m.notifier.Alert(msgUpstream)
		return apperrors.Wrap(err, msgUpstream)
	}

	m.authenticate(identity)
	m.logger.Info("Authenticated", "op", op, "user_id", identity.ID)
	return nil
}

// LogOut clears the local session even when the remote call fails.
func (m *Manager) LogOut(ctx context.Context) error {
	if err := m.acquire(); err != nil {
		return err
	}
	defer m.release()

	current, ok := m.Identity()
	if !ok {
		m.notifier.Alert(msgNotLoggedIn)
		return apperrors.Wrap(apperrors.ErrNotAuthenticated, msgNotLoggedIn)
	}

	if err := m.api.LogOut(ctx); err != nil {
		m.logger.Warn("Remote log out failed, clearing local session anyway", "user_id", current.ID, "error", err)
	}

	m.setAnonymous()
	m.logger.Info("Logged out", "user_id", current.ID)
	return nil
}

func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{State: m.state}
	if m.identity != nil {
		identity := *m.identity
		s.Identity = &identity
	}
	if m.profile != nil {
		p := *m.profile
		s.Profile = &p
	}
	return s
}

func (m *Manager) Identity() (domain.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.identity == nil {
		return domain.Identity{}, false
	}
	return *m.identity, true
}

func (m *Manager) Profile() (domain.Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.profile == nil {
		return domain.Profile{}, false
	}
	return *m.profile, true
}

// Close stops outstanding profile fetches and waits for them.
func (m *Manager) Close() {
	m.cancel()
	m.fetches.Wait()
}

func (m *Manager) acquire() error {
	select {
	case <-m.ready:
	default:
		m.notifier.Alert(msgNotInitialized)
		return apperrors.Wrap(apperrors.ErrNotInitialized, msgNotInitialized)
	}

	if !m.busy.CompareAndSwap(false, true) {
		m.notifier.Alert(msgBusy)
		return apperrors.Wrap(apperrors.ErrBusy, msgBusy)
	}
	return nil
}

func (m *Manager) release() {
	m.busy.Store(false)
}

func (m *Manager) authenticate(identity domain.Identity) {
	m.mu.Lock()
	m.identity = &identity
	m.profile = nil
	m.state = StateAuthenticated
	m.epoch++
	epoch := m.epoch
	m.mu.Unlock()

	m.fetchProfile(identity.ID, epoch)
}

func (m *Manager) setAnonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.identity = nil
	m.profile = nil
	m.state = StateAnonymous
	m.epoch++
}
