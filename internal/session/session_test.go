package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/orgball2608/community-feed-bot/internal/api"
	mock_api "github.com/orgball2608/community-feed-bot/internal/api/mocks"
	"github.com/orgball2608/community-feed-bot/internal/domain"
	mock_notify "github.com/orgball2608/community-feed-bot/internal/notify/mocks"
	"github.com/orgball2608/community-feed-bot/internal/repositories/profile"
	mock_profile "github.com/orgball2608/community-feed-bot/internal/repositories/profile/mocks"
	apperrors "github.com/orgball2608/community-feed-bot/pkg/errors"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
	"go.uber.org/mock/gomock"
)

var (
	ada = domain.Identity{ID: "user-a", Email: "ada@example.com"}
	bob = domain.Identity{ID: "user-b", Email: "bob@example.com"}
)

type fixture struct {
	api      *mock_api.MockClient
	profiles *mock_profile.MockRepository
	notifier *mock_notify.MockNotifier
	manager  *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		api:      mock_api.NewMockClient(ctrl),
		profiles: mock_profile.NewMockRepository(ctrl),
		notifier: mock_notify.NewMockNotifier(ctrl),
	}
	f.manager = New(Opts{
		API:      f.api,
		Profiles: f.profiles,
		Notifier: f.notifier,
		Logger:   logger.New(logger.Opts{Env: "production", Output: io.Discard}),
	})
	t.Cleanup(f.manager.Close)
	return f
}

// initAnonymous runs the startup probe with no existing session.
func (f *fixture) initAnonymous() {
	f.api.EXPECT().Me(gomock.Any()).Return(domain.Identity{}, api.ErrNoSession)
	f.manager.Initialize(context.Background())
}

func nickname(s string) domain.Profile {
	return domain.Profile{UserID: ada.ID, Nickname: &s}
}

func TestInitializeWithExistingSession(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().Me(gomock.Any()).Return(ada, nil)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), ada.ID).Return(nickname("ada"), nil)

	if got := f.manager.Snapshot().State; got != StateUninitialized {
		t.Fatalf("state before init = %v", got)
	}

	f.manager.Initialize(context.Background())
	f.manager.fetches.Wait()

	s := f.manager.Snapshot()
	if s.State != StateAuthenticated || !s.Initialized() {
		t.Fatalf("state = %v", s.State)
	}
	if s.Identity == nil || *s.Identity != ada {
		t.Fatalf("identity = %+v", s.Identity)
	}
	if s.Profile == nil || *s.Profile.Nickname != "ada" {
		t.Fatalf("profile = %+v", s.Profile)
	}
	select {
	case <-f.manager.Ready():
	default:
		t.Fatal("ready channel not closed")
	}
}

func TestInitializeWithoutSession(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()

	s := f.manager.Snapshot()
	if s.State != StateAnonymous || !s.Initialized() || s.LoggedIn() {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}

func TestInitializeProbeFailureIsAnonymous(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().Me(gomock.Any()).Return(domain.Identity{}, apperrors.ErrUpstream)

	f.manager.Initialize(context.Background())

	if s := f.manager.Snapshot(); s.State != StateAnonymous {
		t.Fatalf("state = %v", s.State)
	}
}

func TestInitializeRunsOnce(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()

	// A second probe would fail the Times(1) expectation set by initAnonymous.
	f.manager.Initialize(context.Background())
}

func TestActionsBeforeInitialize(t *testing.T) {
	f := newFixture(t)
	f.notifier.EXPECT().Alert(msgNotInitialized).Times(2)

	if err := f.manager.LogIn(context.Background(), ada.Email, "pw"); !errors.Is(err, apperrors.ErrNotInitialized) {
		t.Fatalf("LogIn err = %v", err)
	}
	if err := f.manager.LogOut(context.Background()); !errors.Is(err, apperrors.ErrNotInitialized) {
		t.Fatalf("LogOut err = %v", err)
	}
}

func TestLogInEmptyCredentialsMakesNoRequest(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()
	f.notifier.EXPECT().Alert(msgEmptyCredentials).Times(3)

	for _, c := range []domain.Credentials{{Email: "", Password: "pw"}, {Email: ada.Email}, {}} {
		err := f.manager.LogIn(context.Background(), c.Email, c.Password)
		if !apperrors.IsValidation(err) || apperrors.GetCode(err) != apperrors.CodeEmptyCredentials {
			t.Fatalf("LogIn(%q, %q) err = %v", c.Email, c.Password, err)
		}
	}
	if _, ok := f.manager.Identity(); ok {
		t.Fatal("identity must stay unset")
	}
}

func TestLogInSuccessFetchesProfile(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()
	f.api.EXPECT().LogIn(gomock.Any(), domain.Credentials{Email: ada.Email, Password: "pw"}).Return(ada, nil)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), ada.ID).Return(nickname("ada"), nil)

	if err := f.manager.LogIn(context.Background(), ada.Email, "pw"); err != nil {
		t.Fatalf("LogIn: %v", err)
	}
	f.manager.fetches.Wait()

	if id, ok := f.manager.Identity(); !ok || id != ada {
		t.Fatalf("identity = %+v", id)
	}
	if p, ok := f.manager.Profile(); !ok || *p.Nickname != "ada" {
		t.Fatalf("profile = %+v", p)
	}
	if f.manager.Snapshot().State != StateAuthenticated {
		t.Fatal("expected authenticated state")
	}
}

func TestLogInRejected(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()
	f.api.EXPECT().LogIn(gomock.Any(), gomock.Any()).Return(domain.Identity{}, api.ErrInvalidCredentials)
	f.notifier.EXPECT().Alert(msgInvalidLogin)

	err := f.manager.LogIn(context.Background(), ada.Email, "wrong")
	if !apperrors.IsUnauthorized(err) {
		t.Fatalf("err = %v", err)
	}
	if apperrors.GetMessage(err) != msgInvalidLogin {
		t.Fatalf("message = %q", apperrors.GetMessage(err))
	}
	if _, ok := f.manager.Identity(); ok {
		t.Fatal("identity must stay unset")
	}
}

func TestLogInUpstreamFailureKeepsIdentity(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()
	f.api.EXPECT().LogIn(gomock.Any(), gomock.Any()).Return(domain.Identity{}, &api.StatusError{Op: "/api/auth/log-in", StatusCode: 500})
	f.notifier.EXPECT().Alert(msgUpstream)

	err := f.manager.LogIn(context.Background(), ada.Email, "pw")
	if !apperrors.IsUpstream(err) {
		t.Fatalf("err = %v", err)
	}
	if s := f.manager.Snapshot(); s.State != StateAnonymous {
		t.Fatalf("state = %v", s.State)
	}
}

func TestLogInProfileFailureIsTolerated(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()
	f.api.EXPECT().LogIn(gomock.Any(), gomock.Any()).Return(ada, nil)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), ada.ID).Return(domain.Profile{}, profile.ErrNotFound)

	if err := f.manager.LogIn(context.Background(), ada.Email, "pw"); err != nil {
		t.Fatalf("LogIn: %v", err)
	}
	f.manager.fetches.Wait()

	if _, ok := f.manager.Profile(); ok {
		t.Fatal("profile must stay unset")
	}
	if _, ok := f.manager.Identity(); !ok {
		t.Fatal("identity must be set")
	}
}

func TestSignUpWhileAuthenticated(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().Me(gomock.Any()).Return(ada, nil)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), ada.ID).Return(nickname("ada"), nil)
	f.manager.Initialize(context.Background())
	f.notifier.EXPECT().Alert(msgAlreadyLoggedIn)

	err := f.manager.SignUp(context.Background(), bob.Email, "pw")
	if !errors.Is(err, apperrors.ErrAlreadyAuthenticated) {
		t.Fatalf("err = %v", err)
	}
	if id, _ := f.manager.Identity(); id != ada {
		t.Fatalf("identity changed to %+v", id)
	}
}

func TestSignUpSuccessAndRejection(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()
	f.notifier.EXPECT().Alert(msgEmptyCredentials)
	f.notifier.EXPECT().Alert(msgInvalidSignUp)
	gomock.InOrder(
		f.api.EXPECT().SignUp(gomock.Any(), domain.Credentials{Email: bob.Email, Password: "x"}).Return(domain.Identity{}, api.ErrInvalidCredentials),
		f.api.EXPECT().SignUp(gomock.Any(), domain.Credentials{Email: bob.Email, Password: "pw"}).Return(bob, nil),
	)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), bob.ID).Return(domain.Profile{UserID: bob.ID}, nil)

	if err := f.manager.SignUp(context.Background(), bob.Email, ""); !apperrors.IsValidation(err) {
		t.Fatalf("empty password err = %v", err)
	}
	if err := f.manager.SignUp(context.Background(), bob.Email, "x"); !apperrors.IsUnauthorized(err) {
		t.Fatalf("rejected err = %v", err)
	}
	if err := f.manager.SignUp(context.Background(), bob.Email, "pw"); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	f.manager.fetches.Wait()

	if id, _ := f.manager.Identity(); id != bob {
		t.Fatalf("identity = %+v", id)
	}
}

func TestLogOutWhenAnonymousWarns(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()
	f.notifier.EXPECT().Alert(msgNotLoggedIn)

	err := f.manager.LogOut(context.Background())
	if !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("err = %v", err)
	}
}

func TestLogOutClearsLocalStateWhenRemoteFails(t *testing.T) {
	f := newFixture(t)
	f.api.EXPECT().Me(gomock.Any()).Return(ada, nil)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), ada.ID).Return(nickname("ada"), nil)
	f.manager.Initialize(context.Background())
	f.manager.fetches.Wait()

	f.api.EXPECT().LogOut(gomock.Any()).Return(&api.StatusError{Op: "/api/auth/log-out", StatusCode: 502})

	if err := f.manager.LogOut(context.Background()); err != nil {
		t.Fatalf("LogOut: %v", err)
	}

	s := f.manager.Snapshot()
	if s.Identity != nil || s.Profile != nil || s.State != StateAnonymous {
		t.Fatalf("local session not cleared: %+v", s)
	}
}

func TestStaleProfileDiscardedAfterLogOut(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()

	release := make(chan struct{})
	started := make(chan struct{})
	f.api.EXPECT().LogIn(gomock.Any(), gomock.Any()).Return(ada, nil)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), ada.ID).DoAndReturn(func(context.Context, string) (domain.Profile, error) {
		close(started)
		<-release
		return nickname("ada"), nil
	})
	f.api.EXPECT().LogOut(gomock.Any()).Return(nil)

	if err := f.manager.LogIn(context.Background(), ada.Email, "pw"); err != nil {
		t.Fatalf("LogIn: %v", err)
	}
	<-started
	if err := f.manager.LogOut(context.Background()); err != nil {
		t.Fatalf("LogOut: %v", err)
	}
	close(release)
	f.manager.fetches.Wait()

	if _, ok := f.manager.Profile(); ok {
		t.Fatal("stale profile was applied after logout")
	}
}

func TestStaleProfileDiscardedAfterIdentitySwitch(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()

	release := make(chan struct{})
	started := make(chan struct{})
	bobName := "bob"
	gomock.InOrder(
		f.api.EXPECT().LogIn(gomock.Any(), gomock.Any()).Return(ada, nil),
		f.api.EXPECT().LogIn(gomock.Any(), gomock.Any()).Return(bob, nil),
	)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), ada.ID).DoAndReturn(func(context.Context, string) (domain.Profile, error) {
		close(started)
		<-release
		return nickname("ada"), nil
	})
	f.profiles.EXPECT().GetByUserID(gomock.Any(), bob.ID).Return(domain.Profile{UserID: bob.ID, Nickname: &bobName}, nil)

	if err := f.manager.LogIn(context.Background(), ada.Email, "pw"); err != nil {
		t.Fatalf("LogIn ada: %v", err)
	}
	<-started
	if err := f.manager.LogIn(context.Background(), bob.Email, "pw"); err != nil {
		t.Fatalf("LogIn bob: %v", err)
	}
	close(release)
	f.manager.fetches.Wait()

	p, ok := f.manager.Profile()
	if !ok || p.UserID != bob.ID || *p.Nickname != "bob" {
		t.Fatalf("profile = %+v", p)
	}
}

func TestConcurrentLogInIsRejected(t *testing.T) {
	f := newFixture(t)
	f.initAnonymous()

	release := make(chan struct{})
	inFlight := make(chan struct{})
	f.api.EXPECT().LogIn(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, domain.Credentials) (domain.Identity, error) {
		close(inFlight)
		<-release
		return ada, nil
	}).Times(1)
	f.profiles.EXPECT().GetByUserID(gomock.Any(), ada.ID).Return(nickname("ada"), nil)
	f.notifier.EXPECT().Alert(msgBusy).Times(2)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		firstErr = f.manager.LogIn(context.Background(), ada.Email, "pw")
	}()
	<-inFlight

	if err := f.manager.LogIn(context.Background(), bob.Email, "pw"); !errors.Is(err, apperrors.ErrBusy) {
		t.Fatalf("concurrent LogIn err = %v", err)
	}
	if err := f.manager.LogOut(context.Background()); !errors.Is(err, apperrors.ErrBusy) {
		t.Fatalf("concurrent LogOut err = %v", err)
	}

	close(release)
	wg.Wait()
	f.manager.fetches.Wait()

	if firstErr != nil {
		t.Fatalf("first LogIn: %v", firstErr)
	}
	if id, _ := f.manager.Identity(); id != ada {
		t.Fatalf("identity = %+v", id)
	}
}
