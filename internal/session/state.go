package session

import "github.com/orgball2608/community-feed-bot/internal/domain"

type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a consistent copy of the session for readers.
type Snapshot struct {
	State    State
	Identity *domain.Identity
	Profile  *domain.Profile
}

// Initialized reports whether the startup probe has finished.
func (s Snapshot) Initialized() bool {
	return s.State == StateAnonymous || s.State == StateAuthenticated
}

func (s Snapshot) LoggedIn() bool {
	return s.Identity != nil
}
