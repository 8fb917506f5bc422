// Package composer implements the post composing dialog: a draft that is
// reset on every open/close, validated on submit, and handed to the feed once
// the backend has stored it.
package composer

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/orgball2608/community-feed-bot/internal/api"
	"github.com/orgball2608/community-feed-bot/internal/domain"
	"github.com/orgball2608/community-feed-bot/internal/notify"
	"github.com/orgball2608/community-feed-bot/internal/storage"
	"github.com/orgball2608/community-feed-bot/pkg/config"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
	"go.uber.org/fx"
)

// DefaultMaxImageBytes is 700 KiB; the bound is inclusive.
const DefaultMaxImageBytes int64 = 700 * 1024

// allowedImageTypes is matched exactly against the declared type.
var allowedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// Session is the read-only view of the current identity.
type Session interface {
	Identity() (domain.Identity, bool)
	Profile() (domain.Profile, bool)
}

// Feed receives posts once they are stored.
type Feed interface {
	Prepend(p domain.Post)
}

type Opts struct {
	fx.In

	Session  Session
	API      api.Client
	Storage  storage.Client
	Feed     Feed
	Notifier notify.Notifier
	Logger   logger.Logger
	Config   *config.Config `optional:"true"`
}

type Composer struct {
	session  Session
	api      api.Client
	storage  storage.Client
	feed     Feed
	notifier notify.Notifier
	logger   logger.Logger
	maxImage int64

	mu    sync.Mutex
	open  bool
	draft domain.Draft
	// generation changes on every open/close so a slow submit cannot close
	// or reset a dialog that was reopened meanwhile.
	generation uint64

	submitting atomic.Bool
}

func New(opts Opts) *Composer {
	maxImage := DefaultMaxImageBytes
	if opts.Config != nil && opts.Config.MaxImageBytes() > 0 {
		maxImage = opts.Config.MaxImageBytes()
	}

	return &Composer{
		session:  opts.Session,
		api:      opts.API,
		storage:  opts.Storage,
		feed:     opts.Feed,
		notifier: opts.Notifier,
		logger:   opts.Logger.WithComponent("Composer"),
		maxImage: maxImage,
	}
}

// Open shows the dialog with an empty draft.
func (c *Composer) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
	c.open = true
}

// Close hides the dialog and discards the draft.
func (c *Composer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
	c.open = false
}

func (c *Composer) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.open
}

// SetText replaces the draft text. Ignored while the dialog is closed.
func (c *Composer) SetText(text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return false
	}
	c.draft.Content = text
	return true
}

// SelectImage attaches img and returns its preview reference. Size and type
// are checked on submit, not here.
func (c *Composer) SelectImage(img domain.Image) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.open {
		return "", false
	}
	c.draft.Image = &img
	c.draft.Preview = "preview:" + uuid.NewString()
	return c.draft.Preview, true
}

// Draft returns a copy of the current draft.
func (c *Composer) Draft() domain.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()

	d := c.draft
	if d.Image != nil {
		img := *d.Image
		d.Image = &img
	}
	return d
}

// CanSubmit mirrors the enabled state of the submit control.
func (c *Composer) CanSubmit() bool {
	c.mu.Lock()
	open, content := c.open, c.draft.Content
	c.mu.Unlock()

	_, loggedIn := c.session.Identity()
	return open && loggedIn && content != "" && !c.submitting.Load()
}

func (c *Composer) resetLocked() {
	c.draft = domain.Draft{}
	c.generation++
}

func (c *Composer) snapshot() (domain.Draft, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.draft, c.generation, c.open
}

// finish closes the dialog if it is still the one the submit started from.
func (c *Composer) finish(generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != generation || !c.open {
		return false
	}
	c.resetLocked()
	c.open = false
	return true
}
