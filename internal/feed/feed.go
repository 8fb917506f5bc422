// Package feed owns the in-memory list of posts shown to the user.
//
// The list is ordered newest first. After the initial load it only grows at
// the head; it is never re-sorted.
package feed

import (
	"context"
	"slices"
	"sync"

	"github.com/orgball2608/community-feed-bot/internal/domain"
	"github.com/orgball2608/community-feed-bot/internal/repositories/post"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Posts  post.Repository
	Logger logger.Logger
}

type Feed struct {
	posts  post.Repository
	logger logger.Logger

	mu    sync.RWMutex
	items []domain.Post
	// prepends counts Prepend calls so Load can keep posts added while it ran.
	prepends int
}

func New(opts Opts) *Feed {
	return &Feed{
		posts:  opts.Posts,
		logger: opts.Logger.WithComponent("Feed"),
	}
}

// Load replaces the list with the store's order. On error the current list is kept.
func (f *Feed) Load(ctx context.Context) error {
	f.mu.RLock()
	before := f.prepends
	f.mu.RUnlock()

	loaded, err := f.posts.ListLatest(ctx)
	if err != nil {
		f.logger.Error("Error fetching posts", "error", err)
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fresh := f.prepends - before
	if fresh > len(f.items) {
		fresh = len(f.items)
	}
	head := make([]domain.Post, 0, fresh)
	for _, p := range f.items[:fresh] {
		if !containsID(loaded, p.ID) {
			head = append(head, p)
		}
	}

	f.items = append(head, loaded...)
	f.logger.Info("Fetched posts", "count", len(loaded), "kept", len(head))
	return nil
}

// Prepend makes p the newest entry. A post already in the list is ignored.
func (f *Feed) Prepend(p domain.Post) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if containsID(f.items, p.ID) {
		f.logger.Warn("Post already in feed", "post_id", p.ID)
		return
	}

	f.items = slices.Insert(f.items, 0, p)
	f.prepends++
}

// Items returns a copy of the list, newest first.
func (f *Feed) Items() []domain.Post {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return slices.Clone(f.items)
}

func (f *Feed) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.items)
}

func containsID(posts []domain.Post, id int64) bool {
	return slices.ContainsFunc(posts, func(p domain.Post) bool { return p.ID == id })
}
