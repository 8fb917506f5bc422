package cleanupimpl

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	mock_post "github.com/orgball2608/community-feed-bot/internal/repositories/post/mocks"
	"github.com/orgball2608/community-feed-bot/internal/storage"
	mock_storage "github.com/orgball2608/community-feed-bot/internal/storage/mocks"
	"github.com/orgball2608/community-feed-bot/pkg/config"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newCleanup(t *testing.T) (*CleanupImpl, *mock_storage.MockClient, *mock_post.MockRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	st := mock_storage.NewMockClient(ctrl)
	posts := mock_post.NewMockRepository(ctrl)

	cfg := &config.Config{}
	cfg.Cleanup.Grace = time.Hour

	c := New(Opts{
		Storage: st,
		Posts:   posts,
		Config:  cfg,
		Logger:  logger.New(logger.Opts{Env: "production", Output: io.Discard}),
	})
	c.now = func() time.Time { return now }

	st.EXPECT().PublicURL(gomock.Any()).DoAndReturn(func(key string) string {
		return "http://cdn/" + key
	}).AnyTimes()
	return c, st, posts
}

func TestSweepRemovesOnlyOldOrphans(t *testing.T) {
	c, st, posts := newCleanup(t)

	st.EXPECT().List(gomock.Any(), storage.Prefix).Return([]storage.Object{
		{Key: "public/used.png", LastModified: now.Add(-48 * time.Hour)},
		{Key: "public/orphan.png", LastModified: now.Add(-2 * time.Hour)},
		{Key: "public/fresh.png", LastModified: now.Add(-time.Minute)},
	}, nil)
	posts.EXPECT().ListImageURLs(gomock.Any()).Return([]string{"http://cdn/public/used.png"}, nil)
	st.EXPECT().Remove(gomock.Any(), "public/orphan.png").Return(nil)

	removed, err := c.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
}

func TestSweepContinuesPastRemoveErrors(t *testing.T) {
	c, st, posts := newCleanup(t)
	old := now.Add(-24 * time.Hour)

	st.EXPECT().List(gomock.Any(), storage.Prefix).Return([]storage.Object{
		{Key: "public/a.png", LastModified: old},
		{Key: "public/b.png", LastModified: old},
	}, nil)
	posts.EXPECT().ListImageURLs(gomock.Any()).Return(nil, nil)
	st.EXPECT().Remove(gomock.Any(), "public/a.png").Return(errors.New("denied"))
	st.EXPECT().Remove(gomock.Any(), "public/b.png").Return(nil)

	removed, err := c.Sweep(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if removed != 1 {
		t.Fatalf("removed = %d", removed)
	}
}

func TestSweepAbortsWhenReferencesUnavailable(t *testing.T) {
	c, st, posts := newCleanup(t)

	st.EXPECT().List(gomock.Any(), storage.Prefix).Return([]storage.Object{
		{Key: "public/a.png", LastModified: now.Add(-24 * time.Hour)},
	}, nil)
	posts.EXPECT().ListImageURLs(gomock.Any()).Return(nil, errors.New("db down"))

	if _, err := c.Sweep(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestScheduleDisabled(t *testing.T) {
	c, _, _ := newCleanup(t)

	if err := c.Schedule(context.Background()); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
}
