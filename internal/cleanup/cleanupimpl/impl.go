package cleanupimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/community-feed-bot/internal/cleanup"
	"github.com/orgball2608/community-feed-bot/internal/repositories/post"
	"github.com/orgball2608/community-feed-bot/internal/storage"
	"github.com/orgball2608/community-feed-bot/pkg/config"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Storage storage.Client
	Posts   post.Repository
	Config  *config.Config
	Logger  logger.Logger
}

type CleanupImpl struct {
	Storage storage.Client
	Posts   post.Repository
	Config  *config.Config
	Logger  logger.Logger

	now func() time.Time
}

func New(opts Opts) *CleanupImpl {
	return &CleanupImpl{
		Storage: opts.Storage,
		Posts:   opts.Posts,
		Config:  opts.Config,
		Logger:  opts.Logger.WithComponent("Cleanup"),
		now:     time.Now,
	}
}

var _ cleanup.Client = (*CleanupImpl)(nil)

func (c *CleanupImpl) Sweep(ctx context.Context) (int, error) {
	objects, err := c.Storage.List(ctx, storage.Prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list objects: %w", err)
	}

	urls, err := c.Posts.ListImageURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list referenced images: %w", err)
	}

	referenced := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		referenced[u] = struct{}{}
	}

	cutoff := c.now().Add(-c.Config.Cleanup.Grace)
	removed := 0
	var errs []error
	for _, obj := range objects {
		// uploads this recent may still be waiting for their post
		if obj.LastModified.After(cutoff) {
			continue
		}
		if _, ok := referenced[c.Storage.PublicURL(obj.Key)]; ok {
			continue
		}

		if err := c.Storage.Remove(ctx, obj.Key); err != nil {
			c.Logger.Error("Failed to remove orphan image", "key", obj.Key, "error", err)
			errs = append(errs, err)
			continue
		}
		c.Logger.Debug("Orphan image removed", "key", obj.Key)
		removed++
	}

	return removed, errors.Join(errs...)
}

func (c *CleanupImpl) Schedule(ctx context.Context) error {
	if !c.Config.Cleanup.Enabled {
		c.Logger.Info("Orphan image cleanup disabled")
		return nil
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.Local))
	if err != nil {
		return fmt.Errorf("failed to create cleanup scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(
			1,
			gocron.NewAtTimes(gocron.NewAtTime(c.Config.Cleanup.Hour, 0, 0)),
		),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}

			c.Logger.Info("Starting orphan image cleanup")

			sweepCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
			defer cancel()

			removed, err := c.Sweep(sweepCtx)
			if err != nil {
				c.Logger.Error("Orphan image cleanup finished with errors", "removed", removed, "error", err)
				return
			}

			c.Logger.Info("Orphan image cleanup completed", "removed", removed)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule orphan image cleanup: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		c.Logger.Info("Stopping cleanup scheduler")
		if err := scheduler.Shutdown(); err != nil {
			c.Logger.Error("Failed to shut down cleanup scheduler", "error", err)
		}
	}()

	return nil
}
