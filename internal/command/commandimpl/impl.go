package commandimpl

import (
	"context"

	"github.com/orgball2608/community-feed-bot/internal/command"
	"github.com/orgball2608/community-feed-bot/internal/domain"
	"github.com/orgball2608/community-feed-bot/internal/ratelimit"
	"github.com/orgball2608/community-feed-bot/internal/session"
	"github.com/orgball2608/community-feed-bot/internal/telegram"
	"github.com/orgball2608/community-feed-bot/pkg/config"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
	"go.uber.org/fx"
)

type Session interface {
	LogIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	LogOut(ctx context.Context) error
	Snapshot() session.Snapshot
}

type Composer interface {
	Open()
	Close()
	IsOpen() bool
	SetText(text string) bool
	SelectImage(img domain.Image) (string, bool)
	Draft() domain.Draft
	Submit(ctx context.Context) (domain.Post, error)
}

type Feed interface {
	Load(ctx context.Context) error
	Items() []domain.Post
}

type Opts struct {
	fx.In

	Telegram telegram.Client
	Session  Session
	Composer Composer
	Feed     Feed
	Limiter  ratelimit.Limiter
	Logger   logger.Logger
	Config   *config.Config
}

type CommandImpl struct {
	Telegram telegram.Client
	Session  Session
	Composer Composer
	Feed     Feed
	Limiter  ratelimit.Limiter
	Logger   logger.Logger
	Config   *config.Config
}

func New(opts Opts) *CommandImpl {
	return &CommandImpl{
		Telegram: opts.Telegram,
		Session:  opts.Session,
		Composer: opts.Composer,
		Feed:     opts.Feed,
		Limiter:  opts.Limiter,
		Logger:   opts.Logger.WithComponent("Command"),
		Config:   opts.Config,
	}
}

var _ command.Client = (*CommandImpl)(nil)
