package fx

import (
	"github.com/orgball2608/community-feed-bot/internal/repositories/post"
	"github.com/orgball2608/community-feed-bot/internal/repositories/profile"
	"go.uber.org/fx"
)

var Module = fx.Options(
	profile.Module,
	post.Module,
)
