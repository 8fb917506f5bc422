package apiimpl

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/orgball2608/community-feed-bot/internal/api"
	"github.com/orgball2608/community-feed-bot/pkg/config"
	"github.com/orgball2608/community-feed-bot/pkg/logger"
	"go.uber.org/fx"
)

const (
	mePath     = "/api/auth/me"
	logInPath  = "/api/auth/log-in"
	signUpPath = "/api/auth/sign-up"
	logOutPath = "/api/auth/log-out"
	postPath   = "/api/auth/post"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type APIImpl struct {
	baseURL    string
	httpClient *http.Client
	Logger     logger.Logger
}

func New(opts Opts) (*APIImpl, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &APIImpl{
		baseURL: strings.TrimRight(opts.Config.API.BaseURL, "/"),
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: opts.Config.API.Timeout,
		},
		Logger: opts.Logger.WithComponent("API"),
	}, nil
}

var _ api.Client = (*APIImpl)(nil)
