package platformimpl

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"
	"github.com/panoramablock/zico-x-bot/internal/platform"
	"github.com/panoramablock/zico-x-bot/internal/ratelimit"
	"github.com/panoramablock/zico-x-bot/pkg/config"
	apperrors "github.com/panoramablock/zico-x-bot/pkg/errors"
	"github.com/panoramablock/zico-x-bot/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
}

type Impl struct {
	client  *twitter.Client
	limiter ratelimit.Limiter
	logger  logger.Logger
	config  *config.Config

	mu      sync.Mutex
	session *platform.Session
}

func New(opts Opts) *Impl {
	oauthConfig := oauth1.NewConfig(opts.Config.Platform.ConsumerKey, opts.Config.Platform.ConsumerSecret)
	token := oauth1.NewToken(opts.Config.Platform.AccessToken, opts.Config.Platform.AccessSecret)
	httpClient := oauthConfig.Client(oauth1.NoContext, token)

	return &Impl{
		client:  twitter.NewClient(httpClient),
		limiter: ratelimit.New(1, time.Second, 3),
		logger:  opts.Logger.WithComponent("PlatformClient"),
		config:  opts.Config,
	}
}

var _ platform.Client = (*Impl)(nil)

// Authenticate verifies the configured credentials against the platform
// and opens a fresh session.
func (i *Impl) Authenticate(ctx context.Context) error {
	if err := i.limiter.Wait(ctx); err != nil {
		return err
	}

	user, _, err := i.client.Accounts.VerifyCredentials(&twitter.AccountVerifyParams{
		SkipStatus:   twitter.Bool(true),
		IncludeEmail: twitter.Bool(false),
	})
	if err != nil {
		return fmt.Errorf("%w: verify credentials: %v", apperrors.ErrAuth, err)
	}

	i.mu.Lock()
	i.session = &platform.Session{
		UserID:     user.IDStr,
		ScreenName: user.ScreenName,
		VerifiedAt: time.Now(),
	}
	i.mu.Unlock()

	i.logger.Info("Authenticated with platform", "screen_name", user.ScreenName)
	return nil
}

// LoadSession restores a cached session. Missing, corrupt or expired
// caches report ErrSessionNotFound.
func (i *Impl) LoadSession(path string) error {
	s, err := platform.OpenSession(path)
	if err != nil {
		return err
	}
	if !s.IsValid(i.config.Platform.SessionTTL) {
		return fmt.Errorf("%w: session expired", apperrors.ErrSessionNotFound)
	}

	i.mu.Lock()
	i.session = s
	i.mu.Unlock()

	i.logger.Debug("Loaded cached session", "screen_name", s.ScreenName)
	return nil
}

// SaveSession persists the current session to the cache file.
func (i *Impl) SaveSession(path string) error {
	i.mu.Lock()
	s := i.session
	i.mu.Unlock()

	if s == nil {
		return apperrors.New("no session to save")
	}
	return s.Save(path)
}
