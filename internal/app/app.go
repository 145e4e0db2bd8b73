package app

import (
	"context"
	"fmt"

	"github.com/krispamB/marquillapp/internal/api"
	"github.com/krispamB/marquillapp/internal/config"
	"github.com/krispamB/marquillapp/internal/imagecache"
	"github.com/krispamB/marquillapp/internal/prefs"
	"github.com/krispamB/marquillapp/internal/session"
	"github.com/krispamB/marquillapp/internal/state"
	"github.com/krispamB/marquillapp/internal/ui"
	"github.com/krispamB/marquillapp/internal/unsplash"
)

// Options configure the marquill application.
type Options struct {
	ConfigPath  string
	PrefsPath   string // empty uses default ~/.config/marquill/prefs.toml
	SessionPath string // empty uses default ~/.config/marquill/session.toml
}

// Run boots the marquill TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	sess, err := session.Load(opts.SessionPath)
	if err != nil {
		return err
	}

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := api.NewClient(cfg.APIBase, sess.AccessToken)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}

	cacheStore, err := imagecache.NewStore()
	if err != nil {
		return fmt.Errorf("open image cache: %w", err)
	}

	store := &state.Store{}

	accountID := userPrefs.AccountID
	if _, ok := sess.AccountByID(accountID); !ok || accountID == "" {
		accountID = sess.PrimaryAccountID()
	}

	refresher := NewRefresher(store, client, accountID, cfg.RefreshInterval)
	refresher.Start(ctx)

	// Populate the store before the UI draws its first frame.
	refresher.Refresh(ctx)

	uiOpts := ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Session:   sess,
		Refresher: refresher,
		Resolver:  imagecache.NewResolver(cacheStore, client),
		Unsplash:  unsplash.NewClient(cfg.UnsplashAccessKey),
		ThemeName: userPrefs.Theme,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	}
	return ui.Run(uiOpts)
}
