package app

import (
	"context"
	"log"
	"time"

	"StoreWatch/internal/adapter"
	"StoreWatch/internal/assets"
	"StoreWatch/internal/fetch"
	"StoreWatch/internal/history"
	"StoreWatch/internal/notify"
	"StoreWatch/internal/store"
	"StoreWatch/internal/watcher"
	"StoreWatch/pkg/config"
)

// App is the main application structure holding all dependencies.
type App struct {
	Config  *config.Config
	Store   *store.FileStore
	Assets  *assets.Cache
	History *history.Repository

	browser *fetch.BrowserFetcher
}

// New creates a new application instance with all initial settings. When
// the product store is found empty, the asset directory is cleared as a
// one-time bootstrap hygiene action so stale images from a previous life
// cannot collide with freshly assigned ids.
func New() *App {
	cfg := config.LoadConfig("config.yml")
	productStore := store.NewFileStore(cfg.Watcher.StorePath)

	timeout := time.Duration(cfg.Watcher.TimeoutSecs) * time.Second
	assetCache, err := assets.NewCache(cfg.Watcher.AssetDir, timeout)
	if err != nil {
		log.Fatalf("Failed to initialize asset cache: %v", err)
	}

	known, err := productStore.Load()
	if err != nil {
		log.Fatalf("Failed to load product store: %v", err)
	}
	if len(known) == 0 {
		log.Println("Empty product store: clearing asset directory (bootstrap hygiene)")
		if err := assetCache.ClearAll(); err != nil {
			log.Fatalf("Failed to clear asset directory: %v", err)
		}
	} else {
		log.Printf("Loaded %d known products from %s", len(known), cfg.Watcher.StorePath)
	}

	return &App{
		Config:  cfg,
		Store:   productStore,
		Assets:  assetCache,
		History: history.InitDB(cfg.Watcher.HistoryPath),
	}
}

// Close releases the history database and, when one was launched, the
// headless browser.
func (a *App) Close() {
	if a.browser != nil {
		a.browser.Close()
	}
	a.History.Close()
}

func (a *App) newWatcher() *watcher.Watcher {
	timeout := time.Duration(a.Config.Watcher.TimeoutSecs) * time.Second

	var fetcher watcher.Fetcher
	if a.Config.Watcher.UseBrowser {
		browser, err := fetch.NewBrowserFetcher(a.Config.Watcher.Headless, timeout)
		if err != nil {
			log.Fatalf("Failed to launch browser: %v", err)
		}
		a.browser = browser
		fetcher = browser
	} else {
		fetcher = fetch.NewHTTPFetcher(timeout)
	}

	pageAdapter := adapter.NewStorefront(a.Config.Adapter)

	return &watcher.Watcher{
		ListingURL:     a.Config.Watcher.ListingURL,
		Fetcher:        fetcher,
		Adapter:        pageAdapter,
		Resolver:       a.Assets,
		Store:          a.Store,
		Notifier:       notify.NewTelegram(a.Config.Telegram),
		Ledger:         a.History,
		ResolvePageURL: pageAdapter.ResolvePageURL,
	}
}

// RunWatcher runs the scheduled watch loop until ctx is cancelled: one
// immediate cycle at start, then one per interval tick.
func (a *App) RunWatcher(ctx context.Context) {
	log.Println("--- Starting Watch Task ---")
	w := a.newWatcher()
	interval := time.Duration(a.Config.Watcher.IntervalSecs) * time.Second
	w.Run(ctx, interval)
	log.Println("--- Watch Task Finished ---")
}

// RunOnce executes a single cycle and returns its error, for cron-style
// invocation and smoke testing.
func (a *App) RunOnce(ctx context.Context) error {
	log.Println("--- Starting Single Cycle Task ---")
	w := a.newWatcher()
	stats, err := w.RunCycle(ctx)
	if err != nil {
		return err
	}
	log.Printf("--- Single Cycle Finished: seen=%d new=%d notified=%d ---", stats.Seen, stats.New, stats.Notified)
	return nil
}
