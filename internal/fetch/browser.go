package fetch

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

// BrowserFetcher renders the listing page with a headless browser before
// handing the HTML to the adapter. Needed for storefronts that build the
// product grid client-side.
type BrowserFetcher struct {
	Browser *rod.Browser
	Timeout time.Duration
}

// NewBrowserFetcher launches a browser instance that lives for the
// process lifetime; individual page loads are bounded by timeout.
func NewBrowserFetcher(headless bool, timeout time.Duration) (*BrowserFetcher, error) {
	u, err := launcher.New().Headless(headless).Launch()
	if err != nil {
		return nil, err
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, err
	}
	return &BrowserFetcher{Browser: browser, Timeout: timeout}, nil
}

// Fetch implements Fetcher.
func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	page, err := stealth.Page(f.Browser)
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	defer page.Close()

	page = page.Context(ctx).Timeout(f.Timeout)
	if err := page.Navigate(pageURL); err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	if err := page.WaitLoad(); err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}

	html, err := page.HTML()
	if err != nil {
		return "", &FetchError{URL: pageURL, Err: err}
	}
	return html, nil
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() error {
	return f.Browser.Close()
}
