package repository

import (
	"context"
	"time"
)

// Browser is one isolated browsing session. Selectors may be CSS selectors or
// XPath expressions. A Browser is never used by two goroutines at once.
type Browser interface {
	// Fetch navigates to url and waits for the document to load.
	Fetch(ctx context.Context, url string) error
	// Reload forces a reload of the current page.
	Reload(ctx context.Context) error
	// FindElement waits up to timeout for selector to be present. A timeout
	// is reported as (false, nil), never as an error.
	FindElement(ctx context.Context, selector string, timeout time.Duration) (bool, error)
	// Click clicks the first node matching selector.
	Click(ctx context.Context, selector string) error
	// ReadText returns the visible text of the first node matching selector.
	ReadText(ctx context.Context, selector string) (string, error)
	// ReadAttribute returns an attribute of the first node matching selector.
	ReadAttribute(ctx context.Context, selector, name string) (string, error)
	// ScrollToBottom scrolls the window to the end of the document.
	ScrollToBottom(ctx context.Context) error
	// ScrollHeight returns the current document height in pixels.
	ScrollHeight(ctx context.Context) (int64, error)
	// CurrentURL returns the location of the current page.
	CurrentURL(ctx context.Context) (string, error)
	// PageSource returns the serialized DOM of the current page.
	PageSource(ctx context.Context) (string, error)
	// PageText returns the rendered text of the document body.
	PageText(ctx context.Context) (string, error)
}

// SessionPool hands out exclusive browsing sessions to workers. Sessions are
// created lazily and live until Close, which tears every one of them down.
type SessionPool interface {
	// Acquire checks out a session, creating one if none is idle.
	Acquire(ctx context.Context) (Browser, error)
	// Release returns a session. A session released as unhealthy is discarded
	// and replaced on a later Acquire.
	Release(b Browser, healthy bool)
	// Close quits every session and removes its storage directory.
	Close() error
}

// SessionPoolFactory creates a fresh pool bounded to size sessions.
type SessionPoolFactory func(size int) SessionPool
