package chromedp_browser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"github.com/user/resale-arbitrage/internal/repository"
)

// Options configures every session a pool launches.
type Options struct {
	ProfileBasePath string
	Headless        bool
	UserAgent       string
	PageLoadTimeout time.Duration
	ActionTimeout   time.Duration
}

// Session is one Chrome process with its own profile directory, driving a
// single tab. It implements repository.Browser.
type Session struct {
	ctx         context.Context
	cancelTab   context.CancelFunc
	cancelAlloc context.CancelFunc
	profileDir  string
	opts        Options
}

var _ repository.Browser = (*Session)(nil)

// NewSession starts a browser with a fresh profile directory under
// opts.ProfileBasePath.
func NewSession(opts Options) (*Session, error) {
	dir := profileDir(opts.ProfileBasePath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create profile dir: %w", err)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.UserDataDir(dir),
		chromedp.UserAgent(opts.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:         tabCtx,
		cancelTab:   cancelTab,
		cancelAlloc: cancelAlloc,
		profileDir:  dir,
		opts:        opts,
	}

	// The first Run launches the browser and ties the process to the context
	// it is given, so it must run on the long-lived tab context without a
	// deadline.
	err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "en-GB,en;q=0.9"}),
	)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("start browser: %w", classify(err)), s.Close())
	}
	return s, nil
}

func profileDir(base string) string {
	return fmt.Sprintf("%s-%s", base, uuid.NewString()[:8])
}

// ProfileDir returns the session's storage directory.
func (s *Session) ProfileDir() string {
	return s.profileDir
}

// Close quits the browser and removes its profile directory.
func (s *Session) Close() error {
	var errs []error
	if err := chromedp.Cancel(s.ctx); err != nil && !errors.Is(err, context.Canceled) {
		errs = append(errs, fmt.Errorf("quit browser: %w", err))
	}
	s.cancelTab()
	s.cancelAlloc()
	if err := os.RemoveAll(s.profileDir); err != nil {
		errs = append(errs, fmt.Errorf("remove profile dir %s: %w", s.profileDir, err))
	}
	return errors.Join(errs...)
}

// run executes actions on the tab, bounded by timeout and by the caller's ctx.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	opCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(opCtx, actions...)
	if err != nil && s.ctx.Err() != nil {
		return fmt.Errorf("%w: tab closed: %v", repository.ErrTransport, err)
	}
	return classify(err)
}

// classify maps chromedp failures onto the repository error kinds.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", repository.ErrTimeout, err)
	case errors.Is(err, chromedp.ErrChannelClosed),
		errors.Is(err, chromedp.ErrInvalidContext),
		errors.Is(err, chromedp.ErrInvalidTarget),
		errors.Is(err, io.EOF),
		errors.Is(err, net.ErrClosed):
		return fmt.Errorf("%w: %v", repository.ErrTransport, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) || strings.Contains(err.Error(), "websocket") {
		return fmt.Errorf("%w: %v", repository.ErrTransport, err)
	}
	return err
}

// by picks XPath search for expressions starting with '/' or '(' and a CSS
// query otherwise.
func by(selector string) chromedp.QueryOption {
	if strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(") {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func (s *Session) Fetch(ctx context.Context, url string) error {
	return s.run(ctx, s.opts.PageLoadTimeout, chromedp.Navigate(url))
}

func (s *Session) Reload(ctx context.Context) error {
	return s.run(ctx, s.opts.PageLoadTimeout, chromedp.Reload())
}

func (s *Session) FindElement(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	err := s.run(ctx, timeout, chromedp.WaitReady(selector, by(selector)))
	if errors.Is(err, repository.ErrTimeout) && ctx.Err() == nil {
		return false, nil
	}
	return err == nil, err
}

func (s *Session) Click(ctx context.Context, selector string) error {
	return s.run(ctx, s.opts.ActionTimeout, chromedp.Click(selector, by(selector)))
}

func (s *Session) ReadText(ctx context.Context, selector string) (string, error) {
	var text string
	if err := s.run(ctx, s.opts.ActionTimeout, chromedp.Text(selector, &text, by(selector))); err != nil {
		if errors.Is(err, repository.ErrTimeout) {
			return "", fmt.Errorf("%w: %s", repository.ErrElementNotFound, selector)
		}
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *Session) ReadAttribute(ctx context.Context, selector, name string) (string, error) {
	var (
		value string
		ok    bool
	)
	err := s.run(ctx, s.opts.ActionTimeout, chromedp.AttributeValue(selector, name, &value, &ok, by(selector)))
	if err != nil {
		if errors.Is(err, repository.ErrTimeout) {
			return "", fmt.Errorf("%w: %s", repository.ErrElementNotFound, selector)
		}
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s has no %s attribute", repository.ErrElementNotFound, selector, name)
	}
	return value, nil
}

func (s *Session) ScrollToBottom(ctx context.Context) error {
	return s.run(ctx, s.opts.ActionTimeout, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil))
}

func (s *Session) ScrollHeight(ctx context.Context) (int64, error) {
	var h int64
	err := s.run(ctx, s.opts.ActionTimeout, chromedp.Evaluate(`document.body.scrollHeight`, &h))
	return h, err
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	var u string
	err := s.run(ctx, s.opts.ActionTimeout, chromedp.Location(&u))
	return u, err
}

func (s *Session) PageSource(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, s.opts.ActionTimeout, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (s *Session) PageText(ctx context.Context) (string, error) {
	var text string
	err := s.run(ctx, s.opts.ActionTimeout, chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text))
	return text, err
}
