// Package controller requests rankings and writes the rendered result into a
// page container.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/actuallystonmai/ranking-service/internal/domain"
	"github.com/actuallystonmai/ranking-service/internal/logger"
	"github.com/actuallystonmai/ranking-service/internal/render"
	"go.uber.org/zap"
)

// ErrSuperseded is returned when DropStale is set and a newer request was
// issued before this one resolved.
var ErrSuperseded = errors.New("ranking request superseded")

type Fetcher interface {
	Fetch(ctx context.Context, tag string) ([]domain.Entry, error)
}

// Target receives the rendered fragment. Each call replaces the previous
// contents entirely.
type Target interface {
	SetHTML(html string)
}

// Toggle is the navigation menu's open/closed checkbox.
type Toggle interface {
	SetChecked(checked bool)
}

type Options struct {
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout time.Duration
	// ShowErrors renders a failure notice instead of leaving the container
	// untouched when a request fails.
	ShowErrors bool
	// DropStale discards responses of requests superseded by a newer one.
	// Without it the last response to arrive wins.
	DropStale bool
}

type Controller struct {
	fetcher  Fetcher
	renderer *render.Renderer
	target   Target
	menu     Toggle
	opts     Options
	log      *zap.Logger

	mu  sync.Mutex // guards target writes and gen
	gen uint64
	wg  sync.WaitGroup
}

func New(fetcher Fetcher, renderer *render.Renderer, target Target, menu Toggle, opts Options, log *zap.Logger) *Controller {
	if renderer == nil {
		renderer = render.New()
	}
	return &Controller{
		fetcher:  fetcher,
		renderer: renderer,
		target:   target,
		menu:     menu,
		opts:     opts,
		log:      logger.OrNop(log),
	}
}

// Start requests the overall ranking. It is called once when the page is
// ready.
func (c *Controller) Start() <-chan error {
	return c.Request(domain.OverallTag)
}

// TagClicked closes the menu, then requests the ranking named by the clicked
// link's text.
func (c *Controller) TagClicked(text string) <-chan error {
	if c.menu != nil {
		c.menu.SetChecked(false)
	}
	return c.Request(text)
}

// Request fetches and renders the ranking for tag in the background. The
// returned channel receives the outcome exactly once.
func (c *Controller) Request(tag string) <-chan error {
	gen := c.next()
	done := make(chan error, 1)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		done <- c.load(context.Background(), tag, gen)
	}()
	return done
}

// Load fetches and renders the ranking for tag, blocking until done.
func (c *Controller) Load(ctx context.Context, tag string) error {
	return c.load(ctx, tag, c.next())
}

// Wait blocks until every request started with Request has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) next() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

func (c *Controller) load(ctx context.Context, tag string, gen uint64) error {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	c.log.Debug("requesting ranking", zap.String("tag", tag), zap.Uint64("generation", gen))

	entries, err := c.fetcher.Fetch(ctx, tag)
	if err != nil {
		c.log.Warn("ranking request failed", zap.String("tag", tag), zap.Error(err))
		if c.opts.ShowErrors {
			c.apply(gen, c.renderer.RenderError())
		}
		return err
	}

	if !c.apply(gen, c.renderer.Render(entries)) {
		c.log.Debug("dropping superseded ranking", zap.String("tag", tag), zap.Uint64("generation", gen))
		return ErrSuperseded
	}

	c.log.Debug("ranking rendered", zap.String("tag", tag), zap.Int("entries", len(entries)))
	return nil
}

func (c *Controller) apply(gen uint64, html string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opts.DropStale && gen != c.gen {
		return false
	}
	c.target.SetHTML(html)
	return true
}
