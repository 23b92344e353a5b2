// Package scraper visits web pages and reports links to sound files.
package scraper

import (
	"context"
	"net/http"
	"regexp"
	"sync"
	"time"

	colly "github.com/gocolly/colly/v2"

	"github.com/StateFromJakeFarm/research/internal/errors"
	"github.com/StateFromJakeFarm/research/internal/logger"
	"github.com/StateFromJakeFarm/research/internal/observability/metrics"
)

// Config controls what the spider visits and what it reports.
type Config struct {
	StartURLs       []string      // always visited
	AllowedDomains  []string      // hosts (and subdomains) links may be followed to
	Extensions      []string      // sound file types, e.g. "mp3"
	BaseURLSuffixes []string      // top-level suffixes used to find a page's base URL
	MaxDepth        int           // 1 visits only StartURLs
	UserAgent       string        // empty keeps the collector default
	RequestTimeout  time.Duration // 0 keeps the collector default
}

// DefaultConfig returns the stock sound-file scraper configuration.
func DefaultConfig() Config {
	return Config{
		StartURLs: []string{
			"http://soundbible.com/tags-chain.html",
			"http://www.freesfx.co.uk/sfx/saw",
			"http://www.soundsboom.com/saw",
		},
		AllowedDomains:  []string{"soundbible.com", "freesfx.co.uk"},
		Extensions:      []string{"mp3", "wav"},
		BaseURLSuffixes: []string{".com", ".org", ".gov", ".co.uk", ".edu"},
		MaxDepth:        1,
	}
}

// Found describes one sound file link.
type Found struct {
	URL       string // absolute link to the sound file
	Page      string // page the link was found on
	Extension string // configured extension that matched
}

// Spider scrapes pages for sound file links.
type Spider struct {
	cfg       Config
	pattern   *regexp.Regexp
	log       logger.Logger
	metrics   *metrics.ScraperMetrics
	transport http.RoundTripper
	onFound   func(Found)
}

// Option configures a Spider.
type Option func(*Spider)

// WithLogger sets the logger; the default is the global logger's "scraper" module.
func WithLogger(l logger.Logger) Option {
	return func(s *Spider) { s.log = l }
}

// WithMetrics records page, link and error counts.
func WithMetrics(m *metrics.ScraperMetrics) Option {
	return func(s *Spider) { s.metrics = m }
}

// WithTransport replaces the HTTP transport used for fetching.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *Spider) { s.transport = rt }
}

// WithFoundHandler registers fn to be called for every sound file link.
func WithFoundHandler(fn func(Found)) Option {
	return func(s *Spider) { s.onFound = fn }
}

// NewSpider validates cfg and compiles the extension pattern.
func NewSpider(cfg Config, opts ...Option) (*Spider, error) {
	expr, err := BuildExtensionPattern(cfg.Extensions)
	if err != nil {
		return nil, err
	}
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, errors.New(err).
			Component("scraper").
			Category(errors.CategoryConfiguration).
			Context("pattern", expr).
			Build()
	}
	if cfg.MaxDepth < 1 {
		cfg.MaxDepth = 1
	}

	s := &Spider{cfg: cfg, pattern: pattern}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Global().Module("scraper")
	}
	return s, nil
}

// Pattern returns the compiled extension pattern.
func (s *Spider) Pattern() string {
	return s.pattern.String()
}

// Run visits every start URL in order and returns the sound file links found.
// A failed fetch is logged and the run moves on to the next start URL. When ctx
// is cancelled no further start URL is visited and ctx.Err() is returned along
// with what was found so far.
func (s *Spider) Run(ctx context.Context) ([]Found, error) {
	var (
		mu    sync.Mutex
		found []Found
	)

	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.MaxDepth(s.cfg.MaxDepth),
	)
	if s.cfg.UserAgent != "" {
		c.UserAgent = s.cfg.UserAgent
	}
	if s.transport != nil {
		c.WithTransport(s.transport)
	}
	if s.cfg.RequestTimeout > 0 {
		c.SetRequestTimeout(s.cfg.RequestTimeout)
	}

	c.OnResponse(func(r *colly.Response) {
		s.log.Debug("page fetched",
			logger.String("url", r.Request.URL.String()),
			logger.Int("status", r.StatusCode),
			logger.Int("bytes", len(r.Body)))
		if s.metrics != nil {
			s.metrics.RecordPageVisit(len(r.Body))
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		s.log.Warn("failed to fetch page",
			logger.String("url", r.Request.URL.String()),
			logger.Int("status", r.StatusCode),
			logger.Error(err))
		if s.metrics != nil {
			s.metrics.RecordRequestError(r.StatusCode)
		}
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if href == "" {
			return
		}

		page := e.Request.URL.String()
		if ext, ok := s.match(href); ok {
			link := AbsoluteURL(BaseURL(page, s.cfg.BaseURLSuffixes), href)
			f := Found{URL: link, Page: page, Extension: ext}

			s.log.Info("Found sound file: "+link, logger.String("page", page))
			if s.metrics != nil {
				s.metrics.RecordLinkFound(ext)
			}
			mu.Lock()
			found = append(found, f)
			mu.Unlock()
			if s.onFound != nil {
				s.onFound(f)
			}
			return
		}

		if e.Request.Depth >= s.cfg.MaxDepth {
			return
		}
		next := e.Request.AbsoluteURL(href)
		if next == "" || !hostAllowed(next, s.cfg.AllowedDomains) {
			return
		}
		// revisits and depth overruns are reported as errors by colly and are expected
		_ = e.Request.Visit(next)
	})

	for _, start := range s.cfg.StartURLs {
		if err := ctx.Err(); err != nil {
			return found, err
		}
		s.log.Info("visiting start page", logger.String("url", start))
		if err := c.Visit(start); err != nil {
			// fetch failures were already reported by OnError
			s.log.Debug("start page visit ended with error",
				logger.String("url", start),
				logger.Error(err))
		}
	}
	c.Wait()

	mu.Lock()
	defer mu.Unlock()
	return found, ctx.Err()
}

// match reports whether href matches the pattern and which extension matched.
func (s *Spider) match(href string) (string, bool) {
	loc := s.pattern.FindStringSubmatchIndex(href)
	if loc == nil {
		return "", false
	}
	for i, ext := range s.cfg.Extensions {
		if loc[2*(i+1)] >= 0 {
			return ext, true
		}
	}
	return "", true
}
