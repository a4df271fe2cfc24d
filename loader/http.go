package loader

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pquerna/cachecontrol"
	"golang.org/x/sync/singleflight"

	ld "sourcery.dny.nu/ldexpand"
)

const (
	DefaultCacheSize = 128
	DefaultMaxSize   = 1 << 20
	DefaultTTL       = 24 * time.Hour
)

var acceptHeader = mime.FormatMediaType(ld.ApplicationLDJSON, map[string]string{
	"profile": ld.ProfileContext,
}) + ", " + ld.ApplicationJSON + ";q=0.9"

type cached struct {
	doc     ld.Document
	expires time.Time
}

// HTTP retrieves contexts over HTTP(S).
//
// Retrieved contexts are kept in an LRU cache. Cache-Control and Expires
// response headers are honoured, with [DefaultTTL] as the fallback. Concurrent
// requests for the same context result in a single request.
type HTTP struct {
	client    *http.Client
	cache     *lru.Cache[string, cached]
	group     singleflight.Group
	cacheSize int
	maxSize   int64
	ttl       time.Duration
	userAgent string
	logger    *slog.Logger
	now       func() time.Time
}

// HTTPOption configures an [HTTP] loader.
type HTTPOption func(*HTTP)

// WithClient sets the HTTP client. The default client has a 10 second
// timeout.
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = c
	}
}

// WithCacheSize sets the number of contexts that are cached.
func WithCacheSize(n int) HTTPOption {
	return func(h *HTTP) {
		h.cacheSize = n
	}
}

// WithMaxSize sets the maximum size of a context document in bytes.
func WithMaxSize(n int64) HTTPOption {
	return func(h *HTTP) {
		h.maxSize = n
	}
}

// WithDefaultTTL sets how long a context is cached when the response doesn't
// say.
func WithDefaultTTL(d time.Duration) HTTPOption {
	return func(h *HTTP) {
		h.ttl = d
	}
}

// WithUserAgent sets the User-Agent header on requests.
func WithUserAgent(ua string) HTTPOption {
	return func(h *HTTP) {
		h.userAgent = ua
	}
}

// WithHTTPLogger sets the logger used to report cache behaviour.
func WithHTTPLogger(l *slog.Logger) HTTPOption {
	return func(h *HTTP) {
		h.logger = l
	}
}

// NewHTTP creates a new [HTTP] loader.
func NewHTTP(opts ...HTTPOption) (*HTTP, error) {
	h := &HTTP{
		client:    &http.Client{Timeout: 10 * time.Second},
		cacheSize: DefaultCacheSize,
		maxSize:   DefaultMaxSize,
		ttl:       DefaultTTL,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(h)
	}

	cache, err := lru.New[string, cached](h.cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "creating context cache")
	}
	h.cache = cache

	return h, nil
}

// LoadContext implements [ldexpand.Loader].
func (h *HTTP) LoadContext(ctx context.Context, iri string) (ld.Document, error) {
	if c, ok := h.cache.Get(iri); ok {
		if h.now().Before(c.expires) {
			return c.doc, nil
		}
		h.cache.Remove(iri)
	}

	// The flight is shared, so one caller going away must not fail the
	// others. The client timeout still bounds the request.
	fctx := context.WithoutCancel(ctx)
	v, err, shared := h.group.Do(iri, func() (any, error) {
		return h.fetch(fctx, iri)
	})
	if err != nil {
		return ld.Document{}, err
	}
	if shared {
		h.logger.Debug("shared context request", slog.String("iri", iri))
	}

	return v.(ld.Document), nil
}

func (h *HTTP) fetch(ctx context.Context, iri string) (ld.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iri, nil)
	if err != nil {
		return ld.Document{}, errors.Mark(errors.Wrapf(err, "invalid request for %s", iri), ld.ErrLoadingRemoteContext)
	}

	req.Header.Set("Accept", acceptHeader)
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return ld.Document{}, errors.Mark(errors.Wrapf(err, "retrieving %s", iri), ld.ErrLoadingRemoteContext)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ld.Document{}, errors.Wrapf(ld.ErrLoadingRemoteContext, "retrieving %s: %s", iri, resp.Status)
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return ld.Document{}, errors.Wrapf(ld.ErrLoadingRemoteContext,
			"retrieving %s: unsupported content type %q", iri, resp.Header.Get("Content-Type"))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, h.maxSize+1))
	if err != nil {
		return ld.Document{}, errors.Mark(errors.Wrapf(err, "reading %s", iri), ld.ErrLoadingRemoteContext)
	}
	if int64(len(data)) > h.maxSize {
		return ld.Document{}, errors.Wrapf(ld.ErrLoadingRemoteContext,
			"retrieving %s: document exceeds %d bytes", iri, h.maxSize)
	}

	doc, err := ld.NewDocument(resp.Request.URL.String(), data)
	if err != nil {
		return ld.Document{}, err
	}

	reasons, expires, err := cachecontrol.CachableResponse(req, resp, cachecontrol.Options{PrivateCache: true})
	if err != nil || len(reasons) > 0 {
		h.logger.Debug("not caching context", slog.String("iri", iri))
		return doc, nil
	}

	if expires.IsZero() {
		expires = h.now().Add(h.ttl)
	}
	h.cache.Add(iri, cached{doc: doc, expires: expires})

	return doc, nil
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	switch mt {
	case ld.ApplicationLDJSON, ld.ApplicationJSON:
		return true
	default:
		return strings.HasSuffix(mt, "+json")
	}
}
