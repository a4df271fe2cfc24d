package loader_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ld "sourcery.dny.nu/ldexpand"
	"sourcery.dny.nu/ldexpand/loader"
)

const exampleContext = `{"@context": {"name": "https://example.org/name"}}`

func TestStatic(t *testing.T) {
	l, err := loader.NewStatic(map[string][]byte{
		"https://example.org/context": []byte(exampleContext),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, l.Len())

	t.Run("known", func(t *testing.T) {
		doc, err := l.LoadContext(context.Background(), "https://example.org/context")
		require.NoError(t, err)
		assert.Equal(t, "https://example.org/context", doc.URL)
		assert.JSONEq(t, `{"name": "https://example.org/name"}`, string(doc.Context))
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := l.LoadContext(context.Background(), "https://example.org/other")
		require.ErrorIs(t, err, ld.ErrLoadingRemoteContext)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := loader.NewStatic(map[string][]byte{
			"https://example.org/context": []byte(`{`),
		})
		require.ErrorIs(t, err, ld.ErrLoadingDocument)
	})
}

func TestStaticFS(t *testing.T) {
	fsys := fstest.MapFS{
		"contexts/example.jsonld": &fstest.MapFile{Data: []byte(exampleContext)},
	}

	l, err := loader.NewStaticFS(fsys, map[string]string{
		"https://example.org/context": "contexts/example.jsonld",
	})
	require.NoError(t, err)

	doc, err := l.LoadContext(context.Background(), "https://example.org/context")
	require.NoError(t, err)
	assert.NotNil(t, doc.Context)

	_, err = loader.NewStaticFS(fsys, map[string]string{
		"https://example.org/missing": "contexts/missing.jsonld",
	})
	require.Error(t, err)
}

func TestHTTP(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/context", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !strings.Contains(r.Header.Get("Accept"), ld.ProfileContext) {
			http.Error(w, "missing profile", http.StatusNotAcceptable)
			return
		}
		w.Header().Set("Content-Type", ld.ApplicationLDJSON)
		w.Header().Set("Cache-Control", "max-age=3600")
		_, _ = w.Write([]byte(exampleContext))
	})
	mux.HandleFunc("/nostore", func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", ld.ApplicationJSON)
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write([]byte(exampleContext))
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/context", http.StatusFound)
	})
	mux.HandleFunc("/html", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html></html>`))
	})
	mux.HandleFunc("/large", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", ld.ApplicationLDJSON)
		_, _ = w.Write([]byte(`{"@context": {"name": "` + strings.Repeat("a", 256) + `"}}`))
	})
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", ld.ApplicationLDJSON)
		_, _ = w.Write([]byte(exampleContext))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	newLoader := func(t *testing.T) *loader.HTTP {
		t.Helper()
		l, err := loader.NewHTTP(
			loader.WithClient(srv.Client()),
			loader.WithMaxSize(128),
		)
		require.NoError(t, err)
		return l
	}

	t.Run("cached", func(t *testing.T) {
		hits.Store(0)
		l := newLoader(t)

		for range 3 {
			doc, err := l.LoadContext(context.Background(), srv.URL+"/context")
			require.NoError(t, err)
			assert.Equal(t, srv.URL+"/context", doc.URL)
		}
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("no-store", func(t *testing.T) {
		hits.Store(0)
		l := newLoader(t)

		for range 2 {
			_, err := l.LoadContext(context.Background(), srv.URL+"/nostore")
			require.NoError(t, err)
		}
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("concurrent", func(t *testing.T) {
		l := newLoader(t)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := l.LoadContext(context.Background(), srv.URL+"/context")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
	})

	t.Run("first caller cancels", func(t *testing.T) {
		l := newLoader(t)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errs := make(chan error, 2)
		go func() {
			_, err := l.LoadContext(ctx, srv.URL+"/slow")
			errs <- err
		}()
		<-started

		go func() {
			_, err := l.LoadContext(context.Background(), srv.URL+"/slow")
			errs <- err
		}()

		time.Sleep(50 * time.Millisecond)
		cancel()
		time.Sleep(50 * time.Millisecond)
		close(release)

		for range 2 {
			require.NoError(t, <-errs)
		}
	})

	t.Run("redirect", func(t *testing.T) {
		l := newLoader(t)

		doc, err := l.LoadContext(context.Background(), srv.URL+"/moved")
		require.NoError(t, err)
		assert.Equal(t, srv.URL+"/context", doc.URL)
	})

	errTests := map[string]string{
		"not found":    "/missing",
		"content type": "/html",
		"too large":    "/large",
	}

	for name, path := range errTests {
		t.Run(name, func(t *testing.T) {
			l := newLoader(t)

			_, err := l.LoadContext(context.Background(), srv.URL+path)
			require.ErrorIs(t, err, ld.ErrLoadingRemoteContext)
			assert.Equal(t, ld.Code(ld.ErrLoadingRemoteContext), ld.Code(err))
		})
	}

	t.Run("unreachable", func(t *testing.T) {
		l := newLoader(t)

		_, err := l.LoadContext(context.Background(), "http://127.0.0.1:1/context")
		require.ErrorIs(t, err, ld.ErrLoadingRemoteContext)
	})
}

func TestChain(t *testing.T) {
	static, err := loader.NewStatic(map[string][]byte{
		"https://example.org/context": []byte(exampleContext),
	})
	require.NoError(t, err)

	calls := 0
	fallback := ld.RemoteContextLoaderFunc(func(_ context.Context, iri string) (ld.Document, error) {
		calls++
		if iri == "https://example.org/fallback" {
			return ld.NewDocument(iri, []byte(exampleContext))
		}
		return ld.Document{}, errors.Newf("no such context %s", iri)
	})

	chain := loader.Chain{static, fallback}

	_, err = chain.LoadContext(context.Background(), "https://example.org/context")
	require.NoError(t, err)
	assert.Equal(t, 0, calls)

	doc, err := chain.LoadContext(context.Background(), "https://example.org/fallback")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/fallback", doc.URL)
	assert.Equal(t, 1, calls)

	_, err = chain.LoadContext(context.Background(), "https://example.org/nope")
	require.ErrorIs(t, err, ld.ErrLoadingRemoteContext)

	_, err = loader.Chain{}.LoadContext(context.Background(), "https://example.org/nope")
	require.ErrorIs(t, err, ld.ErrLoadingRemoteContext)
}

func TestProcessorWithStatic(t *testing.T) {
	static, err := loader.NewStatic(map[string][]byte{
		"https://example.org/context": []byte(exampleContext),
	})
	require.NoError(t, err)

	p := ld.NewProcessor(ld.WithRemoteContextLoader(static))
	nodes, err := p.Expand(context.Background(), []byte(`{
		"@context": "https://example.org/context",
		"@id": "https://example.org/alice",
		"name": "Alice"
	}`), "")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, `"Alice"`, string(nodes[0].Properties["https://example.org/name"][0].Value))
}
