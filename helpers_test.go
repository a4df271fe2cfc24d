package ldexpand_test

import (
	"context"
	"flag"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	ld "sourcery.dny.nu/ldexpand"
	"sourcery.dny.nu/ldexpand/internal/json"
	"sourcery.dny.nu/ldexpand/loader"
)

var dump = flag.Bool("dump", false, "dump the expanded JSON on test failure")

// StaticLoader serves the provided contexts, keyed by IRI. Each value is the
// full context document.
func StaticLoader(t testing.TB, contexts map[string]string) ld.Loader {
	t.Helper()

	docs := make(map[string][]byte, len(contexts))
	for iri, doc := range contexts {
		docs[iri] = []byte(doc)
	}

	l, err := loader.NewStatic(docs)
	if err != nil {
		t.Fatalf("failed to create loader: %s", err)
	}
	return l
}

// CountingLoader wraps l and counts the number of calls.
func CountingLoader(l ld.Loader, calls *atomic.Int32) ld.Loader {
	return ld.RemoteContextLoaderFunc(func(ctx context.Context, iri string) (ld.Document, error) {
		calls.Add(1)
		return l.LoadContext(ctx, iri)
	})
}

// ProcessContext processes a local context, failing the test on error.
func ProcessContext(t testing.TB, local string, opts ...ld.ProcessorOption) *ld.Context {
	t.Helper()

	res, err := ld.NewProcessor(opts...).Context(context.Background(), json.RawMessage(local), "")
	if err != nil {
		t.Fatalf("failed to process context: %s", err)
	}
	return res
}

// JSONDiff should be used when diffing JSON documents.
func JSONDiff() cmp.Option {
	return cmp.Options{
		cmp.FilterValues(func(x, y json.RawMessage) bool {
			return json.Valid(x) && json.Valid(y)
		}, cmp.Transformer("ParseJSON", func(in json.RawMessage) (out any) {
			if err := json.Unmarshal(in, &out); err != nil {
				panic(err) // should never occur given previous filter to ensure valid JSON
			}
			return out
		})),
	}
}
