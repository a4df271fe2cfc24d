package ldexpand

import (
	"context"
	"slices"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"sourcery.dny.nu/ldexpand/internal/iri"
	"sourcery.dny.nu/ldexpand/internal/json"
)

// Loader retrieves remote contexts.
//
// When building your own loader, please remember that:
//   - [Document.URL] is the URL the context was retrieved from after having
//     followed any redirects.
//   - [Document.Context] is the value of the [KeywordContext] in the returned
//     document. Leave it nil if the document has none, the processor will
//     reject it.
//   - Request a context with [ApplicationLDJSON] and profile [ProfileContext].
//     You can use [mime.FormatMediaType] to build the value for the Accept
//     header.
//   - Have proper timeouts, retry handling and request deduplication.
//   - Make sure to cache the resulting [Document] to avoid unnecessary future
//     requests. Contexts should not change for the lifetime of the application.
//
// The loader package has ready made implementations.
type Loader interface {
	LoadContext(ctx context.Context, iri string) (Document, error)
}

// RemoteContextLoaderFunc adapts a function to a [Loader].
type RemoteContextLoaderFunc func(context.Context, string) (Document, error)

func (f RemoteContextLoaderFunc) LoadContext(ctx context.Context, iri string) (Document, error) {
	return f(ctx, iri)
}

// Document holds a retrieved document.
//
//   - URL holds the final URL a document was retrieved from, after following
//     redirects.
//   - Context holds the value of the @context entry, or nil.
//   - Content holds the whole document.
type Document struct {
	URL     string
	Context json.RawMessage
	Content json.RawMessage
}

// NewDocument parses data retrieved from url.
//
// It fails with [ErrLoadingDocument] if data isn't valid JSON. A document that
// isn't a JSON object, or has no @context, results in a [Document] without a
// Context.
func NewDocument(url string, data []byte) (Document, error) {
	content, err := json.Normalize(data)
	if err != nil {
		return Document{}, errors.Mark(errors.Wrapf(err, "document %s", url), ErrLoadingDocument)
	}

	doc := Document{
		URL:     url,
		Content: content,
	}

	if json.IsMap(content) {
		var obj json.Object
		if err := json.Unmarshal(content, &obj); err != nil {
			return Document{}, errors.Mark(errors.Wrapf(err, "document %s", url), ErrLoadingDocument)
		}
		doc.Context = obj[KeywordContext]
	}

	return doc, nil
}

// loadContext dereferences a remote context, at most once per run.
func (p *run) loadContext(ctxIRI string) (Document, error) {
	if doc, ok := p.docs[ctxIRI]; ok {
		return doc, nil
	}

	if p.loader == nil {
		return Document{}, errors.Wrapf(ErrLoadingRemoteContext, "no loader configured to retrieve %s", ctxIRI)
	}

	doc, err := p.loader.LoadContext(p.ctx, ctxIRI)
	if err != nil {
		return Document{}, markLoading(err, ctxIRI, ErrLoadingRemoteContext)
	}

	doc, err = checkContextDocument(ctxIRI, doc)
	if err != nil {
		return Document{}, err
	}

	p.docs[ctxIRI] = doc
	return doc, nil
}

func checkContextDocument(ctxIRI string, doc Document) (Document, error) {
	if len(doc.Context) == 0 {
		return Document{}, errors.Wrapf(ErrInvalidRemoteContext, "%s has no @context", ctxIRI)
	}

	norm, err := json.Normalize(doc.Context)
	if err != nil {
		return Document{}, errors.Wrapf(ErrInvalidRemoteContext, "%s: %v", ctxIRI, err)
	}
	doc.Context = norm

	if doc.URL == "" {
		doc.URL = ctxIRI
	}

	return doc, nil
}

// prefetchLimit bounds the number of concurrent loader calls per context
// array.
const prefetchLimit = 4

// prefetch retrieves the remote contexts referenced by an array of contexts
// concurrently. Failures are ignored, they're reported once the context is
// processed in order.
func (p *run) prefetch(contexts []json.RawMessage, baseURL string) {
	if !p.prefetchContexts || p.loader == nil || len(contexts) < 2 {
		return
	}

	var iris []string
	for _, c := range contexts {
		ref, ok := json.String(c)
		if !ok {
			continue
		}
		u, err := iri.Resolve(baseURL, ref)
		if err != nil || !iri.IsAbsolute(u) {
			continue
		}
		if _, ok := p.docs[u]; ok || slices.Contains(iris, u) {
			continue
		}
		if _, ok := p.processedContext[u]; ok {
			continue
		}
		iris = append(iris, u)
	}

	if len(iris) < 2 {
		return
	}

	docs := make([]*Document, len(iris))
	var g errgroup.Group
	g.SetLimit(prefetchLimit)
	for i, u := range iris {
		g.Go(func() error {
			doc, err := p.loader.LoadContext(p.ctx, u)
			if err != nil {
				return nil
			}
			if doc, err = checkContextDocument(u, doc); err == nil {
				docs[i] = &doc
			}
			return nil
		})
	}
	_ = g.Wait()

	for i, doc := range docs {
		if doc != nil {
			p.docs[iris[i]] = *doc
		}
	}
}
