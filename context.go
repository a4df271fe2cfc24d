package ldexpand

import (
	"cmp"
	"context"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"sourcery.dny.nu/ldexpand/internal/iri"
	"sourcery.dny.nu/ldexpand/internal/json"
)

// Context represents a processed JSON-LD context.
//
// A Context is immutable once it has been returned by the [Processor]. It can
// be shared between goroutines and reused as the starting point for
// processing other contexts.
type Context struct {
	defs       map[string]Term
	sharedDefs bool

	currentBaseIRI  string
	originalBaseIRI string

	vocabMapping     string
	defaultLang      string
	defaultDirection string
	previousContext  *Context

	source json.RawMessage
}

// newContext initialises a new context with the specified documentURL set as
// the current and original base IRI.
func newContext(documentURL string) *Context {
	return &Context{
		defs:            make(map[string]Term),
		currentBaseIRI:  documentURL,
		originalBaseIRI: documentURL,
	}
}

// clone returns a copy of c. The term definitions are shared until either
// copy is modified.
func (c *Context) clone() *Context {
	return &Context{
		defs:             c.defs,
		sharedDefs:       true,
		currentBaseIRI:   c.currentBaseIRI,
		originalBaseIRI:  c.originalBaseIRI,
		vocabMapping:     c.vocabMapping,
		defaultLang:      c.defaultLang,
		defaultDirection: c.defaultDirection,
		previousContext:  c.previousContext,
	}
}

func (c *Context) ownDefs() {
	if c.sharedDefs {
		c.defs = maps.Clone(c.defs)
		if c.defs == nil {
			c.defs = make(map[string]Term)
		}
		c.sharedDefs = false
	}
}

func (c *Context) setTerm(term string, def Term) {
	c.ownDefs()
	c.defs[term] = def
}

func (c *Context) deleteTerm(term string) {
	if _, ok := c.defs[term]; !ok {
		return
	}
	c.ownDefs()
	delete(c.defs, term)
}

func (c *Context) hasProtected() bool {
	for _, def := range c.defs {
		if def.Protected {
			return true
		}
	}
	return false
}

// isBlank reports if nothing has been defined on the context yet.
func (c *Context) isBlank() bool {
	return len(c.defs) == 0 && c.vocabMapping == "" &&
		c.defaultLang == "" && c.defaultDirection == ""
}

// Terms returns an iterator over context term definitions.
func (c *Context) Terms() iter.Seq2[string, Term] {
	return func(yield func(string, Term) bool) {
		for k, v := range c.defs {
			if !yield(k, v) {
				return
			}
		}
	}
}

// TermMap returns a copy of the term definitions.
func (c *Context) TermMap() map[string]Term {
	return maps.Clone(c.defs)
}

// Term returns the definition of a single term.
func (c *Context) Term(name string) (Term, bool) {
	t, ok := c.defs[name]
	return t, ok
}

// BaseIRI is the IRI relative IRIs are resolved against.
func (c *Context) BaseIRI() string { return c.currentBaseIRI }

// OriginalBaseIRI is the base IRI the context was created with, before any
// @base entries were applied.
func (c *Context) OriginalBaseIRI() string { return c.originalBaseIRI }

// Vocab is the vocabulary mapping.
func (c *Context) Vocab() string { return c.vocabMapping }

// DefaultLanguage is the default language of string values.
func (c *Context) DefaultLanguage() string { return c.defaultLang }

// DefaultDirection is the default base direction of string values.
func (c *Context) DefaultDirection() string { return c.defaultDirection }

// Previous returns the context that is restored when a non-propagated context
// goes out of scope, or nil.
func (c *Context) Previous() *Context { return c.previousContext }

// Source returns the unprocessed local context this context was created from,
// if it was created through [Processor.Context].
func (c *Context) Source() json.RawMessage { return c.source }

// Context processes a local context into a [Context].
//
// The baseURL is used to resolve remote contexts and as the initial base IRI.
// It returns nil when the local context is empty or null.
func (p *Processor) Context(ctx context.Context, localContext json.RawMessage, baseURL string) (*Context, error) {
	return p.ProcessContext(ctx, nil, localContext, baseURL)
}

// ProcessContext processes a local context on top of an existing active
// context. The active context is not modified.
func (p *Processor) ProcessContext(
	ctx context.Context,
	activeContext *Context,
	localContext json.RawMessage,
	baseURL string,
) (*Context, error) {
	if len(localContext) == 0 || json.IsNull(localContext) {
		return activeContext, nil
	}

	localContext, err := json.Normalize(localContext)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "local context is not valid JSON"), ErrInvalidLocalContext)
	}

	if activeContext == nil {
		activeContext = newContext(cmp.Or(p.baseIRI, baseURL))
	}

	r := p.begin(ctx)
	res, err := r.context(activeContext, localContext, baseURL, newCtxProcessingOpts())
	if err != nil {
		return nil, err
	}

	if p.validateContextFunc != nil && !p.validateContextFunc(res) {
		return nil, ErrInvalid
	}

	res.source = localContext
	return res, nil
}

type ctxProcessingOpts struct {
	stack     *processingStack
	override  bool
	propagate bool
	validate  bool
}

func newCtxProcessingOpts() ctxProcessingOpts {
	return ctxProcessingOpts{
		propagate: true,
		validate:  true,
	}
}

func (p *run) context(
	activeContext *Context,
	localContext json.RawMessage,
	baseURL string,
	opts ctxProcessingOpts,
) (*Context, error) {
	if activeContext == nil {
		activeContext = newContext(baseURL)
	}

	// 1)
	result := activeContext.clone()

	// 2)
	if json.IsMap(localContext) {
		var propcheck json.Object
		if err := json.Unmarshal(localContext, &propcheck); err != nil {
			return nil, ErrInvalidLocalContext
		}
		if b, ok := json.Bool(propcheck[KeywordPropagate]); ok {
			opts.propagate = b
		}
	}

	// 3)
	if !opts.propagate && result.previousContext == nil {
		result.previousContext = activeContext
	}

	// 4)
	contexts, err := json.Elements(localContext)
	if err != nil {
		return nil, ErrInvalidLocalContext
	}

	p.prefetch(contexts, baseURL)

	// 5)
	for _, context := range contexts {
		switch json.KindOf(context) {
		case json.KindNull:
			// 5.1.1)
			if !opts.override && activeContext.hasProtected() {
				return nil, ErrInvalidContextNullification
			}

			// 5.1.2)
			previous := result
			result = newContext(activeContext.originalBaseIRI)
			if !opts.propagate {
				result.previousContext = previous
			}

			// 5.1.3)
			continue
		case json.KindString:
			// 5.2)
			ref, _ := json.String(context)
			res, err := p.remoteContext(result, ref, baseURL, opts)
			if err != nil {
				return nil, err
			}
			result = res
		case json.KindObject:
			// 5.3)
			if err := p.contextDefinition(result, context, baseURL, opts); err != nil {
				return nil, err
			}
		default:
			// 5.3)
			return nil, ErrInvalidLocalContext
		}
	}

	return result, nil
}

func (p *run) remoteContext(
	result *Context,
	ref string,
	baseURL string,
	opts ctxProcessingOpts,
) (*Context, error) {
	// 5.2.1)
	ctxIRI, err := iri.Resolve(baseURL, ref)
	if err != nil || !iri.IsAbsolute(ctxIRI) {
		return nil, errors.Wrapf(ErrLoadingDocument, "cannot resolve context reference %q", ref)
	}

	// 5.2.2)
	if !opts.validate && opts.stack.contains(ctxIRI) {
		return result, nil
	}

	// 5.2.3)
	if opts.stack.len() >= RemoteContextLimit {
		if p.modeLD10 {
			return nil, ErrRecursiveContextInclusion
		}
		return nil, errors.Wrapf(ErrContextOverflow, "more than %d nested remote contexts", RemoteContextLimit)
	}

	stack, ok := opts.stack.push(ctxIRI)
	if !ok {
		if p.modeLD10 {
			return nil, ErrRecursiveContextInclusion
		}
		return nil, errors.Wrapf(ErrContextOverflow, "context %s includes itself through %s",
			ctxIRI, strings.Join(opts.stack.iris(), ", "))
	}

	if pc, ok := p.processedContext[ctxIRI]; ok && result.isBlank() {
		seeded := pc.clone()
		seeded.currentBaseIRI = result.currentBaseIRI
		seeded.originalBaseIRI = result.originalBaseIRI
		seeded.previousContext = result.previousContext
		return seeded, nil
	}

	// 5.2.4) 5.2.5)
	doc, err := p.loadContext(ctxIRI)
	if err != nil {
		return nil, err
	}

	// 5.2.6)
	newOpts := newCtxProcessingOpts()
	newOpts.stack = stack
	newOpts.validate = opts.validate
	return p.context(result, doc.Context, doc.URL, newOpts)
}

// contextDefinition applies a single context definition map to result.
func (p *run) contextDefinition(
	result *Context,
	context json.RawMessage,
	baseURL string,
	opts ctxProcessingOpts,
) error {
	members, err := json.Members(context)
	if err != nil {
		return ErrInvalidLocalContext
	}
	ctxObj := json.ObjectOf(members)

	// 5.5)
	if version, ok := ctxObj[KeywordVersion]; ok {
		if err := p.handleVersion(version); err != nil {
			return err
		}
	}

	// 5.6)
	if imp, ok := ctxObj[KeywordImport]; ok {
		res, err := p.handleImport(baseURL, imp, members)
		if err != nil {
			return err
		}
		members = res
		ctxObj = json.ObjectOf(members)
	}

	// 5.7)
	if base, ok := ctxObj[KeywordBase]; ok && opts.stack.isEmpty() {
		if err := p.handleBase(result, base); err != nil {
			return err
		}
	}

	// 5.8)
	if vocab, ok := ctxObj[KeywordVocab]; ok {
		if err := p.handleVocab(result, vocab); err != nil {
			return err
		}
	}

	// 5.9)
	if lang, ok := ctxObj[KeywordLanguage]; ok {
		if err := p.handleLanguage(result, lang); err != nil {
			return err
		}
	}

	// 5.10)
	if dir, ok := ctxObj[KeywordDirection]; ok {
		if err := p.handleDirection(result, dir); err != nil {
			return err
		}
	}

	// 5.11)
	if prop, ok := ctxObj[KeywordPropagate]; ok {
		if err := p.handlePropagate(prop); err != nil {
			return err
		}
	}

	protected := false
	if prot, ok := ctxObj[KeywordProtected]; ok {
		if p.modeLD10 {
			return ErrInvalidContextEntry
		}
		b, ok := json.Bool(prot)
		if !ok {
			return ErrInvalidProtectedValue
		}
		protected = b
	}

	// 5.12)
	local := &localContext{
		entries: ctxObj,
		defined: make(map[string]termState, len(members)),
		opts: createTermOptions{
			baseURL:   baseURL,
			protected: protected,
			override:  opts.override,
			stack:     opts.stack,
		},
	}

	keys := make([]string, 0, len(members))
	for _, m := range members {
		keys = append(keys, m.Key)
	}
	if p.ordered {
		slices.Sort(keys)
	}

	// 5.13)
	for _, k := range keys {
		switch k {
		case KeywordBase, KeywordDirection, KeywordImport,
			KeywordLanguage, KeywordPropagate, KeywordProtected,
			KeywordVersion, KeywordVocab:
			continue
		}

		if err := p.createTerm(result, local, k, local.opts); err != nil {
			return err
		}
	}

	return nil
}

func (p *run) handlePropagate(prop json.RawMessage) error {
	if p.modeLD10 {
		return ErrInvalidContextEntry
	}

	if _, ok := json.Bool(prop); !ok {
		return ErrInvalidPropagateValue
	}

	return nil
}

func (p *run) handleDirection(result *Context, dir json.RawMessage) error {
	if p.modeLD10 {
		return ErrInvalidContextEntry
	}

	if json.IsNull(dir) {
		result.defaultDirection = ""
		return nil
	}

	d, ok := json.String(dir)
	if !ok {
		return ErrInvalidBaseDirection
	}

	switch d {
	case DirectionLTR, DirectionRTL:
	default:
		return ErrInvalidBaseDirection
	}

	result.defaultDirection = d
	return nil
}

func (p *run) handleLanguage(result *Context, lang json.RawMessage) error {
	if json.IsNull(lang) {
		result.defaultLang = ""
		return nil
	}

	l, ok := json.String(lang)
	if !ok {
		return ErrInvalidDefaultLanguage
	}

	result.defaultLang = p.normalizeLanguage(l)
	return nil
}

func (p *run) handleVocab(result *Context, vocab json.RawMessage) error {
	// 5.8.2)
	if json.IsNull(vocab) {
		result.vocabMapping = ""
		return nil
	}

	s, ok := json.String(vocab)
	if !ok {
		return ErrInvalidVocabMapping
	}

	// 5.8.3)
	if p.modeLD10 && !iri.IsAbsolute(s) && !iri.IsBlankNode(s) {
		return ErrInvalidVocabMapping
	}

	u, err := p.expandIRI(result, s, true, true, nil)
	if err != nil {
		return err
	}

	if !strings.Contains(u, ":") {
		return ErrInvalidVocabMapping
	}

	result.vocabMapping = u
	return nil
}

func (p *run) handleBase(result *Context, base json.RawMessage) error {
	// 5.7.2)
	if json.IsNull(base) {
		result.currentBaseIRI = ""
		return nil
	}

	s, ok := json.String(base)
	if !ok {
		return ErrInvalidBaseIRI
	}

	// 5.7.3)
	if iri.IsAbsolute(s) {
		result.currentBaseIRI = s
		return nil
	}

	// 5.7.4)
	if iri.IsRelative(s) && result.currentBaseIRI != "" {
		u, err := iri.Resolve(result.currentBaseIRI, s)
		if err != nil {
			return ErrInvalidBaseIRI
		}
		result.currentBaseIRI = u
		return nil
	}

	// 5.7.5)
	return ErrInvalidBaseIRI
}

func (p *run) handleImport(baseURL string, data json.RawMessage, members []json.Member) ([]json.Member, error) {
	// 5.6.1)
	if p.modeLD10 {
		return nil, ErrInvalidContextEntry
	}

	// 5.6.2)
	val, ok := json.String(data)
	if !ok {
		return nil, ErrInvalidImportValue
	}

	// 5.6.3)
	imp, err := iri.Resolve(baseURL, val)
	if err != nil || !iri.IsAbsolute(imp) {
		return nil, ErrInvalidImportValue
	}

	// 5.6.4) 5.6.5)
	doc, err := p.loadContext(imp)
	if err != nil {
		return nil, err
	}

	// 5.6.6)
	imported, err := json.Members(doc.Context)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRemoteContext, "@import of %s is not a context definition", imp)
	}

	// 5.6.7)
	res := make([]json.Member, 0, len(imported)+len(members))
	index := make(map[string]int, len(imported))
	for _, m := range imported {
		if m.Key == KeywordImport {
			return nil, ErrInvalidContextEntry
		}
		index[m.Key] = len(res)
		res = append(res, m)
	}

	// 5.6.8)
	for _, m := range members {
		if m.Key == KeywordImport {
			continue
		}
		if i, ok := index[m.Key]; ok {
			res[i] = m
			continue
		}
		res = append(res, m)
	}

	return res, nil
}

func (p *run) handleVersion(data json.RawMessage) error {
	if json.KindOf(data) != json.KindNumber {
		return ErrInvalidVersionValue
	}

	var ver float64
	if err := json.Unmarshal(data, &ver); err != nil {
		return ErrInvalidVersionValue
	}
	if ver != 1.1 {
		return ErrInvalidVersionValue
	}
	if p.modeLD10 {
		return ErrProcessingMode
	}
	return nil
}
