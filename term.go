package ldexpand

import (
	"bytes"
	"log/slog"
	"strings"

	"sourcery.dny.nu/ldexpand/internal/iri"
	"sourcery.dny.nu/ldexpand/internal/json"
)

// termState tracks the definition state of a term during context processing.
type termState uint8

const (
	termUndefined termState = iota // not yet processed
	termDefining                   // being defined, seeing it again is a cycle
	termDefined                    // definition is complete
)

// Term represents a term definition in a JSON-LD context.
//
// An IRI of "" means the term was defined with "@id": null. It's retained so
// that redefinitions can still be detected, but it can't be used for IRI
// expansion.
//
// Language and Direction are empty when unset. They are [KeywordNull] when the
// term explicitly opts out of the default language or base direction.
type Term struct {
	IRI       string
	Prefix    bool
	Protected bool
	Reverse   bool

	BaseIRI   string
	Context   json.RawMessage
	Container Container
	Direction string
	Index     string
	Language  string
	Nest      string
	Type      string
}

func (t *Term) equalWithoutProtected(ot *Term) bool {
	if t == nil || ot == nil {
		return t == ot
	}

	return t.IRI == ot.IRI &&
		t.Prefix == ot.Prefix &&
		t.Reverse == ot.Reverse &&
		t.BaseIRI == ot.BaseIRI &&
		bytes.Equal(t.Context, ot.Context) &&
		t.Container == ot.Container &&
		t.Direction == ot.Direction &&
		t.Index == ot.Index &&
		t.Language == ot.Language &&
		t.Nest == ot.Nest &&
		t.Type == ot.Type
}

// IsZero returns if this is the zero value of a [Term].
func (t *Term) IsZero() bool {
	return t == nil || t.equalWithoutProtected(&Term{}) && !t.Protected
}

type createTermOptions struct {
	baseURL   string
	protected bool
	override  bool
	stack     *processingStack
}

// dependency returns the options used for a term that gets defined because
// another term in the same local context refers to it.
func (o createTermOptions) dependency() createTermOptions {
	o.override = false
	return o
}

// localContext is the context definition whose terms are being created. It
// allows IRI expansion to define terms on demand, in dependency order.
type localContext struct {
	entries json.Object
	defined map[string]termState
	opts    createTermOptions
}

// pending reports if term is defined in the local context and hasn't been
// created yet.
func (l *localContext) pending(term string) bool {
	if l == nil {
		return false
	}
	if _, ok := l.entries[term]; !ok {
		return false
	}
	return l.defined[term] != termDefined
}

// termInput is the decoded value of a term in a local context.
type termInput struct {
	Null   bool
	Simple bool

	ID             null[string]
	Type           null[string]
	Reverse        null[string]
	Container      null[[]string]
	ContainerArray bool
	Index          null[string]
	Context        json.RawMessage
	Language       null[string]
	Direction      null[string]
	Nest           null[string]
	Prefix         null[bool]
	Protected      null[bool]

	Keys    []string
	Unknown []string
}

func parseTermInput(raw json.RawMessage) (termInput, error) {
	var res termInput

	switch json.KindOf(raw) {
	case json.KindNull:
		res.Null = true
		res.ID = explicitNull[string]()
		return res, nil
	case json.KindString:
		s, _ := json.String(raw)
		res.Simple = true
		res.ID = some(s)
		return res, nil
	case json.KindObject:
	default:
		return res, ErrInvalidTermDefinition
	}

	members, err := json.Members(raw)
	if err != nil {
		return res, ErrInvalidTermDefinition
	}

	str := func(v json.RawMessage, nullable bool, code error) (null[string], error) {
		if json.IsNull(v) {
			if nullable {
				return explicitNull[string](), nil
			}
			return null[string]{}, code
		}
		s, ok := json.String(v)
		if !ok {
			return null[string]{}, code
		}
		return some(s), nil
	}

	boolean := func(v json.RawMessage, code error) (null[bool], error) {
		b, ok := json.Bool(v)
		if !ok {
			return null[bool]{}, code
		}
		return some(b), nil
	}

	for _, m := range members {
		res.Keys = append(res.Keys, m.Key)

		var err error
		switch m.Key {
		case KeywordID:
			res.ID, err = str(m.Value, true, ErrInvalidIRIMapping)
		case KeywordType:
			res.Type, err = str(m.Value, false, ErrInvalidTypeMapping)
		case KeywordReverse:
			res.Reverse, err = str(m.Value, false, ErrInvalidIRIMapping)
		case KeywordContainer:
			switch json.KindOf(m.Value) {
			case json.KindNull:
				res.Container = explicitNull[[]string]()
			case json.KindString, json.KindArray:
				values, ok := json.Strings(m.Value)
				if !ok {
					return res, ErrInvalidContainerMapping
				}
				res.Container = some(values)
				res.ContainerArray = json.IsArray(m.Value)
			default:
				return res, ErrInvalidContainerMapping
			}
		case KeywordIndex:
			res.Index, err = str(m.Value, false, ErrInvalidTermDefinition)
		case KeywordContext:
			res.Context = m.Value
		case KeywordLanguage:
			res.Language, err = str(m.Value, true, ErrInvalidLanguageMapping)
		case KeywordDirection:
			res.Direction, err = str(m.Value, true, ErrInvalidBaseDirection)
			if err == nil && res.Direction.Valid {
				switch res.Direction.Value {
				case DirectionLTR, DirectionRTL:
				default:
					err = ErrInvalidBaseDirection
				}
			}
		case KeywordNest:
			res.Nest, err = str(m.Value, false, ErrInvalidNestValue)
		case KeywordPrefix:
			res.Prefix, err = boolean(m.Value, ErrInvalidPrefixValue)
		case KeywordProtected:
			res.Protected, err = boolean(m.Value, ErrInvalidProtectedValue)
		default:
			res.Unknown = append(res.Unknown, m.Key)
		}

		if err != nil {
			return res, err
		}
	}

	return res, nil
}

// createTerm creates the definition for term from the local context and adds
// it to activeCtx.
func (p *run) createTerm(
	activeCtx *Context,
	local *localContext,
	term string,
	opts createTermOptions,
) error {
	// 1)
	switch local.defined[term] {
	case termDefined:
		return nil
	case termDefining:
		return ErrCyclicIRIMapping
	}

	// 2)
	if term == "" {
		return ErrInvalidTermDefinition
	}
	local.defined[term] = termDefining

	// 3)
	input, err := parseTermInput(local.entries[term])
	if err != nil {
		return err
	}

	// 4)
	if term == KeywordType {
		if p.modeLD10 {
			return ErrKeywordRedefinition
		}

		if input.Null || input.Simple || len(input.Keys) == 0 {
			return ErrKeywordRedefinition
		}

		for _, k := range input.Keys {
			switch k {
			case KeywordContainer:
				if !input.Container.Valid || len(input.Container.Value) != 1 ||
					input.Container.Value[0] != KeywordSet {
					return ErrKeywordRedefinition
				}
			case KeywordProtected:
			default:
				return ErrKeywordRedefinition
			}
		}
	} else {
		// 5)
		if isKeyword(term) {
			return ErrKeywordRedefinition
		}

		if looksLikeKeyword(term) {
			p.logger.Warn("ignoring keyword lookalike term",
				slog.String("term", term))
			local.defined[term] = termDefined
			return nil
		}
	}

	// 6)
	oldDef, oldDefOK := activeCtx.defs[term]
	activeCtx.deleteTerm(term)

	// 10)
	termDef := Term{
		Protected: opts.protected,
	}

	// 11)
	if input.Protected.Set {
		if p.modeLD10 {
			return ErrInvalidTermDefinition
		}
		termDef.Protected = input.Protected.Value
	}

	// 12)
	if input.Type.Valid {
		// 12.2)
		u, err := p.expandIRI(activeCtx, input.Type.Value, false, true, local)
		if err != nil {
			return err
		}

		// 12.3)
		if p.modeLD10 && (u == KeywordNone || u == KeywordJSON) {
			return ErrInvalidTypeMapping
		}

		// 12.4)
		switch u {
		case KeywordID, KeywordJSON, KeywordNone, KeywordVocab:
		default:
			if !iri.IsAbsolute(u) {
				return ErrInvalidTypeMapping
			}
		}

		// 12.5)
		termDef.Type = u
	}

	// 13)
	if input.Reverse.Valid {
		return p.createReverseTerm(activeCtx, local, term, input, termDef)
	}

	switch {
	case input.ID.Valid && input.ID.Value != term:
		// 14.2)
		id := input.ID.Value

		// 14.2.2)
		if !isKeyword(id) && looksLikeKeyword(id) {
			p.logger.Warn("ignoring term mapped to keyword lookalike",
				slog.String("term", term),
				slog.String("value", id))
			local.defined[term] = termDefined
			return nil
		}

		// 14.2.3)
		u, err := p.expandIRI(activeCtx, id, false, true, local)
		if err != nil {
			return err
		}

		if !isKeyword(u) && !strings.Contains(u, ":") {
			return ErrInvalidIRIMapping
		}

		if u == KeywordContext {
			return ErrInvalidKeywordAlias
		}

		termDef.IRI = u

		// 14.2.4)
		if strings.Contains(strings.Trim(term, ":"), ":") || strings.Contains(term, "/") {
			// 14.2.4.1)
			local.defined[term] = termDefined

			// 14.2.4.2)
			tu, err := p.expandIRI(activeCtx, term, false, true, local)
			if err != nil {
				return err
			}
			if tu != u {
				return ErrInvalidIRIMapping
			}
		}

		// 14.2.5)
		if !strings.ContainsAny(term, ":/") && input.Simple &&
			(iri.EndsInGenDelim(u) || iri.IsBlankNode(u)) {
			if v, ok := p.remapPrefixIRIs[u]; ok {
				termDef.IRI = v
			}
			termDef.Prefix = true
		}
	case input.ID.isNull():
		// 14.1) retained only to detect redefinitions
	case strings.Contains(term[1:], ":"):
		// 15)
		prefix, suffix, _ := strings.Cut(term, ":")

		// 15.1)
		if !strings.HasPrefix(suffix, "//") && local.pending(prefix) {
			if err := p.createTerm(activeCtx, local, prefix, local.opts.dependency()); err != nil {
				return err
			}
		}

		// 15.2)
		if def, ok := activeCtx.defs[prefix]; ok && def.IRI != "" {
			termDef.IRI = def.IRI + suffix
		} else {
			// 15.3)
			termDef.IRI = term
		}
	case strings.Contains(term, "/"):
		// 16)
		u, err := p.expandIRI(activeCtx, term, false, true, nil)
		if err != nil {
			return err
		}
		if !iri.IsAbsolute(u) {
			return ErrInvalidIRIMapping
		}
		termDef.IRI = u
	case term == KeywordType:
		// 17)
		termDef.IRI = KeywordType
	default:
		// 18)
		if activeCtx.vocabMapping == "" {
			return ErrInvalidIRIMapping
		}
		termDef.IRI = activeCtx.vocabMapping + term
	}

	// 19)
	if input.Container.Valid {
		c, err := parseContainer(input.Container.Value, input.ContainerArray, p.modeLD10)
		if err != nil {
			return err
		}
		termDef.Container = c

		// 19.4)
		if c.Has(ContainerType) {
			switch termDef.Type {
			case "":
				termDef.Type = KeywordID
			case KeywordID, KeywordVocab:
			default:
				return ErrInvalidTypeMapping
			}
		}
	}

	// 20)
	if input.Index.Set {
		if p.modeLD10 || !termDef.Container.Has(ContainerIndex) {
			return ErrInvalidTermDefinition
		}

		u, err := p.expandIRI(activeCtx, input.Index.Value, false, true, local)
		if err != nil {
			return err
		}
		if isKeyword(u) || !iri.IsAbsolute(u) {
			return ErrInvalidTermDefinition
		}

		termDef.Index = input.Index.Value
	}

	// 21)
	if input.Context != nil {
		if p.modeLD10 {
			return ErrInvalidTermDefinition
		}

		// 21.3) resolve the scoped context once to surface errors early, the
		// result is discarded.
		validateOpts := newCtxProcessingOpts()
		validateOpts.override = true
		validateOpts.stack = opts.stack
		validateOpts.validate = false
		if _, err := p.context(activeCtx, input.Context, opts.baseURL, validateOpts); err != nil {
			return scopedContextError(err)
		}

		// 21.4)
		termDef.Context = input.Context
		termDef.BaseIRI = opts.baseURL
	}

	// 22)
	if input.Language.Set && !input.Type.Set {
		if input.Language.Valid {
			termDef.Language = p.normalizeLanguage(input.Language.Value)
		} else {
			termDef.Language = KeywordNull
		}
	}

	// 23)
	if input.Direction.Set && !input.Type.Set {
		if p.modeLD10 {
			return ErrInvalidTermDefinition
		}
		if input.Direction.Valid {
			termDef.Direction = input.Direction.Value
		} else {
			termDef.Direction = KeywordNull
		}
	}

	// 24)
	if input.Nest.Set {
		if p.modeLD10 {
			return ErrInvalidTermDefinition
		}

		nest := input.Nest.Value
		if isKeyword(nest) && nest != KeywordNest {
			return ErrInvalidNestValue
		}

		termDef.Nest = nest
	}

	// 25)
	if input.Prefix.Set {
		if p.modeLD10 || strings.ContainsAny(term, ":/") {
			return ErrInvalidTermDefinition
		}

		termDef.Prefix = input.Prefix.Value
		if termDef.Prefix && isKeyword(termDef.IRI) {
			return ErrInvalidTermDefinition
		}
	}

	// 26)
	if len(input.Unknown) > 0 {
		return ErrInvalidTermDefinition
	}

	// 27)
	if oldDefOK && !opts.override && oldDef.Protected {
		// 27.1)
		if !oldDef.equalWithoutProtected(&termDef) {
			return ErrProtectedTermRedefinition
		}

		// 27.2)
		termDef = oldDef
	}

	// 28)
	activeCtx.setTerm(term, termDef)
	local.defined[term] = termDefined
	return nil
}

// createReverseTerm handles the @reverse form of a term definition.
func (p *run) createReverseTerm(
	activeCtx *Context,
	local *localContext,
	term string,
	input termInput,
	termDef Term,
) error {
	// 13.1)
	if input.ID.Set || input.Nest.Set {
		return ErrInvalidReverseProperty
	}

	rev := input.Reverse.Value

	// 13.3)
	if looksLikeKeyword(rev) {
		p.logger.Warn("ignoring reverse term mapped to keyword lookalike",
			slog.String("term", term),
			slog.String("value", rev))
		local.defined[term] = termDefined
		return nil
	}

	// 13.4)
	u, err := p.expandIRI(activeCtx, rev, false, true, local)
	if err != nil {
		return err
	}

	if isKeyword(u) || !strings.Contains(u, ":") {
		return ErrInvalidIRIMapping
	}

	termDef.IRI = u

	// 13.5)
	if input.Container.Valid {
		c, err := parseContainer(input.Container.Value, input.ContainerArray, p.modeLD10)
		if err != nil {
			return err
		}

		switch c {
		case ContainerNone, ContainerSet, ContainerIndex:
		default:
			return ErrInvalidReverseProperty
		}
		termDef.Container = c
	}

	// an index map of reverse properties may still name its index property
	if termDef.Container.Has(ContainerIndex) && input.Index.Valid {
		termDef.Index = input.Index.Value
	}

	// 13.6)
	termDef.Reverse = true

	// 13.7)
	activeCtx.setTerm(term, termDef)
	local.defined[term] = termDefined
	return nil
}
