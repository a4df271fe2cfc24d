package ldexpand

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"sourcery.dny.nu/ldexpand/internal/iri"
	"sourcery.dny.nu/ldexpand/internal/json"
)

type expandOptions struct {
	fromMap bool
}

// expansion is the object being built while expanding a map. It tracks which
// keywords were encountered, since some of them can be set to values that
// can't be told apart from the zero value on [Node].
type expansion struct {
	Node

	keys      map[string]struct{}
	typeArray bool
}

func (e *expansion) has(keyword string) bool {
	_, ok := e.keys[keyword]
	return ok
}

func (e *expansion) mark(keyword string) {
	e.keys[keyword] = struct{}{}
}

// only reports if the keywords encountered are a subset of allowed, and no
// other properties are set.
func (e *expansion) only(allowed ...string) bool {
	if len(e.Properties) > 0 {
		return false
	}
	for k := range e.keys {
		if !slices.Contains(allowed, k) {
			return false
		}
	}
	return true
}

func (e *expansion) addReverse(prop string, nodes ...Node) {
	if e.Reverse == nil {
		e.Reverse = make(Properties, 1)
	}
	if e.Reverse[prop] == nil {
		e.Reverse[prop] = make([]Node, 0, len(nodes))
	}
	e.Reverse[prop] = append(e.Reverse[prop], nodes...)
}

// Expand transforms a JSON document into JSON-LD expanded document form.
//
// If the document was retrieved from a URL, pass it as the third argument.
// Otherwise an empty string. The context is passed to the [Loader] when remote
// contexts need to be retrieved.
func (p *Processor) Expand(ctx context.Context, document json.RawMessage, url string) ([]Node, error) {
	doc, err := json.Normalize(document)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "document is not valid JSON"), ErrLoadingDocument)
	}

	r := p.begin(ctx)
	baseIRI := cmp.Or(p.baseIRI, url)
	baseURL := cmp.Or(url, p.baseIRI)

	activeCtx := newContext(baseIRI)
	if p.expandContext != nil {
		ec, err := json.Normalize(p.expandContext)
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "expand context is not valid JSON"), ErrInvalidLocalContext)
		}

		if json.IsMap(ec) {
			var obj json.Object
			if err := json.Unmarshal(ec, &obj); err != nil {
				return nil, ErrInvalidLocalContext
			}
			if v, ok := obj[KeywordContext]; ok {
				ec = v
			}
		}

		activeCtx, err = r.context(activeCtx, ec, baseURL, newCtxProcessingOpts())
		if err != nil {
			return nil, err
		}
	}

	res, err := r.expand(activeCtx, "", doc, baseURL, expandOptions{})
	if err != nil {
		return nil, err
	}

	// 19)
	if len(res) == 1 && res[0].Has(KeywordGraph) && res[0].Len() == 1 {
		res = res[0].Graph
	}

	result := make([]Node, 0, len(res))
	for _, obj := range res {
		if obj.IsZero() {
			continue
		}
		result = append(result, obj)
	}

	return result, nil
}

// expand expands element. A nil result means element expanded to null and
// must be dropped, an empty result is an empty array.
func (p *run) expand(
	activeCtx *Context,
	activeProp string,
	element json.RawMessage,
	baseURL string,
	opts expandOptions,
) ([]Node, error) {
	switch json.KindOf(element) {
	case json.KindNull:
		// 1)
		return nil, nil
	case json.KindArray:
		// 5)
		return p.expandArray(activeCtx, activeProp, element, baseURL, opts)
	case json.KindObject:
		return p.expandObject(activeCtx, activeProp, element, baseURL, opts)
	case json.KindString, json.KindNumber, json.KindBool:
		// 4.1)
		if activeProp == "" || activeProp == KeywordGraph {
			return nil, nil
		}

		// 4.2)
		if termDef, ok := activeCtx.defs[activeProp]; ok && termDef.Context != nil {
			nctx, err := p.context(activeCtx, termDef.Context, termDef.BaseIRI, newCtxProcessingOpts())
			if err != nil {
				return nil, err
			}
			activeCtx = nctx
		}

		// 4.3)
		return p.expandValue(activeCtx, activeProp, element)
	default:
		return nil, errors.Wrapf(ErrLoadingDocument, "unexpected JSON value %q", element)
	}
}

func (p *run) expandArray(
	activeCtx *Context,
	activeProp string,
	element json.RawMessage,
	baseURL string,
	opts expandOptions,
) ([]Node, error) {
	items, err := json.Elements(element)
	if err != nil {
		return nil, errors.Mark(err, ErrLoadingDocument)
	}

	isList := activeCtx.defs[activeProp].Container.Has(ContainerList)

	// 5.1)
	result := make([]Node, 0, len(items))

	// 5.2)
	for _, item := range items {
		// 5.2.1)
		res, err := p.expand(activeCtx, activeProp, item, baseURL, opts)
		if err != nil {
			return nil, err
		}

		// 5.2.2)
		if isList && json.IsArray(item) {
			res = []Node{{List: nonNil(res)}}
		}

		// 5.2.3)
		result = append(result, res...)
	}

	return result, nil
}

func (p *run) expandObject(
	activeCtx *Context,
	activeProp string,
	element json.RawMessage,
	baseURL string,
	opts expandOptions,
) ([]Node, error) {
	members, err := json.Members(element)
	if err != nil {
		return nil, errors.Mark(err, ErrLoadingDocument)
	}
	obj := json.ObjectOf(members)

	// 3)
	termDef := activeCtx.defs[activeProp]
	propContext := termDef.Context

	// 7)
	if activeCtx.previousContext != nil && !opts.fromMap {
		revert := true
		for _, m := range members {
			u, err := p.expandIRI(activeCtx, m.Key, false, true, nil)
			if err != nil {
				return nil, err
			}
			if u == KeywordValue || (u == KeywordID && len(members) == 1) {
				revert = false
				break
			}
		}
		if revert {
			activeCtx = activeCtx.previousContext
		}
	}

	// 8)
	if propContext != nil {
		ctxOpts := newCtxProcessingOpts()
		ctxOpts.override = true
		nctx, err := p.context(activeCtx, propContext, termDef.BaseIRI, ctxOpts)
		if err != nil {
			return nil, err
		}
		activeCtx = nctx
	}

	// 9)
	if lctx, ok := obj[KeywordContext]; ok {
		nctx, err := p.context(activeCtx, lctx, baseURL, newCtxProcessingOpts())
		if err != nil {
			return nil, err
		}
		if p.validateContextFunc != nil && !p.validateContextFunc(nctx) {
			return nil, ErrInvalid
		}
		activeCtx = nctx
	}

	// 10)
	typeScopedCtx := activeCtx

	// 11)
	var typeKeys []string
	for _, m := range members {
		u, err := p.expandIRI(activeCtx, m.Key, false, true, nil)
		if err != nil {
			return nil, err
		}
		if u == KeywordType {
			typeKeys = append(typeKeys, m.Key)
		}
	}
	slices.Sort(typeKeys)

	for _, k := range typeKeys {
		terms := stringElements(obj[k])
		slices.Sort(terms)
		for _, term := range terms {
			def, ok := typeScopedCtx.defs[term]
			if !ok || def.Context == nil {
				continue
			}

			ctxOpts := newCtxProcessingOpts()
			ctxOpts.propagate = false
			nctx, err := p.context(activeCtx, def.Context, def.BaseIRI, ctxOpts)
			if err != nil {
				return nil, err
			}
			activeCtx = nctx
		}
	}

	// 12)
	var inputType string
	if len(typeKeys) > 0 {
		if terms := stringElements(obj[typeKeys[0]]); len(terms) > 0 {
			inputType, err = p.expandIRI(activeCtx, terms[len(terms)-1], false, true, nil)
			if err != nil {
				return nil, err
			}
		}
	}

	result := &expansion{keys: make(map[string]struct{}, len(members))}

	// 13) 14)
	if err := p.expandObjectKeys(
		activeCtx, typeScopedCtx, activeProp, members, baseURL, inputType, result,
	); err != nil {
		return nil, err
	}

	// 15)
	if result.has(KeywordValue) {
		// 15.1)
		if !result.only(KeywordValue, KeywordLanguage, KeywordDirection, KeywordIndex, KeywordType) {
			return nil, ErrInvalidValueObject
		}
		if result.has(KeywordType) && (result.has(KeywordLanguage) || result.has(KeywordDirection)) {
			return nil, ErrInvalidValueObject
		}

		switch {
		case !result.typeArray && slices.Equal(result.Type, []string{KeywordJSON}):
			// 15.2)
		case json.IsNull(result.Value):
			// 15.3)
			return nil, nil
		case result.has(KeywordLanguage) && !json.IsString(result.Value):
			// 15.4)
			return nil, ErrInvalidLanguageTaggedValue
		case result.has(KeywordType) && (result.typeArray || len(result.Type) != 1 ||
			!iri.IsAbsolute(result.Type[0])):
			// 15.5)
			return nil, ErrInvalidTypedValue
		}
	}

	// 17)
	if result.has(KeywordList) || result.has(KeywordSet) {
		// 17.1)
		if !result.only(KeywordList, KeywordSet, KeywordIndex) ||
			(result.has(KeywordList) && result.has(KeywordSet)) {
			return nil, ErrInvalidSetOrListObject
		}

		// 17.2)
		if result.has(KeywordSet) {
			return result.Set, nil
		}
	}

	// 18)
	if result.has(KeywordLanguage) && result.only(KeywordLanguage) {
		return nil, nil
	}

	// 19)
	if activeProp == "" || activeProp == KeywordGraph {
		n := result.Len()
		if n == 0 || result.Node.Has(KeywordValue) || result.Node.Has(KeywordList) {
			return nil, nil
		}
		if n == 1 && result.Node.Has(KeywordID) {
			return nil, nil
		}
	}

	return []Node{result.Node}, nil
}

func (p *run) expandObjectKeys(
	activeCtx *Context,
	typeScopedCtx *Context,
	activeProp string,
	members []json.Member,
	baseURL string,
	inputType string,
	result *expansion,
) error {
	if p.ordered {
		members = slices.Clone(members)
		slices.SortFunc(members, func(a, b json.Member) int {
			return strings.Compare(a.Key, b.Key)
		})
	}

	var nests []string

	// 13)
	for _, m := range members {
		key, value := m.Key, m.Value

		// 13.1)
		if key == KeywordContext {
			continue
		}

		// 13.2)
		expProp, err := p.expandIRI(activeCtx, key, false, true, nil)
		if err != nil {
			return err
		}

		// 13.3)
		if expProp == "" || (!strings.Contains(expProp, ":") && !isKeyword(expProp)) {
			p.logger.Debug("dropping property that does not expand to an IRI",
				slog.String("property", key))
			continue
		}

		// 13.4)
		if isKeyword(expProp) {
			if expProp == KeywordNest {
				// 13.4.15)
				nests = append(nests, key)
				continue
			}

			if err := p.expandKeyword(
				activeCtx, typeScopedCtx, activeProp, expProp, value, baseURL, inputType, result,
			); err != nil {
				return err
			}
			continue
		}

		// 13.5)
		termDef := activeCtx.defs[key]
		cnt := termDef.Container

		var expVal []Node
		switch {
		case termDef.Type == KeywordJSON:
			// 13.6)
			expVal = []Node{{Value: value, Type: []string{KeywordJSON}}}
		case cnt.Has(ContainerLanguage) && json.IsMap(value):
			// 13.7)
			expVal, err = p.expandLanguageMap(activeCtx, termDef, value)
		case cnt.Any(ContainerIndex|ContainerType|ContainerID) && json.IsMap(value):
			// 13.8)
			expVal, err = p.expandIndexMap(activeCtx, key, termDef, value, baseURL)
		default:
			// 13.9)
			expVal, err = p.expand(activeCtx, key, value, baseURL, expandOptions{})
		}
		if err != nil {
			return err
		}

		// 13.10)
		if expVal == nil {
			continue
		}

		// 13.11)
		if cnt.Has(ContainerList) && (json.IsArray(value) || len(expVal) != 1 || !expVal[0].IsList()) {
			expVal = []Node{{List: expVal}}
		}

		// 13.12)
		if cnt.Has(ContainerGraph) && !cnt.Any(ContainerID|ContainerIndex) {
			wrapped := make([]Node, 0, len(expVal))
			for _, ev := range expVal {
				wrapped = append(wrapped, Node{Graph: []Node{ev}})
			}
			expVal = wrapped
		}

		// 13.13)
		if termDef.Reverse {
			for _, item := range expVal {
				if item.IsValue() || item.IsList() {
					return ErrInvalidReversePropertyValue
				}
			}
			result.addReverse(expProp, expVal...)
			continue
		}

		// 13.14)
		result.AddNodes(expProp, expVal...)
	}

	// 14)
	if p.ordered {
		slices.Sort(nests)
	}

	obj := json.ObjectOf(members)
	for _, nestingKey := range nests {
		// 14.2)
		nestedValues, err := json.Elements(obj[nestingKey])
		if err != nil {
			return ErrInvalidNestValue
		}

		// 14.2.1)
		for _, nv := range nestedValues {
			if !json.IsMap(nv) {
				return ErrInvalidNestValue
			}

			nested, err := json.Members(nv)
			if err != nil {
				return ErrInvalidNestValue
			}

			for _, nm := range nested {
				u, err := p.expandIRI(activeCtx, nm.Key, false, true, nil)
				if err != nil {
					return err
				}
				if u == KeywordValue {
					return ErrInvalidNestValue
				}
			}

			// 14.2.2)
			nestCtx := activeCtx
			if def, ok := activeCtx.defs[nestingKey]; ok && def.Context != nil {
				ctxOpts := newCtxProcessingOpts()
				ctxOpts.override = true
				nestCtx, err = p.context(activeCtx, def.Context, def.BaseIRI, ctxOpts)
				if err != nil {
					return err
				}
			}

			if err := p.expandObjectKeys(
				nestCtx, typeScopedCtx, nestingKey, nested, baseURL, inputType, result,
			); err != nil {
				return err
			}
		}
	}

	return nil
}

// expandKeyword handles an entry of an object whose key expands to a
// keyword.
func (p *run) expandKeyword(
	activeCtx *Context,
	typeScopedCtx *Context,
	activeProp string,
	expProp string,
	value json.RawMessage,
	baseURL string,
	inputType string,
	result *expansion,
) error {
	// 13.4.1)
	if activeProp == KeywordReverse {
		return ErrInvalidReversePropertyMap
	}

	// 13.4.2)
	if result.has(expProp) {
		if p.modeLD10 || (expProp != KeywordIncluded && expProp != KeywordType) {
			return ErrCollidingKeywords
		}
	}

	switch expProp {
	case KeywordID:
		// 13.4.3)
		s, ok := json.String(value)
		if !ok {
			return ErrInvalidIDValue
		}

		u, err := p.expandIRI(activeCtx, s, true, false, nil)
		if err != nil {
			return err
		}
		if u == "" {
			// keyword lookalikes are dropped, the key still counts for
			// collision detection
			if looksLikeKeyword(s) {
				break
			}
			return ErrInvalidIDValue
		}
		result.ID = u
	case KeywordType:
		// 13.4.4)
		values, ok := json.Strings(value)
		if !ok {
			return ErrInvalidTypeValue
		}

		types := make([]string, 0, len(values))
		for _, v := range values {
			u, err := p.expandIRI(typeScopedCtx, v, true, true, nil)
			if err != nil {
				return err
			}
			if u == "" {
				continue
			}
			types = append(types, u)
		}

		result.typeArray = result.typeArray || json.IsArray(value) || result.Type != nil
		result.Type = append(nonNilStrings(result.Type), types...)
	case KeywordGraph:
		// 13.4.5)
		g, err := p.expand(activeCtx, KeywordGraph, value, baseURL, expandOptions{})
		if err != nil {
			return err
		}
		result.Graph = nonNil(g)
	case KeywordIncluded:
		// 13.4.6)
		if p.modeLD10 {
			return nil
		}

		if !json.IsMap(value) && !json.IsArray(value) {
			return ErrInvalidIncludedValue
		}

		inc, err := p.expand(activeCtx, activeProp, value, baseURL, expandOptions{})
		if err != nil {
			return err
		}

		for _, item := range inc {
			if !item.IsNode() {
				return ErrInvalidIncludedValue
			}
		}
		result.Included = append(nonNil(result.Included), inc...)
	case KeywordValue:
		// 13.4.7)
		if inputType == KeywordJSON {
			if p.modeLD10 {
				return ErrInvalidValueObjectValue
			}
		} else if k := json.KindOf(value); k == json.KindArray || k == json.KindObject {
			return ErrInvalidValueObjectValue
		}
		result.Value = value
	case KeywordLanguage:
		// 13.4.8)
		s, ok := json.String(value)
		if !ok {
			return ErrInvalidLanguageTaggedString
		}
		result.Language = p.normalizeLanguage(s)
	case KeywordDirection:
		// 13.4.9)
		if p.modeLD10 {
			return nil
		}

		s, ok := json.String(value)
		if !ok {
			return ErrInvalidBaseDirection
		}
		switch s {
		case DirectionLTR, DirectionRTL:
		default:
			return ErrInvalidBaseDirection
		}
		result.Direction = s
	case KeywordIndex:
		// 13.4.10)
		s, ok := json.String(value)
		if !ok {
			return ErrInvalidIndexValue
		}
		result.Index = s
	case KeywordList:
		// 13.4.11)
		if activeProp == "" || activeProp == KeywordGraph {
			return nil
		}

		l, err := p.expand(activeCtx, activeProp, value, baseURL, expandOptions{})
		if err != nil {
			return err
		}
		result.List = nonNil(l)
	case KeywordSet:
		// 13.4.12)
		s, err := p.expand(activeCtx, activeProp, value, baseURL, expandOptions{})
		if err != nil {
			return err
		}
		result.Set = s
	case KeywordReverse:
		// 13.4.13)
		if !json.IsMap(value) {
			return ErrInvalidReverseValue
		}

		rev, err := p.expand(activeCtx, KeywordReverse, value, baseURL, expandOptions{})
		if err != nil {
			return err
		}

		for _, rn := range rev {
			// 13.4.13.3)
			for prop, items := range rn.Reverse {
				result.AddNodes(prop, items...)
			}

			// 13.4.13.4)
			for prop, items := range rn.Properties {
				for _, item := range items {
					if item.IsValue() || item.IsList() {
						return ErrInvalidReversePropertyValue
					}
				}
				result.addReverse(prop, items...)
			}
		}
	default:
		// 13.4.16) 13.4.17) keywords that have no meaning in a node object
		return nil
	}

	result.mark(expProp)
	return nil
}

// expandLanguageMap expands the value of a term with a @language container.
func (p *run) expandLanguageMap(activeCtx *Context, termDef Term, value json.RawMessage) ([]Node, error) {
	members, err := json.Members(value)
	if err != nil {
		return nil, errors.Mark(err, ErrLoadingDocument)
	}
	if p.ordered {
		slices.SortFunc(members, func(a, b json.Member) int {
			return strings.Compare(a.Key, b.Key)
		})
	}

	// 13.7.1)
	result := make([]Node, 0, len(members))

	// 13.7.2)
	dir := cmp.Or(termDef.Direction, activeCtx.defaultDirection)
	if dir == KeywordNull {
		dir = ""
	}

	// 13.7.4)
	for _, m := range members {
		items, err := json.Elements(m.Value)
		if err != nil {
			return nil, ErrInvalidLanguageMapValue
		}

		lang, err := p.expandIRI(activeCtx, m.Key, false, true, nil)
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			// 13.7.4.2.1)
			if json.IsNull(item) {
				continue
			}

			// 13.7.4.2.2)
			if !json.IsString(item) {
				return nil, ErrInvalidLanguageMapValue
			}

			// 13.7.4.2.3)
			v := Node{Value: item, Direction: dir}
			if m.Key != KeywordNone && lang != KeywordNone {
				v.Language = p.normalizeLanguage(m.Key)
			}

			result = append(result, v)
		}
	}

	return result, nil
}

// expandIndexMap expands the value of a term with an @index, @id or @type
// container.
func (p *run) expandIndexMap(
	activeCtx *Context,
	key string,
	termDef Term,
	value json.RawMessage,
	baseURL string,
) ([]Node, error) {
	members, err := json.Members(value)
	if err != nil {
		return nil, errors.Mark(err, ErrLoadingDocument)
	}
	if p.ordered {
		slices.SortFunc(members, func(a, b json.Member) int {
			return strings.Compare(a.Key, b.Key)
		})
	}

	cnt := termDef.Container

	// 13.8.2)
	idxKey := cmp.Or(termDef.Index, KeywordIndex)

	// 13.8.1)
	result := make([]Node, 0, len(members))

	// 13.8.3)
	for _, m := range members {
		idx := m.Key

		// 13.8.3.1)
		mapCtx := activeCtx
		if cnt.Any(ContainerID|ContainerType) && activeCtx.previousContext != nil {
			mapCtx = activeCtx.previousContext
		}

		// 13.8.3.2)
		if cnt.Has(ContainerType) {
			if def, ok := mapCtx.defs[idx]; ok && def.Context != nil {
				nctx, err := p.context(mapCtx, def.Context, def.BaseIRI, newCtxProcessingOpts())
				if err != nil {
					return nil, err
				}
				mapCtx = nctx
			}
		}

		// 13.8.3.4)
		expIdx, err := p.expandIRI(activeCtx, idx, false, true, nil)
		if err != nil {
			return nil, err
		}

		// 13.8.3.5) 13.8.3.6)
		items, err := p.expand(mapCtx, key, json.MakeArray(m.Value), baseURL, expandOptions{fromMap: true})
		if err != nil {
			return nil, err
		}

		// 13.8.3.7)
		for _, item := range items {
			// 13.8.3.7.1)
			if cnt.Has(ContainerGraph) && !item.IsGraph() {
				item = Node{Graph: []Node{item}}
			}

			switch {
			case expIdx == KeywordNone:
			case cnt.Has(ContainerIndex) && idxKey != KeywordIndex:
				// 13.8.3.7.2)
				idxValue, err := json.Marshal(idx)
				if err != nil {
					return nil, err
				}

				reExpIdx, err := p.expandValue(activeCtx, idxKey, idxValue)
				if err != nil {
					return nil, err
				}

				expIdxKey, err := p.expandIRI(activeCtx, idxKey, false, true, nil)
				if err != nil {
					return nil, err
				}

				if item.Has(KeywordValue) {
					return nil, ErrInvalidValueObject
				}

				item.SetNodes(expIdxKey, append(reExpIdx, item.GetNodes(expIdxKey)...)...)
			case cnt.Has(ContainerIndex):
				// 13.8.3.7.3)
				if !item.Has(KeywordIndex) {
					item.Index = idx
				}
			case cnt.Has(ContainerID):
				// 13.8.3.7.4)
				if !item.Has(KeywordID) {
					u, err := p.expandIRI(activeCtx, idx, true, false, nil)
					if err != nil {
						return nil, err
					}
					item.ID = u
				}
			case cnt.Has(ContainerType):
				// 13.8.3.7.5)
				item.Type = append([]string{expIdx}, item.Type...)
			}

			// 13.8.3.7.6)
			result = append(result, item)
		}
	}

	return result, nil
}

// expandValue expands a scalar to a value object, or to a node reference if
// the term is type coerced to @id or @vocab.
func (p *run) expandValue(
	activeCtx *Context,
	activeProp string,
	value json.RawMessage,
) ([]Node, error) {
	termDef := activeCtx.defs[activeProp]

	// 1) 2)
	if s, ok := json.String(value); ok && (termDef.Type == KeywordID || termDef.Type == KeywordVocab) {
		u, err := p.expandIRI(activeCtx, s, true, termDef.Type == KeywordVocab, nil)
		if err != nil {
			return nil, err
		}
		if u == "" {
			return nil, nil
		}
		return []Node{{ID: u}}, nil
	}

	// 3)
	result := Node{Value: value}

	switch termDef.Type {
	case "", KeywordID, KeywordVocab, KeywordNone:
		// 5)
		if json.IsString(value) {
			if lang := cmp.Or(termDef.Language, activeCtx.defaultLang); lang != KeywordNull {
				result.Language = lang
			}
			if dir := cmp.Or(termDef.Direction, activeCtx.defaultDirection); dir != KeywordNull {
				result.Direction = dir
			}
		}
	default:
		// 4)
		result.Type = []string{termDef.Type}
	}

	return []Node{result}, nil
}

func stringElements(in json.RawMessage) []string {
	elems, err := json.Elements(in)
	if err != nil {
		return nil
	}

	res := make([]string, 0, len(elems))
	for _, el := range elems {
		if s, ok := json.String(el); ok {
			res = append(res, s)
		}
	}
	return res
}

func nonNil(n []Node) []Node {
	if n == nil {
		return []Node{}
	}
	return n
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
