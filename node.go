package ldexpand

import (
	"reflect"
	"slices"

	"sourcery.dny.nu/ldexpand/internal/json"
)

// Properties maps expanded property IRIs to their values.
type Properties map[string][]Node

// Node is a single object of an expanded document.
//
// Keyword entries are kept in fields of their own, and a field holding its
// zero value means the entry is absent. Whatever keywords are present decide
// if the object is a node, value, list, set or graph object. All other
// entries are in Properties, keyed by expanded IRI.
type Node struct {
	Direction string
	Graph     []Node
	ID        string
	Included  []Node
	Index     string
	Language  string
	List      []Node
	Reverse   Properties
	Set       []Node
	Type      []string
	Value     json.RawMessage

	Properties Properties
}

// Internal is satisfied by any struct type laid out exactly like [Node].
//
// Generic code can take an Internal and convert it to a [Node] directly,
// which lets other packages define their own named node types.
type Internal interface {
	~struct {
		Direction  string
		Graph      []Node
		ID         string
		Included   []Node
		Index      string
		Language   string
		List       []Node
		Reverse    Properties
		Set        []Node
		Type       []string
		Value      json.RawMessage
		Properties Properties
	}
}

// nodeKeywords are the keyword entries a [Node] has a field for.
var nodeKeywords = []string{
	KeywordID,
	KeywordIndex,
	KeywordType,
	KeywordValue,
	KeywordLanguage,
	KeywordDirection,
	KeywordList,
	KeywordGraph,
	KeywordIncluded,
	KeywordSet,
	KeywordReverse,
}

// keywordEntry returns the value kw serialises to, and false if n doesn't
// carry kw. A value object with one type keeps @type as a string.
func (n *Node) keywordEntry(kw string) (any, bool) {
	switch kw {
	case KeywordID:
		return n.ID, n.ID != ""
	case KeywordIndex:
		return n.Index, n.Index != ""
	case KeywordType:
		if n.Value != nil && len(n.Type) == 1 {
			return n.Type[0], true
		}
		return n.Type, n.Type != nil
	case KeywordValue:
		return n.Value, n.Value != nil
	case KeywordLanguage:
		return n.Language, n.Language != ""
	case KeywordDirection:
		return n.Direction, n.Direction != ""
	case KeywordList:
		return n.List, n.List != nil
	case KeywordGraph:
		return n.Graph, n.Graph != nil
	case KeywordIncluded:
		return n.Included, n.Included != nil
	case KeywordSet:
		return n.Set, n.Set != nil
	case KeywordReverse:
		return n.Reverse, n.Reverse != nil
	}
	return nil, false
}

// Has reports if n carries an entry for prop, a keyword or an expanded IRI.
func (n *Node) Has(prop string) bool {
	if n == nil {
		return false
	}
	if _, ok := n.keywordEntry(prop); ok {
		return true
	}
	_, ok := n.Properties[prop]
	return ok
}

// PropertySet returns the keys of every entry on n.
func (n *Node) PropertySet() map[string]struct{} {
	if n == nil {
		return nil
	}

	keys := make(map[string]struct{}, len(n.Properties)+2)
	for _, kw := range nodeKeywords {
		if n.Has(kw) {
			keys[kw] = struct{}{}
		}
	}
	for p := range n.Properties {
		keys[p] = struct{}{}
	}
	return keys
}

// hasOnly reports if n carries key and no entries other than key and allowed.
func (n *Node) hasOnly(key string, allowed ...string) bool {
	if !n.Has(key) {
		return false
	}
	for k := range n.PropertySet() {
		if k != key && !slices.Contains(allowed, k) {
			return false
		}
	}
	return true
}

// Len returns the number of entries on n.
func (n *Node) Len() int {
	return len(n.PropertySet())
}

// IsZero reports if n has no entries at all.
func (n *Node) IsZero() bool {
	return n.Len() == 0
}

// IsNode reports if n is a node object, so neither a value, list nor set
// object.
func (n *Node) IsNode() bool {
	return n != nil && !n.Has(KeywordValue) && !n.Has(KeywordList) && !n.Has(KeywordSet)
}

// IsSubject reports if n has an @id and at least one entry besides @id and
// @index.
func (n *Node) IsSubject() bool {
	return n.Has(KeywordID) && !n.hasOnly(KeywordID, KeywordIndex)
}

// IsSubjectReference reports if n is nothing but an @id, optionally typed.
func (n *Node) IsSubjectReference() bool {
	return n.hasOnly(KeywordID, KeywordType)
}

// IsList reports if n is a list object. Only @index may accompany @list.
func (n *Node) IsList() bool {
	return n.hasOnly(KeywordList, KeywordIndex)
}

// IsValue reports if n is a value object: an @value with at most @type,
// @language, @direction and @index next to it.
//
// Mixing @type with @language or @direction is rejected during expansion,
// not here.
func (n *Node) IsValue() bool {
	return n.hasOnly(KeywordValue, KeywordType, KeywordLanguage, KeywordDirection, KeywordIndex)
}

// IsGraph reports if n is a graph object, which may be named by @id and
// carry an @index.
func (n *Node) IsGraph() bool {
	return n.hasOnly(KeywordGraph, KeywordID, KeywordIndex)
}

// IsSimpleGraph is like [Node.IsGraph] but excludes named graphs.
func (n *Node) IsSimpleGraph() bool {
	return n.hasOnly(KeywordGraph, KeywordIndex)
}

// MarshalJSON writes n in expanded document form.
func (n Node) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(nodeKeywords)+len(n.Properties))
	for _, kw := range nodeKeywords {
		if v, ok := n.keywordEntry(kw); ok {
			obj[kw] = v
		}
	}
	for p, v := range n.Properties {
		obj[p] = v
	}
	return json.Marshal(obj)
}

// GetNodes returns the values of property. For @graph, @included, @list and
// @set it returns the member nodes.
func (n *Node) GetNodes(property string) []Node {
	if n == nil {
		return nil
	}

	switch property {
	case KeywordGraph:
		return n.Graph
	case KeywordIncluded:
		return n.Included
	case KeywordList:
		return n.List
	case KeywordSet:
		return n.Set
	}
	return n.Properties[property]
}

// AddNodes appends nodes to the values of property. The entry is created
// even when nodes is empty.
func (n *Node) AddNodes(property string, nodes ...Node) {
	props := n.props()
	cur := props[property]
	if cur == nil {
		cur = make([]Node, 0, len(nodes))
	}
	props[property] = append(cur, nodes...)
}

// SetNodes replaces the values of property.
func (n *Node) SetNodes(property string, nodes ...Node) {
	n.props()[property] = nodes
}

func (n *Node) props() Properties {
	if n.Properties == nil {
		n.Properties = make(Properties, 1)
	}
	return n.Properties
}

// ValueKind distinguishes the kinds of value objects.
type ValueKind uint8

const (
	ValueNone           ValueKind = iota // not a value object
	ValueLiteral                         // a plain or typed literal
	ValueLanguageString                  // a string with @language or @direction
	ValueJSON                            // a JSON literal
)

// ValueKind returns the kind of value object the node is.
func (n *Node) ValueKind() ValueKind {
	switch {
	case !n.IsValue():
		return ValueNone
	case slices.Equal(n.Type, []string{KeywordJSON}):
		return ValueJSON
	case n.Has(KeywordLanguage) || n.Has(KeywordDirection):
		return ValueLanguageString
	default:
		return ValueLiteral
	}
}

// Equivalent reports if two nodes describe the same thing.
//
// Value and list objects are compared by their contents, @index included.
// Node objects are equivalent if they have the same @id. A node object
// without an @id is never equivalent to anything, not even itself.
func (n *Node) Equivalent(o *Node) bool {
	if n == nil || o == nil {
		return false
	}

	switch {
	case n.IsValue() && o.IsValue():
		return n.Index == o.Index &&
			n.Language == o.Language &&
			n.Direction == o.Direction &&
			slices.Equal(n.Type, o.Type) &&
			jsonEqual(n.Value, o.Value)
	case n.IsList() && o.IsList():
		if n.Index != o.Index || len(n.List) != len(o.List) {
			return false
		}
		for i := range n.List {
			if !n.List[i].Equivalent(&o.List[i]) {
				return false
			}
		}
		return true
	case n.IsValue(), o.IsValue(), n.IsList(), o.IsList():
		return false
	default:
		return n.ID != "" && n.ID == o.ID
	}
}

func jsonEqual(a, b json.RawMessage) bool {
	var x, y any
	if err := json.Unmarshal(a, &x); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &y); err != nil {
		return false
	}
	return reflect.DeepEqual(x, y)
}
