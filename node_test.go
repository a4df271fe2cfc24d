package ldexpand

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sourcery.dny.nu/ldexpand/internal/json"
)

func TestNodeKinds(t *testing.T) {
	value := Node{Value: json.RawMessage(`"x"`)}
	list := Node{List: []Node{}}
	graph := Node{Graph: []Node{}}
	subject := Node{
		ID:         "https://example.com/a",
		Properties: Properties{"https://example.com/p": {{Value: json.RawMessage(`1`)}}},
	}
	ref := Node{ID: "https://example.com/a", Type: []string{"https://example.com/T"}}

	assert.True(t, value.IsValue())
	assert.False(t, value.IsNode())

	assert.True(t, list.IsList())
	assert.False(t, list.IsNode())

	assert.True(t, graph.IsGraph())
	assert.True(t, graph.IsSimpleGraph())

	named := Node{ID: "https://example.com/g", Graph: []Node{}}
	assert.True(t, named.IsGraph())
	assert.False(t, named.IsSimpleGraph())

	assert.True(t, subject.IsSubject())
	assert.False(t, subject.IsSubjectReference())
	assert.True(t, ref.IsSubjectReference())

	mixed := Node{Value: json.RawMessage(`"x"`), ID: "https://example.com/a"}
	assert.False(t, mixed.IsValue())
	assert.False(t, mixed.IsSubjectReference())

	indexed := Node{List: []Node{}, Index: "i"}
	assert.True(t, indexed.IsList())

	var nilNode *Node
	assert.False(t, nilNode.IsNode())
	assert.False(t, nilNode.IsValue())
	assert.True(t, nilNode.IsZero())
	assert.Nil(t, nilNode.GetNodes(KeywordGraph))

	var zero Node
	assert.True(t, zero.IsZero())
	assert.Equal(t, 0, zero.Len())
	assert.Equal(t, 2, subject.Len())
}

func TestNodeProperties(t *testing.T) {
	var n Node
	assert.False(t, n.Has("https://example.com/p"))
	assert.Nil(t, n.GetNodes("https://example.com/p"))

	n.AddNodes("https://example.com/p", Node{ID: "https://example.com/a"})
	n.AddNodes("https://example.com/p", Node{ID: "https://example.com/b"})
	assert.True(t, n.Has("https://example.com/p"))
	assert.Len(t, n.GetNodes("https://example.com/p"), 2)

	n.SetNodes("https://example.com/p", Node{ID: "https://example.com/c"})
	assert.Equal(t, []Node{{ID: "https://example.com/c"}}, n.GetNodes("https://example.com/p"))

	n.AddNodes("https://example.com/empty")
	assert.True(t, n.Has("https://example.com/empty"))
	assert.Empty(t, n.GetNodes("https://example.com/empty"))

	assert.Equal(t, map[string]struct{}{
		"https://example.com/p":     {},
		"https://example.com/empty": {},
	}, n.PropertySet())
}

func TestNodeMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{
			name: "typed value",
			node: Node{Value: json.RawMessage(`"2020"`), Type: []string{"http://www.w3.org/2001/XMLSchema#gYear"}},
			want: `{"@value": "2020", "@type": "http://www.w3.org/2001/XMLSchema#gYear"}`,
		},
		{
			name: "language string",
			node: Node{Value: json.RawMessage(`"hi"`), Language: "en", Direction: "ltr", Index: "i"},
			want: `{"@value": "hi", "@language": "en", "@direction": "ltr", "@index": "i"}`,
		},
		{
			name: "node",
			node: Node{
				ID:         "https://example.com/a",
				Type:       []string{"https://example.com/T"},
				Reverse:    Properties{"https://example.com/r": {{ID: "https://example.com/b"}}},
				Properties: Properties{"https://example.com/p": {{List: []Node{}}}},
			},
			want: `{
				"@id": "https://example.com/a",
				"@type": ["https://example.com/T"],
				"@reverse": {"https://example.com/r": [{"@id": "https://example.com/b"}]},
				"https://example.com/p": [{"@list": []}]
			}`,
		},
		{
			name: "graph with included",
			node: Node{Graph: []Node{}, Included: []Node{{ID: "https://example.com/i"}}},
			want: `{"@graph": [], "@included": [{"@id": "https://example.com/i"}]}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.node)
			assert.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestNodeValueKind(t *testing.T) {
	assert.Equal(t, ValueNone, (&Node{ID: "https://example.com/a"}).ValueKind())
	assert.Equal(t, ValueLiteral, (&Node{Value: json.RawMessage(`5`)}).ValueKind())
	assert.Equal(t, ValueLanguageString, (&Node{Value: json.RawMessage(`"x"`), Language: "en"}).ValueKind())
	assert.Equal(t, ValueLanguageString, (&Node{Value: json.RawMessage(`"x"`), Direction: "rtl"}).ValueKind())
	assert.Equal(t, ValueJSON, (&Node{Value: json.RawMessage(`{}`), Type: []string{KeywordJSON}}).ValueKind())
}

func TestNodeEquivalent(t *testing.T) {
	tests := []struct {
		name string
		a, b Node
		want bool
	}{
		{
			name: "same id",
			a:    Node{ID: "https://example.com/a"},
			b:    Node{ID: "https://example.com/a", Type: []string{"https://example.com/T"}},
			want: true,
		},
		{
			name: "no id",
			a:    Node{Type: []string{"https://example.com/T"}},
			b:    Node{Type: []string{"https://example.com/T"}},
			want: false,
		},
		{
			name: "values with different formatting",
			a:    Node{Value: json.RawMessage(`{"a": 1, "b": 2}`), Type: []string{KeywordJSON}},
			b:    Node{Value: json.RawMessage(`{"b":2,"a":1}`), Type: []string{KeywordJSON}},
			want: true,
		},
		{
			name: "values with different language",
			a:    Node{Value: json.RawMessage(`"x"`), Language: "en"},
			b:    Node{Value: json.RawMessage(`"x"`), Language: "nl"},
			want: false,
		},
		{
			name: "lists",
			a:    Node{List: []Node{{Value: json.RawMessage(`1`)}}},
			b:    Node{List: []Node{{Value: json.RawMessage(`1`)}}},
			want: true,
		},
		{
			name: "lists of different length",
			a:    Node{List: []Node{{Value: json.RawMessage(`1`)}}},
			b:    Node{List: []Node{}},
			want: false,
		},
		{
			name: "value and node",
			a:    Node{Value: json.RawMessage(`"https://example.com/a"`)},
			b:    Node{ID: "https://example.com/a"},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Equivalent(&tc.b))
			assert.Equal(t, tc.want, tc.b.Equivalent(&tc.a))
		})
	}

	var nilNode *Node
	assert.False(t, nilNode.Equivalent(&Node{ID: "https://example.com/a"}))
}
