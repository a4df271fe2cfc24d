package ldexpand

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcery.dny.nu/ldexpand/internal/json"
)

func TestContextCopyOnWrite(t *testing.T) {
	orig := newContext("https://example.com/")
	orig.setTerm("a", Term{IRI: "https://example.com/a"})

	c := orig.clone()
	assert.True(t, c.sharedDefs)

	c.setTerm("b", Term{IRI: "https://example.com/b"})
	assert.False(t, c.sharedDefs)

	_, ok := orig.Term("b")
	assert.False(t, ok, "clone leaked into original")

	_, ok = c.Term("a")
	assert.True(t, ok, "clone lost inherited term")

	d := orig.clone()
	d.deleteTerm("a")

	_, ok = orig.Term("a")
	assert.True(t, ok, "delete on clone leaked into original")

	_, ok = d.Term("a")
	assert.False(t, ok)

	t.Run("delete unknown term keeps sharing", func(t *testing.T) {
		e := orig.clone()
		e.deleteTerm("nope")
		assert.True(t, e.sharedDefs)
	})

	t.Run("term map is a copy", func(t *testing.T) {
		m := orig.TermMap()
		delete(m, "a")

		_, ok := orig.Term("a")
		assert.True(t, ok)
	})
}

func TestContextState(t *testing.T) {
	c := newContext("https://example.com/doc")
	assert.True(t, c.isBlank())
	assert.False(t, c.hasProtected())
	assert.Equal(t, "https://example.com/doc", c.BaseIRI())
	assert.Equal(t, "https://example.com/doc", c.OriginalBaseIRI())

	c.vocabMapping = "https://example.com/vocab#"
	assert.False(t, c.isBlank())

	c.setTerm("p", Term{IRI: "https://example.com/p", Protected: true})
	assert.True(t, c.hasProtected())
}

func TestProcessContextSource(t *testing.T) {
	p := NewProcessor()

	res, err := p.Context(context.Background(), json.RawMessage(`{ "a" : "https://example.com/a" }`), "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"https://example.com/a"}`, string(res.Source()))
	assert.Nil(t, res.Previous())
}

func TestContextPropagate(t *testing.T) {
	r := NewProcessor().begin(context.Background())

	active, err := r.context(nil, json.RawMessage(`{"a": "https://example.com/a"}`), "", newCtxProcessingOpts())
	require.NoError(t, err)

	res, err := r.context(active, json.RawMessage(`{"@propagate": false, "b": "https://example.com/b"}`), "", newCtxProcessingOpts())
	require.NoError(t, err)
	require.NotNil(t, res.Previous())
	assert.Same(t, active, res.Previous())

	_, err = r.context(active, json.RawMessage(`{"@propagate": "no"}`), "", newCtxProcessingOpts())
	require.ErrorIs(t, err, ErrInvalidPropagateValue)
}

func TestExpandIRI(t *testing.T) {
	r := NewProcessor().begin(context.Background())

	active, err := r.context(nil, json.RawMessage(`{
		"@base": "https://example.com/base/",
		"@vocab": "https://example.com/vocab#",
		"ex": "https://example.com/ns#",
		"name": "ex:name",
		"id": "@id"
	}`), "", newCtxProcessingOpts())
	require.NoError(t, err)

	tests := []struct {
		name     string
		value    string
		relative bool
		vocab    bool
		want     string
	}{
		{name: "keyword", value: "@type", want: "@type"},
		{name: "keyword lookalike", value: "@foo", vocab: true, want: ""},
		{name: "alias", value: "id", vocab: true, want: "@id"},
		{name: "term", value: "name", vocab: true, want: "https://example.com/ns#name"},
		{name: "term without vocab", value: "name", relative: true, want: "https://example.com/base/name"},
		{name: "compact IRI", value: "ex:thing", want: "https://example.com/ns#thing"},
		{name: "absolute IRI", value: "https://other.example/x", vocab: true, want: "https://other.example/x"},
		{name: "blank node", value: "_:b0", vocab: true, want: "_:b0"},
		{name: "vocab", value: "other", vocab: true, want: "https://example.com/vocab#other"},
		{name: "relative", value: "../x", relative: true, want: "https://example.com/x"},
		{name: "unchanged", value: "other", want: "other"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.expandIRI(active, tc.value, tc.relative, tc.vocab, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
