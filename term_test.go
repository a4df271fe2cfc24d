package ldexpand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sourcery.dny.nu/ldexpand/internal/json"
)

func TestParseTermInput(t *testing.T) {
	t.Run("null", func(t *testing.T) {
		in, err := parseTermInput(json.RawMessage(`null`))
		require.NoError(t, err)
		assert.True(t, in.Null)
		assert.True(t, in.ID.isNull())
	})

	t.Run("simple", func(t *testing.T) {
		in, err := parseTermInput(json.RawMessage(`"https://example.com/a"`))
		require.NoError(t, err)
		assert.True(t, in.Simple)
		assert.Equal(t, some("https://example.com/a"), in.ID)
	})

	t.Run("expanded", func(t *testing.T) {
		in, err := parseTermInput(json.RawMessage(`{
			"@id": null,
			"@type": "@id",
			"@container": ["@set", "@index"],
			"@index": "prop",
			"@context": {"a": "https://example.com/a"},
			"@language": null,
			"@direction": "rtl",
			"@nest": "n",
			"@prefix": true,
			"@protected": false,
			"@foo": 1
		}`))
		require.NoError(t, err)

		assert.False(t, in.Simple)
		assert.True(t, in.ID.isNull())
		assert.Equal(t, some("@id"), in.Type)
		assert.Equal(t, some([]string{"@set", "@index"}), in.Container)
		assert.True(t, in.ContainerArray)
		assert.Equal(t, some("prop"), in.Index)
		assert.JSONEq(t, `{"a": "https://example.com/a"}`, string(in.Context))
		assert.True(t, in.Language.isNull())
		assert.Equal(t, some("rtl"), in.Direction)
		assert.Equal(t, some("n"), in.Nest)
		assert.Equal(t, some(true), in.Prefix)
		assert.Equal(t, some(false), in.Protected)
		assert.Equal(t, []string{"@foo"}, in.Unknown)
		assert.Len(t, in.Keys, 11)
		assert.False(t, in.Reverse.Set)
	})

	errs := []struct {
		name string
		in   string
		err  error
	}{
		{name: "number", in: `5`, err: ErrInvalidTermDefinition},
		{name: "id", in: `{"@id": 5}`, err: ErrInvalidIRIMapping},
		{name: "null type", in: `{"@type": null}`, err: ErrInvalidTypeMapping},
		{name: "reverse", in: `{"@reverse": true}`, err: ErrInvalidIRIMapping},
		{name: "container", in: `{"@container": 5}`, err: ErrInvalidContainerMapping},
		{name: "container array", in: `{"@container": ["@set", 5]}`, err: ErrInvalidContainerMapping},
		{name: "index", in: `{"@index": null}`, err: ErrInvalidTermDefinition},
		{name: "language", in: `{"@language": 5}`, err: ErrInvalidLanguageMapping},
		{name: "direction", in: `{"@direction": "up"}`, err: ErrInvalidBaseDirection},
		{name: "nest", in: `{"@nest": null}`, err: ErrInvalidNestValue},
		{name: "prefix", in: `{"@prefix": "yes"}`, err: ErrInvalidPrefixValue},
		{name: "protected", in: `{"@protected": 1}`, err: ErrInvalidProtectedValue},
	}

	for _, tc := range errs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseTermInput(json.RawMessage(tc.in))
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestTermEquality(t *testing.T) {
	a := Term{IRI: "https://example.com/a", Type: KeywordID, Container: ContainerSet}
	b := a
	b.Protected = true

	assert.True(t, a.equalWithoutProtected(&b))

	b.Context = json.RawMessage(`{}`)
	assert.False(t, a.equalWithoutProtected(&b))

	var zero Term
	assert.True(t, zero.IsZero())
	assert.False(t, (&Term{Protected: true}).IsZero())
	assert.False(t, a.IsZero())
}
