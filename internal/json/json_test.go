package json

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := map[string]Kind{
		`null`:   KindNull,
		`true`:   KindBool,
		`false`:  KindBool,
		`-1.5`:   KindNumber,
		`0`:      KindNumber,
		`"x"`:    KindString,
		` [1]`:   KindArray,
		"\n{}":   KindObject,
		``:       KindInvalid,
		`?`:      KindInvalid,
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, KindOf(RawMessage(in)))
		})
	}

	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "invalid", KindInvalid.String())
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]byte("{ \"a\" :\n [ 1, 2 ] }"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,2]}`, string(out))

	_, err = Normalize([]byte(`{"a":`))
	require.Error(t, err)
}

func TestScalars(t *testing.T) {
	s, ok := String(RawMessage(`"a\"b"`))
	assert.True(t, ok)
	assert.Equal(t, `a"b`, s)

	_, ok = String(RawMessage(`5`))
	assert.False(t, ok)

	b, ok := Bool(RawMessage(`true`))
	assert.True(t, ok)
	assert.True(t, b)

	_, ok = Bool(RawMessage(`"true"`))
	assert.False(t, ok)

	assert.True(t, IsNull(RawMessage(`null`)))
	assert.False(t, IsNull(RawMessage(`"null"`)))
	assert.True(t, IsEmptyArray(RawMessage(` [] `)))
	assert.False(t, IsEmptyArray(RawMessage(`[1]`)))
	assert.True(t, IsScalar(RawMessage(`1`)))
	assert.False(t, IsScalar(RawMessage(`null`)))
	assert.False(t, IsScalar(RawMessage(`{}`)))
}

func TestElements(t *testing.T) {
	elems, err := Elements(RawMessage(`[1, "a", null]`))
	require.NoError(t, err)
	assert.Equal(t, []RawMessage{RawMessage(`1`), RawMessage(`"a"`), RawMessage(`null`)}, elems)

	elems, err = Elements(RawMessage(`[]`))
	require.NoError(t, err)
	assert.NotNil(t, elems)
	assert.Empty(t, elems)

	elems, err = Elements(RawMessage(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, []RawMessage{RawMessage(`{"a": 1}`)}, elems)
}

func TestStrings(t *testing.T) {
	s, ok := Strings(RawMessage(`"a"`))
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, s)

	s, ok = Strings(RawMessage(`["a", "b"]`))
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, s)

	_, ok = Strings(RawMessage(`["a", 1]`))
	assert.False(t, ok)
}

func TestMakeArray(t *testing.T) {
	assert.Equal(t, `[]`, string(MakeArray(nil)))
	assert.Equal(t, `[1]`, string(MakeArray(RawMessage(`[1]`))))
	assert.Equal(t, `["a"]`, string(MakeArray(RawMessage(`"a"`))))
}

func TestMembers(t *testing.T) {
	members, err := Members(RawMessage(`{"z": 1, "a": {"n": [1]}, "z": 2}`))
	require.NoError(t, err)
	assert.Equal(t, []Member{
		{Key: "z", Value: RawMessage(`2`)},
		{Key: "a", Value: RawMessage(`{"n": [1]}`)},
	}, members)

	obj := ObjectOf(members)
	assert.Equal(t, RawMessage(`2`), obj["z"])

	_, err = Members(RawMessage(`[1]`))
	require.ErrorIs(t, err, ErrNotObject)

	members, err = Members(RawMessage(`{}`))
	require.NoError(t, err)
	assert.Empty(t, members)
}
