package key_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"iocc/pkg/key"
)

type greeterKind int

const (
	english greeterKind = iota
	chinese
)

func TestKeyTargetAndQualifier(t *testing.T) {
	unit := key.Of[int]()
	name1 := key.Named[int]("name1")
	name2 := key.Named[int]("name2")

	for _, k := range []key.Key{unit.Key, name1.Key, name2.Key} {
		assert.Equal(t, reflect.TypeFor[int](), k.Target())
	}
	assert.Equal(t, key.Unit{}, unit.Qualifier())
	assert.True(t, unit.Unqualified())
	assert.Equal(t, "name1", name1.Qualifier())
	assert.Equal(t, "name2", name2.Qualifier())
	assert.False(t, name1.Unqualified())
}

func TestKeyEquality(t *testing.T) {
	assert.NotEqual(t, key.Of[int]().Key, key.Named[int]("name1").Key)
	assert.NotEqual(t, key.Named[int]("name1").Key, key.Named[int]("name2").Key)
	assert.NotEqual(t, key.Named[int]("x").Key, key.Named[int64]("x").Key)
	assert.Equal(t, key.Named[int]("x").Key, key.Qualified[int]("x").Key)
	assert.Equal(t, key.Of[int]().Key, key.New(reflect.TypeFor[int](), nil))

	// Same qualifier value but different qualifier types.
	assert.NotEqual(t, key.Qualified[int](1).Key, key.Qualified[int](int64(1)).Key)

	seen := map[key.Key]bool{key.Qualified[string](english).Key: true}
	assert.True(t, seen[key.Qualified[string](english).Key])
	assert.False(t, seen[key.Qualified[string](chinese).Key])
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "int@()", key.Of[int]().String())
	assert.Equal(t, `string@"app_name"`, key.Named[string]("app_name").String())
	assert.Equal(t, "int@42", key.Qualified[int](42).String())
	assert.Equal(t, "<nil>", key.Key{}.String())
}

func TestKeyPanicsOnIncomparableQualifier(t *testing.T) {
	require.Panics(t, func() { key.Qualified[int]([]string{"a"}) })
	require.Panics(t, func() { key.New(nil, "x") })
}

func TestSortIsDeterministic(t *testing.T) {
	keys := []key.Key{
		key.Named[int]("b").Key,
		key.Of[int]().Key,
		key.Named[int]("a").Key,
	}
	key.Sort(keys)
	assert.Equal(t, []string{`int@"a"`, `int@"b"`, "int@()"}, []string{
		keys[0].String(), keys[1].String(), keys[2].String(),
	})
}

// lookalike renders every value the same way.
type lookalike struct{ n int }

func (lookalike) String() string { return "same" }

func TestSortBreaksTiesOnQualifierValue(t *testing.T) {
	one := key.Qualified[int](lookalike{1}).Key
	two := key.Qualified[int](lookalike{2}).Key
	require.Equal(t, one.String(), two.String())

	for _, keys := range [][]key.Key{{one, two}, {two, one}} {
		key.Sort(keys)
		assert.Equal(t, []key.Key{one, two}, keys)
	}
}
