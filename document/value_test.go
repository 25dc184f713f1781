package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obj(kv ...any) Value {
	o := NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		o.Set(kv[i].(string), kv[i+1].(Value))
	}
	return ObjectValue(o)
}

func TestObjectOrder(t *testing.T) {
	o := NewObject()
	o.Set("b", Int(1))
	o.Set("a", Int(2))
	o.Set("c", Int(3))
	o.Set("a", Int(20))

	assert.Equal(t, []string{"b", "a", "c"}, o.Keys())
	v, ok := o.Get("a")
	require.True(t, ok)
	assert.Equal(t, "20", v.str)

	assert.True(t, o.Delete("a"))
	assert.False(t, o.Delete("a"))
	assert.Equal(t, []string{"b", "c"}, o.Keys())
	assert.Equal(t, 2, o.Len())

	var seen []string
	o.Each(func(k string, _ Value) bool {
		seen = append(seen, k)
		return false
	})
	assert.Equal(t, []string{"b"}, seen)
}

func TestNilObject(t *testing.T) {
	var o *Object
	assert.Equal(t, 0, o.Len())
	assert.Nil(t, o.Keys())
	_, ok := o.Get("x")
	assert.False(t, ok)
	assert.Equal(t, 0, o.Clone().Len())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"nulls", Null(), Null(), true},
		{"kind mismatch", String("1"), Int(1), false},
		{"bools", Bool(true), Bool(false), false},
		{"integer and float literal", Number("1"), Number("1.0"), true},
		{"exponent", Number("1e3"), Number("1000"), true},
		{"different numbers", Number("1"), Number("2"), false},
		{"object order ignored", obj("a", Int(1), "b", Int(2)), obj("b", Int(2), "a", Int(1)), true},
		{"object member differs", obj("a", Int(1)), obj("a", Int(2)), false},
		{"object extra member", obj("a", Int(1)), obj("a", Int(1), "b", Null()), false},
		{"array order matters", Array(Int(1), Int(2)), Array(Int(2), Int(1)), false},
		{"nested", Array(obj("x", Array(String("y")))), Array(obj("x", Array(String("y")))), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
			assert.Equal(t, tt.want, Equal(tt.b, tt.a))
		})
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := obj("list", Array(obj("k", String("v"))))
	c := orig.Clone()
	require.True(t, Equal(orig, c))

	list, _ := c.Field("list")
	items, _ := list.AsArray()
	inner, _ := items[0].AsObject()
	inner.Set("k", String("changed"))

	assert.False(t, Equal(orig, c))
	got, _ := orig.Lookup([]string{"list", "0", "k"})
	assert.Equal(t, String("v"), got)
}

func TestLookup(t *testing.T) {
	v := obj("a", Array(Int(1), obj("b", String("x"))))

	got, ok := v.Lookup([]string{"a", "1", "b"})
	require.True(t, ok)
	s, _ := got.AsString()
	assert.Equal(t, "x", s)

	_, ok = v.Lookup([]string{"a", "5"})
	assert.False(t, ok)
	_, ok = v.Lookup([]string{"a", "x"})
	assert.False(t, ok)
	_, ok = v.Lookup([]string{"missing"})
	assert.False(t, ok)
}

func TestStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Array(String("a"), Int(1), String("b")).Strings())
	assert.Nil(t, String("a").Strings())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "object", KindObject.String())
	assert.Equal(t, "number", Int(3).Kind().String())
	assert.Equal(t, "unknown", Kind(99).String())
}
