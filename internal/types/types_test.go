package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_Primitives(t *testing.T) {
	m := NewManager()
	assert.True(t, m.IsInteger(m.CreateInteger()))
	assert.True(t, m.IsFloat(m.CreateFloat()))
	assert.True(t, m.IsCharacter(m.CreateCharacter()))
	assert.True(t, m.IsBoolean(m.CreateBoolean()))
	assert.True(t, m.IsVoid(m.CreateVoid()))
	assert.True(t, m.IsError(m.CreateError()))
	assert.Equal(t, m.CreateInteger(), m.CreateInteger(), "primitives must be interned")
}

func TestManager_NumericAndPrimitive(t *testing.T) {
	m := NewManager()
	assert.True(t, m.IsNumeric(m.CreateInteger()))
	assert.True(t, m.IsNumeric(m.CreateFloat()))
	assert.False(t, m.IsNumeric(m.CreateBoolean()))
	assert.True(t, m.IsPrimitive(m.CreateBoolean()))
	assert.False(t, m.IsPrimitive(m.CreateArray(m.CreateInteger(), 5)))
}

func TestManager_ArrayAccessors(t *testing.T) {
	m := NewManager()
	arr := m.CreateArray(m.CreateInteger(), 5)
	assert.True(t, m.IsArray(arr))
	assert.Equal(t, m.CreateInteger(), m.ArrayElem(arr))
	assert.Equal(t, 5, m.ArraySize(arr))
	assert.Equal(t, 5, m.SizeOf(arr))
	assert.Equal(t, 1, m.SizeOf(m.CreateInteger()))
}

func TestManager_FunctionAccessors(t *testing.T) {
	m := NewManager()
	fn := m.CreateFunction([]TypeId{m.CreateInteger(), m.CreateFloat()}, m.CreateVoid())
	assert.True(t, m.IsFunction(fn))
	assert.True(t, m.IsVoidFunction(fn))
	assert.Equal(t, []TypeId{m.CreateInteger(), m.CreateFloat()}, m.FuncParams(fn))
	assert.Equal(t, m.CreateVoid(), m.FuncReturn(fn))
}

func TestManager_Copyable(t *testing.T) {
	m := NewManager()
	tests := []struct {
		name     string
		dst, src TypeId
		want     bool
	}{
		{"equal primitive", m.CreateInteger(), m.CreateInteger(), true},
		{"int to float widening", m.CreateFloat(), m.CreateInteger(), true},
		{"float to int narrowing rejected", m.CreateInteger(), m.CreateFloat(), false},
		{"mismatched primitives", m.CreateInteger(), m.CreateBoolean(), false},
		{"error absorbs", m.CreateError(), m.CreateBoolean(), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, m.Copyable(tc.dst, tc.src))
		})
	}

	arrA := m.CreateArray(m.CreateInteger(), 5)
	arrB := m.CreateArray(m.CreateInteger(), 5)
	arrC := m.CreateArray(m.CreateInteger(), 3)
	assert.True(t, m.Copyable(arrA, arrB), "matching element and size")
	assert.False(t, m.Copyable(arrA, arrC), "mismatched size")
}

func TestManager_Comparable(t *testing.T) {
	m := NewManager()
	assert.True(t, m.Comparable(m.CreateInteger(), m.CreateFloat(), "<"))
	assert.False(t, m.Comparable(m.CreateBoolean(), m.CreateBoolean(), "<"))
	assert.True(t, m.Comparable(m.CreateBoolean(), m.CreateBoolean(), "="))
	assert.True(t, m.Comparable(m.CreateInteger(), m.CreateFloat(), "!="))
	assert.False(t, m.Comparable(m.CreateCharacter(), m.CreateBoolean(), "="))
}

func TestManager_ToString(t *testing.T) {
	m := NewManager()
	assert.Equal(t, "int", m.ToString(m.CreateInteger()))
	assert.Equal(t, "array<5,int>", m.ToString(m.CreateArray(m.CreateInteger(), 5)))
}
