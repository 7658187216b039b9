package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slate-lang/slate/internal/ir"
)

func TestParseTypeExpr(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		params []string
		want   ir.Type
	}{
		{
			"bare struct",
			"u32", nil,
			ir.NewApplied(ir.StructID("u32")),
		},
		{
			"parameter becomes bound variable",
			"T", []string{"T"},
			ir.BoundVar{Depth: 0},
		},
		{
			"second parameter",
			"U", []string{"T", "U"},
			ir.BoundVar{Depth: 1},
		},
		{
			"generic application",
			"Vec<T>", []string{"T"},
			ir.NewApplied(ir.StructID("Vec"), ir.BoundVar{Depth: 0}),
		},
		{
			"nested generics",
			"Box<Option<MyList<T>>>", []string{"T"},
			ir.NewApplied(ir.StructID("Box"),
				ir.NewApplied(ir.StructID("Option"),
					ir.NewApplied(ir.StructID("MyList"), ir.BoundVar{Depth: 0}))),
		},
		{
			"multiple arguments with spaces",
			"Map< K , V >", []string{"K", "V"},
			ir.NewApplied(ir.StructID("Map"), ir.BoundVar{Depth: 0}, ir.BoundVar{Depth: 1}),
		},
		{
			"qualified struct name",
			"std::Vec<T>", []string{"T"},
			ir.NewApplied(ir.StructID("std::Vec"), ir.BoundVar{Depth: 0}),
		},
		{
			"shadowing is positional not lexical",
			"Pair<T, Pair<U, T>>", []string{"T", "U"},
			ir.NewApplied(ir.StructID("Pair"),
				ir.BoundVar{Depth: 0},
				ir.NewApplied(ir.StructID("Pair"), ir.BoundVar{Depth: 1}, ir.BoundVar{Depth: 0})),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTypeExpr(tt.src, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTypeExprErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		params []string
	}{
		{"empty", "", nil},
		{"unclosed angle bracket", "Vec<T", []string{"T"}},
		{"missing argument", "Vec<>", nil},
		{"trailing input", "Vec<T> junk", []string{"T"}},
		{"parameter with arguments", "T<U>", []string{"T", "U"}},
		{"lone comma", ",", nil},
		{"dangling comma", "Pair<T,>", []string{"T"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTypeExpr(tt.src, tt.params)
			assert.Error(t, err)
		})
	}
}

func TestParseBoundExpr(t *testing.T) {
	got, err := ParseBoundExpr("T: Clone", []string{"T"})
	require.NoError(t, err)
	assert.Equal(t, ir.Implemented{
		Ref: ir.TraitRef{Trait: "Clone", Args: []ir.Type{ir.BoundVar{Depth: 0}}},
	}, got)

	got, err = ParseBoundExpr("Vec<T>: PartialEq<Vec<U>>", []string{"T", "U"})
	require.NoError(t, err)
	assert.Equal(t, ir.Implemented{
		Ref: ir.TraitRef{Trait: "PartialEq", Args: []ir.Type{
			ir.NewApplied(ir.StructID("Vec"), ir.BoundVar{Depth: 0}),
			ir.NewApplied(ir.StructID("Vec"), ir.BoundVar{Depth: 1}),
		}},
	}, got)
}

func TestParseBoundExprErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing trait", "T:"},
		{"missing colon", "T Clone"},
		{"double bound", "T: Clone: Send"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBoundExpr(tt.src, []string{"T"})
			assert.Error(t, err)
		})
	}
}
