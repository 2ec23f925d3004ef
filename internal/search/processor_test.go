package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/kotoba/internal/embeddings"
	"github.com/hyperjump/kotoba/internal/vector"
)

func TestParseExpression(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"king", "king", false},
		{"king - man + woman", "king - man + woman", false},
		{"  a  *  b /c ", "", true},
		{"a * b / c", "a * b / c", false},
		{"well-known + fact", "well-known + fact", false},
		{"", "", true},
		{"+ a", "", true},
		{"a +", "", true},
		{"a b", "", true},
		{"a + + b", "", true},
		{"a ^ b", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			expr, err := ParseExpression(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseExpression(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrBadExpression) {
					t.Errorf("error should wrap ErrBadExpression: %v", err)
				}
				return
			}
			if expr.String() != tt.want {
				t.Errorf("String() = %q, want %q", expr.String(), tt.want)
			}
		})
	}
}

func TestExpression_Evaluate(t *testing.T) {
	tbl, err := embeddings.LoadReader(strings.NewReader("king 5 5\nman 1 0\nwoman 0 1\ntwo 2 2"), "calc")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		expr string
		want vector.Vector
	}{
		{"king", vector.Vector{5, 5}},
		{"king - man + woman", vector.Vector{4, 6}},
		{"king * two", vector.Vector{10, 10}},
		{"king / two - man", vector.Vector{1.5, 2.5}},
	}
	for _, tt := range tests {
		expr, err := ParseExpression(tt.expr)
		if err != nil {
			t.Fatal(err)
		}
		got, err := expr.Evaluate(tbl)
		if err != nil {
			t.Fatalf("Evaluate(%q): %v", tt.expr, err)
		}
		if !vector.Equal(got, tt.want) {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}

	expr, _ := ParseExpression("king + queen")
	if _, err := expr.Evaluate(tbl); !errors.Is(err, embeddings.ErrWordNotFound) {
		t.Errorf("expected ErrWordNotFound, got %v", err)
	}
	if words := expr.Words(); len(words) != 2 || words[1] != "queen" {
		t.Errorf("Words() = %v", words)
	}
}
