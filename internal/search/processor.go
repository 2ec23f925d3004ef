package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/kotoba/internal/embeddings"
	"github.com/hyperjump/kotoba/internal/vector"
)

// ErrBadExpression is returned for a word expression that does not parse.
var ErrBadExpression = errors.New("bad expression")

// Step applies Op with Word to the running vector.
type Step struct {
	Op   byte
	Word string
}

// Expression is a word followed by operator/word steps, evaluated left to right
// with no precedence: "king - man + woman".
type Expression struct {
	First string
	Steps []Step
}

// ParseExpression splits s on whitespace into alternating words and operators.
// Operators are + - * / and must stand alone so hyphenated words stay intact.
func ParseExpression(s string) (*Expression, error) {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadExpression)
	}
	if len(tokens)%2 == 0 {
		return nil, fmt.Errorf("%w: %q ends with an operator or is missing one", ErrBadExpression, s)
	}
	if isOperator(tokens[0]) {
		return nil, fmt.Errorf("%w: must start with a word", ErrBadExpression)
	}

	expr := &Expression{First: tokens[0]}
	for i := 1; i < len(tokens); i += 2 {
		op, word := tokens[i], tokens[i+1]
		if !isOperator(op) {
			return nil, fmt.Errorf("%w: expected an operator at %q", ErrBadExpression, op)
		}
		if isOperator(word) {
			return nil, fmt.Errorf("%w: expected a word after %q", ErrBadExpression, op)
		}
		expr.Steps = append(expr.Steps, Step{Op: op[0], Word: word})
	}
	return expr, nil
}

func isOperator(tok string) bool {
	return len(tok) == 1 && strings.ContainsAny(tok, "+-*/")
}

// String returns the canonical spelling, one space around each operator.
func (e *Expression) String() string {
	var b strings.Builder
	b.WriteString(e.First)
	for _, s := range e.Steps {
		b.WriteByte(' ')
		b.WriteByte(s.Op)
		b.WriteByte(' ')
		b.WriteString(s.Word)
	}
	return b.String()
}

// Words returns every word the expression refers to, in order.
func (e *Expression) Words() []string {
	out := make([]string, 0, len(e.Steps)+1)
	out = append(out, e.First)
	for _, s := range e.Steps {
		out = append(out, s.Word)
	}
	return out
}

// Evaluate resolves the expression against t.
func (e *Expression) Evaluate(t *embeddings.Table) (vector.Vector, error) {
	acc, err := t.VectorOf(e.First)
	if err != nil {
		return nil, err
	}
	for _, s := range e.Steps {
		next := embeddings.Word(s.Word)
		switch s.Op {
		case '+':
			acc, err = t.Add(embeddings.Vec(acc), next)
		case '-':
			acc, err = t.Subtract(embeddings.Vec(acc), next)
		case '*':
			acc, err = t.Multiply(embeddings.Vec(acc), next)
		case '/':
			acc, err = t.Divide(embeddings.Vec(acc), next)
		default:
			err = fmt.Errorf("%w: unknown operator %q", ErrBadExpression, s.Op)
		}
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
