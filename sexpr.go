package logic

import (
	"github.com/mailstepcz/sexpr"
)

// ParseSymbolicTerm parses a term written as a symbolic expression, e.g. `(Eats x Mango)`.
// The first element of a list is the functor. Identifiers starting with a lowercase letter
// are variables, other identifiers are atoms.
func ParseSymbolicTerm(code string) (Term, error) {
	expr, err := sexpr.Parse(code)
	if err != nil {
		return nil, err
	}
	items := make([]interface{}, 0, len(expr))
	for _, x := range expr {
		items = append(items, x)
	}
	return exprToTerm(items, true)
}

// NewKnowledgeBaseFromSymbolicExpression creates a knowledge base of string facts from a symbolic expression.
// Each element is a list whose head is the consequent followed by the antecedents; a list
// with a single element is a fact:
//
//	(
//		(# comment)
//		((Missile T1))
//		((Weapon T1) (Missile T1))
//	)
func NewKnowledgeBaseFromSymbolicExpression(code string, opts ...Option) (*KnowledgeBase[string], error) {
	expr, err := sexpr.Parse(code)
	if err != nil {
		return nil, err
	}
	kb := NewKnowledgeBase[string](opts...)
	for _, rule := range expr {
		rule, ok := rule.([]interface{})
		if !ok || len(rule) == 0 {
			return nil, ErrIllFormed
		}
		if _, ok := rule[0].(sexpr.Identifier); ok {
			continue
		}
		facts := make([]string, len(rule))
		for i, x := range rule {
			t, err := exprToTerm(x, false)
			if err != nil {
				return nil, err
			}
			if _, ok := t.(*CompoundTerm); !ok {
				return nil, ErrIllFormed
			}
			facts[i] = t.String()
		}
		if len(facts) == 1 {
			kb.AddFact(facts[0])
		} else {
			kb.AddRule(facts[1:], facts[0])
		}
	}
	return kb, nil
}

func exprToTerm(expr interface{}, vars bool) (Term, error) {
	switch x := expr.(type) {
	case sexpr.Identifier:
		if vars && identIsVar(string(x)) {
			return Var(x), nil
		}
		return Atom(x), nil
	case sexpr.QuotedString:
		return String(x), nil
	case []interface{}:
		if len(x) == 0 {
			return Nil{}, nil
		}
		functor, ok := x[0].(sexpr.Identifier)
		if !ok {
			return nil, ErrIllFormed
		}
		args := make([]Term, 0, len(x)-1)
		for _, arg := range x[1:] {
			t, err := exprToTerm(arg, vars)
			if err != nil {
				return nil, err
			}
			args = append(args, t)
		}
		return &CompoundTerm{Functor: string(functor), Args: args}, nil
	default:
		return nil, ErrIllFormed
	}
}
