// Package logic provides two symbolic reasoning primitives:
// syntactic unification of first-order terms and forward chaining over propositional facts.
//
// # Terms
//
// Several kinds of terms can be unified:
//   - variables,
//   - atoms,
//   - strings,
//   - integers and floats,
//   - compound terms.
//
// The kind of a term is fixed when the term is constructed.
// Lists of terms can be defined using special compound terms.
//
// # Unification
//
// The process of unification compares the structures of two terms and finds the most general substitution
// that makes them equal, in case one exists.
// For example, the following two terms can be unified using the given substitution:
//
//	Eats(x, Mango), Eats(Sumit, y)
//	x = Sumit, y = Mango
//
// A variable is never bound to a term containing that variable (occurs-check),
// so unification always terminates and never builds an infinite term.
//
// # Forward chaining
//
// A knowledge base holds ground facts and rules. A rule consists of antecedents,
// which are facts, and a consequent, which is a fact. Inference applies the rules
// in passes until a pass derives no new fact, yielding the closure of the initial facts.
package logic

import (
	"errors"
	"fmt"
)

var (
	// ErrNotUnifiable signifies that two terms have no unifier.
	ErrNotUnifiable = errors.New("not unifiable")
	// ErrSymbolMismatch signifies compound terms with different functors.
	ErrSymbolMismatch = fmt.Errorf("%w: symbol mismatch", ErrNotUnifiable)
	// ErrArityMismatch signifies compound terms with different numbers of arguments.
	ErrArityMismatch = fmt.Errorf("%w: arity mismatch", ErrNotUnifiable)
	// ErrOccursCheck signifies a variable occurring in the term it is to be bound to.
	ErrOccursCheck = fmt.Errorf("%w: occurs check", ErrNotUnifiable)
	// ErrIncompatible signifies terms of incompatible kinds or distinct constants.
	ErrIncompatible = fmt.Errorf("%w: incompatible terms", ErrNotUnifiable)
)

// Unify computes the most general unifier of two terms extending the given substitution.
// On failure it returns an error wrapping [ErrNotUnifiable]; the given substitution is never modified.
func Unify(x, y Term, s Substitution) (Substitution, error) {
	x = s.Apply(x)
	y = s.Apply(y)

	if Equal(x, y) {
		return s, nil
	}

	if v, ok := x.(Var); ok {
		return UnifyVariable(v, y, s)
	}
	if v, ok := y.(Var); ok {
		return UnifyVariable(v, x, s)
	}

	tx, ok1 := asCompound(x)
	ty, ok2 := asCompound(y)
	if ok1 && ok2 {
		if tx.Functor != ty.Functor {
			return Substitution{}, fmt.Errorf("%w: '%s' and '%s'", ErrSymbolMismatch, tx.Functor, ty.Functor)
		}
		if len(tx.Args) != len(ty.Args) {
			return Substitution{}, fmt.Errorf("%w: '%s/%d' and '%s/%d'", ErrArityMismatch, tx.Functor, len(tx.Args), ty.Functor, len(ty.Args))
		}
		for i, arg := range tx.Args {
			var err error
			s, err = Unify(arg, ty.Args[i], s)
			if err != nil {
				return Substitution{}, err
			}
		}
		return s, nil
	}

	return Substitution{}, fmt.Errorf("%w: '%s' and '%s'", ErrIncompatible, x, y)
}

// UnifyVariable unifies a variable with a term extending the given substitution.
func UnifyVariable(v Var, val Term, s Substitution) (Substitution, error) {
	if b, ok := s.Lookup(v); ok {
		return Unify(b, val, s)
	}
	if w, ok := val.(Var); ok {
		if w == v {
			return s, nil
		}
		if b, ok := s.Lookup(w); ok {
			return Unify(v, b, s)
		}
	}
	if occurs(v, val, s) {
		return Substitution{}, fmt.Errorf("%w: '%s' in '%s'", ErrOccursCheck, v, s.Apply(val))
	}
	return s.Bind(v, val), nil
}

func occurs(v Var, t Term, s Substitution) bool {
	switch x := t.(type) {
	case Var:
		if x == v {
			return true
		}
		if b, ok := s.Lookup(x); ok {
			return occurs(v, b, s)
		}
	case *CompoundTerm:
		for _, arg := range x.Args {
			if occurs(v, arg, s) {
				return true
			}
		}
	}
	return false
}
