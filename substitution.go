package logic

import (
	"maps"
	"slices"
	"strings"

	"github.com/mailstepcz/slice"
)

// Substitution is an immutable mapping from variables to terms.
// The zero value is the empty substitution.
//
// Substitutions returned by [Unify] are in triangular form: a variable may be bound
// to a term containing variables that are bound by other entries.
// [Substitution.Apply] always resolves such chains, [Substitution.Flatten] removes them.
type Substitution struct {
	bindings map[Var]Term
}

// NewSubstitution builds a substitution from a map of bindings.
// The bindings are unified one by one in the order of variable names,
// so cyclic or conflicting maps are rejected.
func NewSubstitution(bindings map[Var]Term) (Substitution, error) {
	var s Substitution
	for _, v := range slices.Sorted(maps.Keys(bindings)) {
		var err error
		s, err = UnifyVariable(v, bindings[v], s)
		if err != nil {
			return Substitution{}, err
		}
	}
	return s, nil
}

// Len returns the number of bindings.
func (s Substitution) Len() int { return len(s.bindings) }

// Lookup returns the term directly bound to the variable.
func (s Substitution) Lookup(v Var) (Term, bool) {
	t, ok := s.bindings[v]
	return t, ok
}

// Bind returns a copy of the substitution extended with the binding.
func (s Substitution) Bind(v Var, t Term) Substitution {
	bindings := make(map[Var]Term, len(s.bindings)+1)
	maps.Copy(bindings, s.bindings)
	bindings[v] = t
	return Substitution{bindings: bindings}
}

// Vars returns the bound variables sorted by name.
func (s Substitution) Vars() []Var {
	return slices.Sorted(maps.Keys(s.bindings))
}

// Map returns a copy of the bindings.
func (s Substitution) Map() map[Var]Term {
	m := make(map[Var]Term, len(s.bindings))
	maps.Copy(m, s.bindings)
	return m
}

// Apply replaces every bound variable in the term by its resolved value.
func (s Substitution) Apply(t Term) Term {
	switch x := t.(type) {
	case Var:
		if b, ok := s.bindings[x]; ok {
			return s.Apply(b)
		}
		return x
	case *CompoundTerm:
		if x.IsGround() {
			return x
		}
		return &CompoundTerm{Functor: x.Functor, Args: slice.Fmap(s.Apply, x.Args)}
	default:
		return t
	}
}

// Flatten returns the idempotent form of the substitution,
// in which no bound term mentions a bound variable.
func (s Substitution) Flatten() Substitution {
	if len(s.bindings) == 0 {
		return s
	}
	bindings := make(map[Var]Term, len(s.bindings))
	for v, t := range s.bindings {
		bindings[v] = s.Apply(t)
	}
	return Substitution{bindings: bindings}
}

// Equal compares two substitutions binding by binding.
func (s Substitution) Equal(o Substitution) bool {
	return maps.EqualFunc(s.bindings, o.bindings, Equal)
}

func (s Substitution) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, v := range s.Vars() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(v.String())
		sb.WriteString(": ")
		sb.WriteString(s.bindings[v].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
