package logic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Term is a first-order term.
type Term interface {
	fmt.Stringer
	// IsGround returns whether the term contains no variables.
	IsGround() bool
}

// Var is a logic variable identified by its name.
type Var string

func (v Var) String() string { return string(v) }

// IsGround returns false, a variable is never ground.
func (v Var) IsGround() bool { return false }

// Atom is a constant symbol.
type Atom string

func (a Atom) String() string { return string(a) }

// IsGround returns whether the value is ground.
func (a Atom) IsGround() bool { return true }

// String is a string constant.
type String string

func (s String) String() string { return strconv.Quote(string(s)) }

// IsGround returns whether the value is ground.
func (s String) IsGround() bool { return true }

// Integer is an integer constant.
type Integer int

func (i Integer) String() string { return strconv.Itoa(int(i)) }

// IsGround returns whether the value is ground.
func (i Integer) IsGround() bool { return true }

// Float is a float constant.
type Float float64

func (f Float) String() string { return fmt.Sprintf("%f", f) }

// IsGround returns whether the value is ground.
func (f Float) IsGround() bool { return true }

// Nil is a nil value. Nils are empty lists.
type Nil struct{}

func (n Nil) String() string { return "[]" }

// IsGround returns whether the value is ground.
func (n Nil) IsGround() bool { return true }

// CompoundTerm is a compound term.
// A compound term without arguments is matched like a constant.
type CompoundTerm struct {
	Functor string
	Args    []Term
}

// Compound returns a new compound term.
func Compound(functor string, args ...Term) *CompoundTerm {
	return &CompoundTerm{Functor: functor, Args: args}
}

func (t *CompoundTerm) String() string {
	var sb strings.Builder
	if t.Functor == "." && len(t.Args) == 2 {
		sb.WriteRune('[')
		sb.WriteString(t.Args[0].String())
		sb.WriteRune('|')
		sb.WriteString(t.Args[1].String())
		sb.WriteRune(']')
	} else {
		sb.WriteString(t.Functor)
		if len(t.Args) > 0 {
			sb.WriteRune('(')
			for i, arg := range t.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(arg.String())
			}
			sb.WriteRune(')')
		}
	}
	return sb.String()
}

// IsGround returns whether the value is ground.
func (t *CompoundTerm) IsGround() bool {
	for _, arg := range t.Args {
		if !arg.IsGround() {
			return false
		}
	}
	return true
}

// Arity returns the number of arguments.
func (t *CompoundTerm) Arity() int { return len(t.Args) }

func asCompound(t Term) (*CompoundTerm, bool) {
	c, ok := t.(*CompoundTerm)
	if !ok || len(c.Args) == 0 {
		return nil, false
	}
	return c, true
}

// Equal compares two terms structurally.
func Equal(a, b Term) bool {
	ca, ok1 := a.(*CompoundTerm)
	cb, ok2 := b.(*CompoundTerm)
	if ok1 != ok2 {
		return false
	}
	if !ok1 {
		return a == b
	}
	if ca == cb {
		return true
	}
	if ca.Functor != cb.Functor || len(ca.Args) != len(cb.Args) {
		return false
	}
	for i, arg := range ca.Args {
		if !Equal(arg, cb.Args[i]) {
			return false
		}
	}
	return true
}

// Vars returns the variables of a term in order of first occurrence.
func Vars(t Term) []Var {
	var (
		vars []Var
		seen = make(map[Var]bool)
	)
	var walk func(Term)
	walk = func(t Term) {
		switch x := t.(type) {
		case Var:
			if !seen[x] {
				seen[x] = true
				vars = append(vars, x)
			}
		case *CompoundTerm:
			for _, arg := range x.Args {
				walk(arg)
			}
		}
	}
	walk(t)
	return vars
}

// StandardizeApart renames the variables of a term to fresh ones.
// It returns the renamed term and the renaming.
func StandardizeApart(t Term) (Term, Substitution) {
	var renaming Substitution
	for _, v := range Vars(t) {
		renaming = renaming.Bind(v, Var(string(v)+"_"+uuid.NewString()))
	}
	return renaming.Apply(t), renaming
}

// List returns a list term with a nil tail.
func List(vals ...Term) Term {
	return ListWithTail(vals, Nil{})
}

// ListWithTail returns a list term with the given tail.
func ListWithTail(vals []Term, tail Term) Term {
	if len(vals) == 0 {
		return tail
	}
	return &CompoundTerm{Functor: ".", Args: []Term{vals[0], ListWithTail(vals[1:], tail)}}
}

// ListElements returns the elements of a proper list term.
func ListElements(t Term) ([]Term, error) {
	var list []Term
	for {
		switch x := t.(type) {
		case *CompoundTerm:
			if x.Functor == "." && len(x.Args) == 2 {
				list = append(list, x.Args[0])
				t = x.Args[1]
			} else {
				return nil, fmt.Errorf("invalid list value (bad functor or arity): %s", x)
			}
		case Nil:
			return list, nil
		default:
			return nil, fmt.Errorf("invalid list value (bad type): %s", t)
		}
	}
}
