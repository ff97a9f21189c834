package logic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/phomola/lrparser"
	"github.com/phomola/textkit"
)

// ErrIllFormed signifies a parse error.
var ErrIllFormed = errors.New("parse error")

var (
	termSynSems = []*lrparser.SynSem{
		{Syn: `Term -> ident`, Sem: func(args []any) any { return &ASTIdent{Name: args[0].(string)} }},
		{Syn: `Term -> ident "(" Exprs ")"`, Sem: func(args []any) any {
			return &ASTTerm{Functor: args[0].(string), Args: args[2].([]ASTExpr)}
		}},
		{Syn: `Term -> string`, Sem: func(args []any) any { return &ASTString{Value: args[0].(string)} }},
		{Syn: `Term -> integer`, Sem: func(args []any) any { return &ASTInteger{Value: args[0].(int)} }},
		{Syn: `Term -> "[" "]"`, Sem: func(args []any) any { return new(ASTNil) }},
		{Syn: `Term -> "[" Exprs "]"`, Sem: func(args []any) any {
			return termFromList(args[1].([]ASTExpr), new(ASTNil))
		}},
		{Syn: `Term -> "[" Exprs "|" Term "]"`, Sem: func(args []any) any {
			return termFromList(args[1].([]ASTExpr), args[3].(ASTExpr))
		}},
		{Syn: `Exprs -> Exprs "," Term`, Sem: func(args []any) any {
			return append(args[0].([]ASTExpr), args[2].(ASTExpr))
		}},
		{Syn: `Exprs -> Term`, Sem: func(args []any) any { return []ASTExpr{args[0].(ASTExpr)} }},
	}

	termGrammar = lrparser.NewGrammar(lrparser.MustBuildRules(append([]*lrparser.SynSem{
		{Syn: `Init -> Term`, Sem: func(args []any) any { return args[0] }},
	}, termSynSems...)))

	kbGrammar = lrparser.NewGrammar(lrparser.MustBuildRules(append([]*lrparser.SynSem{
		{Syn: `Init -> Stmts`, Sem: func(args []any) any { return args[0] }},
		{Syn: `Stmts -> Stmts Stmt`, Sem: func(args []any) any { return append(args[0].([]*ASTRule), args[1].(*ASTRule)) }},
		{Syn: `Stmts -> Stmt`, Sem: func(args []any) any { return []*ASTRule{args[0].(*ASTRule)} }},
		{Syn: `Stmt -> Term "."`, Sem: func(args []any) any { return &ASTRule{Head: args[0].(ASTExpr)} }},
		{Syn: `Stmt -> Term ":-" Terms "."`, Sem: func(args []any) any {
			return &ASTRule{Head: args[0].(ASTExpr), Tail: args[2].([]ASTExpr)}
		}},
		{Syn: `Terms -> Terms "," Term`, Sem: func(args []any) any {
			return append(args[0].([]ASTExpr), args[2].(ASTExpr))
		}},
		{Syn: `Terms -> Term`, Sem: func(args []any) any { return []ASTExpr{args[0].(ASTExpr)} }},
	}, termSynSems...)))
)

// ASTExpr is an expression node.
type ASTExpr interface {
	fmt.Stringer
}

// ASTIdent is an identifier node.
type ASTIdent struct {
	Name string
	Loc  textkit.Location
}

func (i *ASTIdent) String() string { return i.Name }

// ASTString is a string node.
type ASTString struct {
	Value string
	Loc   textkit.Location
}

func (s *ASTString) String() string { return strconv.Quote(s.Value) }

// ASTInteger is an integer node.
type ASTInteger struct {
	Value int
	Loc   textkit.Location
}

func (i *ASTInteger) String() string { return strconv.Itoa(i.Value) }

// ASTNil is a nil node.
type ASTNil struct {
	Loc textkit.Location
}

func (n *ASTNil) String() string { return "[]" }

// ASTTerm is a compound term node.
type ASTTerm struct {
	Functor string
	Args    []ASTExpr
	Loc     textkit.Location
}

func (t *ASTTerm) String() string {
	var sb strings.Builder
	if t.Functor == "." {
		sb.WriteRune('[')
		sb.WriteString(t.Args[0].String())
		sb.WriteRune('|')
		sb.WriteString(t.Args[1].String())
		sb.WriteRune(']')
	} else {
		sb.WriteString(t.Functor)
		sb.WriteRune('(')
		for i, arg := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(arg.String())
		}
		sb.WriteRune(')')
	}
	return sb.String()
}

// ASTRule is a rule node. A rule without a tail is a fact.
type ASTRule struct {
	Head ASTExpr
	Tail []ASTExpr
	Loc  textkit.Location
}

func (r *ASTRule) String() string {
	var sb strings.Builder
	sb.WriteString(r.Head.String())
	for i, t := range r.Tail {
		if i == 0 {
			sb.WriteString(" :- ")
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(t.String())
	}
	sb.WriteRune('.')
	return sb.String()
}

func termFromList(l []ASTExpr, tail ASTExpr) ASTExpr {
	if len(l) == 0 {
		return tail
	}
	return &ASTTerm{Functor: ".", Args: []ASTExpr{l[0], termFromList(l[1:], tail)}}
}

// identIsVar reports whether an identifier names a variable, that is, starts with a lowercase letter.
func identIsVar(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}

// termFromAST converts an expression node into a term.
// If vars is false, all identifiers become atoms.
func termFromAST(e ASTExpr, vars bool) Term {
	switch x := e.(type) {
	case *ASTIdent:
		if vars && identIsVar(x.Name) {
			return Var(x.Name)
		}
		return Atom(x.Name)
	case *ASTString:
		return String(x.Value)
	case *ASTInteger:
		return Integer(x.Value)
	case *ASTNil:
		return Nil{}
	case *ASTTerm:
		args := make([]Term, len(x.Args))
		for i, arg := range x.Args {
			args[i] = termFromAST(arg, vars)
		}
		return &CompoundTerm{Functor: x.Functor, Args: args}
	default:
		panic(fmt.Sprintf("unhandled type when converting to term: %T", e))
	}
}

var tokeniser = textkit.Tokeniser{
	CommentPrefix: "#",
	StringRune:    '"',
	IdentChars:    "_'",
}

func parseTermCode(code string) (interface{}, error) {
	tokens := tokeniser.Tokenise(code, "")
	tokens = lrparser.CoalesceSymbols(tokens, []string{":-"})
	return termGrammar.Parse(tokens)
}

func parseKnowledgeBaseCode(code string) (interface{}, error) {
	tokens := tokeniser.Tokenise(code, "")
	tokens = lrparser.CoalesceSymbols(tokens, []string{":-"})
	return kbGrammar.Parse(tokens)
}

// ParseTerm parses a term such as `Eats(x, Mango)`.
// Identifiers starting with a lowercase letter are variables, other identifiers are atoms.
func ParseTerm(code string) (Term, error) {
	r, err := parseTermCode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIllFormed, err)
	}
	e, ok := r.(ASTExpr)
	if !ok {
		panic("unexpected type of parser output")
	}
	return termFromAST(e, true), nil
}

// MustParseTerm is like [ParseTerm] but panics on error.
func MustParseTerm(code string) Term {
	t, err := ParseTerm(code)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseKnowledgeBase parses facts and rules into a knowledge base of string facts.
//
//	American(Robert).
//	Hostile(A) :- Enemy(A, America).
//
// Facts are opaque, so every identifier is an atom and each fact is identified by its printed form.
func ParseKnowledgeBase(code string, opts ...Option) (*KnowledgeBase[string], error) {
	r, err := parseKnowledgeBaseCode(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIllFormed, err)
	}
	stmts, ok := r.([]*ASTRule)
	if !ok {
		panic("unexpected type of parser output")
	}
	kb := NewKnowledgeBase[string](opts...)
	for _, stmt := range stmts {
		head := termFromAST(stmt.Head, false).String()
		if len(stmt.Tail) == 0 {
			kb.AddFact(head)
			continue
		}
		tail := make([]string, len(stmt.Tail))
		for i, t := range stmt.Tail {
			tail[i] = termFromAST(t, false).String()
		}
		kb.AddRule(tail, head)
	}
	return kb, nil
}
