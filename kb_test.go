package logic

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var criminalRules = []Rule[string]{
	{Antecedents: []string{"Enemy(A, America)"}, Consequent: "Hostile(A)"},
	{Antecedents: []string{"Missile(T1)"}, Consequent: "Weapon(T1)"},
	{Antecedents: []string{"Missile(T1)", "Owns(A, T1)"}, Consequent: "Sells(Robert, T1, A)"},
	{Antecedents: []string{"American(Robert)", "Weapon(T1)", "Sells(Robert, T1, A)", "Hostile(A)"}, Consequent: "Criminal(Robert)"},
}

var criminalFacts = []string{"American(Robert)", "Enemy(A, America)", "Owns(A, T1)", "Missile(T1)"}

func newCriminalKB(rules []Rule[string], opts ...Option) *KnowledgeBase[string] {
	kb := NewKnowledgeBase[string](opts...)
	for _, f := range criminalFacts {
		kb.AddFact(f)
	}
	for _, r := range rules {
		kb.AddRule(r.Antecedents, r.Consequent)
	}
	return kb
}

func TestInferCriminal(t *testing.T) {
	req := require.New(t)

	kb := newCriminalKB(criminalRules)

	derived := kb.Infer()
	req.Equal([]string{
		"Criminal(Robert)",
		"Hostile(A)",
		"Sells(Robert, T1, A)",
		"Weapon(T1)",
	}, Sorted(derived))
	req.True(kb.Has("Criminal(Robert)"))
	req.Equal(8, kb.Facts().Len())

	again := kb.Infer()
	req.NotNil(again)
	req.Equal(0, again.Len())
}

func TestInferPassVisibility(t *testing.T) {
	req := require.New(t)

	kb := newCriminalKB(criminalRules)

	// facts derived in a pass are visible only in the next pass
	p1 := kb.Step()
	req.Equal([]string{"Hostile(A)", "Sells(Robert, T1, A)", "Weapon(T1)"}, Sorted(p1))
	req.False(kb.Has("Criminal(Robert)"))

	p2 := kb.Step()
	req.Equal([]string{"Criminal(Robert)"}, Sorted(p2))

	p3 := kb.Step()
	req.Equal(0, p3.Len())
}

func TestInferMonotonic(t *testing.T) {
	req := require.New(t)

	kb := newCriminalKB(criminalRules)
	prev := kb.Facts()
	for range len(criminalRules) + 1 {
		kb.Step()
		cur := kb.Facts()
		for f := range prev {
			req.True(cur.Has(f), f)
		}
		req.GreaterOrEqual(cur.Len(), prev.Len())
		prev = cur
	}
}

func TestInferRuleOrderIndependent(t *testing.T) {
	req := require.New(t)

	want := newCriminalKB(criminalRules)
	want.Infer()

	rng := rand.New(rand.NewSource(1))
	for range 10 {
		rules := append([]Rule[string](nil), criminalRules...)
		rng.Shuffle(len(rules), func(i, j int) { rules[i], rules[j] = rules[j], rules[i] })
		kb := newCriminalKB(rules)
		kb.Infer()
		req.Equal(Sorted(want.Facts()), Sorted(kb.Facts()))
	}
}

func TestInferUnreachableGoal(t *testing.T) {
	req := require.New(t)

	kb := NewKnowledgeBase[string]()
	kb.AddFact("Missile(T1)")
	kb.AddRule([]string{"Missile(T1)", "Owns(A, T1)"}, "Sells(Robert, T1, A)")

	req.False(kb.Entails("Sells(Robert, T1, A)"))
	req.Equal(1, kb.Facts().Len())
}

func TestAddFactIdempotent(t *testing.T) {
	req := require.New(t)

	var kb KnowledgeBase[int]
	kb.AddFact(1)
	kb.AddFact(1)
	req.Equal(1, kb.Facts().Len())

	ants := []int{1}
	kb.AddRule(ants, 2)
	kb.AddRule(ants, 2)
	ants[0] = 5
	req.Len(kb.Rules(), 2)
	req.Equal([]int{1}, kb.Rules()[0].Antecedents)

	req.Equal([]int{2}, Sorted(kb.Infer()))
}

func TestInferZeroValueAndEmptyAntecedents(t *testing.T) {
	req := require.New(t)

	var kb KnowledgeBase[string]
	kb.AddRule(nil, "Axiom")
	kb.AddRule([]string{"Axiom"}, "Theorem")
	req.Equal([]string{"Axiom", "Theorem"}, Sorted(kb.Infer()))

	var empty KnowledgeBase[string]
	req.Equal(0, empty.Infer().Len())
}

func TestInferPassBound(t *testing.T) {
	req := require.New(t)

	// a chain needs one pass per rule plus the final empty pass
	core, logs := observer.New(zapcore.DebugLevel)
	kb := NewKnowledgeBase[int](WithLogger(zap.New(core)))
	kb.AddFact(0)
	const n = 20
	for i := n - 1; i >= 0; i-- {
		kb.AddRule([]int{i}, i+1)
	}
	req.Equal(n, kb.Infer().Len())

	passes := logs.FilterMessage("inference pass").Len()
	req.Equal(n+1, passes)
	fixed := logs.FilterMessage("fixed point reached").All()
	req.Len(fixed, 1)
	req.Equal(int64(n+1), fixed[0].ContextMap()["passes"])
	req.Equal(int64(n), fixed[0].ContextMap()["derived"])
}

func TestKnowledgeBaseConcurrentUse(t *testing.T) {
	req := require.New(t)

	kb := NewKnowledgeBase[int]()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			kb.AddFact(i)
			kb.AddRule([]int{i}, i+100)
			kb.Infer()
		}()
	}
	wg.Wait()
	kb.Infer()
	req.Equal(100, kb.Facts().Len())
}
