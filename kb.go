package logic

import (
	"cmp"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// FactSet is a set of facts.
type FactSet[F comparable] map[F]struct{}

// Has returns whether the fact is in the set.
func (s FactSet[F]) Has(f F) bool {
	_, ok := s[f]
	return ok
}

// HasAll returns whether all the facts are in the set.
func (s FactSet[F]) HasAll(fs []F) bool {
	for _, f := range fs {
		if !s.Has(f) {
			return false
		}
	}
	return true
}

// Add adds a fact to the set.
func (s FactSet[F]) Add(f F) { s[f] = struct{}{} }

// Len returns the number of facts.
func (s FactSet[F]) Len() int { return len(s) }

// Clone returns a copy of the set.
func (s FactSet[F]) Clone() FactSet[F] {
	c := make(FactSet[F], len(s))
	maps.Copy(c, s)
	return c
}

// Sorted returns the facts of an ordered set in ascending order.
func Sorted[F cmp.Ordered](s FactSet[F]) []F {
	return slices.Sorted(maps.Keys(s))
}

// Rule is a Horn-like rule: if all the antecedents hold, the consequent holds.
type Rule[F comparable] struct {
	Antecedents []F
	Consequent  F
}

// Option is a knowledge base option.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used for tracing inference.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// KnowledgeBase is a set of facts with rules for forward chaining.
// The zero value is an empty knowledge base.
// A knowledge base is safe for concurrent use, each method runs exclusively.
type KnowledgeBase[F comparable] struct {
	mu     sync.Mutex
	facts  FactSet[F]
	rules  []Rule[F]
	logger *zap.Logger
}

// NewKnowledgeBase returns a new empty knowledge base.
func NewKnowledgeBase[F comparable](opts ...Option) *KnowledgeBase[F] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &KnowledgeBase[F]{
		facts:  make(FactSet[F]),
		logger: o.logger,
	}
}

func (kb *KnowledgeBase[F]) log() *zap.Logger {
	if kb.logger == nil {
		kb.logger = zap.NewNop()
	}
	return kb.logger
}

// AddFact adds a fact to the knowledge base. Adding a known fact has no effect.
func (kb *KnowledgeBase[F]) AddFact(f F) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	if kb.facts == nil {
		kb.facts = make(FactSet[F])
	}
	kb.facts.Add(f)
}

// AddRule appends a rule to the knowledge base.
func (kb *KnowledgeBase[F]) AddRule(antecedents []F, consequent F) {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.rules = append(kb.rules, Rule[F]{Antecedents: slices.Clone(antecedents), Consequent: consequent})
}

// Has returns whether the fact is known.
func (kb *KnowledgeBase[F]) Has(f F) bool {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.facts.Has(f)
}

// Facts returns a copy of the known facts.
func (kb *KnowledgeBase[F]) Facts() FactSet[F] {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.facts.Clone()
}

// Rules returns a copy of the rules in insertion order.
func (kb *KnowledgeBase[F]) Rules() []Rule[F] {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return slices.Clone(kb.rules)
}

// Step performs one pass over the rules and returns the facts it derived.
// Facts derived in the pass are added only after all the rules have been tried.
func (kb *KnowledgeBase[F]) Step() FactSet[F] {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.step()
}

func (kb *KnowledgeBase[F]) step() FactSet[F] {
	if kb.facts == nil {
		kb.facts = make(FactSet[F])
	}
	pending := make(FactSet[F])
	for _, r := range kb.rules {
		if !kb.facts.Has(r.Consequent) && kb.facts.HasAll(r.Antecedents) {
			pending.Add(r.Consequent)
		}
	}
	maps.Copy(kb.facts, pending)
	return pending
}

// Infer applies the rules until no new fact can be derived.
// It returns the facts derived by this call.
func (kb *KnowledgeBase[F]) Infer() FactSet[F] {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	return kb.infer()
}

func (kb *KnowledgeBase[F]) infer() FactSet[F] {
	derived := make(FactSet[F])
	for pass := 1; ; pass++ {
		pending := kb.step()
		kb.log().Debug("inference pass", zap.Int("pass", pass), zap.Int("derived", len(pending)))
		if len(pending) == 0 {
			kb.log().Debug("fixed point reached", zap.Int("passes", pass), zap.Int("derived", len(derived)))
			return derived
		}
		maps.Copy(derived, pending)
	}
}

// Entails runs inference and returns whether the goal is known afterwards.
func (kb *KnowledgeBase[F]) Entails(goal F) bool {
	kb.mu.Lock()
	defer kb.mu.Unlock()
	kb.infer()
	return kb.facts.Has(goal)
}
