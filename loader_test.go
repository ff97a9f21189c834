package logic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	req := require.New(t)

	kb := NewKnowledgeBase[string]()
	err := LoadYAML(kb, strings.NewReader(`facts:
- American(Robert)
- Enemy(A, America)
- Owns(A, T1)
- Missile(T1)
rules:
- if:
  - Enemy(A, America)
  then: Hostile(A)
- if: [Missile(T1)]
  then: Weapon(T1)
- if:
  - Missile(T1)
  - Owns(A, T1)
  then: Sells(Robert, T1, A)
- if:
  - American(Robert)
  - Weapon(T1)
  - Sells(Robert, T1, A)
  - Hostile(A)
  then: Criminal(Robert)
`))
	req.NoError(err)
	req.ElementsMatch(criminalFacts, Sorted(kb.Facts()))
	req.Equal(criminalRules, kb.Rules())
	req.True(kb.Entails("Criminal(Robert)"))
}

func TestLoadYAMLErrors(t *testing.T) {
	req := require.New(t)

	kb := NewKnowledgeBase[string]()
	err := LoadYAML(kb, strings.NewReader(`rules:
- if: [a]
`))
	req.ErrorIs(err, ErrIllFormed)
	req.Empty(kb.Rules())

	err = LoadYAML(kb, strings.NewReader(`facts: {a: b}`))
	req.Error(err)

	err = LoadYAML(kb, strings.NewReader(``))
	req.NoError(err)
}
