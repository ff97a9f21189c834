package logic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/fealsamh/go-utils/dbutils"
	"github.com/mailstepcz/slice"
	"gopkg.in/yaml.v3"
)

type source struct {
	Facts []string     `yaml:"facts"`
	Rules []sourceRule `yaml:"rules"`
}

type sourceRule struct {
	If   []string `yaml:"if"`
	Then string   `yaml:"then"`
}

// LoadYAML loads facts and rules from a YAML reader into the knowledge base.
//
//	facts:
//	- Missile(T1)
//	rules:
//	- if: [Missile(T1)]
//	  then: Weapon(T1)
func LoadYAML(kb *KnowledgeBase[string], r io.Reader) error {
	var source source
	if err := yaml.NewDecoder(r).Decode(&source); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	for i, rule := range source.Rules {
		if rule.Then == "" {
			return fmt.Errorf("%w: rule %d has no consequent", ErrIllFormed, i+1)
		}
	}
	for _, f := range source.Facts {
		kb.AddFact(f)
	}
	for _, rule := range source.Rules {
		kb.AddRule(rule.If, rule.Then)
	}
	return nil
}

// LoadQuery adds a fact for each row returned by the query.
// The fact is a compound term with the given functor and the row's columns as atoms,
// NULL columns become empty lists. It returns the number of rows read.
func LoadQuery(ctx context.Context, kb *KnowledgeBase[string], db dbutils.Querier, functor, query string, args ...interface{}) (int, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return 0, err
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("query for '%s' returns no columns", functor)
	}

	var (
		vals = make([]sql.NullString, len(cols))
		ptrs = make([]interface{}, len(cols))
		n    int
	)
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return n, err
		}
		fact := &CompoundTerm{Functor: functor, Args: slice.Fmap(func(v sql.NullString) Term {
			if !v.Valid {
				return Nil{}
			}
			return Atom(v.String)
		}, vals)}
		kb.AddFact(fact.String())
		n++
	}

	if err := rows.Err(); err != nil {
		return n, err
	}
	return n, nil
}
