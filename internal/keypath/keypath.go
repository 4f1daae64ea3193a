// Package keypath extracts dotted member-expression chains from javascript
// modules.
package keypath

import (
	"fmt"
	"strings"

	"vimagination.zapto.org/javascript"
	"vimagination.zapto.org/javascript/walk"
	"vimagination.zapto.org/parser"
)

// Ref is a member-expression chain rooted at an identifier.
type Ref struct {
	Name    string
	Keypath string
}

// Parse parses src as a javascript module and returns the member chains
// within it.
func Parse(src string) ([]Ref, error) {
	tk := parser.NewStringTokeniser(src)

	m, err := javascript.ParseModule(&tk)
	if err != nil {
		return nil, fmt.Errorf("error parsing javascript module: %w", err)
	}

	return Collect(m), nil
}

// Collect returns, in source order, a Ref for every non-computed property
// access chain in the module.
//
// Nested chains are reported individually, so `a.b.c` produces both "a.b.c"
// and "a.b".
func Collect(m *javascript.Module) []Ref {
	var c collector

	walk.Walk(m, &c)

	return c.refs
}

type collector struct {
	refs []Ref
}

func (c *collector) Handle(t javascript.Type) error {
	if me, ok := t.(*javascript.MemberExpression); ok {
		if r, ok := flatten(me); ok {
			c.refs = append(c.refs, r)
		}
	}

	return walk.Walk(t, c)
}

func flatten(me *javascript.MemberExpression) (Ref, bool) {
	if me.IdentifierName == nil {
		return Ref{}, false
	}

	var parts []string

	for me.PrimaryExpression == nil {
		if me.IdentifierName == nil || me.MemberExpression == nil {
			return Ref{}, false
		}

		parts = append(parts, me.IdentifierName.Data)
		me = me.MemberExpression
	}

	if me.PrimaryExpression.IdentifierReference == nil {
		return Ref{}, false
	}

	name := me.PrimaryExpression.IdentifierReference.Data
	parts = append(parts, name)

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}

	return Ref{Name: name, Keypath: strings.Join(parts, ".")}, true
}
