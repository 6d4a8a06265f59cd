/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package oql contains the expression reducer for the WHERE clause.

Expression Reduction:
=====================

The WHERE token range is wrapped in a synthetic Expression node and then
rewritten by six passes, in order:

 1. Field resolution: each maximal Ident(.Ident)* or Alias(.Ident)* chain
    collapses to a single Field token, recursing through embedded
    composite properties.
 2. IS NULL / IS NOT NULL folding: the two- and three-token forms become a
    single postfix operator token. The scan runs right to left so repeated
    occurrences fold correctly.
 3. Unary +/- disambiguation: a + or - whose left neighbour is not
    expression-bearing becomes a unary prefix operator.
 4. Bracket folding: the innermost ( ... ) group is repeatedly replaced by
    a Braces node holding the enclosed tokens.
 5. Operator folding: shunting-yard reduction. At each level the
    highest-precedence operator (leftmost among equals) consumes its
    operands and becomes an OpExpr node; unary prefix operators take the
    right neighbour, postfix operators the left, BETWEEN takes three
    operands with a mandatory AND between the bounds, and everything else
    is binary.
 6. Bracket elision: a Braces node with exactly one child is replaced by
    that child.

The reduction deliberately re-scans linearly per fold instead of using a
heap: ties must break leftmost among equal precedences, and the linear
scan preserves that exactly.
*/
package oql

import (
	"fmt"
	"strings"

	oqlerrors "oql/internal/errors"
)

// reduceExpression wraps the WHERE token range in a synthetic Expression
// node, runs the six reduction passes, and returns the single remaining
// expression tree.
func (s *Statement) reduceExpression(tokens []*Token) (*Token, error) {
	root := &Token{
		Pos:      tokens[0].Pos,
		Type:     TokenExpression,
		Children: append([]*Token(nil), tokens...),
	}

	if err := s.resolveFields(root); err != nil {
		return nil, err
	}
	s.foldIsNull(root)
	s.disambiguateUnary(root)
	if err := s.foldBrackets(root); err != nil {
		return nil, err
	}
	if err := s.foldOperators(root); err != nil {
		return nil, err
	}
	s.elideBraces(root)

	if len(root.Children) != 1 || !root.Children[0].isExpr() {
		for _, c := range root.Children {
			if !c.isExpr() {
				return nil, errUnexpectedToken(s.source, c)
			}
		}
		if len(root.Children) > 1 {
			return nil, errUnexpectedToken(s.source, root.Children[1])
		}
		return nil, errSyntax(s.source, root.Pos, "incomplete expression")
	}
	return root.Children[0], nil
}

// resolveFields collapses each maximal Ident(.Ident)* or Alias(.Ident)*
// chain into a single Field token. An Alias head selects its FromItem;
// a bare property name binds to the sole FROM source. Embedded composite
// properties recurse into the referenced entity to arbitrary depth.
func (s *Statement) resolveFields(node *Token) error {
	children := node.Children
	var result []*Token
	i := 0
	for i < len(children) {
		tok := children[i]
		if tok.Type != TokenIdent && tok.Type != TokenAlias {
			result = append(result, tok)
			i++
			continue
		}

		item := s.from[0]
		var names []string
		j := i + 1
		if tok.Type == TokenAlias {
			item = tok.From
		} else {
			names = append(names, tok.Text)
		}
		for j < len(children) && children[j].Type == TokenDot {
			if j+1 >= len(children) || children[j+1].Type != TokenIdent {
				return errSyntax(s.source, children[j].Pos, "property name expected after '.'")
			}
			names = append(names, children[j+1].Text)
			j += 2
		}
		if len(names) == 0 {
			return errSyntax(s.source, tok.Pos,
				fmt.Sprintf("property expected after alias %s", tok.Text))
		}

		entity := item.Entity
		prop, err := entity.FindProperty(names[0])
		if err != nil {
			return err.(*oqlerrors.QueryError).AtPosition(s.source, tok.Pos)
		}
		for _, name := range names[1:] {
			if !prop.Embedded {
				return errSyntax(s.source, tok.Pos,
					fmt.Sprintf("property %s of entity %s is not embedded", prop.PropertyName, entity.Name))
			}
			entity = prop.ReferencedEntity
			prop, err = entity.FindProperty(name)
			if err != nil {
				return err.(*oqlerrors.QueryError).AtPosition(s.source, tok.Pos)
			}
		}

		result = append(result, &Token{
			Pos:      tok.Pos,
			Type:     TokenField,
			Text:     strings.Join(names, "."),
			From:     item,
			Property: prop,
		})
		i = j
	}
	node.Children = result
	return nil
}

// foldIsNull rewrites IS NULL pairs and IS NOT NULL triples into a single
// postfix operator token. The right-to-left scan keeps repeated
// occurrences independent of each other.
func (s *Statement) foldIsNull(node *Token) {
	children := node.Children
	for i := len(children) - 1; i >= 0; i-- {
		tok := children[i]
		if tok.Type != TokenOperator || tok.Op != OpIs {
			continue
		}
		switch {
		case i+2 < len(children) &&
			children[i+1].Type == TokenOperator && children[i+1].Op == OpNot &&
			children[i+2].Keyword == KeywordNull:
			tok.Op = OpIsNotNull
			tok.Text = "IS NOT NULL"
			children = append(children[:i+1], children[i+3:]...)
		case i+1 < len(children) && children[i+1].Keyword == KeywordNull:
			tok.Op = OpIsNull
			tok.Text = "IS NULL"
			children = append(children[:i+1], children[i+2:]...)
		}
	}
	node.Children = children
}

// disambiguateUnary rewrites + and - operators into their unary forms
// when the immediate left neighbour is not expression-bearing. Compound
// children are processed first.
func (s *Statement) disambiguateUnary(node *Token) {
	for _, c := range node.Children {
		if len(c.Children) > 0 {
			s.disambiguateUnary(c)
		}
	}
	for i, c := range node.Children {
		if c.Type != TokenOperator || c.Op != OpAdd && c.Op != OpSub {
			continue
		}
		if i == 0 || !node.Children[i-1].isExpr() {
			if c.Op == OpAdd {
				c.Op = OpUnaryPlus
			} else {
				c.Op = OpUnaryMinus
			}
		}
	}
}

// foldBrackets repeatedly replaces the innermost bracket pair (the last
// open bracket preceding the first close bracket) with a Braces node
// holding the enclosed tokens.
func (s *Statement) foldBrackets(node *Token) error {
	for {
		children := node.Children
		closeIdx := -1
		for i, c := range children {
			if c.Type == TokenCloseBracket {
				closeIdx = i
				break
			}
		}
		if closeIdx < 0 {
			for _, c := range children {
				if c.Type == TokenOpenBracket {
					return oqlerrors.MismatchedBracket().AtPosition(s.source, c.Pos)
				}
			}
			return nil
		}
		openIdx := -1
		for i := closeIdx - 1; i >= 0; i-- {
			if children[i].Type == TokenOpenBracket {
				openIdx = i
				break
			}
		}
		if openIdx < 0 {
			return oqlerrors.MismatchedBracket().AtPosition(s.source, children[closeIdx].Pos)
		}

		braces := &Token{
			Pos:      children[openIdx].Pos,
			Type:     TokenBraces,
			Children: append([]*Token(nil), children[openIdx+1:closeIdx]...),
		}
		rest := append([]*Token(nil), children[:openIdx]...)
		rest = append(rest, braces)
		rest = append(rest, children[closeIdx+1:]...)
		node.Children = rest
	}
}

// foldOperators reduces the operator tokens of a node, deepest compound
// children first. Each round picks the highest-precedence operator token
// (leftmost among equals) and folds it into an OpExpr with its operands.
//
// IN and raw IS are recognized by the lexer but have no fold rule; they
// fail here with a clear message instead of reaching emission.
func (s *Statement) foldOperators(node *Token) error {
	for _, c := range node.Children {
		if c.Type == TokenExpression || c.Type == TokenBraces {
			if err := s.foldOperators(c); err != nil {
				return err
			}
		}
	}

	for {
		children := node.Children
		best := -1
		for i, c := range children {
			if c.Type != TokenOperator {
				continue
			}
			if best < 0 || c.Op.Precedence() > children[best].Op.Precedence() {
				best = i
			}
		}
		if best < 0 {
			return nil
		}

		op := children[best]
		switch {
		case op.Op == OpIn:
			return oqlerrors.Unsupported("IN operator").AtPosition(s.source, op.Pos)

		case op.Op == OpIs:
			return errSyntax(s.source, op.Pos, "IS must be followed by NULL or NOT NULL")

		case op.Op.isPrefix():
			if best+1 >= len(children) || !children[best+1].isExpr() {
				return oqlerrors.OperandExpected(op.Text).AtPosition(s.source, op.Pos)
			}
			op.Type = TokenOpExpr
			op.Children = []*Token{children[best+1]}
			node.Children = append(children[:best+1], children[best+2:]...)

		case op.Op.isPostfix():
			if best == 0 || !children[best-1].isExpr() {
				return oqlerrors.OperandExpected(op.Text).AtPosition(s.source, op.Pos)
			}
			op.Type = TokenOpExpr
			op.Children = []*Token{children[best-1]}
			node.Children = append(children[:best-1], children[best:]...)

		case op.Op == OpBetween:
			if best == 0 || !children[best-1].isExpr() ||
				best+3 >= len(children) ||
				!children[best+1].isExpr() || !children[best+3].isExpr() {
				return oqlerrors.OperandExpected(op.Text).AtPosition(s.source, op.Pos)
			}
			if children[best+2].Type != TokenOperator || children[best+2].Op != OpAnd {
				return errSyntax(s.source, op.Pos, "BETWEEN requires AND between its bounds")
			}
			op.Type = TokenOpExpr
			op.Children = []*Token{children[best-1], children[best+1], children[best+3]}
			rest := append(children[:best-1], op)
			node.Children = append(rest, children[best+4:]...)

		default:
			if best == 0 || !children[best-1].isExpr() ||
				best+1 >= len(children) || !children[best+1].isExpr() {
				return oqlerrors.OperandExpected(op.Text).AtPosition(s.source, op.Pos)
			}
			op.Type = TokenOpExpr
			op.Children = []*Token{children[best-1], children[best+1]}
			rest := append(children[:best-1], op)
			node.Children = append(rest, children[best+2:]...)
		}
	}
}

// elideBraces replaces every single-child Braces node with its child,
// innermost first.
func (s *Statement) elideBraces(node *Token) {
	for i, c := range node.Children {
		if len(c.Children) > 0 {
			s.elideBraces(c)
		}
		if c.Type == TokenBraces && len(c.Children) == 1 {
			node.Children[i] = c.Children[0]
		}
	}
}
