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

package oql

import (
	"strings"
	"testing"

	oqlerrors "oql/internal/errors"
)

// parseWhere is a test helper returning the reduced WHERE tree.
func parseWhere(t *testing.T, condition string) *Token {
	t.Helper()
	stmt, err := Parse("FROM User a WHERE "+condition, testSchema())
	if err != nil {
		t.Fatalf("Parse failed for %q: %v", condition, err)
	}
	if stmt.where == nil {
		t.Fatalf("no WHERE tree for %q", condition)
	}
	return stmt.where
}

func TestPrecedenceLaw(t *testing.T) {
	// AND binds tighter than OR, so OR must be the root.
	root := parseWhere(t, "id = 1 OR name = 'x' AND flags = 2")
	if root.Op != OpOr {
		t.Fatalf("Expected OR at root, got %v", root.Op.SQL())
	}
	if root.Children[1].Op != OpAnd {
		t.Errorf("Expected AND as right child of OR, got %v", root.Children[1].Op.SQL())
	}

	// Arithmetic binds tighter than comparison.
	root = parseWhere(t, "flags + 2 * 3 = 8")
	if root.Op != OpEq {
		t.Fatalf("Expected = at root, got %v", root.Op.SQL())
	}
	add := root.Children[0]
	if add.Op != OpAdd || add.Children[1].Op != OpMul {
		t.Errorf("Expected flags + (2 * 3), got %s", add)
	}
}

func TestLeftmostTieBreaking(t *testing.T) {
	// Equal precedence reduces leftmost-first: (a - b) - c.
	root := parseWhere(t, "flags - 1 - 2 = 0")
	sub := root.Children[0]
	if sub.Op != OpSub {
		t.Fatalf("Expected SUB, got %v", sub.Op.SQL())
	}
	if sub.Children[0].Op != OpSub {
		t.Errorf("Expected left-associative folding, got left child %s", sub.Children[0])
	}
	if sub.Children[1].Type != TokenNumber || sub.Children[1].Text != "2" {
		t.Errorf("Expected right child 2, got %s", sub.Children[1])
	}
}

func TestUnaryDisambiguation(t *testing.T) {
	root := parseWhere(t, "flags = -5")
	neg := root.Children[1]
	if neg.Type != TokenOpExpr || neg.Op != OpUnaryMinus {
		t.Fatalf("Expected unary minus, got %s", neg)
	}
	if len(neg.Children) != 1 || neg.Children[0].Text != "5" {
		t.Errorf("Expected single child 5, got %v", neg.Children)
	}

	// Binary minus keeps two operands.
	root = parseWhere(t, "flags - 5 = 0")
	if root.Children[0].Op != OpSub || len(root.Children[0].Children) != 2 {
		t.Errorf("Expected binary minus, got %s", root.Children[0])
	}

	// A minus after an open bracket is unary.
	root = parseWhere(t, "flags = (-5 + 7)")
	add := root.Children[1]
	if add.Op != OpAdd {
		t.Fatalf("Expected +, got %v", add.Op.SQL())
	}
	if add.Children[0].Op != OpUnaryMinus || len(add.Children[0].Children) != 1 {
		t.Errorf("Expected unary minus on 5, got %s", add.Children[0])
	}
}

func TestBetweenFolding(t *testing.T) {
	root := parseWhere(t, "flags BETWEEN 2*2 AND 42/5")
	if root.Op != OpBetween {
		t.Fatalf("Expected BETWEEN at root, got %v", root.Op.SQL())
	}
	if len(root.Children) != 3 {
		t.Fatalf("Expected 3 children, got %d", len(root.Children))
	}
	if root.Children[0].Type != TokenField {
		t.Errorf("Expected field as subject, got %s", root.Children[0])
	}
	if root.Children[1].Op != OpMul || root.Children[2].Op != OpDiv {
		t.Errorf("Expected folded bounds, got %s and %s", root.Children[1], root.Children[2])
	}
}

func TestIsNullFolding(t *testing.T) {
	root := parseWhere(t, "name IS NULL AND a.flags IS NOT NULL")
	if root.Op != OpAnd {
		t.Fatalf("Expected AND at root, got %v", root.Op.SQL())
	}
	left, right := root.Children[0], root.Children[1]
	if left.Op != OpIsNull || len(left.Children) != 1 {
		t.Errorf("Expected IS NULL postfix, got %s", left)
	}
	if right.Op != OpIsNotNull || len(right.Children) != 1 {
		t.Errorf("Expected IS NOT NULL postfix, got %s", right)
	}

	// Repeated occurrences fold independently.
	root = parseWhere(t, "name IS NULL OR name IS NULL OR name IS NOT NULL")
	if root.Op != OpOr {
		t.Fatalf("Expected OR at root, got %v", root.Op.SQL())
	}
}

func TestFieldResolution(t *testing.T) {
	root := parseWhere(t, "a.flags = 1 AND id = 2")
	and := root
	fieldA := and.Children[0].Children[0]
	fieldB := and.Children[1].Children[0]
	if fieldA.Type != TokenField || fieldA.Property.PropertyName != "flags" {
		t.Fatalf("Expected flags field, got %s", fieldA)
	}
	if fieldB.Type != TokenField || fieldB.Property.PropertyName != "id" {
		t.Fatalf("Expected id field, got %s", fieldB)
	}
	// Alias resolution law: both paths resolve to the sole from item.
	if fieldA.From != fieldB.From {
		t.Error("Field from-item references diverge")
	}
}

func TestEmbeddedFieldResolution(t *testing.T) {
	stmt, err := Parse("FROM Customer AS c WHERE c.address.zip = '12'", testSchema())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	field := stmt.where.Children[0]
	if field.Type != TokenField {
		t.Fatalf("Expected field, got %s", field)
	}
	if field.Property.PropertyName != "zip" || field.Property.ColumnName != "zip" {
		t.Errorf("Expected zip property, got %+v", field.Property)
	}
	if field.Text != "address.zip" {
		t.Errorf("Expected path text address.zip, got %q", field.Text)
	}
}

func TestExpressionErrors(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		fragment  string
	}{
		{"unknown property", "missing = 1", "no property"},
		{"trailing dot", "a. = 1", "property name expected"},
		{"path through plain property", "a.name.x = 1", "not embedded"},
		{"alias without property", "a = 1", "property expected after alias"},
		{"missing right operand", "id =", "operand expected"},
		{"missing left operand", "= 1", "operand expected"},
		{"unbalanced open", "(id = 1", "mismatched brackets"},
		{"unbalanced close", "id = 1)", "mismatched brackets"},
		{"IN not supported", "id IN (1, 2)", "IN operator is not supported"},
		{"raw IS", "id IS 5", "IS must be followed by NULL"},
		{"between without AND", "flags BETWEEN 1 OR 2", "BETWEEN"},
		{"two operands no operator", "id 5", "unexpected token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("FROM User a WHERE "+tt.condition, testSchema())
			if err == nil {
				t.Fatalf("expected error for %q, got nil", tt.condition)
			}
			if !oqlerrors.IsSyntaxError(err) {
				t.Errorf("expected syntax error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.fragment) {
				t.Errorf("expected error containing %q, got %q", tt.fragment, err.Error())
			}
		})
	}
}

// TestOperandWellFormedness walks a reduced tree and checks the OpExpr
// arity invariants: 1 child for unary and postfix operators, 2 for
// binary, 3 for BETWEEN, every child expression-bearing.
func TestOperandWellFormedness(t *testing.T) {
	root := parseWhere(t,
		"((id = :Id) OR (name LIKE 'a%' AND flags = (-5 + 7))) AND flags BETWEEN 2*2 AND 42/5")
	var walk func(tok *Token)
	walk = func(tok *Token) {
		if tok.Type != TokenOpExpr {
			if len(tok.Children) != 0 {
				t.Errorf("non-compound token %s carries children", tok)
			}
			return
		}
		want := 2
		switch {
		case tok.Op.isPrefix() || tok.Op.isPostfix():
			want = 1
		case tok.Op == OpBetween:
			want = 3
		}
		if len(tok.Children) != want {
			t.Errorf("OpExpr %s: expected %d children, got %d", tok.Op.SQL(), want, len(tok.Children))
		}
		for _, c := range tok.Children {
			if !c.isExpr() {
				t.Errorf("OpExpr %s: child %s is not expression-bearing", tok.Op.SQL(), c)
			}
			walk(c)
		}
	}
	walk(root)
}

func TestBracketElision(t *testing.T) {
	plain := parseWhere(t, "id = 1 AND flags = 2")
	wrapped := parseWhere(t, "((id = 1 AND flags = 2))")
	if plain.Op != OpAnd || wrapped.Op != OpAnd {
		t.Fatalf("Expected AND roots, got %v and %v", plain.Op.SQL(), wrapped.Op.SQL())
	}
	if wrapped.Type != TokenOpExpr {
		t.Errorf("Braces not elided: %s", wrapped)
	}
}

func TestNotPrefix(t *testing.T) {
	root := parseWhere(t, "NOT name LIKE 'a%'")
	// LIKE binds tighter than NOT, so NOT applies to the whole comparison.
	if root.Op != OpNot || len(root.Children) != 1 {
		t.Fatalf("Expected NOT at root, got %s", root)
	}
	if root.Children[0].Op != OpLike {
		t.Errorf("Expected LIKE under NOT, got %s", root.Children[0])
	}
}
