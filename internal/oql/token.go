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
	"fmt"

	"oql/internal/schema"
)

// TokenType represents the type of a token.
// Lexical types come straight out of the lexer; the parser re-tags tokens
// in place (Ident to Entity/Alias/Field) and introduces the compound types
// (Expression, Braces, OpExpr) while reducing the WHERE clause.
type TokenType int

// Token type constants.
const (
	TokenKeyword      TokenType = iota // Non-operator keyword (SELECT, FROM, ...)
	TokenIdent                         // Identifier
	TokenNumber                        // Numeric literal
	TokenString                        // String literal ('hello')
	TokenOperator                      // Symbolic or keyword operator
	TokenDot                           // Dot (.)
	TokenOpenBracket                   // Left parenthesis (()
	TokenCloseBracket                  // Right parenthesis ())
	TokenComma                         // Comma (,)
	TokenEntity                        // Ident resolved to an entity name
	TokenField                         // Collapsed property-path reference
	TokenAlias                         // Ident resolved to a FROM alias
	TokenParameter                     // Named parameter (:name)
	TokenExpression                    // Synthetic expression root
	TokenBraces                        // Folded ( ... ) group
	TokenOpExpr                        // Reduced operator expression
)

// String returns the token type name for diagnostics.
func (t TokenType) String() string {
	switch t {
	case TokenKeyword:
		return "Keyword"
	case TokenIdent:
		return "Ident"
	case TokenNumber:
		return "Number"
	case TokenString:
		return "String"
	case TokenOperator:
		return "Operator"
	case TokenDot:
		return "Dot"
	case TokenOpenBracket:
		return "OpenBracket"
	case TokenCloseBracket:
		return "CloseBracket"
	case TokenComma:
		return "Comma"
	case TokenEntity:
		return "Entity"
	case TokenField:
		return "Field"
	case TokenAlias:
		return "Alias"
	case TokenParameter:
		return "Parameter"
	case TokenExpression:
		return "Expression"
	case TokenBraces:
		return "Braces"
	case TokenOpExpr:
		return "OpExpr"
	default:
		return "Unknown"
	}
}

// KeywordType identifies a recognized keyword.
type KeywordType int

// Keyword constants.
const (
	KeywordNone KeywordType = iota
	KeywordSelect
	KeywordFrom
	KeywordWhere
	KeywordOrder
	KeywordBy
	KeywordAsc
	KeywordDesc
	KeywordJoin
	KeywordInner
	KeywordOuter
	KeywordLeft
	KeywordRight
	KeywordAs
	KeywordLike
	KeywordIn
	KeywordIs
	KeywordNot
	KeywordNull
	KeywordAnd
	KeywordOr
	KeywordBetween
	KeywordDiv
	KeywordMod
)

// keywords maps the uppercase spelling to its keyword tag.
var keywords = map[string]KeywordType{
	"SELECT":  KeywordSelect,
	"FROM":    KeywordFrom,
	"WHERE":   KeywordWhere,
	"ORDER":   KeywordOrder,
	"BY":      KeywordBy,
	"ASC":     KeywordAsc,
	"DESC":    KeywordDesc,
	"JOIN":    KeywordJoin,
	"INNER":   KeywordInner,
	"OUTER":   KeywordOuter,
	"LEFT":    KeywordLeft,
	"RIGHT":   KeywordRight,
	"AS":      KeywordAs,
	"LIKE":    KeywordLike,
	"IN":      KeywordIn,
	"IS":      KeywordIs,
	"NOT":     KeywordNot,
	"NULL":    KeywordNull,
	"AND":     KeywordAnd,
	"OR":      KeywordOr,
	"BETWEEN": KeywordBetween,
	"DIV":     KeywordDiv,
	"MOD":     KeywordMod,
}

// operatorKeywords maps keywords that behave as operators to their
// operator tag. The lexer re-tags these as Operator tokens while keeping
// the keyword text, so the parser treats them uniformly with symbolic
// operators.
var operatorKeywords = map[KeywordType]OperatorType{
	KeywordLike:    OpLike,
	KeywordIn:      OpIn,
	KeywordIs:      OpIs,
	KeywordNot:     OpNot,
	KeywordAnd:     OpAnd,
	KeywordOr:      OpOr,
	KeywordBetween: OpBetween,
	KeywordDiv:     OpIDiv,
	KeywordMod:     OpMod,
}

// OperatorType identifies an operator, symbolic or keyword-spelled.
type OperatorType int

// Operator constants.
const (
	OpNone OperatorType = iota
	OpUnaryPlus
	OpUnaryMinus
	OpIsNull
	OpIsNotNull
	OpIs
	OpIn
	OpLike
	OpMul
	OpDiv
	OpIDiv // keyword DIV, integer division
	OpMod
	OpAdd
	OpSub
	OpBetween
	OpNot
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpAnd
	OpOr
)

// Precedence returns the binding strength of the operator.
// Higher binds tighter. Ties reduce leftmost-first.
func (op OperatorType) Precedence() int {
	switch op {
	case OpUnaryPlus, OpUnaryMinus, OpIsNull, OpIsNotNull:
		return 15
	case OpIs:
		return 13
	case OpIn:
		return 12
	case OpLike:
		return 11
	case OpMul, OpDiv, OpIDiv, OpMod:
		return 10
	case OpAdd, OpSub:
		return 9
	case OpBetween:
		return 7
	case OpNot:
		return 6
	case OpEq, OpNe, OpLt, OpGt, OpLe, OpGe:
		return 5
	case OpAnd:
		return 4
	case OpOr:
		return 3
	default:
		return 0
	}
}

// SQL returns the canonical SQL spelling of the operator: the uppercase
// keyword form for keyword operators, the literal symbol otherwise.
func (op OperatorType) SQL() string {
	switch op {
	case OpUnaryPlus:
		return "+"
	case OpUnaryMinus:
		return "-"
	case OpIsNull:
		return "IS NULL"
	case OpIsNotNull:
		return "IS NOT NULL"
	case OpIs:
		return "IS"
	case OpIn:
		return "IN"
	case OpLike:
		return "LIKE"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpIDiv:
		return "DIV"
	case OpMod:
		return "MOD"
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpBetween:
		return "BETWEEN"
	case OpNot:
		return "NOT"
	case OpEq:
		return "="
	case OpNe:
		return "<>"
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	default:
		return "?"
	}
}

// isPrefix reports whether the operator consumes its right neighbour only.
func (op OperatorType) isPrefix() bool {
	return op == OpNot || op == OpUnaryPlus || op == OpUnaryMinus
}

// isPostfix reports whether the operator consumes its left neighbour only.
func (op OperatorType) isPostfix() bool {
	return op == OpIsNull || op == OpIsNotNull
}

// FromItem records one entity source of the FROM clause.
// Created by the FROM parser and immutable afterwards; every Field,
// SelectItem, and OrderByItem points back at its FromItem.
type FromItem struct {
	EntityName string                   // Entity name as written in the query
	Entity     *schema.EntityDescriptor // Resolved descriptor
	Alias      string                   // User alias, empty when absent
	SQLAlias   string                   // Synthetic table alias (_t1, _t2, ...)
}

// Token is a single unit of the parse. The lexer produces flat lexical
// tokens; the parser mutates them in place (re-tagging, attaching resolved
// references) and reduces the WHERE range into a tree of compound tokens.
//
// Invariants: non-compound tokens carry no children; an OpExpr carries one
// child for unary operators, two for binary, three for BETWEEN; a Braces
// token carries an arbitrary child list.
type Token struct {
	Pos        int         // Byte offset in the source
	Type       TokenType   // Token tag
	Text       string      // Verbatim text (excludes ':' for parameters)
	Keyword    KeywordType // Keyword subtag, KeywordNone otherwise
	Op         OperatorType
	SpaceAfter bool // Trailing whitespace followed this token

	From     *FromItem                  // Resolved FROM source (Field, Alias)
	Entity   *schema.EntityDescriptor   // Resolved entity (Entity tokens)
	Property *schema.PropertyDescriptor // Resolved property (Field tokens)

	Children []*Token // Child nodes of compound tokens
}

// isExpr reports whether the token denotes a value at AST level and can
// serve as an operand for operator reductions.
func (t *Token) isExpr() bool {
	switch t.Type {
	case TokenExpression, TokenBraces, TokenOpExpr, TokenParameter,
		TokenField, TokenString, TokenNumber:
		return true
	}
	return false
}

// String renders the token for diagnostics and token dumps.
func (t *Token) String() string {
	switch t.Type {
	case TokenParameter:
		return fmt.Sprintf("%s(:%s)", t.Type, t.Text)
	case TokenOpExpr:
		return fmt.Sprintf("%s(%s/%d)", t.Type, t.Op.SQL(), len(t.Children))
	default:
		return fmt.Sprintf("%s(%s)", t.Type, t.Text)
	}
}
