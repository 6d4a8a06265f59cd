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
Package oql contains the Parser component for OQL syntax analysis.

Parser Overview:
================

The Parser is the second stage of the query-translation pipeline. It takes
the flat token sequence from the Lexer and produces a Statement: the FROM,
SELECT, and ORDER BY clauses as resolved semantic items, and the WHERE
clause as a reduced operator tree.

Parsing Technique:
==================

Unlike a stream-oriented recursive descent parser, the OQL parser works on
the whole token array and rewrites it in place through a series of passes:

 1. Clause splitting: locate the top-level SELECT / FROM / WHERE / ORDER BY
    keywords, validate their relative order, and partition the array into
    clause ranges.
 2. FROM parsing: resolve the entity against the schema, record the alias,
    and re-tag every matching Ident in the whole source to Entity or Alias.
 3. SELECT and ORDER BY parsing: interpret the comma-separated items
    against the resolved FROM sources.
 4. WHERE reduction: collapse the clause range into a single expression
    tree (see expr.go).

Grammar (Simplified BNF):
=========================

	query       := [select_clause] from_clause [where_clause] [order_clause]
	select_clause := SELECT select_items
	select_items  := select_item (, select_item)*
	select_item   := alias | property | alias . property
	from_clause := FROM entity [AS alias | alias]
	where_clause  := WHERE expression
	order_clause  := ORDER BY order_item (, order_item)*
	order_item    := [alias .] property [ASC|DESC]

Error Handling:
===============

Every failure is a SYNTAX QueryError carrying the fragment of the source
starting at the offending position. The parser never recovers or returns
partial results.

Usage Example:
==============

	stmt, err := oql.Parse("FROM User AS u WHERE u.id = :Id", registry)
	if err != nil {
	    log.Fatal(err)
	}
	query, err := stmt.Emit(dialect.Default)
*/
package oql

import (
	"fmt"

	oqlerrors "oql/internal/errors"
	"oql/internal/schema"
)

// SelectItem is one resolved projection item. A nil Property means the
// whole entity is projected.
type SelectItem struct {
	From     *FromItem
	Property *schema.PropertyDescriptor
}

// OrderByItem is one resolved ORDER BY key.
type OrderByItem struct {
	From      *FromItem
	Property  *schema.PropertyDescriptor
	Ascending bool
}

// Statement is the parsed form of one OQL query. It owns its token array
// exclusively; the FromItem references inside tokens live only for the
// duration of the parse and the Statement's lifetime. Emit produces the
// self-contained ParsedQuery handed to consumers.
type Statement struct {
	source string
	schema schema.Schema
	tokens []*Token

	from        []*FromItem
	selectItems []SelectItem
	orderBy     []OrderByItem
	where       *Token
}

// Source returns the original OQL source.
func (s *Statement) Source() string {
	return s.source
}

// FromItems returns the FROM sources of the query.
func (s *Statement) FromItems() []*FromItem {
	return s.from
}

// SelectItems returns the resolved projection items.
func (s *Statement) SelectItems() []SelectItem {
	return s.selectItems
}

// OrderByItems returns the resolved ORDER BY keys.
func (s *Statement) OrderByItems() []OrderByItem {
	return s.orderBy
}

// clauseRanges holds the token index ranges computed by the splitter.
// End indices are exclusive; a start of -1 marks an absent clause.
type clauseRanges struct {
	selectStart, selectEnd int
	fromStart, fromEnd     int
	whereStart, whereEnd   int
	orderStart, orderEnd   int
}

// Parse tokenizes and parses the given OQL source against the schema.
// A parse is a pure function of (source, schema): it mutates only its own
// token array and leaves no global state behind, on success or failure.
func Parse(source string, sch schema.Schema) (*Statement, error) {
	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	s := &Statement{source: source, schema: sch, tokens: tokens}

	ranges, err := s.splitClauses()
	if err != nil {
		return nil, err
	}
	if err := s.parseFrom(tokens[ranges.fromStart:ranges.fromEnd]); err != nil {
		return nil, err
	}
	if err := s.parseSelect(ranges); err != nil {
		return nil, err
	}
	if ranges.whereStart >= 0 {
		where, err := s.reduceExpression(tokens[ranges.whereStart:ranges.whereEnd])
		if err != nil {
			return nil, err
		}
		s.where = where
	}
	if ranges.orderStart >= 0 {
		if err := s.parseOrderBy(tokens[ranges.orderStart:ranges.orderEnd]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// splitClauses locates the first occurrence of each top-level keyword and
// partitions the token array into clause ranges, validating their relative
// ordering.
func (s *Statement) splitClauses() (clauseRanges, error) {
	r := clauseRanges{selectStart: -1, fromStart: -1, whereStart: -1, orderStart: -1}

	selectPos, fromPos, wherePos, orderPos := -1, -1, -1, -1
	for i, tok := range s.tokens {
		if tok.Type != TokenKeyword {
			continue
		}
		switch tok.Keyword {
		case KeywordSelect:
			if selectPos < 0 {
				selectPos = i
			}
		case KeywordFrom:
			if fromPos < 0 {
				fromPos = i
			}
		case KeywordWhere:
			if wherePos < 0 {
				wherePos = i
			}
		case KeywordOrder:
			if orderPos < 0 {
				orderPos = i
			}
		}
	}

	if fromPos < 0 {
		return r, oqlerrors.MissingClause("FROM").AtPosition(s.source, len(s.source))
	}
	first := fromPos
	if selectPos >= 0 {
		if selectPos > fromPos {
			return r, oqlerrors.MisplacedClause("SELECT", "must precede FROM").
				AtPosition(s.source, s.tokens[selectPos].Pos)
		}
		if fromPos-selectPos < 2 {
			return r, oqlerrors.NewSyntaxError("empty SELECT clause").
				AtPosition(s.source, s.tokens[selectPos].Pos)
		}
		first = selectPos
	}
	if first > 0 {
		return r, errUnexpectedToken(s.source, s.tokens[0])
	}
	if wherePos >= 0 && wherePos < fromPos {
		return r, oqlerrors.MisplacedClause("WHERE", "must follow FROM").
			AtPosition(s.source, s.tokens[wherePos].Pos)
	}
	if orderPos >= 0 {
		if orderPos < fromPos {
			return r, oqlerrors.MisplacedClause("ORDER BY", "must follow FROM").
				AtPosition(s.source, s.tokens[orderPos].Pos)
		}
		if wherePos > orderPos {
			return r, oqlerrors.MisplacedClause("WHERE", "must precede ORDER BY").
				AtPosition(s.source, s.tokens[wherePos].Pos)
		}
		if orderPos+1 >= len(s.tokens) || s.tokens[orderPos+1].Keyword != KeywordBy {
			return r, oqlerrors.NewSyntaxError("ORDER must be followed by BY").
				AtPosition(s.source, s.tokens[orderPos].Pos)
		}
		if orderPos+2 >= len(s.tokens) {
			return r, oqlerrors.NewSyntaxError("empty ORDER BY clause").
				AtPosition(s.source, s.tokens[orderPos].Pos)
		}
	}

	end := len(s.tokens)
	if orderPos >= 0 {
		r.orderStart, r.orderEnd = orderPos+2, end
		end = orderPos
	}
	if wherePos >= 0 {
		if wherePos+1 >= end {
			return r, oqlerrors.NewSyntaxError("empty WHERE clause").
				AtPosition(s.source, s.tokens[wherePos].Pos)
		}
		r.whereStart, r.whereEnd = wherePos+1, end
		end = wherePos
	}
	if fromPos+1 >= end {
		return r, oqlerrors.NewSyntaxError("empty FROM clause").
			AtPosition(s.source, s.tokens[fromPos].Pos)
	}
	r.fromStart, r.fromEnd = fromPos+1, end
	if selectPos >= 0 {
		r.selectStart, r.selectEnd = selectPos+1, fromPos
	}
	return r, nil
}

// parseFrom interprets the FROM clause range: exactly one entity,
// optionally aliased with or without AS. The resolved entity name and
// alias are re-tagged across the whole token array so that later passes
// see Entity and Alias tokens instead of plain identifiers.
func (s *Statement) parseFrom(clause []*Token) error {
	entityTok := clause[0]
	if entityTok.Type != TokenIdent {
		return errUnexpectedToken(s.source, entityTok)
	}

	var alias string
	switch len(clause) {
	case 1:
		// Entity only.
	case 2:
		if clause[1].Type != TokenIdent {
			return errUnexpectedToken(s.source, clause[1])
		}
		alias = clause[1].Text
	case 3:
		if clause[1].Keyword != KeywordAs {
			return errUnexpectedToken(s.source, clause[1])
		}
		if clause[2].Type != TokenIdent {
			return errUnexpectedToken(s.source, clause[2])
		}
		alias = clause[2].Text
	default:
		return errUnexpectedToken(s.source, clause[3])
	}

	entity, err := s.schema.FindEntity(entityTok.Text)
	if err != nil {
		if qe, ok := err.(*oqlerrors.QueryError); ok {
			return qe.AtPosition(s.source, entityTok.Pos)
		}
		return err
	}

	item := &FromItem{
		EntityName: entityTok.Text,
		Entity:     entity,
		Alias:      alias,
		SQLAlias:   fmt.Sprintf("_t%d", len(s.from)+1),
	}
	s.from = append(s.from, item)

	for _, tok := range s.tokens {
		if tok.Type != TokenIdent {
			continue
		}
		switch tok.Text {
		case item.EntityName:
			tok.Type = TokenEntity
			tok.Entity = entity
		case alias:
			if alias != "" {
				tok.Type = TokenAlias
				tok.From = item
			}
		}
	}
	return nil
}

// findAlias returns the FromItem whose user alias matches the token.
func (s *Statement) findAlias(tok *Token) *FromItem {
	if tok.Type == TokenAlias {
		return tok.From
	}
	return nil
}

// parseSelect interprets the SELECT clause range. An absent clause
// defaults to a whole-entity projection of the sole FROM source. The item
// list permits either exactly one whole-entity item or one-or-more
// property items; mixing the two is an error.
func (s *Statement) parseSelect(ranges clauseRanges) error {
	if ranges.selectStart < 0 {
		s.selectItems = []SelectItem{{From: s.from[0]}}
		return nil
	}

	groups, err := s.splitOnCommas(s.tokens[ranges.selectStart:ranges.selectEnd])
	if err != nil {
		return err
	}

	wholeEntity := 0
	for _, group := range groups {
		item, err := s.parseSelectItem(group)
		if err != nil {
			return err
		}
		if item.Property == nil {
			wholeEntity++
		}
		s.selectItems = append(s.selectItems, item)
	}
	if wholeEntity > 0 && len(s.selectItems) > 1 {
		first := s.tokens[ranges.selectStart]
		return oqlerrors.NewSyntaxError(
			"whole-entity projection cannot be combined with other select items").
			AtPosition(s.source, first.Pos)
	}
	return nil
}

// parseSelectItem resolves one comma-separated projection item.
func (s *Statement) parseSelectItem(group []*Token) (SelectItem, error) {
	switch len(group) {
	case 1:
		tok := group[0]
		if item := s.findAlias(tok); item != nil {
			return SelectItem{From: item}, nil
		}
		if tok.Type == TokenIdent {
			prop, err := s.from[0].Entity.FindProperty(tok.Text)
			if err != nil {
				return SelectItem{}, err.(*oqlerrors.QueryError).AtPosition(s.source, tok.Pos)
			}
			return SelectItem{From: s.from[0], Property: prop}, nil
		}
	case 3:
		item := s.findAlias(group[0])
		if item != nil && group[1].Type == TokenDot && group[2].Type == TokenIdent {
			prop, err := item.Entity.FindProperty(group[2].Text)
			if err != nil {
				return SelectItem{}, err.(*oqlerrors.QueryError).AtPosition(s.source, group[2].Pos)
			}
			return SelectItem{From: item, Property: prop}, nil
		}
	}
	return SelectItem{}, errUnexpectedToken(s.source, group[0])
}

// parseOrderBy interprets the ORDER BY clause range: a comma-separated
// list of [alias .] property [ASC|DESC] items, ascending by default.
func (s *Statement) parseOrderBy(clause []*Token) error {
	groups, err := s.splitOnCommas(clause)
	if err != nil {
		return err
	}
	for _, group := range groups {
		ascending := true
		last := group[len(group)-1]
		if last.Keyword == KeywordAsc || last.Keyword == KeywordDesc {
			ascending = last.Keyword == KeywordAsc
			group = group[:len(group)-1]
			if len(group) == 0 {
				return errUnexpectedToken(s.source, last)
			}
		}

		item := s.from[0]
		var nameTok *Token
		switch len(group) {
		case 1:
			nameTok = group[0]
		case 3:
			if aliased := s.findAlias(group[0]); aliased != nil && group[1].Type == TokenDot {
				item = aliased
				nameTok = group[2]
			} else {
				return errUnexpectedToken(s.source, group[0])
			}
		default:
			return errUnexpectedToken(s.source, group[0])
		}
		if nameTok.Type != TokenIdent {
			return errUnexpectedToken(s.source, nameTok)
		}
		prop, err := item.Entity.FindProperty(nameTok.Text)
		if err != nil {
			return err.(*oqlerrors.QueryError).AtPosition(s.source, nameTok.Pos)
		}
		s.orderBy = append(s.orderBy, OrderByItem{From: item, Property: prop, Ascending: ascending})
	}
	return nil
}

// splitOnCommas partitions a clause range into comma-separated groups,
// rejecting empty groups.
func (s *Statement) splitOnCommas(clause []*Token) ([][]*Token, error) {
	var groups [][]*Token
	start := 0
	for i, tok := range clause {
		if tok.Type != TokenComma {
			continue
		}
		if i == start {
			return nil, errUnexpectedToken(s.source, tok)
		}
		groups = append(groups, clause[start:i])
		start = i + 1
	}
	if start >= len(clause) {
		last := clause[len(clause)-1]
		return nil, errUnexpectedToken(s.source, last)
	}
	groups = append(groups, clause[start:])
	return groups, nil
}
