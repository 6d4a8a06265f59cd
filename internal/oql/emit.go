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
Package oql contains the SQL emitter.

Emission walks the parsed clause structures and the WHERE tree and writes
the SQL string, consulting the dialect for identifier quoting and string
escaping:

	SELECT <projection> FROM <table> AS <sqlAlias>
	    [WHERE <condition>] [ORDER BY <field> [DESC], ...]

A whole-entity projection expands to every column of the entity in
property-iteration order (embedded composites flatten into their parent's
table) and records the projected entity on the ParsedQuery.

Condition emission assigns each named-parameter occurrence a 1-based
positional index in strict left-to-right order and replaces it with '?'.
An operator subtree wraps itself in parentheses exactly when its
precedence is lower than its parent's.
*/
package oql

import (
	"strings"

	"oql/internal/dialect"
	oqlerrors "oql/internal/errors"
	"oql/internal/schema"
)

// Emit renders the statement as SQL for the given dialect and returns the
// self-contained ParsedQuery. The statement is not modified; Emit may be
// called repeatedly, once per target dialect.
func (s *Statement) Emit(d dialect.Dialect) (*ParsedQuery, error) {
	q := newParsedQuery(s.source)
	var b strings.Builder

	b.WriteString("SELECT ")
	first := true
	for _, item := range s.selectItems {
		if item.Property == nil {
			q.Entity = item.From.Entity
			s.emitAllColumns(&b, item.From, item.From.Entity, d, &first, q)
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		s.emitColumn(&b, item.From, item.Property, d)
		q.ColCount++
	}

	from := s.from[0]
	b.WriteString(" FROM ")
	b.WriteString(d.QuoteIdentifier(from.Entity.TableName))
	b.WriteString(" AS ")
	b.WriteString(from.SQLAlias)

	if s.where != nil {
		b.WriteString(" WHERE ")
		if err := s.emitExpr(&b, s.where, 0, q, d); err != nil {
			return nil, err
		}
	}

	if len(s.orderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, item := range s.orderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			s.emitColumn(&b, item.From, item.Property, d)
			if !item.Ascending {
				b.WriteString(" DESC")
			}
		}
	}

	q.SQL = b.String()
	return q, nil
}

// emitColumn writes one sqlAlias.column reference.
func (s *Statement) emitColumn(b *strings.Builder, from *FromItem, prop *schema.PropertyDescriptor, d dialect.Dialect) {
	b.WriteString(from.SQLAlias)
	b.WriteByte('.')
	b.WriteString(d.QuoteIdentifier(prop.ColumnName))
}

// emitAllColumns expands a whole-entity projection in property-iteration
// order, flattening embedded composites into the parent's table alias.
func (s *Statement) emitAllColumns(b *strings.Builder, from *FromItem, entity *schema.EntityDescriptor, d dialect.Dialect, first *bool, q *ParsedQuery) {
	for i := 0; i < entity.PropertyCount(); i++ {
		prop := entity.PropertyAt(i)
		if prop.Embedded {
			s.emitAllColumns(b, from, prop.ReferencedEntity, d, first, q)
			continue
		}
		if !*first {
			b.WriteString(", ")
		}
		*first = false
		s.emitColumn(b, from, prop, d)
		q.ColCount++
	}
}

// emitExpr renders one node of the WHERE tree. parentPrec is the
// precedence of the enclosing operator; a subtree parenthesizes itself
// exactly when it binds weaker than its parent.
func (s *Statement) emitExpr(b *strings.Builder, tok *Token, parentPrec int, q *ParsedQuery, d dialect.Dialect) error {
	switch tok.Type {
	case TokenOpExpr:
		return s.emitOpExpr(b, tok, parentPrec, q, d)

	case TokenField:
		if tok.Property.Embedded {
			return errSyntax(s.source, tok.Pos,
				"embedded property "+tok.Text+" cannot be used as a value")
		}
		s.emitColumn(b, tok.From, tok.Property, d)
		return nil

	case TokenNumber:
		b.WriteString(tok.Text)
		return nil

	case TokenString:
		b.WriteString(d.QuoteString(tok.Text))
		return nil

	case TokenParameter:
		b.WriteByte('?')
		q.addParam(tok.Text)
		return nil

	default:
		return errUnexpectedToken(s.source, tok)
	}
}

// emitOpExpr renders a reduced operator expression.
func (s *Statement) emitOpExpr(b *strings.Builder, tok *Token, parentPrec int, q *ParsedQuery, d dialect.Dialect) error {
	prec := tok.Op.Precedence()
	if prec < parentPrec {
		b.WriteByte('(')
		defer b.WriteByte(')')
	}

	switch {
	case tok.Op.isPrefix() && len(tok.Children) == 1:
		b.WriteString(tok.Op.SQL())
		if tok.Op == OpNot {
			b.WriteByte(' ')
		}
		return s.emitExpr(b, tok.Children[0], prec, q, d)

	case tok.Op.isPostfix() && len(tok.Children) == 1:
		if err := s.emitExpr(b, tok.Children[0], prec, q, d); err != nil {
			return err
		}
		b.WriteByte(' ')
		b.WriteString(tok.Op.SQL())
		return nil

	case tok.Op == OpBetween && len(tok.Children) == 3:
		if err := s.emitExpr(b, tok.Children[0], prec, q, d); err != nil {
			return err
		}
		b.WriteString(" BETWEEN ")
		if err := s.emitExpr(b, tok.Children[1], prec, q, d); err != nil {
			return err
		}
		b.WriteString(" AND ")
		return s.emitExpr(b, tok.Children[2], prec, q, d)

	case tok.Op != OpNone && tok.Op != OpIs && tok.Op != OpIn && len(tok.Children) == 2:
		if err := s.emitExpr(b, tok.Children[0], prec, q, d); err != nil {
			return err
		}
		b.WriteByte(' ')
		b.WriteString(tok.Op.SQL())
		b.WriteByte(' ')
		return s.emitExpr(b, tok.Children[1], prec, q, d)

	default:
		return oqlerrors.NewSyntaxError("unexpected operator "+tok.Op.SQL()+" in emission").
			AtPosition(s.source, tok.Pos)
	}
}
