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
Package oql contains the ParsedQuery output type and parameter binding.

ParsedQuery:
============

A ParsedQuery is the self-contained result of emission: the original OQL
source, the emitted SQL, the parameter plan, and the projection metadata.
It holds no reference back to the parser and is immutable after emission,
so it is safe to share across goroutines for read-only use.

Parameter Plan:
===============

Named parameters may repeat in the source; each occurrence receives the
next 1-based positional index in left-to-right emission order:

	FROM User WHERE id = :p1 OR id = :p2 OR id = :p1
	-> p1 [1 3], p2 [2]

Concatenating all index lists in ascending order always yields 1..n,
where n is the number of '?' placeholders in the SQL.

Binding:
========

	values := query.Bind()
	values.Set("p1", 42)
	values.Set("p2", 99)
	var w oql.SliceWriter
	err := values.Apply(&w)   // w.Values == [42, 99, 42]

Apply refuses to run while any parameter is unbound. A ParameterValues
instance is mutable and not safe for concurrent mutation; give each
operation its own.
*/
package oql

import (
	oqlerrors "oql/internal/errors"
	"oql/internal/schema"
)

// ParsedQuery is the immutable result of emitting a Statement.
type ParsedQuery struct {
	// Source is the original OQL query string.
	Source string
	// SQL is the emitted SQL statement with '?' placeholders.
	SQL string
	// Entity is the projected entity for whole-entity projections,
	// nil for field projections.
	Entity *schema.EntityDescriptor
	// ColCount is the number of projected columns.
	ColCount int

	paramNames   []string
	paramIndexes map[string][]int
	paramTotal   int
}

// newParsedQuery creates an empty ParsedQuery for the given source.
func newParsedQuery(source string) *ParsedQuery {
	return &ParsedQuery{
		Source:       source,
		paramIndexes: make(map[string][]int),
	}
}

// addParam records one occurrence of a named parameter and returns its
// 1-based positional index. Indices are assigned in strict emission
// order; repeated names accumulate multiple indices.
func (q *ParsedQuery) addParam(name string) int {
	if _, ok := q.paramIndexes[name]; !ok {
		q.paramNames = append(q.paramNames, name)
	}
	q.paramTotal++
	q.paramIndexes[name] = append(q.paramIndexes[name], q.paramTotal)
	return q.paramTotal
}

// ParameterNames returns the parameter names in first-occurrence order.
func (q *ParsedQuery) ParameterNames() []string {
	names := make([]string, len(q.paramNames))
	copy(names, q.paramNames)
	return names
}

// ParameterIndexes returns the 1-based positional indices of the named
// parameter, or nil when the query has no such parameter.
func (q *ParsedQuery) ParameterIndexes(name string) []int {
	indexes, ok := q.paramIndexes[name]
	if !ok {
		return nil
	}
	out := make([]int, len(indexes))
	copy(out, indexes)
	return out
}

// ParameterCount returns the number of '?' placeholders in the SQL.
func (q *ParsedQuery) ParameterCount() int {
	return q.paramTotal
}

// Bind creates a fresh ParameterValues for one execution of the query.
func (q *ParsedQuery) Bind() *ParameterValues {
	unbound := make(map[string]struct{}, len(q.paramNames))
	for _, name := range q.paramNames {
		unbound[name] = struct{}{}
	}
	return &ParameterValues{
		query:   q,
		values:  make(map[string]interface{}, len(q.paramNames)),
		unbound: unbound,
	}
}

// StatementWriter receives positional parameter values, typically backed
// by a database driver's prepared statement.
type StatementWriter interface {
	// SetValue binds a value to the 1-based positional index.
	SetValue(index int, value interface{}) error
}

// SliceWriter is a StatementWriter collecting values into a positional
// slice, ready to pass to database/sql as Exec(w.Values...).
type SliceWriter struct {
	Values []interface{}
}

// SetValue implements StatementWriter.
func (w *SliceWriter) SetValue(index int, value interface{}) error {
	if index < 1 {
		return oqlerrors.NewBindError("positional index must be 1-based")
	}
	for len(w.Values) < index {
		w.Values = append(w.Values, nil)
	}
	w.Values[index-1] = value
	return nil
}

// ParameterValues carries the caller-supplied values for one execution.
type ParameterValues struct {
	query   *ParsedQuery
	values  map[string]interface{}
	unbound map[string]struct{}
}

// Set binds a value to a named parameter. The name must exist in the
// query's parameter plan.
func (pv *ParameterValues) Set(name string, value interface{}) error {
	if _, ok := pv.query.paramIndexes[name]; !ok {
		return oqlerrors.UnknownParameter(name)
	}
	pv.values[name] = value
	delete(pv.unbound, name)
	return nil
}

// CheckAllBound fails with a BindError listing every parameter that is
// still missing a value.
func (pv *ParameterValues) CheckAllBound() error {
	if len(pv.unbound) == 0 {
		return nil
	}
	var missing []string
	for _, name := range pv.query.paramNames {
		if _, ok := pv.unbound[name]; ok {
			missing = append(missing, name)
		}
	}
	return oqlerrors.UnboundParameters(missing)
}

// Apply writes every bound value to the writer, once per positional
// occurrence. Parameters are applied in first-occurrence order with
// ascending indices per name, so driver calls are deterministic.
func (pv *ParameterValues) Apply(w StatementWriter) error {
	if err := pv.CheckAllBound(); err != nil {
		return err
	}
	for _, name := range pv.query.paramNames {
		value := pv.values[name]
		for _, index := range pv.query.paramIndexes[name] {
			if err := w.SetValue(index, value); err != nil {
				return err
			}
		}
	}
	return nil
}
