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
Package oql contains the StatementRegistry for query translation reuse.

Prepared Statements Overview:
=============================

A query is parsed and emitted once, then executed many times with
different parameter values. The registry holds the translated queries
under caller-chosen names:

 1. Prepare: parse and emit an OQL query, store the ParsedQuery
 2. Get: retrieve the ParsedQuery and Bind fresh values per execution
 3. Deallocate: remove the statement when no longer needed

Each statement also carries a server-assignable UUID handle, so callers
that hand statements across a wire protocol can reference them without
trusting client-chosen names.
*/
package oql

import (
	"sync"

	uuid "github.com/satori/go.uuid"

	"oql/internal/dialect"
	oqlerrors "oql/internal/errors"
	"oql/internal/schema"
)

// PreparedStatement is one named, translated query held by the registry.
type PreparedStatement struct {
	ID    uuid.UUID    // Statement handle
	Name  string       // Statement name
	Query *ParsedQuery // Translated query with its parameter plan
}

// StatementRegistry manages prepared statements. It is safe for
// concurrent use.
type StatementRegistry struct {
	mu         sync.RWMutex
	statements map[string]*PreparedStatement
}

// NewStatementRegistry creates an empty statement registry.
func NewStatementRegistry() *StatementRegistry {
	return &StatementRegistry{
		statements: make(map[string]*PreparedStatement),
	}
}

// Prepare parses and emits a query and stores it under the given name.
func (r *StatementRegistry) Prepare(name, source string, sch schema.Schema, d dialect.Dialect) (*PreparedStatement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.statements[name]; exists {
		return nil, oqlerrors.StatementAlreadyExists(name)
	}

	stmt, err := Parse(source, sch)
	if err != nil {
		return nil, err
	}
	query, err := stmt.Emit(d)
	if err != nil {
		return nil, err
	}

	prepared := &PreparedStatement{
		ID:    uuid.NewV4(),
		Name:  name,
		Query: query,
	}
	r.statements[name] = prepared
	return prepared, nil
}

// Get retrieves a prepared statement by name.
func (r *StatementRegistry) Get(name string) (*PreparedStatement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stmt, exists := r.statements[name]
	if !exists {
		return nil, oqlerrors.StatementNotFound(name)
	}
	return stmt, nil
}

// Deallocate removes a prepared statement.
func (r *StatementRegistry) Deallocate(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.statements[name]; !exists {
		return oqlerrors.StatementNotFound(name)
	}
	delete(r.statements, name)
	return nil
}

// List returns all prepared statement names.
func (r *StatementRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.statements))
	for name := range r.statements {
		names = append(names, name)
	}
	return names
}

// Clear removes all prepared statements.
func (r *StatementRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statements = make(map[string]*PreparedStatement)
}
