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
Package schema contains the entity registry consulted during query parsing.

Schema Overview:
================

The schema is the engine's metadata registry. It maintains descriptors for
all mapped entities, including their table names and property definitions.

The registry serves several purposes:
 1. Entity name resolution during FROM parsing
 2. Property name resolution during SELECT, WHERE, and ORDER BY parsing
 3. Column enumeration for whole-entity projections
 4. Embedded-property flattening for dotted OQL paths

Embedded Properties:
====================

A property may be an embedded composite: its fields live in the parent
entity's table, and OQL reaches them through dotted paths that recurse
into the referenced entity's properties:

	Entity Customer -> property address (embedded, references Address)
	Entity Address  -> property zip (column home_zip)

	OQL:  c.address.zip
	SQL:  _t1.home_zip

Thread Safety:
==============

A Registry is built once and treated as immutable afterwards. Descriptors
are safe for concurrent read-only use by any number of parses.

Usage Example:
==============

	reg := schema.NewRegistry()
	reg.Entity("User", "users").
	    Property("id", "id").
	    Property("name", "name")
	ent, err := reg.FindEntity("User")
*/
package schema

import (
	oqlerrors "oql/internal/errors"
)

// Schema resolves entity names for the parser.
// Implementations must fail with an UnknownEntity error (SYNTAX category)
// for unknown names.
type Schema interface {
	// FindEntity returns the descriptor for the given entity name.
	FindEntity(name string) (*EntityDescriptor, error)
}

// PropertyDescriptor describes a single mapped property of an entity.
type PropertyDescriptor struct {
	PropertyName     string            // The OQL-visible property name
	ColumnName       string            // The mapped SQL column name
	Embedded         bool              // True for embedded composite properties
	ReferencedEntity *EntityDescriptor // Target entity; only meaningful when Embedded
}

// EntityDescriptor describes a mapped entity and its properties.
//
// Property order is significant: whole-entity projections emit columns
// in property-iteration order.
type EntityDescriptor struct {
	Name      string // The OQL-visible entity name
	TableName string // The mapped SQL table name

	properties []*PropertyDescriptor
	byName     map[string]*PropertyDescriptor
}

// PropertyCount returns the number of properties on the entity.
func (e *EntityDescriptor) PropertyCount() int {
	return len(e.properties)
}

// PropertyAt returns the property at the given iteration index.
func (e *EntityDescriptor) PropertyAt(i int) *PropertyDescriptor {
	return e.properties[i]
}

// FindProperty returns the property with the given name.
func (e *EntityDescriptor) FindProperty(name string) (*PropertyDescriptor, error) {
	if p, ok := e.byName[name]; ok {
		return p, nil
	}
	return nil, oqlerrors.UnknownProperty(name, e.Name)
}

// Registry is an in-memory Schema implementation with a fluent builder.
type Registry struct {
	entities map[string]*EntityDescriptor
	names    []string
}

// NewRegistry creates an empty entity registry.
func NewRegistry() *Registry {
	return &Registry{entities: make(map[string]*EntityDescriptor)}
}

// FindEntity implements the Schema interface.
func (r *Registry) FindEntity(name string) (*EntityDescriptor, error) {
	if e, ok := r.entities[name]; ok {
		return e, nil
	}
	return nil, oqlerrors.UnknownEntity(name)
}

// EntityNames returns the registered entity names in registration order.
func (r *Registry) EntityNames() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Entity registers a new entity and returns a builder for its properties.
// Registering the same name twice panics; registries are assembled from
// static mapping code where a duplicate is a programming error.
func (r *Registry) Entity(name, tableName string) *EntityBuilder {
	if _, ok := r.entities[name]; ok {
		panic(oqlerrors.DuplicateEntity(name))
	}
	e := &EntityDescriptor{
		Name:      name,
		TableName: tableName,
		byName:    make(map[string]*PropertyDescriptor),
	}
	r.entities[name] = e
	r.names = append(r.names, name)
	return &EntityBuilder{entity: e}
}

// EntityBuilder appends property definitions to an entity under construction.
type EntityBuilder struct {
	entity *EntityDescriptor
}

// Property adds a plain column-mapped property.
func (b *EntityBuilder) Property(name, columnName string) *EntityBuilder {
	b.add(&PropertyDescriptor{PropertyName: name, ColumnName: columnName})
	return b
}

// Embedded adds an embedded composite property referencing another entity.
// The referenced entity's columns live in this entity's table.
func (b *EntityBuilder) Embedded(name string, referenced *EntityDescriptor) *EntityBuilder {
	b.add(&PropertyDescriptor{
		PropertyName:     name,
		Embedded:         true,
		ReferencedEntity: referenced,
	})
	return b
}

// Build returns the finished descriptor.
func (b *EntityBuilder) Build() *EntityDescriptor {
	return b.entity
}

func (b *EntityBuilder) add(p *PropertyDescriptor) {
	if _, ok := b.entity.byName[p.PropertyName]; ok {
		panic(oqlerrors.NewSchemaError("property already defined: " + p.PropertyName))
	}
	b.entity.properties = append(b.entity.properties, p)
	b.entity.byName[p.PropertyName] = p
}
