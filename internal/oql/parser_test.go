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
	"testing"

	oqlerrors "oql/internal/errors"
	"oql/internal/schema"
)

// testSchema returns the registry the parser tests resolve against:
// User (id, name, flags) and Customer with an embedded address.
func testSchema() *schema.Registry {
	return schema.Demo()
}

func TestParseFullQuery(t *testing.T) {
	input := "SELECT a FROM User AS a WHERE id = :Id AND name != :skipName OR name IS NULL" +
		" AND a.flags IS NOT NULL ORDER BY name, a.flags DESC"
	stmt, err := Parse(input, testSchema())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(stmt.from) != 1 {
		t.Fatalf("Expected 1 from item, got %d", len(stmt.from))
	}
	from := stmt.from[0]
	if from.EntityName != "User" || from.Alias != "a" || from.SQLAlias != "_t1" {
		t.Errorf("Unexpected from item: %+v", from)
	}
	if from.Entity == nil || from.Entity.TableName != "users" {
		t.Errorf("Entity not resolved: %+v", from.Entity)
	}

	if len(stmt.selectItems) != 1 || stmt.selectItems[0].Property != nil {
		t.Fatalf("Expected one whole-entity select item, got %+v", stmt.selectItems)
	}
	if stmt.selectItems[0].From != from {
		t.Error("Select item not bound to the from item")
	}

	if len(stmt.orderBy) != 2 {
		t.Fatalf("Expected 2 order-by items, got %d", len(stmt.orderBy))
	}
	if stmt.orderBy[0].Property.PropertyName != "name" || !stmt.orderBy[0].Ascending {
		t.Errorf("Unexpected first order-by item: %+v", stmt.orderBy[0])
	}
	if stmt.orderBy[1].Property.PropertyName != "flags" || stmt.orderBy[1].Ascending {
		t.Errorf("Unexpected second order-by item: %+v", stmt.orderBy[1])
	}

	query, err := stmt.Emit(testDialect())
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	names := query.ParameterNames()
	if len(names) != 2 || names[0] != "Id" || names[1] != "skipName" {
		t.Errorf("Expected parameters [Id skipName], got %v", names)
	}
}

func TestParseFromForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
		alias string
	}{
		{"entity only", "FROM User", ""},
		{"bare alias", "FROM User u", "u"},
		{"AS alias", "FROM User AS u", "u"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := Parse(tt.input, testSchema())
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if stmt.from[0].Alias != tt.alias {
				t.Errorf("Expected alias %q, got %q", tt.alias, stmt.from[0].Alias)
			}
			if stmt.from[0].SQLAlias != "_t1" {
				t.Errorf("Expected SQL alias _t1, got %q", stmt.from[0].SQLAlias)
			}
		})
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing FROM", "WHERE id = 1"},
		{"empty FROM", "FROM"},
		{"empty SELECT", "SELECT FROM User"},
		{"SELECT after FROM", "FROM User SELECT a"},
		{"WHERE before FROM", "WHERE id = 1 FROM User"},
		{"ORDER before FROM", "ORDER BY id FROM User"},
		{"ORDER without BY", "FROM User ORDER id"},
		{"empty ORDER BY", "FROM User ORDER BY"},
		{"empty WHERE", "FROM User WHERE"},
		{"WHERE after ORDER BY", "FROM User ORDER BY id WHERE id = 1"},
		{"unknown entity", "FROM Unicorn"},
		{"two entities", "FROM User Customer extra"},
		{"alias is a number", "FROM User AS 5"},
		{"unknown select property", "SELECT missing FROM User"},
		{"mixed projection", "SELECT a, name FROM User a"},
		{"two whole entities", "SELECT a, a FROM User a"},
		{"empty select item", "SELECT id,, name FROM User"},
		{"trailing comma", "SELECT id, FROM User"},
		{"unknown order property", "FROM User ORDER BY missing"},
		{"order item only direction", "FROM User ORDER BY DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input, testSchema())
			if err == nil {
				t.Fatalf("expected error for %q, got nil", tt.input)
			}
			if !oqlerrors.IsSyntaxError(err) {
				t.Errorf("expected syntax error, got %v", err)
			}
		})
	}
}

func TestParseSelectFieldList(t *testing.T) {
	stmt, err := Parse("SELECT name, a.id FROM User AS a", testSchema())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(stmt.selectItems) != 2 {
		t.Fatalf("Expected 2 select items, got %d", len(stmt.selectItems))
	}
	if stmt.selectItems[0].Property.PropertyName != "name" {
		t.Errorf("Expected property name, got %+v", stmt.selectItems[0].Property)
	}
	if stmt.selectItems[1].Property.PropertyName != "id" {
		t.Errorf("Expected property id, got %+v", stmt.selectItems[1].Property)
	}
	for _, item := range stmt.selectItems {
		if item.From != stmt.from[0] {
			t.Error("Select item not bound to the sole from item")
		}
	}
}

func TestParseDefaultsToWholeEntity(t *testing.T) {
	stmt, err := Parse("FROM User", testSchema())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(stmt.selectItems) != 1 || stmt.selectItems[0].Property != nil {
		t.Fatalf("Expected default whole-entity projection, got %+v", stmt.selectItems)
	}
}

func TestParseOrderByDirections(t *testing.T) {
	stmt, err := Parse("FROM User u ORDER BY id ASC, u.name DESC, flags", testSchema())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []struct {
		prop string
		asc  bool
	}{
		{"id", true},
		{"name", false},
		{"flags", true},
	}
	if len(stmt.orderBy) != len(want) {
		t.Fatalf("Expected %d order-by items, got %d", len(want), len(stmt.orderBy))
	}
	for i, w := range want {
		item := stmt.orderBy[i]
		if item.Property.PropertyName != w.prop || item.Ascending != w.asc {
			t.Errorf("item %d: expected (%s, asc=%v), got (%s, asc=%v)",
				i, w.prop, w.asc, item.Property.PropertyName, item.Ascending)
		}
	}
}

func TestEntityAndAliasRetagging(t *testing.T) {
	stmt, err := Parse("SELECT a FROM User a WHERE a.id = 1", testSchema())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var sawEntity, sawAlias bool
	for _, tok := range stmt.tokens {
		switch tok.Type {
		case TokenEntity:
			sawEntity = true
			if tok.Entity == nil || tok.Entity.Name != "User" {
				t.Errorf("Entity token missing descriptor: %s", tok)
			}
		case TokenAlias:
			sawAlias = true
			if tok.From != stmt.from[0] {
				t.Errorf("Alias token not bound to the from item: %s", tok)
			}
		}
	}
	if !sawEntity {
		t.Error("Entity name token was not re-tagged")
	}
	if !sawAlias {
		t.Error("Alias tokens were not re-tagged")
	}
}
