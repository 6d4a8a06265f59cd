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

	uuid "github.com/satori/go.uuid"

	oqlerrors "oql/internal/errors"
)

func TestRegistryPrepareAndGet(t *testing.T) {
	reg := NewStatementRegistry()
	stmt, err := reg.Prepare("byId", "FROM User WHERE id = :Id", testSchema(), testDialect())
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if uuid.Equal(stmt.ID, uuid.Nil) {
		t.Error("expected a statement handle")
	}
	if stmt.Query == nil || stmt.Query.ParameterCount() != 1 {
		t.Errorf("unexpected parsed query: %+v", stmt.Query)
	}

	got, err := reg.Get("byId")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != stmt {
		t.Error("Get returned a different statement")
	}
}

func TestRegistryDuplicateName(t *testing.T) {
	reg := NewStatementRegistry()
	if _, err := reg.Prepare("q", "FROM User", testSchema(), testDialect()); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	_, err := reg.Prepare("q", "FROM Customer", testSchema(), testDialect())
	if err == nil {
		t.Fatal("expected duplicate error, got nil")
	}
	if oqlerrors.GetCode(err) != oqlerrors.ErrCodeStatementExists {
		t.Errorf("expected statement-exists code, got %v", err)
	}
}

func TestRegistryPrepareRejectsBadQuery(t *testing.T) {
	reg := NewStatementRegistry()
	if _, err := reg.Prepare("bad", "WHERE 1", testSchema(), testDialect()); err == nil {
		t.Fatal("expected parse error, got nil")
	}
	if _, err := reg.Get("bad"); err == nil {
		t.Error("failed Prepare must not store a statement")
	}
}

func TestRegistryDeallocate(t *testing.T) {
	reg := NewStatementRegistry()
	if _, err := reg.Prepare("q", "FROM User", testSchema(), testDialect()); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := reg.Deallocate("q"); err != nil {
		t.Fatalf("Deallocate failed: %v", err)
	}
	if err := reg.Deallocate("q"); err == nil {
		t.Fatal("expected not-found error, got nil")
	}
	if oqlerrors.GetCode(reg.Deallocate("q")) != oqlerrors.ErrCodeStatementNotFound {
		t.Error("expected statement-not-found code")
	}
}

func TestRegistryListAndClear(t *testing.T) {
	reg := NewStatementRegistry()
	for _, name := range []string{"a", "b"} {
		if _, err := reg.Prepare(name, "FROM User", testSchema(), testDialect()); err != nil {
			t.Fatalf("Prepare failed: %v", err)
		}
	}
	if len(reg.List()) != 2 {
		t.Errorf("expected 2 statements, got %v", reg.List())
	}
	reg.Clear()
	if len(reg.List()) != 0 {
		t.Errorf("expected empty registry, got %v", reg.List())
	}
}
