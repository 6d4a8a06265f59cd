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
	"reflect"
	"testing"

	oqlerrors "oql/internal/errors"
)

func TestParameterIndexAccumulation(t *testing.T) {
	q := newParsedQuery("FROM User where id = :p1 or id = :p2")
	for _, name := range []string{"p1", "p2", "p1", "p1", "p3", "p2"} {
		q.addParam(name)
	}

	tests := []struct {
		name string
		want []int
	}{
		{"p1", []int{1, 3, 4}},
		{"p2", []int{2, 6}},
		{"p3", []int{5}},
	}
	for _, tt := range tests {
		if got := q.ParameterIndexes(tt.name); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
	if q.ParameterCount() != 6 {
		t.Errorf("Expected 6 occurrences, got %d", q.ParameterCount())
	}
	if names := q.ParameterNames(); !reflect.DeepEqual(names, []string{"p1", "p2", "p3"}) {
		t.Errorf("Expected first-occurrence order, got %v", names)
	}
}

func TestBindUnknownParameter(t *testing.T) {
	query := emit(t, "FROM User WHERE id = :p1")
	values := query.Bind()
	err := values.Set("nope", 1)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !oqlerrors.IsBindError(err) {
		t.Errorf("expected bind error, got %v", err)
	}
}

func TestCheckAllBound(t *testing.T) {
	query := emit(t, "FROM User WHERE id = :p1 OR flags = :p2")
	values := query.Bind()

	err := values.CheckAllBound()
	if err == nil {
		t.Fatal("expected unbound error, got nil")
	}
	if oqlerrors.GetCode(err) != oqlerrors.ErrCodeUnboundParameter {
		t.Errorf("expected unbound-parameter code, got %v", err)
	}

	if err := values.Set("p1", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := values.CheckAllBound(); err == nil {
		t.Fatal("expected p2 still unbound")
	}
	if err := values.Set("p2", 2); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := values.CheckAllBound(); err != nil {
		t.Errorf("expected all bound, got %v", err)
	}
}

func TestApplyWritesEveryOccurrence(t *testing.T) {
	query := emit(t, "FROM User where id = :p1 or id = :p2 or id = :p1")
	values := query.Bind()
	if err := values.Set("p1", 42); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := values.Set("p2", "x"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	var w SliceWriter
	if err := values.Apply(&w); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	want := []interface{}{42, "x", 42}
	if !reflect.DeepEqual(w.Values, want) {
		t.Errorf("Expected %v, got %v", want, w.Values)
	}
}

func TestApplyRefusesUnbound(t *testing.T) {
	query := emit(t, "FROM User WHERE id = :p1")
	values := query.Bind()
	var w SliceWriter
	err := values.Apply(&w)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !oqlerrors.IsBindError(err) {
		t.Errorf("expected bind error, got %v", err)
	}
	if len(w.Values) != 0 {
		t.Errorf("writer must stay untouched, got %v", w.Values)
	}
}

func TestSliceWriterRejectsBadIndex(t *testing.T) {
	var w SliceWriter
	if err := w.SetValue(0, "x"); err == nil {
		t.Error("expected error for index 0")
	}
	if err := w.SetValue(2, "b"); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}
	if len(w.Values) != 2 || w.Values[1] != "b" {
		t.Errorf("unexpected writer state: %v", w.Values)
	}
}

func TestRebindIsIndependent(t *testing.T) {
	query := emit(t, "FROM User WHERE id = :p1")
	first := query.Bind()
	if err := first.Set("p1", 1); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	second := query.Bind()
	if err := second.CheckAllBound(); err == nil {
		t.Error("fresh binding must start unbound")
	}
}
