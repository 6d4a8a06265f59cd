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
Package dialect provides SQL dialect configuration for the emitter.

A dialect is a pure value holding the quoting rules of one target database:
how identifiers are wrapped when they collide with reserved words, and how
string literals are quoted and escaped. The emitter consults the dialect for
every identifier and string it writes; nothing else about emission varies
per database.

Concrete dialects:

  - Default: MySQL-flavored. Back-tick identifier quoting, backslash string
    escapes ('a\'b', newline becomes \n).
  - ANSI: double-quote identifier quoting, embedded single quotes doubled.
  - SQLite: ANSI quoting rules with SQLite's reserved-word set.

Dialects hold no mutable state and are safe to share across goroutines.
*/
package dialect

import (
	"strings"

	oqlerrors "oql/internal/errors"
)

// Dialect supplies the quoting and escape rules for one target database.
type Dialect interface {
	// Name returns the dialect's registry name.
	Name() string
	// QuoteIdentifier wraps an identifier when the dialect requires it,
	// e.g. when the identifier is a reserved word.
	QuoteIdentifier(name string) string
	// QuoteString wraps a value in single quotes, escaping embedded
	// quotes, newlines, and backslashes per the dialect's rules.
	QuoteString(s string) string
}

// escapeStyle selects how QuoteString treats embedded special characters.
type escapeStyle int

const (
	// escapeBackslash uses MySQL-style backslash escapes.
	escapeBackslash escapeStyle = iota
	// escapeDoubling doubles embedded single quotes, ANSI style.
	escapeDoubling
)

// sqlDialect is the shared implementation behind the concrete dialects.
type sqlDialect struct {
	name       string
	identQuote string
	escape     escapeStyle
	reserved   map[string]struct{}
}

func (d *sqlDialect) Name() string {
	return d.name
}

// QuoteIdentifier wraps the identifier in the dialect's quote character
// when it is a reserved word or not a plain identifier. Plain identifiers
// pass through unchanged so emitted SQL stays readable.
func (d *sqlDialect) QuoteIdentifier(name string) string {
	if d.needsQuoting(name) {
		return d.identQuote + name + d.identQuote
	}
	return name
}

func (d *sqlDialect) needsQuoting(name string) bool {
	if name == "" {
		return true
	}
	if _, ok := d.reserved[strings.ToUpper(name)]; ok {
		return true
	}
	for i := 0; i < len(name); i++ {
		ch := name[i]
		alpha := ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
		digit := ch >= '0' && ch <= '9'
		if !alpha && !(digit && i > 0) {
			return true
		}
	}
	return false
}

func (d *sqlDialect) QuoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch d.escape {
		case escapeBackslash:
			switch ch {
			case '\'':
				b.WriteString(`\'`)
			case '\\':
				b.WriteString(`\\`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			default:
				b.WriteByte(ch)
			}
		case escapeDoubling:
			if ch == '\'' {
				b.WriteString("''")
			} else {
				b.WriteByte(ch)
			}
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// reservedWords builds a lookup set from an uppercase word list.
func reservedWords(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// commonReserved is the reserved-word core shared by all dialects.
var commonReserved = []string{
	"SELECT", "FROM", "WHERE", "ORDER", "BY", "GROUP", "HAVING",
	"AND", "OR", "NOT", "NULL", "IS", "IN", "LIKE", "BETWEEN",
	"JOIN", "INNER", "OUTER", "LEFT", "RIGHT", "ON", "AS",
	"INSERT", "UPDATE", "DELETE", "INTO", "VALUES", "SET",
	"CREATE", "DROP", "TABLE", "INDEX", "ASC", "DESC",
	"UNION", "ALL", "DISTINCT", "CASE", "WHEN", "THEN", "ELSE", "END",
}

// Default is the MySQL-flavored dialect the engine emits with when the
// caller does not choose one.
var Default Dialect = &sqlDialect{
	name:       "default",
	identQuote: "`",
	escape:     escapeBackslash,
	reserved: reservedWords(append([]string{
		"DIV", "MOD", "KEY", "SHOW", "USE", "DATABASE",
	}, commonReserved...)...),
}

// ANSI emits standard SQL quoting: double-quoted identifiers and doubled
// single quotes inside string literals.
var ANSI Dialect = &sqlDialect{
	name:       "ansi",
	identQuote: `"`,
	escape:     escapeDoubling,
	reserved:   reservedWords(commonReserved...),
}

// SQLite follows the ANSI quoting rules with SQLite's reserved words.
var SQLite Dialect = &sqlDialect{
	name:       "sqlite",
	identQuote: `"`,
	escape:     escapeDoubling,
	reserved: reservedWords(append([]string{
		"GLOB", "REGEXP", "ISNULL", "NOTNULL", "AUTOINCREMENT",
	}, commonReserved...)...),
}

// ByName returns the dialect registered under the given name.
func ByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "", "default", "mysql":
		return Default, nil
	case "ansi":
		return ANSI, nil
	case "sqlite":
		return SQLite, nil
	}
	return nil, oqlerrors.NewSyntaxError("unknown dialect: " + name)
}
